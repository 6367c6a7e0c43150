// Package scrape turns the upstreams' server-rendered HTML into typed
// records. Every lookup runs through an ordered candidate-selector chain
// because the same logical page renders under different identifier
// namespaces depending on how it was reached.
package scrape

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/sirupsen/logrus"

	"github.com/iptvdesk/go-portal-client/portal/model"
)

var logger = logrus.WithField("component", "portal.scrape")

// FormState holds the hidden fields a server-rendered form expects back on
// the next submission. It is scoped to exactly one page fetch; a fresh GET
// can regenerate validation tokens, so a FormState is never reused.
type FormState map[string]string

// FieldSpec names one hidden field and the selectors it may render under,
// tried in order.
type FieldSpec struct {
	Name      string
	Selectors []string
	Mandatory bool
}

// FormSpec describes how to recognize one upstream form page. Anchor
// selectors prove the page actually carries the form: when none of them
// match, the upstream served something else (usually its login page) and the
// caller's session is gone.
type FormSpec struct {
	Anchor []string
	Fields []FieldSpec

	// CollectHidden captures every hidden input on the page in addition to
	// the named fields, for forms whose hidden set is not fixed.
	CollectHidden bool
}

// WebFormsPage is the ASP.NET postback state: the view-state blob is
// mandatory, the generator and validation fields travel along when present.
var WebFormsPage = FormSpec{
	Anchor: []string{"#__VIEWSTATE", `input[name="__VIEWSTATE"]`},
	Fields: []FieldSpec{
		{Name: "__VIEWSTATE", Selectors: []string{"#__VIEWSTATE", `input[name="__VIEWSTATE"]`}, Mandatory: true},
		{Name: "__VIEWSTATEGENERATOR", Selectors: []string{"#__VIEWSTATEGENERATOR", `input[name="__VIEWSTATEGENERATOR"]`}},
		{Name: "__EVENTVALIDATION", Selectors: []string{"#__EVENTVALIDATION", `input[name="__EVENTVALIDATION"]`}},
	},
}

// ActivationCodePage anchors on the code input itself; when the session has
// expired the portal serves its login page, which has no such field. All
// hidden inputs are replayed on the following POST.
var ActivationCodePage = FormSpec{
	Anchor:        []string{`input[name="Code"]`, "#code"},
	CollectHidden: true,
}

// ExtractFormState pulls the hidden fields described by spec out of one page
// fetch. A page that does not carry the form at all maps to
// model.ErrNoSession, the primary stale-session signal.
func ExtractFormState(html string, spec FormSpec) (FormState, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, &model.ParseError{Detail: err.Error()}
	}

	if firstMatch(doc, spec.Anchor) == nil {
		logger.Debug("form anchor not found, treating session as expired")
		return nil, model.ErrNoSession
	}

	state := FormState{}
	for _, f := range spec.Fields {
		sel := firstMatch(doc, f.Selectors)
		if sel == nil {
			if f.Mandatory {
				return nil, model.ErrNoSession
			}
			continue
		}
		v, ok := sel.Attr("value")
		if !ok || v == "" {
			if f.Mandatory {
				return nil, model.ErrNoSession
			}
			continue
		}
		state[f.Name] = v
	}

	if spec.CollectHidden {
		doc.Find(`input[type="hidden"]`).Each(func(_ int, s *goquery.Selection) {
			name, _ := s.Attr("name")
			if name == "" {
				return
			}
			if _, taken := state[name]; taken {
				return
			}
			state[name], _ = s.Attr("value")
		})
	}

	return state, nil
}

func firstMatch(doc *goquery.Document, selectors []string) *goquery.Selection {
	for _, sel := range selectors {
		if s := doc.Find(sel); s.Length() > 0 {
			return s.First()
		}
	}
	return nil
}
