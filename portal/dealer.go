package portal

import (
	"context"
	"net/http"

	"github.com/go-faster/errors"
	log "github.com/sirupsen/logrus"

	"github.com/iptvdesk/go-portal-client/portal/api"
	"github.com/iptvdesk/go-portal-client/portal/model"
	"github.com/iptvdesk/go-portal-client/portal/mutex"
	"github.com/iptvdesk/go-portal-client/portal/scrape"
)

const (
	checkPagePath = "/frmCheck.aspx"
	homePagePath  = "/frmHome.aspx"

	serialField = "ctl00$ContentPlaceHolder1$tbSerial"
	checkButton = "ctl00$ContentPlaceHolder1$btnCheck"
)

// DealerService covers the ASP.NET dealer portal. Serial checks are
// read-only and safe to retry; the WebForms postback cycle still gets
// serialized per dealer session because concurrent postbacks race on
// server-side view-state generation.
type DealerService interface {
	// CheckSerial looks up the card status for a smart-card serial.
	CheckSerial(ctx context.Context, tokens model.DealerTokens, serial string) (*model.CardStatus, error)
	// DashboardStats reads the dealer name and account balance from the
	// portal home page.
	DashboardStats(ctx context.Context, tokens model.DealerTokens) (*model.DealerStats, error)
}

type dealer struct {
	transport api.Transport
	endpoints Endpoints
	locks     *mutex.Keyed[string]
}

func NewDealerService(transport api.Transport, endpoints Endpoints) DealerService {
	return &dealer{
		transport: transport,
		endpoints: endpoints,
		locks:     &mutex.Keyed[string]{},
	}
}

func (s *dealer) CheckSerial(ctx context.Context, tokens model.DealerTokens, serial string) (*model.CardStatus, error) {
	if err := validate.Var(serial, "required,numeric"); err != nil {
		return nil, errors.Wrap(model.ErrInvalidInput, "serial must be numeric")
	}
	if !tokens.Valid() {
		return nil, model.ErrNoSession
	}

	s.locks.Lock(tokens.Identity())
	defer s.locks.Unlock(tokens.Identity())

	log.Debugf("Checking card serial %s", serial)

	pageURL := s.endpoints.DealerBase + checkPagePath
	resp, err := s.transport.Send(ctx, api.Request{
		Method:  http.MethodGet,
		URL:     pageURL,
		Referer: pageURL,
		Origin:  s.endpoints.dealerOrigin(),
		Cookies: tokens.Cookies(),
		Timeout: lookupTimeout,
	})
	if err != nil {
		return nil, err
	}
	if !resp.OK() {
		return nil, resp.AsError()
	}

	state, err := scrape.ExtractFormState(string(resp.Body), scrape.WebFormsPage)
	if err != nil {
		return nil, err
	}

	form := map[string]string{
		serialField: serial,
		checkButton: "Check",
	}
	for k, v := range state {
		form[k] = v
	}

	post, err := s.transport.Send(ctx, api.Request{
		Method:  http.MethodPost,
		URL:     pageURL,
		Referer: pageURL,
		Origin:  s.endpoints.dealerOrigin(),
		Form:    form,
		Cookies: tokens.Cookies(),
		Timeout: lookupTimeout,
	})
	if err != nil {
		return nil, err
	}
	if !post.OK() {
		return nil, post.AsError()
	}

	return scrape.ExtractCardStatus(string(post.Body))
}

func (s *dealer) DashboardStats(ctx context.Context, tokens model.DealerTokens) (*model.DealerStats, error) {
	if !tokens.Valid() {
		return nil, model.ErrNoSession
	}

	pageURL := s.endpoints.DealerBase + homePagePath
	resp, err := s.transport.Send(ctx, api.Request{
		Method:  http.MethodGet,
		URL:     pageURL,
		Referer: pageURL,
		Origin:  s.endpoints.dealerOrigin(),
		Cookies: tokens.Cookies(),
		Timeout: lookupTimeout,
	})
	if err != nil {
		return nil, err
	}
	if !resp.OK() {
		return nil, resp.AsError()
	}

	return scrape.ExtractDealerStats(string(resp.Body))
}
