// Package api is the wire-level transport to the upstream portals. It
// attaches whatever cookies and headers the caller assembled, enforces a
// deadline, and hands back the raw response; it does no parsing and keeps no
// cookie jar, so concurrent upstream identities never share session state.
package api

import (
	"context"
	"net"
	"net/http"
	"time"

	"github.com/go-faster/errors"
	"github.com/go-resty/resty/v2"
	"github.com/sirupsen/logrus"

	"github.com/iptvdesk/go-portal-client/portal/util"
)

var logger = logrus.WithField("component", "portal.api")

// Browser identity presented to both upstreams. Their bot mitigation
// rejects requests without a plausible User-Agent and Referer/Origin pair.
const userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

const defaultTimeout = 10 * time.Second

// Request is one fully assembled upstream exchange.
type Request struct {
	Method  string
	URL     string
	Referer string
	Origin  string
	Header  map[string]string
	Form    map[string]string
	Cookies []*http.Cookie

	// NoRedirect keeps the redirect response itself, whose Location header
	// is the payload for the redirect-code protocol.
	NoRedirect bool
	Timeout    time.Duration
}

// Response is the raw wire result.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte

	// Location is the redirect target when NoRedirect was set and the
	// upstream answered with a redirect.
	Location string
}

// OK reports a 2xx status.
func (r *Response) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// AsError converts a non-success response into a RequestError.
func (r *Response) AsError() error {
	return &RequestError{StatusCode: r.StatusCode, Body: string(r.Body)}
}

type Transport interface {
	Send(ctx context.Context, req Request) (*Response, error)
}

type transport struct {
	follow   *resty.Client
	noFollow *resty.Client
}

// New builds the resty-backed transport. Two underlying clients are kept
// because redirect policy is a client-level setting in resty.
func New() Transport {
	follow := resty.New()
	noFollow := resty.New().SetRedirectPolicy(
		resty.RedirectPolicyFunc(func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		}))

	for _, c := range []*resty.Client{follow, noFollow} {
		c.SetCookieJar(nil)
		c.SetHeader("User-Agent", userAgent)
		if util.HTTPTraceEnabled() {
			c.SetDebug(true)
		}
	}
	return &transport{follow: follow, noFollow: noFollow}
}

func (t *transport) Send(ctx context.Context, req Request) (*Response, error) {
	timeout := req.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	client := t.follow
	if req.NoRedirect {
		client = t.noFollow
	}

	r := client.R().SetContext(ctx)
	if util.DebugEnabled() {
		r.EnableTrace()
	}
	if req.Referer != "" {
		r.SetHeader("Referer", req.Referer)
	}
	if req.Origin != "" {
		r.SetHeader("Origin", req.Origin)
	}
	for k, v := range req.Header {
		r.SetHeader(k, v)
	}
	if len(req.Cookies) > 0 {
		r.SetCookies(req.Cookies)
	}
	if len(req.Form) > 0 {
		r.SetFormData(req.Form)
	}

	logger.WithFields(logrus.Fields{
		"method": req.Method,
		"url":    req.URL,
	}).Debug("upstream request")

	resp, err := r.Execute(req.Method, req.URL)
	if err != nil {
		return nil, wrapNetError(err)
	}

	if util.DebugEnabled() {
		ti := resp.Request.TraceInfo()
		logger.WithFields(logrus.Fields{
			"method":   req.Method,
			"url":      req.URL,
			"status":   resp.StatusCode(),
			"total":    ti.TotalTime,
			"connTime": ti.ConnTime,
			"reused":   ti.IsConnReused,
		}).Debug("upstream response")
	}

	out := &Response{
		StatusCode: resp.StatusCode(),
		Header:     resp.Header(),
		Body:       resp.Body(),
	}
	if req.NoRedirect {
		out.Location = resp.Header().Get("Location")
	}
	return out, nil
}

func wrapNetError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return errors.Wrap(ErrTimeout, err.Error())
	}
	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() {
		return errors.Wrap(ErrTimeout, err.Error())
	}
	return errors.Wrap(ErrConnection, err.Error())
}
