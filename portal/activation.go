package portal

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-faster/errors"
	log "github.com/sirupsen/logrus"

	"github.com/iptvdesk/go-portal-client/portal/api"
	"github.com/iptvdesk/go-portal-client/portal/model"
	"github.com/iptvdesk/go-portal-client/portal/qr"
	"github.com/iptvdesk/go-portal-client/portal/scrape"
)

const (
	activationCodePath = "/Activation/Sous-Resseler/Activation_Code"
	changePasswordPath = "/Activation/Sous-Resseler/Change"
	passwordPagePath   = "/Activation/Sous-Resseler/Change_Password"
	twoFactorPath      = "/Activation/Sous-Resseler/Update_2FA"
	twoFactorPagePath  = "/Activation/Sous-Resseler/2FA"
	activeCodesPath    = "/Activation/Sous-Resseler/get_Active_code"
	qrCodePath         = "/Activation/Sous-Resseler/get_qrcode"
	historyPath        = "/Activation/Sous-Resseler/get_connection_history"
	historyPagePath    = "/Activation/Sous-Resseler/History"
	userStatsPath      = "/Activation/json/get_user"
	statsPagePath      = "/home.php"
	renewPath          = "/Activation/renew.php"
	renewPagePath      = "/renew.php"
)

// ActivationService covers the PHP activation portal. Every operation is a
// fresh request/response cycle and a single attempt; mutations are never
// retried because the upstream may have applied them despite a late failure.
type ActivationService interface {
	// SubmitCode redeems a 16-character activation code.
	SubmitCode(ctx context.Context, tokens model.ActivationTokens, code string) (model.ActivationOutcome, error)
	// ChangePassword sets a new portal password for the logged-in reseller.
	ChangePassword(ctx context.Context, tokens model.ActivationTokens, password string) (model.ActivationOutcome, error)
	// UpdateTwoFactor toggles 2FA with a 6-digit authenticator code.
	UpdateTwoFactor(ctx context.Context, tokens model.ActivationTokens, code string) (model.ActivationOutcome, error)
	// ActiveCodes lists the codes the portal currently shows as active.
	ActiveCodes(ctx context.Context, tokens model.ActivationTokens) ([]model.ActiveCode, error)
	// ConnectionHistory lists the reseller's recent portal logins.
	ConnectionHistory(ctx context.Context, tokens model.ActivationTokens) ([]model.ConnectionEvent, error)
	// ResellerStats reads the reseller's balance and operation counters.
	ResellerStats(ctx context.Context, tokens model.ActivationTokens) (*model.ResellerStats, error)
	// Renew submits a subscription renewal for a card serial. The renewal
	// endpoint has no status protocol; the portal's response text is
	// returned for the caller to verify.
	Renew(ctx context.Context, tokens model.ActivationTokens, req model.RenewalRequest) (string, error)
	// TwoFactorQR fetches the 2FA provisioning payload and renders it as a
	// PNG QR code.
	TwoFactorQR(ctx context.Context, tokens model.ActivationTokens) (*model.TwoFactorSetup, []byte, error)
}

type activation struct {
	transport api.Transport
	endpoints Endpoints
}

func NewActivationService(transport api.Transport, endpoints Endpoints) ActivationService {
	return &activation{transport: transport, endpoints: endpoints}
}

func (s *activation) SubmitCode(ctx context.Context, tokens model.ActivationTokens, code string) (model.ActivationOutcome, error) {
	if err := validate.Var(code, "len=16,alphanum"); err != nil {
		return model.OutcomeUnknown, errors.Wrap(model.ErrInvalidInput, "code must be 16 alphanumeric characters")
	}
	if !tokens.Valid() {
		return model.OutcomeUnknown, model.ErrNoSession
	}

	log.Debug("Submitting activation code")

	pageURL := s.endpoints.ActivationBase + activationCodePath
	state, err := s.fetchForm(ctx, tokens, pageURL)
	if err != nil {
		return model.OutcomeUnknown, err
	}

	form := map[string]string{"Code": code}
	for k, v := range state {
		if _, taken := form[k]; !taken {
			form[k] = v
		}
	}

	resp, err := s.transport.Send(ctx, api.Request{
		Method:     http.MethodPost,
		URL:        pageURL,
		Referer:    pageURL,
		Origin:     s.endpoints.activationOrigin(),
		Header:     s.headers(tokens),
		Form:       form,
		Cookies:    tokens.Cookies(),
		NoRedirect: true,
		Timeout:    mutationTimeout,
	})
	if err != nil {
		return model.OutcomeUnknown, err
	}

	outcome := interpretRedirect(resp.Location, codeStatusTable, model.OutcomeActivated, resp)
	logger.WithField("outcome", outcome).Debug("activation code result")
	return outcome, nil
}

func (s *activation) ChangePassword(ctx context.Context, tokens model.ActivationTokens, password string) (model.ActivationOutcome, error) {
	if err := validate.Var(password, "required"); err != nil {
		return model.OutcomeUnknown, errors.Wrap(model.ErrInvalidInput, "password is required")
	}
	if !tokens.Valid() {
		return model.OutcomeUnknown, model.ErrNoSession
	}

	log.Debug("Changing portal password")

	resp, err := s.transport.Send(ctx, api.Request{
		Method:     http.MethodPost,
		URL:        s.endpoints.ActivationBase + changePasswordPath,
		Referer:    s.endpoints.ActivationBase + passwordPagePath,
		Origin:     s.endpoints.activationOrigin(),
		Header:     s.headers(tokens),
		Form:       map[string]string{"password": password},
		Cookies:    tokens.Cookies(),
		NoRedirect: true,
		Timeout:    mutationTimeout,
	})
	if err != nil {
		return model.OutcomeUnknown, err
	}

	return interpretRedirect(resp.Location, passwordStatusTable, model.OutcomePasswordChanged, resp), nil
}

func (s *activation) UpdateTwoFactor(ctx context.Context, tokens model.ActivationTokens, code string) (model.ActivationOutcome, error) {
	if err := validate.Var(code, "len=6,numeric"); err != nil {
		return model.OutcomeUnknown, errors.Wrap(model.ErrInvalidInput, "code must be 6 digits")
	}
	if !tokens.Valid() {
		return model.OutcomeUnknown, model.ErrNoSession
	}

	log.Debug("Updating 2FA state")

	resp, err := s.transport.Send(ctx, api.Request{
		Method:     http.MethodPost,
		URL:        s.endpoints.ActivationBase + twoFactorPath,
		Referer:    s.endpoints.ActivationBase + twoFactorPagePath,
		Origin:     s.endpoints.activationOrigin(),
		Header:     s.headers(tokens),
		Form:       map[string]string{"code": code},
		Cookies:    tokens.Cookies(),
		NoRedirect: true,
		Timeout:    mutationTimeout,
	})
	if err != nil {
		return model.OutcomeUnknown, err
	}

	// The toggle's redirect distinguishes enabled from disabled; without it
	// there is no way to tell which state the portal landed in.
	return interpretRedirect(resp.Location, twoFactorStatusTable, model.OutcomeUnknown, resp), nil
}

func (s *activation) ActiveCodes(ctx context.Context, tokens model.ActivationTokens) ([]model.ActiveCode, error) {
	if !tokens.Valid() {
		return nil, model.ErrNoSession
	}

	resp, err := s.transport.Send(ctx, api.Request{
		Method:  http.MethodGet,
		URL:     s.endpoints.ActivationBase + activeCodesPath,
		Referer: s.endpoints.ActivationBase + activationCodePath,
		Origin:  s.endpoints.activationOrigin(),
		Header:  s.headers(tokens),
		Cookies: tokens.Cookies(),
		Timeout: lookupTimeout,
	})
	if err != nil {
		return nil, err
	}
	if !resp.OK() {
		return nil, resp.AsError()
	}

	codes, err := model.DecodeActiveCodes(resp.Body)
	if err != nil {
		return nil, &model.ParseError{Detail: err.Error()}
	}
	return codes, nil
}

func (s *activation) ConnectionHistory(ctx context.Context, tokens model.ActivationTokens) ([]model.ConnectionEvent, error) {
	if !tokens.Valid() {
		return nil, model.ErrNoSession
	}

	resp, err := s.transport.Send(ctx, api.Request{
		Method:  http.MethodGet,
		URL:     s.endpoints.ActivationBase + historyPath,
		Referer: s.endpoints.ActivationBase + historyPagePath,
		Origin:  s.endpoints.activationOrigin(),
		Header:  s.headers(tokens),
		Cookies: tokens.Cookies(),
		Timeout: lookupTimeout,
	})
	if err != nil {
		return nil, err
	}
	if !resp.OK() {
		return nil, resp.AsError()
	}

	events, err := model.DecodeConnectionHistory(resp.Body)
	if err != nil {
		return nil, &model.ParseError{Detail: err.Error()}
	}
	return events, nil
}

func (s *activation) ResellerStats(ctx context.Context, tokens model.ActivationTokens) (*model.ResellerStats, error) {
	if !tokens.Valid() {
		return nil, model.ErrNoSession
	}

	resp, err := s.transport.Send(ctx, api.Request{
		Method:  http.MethodPost,
		URL:     s.endpoints.ActivationBase + userStatsPath,
		Referer: s.endpoints.ActivationBase + statsPagePath,
		Origin:  s.endpoints.activationOrigin(),
		Header:  s.headers(tokens),
		Form:    map[string]string{"id": "1"},
		Cookies: tokens.Cookies(),
		Timeout: lookupTimeout,
	})
	if err != nil {
		return nil, err
	}
	if !resp.OK() {
		return nil, resp.AsError()
	}

	// An expired session gets the login page here instead of JSON.
	stats, err := model.DecodeResellerStats(resp.Body)
	if err != nil {
		return nil, errors.Wrap(model.ErrNoSession, err.Error())
	}
	return stats, nil
}

func (s *activation) Renew(ctx context.Context, tokens model.ActivationTokens, req model.RenewalRequest) (string, error) {
	if err := validate.Var(req.Serial, "required,numeric"); err != nil {
		return "", errors.Wrap(model.ErrInvalidInput, "serial must be numeric")
	}
	if err := validate.Var(req.Period, "required"); err != nil {
		return "", errors.Wrap(model.ErrInvalidInput, "period is required")
	}
	if !tokens.Valid() {
		return "", model.ErrNoSession
	}

	log.Debug("Submitting renewal")

	form := map[string]string{"serial": req.Serial, "period": req.Period}
	if req.Type != "" {
		form["type"] = req.Type
	}

	resp, err := s.transport.Send(ctx, api.Request{
		Method:  http.MethodPost,
		URL:     s.endpoints.ActivationBase + renewPath,
		Referer: s.endpoints.ActivationBase + renewPagePath,
		Origin:  s.endpoints.activationOrigin(),
		Header:  s.headers(tokens),
		Form:    form,
		Cookies: tokens.Cookies(),
		Timeout: mutationTimeout,
	})
	if err != nil {
		return "", err
	}
	if !resp.OK() {
		return "", resp.AsError()
	}

	return responseSnippet(resp.Body), nil
}

func (s *activation) TwoFactorQR(ctx context.Context, tokens model.ActivationTokens) (*model.TwoFactorSetup, []byte, error) {
	if !tokens.Valid() {
		return nil, nil, model.ErrNoSession
	}

	resp, err := s.transport.Send(ctx, api.Request{
		Method:  http.MethodGet,
		URL:     s.endpoints.ActivationBase + qrCodePath,
		Referer: s.endpoints.ActivationBase + twoFactorPagePath,
		Origin:  s.endpoints.activationOrigin(),
		Header:  s.headers(tokens),
		Cookies: tokens.Cookies(),
		Timeout: lookupTimeout,
	})
	if err != nil {
		return nil, nil, err
	}
	if !resp.OK() {
		return nil, nil, resp.AsError()
	}

	setup, err := model.DecodeTwoFactorSetup(resp.Body)
	if err != nil {
		return nil, nil, &model.ParseError{Detail: err.Error()}
	}

	png, err := qr.Encode(setup.ProvisioningContent())
	if err != nil {
		return nil, nil, errors.Wrap(err, "render 2FA QR")
	}
	return setup, png, nil
}

// fetchForm loads the code page and captures its hidden fields. A login
// page served in its place surfaces as model.ErrNoSession before any
// mutation is attempted.
func (s *activation) fetchForm(ctx context.Context, tokens model.ActivationTokens, pageURL string) (scrape.FormState, error) {
	resp, err := s.transport.Send(ctx, api.Request{
		Method:  http.MethodGet,
		URL:     pageURL,
		Referer: pageURL,
		Origin:  s.endpoints.activationOrigin(),
		Header:  s.headers(tokens),
		Cookies: tokens.Cookies(),
		Timeout: lookupTimeout,
	})
	if err != nil {
		return nil, err
	}
	if !resp.OK() {
		return nil, resp.AsError()
	}
	return scrape.ExtractFormState(string(resp.Body), scrape.ActivationCodePage)
}

func (s *activation) headers(tokens model.ActivationTokens) map[string]string {
	h := map[string]string{"X-Requested-With": "XMLHttpRequest"}
	if tokens.XSRF != "" {
		h["X-XSRF-TOKEN"] = tokens.XSRF
	}
	return h
}

// responseSnippet trims a plain-text upstream reply to a short message.
func responseSnippet(body []byte) string {
	s := strings.TrimSpace(string(body))
	if len(s) > 200 {
		s = s[:200]
	}
	return s
}
