package portal

import (
	"net/url"

	"github.com/iptvdesk/go-portal-client/portal/api"
	"github.com/iptvdesk/go-portal-client/portal/model"
)

// The activation portal reports business outcomes through the `status`
// query parameter of its redirect target. The numeric codes are upstream
// conventions observed on the wire; the same number carries different
// meanings in different operations, so each operation owns its own table
// and the tables are never shared or renumbered.
var (
	codeStatusTable = map[string]model.ActivationOutcome{
		"1": model.OutcomeActivated,
		"2": model.OutcomeMissingFields,
		"3": model.OutcomeCaptchaRequired,
		"4": model.OutcomeAlreadyUsed,
		"5": model.OutcomeInvalidCode,
	}

	passwordStatusTable = map[string]model.ActivationOutcome{
		"3": model.OutcomeMissingFields,
		"4": model.OutcomePasswordChanged,
	}

	twoFactorStatusTable = map[string]model.ActivationOutcome{
		"1": model.OutcomeTwoFactorDisabled,
		"2": model.OutcomeIncorrectCode,
		"3": model.OutcomeTwoFactorEnabled,
	}
)

// interpretRedirect maps a captured Location target through one operation's
// table. An unrecognized status code never maps to success. Some upstream
// configurations skip the redirect entirely: a 2xx answer with a body and no
// status parameter counts as the operation's best-effort success (fallback),
// anything else is OutcomeUnknown.
func interpretRedirect(location string, table map[string]model.ActivationOutcome, fallback model.ActivationOutcome, resp *api.Response) model.ActivationOutcome {
	if status := redirectStatus(location); status != "" {
		if outcome, ok := table[status]; ok {
			return outcome
		}
		logger.WithField("status", status).Warn("unrecognized upstream status code")
		return model.OutcomeUnknown
	}

	if resp != nil && resp.OK() && len(resp.Body) > 0 {
		return fallback
	}
	return model.OutcomeUnknown
}

func redirectStatus(location string) string {
	if location == "" {
		return ""
	}
	u, err := url.Parse(location)
	if err != nil {
		return ""
	}
	return u.Query().Get("status")
}
