package model

// ActivationOutcome is the closed set of business outcomes the activation
// portal communicates through its redirect protocol. The zero value is
// OutcomeUnknown so an unmapped upstream code can never read as success.
type ActivationOutcome int

const (
	OutcomeUnknown ActivationOutcome = iota
	OutcomeActivated
	OutcomeInvalidCode
	OutcomeAlreadyUsed
	OutcomeMissingFields
	OutcomeCaptchaRequired
	OutcomePasswordChanged
	OutcomeTwoFactorEnabled
	OutcomeTwoFactorDisabled
	OutcomeIncorrectCode
)

func (o ActivationOutcome) String() string {
	switch o {
	case OutcomeActivated:
		return "activated"
	case OutcomeInvalidCode:
		return "invalid-code"
	case OutcomeAlreadyUsed:
		return "already-used"
	case OutcomeMissingFields:
		return "missing-fields"
	case OutcomeCaptchaRequired:
		return "captcha-required"
	case OutcomePasswordChanged:
		return "password-changed"
	case OutcomeTwoFactorEnabled:
		return "2fa-enabled"
	case OutcomeTwoFactorDisabled:
		return "2fa-disabled"
	case OutcomeIncorrectCode:
		return "incorrect-code"
	}
	return "unknown"
}

// Success reports whether the outcome confirms the requested change.
func (o ActivationOutcome) Success() bool {
	switch o {
	case OutcomeActivated, OutcomePasswordChanged, OutcomeTwoFactorEnabled, OutcomeTwoFactorDisabled:
		return true
	}
	return false
}

// Message is the wording shown to panel users, matching the upstream's own
// messages where it has them.
func (o ActivationOutcome) Message() string {
	switch o {
	case OutcomeActivated:
		return "Code was activated successfully!"
	case OutcomeInvalidCode:
		return "Invalid Active Code!"
	case OutcomeAlreadyUsed:
		return "This Code is already Activated before!"
	case OutcomeMissingFields:
		return "All fields Required!"
	case OutcomeCaptchaRequired:
		return "Recaptcha Required!"
	case OutcomePasswordChanged:
		return "Password was Changed successfully!"
	case OutcomeTwoFactorEnabled:
		return "2FA Enabled Successfully!"
	case OutcomeTwoFactorDisabled:
		return "2FA Disabled Successfully!"
	case OutcomeIncorrectCode:
		return "Incorrect code!"
	}
	return "Could not verify the result, check manually"
}
