package model

import "net/http"

// ActivationTokens is the session token set for the PHP activation portal.
// It is produced by the panel's login bridge and passed by value on every
// call; a set is never mutated, a re-login replaces it wholesale.
type ActivationTokens struct {
	Session string
	UID     string
	Access  string
	Token   string
	CSRF    string
	XSRF    string
}

// Valid reports whether the set is usable. Session and UID are both required;
// a partial set is treated the same as no session at all.
func (t ActivationTokens) Valid() bool {
	return t.Session != "" && t.UID != ""
}

// Cookies serializes the set under the portal's wire names. The optional
// CSRF cookies are omitted when empty, the rest are always sent.
func (t ActivationTokens) Cookies() []*http.Cookie {
	cookies := []*http.Cookie{
		{Name: "session", Value: t.Session},
		{Name: "uid", Value: t.UID},
		{Name: "access", Value: t.Access},
		{Name: "token", Value: t.Token},
	}
	if t.CSRF != "" {
		cookies = append(cookies, &http.Cookie{Name: "_csrf", Value: t.CSRF})
	}
	if t.XSRF != "" {
		cookies = append(cookies, &http.Cookie{Name: "XSRF-TOKEN", Value: t.XSRF})
	}
	return cookies
}

// DealerTokens is the session token set for the ASP.NET dealer portal.
type DealerTokens struct {
	SessionID  string
	AuthCookie string
	Ticket     string
}

// Valid reports whether the set is usable; the dealer portal rejects any
// request missing one of the three cookies.
func (t DealerTokens) Valid() bool {
	return t.SessionID != "" && t.AuthCookie != "" && t.Ticket != ""
}

// Identity keys per-session serialization of WebForms postbacks.
func (t DealerTokens) Identity() string {
	return t.SessionID
}

// Cookies serializes the set under the dealer portal's wire names.
func (t DealerTokens) Cookies() []*http.Cookie {
	return []*http.Cookie{
		{Name: "ASP.NET_SessionId", Value: t.SessionID},
		{Name: "SBSDealerAuthCookieD8", Value: t.AuthCookie},
		{Name: "SBSDealerAuthCookieD8Ticket", Value: t.Ticket},
	}
}
