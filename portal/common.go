// Package portal is the session-bridging client for the two upstream
// systems behind the reseller panel: the PHP activation portal (code
// redemption, password change, 2FA) and the ASP.NET dealer portal (serial
// checks). Authentication itself happens elsewhere; this package only
// consumes the resulting token sets, passed by value on every call.
package portal

import (
	"net/url"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"
)

var logger = logrus.WithField("component", "portal")

var validate = validator.New()

const (
	// Read-only lookups keep a short deadline and are safe to retry.
	lookupTimeout = 10 * time.Second
	// Mutations get more headroom and are never retried automatically: a
	// code submission that timed out may still have landed upstream.
	mutationTimeout = 20 * time.Second
)

func originOf(base string) string {
	u, err := url.Parse(base)
	if err != nil {
		return base
	}
	return u.Scheme + "://" + u.Host
}
