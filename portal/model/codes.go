package model

import (
	"strings"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
)

// ActiveCode is one row of the activation portal's active-code listing.
type ActiveCode struct {
	Code      string
	Status    string
	CreatedAt string
}

// DecodeActiveCodes reads the portal's AJAX listing, a bare JSON array of
// objects. Unknown keys are skipped so portal-side additions do not break
// the listing.
func DecodeActiveCodes(data []byte) ([]ActiveCode, error) {
	d := jx.DecodeBytes(data)
	var out []ActiveCode
	if err := d.Arr(func(d *jx.Decoder) error {
		var c ActiveCode
		if err := d.Obj(func(d *jx.Decoder, key string) error {
			switch strings.ToLower(key) {
			case "code":
				v, err := d.Str()
				if err != nil {
					return err
				}
				c.Code = v
			case "status":
				v, err := d.Str()
				if err != nil {
					return err
				}
				c.Status = v
			case "date", "created_at":
				v, err := d.Str()
				if err != nil {
					return err
				}
				c.CreatedAt = v
			default:
				return d.Skip()
			}
			return nil
		}); err != nil {
			return err
		}
		out = append(out, c)
		return nil
	}); err != nil {
		return nil, errors.Wrap(err, "decode active codes")
	}
	return out, nil
}

// ConnectionEvent is one row of the activation portal's connection-history
// listing.
type ConnectionEvent struct {
	Date   string
	IP     string
	Device string
}

// DecodeConnectionHistory reads the portal's connection-history AJAX
// listing, the same bare-array shape as the active-code listing.
func DecodeConnectionHistory(data []byte) ([]ConnectionEvent, error) {
	d := jx.DecodeBytes(data)
	var out []ConnectionEvent
	if err := d.Arr(func(d *jx.Decoder) error {
		var e ConnectionEvent
		if err := d.Obj(func(d *jx.Decoder, key string) error {
			switch strings.ToLower(key) {
			case "date", "created_at", "time":
				v, err := d.Str()
				if err != nil {
					return err
				}
				e.Date = v
			case "ip", "ip_address":
				v, err := d.Str()
				if err != nil {
					return err
				}
				e.IP = v
			case "device", "agent", "user_agent":
				v, err := d.Str()
				if err != nil {
					return err
				}
				e.Device = v
			default:
				return d.Skip()
			}
			return nil
		}); err != nil {
			return err
		}
		out = append(out, e)
		return nil
	}); err != nil {
		return nil, errors.Wrap(err, "decode connection history")
	}
	return out, nil
}

// TwoFactorSetup is the activation portal's 2FA provisioning payload.
type TwoFactorSetup struct {
	Secret string
	URI    string
}

// ProvisioningContent is what gets rendered into the setup QR code.
func (s *TwoFactorSetup) ProvisioningContent() string {
	if s.URI != "" {
		return s.URI
	}
	return s.Secret
}

// DecodeTwoFactorSetup reads the portal's QR payload, served as a
// single-element JSON array.
func DecodeTwoFactorSetup(data []byte) (*TwoFactorSetup, error) {
	d := jx.DecodeBytes(data)
	var setup *TwoFactorSetup
	if err := d.Arr(func(d *jx.Decoder) error {
		if setup != nil {
			return d.Skip()
		}
		s := &TwoFactorSetup{}
		if err := d.Obj(func(d *jx.Decoder, key string) error {
			switch strings.ToLower(key) {
			case "secret":
				v, err := d.Str()
				if err != nil {
					return err
				}
				s.Secret = v
			case "uri", "otpauth", "qrcode":
				v, err := d.Str()
				if err != nil {
					return err
				}
				s.URI = v
			default:
				return d.Skip()
			}
			return nil
		}); err != nil {
			return err
		}
		setup = s
		return nil
	}); err != nil {
		return nil, errors.Wrap(err, "decode 2FA payload")
	}
	if setup == nil || (setup.Secret == "" && setup.URI == "") {
		return nil, errors.New("empty 2FA payload")
	}
	return setup, nil
}
