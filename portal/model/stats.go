package model

import (
	"strconv"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
)

// ResellerStats is the activation portal's account summary: wallet balance
// and per-operation counters.
type ResellerStats struct {
	Balance    string
	Checks     int64
	Renewals   int64
	Purchases  int64
	SoldOrders string
}

// DecodeResellerStats reads the portal's get_user payload. Counter fields
// arrive as numbers or numeric strings depending on portal version, so both
// are accepted.
func DecodeResellerStats(data []byte) (*ResellerStats, error) {
	d := jx.DecodeBytes(data)
	stats := &ResellerStats{Balance: "0.00 $", SoldOrders: "0.00 $"}
	if err := d.Obj(func(d *jx.Decoder, key string) error {
		switch key {
		case "sold":
			v, err := flexString(d)
			if err != nil {
				return err
			}
			if v != "" {
				stats.Balance = v
			}
		case "CheckData":
			v, err := flexInt(d)
			if err != nil {
				return err
			}
			stats.Checks = v
		case "RenewData":
			v, err := flexInt(d)
			if err != nil {
				return err
			}
			stats.Renewals = v
		case "BuyData":
			v, err := flexInt(d)
			if err != nil {
				return err
			}
			stats.Purchases = v
		case "SoldData":
			v, err := flexString(d)
			if err != nil {
				return err
			}
			if v != "" {
				stats.SoldOrders = v
			}
		default:
			return d.Skip()
		}
		return nil
	}); err != nil {
		return nil, errors.Wrap(err, "decode reseller stats")
	}
	return stats, nil
}

// RenewalRequest is one subscription renewal submission.
type RenewalRequest struct {
	Serial string
	Period string
	Type   string
}

func flexString(d *jx.Decoder) (string, error) {
	switch d.Next() {
	case jx.String:
		return d.Str()
	case jx.Number:
		n, err := d.Num()
		if err != nil {
			return "", err
		}
		return n.String(), nil
	case jx.Null:
		return "", d.Null()
	}
	return "", errors.New("unexpected value type")
}

func flexInt(d *jx.Decoder) (int64, error) {
	switch d.Next() {
	case jx.Number:
		return d.Int64()
	case jx.String:
		s, err := d.Str()
		if err != nil {
			return 0, err
		}
		if s == "" {
			return 0, nil
		}
		return strconv.ParseInt(s, 10, 64)
	case jx.Null:
		return 0, d.Null()
	}
	return 0, errors.New("unexpected value type")
}
