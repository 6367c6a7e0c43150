package model

import "github.com/shopspring/decimal"

// Contract is one row of the card's contract grid, in table order.
type Contract struct {
	Type      string
	Status    string
	Package   string
	StartDate string
	EndDate   string
	Invoice   string
}

// CardStatus is the parsed result of a dealer-portal serial check. Dates are
// kept in the portal's own dd/mm/yyyy rendering, the validity flag is derived
// from the page wording which is the only source of truth upstream.
type CardStatus struct {
	Serial        string
	STB           string
	Valid         bool
	Expiry        string
	WalletBalance decimal.Decimal
	Premium       bool
	Contracts     []Contract
}

// DealerStats is the dealer-portal home page summary.
type DealerStats struct {
	Name    string
	Balance string
}
