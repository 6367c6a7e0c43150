package main

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/iptvdesk/go-portal-client/portal"
	"github.com/iptvdesk/go-portal-client/portal/model"
	"github.com/iptvdesk/go-portal-client/portal/util"
)

func main() {

	logrus.SetLevel(logrus.DebugLevel)

	serial := util.GetEnvOrFailed("PORTAL_SERIAL")
	tokens := model.DealerTokens{
		SessionID:  util.GetEnvOrFailed("SBS_SESSION_ID"),
		AuthCookie: util.GetEnvOrFailed("SBS_AUTH_COOKIE"),
		Ticket:     util.GetEnvOrFailed("SBS_TICKET"),
	}

	client := portal.NewClient(portal.Production)

	card, err := client.Dealer.CheckSerial(context.Background(), tokens, serial)
	if err != nil {
		panic(err)
	}

	fmt.Printf("serial %s paired to %s, valid=%v, expires %s, wallet %s\n",
		card.Serial, card.STB, card.Valid, card.Expiry, card.WalletBalance)
	for _, c := range card.Contracts {
		fmt.Printf("  %-12s %-10s %s (%s - %s) invoice %s\n",
			c.Type, c.Status, c.Package, c.StartDate, c.EndDate, c.Invoice)
	}
}
