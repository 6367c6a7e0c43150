package portal

import "github.com/iptvdesk/go-portal-client/portal/api"

// Client bundles both upstream services behind one transport.
type Client struct {
	Activation ActivationService
	Dealer     DealerService
}

func NewClient(endpoints Endpoints) *Client {
	transport := api.New()
	return &Client{
		Activation: NewActivationService(transport, endpoints),
		Dealer:     NewDealerService(transport, endpoints),
	}
}
