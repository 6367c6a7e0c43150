package portal

// Endpoints binds the two upstream systems a client talks to. Production
// points at the live portals; tests substitute local servers.
type Endpoints struct {
	// ActivationBase is the PHP activation portal root.
	ActivationBase string
	// DealerBase is the ASP.NET dealer portal pages root.
	DealerBase string
}

var Production = Endpoints{
	ActivationBase: "https://bein.newhd.info",
	DealerBase:     "https://sbs.beinsports.net/Dealers/Pages",
}

func (e Endpoints) activationOrigin() string {
	return originOf(e.ActivationBase)
}

func (e Endpoints) dealerOrigin() string {
	return originOf(e.DealerBase)
}
