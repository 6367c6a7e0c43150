package scrape

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/shopspring/decimal"

	"github.com/iptvdesk/go-portal-client/portal/model"
)

// The dealer portal states all card facts in free-text labels; these
// patterns are the only machine-readable contract it offers.
var (
	serialPattern = regexp.MustCompile(`Smart Card Serial:\s*(\d+)`)
	stbPattern    = regexp.MustCompile(`Is paired to STB\(s\):\s*([\d,]+)`)
	expiryPattern = regexp.MustCompile(`Expired on\s*(\d{2}/\d{2}/\d{4})`)
	walletPattern = regexp.MustCompile(`balance\s*:\s*\$?([\d.]+)`)
)

// The result page renders under two identifier namespaces, direct navigation
// vs the embedded dealer frame. Candidates are tried in order.
var (
	serialLabels  = []string{"#ContentPlaceHolder1_lblSerial", "#ctl00_ContentPlaceHolder1_lblSerial"}
	cardMsgLabels = []string{"#ContentPlaceHolder1_lblCardMsg", "#ctl00_ContentPlaceHolder1_lblCardMsg"}
	walletLabels  = []string{"#ContentPlaceHolder1_lblVodbalance", "#ctl00_ContentPlaceHolder1_lblVodbalance"}
	premiumFlags  = []string{"#ContentPlaceHolder1_PremiumFlag", "#ctl00_ContentPlaceHolder1_PremiumFlag"}
	contractGrids = []string{
		"#ContentPlaceHolder1_TabContainer1_TabPanel1_ctrlContracts_GridView1",
		"#ctl00_ContentPlaceHolder1_TabContainer1_TabPanel1_ctrlContracts_GridView1",
	}
	resultLabels = []string{
		"#ContentPlaceHolder1_lblResult",
		"#ctl00_ContentPlaceHolder1_lblResult",
		"#ContentPlaceHolder1_lblMsg",
	}
	dealerNameLabels = []string{"#ctl00_lblDealerName", "#lblDealerName"}
	balanceLabels    = []string{"#ctl00_ContentPlaceHolder1_lblBalance", "#ContentPlaceHolder1_lblBalance"}
)

// ExtractCardStatus parses a serial-check result page. The serial label is
// the anchor fact: when it is absent under every candidate, the page carries
// no record for the queried input and the portal's own inline message (when
// present) becomes the DomainError text.
func ExtractCardStatus(html string) (*model.CardStatus, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, &model.ParseError{Detail: err.Error()}
	}

	serialText := textOf(doc, serialLabels)
	m := serialPattern.FindStringSubmatch(serialText)
	if m == nil {
		msg := textOf(doc, resultLabels)
		if msg == "" {
			msg = "no result for this serial"
		}
		logger.WithField("message", msg).Debug("serial label missing on result page")
		return nil, &model.DomainError{Reason: "no-record", Message: msg}
	}

	card := &model.CardStatus{
		Serial:        m[1],
		WalletBalance: decimal.Zero,
	}
	if sm := stbPattern.FindStringSubmatch(serialText); sm != nil {
		card.STB = sm[1]
	}

	// "This still Valid and will be Expired on 02/03/2026" — the wording,
	// not a flag, decides validity.
	msgText := textOf(doc, cardMsgLabels)
	lower := strings.ToLower(msgText)
	card.Valid = strings.Contains(lower, "still valid") || !strings.Contains(lower, "expired")
	if em := expiryPattern.FindStringSubmatch(msgText); em != nil {
		card.Expiry = em[1]
	}

	// New dealer accounts render no wallet block at all.
	if wm := walletPattern.FindStringSubmatch(textOf(doc, walletLabels)); wm != nil {
		if d, err := decimal.NewFromString(wm[1]); err == nil {
			card.WalletBalance = d
		}
	}

	card.Premium = firstMatch(doc, premiumFlags) != nil
	card.Contracts = extractContracts(doc)

	return card, nil
}

func extractContracts(doc *goquery.Document) []model.Contract {
	grid := firstMatch(doc, contractGrids)
	if grid == nil {
		return nil
	}

	var contracts []model.Contract
	grid.Find("tr").Each(func(_ int, row *goquery.Selection) {
		if row.HasClass("GridHeader") {
			return
		}
		cells := row.Find("td")
		// Columns are positional: 1=type 2=status 3=package 4=start 5=end
		// 6=invoice. Shorter rows are decoration, not data.
		if cells.Length() < 7 {
			return
		}
		c := model.Contract{
			Type:      cellText(cells, 1),
			Status:    cellText(cells, 2),
			Package:   cellText(cells, 3),
			StartDate: cellText(cells, 4),
			EndDate:   cellText(cells, 5),
			Invoice:   cellText(cells, 6),
		}
		if c.Type == "" {
			return
		}
		contracts = append(contracts, c)
	})
	return contracts
}

// ExtractDealerStats parses the dealer home page summary.
func ExtractDealerStats(html string) (*model.DealerStats, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, &model.ParseError{Detail: err.Error()}
	}

	name := textOf(doc, dealerNameLabels)
	balance := textOf(doc, balanceLabels)
	if name == "" && balance == "" {
		return nil, &model.ParseError{Detail: "dealer home page carried no known labels"}
	}
	if name == "" {
		name = "Unknown Dealer"
	}
	if balance == "" {
		balance = "0.00 $"
	}
	return &model.DealerStats{Name: name, Balance: balance}, nil
}

func textOf(doc *goquery.Document, selectors []string) string {
	if s := firstMatch(doc, selectors); s != nil {
		return strings.TrimSpace(s.Text())
	}
	return ""
}

func cellText(cells *goquery.Selection, i int) string {
	return strings.TrimSpace(cells.Eq(i).Text())
}
