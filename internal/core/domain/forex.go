package domain

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// BridgeAsset is the market asset whose quotes are used to derive fiat cross rates.
// Tether is pegged to USD, so its per-currency prices act as fiat rates.
const BridgeAsset = "tether"

// HomeCurrency is the currency every rate is expressed in.
const HomeCurrency = "INR"

// TargetCurrencies are the procurement currencies compared against INR, in display order.
var TargetCurrencies = []string{"USD", "EUR", "GBP", "JPY", "AUD", "CAD", "CHF"}

var (
	// ErrNoBridgeData means the provider answered without any quotes for the bridge asset.
	ErrNoBridgeData = errors.New("no bridge asset data")
	// ErrNoINRQuote means the bridge asset had no usable INR price.
	ErrNoINRQuote = errors.New("no INR quote for bridge asset")
	// ErrNoCrossRates means no target currency had a usable price.
	ErrNoCrossRates = errors.New("no cross-currency quotes available")
)

// BridgeQuotes holds the bridge asset's price in each quoted currency (upper-case codes).
type BridgeQuotes struct {
	Asset     string
	Prices    map[string]float64
	FetchedAt time.Time
}

// RateQuote is the INR cost of one unit of a target currency.
type RateQuote struct {
	Currency string          `json:"currency"`
	Rate     decimal.Decimal `json:"rate"`
}

// RateReport ranks the target currencies by INR rate.
type RateReport struct {
	Quotes         []RateQuote     `json:"quotes"` // ascending by rate
	Best           RateQuote       `json:"best"`
	Worst          RateQuote       `json:"worst"`
	SavingsPercent decimal.Decimal `json:"savingsPercent"`
	Source         string          `json:"source"`
}

// BuildRateReport derives per-currency INR rates from bridge quotes.
// A currency whose bridge price is zero, negative, non-finite or absent is skipped.
func BuildRateReport(q BridgeQuotes, currencies []string) (*RateReport, error) {
	inr := q.Prices[HomeCurrency]
	if !usablePrice(inr) {
		return nil, ErrNoINRQuote
	}
	inrPrice := decimal.NewFromFloat(inr)

	quotes := make([]RateQuote, 0, len(currencies))
	for _, code := range currencies {
		code = strings.ToUpper(code)
		if code == HomeCurrency {
			continue
		}
		price, ok := q.Prices[code]
		if !ok || !usablePrice(price) {
			continue
		}
		quotes = append(quotes, RateQuote{
			Currency: code,
			Rate:     inrPrice.Div(decimal.NewFromFloat(price)),
		})
	}
	if len(quotes) == 0 {
		return nil, ErrNoCrossRates
	}

	sort.SliceStable(quotes, func(i, j int) bool {
		if c := quotes[i].Rate.Cmp(quotes[j].Rate); c != 0 {
			return c < 0
		}
		return quotes[i].Currency < quotes[j].Currency
	})

	best := quotes[0]
	worst := quotes[len(quotes)-1]
	savings := decimal.Zero
	if worst.Rate.IsPositive() {
		savings = worst.Rate.Sub(best.Rate).Div(worst.Rate).Mul(decimal.NewFromInt(100))
	}

	return &RateReport{
		Quotes:         quotes,
		Best:           best,
		Worst:          worst,
		SavingsPercent: savings,
	}, nil
}

func usablePrice(p float64) bool {
	return p > 0 && !math.IsInf(p, 0) && !math.IsNaN(p)
}

// Format renders the ranked report shown to users and fed to the agent.
func (r *RateReport) Format() string {
	rule := strings.Repeat("=", 45)
	var b strings.Builder
	b.WriteString("FOREX RATES (1 Unit -> INR)\n")
	b.WriteString(rule + "\n")
	for _, q := range r.Quotes {
		marker := ""
		switch q.Currency {
		case r.Best.Currency:
			marker = " [BEST RATE]"
		case r.Worst.Currency:
			marker = " [HIGHEST]"
		}
		fmt.Fprintf(&b, "  • %s: ₹%s%s\n", q.Currency, q.Rate.StringFixed(2), marker)
	}
	b.WriteString(rule + "\n")
	fmt.Fprintf(&b, "RECOMMENDATION: Use %s\n", r.Best.Currency)
	fmt.Fprintf(&b, "   Rate: ₹%s per %s\n", r.Best.Rate.StringFixed(2), r.Best.Currency)
	fmt.Fprintf(&b, "   Savings: %s%% vs worst rate (%s)\n", r.SavingsPercent.StringFixed(1), r.Worst.Currency)
	if r.Source != "" {
		fmt.Fprintf(&b, "\nData Source: %s", r.Source)
	}
	return b.String()
}
