// Package marketdata supplies MarketSnapshot mappings to the valuation
// pipeline, either from a built-in simulated dataset or from the Yahoo
// Finance chart API, with a TTL-cache decorator shared by both.
package marketdata

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/pbandrade/fiimonitor-backend/internal/domain"
)

// errUnknownTicker is surfaced verbatim next to the affected instrument
const errUnknownTicker = "Ticker não encontrado na base de dados simulada"

// SimulatedProvider serves a fixed market dataset so the dashboard works
// without network access. Dividend histories are generated relative to the
// clock: monthly month-end records for FIIs, quarterly records for stocks.
type SimulatedProvider struct {
	Clock func() time.Time
}

// NewSimulatedProvider creates a simulated provider using the wall clock
func NewSimulatedProvider() *SimulatedProvider {
	return &SimulatedProvider{Clock: time.Now}
}

type simQuote struct {
	price        string
	dayChangePct string
	priceToBook  string
	yield12M     string
	volume       int64
}

var simQuotes = map[string]simQuote{
	"XPLG11": {"99.70", "0.41", "0.93", "10.24", 3226098},
	"HGLG11": {"160.23", "0.14", "0.98", "8.79", 5714559},
	"ITUB4":  {"37.79", "0.69", "1.25", "5.32", 15000000},
	"MXRF11": {"9.52", "0.53", "0.85", "13.25", 8125365},
	"VALE3":  {"53.41", "-2.25", "1.15", "6.75", 25000000},
	"KNRI11": {"145.70", "0.48", "0.90", "8.80", 6478154},
	"VISC11": {"103.30", "-0.54", "0.84", "9.84", 3852021},
	"MALL11": {"101.40", "-0.59", "0.84", "10.03", 3082284},
	"CPTS11": {"7.36", "-0.94", "0.85", "13.25", 8125365},
	"TVRI11": {"91.62", "0.35", "0.90", "13.59", 1033718},
	"HGRE11": {"113.60", "1.21", "0.74", "9.94", 1648659},
	"VGHF11": {"7.75", "0.39", "0.91", "14.27", 2954165},
	"VRTA11": {"81.55", "-0.60", "0.92", "12.92", 1449132},
	"XPML11": {"104.34", "0.14", "0.89", "11.07", 11465813},
}

type simFIIDetail struct {
	description    string
	segment        string
	vacancyPct     string
	properties     int64
	leasableAreaM2 string
	bookValue      string
	dividends      []string // oldest first, one per month
	yields         []string
}

var simFIIDetails = map[string]simFIIDetail{
	"XPLG11": {
		description:    "XP Log FII investe em ativos logísticos (galpões e centros de distribuição).",
		segment:        "Galpões Logísticos",
		vacancyPct:     "2.5",
		properties:     18,
		leasableAreaM2: "106750",
		bookValue:      "107.25",
		dividends:      []string{"0.82", "0.81", "0.83", "0.80", "0.82", "0.85", "0.83", "0.84", "0.82", "0.81", "0.83", "0.85"},
		yields:         []string{"0.82", "0.81", "0.83", "0.80", "0.82", "0.85", "0.83", "0.84", "0.82", "0.81", "0.83", "0.85"},
	},
	"HGLG11": {
		description:    "CSHG Logística FII foca em empreendimentos logísticos e industriais de alto padrão.",
		segment:        "Galpões Logísticos",
		vacancyPct:     "1.8",
		properties:     28,
		leasableAreaM2: "162740",
		bookValue:      "163.50",
		dividends:      []string{"1.10", "1.12", "1.10", "1.15", "1.10", "1.12", "1.10", "1.15", "1.10", "1.12", "1.10", "1.15"},
		yields:         []string{"0.69", "0.70", "0.69", "0.72", "0.69", "0.70", "0.69", "0.72", "0.69", "0.70", "0.69", "0.72"},
	},
}

type simEquityDetail struct {
	description      string
	segment          string
	priceToEarnings  string
	roePct           string
	netMarginPct     string
	debtToEquity     string
	revenueGrowthPct string
	dividends        []string // oldest first, one per quarter
	yields           []string
}

var simEquityDetails = map[string]simEquityDetail{
	"ITUB4": {
		description:      "Itaú Unibanco Holding S.A. é o maior banco privado do Brasil, oferecendo serviços bancários.",
		segment:          "Bancos",
		priceToEarnings:  "8.5",
		roePct:           "18.7",
		netMarginPct:     "21.3",
		debtToEquity:     "0.45",
		revenueGrowthPct: "12.8",
		dividends:        []string{"0.50", "0.48", "0.52", "0.55"},
		yields:           []string{"1.32", "1.27", "1.38", "1.46"},
	},
	"VALE3": {
		description:      "Vale S.A. é uma das maiores empresas de mineração do mundo, maior produtora de minério de ferro.",
		segment:          "Mineração",
		priceToEarnings:  "5.2",
		roePct:           "22.5",
		netMarginPct:     "25.8",
		debtToEquity:     "0.38",
		revenueGrowthPct: "-5.3",
		dividends:        []string{"0.90", "1.20", "0.85", "1.10"},
		yields:           []string{"1.68", "2.25", "1.59", "2.06"},
	},
}

// Fetch returns one snapshot per requested code. Unknown codes get nil
// fields and an error indicator rather than being dropped from the map.
func (p *SimulatedProvider) Fetch(ctx context.Context, codes []string) (map[string]*domain.MarketSnapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	now := p.Clock()
	snapshots := make(map[string]*domain.MarketSnapshot, len(codes))

	for _, code := range codes {
		quote, ok := simQuotes[code]
		if !ok {
			reason := errUnknownTicker
			snapshots[code] = &domain.MarketSnapshot{Code: code, Err: &reason}
			continue
		}

		price := decimal.RequireFromString(quote.price)
		dayChange := decimal.RequireFromString(quote.dayChangePct)
		priceToBook := decimal.RequireFromString(quote.priceToBook)
		yield12M := decimal.RequireFromString(quote.yield12M)
		volume := quote.volume

		snap := &domain.MarketSnapshot{
			Code:             code,
			CurrentPrice:     &price,
			DayChangePct:     &dayChange,
			PriceToBook:      &priceToBook,
			DividendYield12M: &yield12M,
			DailyVolume:      &volume,
		}

		if fii, ok := simFIIDetails[code]; ok {
			snap.Description = fii.description
			snap.Segment = fii.segment
			snap.FII = &domain.FIIDetail{
				VacancyRatePct:    decimal.RequireFromString(fii.vacancyPct),
				PropertyCount:     fii.properties,
				LeasableAreaM2:    decimal.RequireFromString(fii.leasableAreaM2),
				BookValuePerShare: decimal.RequireFromString(fii.bookValue),
			}
			snap.Dividends = monthlyHistory(now, fii.dividends, fii.yields)
		}

		if eq, ok := simEquityDetails[code]; ok {
			snap.Description = eq.description
			snap.Segment = eq.segment
			snap.Equity = &domain.EquityDetail{
				PriceToEarnings:  decimal.RequireFromString(eq.priceToEarnings),
				ROEPct:           decimal.RequireFromString(eq.roePct),
				NetMarginPct:     decimal.RequireFromString(eq.netMarginPct),
				DebtToEquity:     decimal.RequireFromString(eq.debtToEquity),
				RevenueGrowthPct: decimal.RequireFromString(eq.revenueGrowthPct),
			}
			snap.Dividends = quarterlyHistory(now, eq.dividends, eq.yields)
		}

		snapshots[code] = snap
	}

	return snapshots, nil
}

// monthlyHistory builds records on consecutive month-end dates, the last one
// being the most recent month end not after now, oldest first.
func monthlyHistory(now time.Time, values, yields []string) []domain.DividendRecord {
	return history(now, values, yields, 1)
}

// quarterlyHistory spaces the records three months apart
func quarterlyHistory(now time.Time, values, yields []string) []domain.DividendRecord {
	return history(now, values, yields, 3)
}

func history(now time.Time, values, yields []string, stepMonths int) []domain.DividendRecord {
	records := make([]domain.DividendRecord, len(values))

	// Stepping over first-of-month dates avoids the normalization surprises
	// of adding months to a day-31 date.
	base := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	if monthEnd(base).After(now) {
		base = base.AddDate(0, -1, 0)
	}

	for i := len(values) - 1; i >= 0; i-- {
		offset := (len(values) - 1 - i) * stepMonths
		y := decimal.RequireFromString(yields[i])
		records[i] = domain.DividendRecord{
			PaymentDate: monthEnd(base.AddDate(0, -offset, 0)),
			Value:       decimal.RequireFromString(values[i]),
			Yield:       &y,
		}
	}

	return records
}

// monthEnd returns the last day of t's month at midnight UTC
func monthEnd(t time.Time) time.Time {
	firstOfNext := time.Date(t.Year(), t.Month()+1, 1, 0, 0, 0, 0, time.UTC)
	return firstOfNext.AddDate(0, 0, -1)
}
