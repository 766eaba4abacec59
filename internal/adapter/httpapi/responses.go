package httpapi

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/pbandrade/fiimonitor-backend/internal/domain"
)

// Monetary amounts cross the wire as decimal strings so clients never see
// binary-float artifacts; nullable fields marshal as JSON null.

type uploadResponse struct {
	SessionID        string `json:"session_id"`
	TransactionCount int    `json:"transaction_count"`
	WatchedCount     int    `json:"watched_count"`
}

type valuationRowResponse struct {
	Code             string  `json:"code"`
	AssetClass       string  `json:"asset_class"`
	Sector           string  `json:"sector,omitempty"`
	CurrentPrice     *string `json:"current_price"`
	DayChangePct     *string `json:"day_change_pct"`
	PriceToBook      *string `json:"price_to_book"`
	DividendYield12M *string `json:"dividend_yield_12m"`
	DailyVolume      *int64  `json:"daily_volume"`
	MarketError      *string `json:"market_error,omitempty"`
	ForecastPayment  *string `json:"forecast_payment"`
	Quantity         *int64  `json:"quantity"`
	AverageCost      *string `json:"average_cost"`
	TotalCost        *string `json:"total_cost"`
	MarketValue      string  `json:"market_value"`
	GainLoss         string  `json:"gain_loss"`
	GainLossPct      string  `json:"gain_loss_pct"`
}

type portfolioTotalsResponse struct {
	TotalCost   string `json:"total_cost"`
	MarketValue string `json:"market_value"`
	GainLoss    string `json:"gain_loss"`
	GainLossPct string `json:"gain_loss_pct"`
}

type portfolioResponse struct {
	SessionID string                  `json:"session_id"`
	FetchedAt time.Time               `json:"fetched_at"`
	Rows      []valuationRowResponse  `json:"rows"`
	Totals    portfolioTotalsResponse `json:"totals"`
}

type dividendRecordResponse struct {
	PaymentDate string  `json:"payment_date"`
	Value       string  `json:"value"`
	Yield       *string `json:"yield,omitempty"`
}

type fiiDetailResponse struct {
	VacancyRatePct    string `json:"vacancy_rate_pct"`
	PropertyCount     int64  `json:"property_count"`
	LeasableAreaM2    string `json:"leasable_area_m2"`
	BookValuePerShare string `json:"book_value_per_share"`
}

type equityDetailResponse struct {
	PriceToEarnings  string `json:"price_to_earnings"`
	ROEPct           string `json:"roe_pct"`
	NetMarginPct     string `json:"net_margin_pct"`
	DebtToEquity     string `json:"debt_to_equity"`
	RevenueGrowthPct string `json:"revenue_growth_pct"`
}

type assetResponse struct {
	valuationRowResponse
	Description string                   `json:"description,omitempty"`
	Segment     string                   `json:"segment,omitempty"`
	FII         *fiiDetailResponse       `json:"fii,omitempty"`
	Equity      *equityDetailResponse    `json:"equity,omitempty"`
	Dividends   []dividendRecordResponse `json:"dividends,omitempty"`
}

func toRowResponse(row domain.ValuationRow) valuationRowResponse {
	resp := valuationRowResponse{
		Code:            row.Code,
		AssetClass:      string(row.AssetClass),
		Sector:          row.Sector,
		ForecastPayment: forecastString(row.Forecast),
		MarketValue:     row.MarketValue.String(),
		GainLoss:        row.GainLoss.String(),
		GainLossPct:     row.GainLossPct.String(),
	}

	if snap := row.Market; snap != nil {
		resp.CurrentPrice = decimalString(snap.CurrentPrice)
		resp.DayChangePct = decimalString(snap.DayChangePct)
		resp.PriceToBook = decimalString(snap.PriceToBook)
		resp.DividendYield12M = decimalString(snap.DividendYield12M)
		resp.DailyVolume = snap.DailyVolume
		resp.MarketError = snap.Err
	}

	if pos := row.Position; pos != nil {
		quantity := pos.TotalQuantity
		totalCost := pos.TotalCost.String()
		resp.Quantity = &quantity
		resp.TotalCost = &totalCost
		resp.AverageCost = decimalString(pos.AverageCost)
	}

	return resp
}

func toTotalsResponse(totals domain.PortfolioTotals) portfolioTotalsResponse {
	return portfolioTotalsResponse{
		TotalCost:   totals.TotalCost.String(),
		MarketValue: totals.MarketValue.String(),
		GainLoss:    totals.GainLoss.String(),
		GainLossPct: totals.GainLossPct.String(),
	}
}

func toAssetResponse(row domain.ValuationRow) assetResponse {
	resp := assetResponse{valuationRowResponse: toRowResponse(row)}

	snap := row.Market
	if snap == nil {
		return resp
	}

	resp.Description = snap.Description
	resp.Segment = snap.Segment

	if snap.FII != nil {
		resp.FII = &fiiDetailResponse{
			VacancyRatePct:    snap.FII.VacancyRatePct.String(),
			PropertyCount:     snap.FII.PropertyCount,
			LeasableAreaM2:    snap.FII.LeasableAreaM2.String(),
			BookValuePerShare: snap.FII.BookValuePerShare.String(),
		}
	}

	if snap.Equity != nil {
		resp.Equity = &equityDetailResponse{
			PriceToEarnings:  snap.Equity.PriceToEarnings.String(),
			ROEPct:           snap.Equity.ROEPct.String(),
			NetMarginPct:     snap.Equity.NetMarginPct.String(),
			DebtToEquity:     snap.Equity.DebtToEquity.String(),
			RevenueGrowthPct: snap.Equity.RevenueGrowthPct.String(),
		}
	}

	for _, rec := range snap.Dividends {
		resp.Dividends = append(resp.Dividends, dividendRecordResponse{
			PaymentDate: rec.PaymentDate.Format("2006-01-02"),
			Value:       rec.Value.String(),
			Yield:       decimalString(rec.Yield),
		})
	}

	return resp
}

func decimalString(d *decimal.Decimal) *string {
	if d == nil {
		return nil
	}
	s := d.String()
	return &s
}

func forecastString(f domain.PaymentForecast) *string {
	if !f.Available {
		return nil
	}
	s := f.Value.String()
	return &s
}
