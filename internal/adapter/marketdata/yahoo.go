package marketdata

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/net/publicsuffix"
	"golang.org/x/time/rate"

	"github.com/pbandrade/fiimonitor-backend/internal/domain"
)

// DefaultYahooBaseURL is the public chart endpoint host
const DefaultYahooBaseURL = "https://query1.finance.yahoo.com"

const yahooUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"

type yahooChartResponse struct {
	Chart struct {
		Result []struct {
			Meta struct {
				Currency            string   `json:"currency"`
				Symbol              string   `json:"symbol"`
				RegularMarketPrice  *float64 `json:"regularMarketPrice"`
				ChartPreviousClose  *float64 `json:"chartPreviousClose"`
				RegularMarketVolume *int64   `json:"regularMarketVolume"`
			} `json:"meta"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

// YahooProvider fetches real quotes from the Yahoo Finance chart API.
// Tickers are suffixed with .SA for the B3 exchange. A failed lookup for one
// instrument becomes an error-string snapshot; it never aborts the batch.
// Valuation ratios and dividend history are not available from this endpoint,
// so those snapshot fields stay nil and forecasts degrade to "not available".
type YahooProvider struct {
	client  *http.Client
	baseURL string
	limiter *rate.Limiter
}

// NewYahooProvider creates a Yahoo provider. The client carries a cookie jar
// because the endpoint sets consent cookies it expects back on subsequent
// requests. Calls are paced to two per second to stay under rate limits.
func NewYahooProvider(baseURL string) (*YahooProvider, error) {
	if baseURL == "" {
		baseURL = DefaultYahooBaseURL
	}

	jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	if err != nil {
		return nil, fmt.Errorf("failed to create cookie jar: %w", err)
	}

	return &YahooProvider{
		client:  &http.Client{Jar: jar, Timeout: 15 * time.Second},
		baseURL: baseURL,
		limiter: rate.NewLimiter(rate.Every(500*time.Millisecond), 1),
	}, nil
}

// Fetch retrieves one snapshot per code, sequentially and rate-limited
func (p *YahooProvider) Fetch(ctx context.Context, codes []string) (map[string]*domain.MarketSnapshot, error) {
	snapshots := make(map[string]*domain.MarketSnapshot, len(codes))

	for _, code := range codes {
		if err := p.limiter.Wait(ctx); err != nil {
			return nil, err
		}

		snap, err := p.fetchOne(ctx, code)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			reason := err.Error()
			snap = &domain.MarketSnapshot{Code: code, Err: &reason}
		}
		snapshots[code] = snap
	}

	return snapshots, nil
}

func (p *YahooProvider) fetchOne(ctx context.Context, code string) (*domain.MarketSnapshot, error) {
	url := fmt.Sprintf("%s/v8/finance/chart/%s.SA?region=BR&interval=1d&range=5d", p.baseURL, code)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", yahooUserAgent)

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("yahoo chart API returned status %d for %s", resp.StatusCode, code)
	}

	var chart yahooChartResponse
	if err := json.NewDecoder(resp.Body).Decode(&chart); err != nil {
		return nil, fmt.Errorf("failed to decode chart response for %s: %w", code, err)
	}

	if chart.Chart.Error != nil {
		return nil, fmt.Errorf("%s: %s", chart.Chart.Error.Code, chart.Chart.Error.Description)
	}
	if len(chart.Chart.Result) == 0 {
		return nil, fmt.Errorf("no chart data for %s", code)
	}

	meta := chart.Chart.Result[0].Meta
	if meta.RegularMarketPrice == nil {
		return nil, fmt.Errorf("no market price for %s", code)
	}

	price := decimal.NewFromFloat(*meta.RegularMarketPrice)
	snap := &domain.MarketSnapshot{
		Code:         code,
		CurrentPrice: &price,
		DailyVolume:  meta.RegularMarketVolume,
	}

	// Day change is derivable only when the previous close is present and nonzero
	if meta.ChartPreviousClose != nil && *meta.ChartPreviousClose != 0 {
		prev := decimal.NewFromFloat(*meta.ChartPreviousClose)
		change := price.Div(prev).Sub(decimal.NewFromInt(1)).Mul(decimal.NewFromInt(100))
		snap.DayChangePct = &change
	}

	return snap, nil
}
