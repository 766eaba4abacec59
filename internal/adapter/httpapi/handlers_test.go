package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/pbandrade/fiimonitor-backend/internal/domain"
)

// MockMarketDataProvider is a mock implementation of MarketDataProvider for testing
type MockMarketDataProvider struct {
	mock.Mock
}

func (m *MockMarketDataProvider) Fetch(ctx context.Context, codes []string) (map[string]*domain.MarketSnapshot, error) {
	args := m.Called(ctx, codes)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]*domain.MarketSnapshot), args.Error(1)
}

const testLedgerCSV = `Data_Compra,Codigo_Ativo,Tipo_Ativo,Quantidade,Preco_Compra_Unitario,Corretagem_Taxas
2024-01-15,XPLG11,FII,50,95.50,4.90
2024-04-05,XPLG11,FII,25,99.80,2.50
`

const testWatchlistCSV = `Codigo_Ativo,Tipo_Ativo,Setor
XPLG11,FII,Logística
KNRI11,FII,Misto
`

func newTestServer(provider domain.MarketDataProvider) *Server {
	srv := NewServer(NewSessionStore(time.Hour), provider, 1024*1024)
	srv.clock = func() time.Time {
		return time.Date(2025, time.March, 15, 12, 0, 0, 0, time.UTC)
	}
	return srv
}

func multipartUpload(t *testing.T, ledgerCSV, watchlistCSV string) (*bytes.Buffer, string) {
	t.Helper()
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	part, err := writer.CreateFormFile("ledger", "historico.csv")
	require.NoError(t, err)
	_, err = part.Write([]byte(ledgerCSV))
	require.NoError(t, err)

	part, err = writer.CreateFormFile("watchlist", "watchlist.csv")
	require.NoError(t, err)
	_, err = part.Write([]byte(watchlistCSV))
	require.NoError(t, err)

	require.NoError(t, writer.Close())
	return &body, writer.FormDataContentType()
}

func uploadSession(t *testing.T, handler http.Handler) string {
	t.Helper()
	body, contentType := multipartUpload(t, testLedgerCSV, testWatchlistCSV)
	req := httptest.NewRequest(http.MethodPost, "/api/portfolio", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var resp map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp["session_id"].(string)
}

func snapshotWithPrice(code, price string) *domain.MarketSnapshot {
	p := decimal.RequireFromString(price)
	return &domain.MarketSnapshot{Code: code, CurrentPrice: &p}
}

func TestHandleUpload_CreatesSession(t *testing.T) {
	handler := newTestServer(new(MockMarketDataProvider)).Routes()

	body, contentType := multipartUpload(t, testLedgerCSV, testWatchlistCSV)
	req := httptest.NewRequest(http.MethodPost, "/api/portfolio", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	var resp uploadResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.SessionID)
	assert.Equal(t, 2, resp.TransactionCount)
	assert.Equal(t, 2, resp.WatchedCount)
}

func TestHandleUpload_MissingColumnRejected(t *testing.T) {
	handler := newTestServer(new(MockMarketDataProvider)).Routes()

	badLedger := "Data_Compra,Codigo_Ativo,Quantidade,Preco_Compra_Unitario\n2024-01-15,XPLG11,50,95.50\n"
	body, contentType := multipartUpload(t, badLedger, testWatchlistCSV)
	req := httptest.NewRequest(http.MethodPost, "/api/portfolio", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Tipo_Ativo")
}

func TestHandleUpload_EmptyLedgerIsBenign(t *testing.T) {
	handler := newTestServer(new(MockMarketDataProvider)).Routes()

	emptyLedger := "Data_Compra,Codigo_Ativo,Tipo_Ativo,Quantidade,Preco_Compra_Unitario\n"
	body, contentType := multipartUpload(t, emptyLedger, testWatchlistCSV)
	req := httptest.NewRequest(http.MethodPost, "/api/portfolio", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	var resp uploadResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 0, resp.TransactionCount)
}

func TestHandlePortfolio_FullPipeline(t *testing.T) {
	// Setup: XPLG11 priced at 99.70 with a dividend posted this month;
	// KNRI11 has no market data at all
	provider := new(MockMarketDataProvider)
	xplg := snapshotWithPrice("XPLG11", "99.70")
	xplg.Dividends = []domain.DividendRecord{
		{PaymentDate: time.Date(2025, time.March, 10, 0, 0, 0, 0, time.UTC), Value: decimal.RequireFromString("0.85")},
	}
	provider.On("Fetch", mock.Anything, []string{"XPLG11", "KNRI11"}).
		Return(map[string]*domain.MarketSnapshot{"XPLG11": xplg}, nil)

	server := newTestServer(provider)
	handler := server.Routes()
	sessionID := uploadSession(t, handler)

	// Execute
	req := httptest.NewRequest(http.MethodGet, "/api/portfolio/"+sessionID, nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	// Assert
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var resp portfolioResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Rows, 2)

	// XPLG11: 75 units, cost 7277.40, value 7477.50, forecast 0.85
	row := resp.Rows[0]
	assert.Equal(t, "XPLG11", row.Code)
	require.NotNil(t, row.Quantity)
	assert.Equal(t, int64(75), *row.Quantity)
	assert.Equal(t, "7477.5", row.MarketValue)
	assert.Equal(t, "200.1", row.GainLoss)
	require.NotNil(t, row.ForecastPayment)
	assert.Equal(t, "0.85", *row.ForecastPayment)

	// KNRI11: watched only, nothing else
	row = resp.Rows[1]
	assert.Equal(t, "KNRI11", row.Code)
	assert.Nil(t, row.Quantity)
	assert.Nil(t, row.CurrentPrice)
	assert.Nil(t, row.ForecastPayment)
	assert.Equal(t, "0", row.MarketValue)

	assert.Equal(t, "7277.4", resp.Totals.TotalCost)
	assert.Equal(t, "200.1", resp.Totals.GainLoss)

	provider.AssertExpectations(t)
}

func TestHandlePortfolio_UnknownSession(t *testing.T) {
	handler := newTestServer(new(MockMarketDataProvider)).Routes()

	req := httptest.NewRequest(http.MethodGet, "/api/portfolio/2f9d1f0a-52fb-4a1c-8f58-0fbcadd6701e", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandlePortfolio_InvalidSessionID(t *testing.T) {
	handler := newTestServer(new(MockMarketDataProvider)).Routes()

	req := httptest.NewRequest(http.MethodGet, "/api/portfolio/not-a-uuid", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandlePortfolio_ProviderFailureIs502(t *testing.T) {
	provider := new(MockMarketDataProvider)
	provider.On("Fetch", mock.Anything, mock.Anything).
		Return(nil, errors.New("upstream down"))

	handler := newTestServer(provider).Routes()
	sessionID := uploadSession(t, handler)

	req := httptest.NewRequest(http.MethodGet, "/api/portfolio/"+sessionID, nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadGateway, rec.Code)
}

func TestHandleAsset_DrillDown(t *testing.T) {
	provider := new(MockMarketDataProvider)
	xplg := snapshotWithPrice("XPLG11", "99.70")
	xplg.Segment = "Galpões Logísticos"
	xplg.Dividends = []domain.DividendRecord{
		{PaymentDate: time.Date(2025, time.February, 28, 0, 0, 0, 0, time.UTC), Value: decimal.RequireFromString("0.83")},
	}
	provider.On("Fetch", mock.Anything, []string{"XPLG11"}).
		Return(map[string]*domain.MarketSnapshot{"XPLG11": xplg}, nil)

	handler := newTestServer(provider).Routes()
	sessionID := uploadSession(t, handler)

	req := httptest.NewRequest(http.MethodGet, "/api/portfolio/"+sessionID+"/assets/XPLG11", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var resp assetResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Galpões Logísticos", resp.Segment)
	require.Len(t, resp.Dividends, 1)
	assert.Equal(t, "2025-02-28", resp.Dividends[0].PaymentDate)
	// No payment in March: February's record is carried forward
	require.NotNil(t, resp.ForecastPayment)
	assert.Equal(t, "0.83", *resp.ForecastPayment)

	provider.AssertExpectations(t)
}

func TestHandleAsset_NotWatched(t *testing.T) {
	handler := newTestServer(new(MockMarketDataProvider)).Routes()
	sessionID := uploadSession(t, handler)

	req := httptest.NewRequest(http.MethodGet, "/api/portfolio/"+sessionID+"/assets/PETR4", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandleExampleFiles(t *testing.T) {
	handler := newTestServer(new(MockMarketDataProvider)).Routes()

	for _, path := range []string{"/api/examples/ledger", "/api/examples/watchlist"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Header().Get("Content-Type"), "text/csv")
		assert.True(t, strings.Contains(rec.Body.String(), "Codigo_Ativo"))
	}
}

func TestHandleHealth(t *testing.T) {
	handler := newTestServer(new(MockMarketDataProvider)).Routes()

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}
