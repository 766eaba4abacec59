package httpapi

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/pbandrade/fiimonitor-backend/internal/adapter/loader"
	"github.com/pbandrade/fiimonitor-backend/internal/domain"
	"github.com/pbandrade/fiimonitor-backend/internal/usecase/forecast"
	"github.com/pbandrade/fiimonitor-backend/internal/usecase/ledger"
	"github.com/pbandrade/fiimonitor-backend/internal/usecase/valuation"
)

// handleUpload parses the multipart ledger and watchlist files into a new
// session. Empty files are benign (the dashboard shows a "no data" state);
// structural and row-level failures reject the upload.
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxUploadBytes)
	if err := r.ParseMultipartForm(s.maxUploadBytes); err != nil {
		writeError(w, http.StatusBadRequest, "failed to parse multipart upload: "+err.Error())
		return
	}

	ledgerFile, _, err := r.FormFile("ledger")
	if err != nil {
		writeError(w, http.StatusBadRequest, "ledger file is required")
		return
	}
	defer ledgerFile.Close()

	watchlistFile, _, err := r.FormFile("watchlist")
	if err != nil {
		writeError(w, http.StatusBadRequest, "watchlist file is required")
		return
	}
	defer watchlistFile.Close()

	transactions, err := loader.ParseLedger(ledgerFile)
	if err != nil && !errors.Is(err, loader.ErrEmptyLedger) {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	watchlist, err := loader.ParseWatchlist(watchlistFile)
	if err != nil && !errors.Is(err, loader.ErrEmptyWatchlist) {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	session := &Session{
		ID:           uuid.New(),
		Transactions: transactions,
		Watchlist:    watchlist,
		CreatedAt:    s.clock(),
	}
	s.sessions.Put(session)

	slog.Info("portfolio uploaded",
		"sessionID", session.ID.String(),
		"transactions", len(transactions),
		"watched", len(watchlist),
	)

	writeJSON(w, http.StatusCreated, uploadResponse{
		SessionID:        session.ID.String(),
		TransactionCount: len(transactions),
		WatchedCount:     len(watchlist),
	})
}

// handlePortfolio runs the full valuation pipeline for a session: fetch
// market data for the watched instruments, aggregate the ledger, forecast the
// current month's payments, and join everything into rows plus totals.
func (s *Server) handlePortfolio(w http.ResponseWriter, r *http.Request) {
	session, ok := s.session(w, r)
	if !ok {
		return
	}

	market, ok := s.fetchMarket(w, r, watchedCodes(session.Watchlist))
	if !ok {
		return
	}

	now := s.clock()
	positions := ledger.Aggregate(session.Transactions)
	forecasts := paymentForecasts(market, now)
	rows, totals := valuation.Valuate(positions, market, forecasts, session.Watchlist)

	resp := portfolioResponse{
		SessionID: session.ID.String(),
		FetchedAt: now,
		Rows:      make([]valuationRowResponse, 0, len(rows)),
		Totals:    toTotalsResponse(totals),
	}
	for _, row := range rows {
		resp.Rows = append(resp.Rows, toRowResponse(row))
	}

	writeJSON(w, http.StatusOK, resp)
}

// handleAsset serves the drill-down view for one watched instrument
func (s *Server) handleAsset(w http.ResponseWriter, r *http.Request) {
	session, ok := s.session(w, r)
	if !ok {
		return
	}

	code := strings.TrimSpace(chi.URLParam(r, "code"))
	entry, found := findWatched(session.Watchlist, code)
	if !found {
		writeError(w, http.StatusNotFound, "asset is not on this session's watchlist")
		return
	}

	market, ok := s.fetchMarket(w, r, []string{entry.Code})
	if !ok {
		return
	}

	positions := ledger.Aggregate(session.Transactions)
	forecasts := paymentForecasts(market, s.clock())
	rows, _ := valuation.Valuate(positions, market, forecasts, []domain.WatchlistEntry{entry})

	writeJSON(w, http.StatusOK, toAssetResponse(rows[0]))
}

func (s *Server) handleExampleLedger(w http.ResponseWriter, r *http.Request) {
	serveCSV(w, "exemplo_historico_compras.csv", loader.WriteExampleLedger)
}

func (s *Server) handleExampleWatchlist(w http.ResponseWriter, r *http.Request) {
	serveCSV(w, "exemplo_watchlist.csv", loader.WriteExampleWatchlist)
}

// session resolves the sessionID URL parameter, writing the error response
// itself when the session cannot be served.
func (s *Server) session(w http.ResponseWriter, r *http.Request) (*Session, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "sessionID"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid session ID")
		return nil, false
	}

	session, err := s.sessions.Get(id)
	if err != nil {
		writeError(w, http.StatusNotFound, ErrSessionNotFound.Error())
		return nil, false
	}
	return session, true
}

// fetchMarket retrieves snapshots for the given codes; a total provider
// failure maps to 502 while per-instrument failures ride along as
// error-string snapshots.
func (s *Server) fetchMarket(w http.ResponseWriter, r *http.Request, codes []string) (map[string]*domain.MarketSnapshot, bool) {
	market, err := s.provider.Fetch(r.Context(), codes)
	if err != nil {
		slog.Error("market data fetch failed", "error", err)
		writeError(w, http.StatusBadGateway, "market data is unavailable")
		return nil, false
	}
	return market, true
}

// paymentForecasts projects the current month's payment per instrument from
// the snapshot dividend histories.
func paymentForecasts(market map[string]*domain.MarketSnapshot, now time.Time) map[string]domain.PaymentForecast {
	forecasts := make(map[string]domain.PaymentForecast, len(market))
	for code, snap := range market {
		forecasts[code] = forecast.CurrentMonth(snap.Dividends, now)
	}
	return forecasts
}

// watchedCodes returns the watchlist codes with duplicates removed, in order
func watchedCodes(watchlist []domain.WatchlistEntry) []string {
	seen := make(map[string]struct{}, len(watchlist))
	codes := make([]string, 0, len(watchlist))
	for _, entry := range watchlist {
		if _, ok := seen[entry.Code]; ok {
			continue
		}
		seen[entry.Code] = struct{}{}
		codes = append(codes, entry.Code)
	}
	return codes
}

func findWatched(watchlist []domain.WatchlistEntry, code string) (domain.WatchlistEntry, bool) {
	for _, entry := range watchlist {
		if entry.Code == code {
			return entry, true
		}
	}
	return domain.WatchlistEntry{}, false
}

func serveCSV(w http.ResponseWriter, filename string, write func(io.Writer) error) {
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	if err := write(w); err != nil {
		slog.Error("failed to write example file", "file", filename, "error", err)
	}
}
