package http

import (
	"encoding/json"
	"net/http"
	"time"

	"tally/internal/charts"
	"tally/internal/core"
	"tally/internal/stats"
)

// Stats views are cached per account as serialized payloads and invalidated
// wholesale whenever the account's ledger mutates.
const (
	viewSummary    = "summary"
	viewCategories = "categories"
	viewMonthly    = "monthly"
	viewTrendPNG   = "trend.png"
)

func statsCacheKey(accountID, view string) string {
	return accountID + ":" + view
}

func (s *Server) invalidateStats(accountID string) {
	s.statsCache.DeletePrefix(accountID + ":")
}

func (s *Server) handleStatsSummary(w http.ResponseWriter, r *http.Request) {
	s.serveStatsJSON(w, r, viewSummary, func(expenses []core.Expense) (any, error) {
		return stats.Summarize(expenses, time.Now()), nil
	})
}

func (s *Server) handleStatsCategories(w http.ResponseWriter, r *http.Request) {
	s.serveStatsJSON(w, r, viewCategories, func(expenses []core.Expense) (any, error) {
		totals := stats.ByCategory(expenses)
		if totals == nil {
			totals = []stats.CategoryTotal{}
		}
		return totals, nil
	})
}

func (s *Server) handleStatsMonthly(w http.ResponseWriter, r *http.Request) {
	s.serveStatsJSON(w, r, viewMonthly, func(expenses []core.Expense) (any, error) {
		return stats.MonthlyTrend(expenses, time.Now(), s.trendMonths), nil
	})
}

func (s *Server) handleStatsTrendChart(w http.ResponseWriter, r *http.Request) {
	session, err := s.currentSession(r)
	if err != nil {
		writeError(w, err)
		return
	}

	key := statsCacheKey(session.ID, viewTrendPNG)
	if png, found := s.statsCache.Get(key); found {
		servePNG(w, png)
		return
	}

	expenses, err := s.ledger.List(r.Context(), session.ID)
	if err != nil {
		writeError(w, err)
		return
	}

	png, err := charts.RenderMonthlyTrend(stats.MonthlyTrend(expenses, time.Now(), s.trendMonths))
	if err != nil {
		s.logger.ErrorContext(r.Context(), "Trend chart render failed", "error", err, "account_id", session.ID)
		writeError(w, err)
		return
	}
	if png == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	s.statsCache.Set(key, png)
	servePNG(w, png)
}

// serveStatsJSON answers a statistics view from the cache, computing and
// caching the serialized payload on a miss.
func (s *Server) serveStatsJSON(w http.ResponseWriter, r *http.Request, view string, compute func([]core.Expense) (any, error)) {
	session, err := s.currentSession(r)
	if err != nil {
		writeError(w, err)
		return
	}

	key := statsCacheKey(session.ID, view)
	if payload, found := s.statsCache.Get(key); found {
		serveCachedJSON(w, payload)
		return
	}

	expenses, err := s.ledger.List(r.Context(), session.ID)
	if err != nil {
		s.logger.ErrorContext(r.Context(), "Stats source load failed", "error", err, "view", view, "account_id", session.ID)
		writeError(w, err)
		return
	}

	result, err := compute(expenses)
	if err != nil {
		writeError(w, err)
		return
	}

	payload, err := json.Marshal(result)
	if err != nil {
		writeError(w, err)
		return
	}

	s.statsCache.Set(key, payload)
	serveCachedJSON(w, payload)
}

func serveCachedJSON(w http.ResponseWriter, payload []byte) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(payload)
}

func servePNG(w http.ResponseWriter, png []byte) {
	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(png)
}
