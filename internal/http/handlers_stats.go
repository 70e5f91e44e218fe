package http

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"plenio/internal/auth"
	"plenio/internal/core"
	"plenio/internal/log"
)

// recentTransactionsCount is how many transactions the monthly stats view
// shows alongside the totals.
const recentTransactionsCount = 10

type summaryResponse struct {
	TotalIncome      int64                  `json:"totalIncome"`
	TotalExpense     int64                  `json:"totalExpense"`
	TotalBalance     int64                  `json:"totalBalance"`
	CategoryExpenses []core.CategoryExpense `json:"categoryExpenses"`
}

type monthlyStatsResponse struct {
	Year                int                    `json:"year"`
	Month               int                    `json:"month"`
	TotalIncome         int64                  `json:"totalIncome"`
	TotalExpense        int64                  `json:"totalExpense"`
	TotalIncomeDisplay  string                 `json:"totalIncomeDisplay"`
	TotalExpenseDisplay string                 `json:"totalExpenseDisplay"`
	CategoryExpenses    []core.CategoryExpense `json:"categoryExpenses"`
	RecentTransactions  []core.Transaction     `json:"recentTransactions"`
}

// handleStatsSummary returns all-time totals plus the combined balance of the
// user's payment methods.
func (s *Server) handleStatsSummary(w http.ResponseWriter, r *http.Request) {
	uid, _ := auth.GetUserID(r.Context())
	key := "stats:" + uid + ":summary"

	if cached, ok := s.summaryCache.Get(key); ok {
		slog.DebugContext(r.Context(), "Summary cache hit", log.FieldUserID, uid)
		writeJSON(w, http.StatusOK, cached)
		return
	}

	txns, err := s.store.ListTransactions(r.Context(), uid, 0)
	if err != nil {
		writeStoreError(w, r, err, "transactions")
		return
	}
	methods, err := s.store.ListPaymentMethods(r.Context(), uid)
	if err != nil {
		writeStoreError(w, r, err, "payment methods")
		return
	}

	totals := core.Summarize(txns)
	resp := summaryResponse{
		TotalIncome:      totals.TotalIncome,
		TotalExpense:     totals.TotalExpense,
		CategoryExpenses: totals.CategoryExpenses,
	}
	if resp.CategoryExpenses == nil {
		resp.CategoryExpenses = []core.CategoryExpense{}
	}
	for _, m := range methods {
		resp.TotalBalance += m.Balance
	}

	s.summaryCache.Set(key, resp)
	writeJSON(w, http.StatusOK, resp)
}

// handleStatsMonthly returns the totals for a single calendar month along
// with the most recent transactions inside it.
func (s *Server) handleStatsMonthly(w http.ResponseWriter, r *http.Request) {
	uid, _ := auth.GetUserID(r.Context())
	year, month := parseYearMonth(r)
	key := fmt.Sprintf("stats:%s:monthly:%d-%02d", uid, year, month)

	if cached, ok := s.monthlyCache.Get(key); ok {
		slog.DebugContext(r.Context(), "Monthly stats cache hit",
			log.FieldUserID, uid, log.FieldYear, year, log.FieldMonth, month)
		writeJSON(w, http.StatusOK, cached)
		return
	}

	txns, err := s.store.ListTransactions(r.Context(), uid, 0)
	if err != nil {
		writeStoreError(w, r, err, "transactions")
		return
	}

	window := core.MonthWindow(time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC))
	inWindow, err := core.FilterByWindow(txns, window)
	if err != nil {
		slog.ErrorContext(r.Context(), "Monthly aggregation failed",
			log.FieldUserID, uid, log.FieldYear, year, log.FieldMonth, month, log.FieldError, err)
		writeError(w, http.StatusInternalServerError, "malformed transaction data")
		return
	}

	totals := core.Summarize(inWindow)
	resp := monthlyStatsResponse{
		Year:                year,
		Month:               month,
		TotalIncome:         totals.TotalIncome,
		TotalExpense:        totals.TotalExpense,
		TotalIncomeDisplay:  core.FormatAmount(totals.TotalIncome),
		TotalExpenseDisplay: core.FormatAmount(totals.TotalExpense),
		CategoryExpenses:    totals.CategoryExpenses,
		RecentTransactions:  core.MostRecent(inWindow, recentTransactionsCount),
	}
	if resp.CategoryExpenses == nil {
		resp.CategoryExpenses = []core.CategoryExpense{}
	}
	if resp.RecentTransactions == nil {
		resp.RecentTransactions = []core.Transaction{}
	}

	s.monthlyCache.Set(key, resp)
	writeJSON(w, http.StatusOK, resp)
}

// handleBudgetStatus returns the consumption of every budget against the
// requested month.
func (s *Server) handleBudgetStatus(w http.ResponseWriter, r *http.Request) {
	uid, _ := auth.GetUserID(r.Context())
	year, month := parseYearMonth(r)
	key := fmt.Sprintf("stats:%s:budgets:%d-%02d", uid, year, month)

	if cached, ok := s.statusCache.Get(key); ok {
		slog.DebugContext(r.Context(), "Budget status cache hit",
			log.FieldUserID, uid, log.FieldYear, year, log.FieldMonth, month)
		writeJSON(w, http.StatusOK, cached)
		return
	}

	budgets, err := s.store.ListBudgets(r.Context(), uid)
	if err != nil {
		writeStoreError(w, r, err, "budgets")
		return
	}
	txns, err := s.store.ListTransactions(r.Context(), uid, 0)
	if err != nil {
		writeStoreError(w, r, err, "transactions")
		return
	}

	window := core.MonthWindow(time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC))
	inWindow, err := core.FilterByWindow(txns, window)
	if err != nil {
		slog.ErrorContext(r.Context(), "Budget status aggregation failed",
			log.FieldUserID, uid, log.FieldYear, year, log.FieldMonth, month, log.FieldError, err)
		writeError(w, http.StatusInternalServerError, "malformed transaction data")
		return
	}

	statuses := make([]core.BudgetStatus, 0, len(budgets))
	for _, b := range budgets {
		statuses = append(statuses, core.StatusFor(b, inWindow))
	}

	s.statusCache.Set(key, statuses)
	writeJSON(w, http.StatusOK, statuses)
}
