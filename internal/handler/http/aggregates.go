// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"math"
	"net/http"
	"sort"
	"strconv"

	"github.com/MKhiriev/go-fin-keeper/internal/utils"
	"github.com/MKhiriev/go-fin-keeper/models"
	"github.com/go-chi/chi/v5"
)

// dashboardView is the aggregate served by /dashboard.
type dashboardView struct {
	Income       float64          `json:"income"`
	Expense      float64          `json:"expense"`
	Balance      float64          `json:"balance"`
	Transactions int              `json:"transactions"`
	Categories   int              `json:"categories"`
	Sources      int              `json:"sources"`
	Targets      []targetProgress `json:"targets"`
}

type targetProgress struct {
	ID     int64   `json:"id"`
	Name   string  `json:"name"`
	Amount float64 `json:"amount"`
	Spent  float64 `json:"spent"`
}

// reportRow is one line of a report: a month or a category.
type reportRow struct {
	Key     string  `json:"key"`
	Income  float64 `json:"income"`
	Expense float64 `json:"expense"`
}

type reportView struct {
	Name string      `json:"name"`
	Rows []reportRow `json:"rows"`
}

// dashboard sums the transactions matching the query filters (from, to,
// type, category_id, source_id).
func (h *Handler) dashboard(w http.ResponseWriter, r *http.Request) {
	filters, err := parseTransactionFilters(r.URL.Query())
	if err != nil {
		writeError(w, r, err)
		return
	}
	txs := h.ledger.Transactions.all(filters.Match)

	view := dashboardView{
		Transactions: len(txs),
		Categories:   h.ledger.Categories.count(func(models.Category) bool { return true }),
		Sources:      h.ledger.Sources.count(func(models.Source) bool { return true }),
		Targets:      []targetProgress{},
	}
	for _, tx := range txs {
		if tx.Type == models.TransactionIncome {
			view.Income += tx.Amount
		} else {
			view.Expense += tx.Amount
		}
	}
	view.Income, view.Expense = round2(view.Income), round2(view.Expense)
	view.Balance = round2(view.Income - view.Expense)

	for _, target := range h.ledger.Targets.all(nil) {
		progress := targetProgress{ID: target.ID, Name: target.Name, Amount: target.Amount}
		for _, tx := range txs {
			if tx.Type != models.TransactionExpense {
				continue
			}
			if target.CategoryID != 0 && tx.CategoryID != target.CategoryID {
				continue
			}
			if target.Period != "" && (len(tx.Date) < 7 || tx.Date[:7] != target.Period) {
				continue
			}
			progress.Spent += tx.Amount
		}
		progress.Spent = round2(progress.Spent)
		view.Targets = append(view.Targets, progress)
	}

	_, _ = utils.WriteJSON(w, view, http.StatusOK)
}

// report serves /reports/monthly (grouped by YYYY-MM) and
// /reports/categories (grouped by category id, 0 for uncategorised).
func (h *Handler) report(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	var group func(models.Transaction) string
	switch name {
	case "monthly":
		group = func(tx models.Transaction) string {
			if len(tx.Date) < 7 {
				return tx.Date
			}
			return tx.Date[:7]
		}
	case "categories":
		group = func(tx models.Transaction) string {
			return strconv.FormatInt(tx.CategoryID, 10)
		}
	default:
		writeError(w, r, ErrUnknownReport)
		return
	}

	filters, err := parseTransactionFilters(r.URL.Query())
	if err != nil {
		writeError(w, r, err)
		return
	}

	rows := map[string]*reportRow{}
	for _, tx := range h.ledger.Transactions.all(filters.Match) {
		key := group(tx)
		row, ok := rows[key]
		if !ok {
			row = &reportRow{Key: key}
			rows[key] = row
		}
		if tx.Type == models.TransactionIncome {
			row.Income += tx.Amount
		} else {
			row.Expense += tx.Amount
		}
	}

	view := reportView{Name: name, Rows: make([]reportRow, 0, len(rows))}
	for _, row := range rows {
		row.Income, row.Expense = round2(row.Income), round2(row.Expense)
		view.Rows = append(view.Rows, *row)
	}
	sort.Slice(view.Rows, func(i, j int) bool { return view.Rows[i].Key < view.Rows[j].Key })

	_, _ = utils.WriteJSON(w, view, http.StatusOK)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
