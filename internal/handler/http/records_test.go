// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/MKhiriev/go-fin-keeper/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func coffee() models.TransactionInput {
	return models.TransactionInput{Description: "Coffee", Amount: 42, Type: models.TransactionExpense, Date: "2024-01-05"}
}

func TestRecords_CreateAssignsNextID(t *testing.T) {
	_, srv := startBackend(t, openServerConfig(), WithNextID(917))

	resp := call(t, srv, http.MethodPost, "/transactions", coffee())
	require.Equal(t, http.StatusCreated, resp.status)

	var tx models.Transaction
	resp.decode(t, &tx)
	assert.Equal(t, int64(917), tx.ID)
	assert.Equal(t, "Coffee", tx.Description)
	assert.Empty(t, tx.TempID)

	resp = call(t, srv, http.MethodPost, "/categories", models.CategoryInput{Name: "Food", Type: models.TransactionExpense})
	require.Equal(t, http.StatusCreated, resp.status)
	var cat models.Category
	resp.decode(t, &cat)
	assert.Equal(t, int64(918), cat.ID, "ids are shared across collections")
}

func TestRecords_CreateStripsClientMeta(t *testing.T) {
	_, srv := startBackend(t, openServerConfig())

	body := models.Transaction{
		RecordMeta:  models.RecordMeta{ID: 55, TempID: "tmp-1", IsOffline: true, DataSource: models.DataSourceLocal},
		Description: "Rent", Amount: 500, Type: models.TransactionExpense, Date: "2024-02-01",
	}
	resp := call(t, srv, http.MethodPost, "/transactions", body)
	require.Equal(t, http.StatusCreated, resp.status)

	var tx models.Transaction
	resp.decode(t, &tx)
	assert.Equal(t, models.RecordMeta{ID: 1}, tx.RecordMeta)
}

func TestRecords_Validation(t *testing.T) {
	_, srv := startBackend(t, openServerConfig())

	tests := []struct {
		name string
		path string
		body any
	}{
		{name: "transaction without type", path: "/transactions", body: models.TransactionInput{Amount: 1, Date: "2024-01-01"}},
		{name: "transaction without date", path: "/transactions", body: models.TransactionInput{Amount: 1, Type: models.TransactionIncome}},
		{name: "transaction with malformed date", path: "/transactions", body: models.TransactionInput{Amount: 1, Type: models.TransactionIncome, Date: "2024-13-40"}},
		{name: "target with malformed period", path: "/targets", body: models.TargetInput{Name: "Savings", Amount: 10, Period: "spring"}},
		{name: "negative amount", path: "/transactions", body: models.TransactionInput{Amount: -1, Type: models.TransactionIncome, Date: "2024-01-01"}},
		{name: "category without name", path: "/categories", body: models.CategoryInput{Type: models.TransactionIncome}},
		{name: "source without name", path: "/sources", body: models.SourceInput{Kind: "cash"}},
		{name: "target without amount", path: "/targets", body: models.TargetInput{Name: "Savings"}},
		{name: "malformed json", path: "/transactions", body: "not an object"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := call(t, srv, http.MethodPost, tt.path, tt.body)
			assert.Equal(t, http.StatusBadRequest, resp.status, string(resp.body))
		})
	}
}

func TestRecords_ListPaging(t *testing.T) {
	_, srv := startBackend(t, openServerConfig())

	for day := 1; day <= 5; day++ {
		in := coffee()
		in.Date = fmt.Sprintf("2024-01-%02d", day)
		require.Equal(t, http.StatusCreated, call(t, srv, http.MethodPost, "/transactions", in).status)
	}

	var page struct {
		Items []models.Transaction `json:"items"`
		Total int                  `json:"total"`
	}
	resp := call(t, srv, http.MethodGet, "/transactions?limit=2&offset=0", nil)
	require.Equal(t, http.StatusOK, resp.status)
	resp.decode(t, &page)

	assert.Equal(t, 5, page.Total)
	require.Len(t, page.Items, 2)
	assert.Equal(t, "2024-01-05", page.Items[0].Date, "transactions are newest first")
	assert.Equal(t, "2024-01-04", page.Items[1].Date)

	call(t, srv, http.MethodGet, "/transactions?limit=2&offset=4", nil).decode(t, &page)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "2024-01-01", page.Items[0].Date)

	call(t, srv, http.MethodGet, "/transactions?limit=2&offset=10", nil).decode(t, &page)
	assert.Empty(t, page.Items)
	assert.Equal(t, 5, page.Total)
}

func TestRecords_ListBadQuery(t *testing.T) {
	_, srv := startBackend(t, openServerConfig())

	for _, q := range []string{"limit=0", "limit=x", "offset=-1", "category_id=abc", "source_id=1.5"} {
		t.Run(q, func(t *testing.T) {
			assert.Equal(t, http.StatusBadRequest, call(t, srv, http.MethodGet, "/transactions?"+q, nil).status)
		})
	}
}

func TestRecords_ListFilters(t *testing.T) {
	_, srv := startBackend(t, openServerConfig())

	inputs := []models.TransactionInput{
		{Description: "Salary", Amount: 1000, Type: models.TransactionIncome, Date: "2024-01-01", CategoryID: 7},
		{Description: "Lunch", Amount: 12, Type: models.TransactionExpense, Date: "2024-01-10", CategoryID: 8},
		{Description: "Taxi", Amount: 20, Type: models.TransactionExpense, Date: "2024-02-03", CategoryID: 8},
	}
	for _, in := range inputs {
		require.Equal(t, http.StatusCreated, call(t, srv, http.MethodPost, "/transactions", in).status)
	}

	tests := []struct {
		query string
		want  []string
	}{
		{query: "type=expense", want: []string{"Taxi", "Lunch"}},
		{query: "category_id=7", want: []string{"Salary"}},
		{query: "from=2024-01-05&to=2024-01-31", want: []string{"Lunch"}},
		{query: "type=income&category_id=8", want: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			var page struct {
				Items []models.Transaction `json:"items"`
			}
			call(t, srv, http.MethodGet, "/transactions?"+tt.query, nil).decode(t, &page)

			got := make([]string, 0, len(page.Items))
			for _, tx := range page.Items {
				got = append(got, tx.Description)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRecords_GetUpdateDelete(t *testing.T) {
	_, srv := startBackend(t, openServerConfig(), WithNextID(10))

	require.Equal(t, http.StatusCreated, call(t, srv, http.MethodPost, "/sources", models.SourceInput{Name: "Cash"}).status)

	var src models.Source
	resp := call(t, srv, http.MethodGet, "/sources/10", nil)
	require.Equal(t, http.StatusOK, resp.status)
	resp.decode(t, &src)
	assert.Equal(t, "Cash", src.Name)

	resp = call(t, srv, http.MethodPut, "/sources/10", models.SourceInput{Name: "Wallet", Kind: "cash"})
	require.Equal(t, http.StatusOK, resp.status)
	resp.decode(t, &src)
	assert.Equal(t, int64(10), src.ID)
	assert.Equal(t, "Wallet", src.Name)

	assert.Equal(t, http.StatusNoContent, call(t, srv, http.MethodDelete, "/sources/10", nil).status)
	assert.Equal(t, http.StatusNotFound, call(t, srv, http.MethodGet, "/sources/10", nil).status)
	assert.Equal(t, http.StatusNotFound, call(t, srv, http.MethodDelete, "/sources/10", nil).status)
	assert.Equal(t, http.StatusNotFound, call(t, srv, http.MethodPut, "/sources/10", models.SourceInput{Name: "x"}).status)
	assert.Equal(t, http.StatusBadRequest, call(t, srv, http.MethodGet, "/sources/abc", nil).status)
}

func TestRecords_DeleteCategoryInUse(t *testing.T) {
	_, srv := startBackend(t, openServerConfig(), WithNextID(1))

	require.Equal(t, http.StatusCreated, call(t, srv, http.MethodPost, "/categories", models.CategoryInput{Name: "Food", Type: models.TransactionExpense}).status)

	in := coffee()
	in.CategoryID = 1
	require.Equal(t, http.StatusCreated, call(t, srv, http.MethodPost, "/transactions", in).status)
	require.Equal(t, http.StatusCreated, call(t, srv, http.MethodPost, "/transactions", in).status)
	require.Equal(t, http.StatusCreated, call(t, srv, http.MethodPost, "/targets", models.TargetInput{Name: "Food budget", Amount: 300, CategoryID: 1}).status)

	resp := call(t, srv, http.MethodDelete, "/categories/1", nil)
	require.Equal(t, http.StatusConflict, resp.status)

	var detail models.ConflictDetail
	resp.decode(t, &detail)
	assert.Equal(t, map[string]int{"transactions": 2, "targets": 1}, detail.References)
	assert.Contains(t, detail.Message, "in use")

	assert.Equal(t, http.StatusOK, call(t, srv, http.MethodGet, "/categories/1", nil).status, "refused delete keeps the record")
}

func TestRecords_CatalogsSortedByName(t *testing.T) {
	_, srv := startBackend(t, openServerConfig())

	for _, name := range []string{"rent", "Bills", "Cafe"} {
		require.Equal(t, http.StatusCreated, call(t, srv, http.MethodPost, "/categories", models.CategoryInput{Name: name}).status)
	}

	var page struct {
		Items []models.Category `json:"items"`
	}
	call(t, srv, http.MethodGet, "/categories", nil).decode(t, &page)

	require.Len(t, page.Items, 3)
	assert.Equal(t, []string{"Bills", "Cafe", "rent"}, []string{page.Items[0].Name, page.Items[1].Name, page.Items[2].Name})
}
