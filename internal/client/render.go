// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package client

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/MKhiriev/go-fin-keeper/models"
)

var (
	pageStyle  = lipgloss.NewStyle().Padding(0, 1)
	titleStyle = lipgloss.NewStyle().Bold(true)
	hintStyle  = lipgloss.NewStyle().Faint(true)
	boxStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
)

const divider = "────────────────────────────────"

func renderPage(title, body, hint string) string {
	var b strings.Builder

	b.WriteString(titleStyle.Render(title))
	b.WriteString("\n")
	b.WriteString(divider)
	b.WriteString("\n")

	if strings.TrimSpace(body) == "" {
		b.WriteString("-")
	} else {
		b.WriteString(body)
	}

	if hint != "" {
		b.WriteString("\n\n")
		b.WriteString(hintStyle.Render(hint))
	}

	return pageStyle.Render(b.String())
}

// renderTable lays out rows in columns sized by lipgloss.Width so that
// multi-byte cells stay aligned.
func renderTable(headers []string, rows [][]string) string {
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = lipgloss.Width(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			if w := lipgloss.Width(cell); w > widths[i] {
				widths[i] = w
			}
		}
	}

	var b strings.Builder
	writeRow := func(cells []string) {
		for i, cell := range cells {
			if i > 0 {
				b.WriteString(" │ ")
			}
			b.WriteString(cell)
			if i < len(cells)-1 {
				b.WriteString(strings.Repeat(" ", widths[i]-lipgloss.Width(cell)))
			}
		}
		b.WriteString("\n")
	}

	writeRow(headers)
	for i, w := range widths {
		if i > 0 {
			b.WriteString("─┼─")
		}
		b.WriteString(strings.Repeat("─", w))
	}
	b.WriteString("\n")
	for _, row := range rows {
		writeRow(row)
	}

	return strings.TrimRight(b.String(), "\n")
}

// RenderStatus formats the output of the status command.
func RenderStatus(s Status) string {
	reachability := "offline"
	if s.Connectivity.Reachable {
		reachability = "online"
	}
	probe := "failed"
	if s.ProbeOK {
		probe = "ok"
	}

	lines := []string{
		"backend:        " + s.Backend,
		"reachability:   " + reachability,
		"last probe:     " + probe,
		"failures:       " + strconv.Itoa(s.Connectivity.ConsecutiveFailures),
		"probe interval: " + s.Connectivity.CheckInterval.String(),
		"pending writes: " + strconv.Itoa(len(s.Pending)),
	}
	if !s.Connectivity.LastCheckedAt.IsZero() {
		lines = append(lines, "checked at:     "+s.Connectivity.LastCheckedAt.Format(time.RFC3339))
	}

	return renderPage("STATUS", boxStyle.Render(strings.Join(lines, "\n")), "")
}

// RenderQueue lists pending writes in replay order.
func RenderQueue(items []models.SyncQueueItem) string {
	rows := make([][]string, 0, len(items))
	for _, it := range items {
		rows = append(rows, []string{
			strconv.FormatInt(it.ID, 10),
			string(it.Method),
			it.Endpoint,
			strconv.Itoa(it.Retries),
			it.NextAttemptAt.Format(time.RFC3339),
			it.LastError,
		})
	}
	if len(rows) == 0 {
		return renderPage("PENDING WRITES", "", "queue is empty")
	}
	return renderPage("PENDING WRITES",
		renderTable([]string{"ID", "METHOD", "ENDPOINT", "RETRIES", "NEXT ATTEMPT", "LAST ERROR"}, rows),
		fmt.Sprintf("%d pending", len(items)))
}

// RenderTransactions lists transactions with their provenance.
func RenderTransactions(txs []models.Transaction) string {
	rows := make([][]string, 0, len(txs))
	for _, tx := range txs {
		rows = append(rows, []string{
			recordRef(tx.RecordMeta),
			tx.Date,
			string(tx.Type),
			strconv.FormatFloat(tx.Amount, 'f', 2, 64),
			tx.Description,
			provenance(tx.RecordMeta),
		})
	}
	return renderPage("TRANSACTIONS",
		renderTable([]string{"ID", "DATE", "TYPE", "AMOUNT", "DESCRIPTION", "SOURCE"}, rows),
		"* local changes are waiting for sync")
}

// RenderCategories lists categories with their provenance.
func RenderCategories(categories []models.Category) string {
	rows := make([][]string, 0, len(categories))
	for _, c := range categories {
		rows = append(rows, []string{
			recordRef(c.RecordMeta),
			c.Name,
			string(c.Type),
			provenance(c.RecordMeta),
		})
	}
	return renderPage("CATEGORIES", renderTable([]string{"ID", "NAME", "TYPE", "SOURCE"}, rows), "")
}

// RenderWrite reports the outcome of a single facade write.
func RenderWrite[T any](action string, res models.WriteResult[T], meta models.RecordMeta) string {
	if res.Queued() {
		return fmt.Sprintf("%s queued as %s (queue item %d); it will be sent when the backend is reachable",
			action, recordRef(meta), res.QueueID)
	}
	return fmt.Sprintf("%s confirmed as %s", action, recordRef(meta))
}

// RenderDrainReport summarises a manual sync pass.
func RenderDrainReport(r models.DrainReport) string {
	if r.Skipped {
		return "sync skipped: another pass is running or the backend is unreachable"
	}
	return fmt.Sprintf("attempted %d, synced %d, rescheduled %d, abandoned %d, conflicts %d",
		r.Attempted, r.Synced, r.Rescheduled, r.Abandoned, r.Conflicts)
}

func recordRef(m models.RecordMeta) string {
	if m.ID != 0 {
		return strconv.FormatInt(m.ID, 10)
	}
	return m.TempID
}

func provenance(m models.RecordMeta) string {
	s := string(m.DataSource)
	if m.IsOffline || m.Deleted {
		s += "*"
	}
	return s
}
