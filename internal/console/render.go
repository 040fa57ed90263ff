// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package console

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"sqlbridge/cli/internal/bridge/model"
	"sqlbridge/cli/internal/gather"

	"github.com/pterm/pterm"
)

const unknown = "unknown"

// Render formats every label of snap for the terminal. List labels show at
// most maxRows rows; maxRows <= 0 shows all of them.
func Render(snap *gather.Snapshot, maxRows int) string {
	var sb strings.Builder
	sb.WriteString(pterm.NewStyle(pterm.FgLightCyan).Sprintf("Snapshot %s  %s  (%s)\n\n",
		snap.ID.String()[:8],
		snap.CompletedAt.Format(time.DateTime),
		snap.Elapsed().Round(time.Millisecond)))

	for _, label := range snap.Labels() {
		v, _ := snap.Value(label)
		title := pterm.NewStyle(pterm.FgCyan, pterm.Bold).Sprint(label)
		if !v.Known {
			sb.WriteString(title + " " + pterm.NewStyle(pterm.FgRed).Sprintf("(%s: %s)", unknown, v.Err) + "\n\n")
			continue
		}
		if v.Shape == gather.ShapeSummary {
			if v.Row == nil {
				sb.WriteString(title + pterm.NewStyle(pterm.FgGray).Sprint(" (no row)") + "\n\n")
				continue
			}
			sb.WriteString(title + "\n" + table(summaryData(v.Row)) + "\n")
			continue
		}
		sb.WriteString(title + pterm.NewStyle(pterm.FgGray).Sprintf(" (%d rows)", len(v.Rows)) + "\n")
		if len(v.Rows) > 0 {
			sb.WriteString(RenderRows(v.Rows, maxRows))
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

// Headline renders the dashboard's headline figures as a box. Unknown figures
// are shown as unknown, never as zero.
func Headline(v View) string {
	stat := func(known bool, f func() string) string {
		if !known {
			return pterm.NewStyle(pterm.FgRed).Sprint(unknown)
		}
		return f()
	}
	ov, rd, ip, bas := v.Overview, v.RD, v.IP, v.BAS

	lines := []string{
		"Transactions:    " + stat(ov != nil, func() string { return formatValue(float64(ov.TxCount)) }),
		"Rules:           " + stat(ov != nil, func() string { return formatValue(float64(ov.RuleCount)) }),
		"Total spend:     " + stat(ov != nil, func() string { return money(ov.TotalSpend) }),
		"R&D spend:       " + stat(rd != nil, func() string { return money(rd.Spend) }),
		"R&D rebate:      " + stat(rd != nil, func() string { return money(rd.Rebate) }),
		"IP assets:       " + stat(ip != nil, func() string { return fmt.Sprintf("%d (%d active)", ip.Total, ip.Active) }),
		"Net GST:         " + stat(bas != nil, func() string { return money(bas.NetGST()) }),
	}
	title := pterm.NewStyle(pterm.FgLightCyan, pterm.Bold).Sprint("Money Console")
	return pterm.DefaultBox.WithTitle(title).WithPadding(1).Sprint(strings.Join(lines, "\n"))
}

// RenderRows formats a single result's rows as a table.
func RenderRows(rows []model.Row, maxRows int) string {
	if len(rows) == 0 {
		return pterm.NewStyle(pterm.FgGray).Sprint("(no rows)") + "\n"
	}
	out := table(listData(rows, maxRows))
	if maxRows > 0 && len(rows) > maxRows {
		out += pterm.NewStyle(pterm.FgGray).Sprintf("... %d more\n", len(rows)-maxRows)
	}
	return out
}

func table(data pterm.TableData) string {
	out, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
	if err != nil {
		return fmt.Sprintf("render table: %v\n", err)
	}
	return out + "\n"
}

func summaryData(row model.Row) pterm.TableData {
	data := pterm.TableData{{"column", "value"}}
	for _, k := range sortedKeys(row) {
		data = append(data, []string{k, formatValue(row[k])})
	}
	return data
}

func listData(rows []model.Row, maxRows int) pterm.TableData {
	cols := sortedKeys(rows[0])
	data := pterm.TableData{cols}
	for i, row := range rows {
		if maxRows > 0 && i >= maxRows {
			break
		}
		line := make([]string, len(cols))
		for j, c := range cols {
			line[j] = formatValue(row[c])
		}
		data = append(data, line)
	}
	return data
}

func sortedKeys(row model.Row) []string {
	keys := make([]string, 0, len(row))
	for k := range row {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func formatValue(v any) string {
	switch t := v.(type) {
	case nil:
		return "-"
	case float64:
		if t == math.Trunc(t) && math.Abs(t) < 1e15 {
			return fmt.Sprintf("%.0f", t)
		}
		return fmt.Sprintf("%.2f", t)
	case json.Number:
		if _, err := t.Int64(); err == nil {
			return t.String()
		}
		if f, err := t.Float64(); err == nil {
			return formatValue(f)
		}
		return t.String()
	case string:
		return t
	default:
		return fmt.Sprint(t)
	}
}

func money(f float64) string {
	return fmt.Sprintf("$%.2f", f)
}
