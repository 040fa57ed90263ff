// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package console

import (
	"sqlbridge/cli/internal/gather"
)

// Overview is the headline row of the dashboard.
type Overview struct {
	TxCount      int64   `mapstructure:"tx_count"`
	RuleCount    int64   `mapstructure:"rule_count"`
	IPCount      int64   `mapstructure:"ip_count"`
	TotalSpend   float64 `mapstructure:"total_spend"`
	RDTxCount    int64   `mapstructure:"rd_tx_count"`
	RDSpend      float64 `mapstructure:"rd_spend"`
	RDMatrixRows int64   `mapstructure:"rd_matrix_rows"`
}

type RDSummary struct {
	Rows   int64   `mapstructure:"rows"`
	Spend  float64 `mapstructure:"spend"`
	Rebate float64 `mapstructure:"rebate"`
}

type IPSummary struct {
	Total      int64 `mapstructure:"total"`
	Active     int64 `mapstructure:"active"`
	Patents    int64 `mapstructure:"patents"`
	Trademarks int64 `mapstructure:"trademarks"`
	Copyrights int64 `mapstructure:"copyrights"`
	Secrets    int64 `mapstructure:"secrets"`
	Domains    int64 `mapstructure:"domains"`
}

type BASSummary struct {
	GSTCollected float64 `mapstructure:"gst_collected"`
	GSTPaid      float64 `mapstructure:"gst_paid"`
}

// NetGST is collected minus paid; positive means GST is payable.
func (b BASSummary) NetGST() float64 { return b.GSTCollected - b.GSTPaid }

// View is the typed form of a dashboard snapshot. A nil field means the
// summary is unknown: its query failed or returned no row.
type View struct {
	Overview *Overview
	RD       *RDSummary
	IP       *IPSummary
	BAS      *BASSummary
}

// NewView decodes the dashboard summaries of snap.
func NewView(snap *gather.Snapshot) (View, error) {
	var v View
	var err error
	if v.Overview, err = decode[Overview](snap, "overview"); err != nil {
		return View{}, err
	}
	if v.RD, err = decode[RDSummary](snap, "rdSummary"); err != nil {
		return View{}, err
	}
	if v.IP, err = decode[IPSummary](snap, "ipSummary"); err != nil {
		return View{}, err
	}
	if v.BAS, err = decode[BASSummary](snap, "basSummary"); err != nil {
		return View{}, err
	}
	return v, nil
}

func decode[T any](snap *gather.Snapshot, label string) (*T, error) {
	var out T
	ok, err := snap.DecodeSummary(label, &out)
	if err != nil || !ok {
		return nil, err
	}
	return &out, nil
}
