// Copyright 2026 The PromptLab Authors
// SPDX-License-Identifier: MIT

package lab

import (
	"math"

	"github.com/davetashner/promptlab/internal/redact"
)

// ResultRow is one displayed outcome within a run, tagged with its 1-based
// position and the prompt that produced it.
type ResultRow struct {
	Index          int      `json:"#"`
	Prompt         string   `json:"prompt"`
	Output         string   `json:"output"`
	LatencySeconds *float64 `json:"latency_s"`
	Tokens         *int     `json:"tokens"`
	CostUSD        *float64 `json:"cost_usd"`
	Failed         bool     `json:"failed,omitempty"`
}

// NewResultRow builds the row for the invocation at the given position.
// A failed outcome yields an ERROR-prefixed output and no metrics.
func NewResultRow(index int, prompt string, o Outcome) ResultRow {
	row := ResultRow{Index: index, Prompt: prompt}
	if o.Failed() {
		row.Output = ErrorMarker + redact.String(o.Err.Error())
		row.Failed = true
		return row
	}

	latency := Round(o.Result.Latency.Seconds(), 3)
	row.Output = o.Result.OutputText
	row.LatencySeconds = &latency
	if o.Result.TotalTokens != nil {
		tokens := *o.Result.TotalTokens
		row.Tokens = &tokens
	}
	if o.Result.CostUSD != nil {
		cost := Round(*o.Result.CostUSD, 6)
		row.CostUSD = &cost
	}
	return row
}

// Round rounds v to the given number of decimal places, half away from zero.
func Round(v float64, places int) float64 {
	scale := math.Pow(10, float64(places))
	return math.Round(v*scale) / scale
}

// Summary counts succeeded and failed rows.
type Summary struct {
	Total     int `json:"total"`
	Succeeded int `json:"succeeded"`
	Failed    int `json:"failed"`
}

// Summarize counts the outcomes in rows.
func Summarize(rows []ResultRow) Summary {
	s := Summary{Total: len(rows)}
	for _, r := range rows {
		if r.Failed {
			s.Failed++
		} else {
			s.Succeeded++
		}
	}
	return s
}
