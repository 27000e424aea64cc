package report

import (
	"encoding/json"
	"time"

	"classlens/internal/pipeline"
)

// Summary is the machine-readable export of one run.
type Summary struct {
	RunID       string           `json:"run_id"`
	GeneratedAt time.Time        `json:"generated_at"`
	DurationMS  int64            `json:"duration_ms"`
	Classes     int              `json:"classes"`
	Edges       int              `json:"edges"`
	Versions    map[string]int   `json:"versions"`
	Cycles      [][]string       `json:"cycles"`
	Components  []componentJSON  `json:"components"`
	Beans       []beanJSON       `json:"beans"`
	Wiring      []wiringJSON     `json:"wiring"`
	EntryPoints []string         `json:"entry_points"`
	Chains      []chainJSON      `json:"chains"`
	Diagnostics []diagnosticJSON `json:"diagnostics"`
}

type componentJSON struct {
	Class string `json:"class"`
	Type  string `json:"type"`
}

type beanJSON struct {
	Class      string `json:"class"`
	Method     string `json:"method"`
	ReturnType string `json:"return_type"`
}

type wiringJSON struct {
	From  string `json:"from"`
	To    string `json:"to"`
	Field string `json:"field"`
}

type chainJSON struct {
	Path      []string `json:"path"`
	Truncated bool     `json:"truncated"`
}

type diagnosticJSON struct {
	Archive string `json:"archive"`
	Entry   string `json:"entry"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// MarshalSummary serializes the run result as indented JSON.
func MarshalSummary(res *pipeline.Result) ([]byte, error) {
	summary := Summary{
		RunID:       res.RunID,
		GeneratedAt: res.StartedAt.UTC(),
		DurationMS:  res.Duration.Milliseconds(),
		Classes:     res.Index.Len(),
		Edges:       res.Dependencies.EdgeCount(),
		Versions:    res.Versions,
		Cycles:      res.CycleGroups,
		EntryPoints: res.EntryPoints,
	}
	for _, c := range res.Components {
		summary.Components = append(summary.Components, componentJSON{Class: c.Class, Type: string(c.Type)})
	}
	for _, b := range res.Beans {
		summary.Beans = append(summary.Beans, beanJSON{Class: b.Class, Method: b.Method, ReturnType: b.ReturnType})
	}
	for _, w := range res.ComponentDeps {
		summary.Wiring = append(summary.Wiring, wiringJSON{From: w.From, To: w.To, Field: w.Field})
	}
	for _, chain := range res.Chains {
		summary.Chains = append(summary.Chains, chainJSON{Path: chain.Path, Truncated: chain.Truncated})
	}
	for _, d := range res.Diagnostics {
		summary.Diagnostics = append(summary.Diagnostics, diagnosticJSON{
			Archive: d.Archive,
			Entry:   d.Entry,
			Code:    string(d.Code),
			Message: d.Message,
		})
	}
	return json.MarshalIndent(summary, "", "  ")
}
