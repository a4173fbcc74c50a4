package domain

import "time"

// RunSummary is written next to the generated documents at the end of a run.
type RunSummary struct {
	GeneratedAt   time.Time      `json:"generated_at"`
	TotalAPIs     int            `json:"total_apis"`
	GeneratedDocs int            `json:"generated_docs"`
	Categories    map[string]int `json:"categories"`
	Errors        int            `json:"errors"`
	Invalid       int            `json:"invalid,omitempty"`
	Failed        int            `json:"failed,omitempty"`
}
