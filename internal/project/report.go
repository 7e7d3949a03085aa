package project

import (
	"time"

	"github.com/KaramelBytes/splitcmp-cli/internal/analysis"
)

// Report is an archived analysis run attached to a project.
type Report struct {
	ID          string           `json:"id"`
	Dataset     string           `json:"dataset"`
	Request     analysis.Request `json:"request"`
	File        string           `json:"file"`
	Description string           `json:"description"`
	Significant map[string]bool  `json:"significant"`
	CreatedAt   time.Time        `json:"created_at"`
}

// Percentile is the split point the report was produced at.
func (r *Report) Percentile() float64 { return r.Request.Percentile }

// NewReport records the outcome of res, whose rendered form lives at file.
func NewReport(res *analysis.Result, file, description string) *Report {
	sig := make(map[string]bool, len(res.Groups))
	for label, g := range res.Groups {
		sig[label] = g.Significant
	}
	return &Report{
		Dataset:     res.Dataset,
		Request:     res.Request,
		File:        file,
		Description: description,
		Significant: sig,
	}
}
