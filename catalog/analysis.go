package catalog

import (
	"fmt"
	"strings"
	"time"

	"farmFilters/types"
)

type Detection struct {
	ViolationType types.ViolationType `json:"violation_type"`
	Confidence    float64             `json:"confidence"`
}

// Analysis is the outcome of one uploaded image.
type Analysis struct {
	ID             string        `json:"id"`
	Filename       string        `json:"filename"`
	UploadTime     time.Time     `json:"upload_time"`
	Region         string        `json:"region,omitempty"`
	Detections     []Detection   `json:"detections"`
	ViolationCount int           `json:"violation_count"`
	ProcessingTime time.Duration `json:"processing_time"`
	Summary        string        `json:"summary"`
}

// Summarize writes the one-line verdict shown under an analysis,
// e.g. "Detected 2 potential violations: 1 unauthorized building, 1 deforestation."
func (a Analysis) Summarize() string {
	if len(a.Detections) == 0 {
		return "No violations detected in the image. The land appears to be in compliance with regulations."
	}
	counts := map[types.ViolationType]int{}
	for _, d := range a.Detections {
		counts[d.ViolationType]++
	}
	parts := make([]string, 0, len(counts))
	for _, v := range types.ViolationTypes {
		if c := counts[v]; c > 0 {
			parts = append(parts, fmt.Sprintf("%d %s", c, strings.ReplaceAll(string(v), "_", " ")))
		}
	}
	noun := "violations"
	if len(a.Detections) == 1 {
		noun = "violation"
	}
	return fmt.Sprintf("Detected %d potential %s: %s.", len(a.Detections), noun, strings.Join(parts, ", "))
}

// ReportFromAnalysis turns an analysis into a reports-list entry.
func ReportFromAnalysis(a Analysis) Report {
	r := Report{
		ID:           "report-" + a.ID,
		Filename:     a.Filename,
		AnalysisDate: a.UploadTime,
		Violations:   len(a.Detections),
		Status:       types.ReportCompliant,
		Region:       a.Region,
	}
	if len(a.Detections) > 0 {
		r.Status = types.ReportViolation
		r.ViolationTypes = make([]types.ViolationType, len(a.Detections))
		for i, d := range a.Detections {
			r.ViolationTypes[i] = d.ViolationType
		}
	}
	return r
}
