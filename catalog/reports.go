package catalog

import (
	"fmt"
	"math"
	"math/rand/v2"
	"slices"
	"time"

	"farmFilters/schemas"
	"farmFilters/types"
)

const (
	ReportsName     = "reports"
	ReportsPageSize = 10
)

// Report is one analysed image as listed on the reports screen.
type Report struct {
	ID             string                `json:"id" yaml:"id" msgpack:"id"`
	Filename       string                `json:"filename" yaml:"filename" msgpack:"filename"`
	AnalysisDate   time.Time             `json:"analysisDate" yaml:"analysisDate" msgpack:"analysisDate"`
	Violations     int                   `json:"violations" yaml:"violations" msgpack:"violations"`
	Status         types.ReportStatus    `json:"status" yaml:"status" msgpack:"status"`
	Region         string                `json:"region" yaml:"region" msgpack:"region"`
	ViolationTypes []types.ViolationType `json:"violationTypes" yaml:"violationTypes" msgpack:"violationTypes"`
}

func Reports() schemas.Schema {
	return schemas.Schema{
		Name:     ReportsName,
		Table:    "analysis_reports",
		IDColumn: "id",
		Fields: []schemas.Field{
			{Name: "filename", Column: "filename", Kind: types.KindText},
			{Name: "region", Column: "region", Kind: types.KindCategorical},
			{Name: "status", Column: "status", Kind: types.KindCategorical},
			{Name: "violations", Column: "violations", Kind: types.KindNumeric},
			{Name: "analysisDate", Column: "analysis_date", Kind: types.KindDate},
		},
		Searchable: []string{"filename", "region"},
		Buckets: map[string][]types.Bucket{
			"violations": {
				types.NewBucket("none", math.Inf(-1), 1),
				types.NewBucket("some", 1, 3),
				types.NewBucket("many", 3, math.Inf(1)),
			},
		},
		DefaultSort: &types.SortSpec{Field: "analysisDate", Dir: types.Desc},
		PageSize:    ReportsPageSize,
	}
}

// ReportFilter is the status selector of the reports screen.
type ReportFilter string

const (
	ReportFilterAll        ReportFilter = "all"
	ReportFilterViolations ReportFilter = "violations"
	ReportFilterCompliant  ReportFilter = "compliant"
)

// Status is the report status the selector stands for; "" means no
// constraint.
func (f ReportFilter) Status() (types.ReportStatus, error) {
	switch f {
	case ReportFilterAll, "":
		return "", nil
	case ReportFilterViolations:
		return types.ReportViolation, nil
	case ReportFilterCompliant:
		return types.ReportCompliant, nil
	}
	return "", fmt.Errorf("unknown report filter %q", f)
}

func (r Report) Record() types.Record {
	return types.Record{
		ID: r.ID,
		Categorical: map[string]string{
			"region": r.Region,
			"status": string(r.Status),
		},
		Numeric:    map[string]float64{"violations": float64(r.Violations)},
		Dates:      map[string]time.Time{"analysisDate": r.AnalysisDate},
		Searchable: []string{r.Filename, r.Region},
	}
}

func ReportRecords(reports []Report) []types.Record {
	out := make([]types.Record, len(reports))
	for i, r := range reports {
		out[i] = r.Record()
	}
	return out
}

// SampleReports generates n reports, one per day going back from now.
// The same seed always yields the same reports.
func SampleReports(now time.Time, n int, seed uint64) []Report {
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	out := make([]Report, n)
	for i := range n {
		violations := rng.IntN(5)
		r := Report{
			ID:           fmt.Sprintf("report-%d", i+1),
			Filename:     fmt.Sprintf("farm_image_%d.jpg", i+1),
			AnalysisDate: now.AddDate(0, 0, -i),
			Violations:   violations,
			Status:       types.ReportCompliant,
			Region:       fmt.Sprintf("Region %d", i%5+1),
		}
		if violations > 0 {
			r.Status = types.ReportViolation
			r.ViolationTypes = make([]types.ViolationType, violations)
			for j := range violations {
				r.ViolationTypes[j] = types.ViolationTypes[rng.IntN(len(types.ViolationTypes))]
			}
		}
		out[i] = r
	}
	return out
}

// Summary holds the headline numbers of the reports screen.
type Summary struct {
	TotalReports    int                         `json:"total_reports"`
	TotalViolations int                         `json:"total_violations"`
	ComplianceRate  int                         `json:"compliance_rate"` // percent, rounded
	ViolationTypes  map[types.ViolationType]int `json:"violation_types"`
	MostCommon      types.ViolationType         `json:"most_common,omitempty"`
}

// Summarize computes the summary over all reports. With no reports the
// compliance rate is 0.
func Summarize(reports []Report) Summary {
	s := Summary{TotalReports: len(reports), ViolationTypes: map[types.ViolationType]int{}}
	compliant := 0
	for _, r := range reports {
		s.TotalViolations += r.Violations
		if r.Status == types.ReportCompliant {
			compliant++
		}
		for _, v := range r.ViolationTypes {
			s.ViolationTypes[v]++
		}
	}
	if len(reports) > 0 {
		s.ComplianceRate = int(math.Round(float64(compliant) / float64(len(reports)) * 100))
	}

	// ties go to the earlier type in the enumeration
	best := 0
	for _, v := range types.ViolationTypes {
		if c := s.ViolationTypes[v]; c > best {
			best, s.MostCommon = c, v
		}
	}
	return s
}

// SummarizeRecords computes the totals available from report records alone;
// the violation-type distribution needs full reports and stays empty.
func SummarizeRecords(recs []types.Record) Summary {
	s := Summary{TotalReports: len(recs), ViolationTypes: map[types.ViolationType]int{}}
	compliant := 0
	for _, r := range recs {
		s.TotalViolations += int(r.Numeric["violations"])
		if r.Categorical["status"] == string(types.ReportCompliant) {
			compliant++
		}
	}
	if len(recs) > 0 {
		s.ComplianceRate = int(math.Round(float64(compliant) / float64(len(recs)) * 100))
	}
	return s
}

// SortedViolationTypes lists the distribution keys by descending count.
func (s Summary) SortedViolationTypes() []types.ViolationType {
	keys := make([]types.ViolationType, 0, len(s.ViolationTypes))
	for _, v := range types.ViolationTypes {
		if s.ViolationTypes[v] > 0 {
			keys = append(keys, v)
		}
	}
	slices.SortStableFunc(keys, func(a, b types.ViolationType) int {
		return s.ViolationTypes[b] - s.ViolationTypes[a]
	})
	return keys
}
