package catalog

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"farmFilters/pipeline"
	"farmFilters/types"
)

var now = time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)

func TestSchemasAreSelfConsistent(t *testing.T) {
	for _, sch := range []struct {
		name string
		keys []string
	}{
		{AcquisitionsName, AcquisitionSortKeys},
		{ReportsName, []string{"analysisDate_desc", "violations_asc"}},
	} {
		t.Run(sch.name, func(t *testing.T) {
			s := Acquisitions()
			if sch.name == ReportsName {
				s = Reports()
			}
			require.NotNil(t, s.DefaultSort)
			assert.NoError(t, s.Validate(types.Query{Sort: s.DefaultSort}))
			for _, k := range sch.keys {
				_, err := s.ParseSortKey(k)
				assert.NoError(t, err, k)
			}
			for field, buckets := range s.Buckets {
				for _, b := range buckets {
					_, err := s.Bucket(field, b.Name)
					assert.NoError(t, err)
				}
			}
		})
	}
}

func TestSampleAcquisitions(t *testing.T) {
	acqs := SampleAcquisitions()
	require.Len(t, acqs, 12)

	seen := map[string]bool{}
	for _, a := range acqs {
		assert.False(t, seen[a.ID], "duplicate id %s", a.ID)
		seen[a.ID] = true
		assert.True(t, a.Status.IsValid(), a.ID)
		assert.True(t, a.PurposeType.IsValid(), a.ID)
		assert.True(t, a.EstimatedCompletionDate.After(a.StartDate), a.ID)
	}
}

func TestAcquisitionsScreen(t *testing.T) {
	sch := Acquisitions()
	recs := AcquisitionRecords(SampleAcquisitions())

	q := types.Query{Sort: sch.DefaultSort, Page: &types.PageSpec{Number: 2, Size: sch.PageSize}}
	res := pipeline.EvaluateAt(recs, q, now)
	assert.Equal(t, 12, res.TotalMatched)
	assert.Equal(t, 2, res.TotalPages)
	assert.Len(t, res.Page, 3)

	for i := 1; i < len(res.Matched); i++ {
		prev, cur := res.Matched[i-1].Dates["startDate"], res.Matched[i].Dates["startDate"]
		assert.False(t, cur.After(prev), "not sorted by start date desc at %d", i)
	}

	search := pipeline.EvaluateAt(recs, types.Query{Filter: types.FilterSpec{Search: "WIND FARM"}}, now)
	require.Len(t, search.Matched, 1)
	assert.Equal(t, "acq-006", search.Matched[0].ID)

	b, err := sch.Bucket("area", "large")
	require.NoError(t, err)
	large := pipeline.EvaluateAt(recs, types.Query{Filter: types.FilterSpec{
		Bucket: &types.BucketFilter{Field: "area", Bucket: b},
	}}, now)
	for _, r := range large.Matched {
		assert.GreaterOrEqual(t, r.Numeric["area"], 30.0)
	}
}

func TestReportFilterStatus(t *testing.T) {
	tests := []struct {
		filter  ReportFilter
		want    types.ReportStatus
		wantErr bool
	}{
		{ReportFilterAll, "", false},
		{"", "", false},
		{ReportFilterViolations, types.ReportViolation, false},
		{ReportFilterCompliant, types.ReportCompliant, false},
		{"pending", "", true},
	}
	for _, tt := range tests {
		got, err := tt.filter.Status()
		if tt.wantErr {
			assert.Error(t, err)
			continue
		}
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}
}

func TestSampleReportsDeterministic(t *testing.T) {
	a := SampleReports(now, 35, 7)
	b := SampleReports(now, 35, 7)
	require.Len(t, a, 35)
	assert.Equal(t, a, b)

	for i, r := range a {
		assert.Equal(t, now.AddDate(0, 0, -i), r.AnalysisDate)
		assert.Len(t, r.ViolationTypes, r.Violations)
		if r.Violations > 0 {
			assert.Equal(t, types.ReportViolation, r.Status)
		} else {
			assert.Equal(t, types.ReportCompliant, r.Status)
		}
	}
}

func TestSummarize(t *testing.T) {
	reports := []Report{
		{ID: "1", Violations: 2, Status: types.ReportViolation,
			ViolationTypes: []types.ViolationType{types.ViolationDeforestation, types.ViolationWasteDumping}},
		{ID: "2", Violations: 1, Status: types.ReportViolation,
			ViolationTypes: []types.ViolationType{types.ViolationWasteDumping}},
		{ID: "3", Status: types.ReportCompliant},
	}

	s := Summarize(reports)
	assert.Equal(t, 3, s.TotalReports)
	assert.Equal(t, 3, s.TotalViolations)
	assert.Equal(t, 33, s.ComplianceRate)
	assert.Equal(t, types.ViolationWasteDumping, s.MostCommon)
	assert.Equal(t, []types.ViolationType{types.ViolationWasteDumping, types.ViolationDeforestation}, s.SortedViolationTypes())

	fromRecords := SummarizeRecords(ReportRecords(reports))
	assert.Equal(t, s.TotalViolations, fromRecords.TotalViolations)
	assert.Equal(t, s.ComplianceRate, fromRecords.ComplianceRate)
	assert.Empty(t, fromRecords.ViolationTypes)
}

func TestSummarizeEmpty(t *testing.T) {
	s := Summarize(nil)
	assert.Zero(t, s.ComplianceRate)
	assert.Zero(t, s.TotalReports)
	assert.Empty(t, s.MostCommon)
}

func TestSummarizeTieGoesToEarlierType(t *testing.T) {
	s := Summarize([]Report{{
		Violations: 2, Status: types.ReportViolation,
		ViolationTypes: []types.ViolationType{types.ViolationCropChange, types.ViolationUnauthorizedBuilding},
	}})
	assert.Equal(t, types.ViolationUnauthorizedBuilding, s.MostCommon)
}

func TestAnalysisSummarize(t *testing.T) {
	assert.Contains(t, Analysis{}.Summarize(), "No violations detected")

	a := Analysis{Detections: []Detection{
		{ViolationType: types.ViolationDeforestation, Confidence: 0.9},
		{ViolationType: types.ViolationUnauthorizedBuilding, Confidence: 0.8},
		{ViolationType: types.ViolationDeforestation, Confidence: 0.7},
	}}
	assert.Equal(t, "Detected 3 potential violations: 1 unauthorized building, 2 deforestation.", a.Summarize())

	one := Analysis{Detections: []Detection{{ViolationType: types.ViolationCropChange}}}
	assert.Equal(t, "Detected 1 potential violation: 1 crop change.", one.Summarize())
}

func TestReportFromAnalysis(t *testing.T) {
	a := Analysis{
		ID: "analysis-abc", Filename: "farm.jpg", UploadTime: now, Region: "North",
		Detections: []Detection{{ViolationType: types.ViolationWasteDumping}},
	}
	r := ReportFromAnalysis(a)
	assert.Equal(t, "report-analysis-abc", r.ID)
	assert.Equal(t, types.ReportViolation, r.Status)
	assert.Equal(t, 1, r.Violations)
	assert.Equal(t, []types.ViolationType{types.ViolationWasteDumping}, r.ViolationTypes)

	clean := ReportFromAnalysis(Analysis{ID: "x"})
	assert.Equal(t, types.ReportCompliant, clean.Status)
	assert.Nil(t, clean.ViolationTypes)
}
