// Package catalog defines the dashboard datasets: their schemas, buckets,
// sort keys and sample data.
package catalog

import (
	"math"
	"time"

	"farmFilters/schemas"
	"farmFilters/types"
)

const (
	AcquisitionsName     = "acquisitions"
	AcquisitionsPageSize = 9
)

// Acquisition is a government land-acquisition case.
type Acquisition struct {
	ID                      string                  `json:"id" yaml:"id" msgpack:"id"`
	ParcelID                string                  `json:"parcelId" yaml:"parcelId" msgpack:"parcelId"`
	Location                string                  `json:"location" yaml:"location" msgpack:"location"`
	Area                    float64                 `json:"area" yaml:"area" msgpack:"area"` // hectares
	Purpose                 string                  `json:"purpose" yaml:"purpose" msgpack:"purpose"`
	PurposeType             types.PurposeType       `json:"purposeType" yaml:"purposeType" msgpack:"purposeType"`
	Status                  types.AcquisitionStatus `json:"status" yaml:"status" msgpack:"status"`
	ProgressPercentage      float64                 `json:"progressPercentage" yaml:"progressPercentage" msgpack:"progressPercentage"`
	StartDate               time.Time               `json:"startDate" yaml:"startDate" msgpack:"startDate"`
	EstimatedCompletionDate time.Time               `json:"estimatedCompletionDate" yaml:"estimatedCompletionDate" msgpack:"estimatedCompletionDate"`
}

// Acquisitions is the schema of the acquisitions list.
func Acquisitions() schemas.Schema {
	return schemas.Schema{
		Name:     AcquisitionsName,
		Table:    "land_acquisitions",
		IDColumn: "id",
		Fields: []schemas.Field{
			{Name: "parcelId", Column: "parcel_id", Kind: types.KindText},
			{Name: "location", Column: "location", Kind: types.KindText},
			{Name: "purpose", Column: "purpose", Kind: types.KindText},
			{Name: "purposeType", Column: "purpose_type", Kind: types.KindCategorical},
			{Name: "status", Column: "status", Kind: types.KindCategorical},
			{Name: "area", Column: "area", Kind: types.KindNumeric},
			{Name: "progressPercentage", Column: "progress_percentage", Kind: types.KindNumeric},
			{Name: "startDate", Column: "start_date", Kind: types.KindDate},
			{Name: "estimatedCompletionDate", Column: "estimated_completion_date", Kind: types.KindDate},
		},
		Searchable: []string{"parcelId", "location", "purpose"},
		Buckets: map[string][]types.Bucket{
			"area": {
				types.NewBucket("small", math.Inf(-1), 20),
				types.NewBucket("medium", 20, 30),
				types.NewBucket("large", 30, math.Inf(1)),
			},
		},
		Aliases:     map[string]string{"progress": "progressPercentage"},
		DefaultSort: &types.SortSpec{Field: "startDate", Dir: types.Desc},
		PageSize:    AcquisitionsPageSize,
	}
}

// AcquisitionSortKeys are the orderings offered by the list screen.
var AcquisitionSortKeys = []string{
	"startDate_desc", "startDate_asc", "area_desc", "area_asc", "progress_desc", "progress_asc",
}

func (a Acquisition) Record() types.Record {
	return types.Record{
		ID: a.ID,
		Categorical: map[string]string{
			"purposeType": string(a.PurposeType),
			"status":      string(a.Status),
		},
		Numeric: map[string]float64{
			"area":               a.Area,
			"progressPercentage": a.ProgressPercentage,
		},
		Dates: map[string]time.Time{
			"startDate":               a.StartDate,
			"estimatedCompletionDate": a.EstimatedCompletionDate,
		},
		Searchable: []string{a.ParcelID, a.Location, a.Purpose},
	}
}

func AcquisitionRecords(acqs []Acquisition) []types.Record {
	out := make([]types.Record, len(acqs))
	for i, a := range acqs {
		out[i] = a.Record()
	}
	return out
}

func day(s string) time.Time {
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		panic(err)
	}
	return t
}

// SampleAcquisitions returns the demo cases shown by the dashboard.
func SampleAcquisitions() []Acquisition {
	return []Acquisition{
		{ID: "acq-001", ParcelID: "F28-74-92", Location: "North Valley Agricultural Zone", Area: 24.5,
			Purpose: "Infrastructure Development - Water Treatment Facility", PurposeType: types.PurposeInfrastructure,
			Status: types.StatusUnderReview, ProgressPercentage: 30, StartDate: day("2025-03-15"), EstimatedCompletionDate: day("2025-07-30")},
		{ID: "acq-002", ParcelID: "F12-38-45", Location: "Eastern Highland Farms", Area: 18.2,
			Purpose: "Protected Conservation Area Expansion", PurposeType: types.PurposeConservation,
			Status: types.StatusApproved, ProgressPercentage: 80, StartDate: day("2025-01-20"), EstimatedCompletionDate: day("2025-06-15")},
		{ID: "acq-003", ParcelID: "F43-22-88", Location: "South River Agricultural District", Area: 32.7,
			Purpose: "Renewable Energy Project - Solar Farm", PurposeType: types.PurposeEnergy,
			Status: types.StatusPendingOwner, ProgressPercentage: 40, StartDate: day("2025-04-05"), EstimatedCompletionDate: day("2025-09-10")},
		{ID: "acq-004", ParcelID: "F35-61-23", Location: "Western Plains Agricultural Area", Area: 15.8,
			Purpose: "Road Infrastructure - Highway Extension", PurposeType: types.PurposeInfrastructure,
			Status: types.StatusUnderReview, ProgressPercentage: 25, StartDate: day("2025-02-28"), EstimatedCompletionDate: day("2025-08-15")},
		{ID: "acq-005", ParcelID: "F19-43-76", Location: "Northridge Farming Community", Area: 22.3,
			Purpose: "Public Recreation Area", PurposeType: types.PurposePublic,
			Status: types.StatusApproved, ProgressPercentage: 70, StartDate: day("2024-11-10"), EstimatedCompletionDate: day("2025-05-20")},
		{ID: "acq-006", ParcelID: "F52-18-94", Location: "Southeast Valley Farms", Area: 42.1,
			Purpose: "Renewable Energy Project - Wind Farm", PurposeType: types.PurposeEnergy,
			Status: types.StatusCompleted, ProgressPercentage: 100, StartDate: day("2024-08-15"), EstimatedCompletionDate: day("2025-03-01")},
		{ID: "acq-007", ParcelID: "F38-29-65", Location: "Central Plains Agricultural Zone", Area: 28.6,
			Purpose: "Water Conservation Project", PurposeType: types.PurposeConservation,
			Status: types.StatusRejected, ProgressPercentage: 0, StartDate: day("2025-01-05"), EstimatedCompletionDate: day("2025-06-30")},
		{ID: "acq-008", ParcelID: "F27-83-49", Location: "Northern Watershed Agricultural Area", Area: 36.4,
			Purpose: "Dam Construction Project", PurposeType: types.PurposeInfrastructure,
			Status: types.StatusUnderReview, ProgressPercentage: 45, StartDate: day("2025-03-20"), EstimatedCompletionDate: day("2025-10-15")},
		{ID: "acq-009", ParcelID: "F14-57-82", Location: "Southwest Farmlands", Area: 19.7,
			Purpose: "Educational Facility - Agricultural Research Center", PurposeType: types.PurposePublic,
			Status: types.StatusPendingOwner, ProgressPercentage: 35, StartDate: day("2025-02-10"), EstimatedCompletionDate: day("2025-07-25")},
		{ID: "acq-010", ParcelID: "F63-91-37", Location: "Eastern Irrigation District", Area: 31.2,
			Purpose: "Irrigation Canal Expansion", PurposeType: types.PurposeInfrastructure,
			Status: types.StatusApproved, ProgressPercentage: 60, StartDate: day("2024-12-05"), EstimatedCompletionDate: day("2025-06-10")},
		{ID: "acq-011", ParcelID: "F48-26-73", Location: "Northwest Agricultural Region", Area: 27.5,
			Purpose: "Biodiversity Conservation Area", PurposeType: types.PurposeConservation,
			Status: types.StatusPendingOwner, ProgressPercentage: 20, StartDate: day("2025-04-15"), EstimatedCompletionDate: day("2025-09-30")},
		{ID: "acq-012", ParcelID: "F71-39-54", Location: "Southern Farming Community", Area: 23.8,
			Purpose: "Solar Energy Storage Facility", PurposeType: types.PurposeEnergy,
			Status: types.StatusUnderReview, ProgressPercentage: 15, StartDate: day("2025-03-25"), EstimatedCompletionDate: day("2025-08-20")},
	}
}
