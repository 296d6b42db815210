package types

// Tone is the display intent of a status badge.
type Tone string

const (
	TonePrimary Tone = "primary"
	ToneSuccess Tone = "success"
	ToneWarning Tone = "warning"
	ToneError   Tone = "error"
)

type AcquisitionStatus string

const (
	StatusUnderReview  AcquisitionStatus = "Under Review"
	StatusApproved     AcquisitionStatus = "Approved"
	StatusPendingOwner AcquisitionStatus = "Pending Owner Response"
	StatusCompleted    AcquisitionStatus = "Completed"
	StatusRejected     AcquisitionStatus = "Rejected"
)

// AcquisitionStatuses lists every status in display order.
var AcquisitionStatuses = []AcquisitionStatus{
	StatusUnderReview, StatusApproved, StatusPendingOwner, StatusCompleted, StatusRejected,
}

func (s AcquisitionStatus) IsValid() bool {
	_, ok := s.tone()
	return ok
}

// Tone panics on values outside the enumeration.
func (s AcquisitionStatus) Tone() Tone {
	t, ok := s.tone()
	if !ok {
		panic("types: unknown acquisition status " + string(s))
	}
	return t
}

func (s AcquisitionStatus) tone() (Tone, bool) {
	switch s {
	case StatusUnderReview:
		return TonePrimary, true
	case StatusApproved, StatusCompleted:
		return ToneSuccess, true
	case StatusPendingOwner:
		return ToneWarning, true
	case StatusRejected:
		return ToneError, true
	}
	return "", false
}

type PurposeType string

const (
	PurposeInfrastructure PurposeType = "infrastructure"
	PurposeConservation   PurposeType = "conservation"
	PurposeEnergy         PurposeType = "energy"
	PurposePublic         PurposeType = "public"
)

var PurposeTypes = []PurposeType{PurposeInfrastructure, PurposeConservation, PurposeEnergy, PurposePublic}

func (p PurposeType) IsValid() bool {
	switch p {
	case PurposeInfrastructure, PurposeConservation, PurposeEnergy, PurposePublic:
		return true
	}
	return false
}

func (p PurposeType) Label() string {
	switch p {
	case PurposeInfrastructure:
		return "Infrastructure"
	case PurposeConservation:
		return "Conservation"
	case PurposeEnergy:
		return "Renewable Energy"
	case PurposePublic:
		return "Public Facilities"
	}
	return string(p)
}

type ReportStatus string

const (
	ReportViolation ReportStatus = "violation"
	ReportCompliant ReportStatus = "compliant"
)

func (s ReportStatus) IsValid() bool {
	return s == ReportViolation || s == ReportCompliant
}

func (s ReportStatus) Tone() Tone {
	switch s {
	case ReportViolation:
		return ToneError
	case ReportCompliant:
		return ToneSuccess
	}
	panic("types: unknown report status " + string(s))
}

type ViolationType string

const (
	ViolationUnauthorizedBuilding ViolationType = "unauthorized_building"
	ViolationDeforestation        ViolationType = "deforestation"
	ViolationLandUseChange        ViolationType = "land_use_change"
	ViolationWasteDumping         ViolationType = "waste_dumping"
	ViolationCropChange           ViolationType = "crop_change"
)

var ViolationTypes = []ViolationType{
	ViolationUnauthorizedBuilding,
	ViolationDeforestation,
	ViolationLandUseChange,
	ViolationWasteDumping,
	ViolationCropChange,
}

func (v ViolationType) IsValid() bool {
	switch v {
	case ViolationUnauthorizedBuilding, ViolationDeforestation, ViolationLandUseChange,
		ViolationWasteDumping, ViolationCropChange:
		return true
	}
	return false
}
