package model

import "time"

// Priority is stored as a numeric enum; the API accepts the word form and
// maps it before persisting.
type Priority string

const (
	PriorityLow      Priority = "0"
	PriorityMedium   Priority = "1"
	PriorityHigh     Priority = "2"
	PriorityCritical Priority = "3"
)

func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityCritical:
		return true
	}
	return false
}

// ParsePriority maps the word form used by clients onto the stored enum.
// An already-numeric value passes through when valid.
func ParsePriority(s string) (Priority, bool) {
	switch s {
	case "low":
		return PriorityLow, true
	case "medium":
		return PriorityMedium, true
	case "high":
		return PriorityHigh, true
	case "critical":
		return PriorityCritical, true
	}
	if p := Priority(s); p.Valid() {
		return p, true
	}
	return "", false
}

// Stage is the lifecycle state of a maintenance request.
type Stage string

const (
	StageNew        Stage = "New"
	StageInProgress Stage = "In Progress"
	StageRepaired   Stage = "Repaired"
	StageScrap      Stage = "Scrap"
)

func (s Stage) Valid() bool {
	switch s {
	case StageNew, StageInProgress, StageRepaired, StageScrap:
		return true
	}
	return false
}

// Terminal reports whether the stage closes the request; reaching a
// terminal stage sets the close date.
func (s Stage) Terminal() bool { return s == StageRepaired || s == StageScrap }

// ParseStage accepts both the stored form and the snake_case aliases the
// frontend sends (pending, in_progress, repaired, scrap).
func ParseStage(s string) (Stage, bool) {
	switch s {
	case "pending":
		return StageNew, true
	case "in_progress":
		return StageInProgress, true
	case "repaired":
		return StageRepaired, true
	case "scrap":
		return StageScrap, true
	}
	if st := Stage(s); st.Valid() {
		return st, true
	}
	return "", false
}

// Scope states what a request targets: a machine or a whole work center.
type Scope string

const (
	ScopeEquipment  Scope = "Equipment"
	ScopeWorkCenter Scope = "Work Center"
)

func (s Scope) Valid() bool { return s == ScopeEquipment || s == ScopeWorkCenter }

// MaintenanceRequest mirrors the 'maintenance_requests' table. Exactly one
// of EquipmentID / WorkCenterID is set, according to Scope.
type MaintenanceRequest struct {
	ID            uint64
	Subject       string
	Description   string
	Scope         Scope
	EquipmentID   uint64
	WorkCenterID  uint64
	CategoryID    uint64
	Type          string // "Corrective" or "Preventive"
	CreatedByID   uint64
	TeamID        uint64
	TechnicianID  uint64
	Priority      Priority
	Stage         Stage
	RequestDate   time.Time
	ScheduledDate *time.Time
	DurationHours float64
	CloseDate     *time.Time

	// Joined names for list responses.
	CreatorName    string
	TechnicianName string
	TeamName       string
	EquipmentName  string
	WorkCenterName string
}
