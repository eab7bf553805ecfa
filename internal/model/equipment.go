package model

import "time"

// EquipmentStatus is the closed set of machine states.
type EquipmentStatus string

const (
	EquipmentActive      EquipmentStatus = "active"
	EquipmentMaintenance EquipmentStatus = "maintenance"
	EquipmentRetired     EquipmentStatus = "retired"
	EquipmentBroken      EquipmentStatus = "broken"
)

func (s EquipmentStatus) Valid() bool {
	switch s {
	case EquipmentActive, EquipmentMaintenance, EquipmentRetired, EquipmentBroken:
		return true
	}
	return false
}

// Equipment mirrors the 'equipment' table. Category, work center and
// department references are optional (zero means unset).
type Equipment struct {
	ID                 uint64
	Name               string
	SerialNumber       string
	CategoryID         uint64
	WorkCenterID       uint64
	DepartmentID       uint64
	Location           string
	Status             EquipmentStatus
	PurchaseDate       *time.Time
	WarrantyExpiration *time.Time
	CreatedAt          time.Time

	// Joined names for list responses; not columns of the equipment table.
	CategoryName   string
	WorkCenterName string
}

// EquipmentCategory groups machines and carries the default preventive
// maintenance interval for the group.
type EquipmentCategory struct {
	ID                      uint64
	Name                    string
	MaintenanceIntervalDays int
}

// WorkCenter is a physical location (zone, line) machines belong to.
type WorkCenter struct {
	ID        uint64
	Name      string
	Location  string
	CompanyID uint64
}

// Company is the owning legal entity for work centers and equipment.
type Company struct {
	ID   uint64
	Name string
}

// Department is an organizational unit that uses equipment.
type Department struct {
	ID   uint64
	Name string
}
