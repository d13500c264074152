package model

import (
	"time"
)

// MaintenanceType categorizes the trade required
type MaintenanceType string

const (
	MaintenancePlumbing        MaintenanceType = "PLUMBING"
	MaintenanceElectrical      MaintenanceType = "ELECTRICAL"
	MaintenanceHVAC            MaintenanceType = "HVAC"
	MaintenanceApplianceRepair MaintenanceType = "APPLIANCE_REPAIR"
	MaintenancePestControl     MaintenanceType = "PEST_CONTROL"
	MaintenanceCleaning        MaintenanceType = "CLEANING"
	MaintenancePainting        MaintenanceType = "PAINTING"
	MaintenanceCarpentry       MaintenanceType = "CARPENTRY"
	MaintenanceLocksmith       MaintenanceType = "LOCKSMITH"
	MaintenanceGeneralRepair   MaintenanceType = "GENERAL_REPAIR"
	MaintenanceOther           MaintenanceType = "OTHER"
)

// MaintenanceStatus is the work-order lifecycle state
type MaintenanceStatus string

const (
	MaintenanceRequested  MaintenanceStatus = "REQUESTED"
	MaintenanceScheduled  MaintenanceStatus = "SCHEDULED"
	MaintenanceInProgress MaintenanceStatus = "IN_PROGRESS"
	MaintenanceCompleted  MaintenanceStatus = "COMPLETED"
	MaintenanceCancelled  MaintenanceStatus = "CANCELLED"
	MaintenanceDeclined   MaintenanceStatus = "DECLINED"
)

// UrgencyLevel ranks how quickly a maintenance request needs attention
type UrgencyLevel string

const (
	UrgencyLow       UrgencyLevel = "LOW"
	UrgencyMedium    UrgencyLevel = "MEDIUM"
	UrgencyHigh      UrgencyLevel = "HIGH"
	UrgencyEmergency UrgencyLevel = "EMERGENCY"
)

// MaintenanceRequest is a work order raised against a property
type MaintenanceRequest struct {
	ID                      uint              `json:"id" gorm:"primaryKey"`
	PropertyID              uint              `json:"property_id" gorm:"index;not null"`
	Property                *Property         `json:"property,omitempty" gorm:"foreignKey:PropertyID"`
	RequesterID             uint              `json:"requester_id" gorm:"index;not null"`
	Requester               *User             `json:"requester,omitempty" gorm:"foreignKey:RequesterID"`
	Type                    MaintenanceType   `json:"type" gorm:"type:varchar(30);not null"`
	Description             string            `json:"description" gorm:"type:varchar(1000);not null"`
	UrgencyLevel            UrgencyLevel      `json:"urgency_level" gorm:"type:varchar(20);not null"`
	Status                  MaintenanceStatus `json:"status" gorm:"type:varchar(20);index;not null"`
	ImageURLs               []string          `json:"image_urls" gorm:"serializer:json"`
	PreferredDateTime       *time.Time        `json:"preferred_date_time,omitempty"`
	ScheduledDateTime       *time.Time        `json:"scheduled_date_time,omitempty"`
	CompletedDateTime       *time.Time        `json:"completed_date_time,omitempty"`
	ResolutionNotes         string            `json:"resolution_notes,omitempty" gorm:"type:varchar(1000)"`
	LandlordNotes           string            `json:"landlord_notes,omitempty" gorm:"type:varchar(1000)"`
	AssignedServiceProvider string            `json:"assigned_service_provider,omitempty" gorm:"type:varchar(255)"`
	ContactNumber           string            `json:"contact_number,omitempty" gorm:"type:varchar(20)"`
	SatisfactionRating      *int              `json:"satisfaction_rating,omitempty"`
	Feedback                string            `json:"feedback,omitempty" gorm:"type:varchar(1000)"`
	VisibleToLandlord       bool              `json:"visible_to_landlord" gorm:"default:true"`
	VisibleToTenant         bool              `json:"visible_to_tenant" gorm:"default:true"`
	CreatedAt               time.Time         `json:"created_at"`
	UpdatedAt               time.Time         `json:"updated_at"`
}
