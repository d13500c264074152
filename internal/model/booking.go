package model

import (
	"time"
)

// BookingType is the kind of appointment being scheduled
type BookingType string

const (
	BookingPropertyVisit  BookingType = "PROPERTY_VISIT"
	BookingVirtualTour    BookingType = "VIRTUAL_TOUR"
	BookingPropertyUnlock BookingType = "PROPERTY_UNLOCK"
)

// BookingStatus is the appointment lifecycle state
type BookingStatus string

const (
	BookingPending   BookingStatus = "PENDING"
	BookingConfirmed BookingStatus = "CONFIRMED"
	BookingCompleted BookingStatus = "COMPLETED"
	BookingCancelled BookingStatus = "CANCELLED"
	BookingNoShow    BookingStatus = "NO_SHOW"
)

// Booking is a scheduled appointment on a property. A property may not
// hold two non-cancelled bookings whose scheduled times fall within 30
// minutes of each other. Deletion is logical: status goes to CANCELLED.
type Booking struct {
	ID                      uint          `json:"id" gorm:"primaryKey"`
	PropertyID              uint          `json:"property_id" gorm:"index;not null"`
	Property                *Property     `json:"property,omitempty" gorm:"foreignKey:PropertyID"`
	TenantID                uint          `json:"tenant_id" gorm:"index;not null"`
	Tenant                  *User         `json:"tenant,omitempty" gorm:"foreignKey:TenantID"`
	BookingType             BookingType   `json:"booking_type" gorm:"type:varchar(30);index;not null"`
	Status                  BookingStatus `json:"status" gorm:"type:varchar(20);index;not null"`
	ScheduledTime           time.Time     `json:"scheduled_time" gorm:"index;not null"`
	ConfirmedTime           *time.Time    `json:"confirmed_time,omitempty"`
	CancellationReason      string        `json:"cancellation_reason,omitempty" gorm:"type:varchar(255)"`
	Notes                   string        `json:"notes,omitempty" gorm:"type:varchar(512)"`
	IsPriority              bool          `json:"is_priority"`
	ContactName             string        `json:"contact_name,omitempty" gorm:"type:varchar(100)"`
	ContactEmail            string        `json:"contact_email,omitempty" gorm:"type:varchar(100)"`
	ContactPhone            string        `json:"contact_phone,omitempty" gorm:"type:varchar(20)"`
	IsOfflineVisit          bool          `json:"is_offline_visit"`
	RequiresAgentAssistance bool          `json:"requires_agent_assistance"`
	TenantRequirements      string        `json:"tenant_requirements,omitempty" gorm:"type:varchar(500)"`
	FeedbackFromTenant      string        `json:"feedback_from_tenant,omitempty" gorm:"type:varchar(500)"`
	RatingFromTenant        *int          `json:"rating_from_tenant,omitempty"`
	CompletedAt             *time.Time    `json:"completed_at,omitempty"`
	CreatedAt               time.Time     `json:"created_at"`
	UpdatedAt               time.Time     `json:"updated_at"`
}
