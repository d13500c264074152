package model

import (
	"time"
)

// ListingStatus is the lifecycle state of a property listing
type ListingStatus string

const (
	ListingActive              ListingStatus = "ACTIVE"
	ListingInactive            ListingStatus = "INACTIVE"
	ListingRented              ListingStatus = "RENTED"
	ListingUnderScreening      ListingStatus = "UNDER_SCREENING"
	ListingPendingVerification ListingStatus = "PENDING_VERIFICATION"
	ListingRejected            ListingStatus = "REJECTED"
)

// FurnishingStatus describes how furnished a property is
type FurnishingStatus string

const (
	FullyFurnished FurnishingStatus = "FULLY_FURNISHED"
	SemiFurnished  FurnishingStatus = "SEMI_FURNISHED"
	Unfurnished    FurnishingStatus = "UNFURNISHED"
)

// PropertyType is the construction category of a listing
type PropertyType string

const (
	PropertyApartment       PropertyType = "APARTMENT"
	PropertyIndependent     PropertyType = "INDEPENDENT_HOUSE"
	PropertyVilla           PropertyType = "VILLA"
	PropertyPG              PropertyType = "PG"
	PropertyStudioApartment PropertyType = "STUDIO_APARTMENT"
)

// PropertyOwnershipType distinguishes direct owners from intermediaries
type PropertyOwnershipType string

const (
	OwnershipOwner   PropertyOwnershipType = "OWNER"
	OwnershipBroker  PropertyOwnershipType = "BROKER"
	OwnershipBuilder PropertyOwnershipType = "BUILDER"
)

// Property is a rental listing. IsActive=false removes it from every
// public query regardless of Status; delete only flips these flags.
type Property struct {
	ID                 uint                  `json:"id" gorm:"primaryKey"`
	Title              string                `json:"title" gorm:"type:varchar(255);not null"`
	Description        string                `json:"description" gorm:"type:varchar(1000);not null"`
	PropertyType       PropertyType          `json:"property_type" gorm:"type:varchar(30);index;not null"`
	BHKType            int                   `json:"bhk_type" gorm:"not null"`
	RentAmount         float64               `json:"rent_amount" gorm:"type:decimal(12,2);not null"`
	SecurityDeposit    float64               `json:"security_deposit" gorm:"type:decimal(12,2);not null"`
	MaintenanceCharges float64               `json:"maintenance_charges" gorm:"type:decimal(12,2);not null"`
	LockInPeriod       int                   `json:"lock_in_period" gorm:"not null;comment:'in months'"`
	SquareFeet         float64               `json:"square_feet" gorm:"not null"`
	City               string                `json:"city" gorm:"type:varchar(100);index;not null"`
	Locality           string                `json:"locality" gorm:"type:varchar(100);index;not null"`
	FullAddress        string                `json:"full_address" gorm:"type:varchar(512);not null"`
	ProjectName        string                `json:"project_name" gorm:"type:varchar(255);not null"`
	Latitude           *float64              `json:"latitude,omitempty"`
	Longitude          *float64              `json:"longitude,omitempty"`
	FurnishingStatus   FurnishingStatus      `json:"furnishing_status" gorm:"type:varchar(20);not null"`
	OwnershipType      PropertyOwnershipType `json:"ownership_type" gorm:"type:varchar(20);not null"`
	FloorNumber        *int                  `json:"floor_number,omitempty"`
	TotalFloors        *int                  `json:"total_floors,omitempty"`
	PropertyAge        int                   `json:"property_age" gorm:"not null;comment:'in years'"`
	ParkingAvailable   bool                  `json:"parking_available" gorm:"not null"`
	PreferredTenantType string               `json:"preferred_tenant_type" gorm:"type:varchar(50);not null"`
	Status             ListingStatus         `json:"status" gorm:"type:varchar(30);index;not null"`
	OwnerID            uint                  `json:"owner_id" gorm:"index;not null"`
	Owner              *User                 `json:"owner,omitempty" gorm:"foreignKey:OwnerID"`
	Amenities          []string              `json:"amenities" gorm:"serializer:json"`
	ImageURLs          []string              `json:"image_urls" gorm:"serializer:json"`
	IsActive           bool                  `json:"is_active" gorm:"index;default:true"`
	IsVerified         bool                  `json:"is_verified" gorm:"default:false"`
	VerificationNotes  string                `json:"verification_notes,omitempty" gorm:"type:varchar(512)"`
	IsReadyToMove      bool                  `json:"is_ready_to_move" gorm:"default:true"`
	IsPetFriendly      bool                  `json:"is_pet_friendly" gorm:"default:false"`
	Brokerage          *float64              `json:"brokerage,omitempty" gorm:"type:decimal(12,2)"`
	CreatedAt          time.Time             `json:"created_at"`
	UpdatedAt          time.Time             `json:"updated_at"`
}
