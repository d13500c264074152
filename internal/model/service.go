package model

import (
	"time"
)

// ServiceCategory groups bookable services
type ServiceCategory string

const (
	ServiceCleaning   ServiceCategory = "CLEANING"
	ServiceMoving     ServiceCategory = "MOVING"
	ServiceRepairs    ServiceCategory = "REPAIRS"
	ServicePainting   ServiceCategory = "PAINTING"
	ServiceInspection ServiceCategory = "INSPECTION"
	ServiceLegal      ServiceCategory = "LEGAL"
)

// ServiceStatus is the catalog availability of a service
type ServiceStatus string

const (
	ServiceActive       ServiceStatus = "ACTIVE"
	ServiceInactive     ServiceStatus = "INACTIVE"
	ServiceDiscontinued ServiceStatus = "DISCONTINUED"
)

// Service is a bookable offering in the services catalog
type Service struct {
	ID                      uint            `json:"id" gorm:"primaryKey"`
	Name                    string          `json:"name" gorm:"type:varchar(255);not null"`
	Description             string          `json:"description" gorm:"type:varchar(1000);not null"`
	Category                ServiceCategory `json:"category" gorm:"type:varchar(30);index;not null"`
	BasePrice               float64         `json:"base_price" gorm:"type:decimal(12,2);not null"`
	DurationInMinutes       int             `json:"duration_in_minutes" gorm:"not null"`
	ImageURLs               []string        `json:"image_urls" gorm:"serializer:json"`
	Rating                  float64         `json:"rating" gorm:"type:decimal(3,2);default:0"`
	RatingCount             int             `json:"rating_count" gorm:"default:0"`
	Status                  ServiceStatus   `json:"status" gorm:"type:varchar(20);index;not null"`
	Featured                bool            `json:"featured" gorm:"index"`
	ServiceAreas            []string        `json:"service_areas" gorm:"serializer:json"`
	AvailableForOnlineBooking bool          `json:"available_for_online_booking"`
	DiscountPercentage      *float64        `json:"discount_percentage,omitempty" gorm:"type:decimal(5,2)"`
	TaxIncluded             bool            `json:"tax_included"`
	TermsAndConditions      string          `json:"terms_and_conditions,omitempty" gorm:"type:text"`
	CancellationPolicy      string          `json:"cancellation_policy,omitempty" gorm:"type:text"`
	CreatedAt               time.Time       `json:"created_at"`
	UpdatedAt               time.Time       `json:"updated_at"`

	Providers []ServiceProvider `json:"providers,omitempty" gorm:"many2many:service_provider_services"`
}

// ServiceProvider is a vendor that fulfils catalog services
type ServiceProvider struct {
	ID            uint      `json:"id" gorm:"primaryKey"`
	Name          string    `json:"name" gorm:"type:varchar(255);not null"`
	ContactPerson string    `json:"contact_person" gorm:"type:varchar(100);not null"`
	ContactEmail  string    `json:"contact_email" gorm:"type:varchar(100);not null"`
	ContactPhone  string    `json:"contact_phone" gorm:"type:varchar(20);not null"`
	Description   string    `json:"description,omitempty" gorm:"type:varchar(1000)"`
	LogoURL       string    `json:"logo_url,omitempty" gorm:"type:varchar(512)"`
	Address       string    `json:"address" gorm:"type:varchar(512);not null"`
	IsActive      bool      `json:"is_active" gorm:"default:true"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`

	Services []Service `json:"services,omitempty" gorm:"many2many:service_provider_services"`
}
