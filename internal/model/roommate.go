package model

import (
	"time"
)

// RoommateRequestType is whether the poster has a place or needs one
type RoommateRequestType string

const (
	RoommateHasPlace   RoommateRequestType = "HAS_PLACE"
	RoommateNeedsPlace RoommateRequestType = "NEEDS_PLACE"
)

// RoommateRequestStatus is the listing state of a roommate request
type RoommateRequestStatus string

const (
	RoommateRequestActive RoommateRequestStatus = "ACTIVE"
	RoommateRequestClosed RoommateRequestStatus = "CLOSED"
	RoommateRequestPaused RoommateRequestStatus = "PAUSED"
)

// RoommateResponseStatus is the approval state of a response
type RoommateResponseStatus string

const (
	RoommateResponsePending  RoommateResponseStatus = "PENDING"
	RoommateResponseApproved RoommateResponseStatus = "APPROVED"
	RoommateResponseDeclined RoommateResponseStatus = "DECLINED"
)

// RoommateRequest is a flat-share listing posted by a user
type RoommateRequest struct {
	ID               uint                  `json:"id" gorm:"primaryKey"`
	UserID           uint                  `json:"user_id" gorm:"index;not null"`
	User             *User                 `json:"user,omitempty" gorm:"foreignKey:UserID"`
	RequestType      RoommateRequestType   `json:"request_type" gorm:"type:varchar(20);index;not null"`
	Status           RoommateRequestStatus `json:"status" gorm:"type:varchar(20);index;not null"`
	Title            string                `json:"title" gorm:"type:varchar(255);not null"`
	Description      string                `json:"description" gorm:"type:varchar(1000);not null"`
	Location         string                `json:"location" gorm:"type:varchar(100);index;not null"`
	SpecificArea     string                `json:"specific_area,omitempty" gorm:"type:varchar(100)"`
	Budget           float64               `json:"budget" gorm:"type:decimal(12,2);not null"`
	RentAmount       *float64              `json:"rent_amount,omitempty" gorm:"type:decimal(12,2)"`
	PropertyType     string                `json:"property_type,omitempty" gorm:"type:varchar(30)"`
	BHKType          *int                  `json:"bhk_type,omitempty"`
	PreferredGender  Gender                `json:"preferred_gender,omitempty" gorm:"type:varchar(10);index"`
	PreferredAgeRange string               `json:"preferred_age_range,omitempty" gorm:"type:varchar(20)"`
	NonSmoker        bool                  `json:"non_smoker" gorm:"not null"`
	NoPets           bool                  `json:"no_pets" gorm:"not null"`
	Lifestyle        []string              `json:"lifestyle" gorm:"serializer:json"`
	MoveInDate       time.Time             `json:"move_in_date" gorm:"index;not null"`
	ImageURLs        []string              `json:"image_urls" gorm:"serializer:json"`
	IsVerified       bool                  `json:"is_verified" gorm:"default:false"`
	CreatedAt        time.Time             `json:"created_at"`
	UpdatedAt        time.Time             `json:"updated_at"`
}

// RoommateResponse is a reply from an interested roommate
type RoommateResponse struct {
	ID                 uint                   `json:"id" gorm:"primaryKey"`
	RoommateRequestID  uint                   `json:"roommate_request_id" gorm:"index;not null"`
	RoommateRequest    *RoommateRequest       `json:"roommate_request,omitempty" gorm:"foreignKey:RoommateRequestID"`
	ResponderID        uint                   `json:"responder_id" gorm:"index;not null"`
	Responder          *User                  `json:"responder,omitempty" gorm:"foreignKey:ResponderID"`
	Message            string                 `json:"message" gorm:"type:varchar(1000);not null"`
	Status             RoommateResponseStatus `json:"status" gorm:"type:varchar(20);index;not null"`
	IsRead             bool                   `json:"is_read"`
	ContactInformation string                 `json:"contact_information,omitempty" gorm:"type:varchar(255)"`
	Notes              string                 `json:"notes,omitempty" gorm:"type:varchar(1000)"`
	CreatedAt          time.Time              `json:"created_at"`
	UpdatedAt          time.Time              `json:"updated_at"`
}
