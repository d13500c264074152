package model

import (
	"time"
)

// UserRole identifies what a user can do on the platform
type UserRole string

const (
	RoleTenant   UserRole = "TENANT"
	RoleLandlord UserRole = "LANDLORD"
	RoleBroker   UserRole = "BROKER"
	RoleAdmin    UserRole = "ADMIN"
)

// Gender as self-reported on the profile
type Gender string

const (
	GenderMale   Gender = "MALE"
	GenderFemale Gender = "FEMALE"
	GenderOther  Gender = "OTHER"
)

// User represents a platform account. Accounts are never hard-deleted:
// delete flips Enabled to false and the row stays fetchable by id.
type User struct {
	ID              uint       `json:"id" gorm:"primaryKey"`
	FirstName       string     `json:"first_name" gorm:"type:varchar(50);not null"`
	LastName        string     `json:"last_name" gorm:"type:varchar(50);not null"`
	Email           string     `json:"email" gorm:"type:varchar(100);uniqueIndex;not null"`
	PhoneNumber     string     `json:"phone_number" gorm:"type:varchar(20);uniqueIndex;not null"`
	Password        string     `json:"-" gorm:"type:varchar(255);not null"`
	Role            UserRole   `json:"role" gorm:"type:varchar(20);index;not null"`
	DateOfBirth     *time.Time `json:"date_of_birth,omitempty"`
	Gender          Gender     `json:"gender,omitempty" gorm:"type:varchar(10)"`
	ProfileImageURL string     `json:"profile_image_url,omitempty" gorm:"type:varchar(512)"`
	EmailVerified   bool       `json:"email_verified" gorm:"default:false"`
	PhoneVerified   bool       `json:"phone_verified" gorm:"default:false"`
	Enabled         bool       `json:"enabled" gorm:"default:true"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// FullName joins first and last name for notification templates
func (u *User) FullName() string {
	return u.FirstName + " " + u.LastName
}

// IsAdmin reports whether the user holds the admin role
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
