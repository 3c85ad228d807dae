package parcel

import (
	"time"

	"freight-posting/models/user"
)

// PackageStatus tracks whether a package is still free to be attached to a post.
type PackageStatus string

const (
	PackageStatusPending PackageStatus = "PENDING"
	PackageStatusPosted  PackageStatus = "POSTED"
	PackageStatusShipped PackageStatus = "SHIPPED"
)

// Package is one physical parcel a provider wants moved.
type Package struct {
	ID string `gorm:"type:uuid;primaryKey" json:"id"`

	ProviderID uint      `gorm:"not null;index" json:"provider_id"`
	Provider   user.User `gorm:"foreignKey:ProviderID" json:"provider"`

	Title       string  `gorm:"type:varchar(255);not null" json:"title"`
	Description string  `gorm:"type:text" json:"description"`
	WeightKg    float64 `gorm:"not null;default:0" json:"weight_kg"`
	VolumeM3    float64 `gorm:"not null;default:0" json:"volume_m3"`

	Status PackageStatus `gorm:"type:varchar(20);not null;default:PENDING;index" json:"status"`

	CreatedAt time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt *time.Time `gorm:"index" json:"deleted_at,omitempty"`
}

// TableName sets the table name for the Package model
func (Package) TableName() string {
	return "packages"
}
