package post

import (
	"time"
)

// Location is a geocoded address. Coordinates are resolved lazily through the
// geocoding collaborator and cached back onto the record once known.
type Location struct {
	Address   string   `gorm:"type:text" json:"address"`
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
}

// HasCoordinates returns true once both coordinates are resolved.
func (l Location) HasCoordinates() bool {
	return l.Latitude != nil && l.Longitude != nil
}

// ShippingRoute describes where and when the freight moves. Both expected
// dates must carry a real time-of-day component, not a bare date.
type ShippingRoute struct {
	StartLocation Location `gorm:"embedded;embeddedPrefix:start_" json:"startLocation"`
	EndLocation   Location `gorm:"embedded;embeddedPrefix:end_" json:"endLocation"`

	ExpectedPickupDate   time.Time `gorm:"not null" json:"expectedPickupDate"`
	ExpectedDeliveryDate time.Time `gorm:"not null" json:"expectedDeliveryDate"`

	// Optional HH:mm:ss windows narrowing when, within the day, pickup and
	// delivery may happen.
	StartTimeToPickup   *string `gorm:"type:varchar(8)" json:"startTimeToPickup,omitempty"`
	EndTimeToPickup     *string `gorm:"type:varchar(8)" json:"endTimeToPickup,omitempty"`
	StartTimeToDelivery *string `gorm:"type:varchar(8)" json:"startTimeToDelivery,omitempty"`
	EndTimeToDelivery   *string `gorm:"type:varchar(8)" json:"endTimeToDelivery,omitempty"`
}

// Contact is the sender or receiver contact attached to a post. Address is
// auto-filled from the corresponding route endpoint.
type Contact struct {
	FullName    string  `gorm:"type:varchar(255);not null" json:"fullName"`
	PhoneNumber string  `gorm:"type:varchar(20);not null" json:"phoneNumber"`
	Email       *string `gorm:"type:varchar(255)" json:"email,omitempty"`
	Note        *string `gorm:"type:text" json:"note,omitempty"`
	Address     *string `gorm:"type:text" json:"address,omitempty"`
}

// FreightPost represents one shipment offer published by a provider.
type FreightPost struct {
	ID string `gorm:"type:uuid;primaryKey" json:"id"`

	ProviderID uint `gorm:"not null;index" json:"provider_id"`

	Title        string  `gorm:"type:varchar(255);not null" json:"title"`
	Description  string  `gorm:"type:text" json:"description"`
	OfferedPrice float64 `gorm:"not null;check:offered_price >= 0" json:"offeredPrice"`

	Status PostStatus `gorm:"type:varchar(30);not null;index" json:"status"`

	ShippingRoute   ShippingRoute `gorm:"embedded;embeddedPrefix:route_" json:"shippingRoute"`
	SenderContact   Contact       `gorm:"embedded;embeddedPrefix:sender_" json:"senderContact"`
	ReceiverContact Contact       `gorm:"embedded;embeddedPrefix:receiver_" json:"receiverContact"`

	// A post always carries at least one package.
	Packages []PostPackage `gorm:"foreignKey:PostID" json:"packages"`

	CreatedBy string     `gorm:"type:varchar(255);not null" json:"created_by"`
	CreatedAt time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedBy string     `gorm:"type:varchar(255)" json:"updated_by,omitempty"`
	UpdatedAt time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt *time.Time `gorm:"index" json:"deleted_at,omitempty"`
}

// TableName sets the table name for the FreightPost model
func (FreightPost) TableName() string {
	return "freight_posts"
}

// PackageIDs returns the referenced package ids.
func (fp *FreightPost) PackageIDs() []string {
	ids := make([]string, 0, len(fp.Packages))
	for _, p := range fp.Packages {
		ids = append(ids, p.PackageID)
	}
	return ids
}

// PostPackage links a freight post to one of the provider's packages.
type PostPackage struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	PostID    string    `gorm:"type:uuid;not null;index" json:"post_id"`
	PackageID string    `gorm:"type:uuid;not null;index" json:"package_id"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// TableName sets the table name for the PostPackage model
func (PostPackage) TableName() string {
	return "post_packages"
}
