package post

import (
	"fmt"
	"time"

	postModel "freight-posting/models/post"
)

// LocationInput is a route endpoint as submitted by the client. Coordinates
// may be absent; they are resolved through geocoding before route calculation.
type LocationInput struct {
	Address   string   `json:"address" validate:"required"`
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
}

// ShippingRouteInput mirrors the shipping route section of a create request.
type ShippingRouteInput struct {
	StartLocation        LocationInput `json:"startLocation" validate:"required"`
	EndLocation          LocationInput `json:"endLocation" validate:"required"`
	ExpectedPickupDate   time.Time     `json:"expectedPickupDate" validate:"required"`
	ExpectedDeliveryDate time.Time     `json:"expectedDeliveryDate" validate:"required"`
	StartTimeToPickup    *string       `json:"startTimeToPickup,omitempty"`
	EndTimeToPickup      *string       `json:"endTimeToPickup,omitempty"`
	StartTimeToDelivery  *string       `json:"startTimeToDelivery,omitempty"`
	EndTimeToDelivery    *string       `json:"endTimeToDelivery,omitempty"`
}

// ContactInput is the sender or receiver contact section of a create request.
type ContactInput struct {
	FullName    string  `json:"fullName" validate:"required"`
	PhoneNumber string  `json:"phoneNumber" validate:"required,min=10,max=20"`
	Email       *string `json:"email,omitempty"`
	Note        *string `json:"note,omitempty"`
	Address     *string `json:"address,omitempty"`
}

// PostCreateRequest represents the request for creating a freight post.
// The post is created already carrying its initial status; there is no
// separate create-then-transition step.
type PostCreateRequest struct {
	Title           string               `json:"title" validate:"required"`
	Description     string               `json:"description"`
	OfferedPrice    float64              `json:"offeredPrice" validate:"gte=0"`
	ShippingRoute   ShippingRouteInput   `json:"shippingRoute" validate:"required"`
	SenderContact   ContactInput         `json:"senderContact" validate:"required"`
	ReceiverContact ContactInput         `json:"receiverContact" validate:"required"`
	PackageIDs      []string             `json:"packageIds" validate:"required,min=1"`
	Status          postModel.PostStatus `json:"status" validate:"required"`
}

// Validate validates the PostCreateRequest fields
func (r *PostCreateRequest) Validate() error {
	if r.Title == "" {
		return fmt.Errorf("title is required")
	}
	if r.OfferedPrice < 0 {
		return fmt.Errorf("offeredPrice must not be negative")
	}
	if len(r.PackageIDs) == 0 {
		return fmt.Errorf("at least one package is required")
	}
	if r.ShippingRoute.StartLocation.Address == "" {
		return fmt.Errorf("startLocation address is required")
	}
	if r.ShippingRoute.EndLocation.Address == "" {
		return fmt.Errorf("endLocation address is required")
	}
	if r.ShippingRoute.ExpectedPickupDate.IsZero() {
		return fmt.Errorf("expectedPickupDate is required")
	}
	if r.ShippingRoute.ExpectedDeliveryDate.IsZero() {
		return fmt.Errorf("expectedDeliveryDate is required")
	}
	if r.SenderContact.FullName == "" || r.SenderContact.PhoneNumber == "" {
		return fmt.Errorf("senderContact name and phone are required")
	}
	if r.ReceiverContact.FullName == "" || r.ReceiverContact.PhoneNumber == "" {
		return fmt.Errorf("receiverContact name and phone are required")
	}
	if !r.Status.IsValid() {
		return fmt.Errorf("status %q is not a valid post status", r.Status)
	}
	return nil
}

// PostCreateResult is returned after a successful create.
type PostCreateResult struct {
	PostID string               `json:"postId"`
	Status postModel.PostStatus `json:"status"`
}

// StatusUpdateRequest represents the request for updating a post's status
type StatusUpdateRequest struct {
	Status postModel.PostStatus `json:"status" validate:"required"`
}

// Validate validates the StatusUpdateRequest fields
func (r *StatusUpdateRequest) Validate() error {
	if r.Status == "" {
		return fmt.Errorf("status is required")
	}
	if !r.Status.IsValid() {
		return fmt.Errorf("status %q is not a valid post status", r.Status)
	}
	return nil
}

// RouteCalculationRequest represents the request for validating route feasibility.
type RouteCalculationRequest struct {
	StartLocation        LocationInput `json:"startLocation" validate:"required"`
	EndLocation          LocationInput `json:"endLocation" validate:"required"`
	ExpectedPickupDate   time.Time     `json:"expectedPickupDate" validate:"required"`
	ExpectedDeliveryDate time.Time     `json:"expectedDeliveryDate" validate:"required"`
}

// Validate validates the RouteCalculationRequest fields
func (r *RouteCalculationRequest) Validate() error {
	if r.StartLocation.Address == "" && (r.StartLocation.Latitude == nil || r.StartLocation.Longitude == nil) {
		return fmt.Errorf("startLocation must carry an address or coordinates")
	}
	if r.EndLocation.Address == "" && (r.EndLocation.Latitude == nil || r.EndLocation.Longitude == nil) {
		return fmt.Errorf("endLocation must carry an address or coordinates")
	}
	if r.ExpectedPickupDate.IsZero() {
		return fmt.Errorf("expectedPickupDate is required")
	}
	if r.ExpectedDeliveryDate.IsZero() {
		return fmt.Errorf("expectedDeliveryDate is required")
	}
	return nil
}
