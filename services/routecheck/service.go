package routecheck

import (
	"context"
	"fmt"
	"math"
	"time"

	vietmap "freight-posting/httpServices/vietmap"
	"freight-posting/utils"
)

// Feasibility constants. Distances are beeline kilometres scaled by a road
// factor; trucks average well below car speeds on Vietnamese highways.
const (
	defaultRoadFactor    = 1.25
	defaultAvgSpeedKmh   = 45.0
	defaultHandlingHours = 2.0

	nightRestrictionStart = 22 * time.Hour
	nightRestrictionEnd   = 6 * time.Hour
)

// Geocoder resolves a free-text address to coordinates.
type Geocoder interface {
	Geocode(address string) (vietmap.Coordinates, error)
}

// Endpoint is one end of the route. Coordinates take precedence when already
// resolved; otherwise Address goes through the geocoder.
type Endpoint struct {
	Address   string
	Latitude  *float64
	Longitude *float64
}

// Input is everything route feasibility depends on.
type Input struct {
	Start                Endpoint
	End                  Endpoint
	ExpectedPickupDate   time.Time
	ExpectedDeliveryDate time.Time
}

// Result is the outcome of one feasibility check. It is recomputed whenever
// the inputs change and never cached across edits.
type Result struct {
	IsValid                  bool       `json:"isValid"`
	Message                  string     `json:"message"`
	EstimatedDistanceKm      float64    `json:"estimatedDistanceKm"`
	EstimatedDurationHours   float64    `json:"estimatedDurationHours"`
	TravelTimeHours          float64    `json:"travelTimeHours"`
	WaitTimeHours            float64    `json:"waitTimeHours"`
	SuggestedMinDeliveryDate *time.Time `json:"suggestedMinDeliveryDate,omitempty"`
	RestrictionNote          string     `json:"restrictionNote,omitempty"`
}

func invalid(message string) Result {
	return Result{IsValid: false, Message: message}
}

// Service computes route feasibility. Aside from one geocoding round-trip per
// unresolved endpoint it is pure computation over its inputs, and it reports
// failures through the result instead of letting them escape to callers.
type Service struct {
	geocoder Geocoder

	roadFactor    float64
	avgSpeedKmh   float64
	handlingHours float64
}

// NewService creates a new route feasibility service
func NewService(geocoder Geocoder) *Service {
	return &Service{
		geocoder:      geocoder,
		roadFactor:    defaultRoadFactor,
		avgSpeedKmh:   defaultAvgSpeedKmh,
		handlingHours: defaultHandlingHours,
	}
}

// Validate checks whether the delivery deadline is physically reachable from
// the pickup time given the estimated travel duration.
func (s *Service) Validate(ctx context.Context, in Input) Result {
	if in.ExpectedPickupDate.IsZero() || in.ExpectedDeliveryDate.IsZero() {
		return invalid("pickup and delivery dates are required")
	}
	if !utils.HasExplicitTime(in.ExpectedPickupDate) || !utils.HasExplicitTime(in.ExpectedDeliveryDate) {
		return invalid("pickup and delivery must carry both a date and a time")
	}
	if !in.ExpectedDeliveryDate.After(in.ExpectedPickupDate) {
		return invalid("delivery must be after pickup")
	}

	start, err := s.resolve(in.Start)
	if err != nil {
		return invalid(fmt.Sprintf("cannot resolve pickup location: %v", err))
	}
	if err := ctx.Err(); err != nil {
		return invalid("route check cancelled")
	}
	end, err := s.resolve(in.End)
	if err != nil {
		return invalid(fmt.Sprintf("cannot resolve delivery location: %v", err))
	}
	if err := ctx.Err(); err != nil {
		return invalid("route check cancelled")
	}

	distanceKm := haversineKm(start, end) * s.roadFactor
	travelHours := distanceKm / s.avgSpeedKmh
	durationHours := travelHours + s.handlingHours

	suggested := in.ExpectedPickupDate.Add(time.Duration(durationHours * float64(time.Hour)))

	result := Result{
		EstimatedDistanceKm:      round2(distanceKm),
		EstimatedDurationHours:   round2(durationHours),
		TravelTimeHours:          round2(travelHours),
		WaitTimeHours:            s.handlingHours,
		SuggestedMinDeliveryDate: &suggested,
		RestrictionNote:          restrictionNote(suggested),
	}

	if in.ExpectedDeliveryDate.Before(suggested) {
		result.IsValid = false
		result.Message = fmt.Sprintf(
			"delivery window is too tight: the route needs about %.1f hours, earliest feasible delivery is %s",
			durationHours, suggested.Format(time.RFC3339))
		return result
	}

	result.IsValid = true
	result.Message = fmt.Sprintf("route is feasible: %.0f km, about %.1f hours including handling", distanceKm, durationHours)
	return result
}

func (s *Service) resolve(e Endpoint) (vietmap.Coordinates, error) {
	if e.Latitude != nil && e.Longitude != nil {
		return vietmap.Coordinates{Latitude: *e.Latitude, Longitude: *e.Longitude}, nil
	}
	if e.Address == "" {
		return vietmap.Coordinates{}, fmt.Errorf("address is empty")
	}
	if s.geocoder == nil {
		return vietmap.Coordinates{}, fmt.Errorf("no geocoder configured")
	}
	return s.geocoder.Geocode(e.Address)
}

// restrictionNote flags arrivals inside the urban truck ban window. It never
// affects validity, only the advisory text.
func restrictionNote(arrival time.Time) string {
	tod := utils.TimeOfDay(arrival)
	if tod >= nightRestrictionStart || tod < nightRestrictionEnd {
		return "estimated arrival falls between 22:00 and 06:00; inner-city truck restrictions may apply"
	}
	return ""
}

const earthRadiusKm = 6371.0

// haversineKm is the great-circle distance between two coordinates.
func haversineKm(a, b vietmap.Coordinates) float64 {
	latA := a.Latitude * math.Pi / 180
	latB := b.Latitude * math.Pi / 180
	dLat := (b.Latitude - a.Latitude) * math.Pi / 180
	dLon := (b.Longitude - a.Longitude) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(latA)*math.Cos(latB)*math.Sin(dLon/2)*math.Sin(dLon/2)

	return 2 * earthRadiusKm * math.Asin(math.Sqrt(h))
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
