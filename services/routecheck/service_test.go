package routecheck

import (
	"context"
	"errors"
	"testing"
	"time"

	vietmap "freight-posting/httpServices/vietmap"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeGeocoder struct {
	coords map[string]vietmap.Coordinates
	calls  int
}

func (f *fakeGeocoder) Geocode(address string) (vietmap.Coordinates, error) {
	f.calls++
	coords, ok := f.coords[address]
	if !ok {
		return vietmap.Coordinates{}, errors.New("no results for address")
	}
	return coords, nil
}

func newTestGeocoder() *fakeGeocoder {
	return &fakeGeocoder{coords: map[string]vietmap.Coordinates{
		"Hà Nội":     {Latitude: 21.0285, Longitude: 105.8542},
		"Hồ Chí Minh": {Latitude: 10.7769, Longitude: 106.7009},
		"Hải Phòng":  {Latitude: 20.8449, Longitude: 106.6881},
	}}
}

func pickupAt(hours int) time.Time {
	return time.Date(2025, 6, 2, hours, 0, 0, 0, time.Local)
}

func TestValidateRejectsMissingDates(t *testing.T) {
	svc := NewService(newTestGeocoder())

	res := svc.Validate(context.Background(), Input{
		Start: Endpoint{Address: "Hà Nội"},
		End:   Endpoint{Address: "Hồ Chí Minh"},
	})
	assert.False(t, res.IsValid)
	assert.Contains(t, res.Message, "required")
}

func TestValidateRejectsDateOnlyTimestamps(t *testing.T) {
	svc := NewService(newTestGeocoder())

	midnight := time.Date(2025, 6, 2, 0, 0, 0, 0, time.Local)
	res := svc.Validate(context.Background(), Input{
		Start:                Endpoint{Address: "Hà Nội"},
		End:                  Endpoint{Address: "Hồ Chí Minh"},
		ExpectedPickupDate:   midnight,
		ExpectedDeliveryDate: midnight.AddDate(0, 0, 2),
	})
	assert.False(t, res.IsValid)
	assert.Contains(t, res.Message, "date and a time")
}

func TestValidateRejectsDeliveryBeforePickup(t *testing.T) {
	svc := NewService(newTestGeocoder())

	res := svc.Validate(context.Background(), Input{
		Start:                Endpoint{Address: "Hà Nội"},
		End:                  Endpoint{Address: "Hồ Chí Minh"},
		ExpectedPickupDate:   pickupAt(8),
		ExpectedDeliveryDate: pickupAt(7),
	})
	assert.False(t, res.IsValid)
	assert.Contains(t, res.Message, "after pickup")
}

func TestValidateGeocodeFailureIsInvalidNotError(t *testing.T) {
	svc := NewService(newTestGeocoder())

	res := svc.Validate(context.Background(), Input{
		Start:                Endpoint{Address: "nowhere in particular"},
		End:                  Endpoint{Address: "Hồ Chí Minh"},
		ExpectedPickupDate:   pickupAt(8),
		ExpectedDeliveryDate: pickupAt(8).AddDate(0, 0, 2),
	})
	assert.False(t, res.IsValid)
	assert.Contains(t, res.Message, "cannot resolve pickup location")
}

func TestValidateLongHaulWindows(t *testing.T) {
	svc := NewService(newTestGeocoder())
	pickup := pickupAt(8)

	in := Input{
		Start:              Endpoint{Address: "Hà Nội"},
		End:                Endpoint{Address: "Hồ Chí Minh"},
		ExpectedPickupDate: pickup,
	}

	// a two-day window is plenty for the Hanoi - HCMC haul
	in.ExpectedDeliveryDate = pickup.Add(48 * time.Hour)
	res := svc.Validate(context.Background(), in)
	assert.True(t, res.IsValid)
	assert.Greater(t, res.EstimatedDistanceKm, 1000.0)
	require.NotNil(t, res.SuggestedMinDeliveryDate)
	assert.True(t, res.SuggestedMinDeliveryDate.After(pickup))

	// ten hours is physically impossible for the same route
	in.ExpectedDeliveryDate = pickup.Add(10 * time.Hour)
	res = svc.Validate(context.Background(), in)
	assert.False(t, res.IsValid)
	assert.Contains(t, res.Message, "too tight")
	require.NotNil(t, res.SuggestedMinDeliveryDate)
}

func TestValidateFeasibilityIsMonotonicInDeadline(t *testing.T) {
	svc := NewService(newTestGeocoder())
	pickup := pickupAt(8)

	in := Input{
		Start:              Endpoint{Address: "Hà Nội"},
		End:                Endpoint{Address: "Hải Phòng"},
		ExpectedPickupDate: pickup,
	}

	// find the first feasible deadline, then every later one must stay feasible
	feasibleSeen := false
	for h := 1; h <= 12; h++ {
		in.ExpectedDeliveryDate = pickup.Add(time.Duration(h) * time.Hour)
		res := svc.Validate(context.Background(), in)
		if res.IsValid {
			feasibleSeen = true
		} else {
			assert.False(t, feasibleSeen, "route became infeasible again at +%dh after being feasible", h)
		}
	}
	assert.True(t, feasibleSeen)
}

func TestValidateUsesProvidedCoordinates(t *testing.T) {
	geocoder := newTestGeocoder()
	svc := NewService(geocoder)

	lat1, lon1 := 21.0285, 105.8542
	lat2, lon2 := 20.8449, 106.6881
	res := svc.Validate(context.Background(), Input{
		Start:                Endpoint{Latitude: &lat1, Longitude: &lon1},
		End:                  Endpoint{Latitude: &lat2, Longitude: &lon2},
		ExpectedPickupDate:   pickupAt(8),
		ExpectedDeliveryDate: pickupAt(8).Add(12 * time.Hour),
	})
	assert.True(t, res.IsValid)
	assert.Zero(t, geocoder.calls)
}
