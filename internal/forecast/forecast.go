package forecast

import (
	"encoding/json"
	"fmt"
	"iter"
	"slices"
	"strconv"
	"strings"

	"gsmforecast/internal/models"
)

// Forecast is an immutable hourly series for one point. Index i is i hours after ReferenceTime.
type Forecast struct {
	latitude      float64
	longitude     float64
	referenceTime string
	items         []Item
}

// New builds a Forecast from an API result, keeping at most hours records.
// Records past the horizon are not decoded.
func New(result models.Result, hours int) (*Forecast, error) {
	if result.LatLng == nil {
		return nil, MalformedError("result missing latlng", nil)
	}
	lat, lng, err := parseLatLng(*result.LatLng)
	if err != nil {
		return nil, err
	}

	if result.GribFileTime == nil {
		return nil, MalformedError("result missing grib2file_time", nil)
	}

	if result.Forecast == nil {
		return nil, MalformedError("result missing forecast", nil)
	}

	n := min(max(hours, 0), len(result.Forecast))
	items := make([]Item, 0, n)
	for i, raw := range result.Forecast[:n] {
		item, err := NewItem(raw)
		if err != nil {
			if fe, ok := err.(*Error); ok {
				fe.Message = fmt.Sprintf("hour %d: %s", i, fe.Message)
			}
			return nil, err
		}
		items = append(items, item)
	}

	return &Forecast{
		latitude:      lat,
		longitude:     lng,
		referenceTime: *result.GribFileTime,
		items:         items,
	}, nil
}

func parseLatLng(s string) (float64, float64, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return 0, 0, MalformedError(fmt.Sprintf("latlng %q is not a lat,lng pair", s), nil)
	}
	lat, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return 0, 0, MalformedError(fmt.Sprintf("latlng %q has invalid latitude", s), err)
	}
	lng, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return 0, 0, MalformedError(fmt.Sprintf("latlng %q has invalid longitude", s), err)
	}
	return lat, lng, nil
}

// Latitude returns the latitude echoed by the API
func (f *Forecast) Latitude() float64 { return f.latitude }

// Longitude returns the longitude echoed by the API
func (f *Forecast) Longitude() float64 { return f.longitude }

// ReferenceTime returns the model run timestamp, YYYYMMDDhhmmss as sent
func (f *Forecast) ReferenceTime() string { return f.referenceTime }

// Len returns the number of hours held
func (f *Forecast) Len() int { return len(f.items) }

// At returns the item hour hours after the reference time
func (f *Forecast) At(hour int) (Item, bool) {
	if hour < 0 || hour >= len(f.items) {
		return Item{}, false
	}
	return f.items[hour], true
}

// TemperatureAt returns the temperature in °C at hour
func (f *Forecast) TemperatureAt(hour int) (float64, bool) {
	item, ok := f.At(hour)
	if !ok {
		return 0, false
	}
	return item.Temperature, true
}

// PrecipitationAt returns the precipitation in mm at hour
func (f *Forecast) PrecipitationAt(hour int) (float64, bool) {
	item, ok := f.At(hour)
	if !ok {
		return 0, false
	}
	return item.Precipitation, true
}

// Items returns a copy of all items in hour order
func (f *Forecast) Items() []Item {
	return slices.Clone(f.items)
}

// All iterates hour offsets and items in order. Each call starts again at hour 0.
func (f *Forecast) All() iter.Seq2[int, Item] {
	return func(yield func(int, Item) bool) {
		for i, item := range f.items {
			if !yield(i, item) {
				return
			}
		}
	}
}

// MarshalJSON encodes the forecast with items in their flat form
func (f *Forecast) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Latitude     float64 `json:"latitude"`
		Longitude    float64 `json:"longitude"`
		GribFileTime string  `json:"grib2file_time"`
		Forecast     []Item  `json:"forecast"`
	}{
		Latitude:     f.latitude,
		Longitude:    f.longitude,
		GribFileTime: f.referenceTime,
		Forecast:     f.items,
	})
}
