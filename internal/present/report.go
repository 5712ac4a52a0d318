package present

import (
	"gsmforecast/internal/forecast"
)

type Location struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	City      string  `json:"city,omitempty"`
}

// Report is the JSON document served by the HTTP API and published to the stream
type Report struct {
	Location Location        `json:"location"`
	DataTime string          `json:"data_time"`
	Forecast []forecast.Flat `json:"forecast"`
	Summary  Summary         `json:"summary"`
}

// NewReport builds a Report; city may be empty
func NewReport(f *forecast.Forecast, city string) Report {
	flat := make([]forecast.Flat, 0, f.Len())
	for _, item := range f.All() {
		flat = append(flat, item.Flatten())
	}

	return Report{
		Location: Location{
			Latitude:  f.Latitude(),
			Longitude: f.Longitude(),
			City:      city,
		},
		DataTime: f.ReferenceTime(),
		Forecast: flat,
		Summary:  Summarize(f),
	}
}
