// Package present turns forecasts into reports, text, CSV and chart series.
package present

import (
	"math"

	"gsmforecast/internal/forecast"
)

// RainyThreshold is the precipitation in mm above which an hour counts as rainy
const RainyThreshold = 0.1

// Summary holds aggregate statistics over a forecast.
// All values are zero when Hours is zero.
type Summary struct {
	MinTemperature     float64 `json:"min_temp"`
	MaxTemperature     float64 `json:"max_temp"`
	AverageHumidity    float64 `json:"avg_humidity"`
	TotalPrecipitation float64 `json:"total_precipitation"`
	MaxWindSpeed       float64 `json:"max_wind_speed"`
	RainyHours         int     `json:"rainy_hours"`
	Hours              int     `json:"forecast_hours"`
}

// Summarize folds the forecast in hour order
func Summarize(f *forecast.Forecast) Summary {
	if f.Len() == 0 {
		return Summary{}
	}

	s := Summary{
		MinTemperature: math.Inf(1),
		MaxTemperature: math.Inf(-1),
		MaxWindSpeed:   math.Inf(-1),
	}
	var humidity float64
	for _, item := range f.All() {
		s.MinTemperature = math.Min(s.MinTemperature, item.Temperature)
		s.MaxTemperature = math.Max(s.MaxTemperature, item.Temperature)
		s.MaxWindSpeed = math.Max(s.MaxWindSpeed, item.WindSpeed)
		s.TotalPrecipitation += item.Precipitation
		humidity += item.Humidity
		if item.Precipitation > RainyThreshold {
			s.RainyHours++
		}
		s.Hours++
	}
	s.AverageHumidity = humidity / float64(s.Hours)

	return s
}
