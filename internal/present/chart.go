package present

import "gsmforecast/internal/forecast"

// Series holds the chart data sets keyed by hour label
type Series struct {
	Labels        []string  `json:"labels"`
	Temperature   []float64 `json:"temperature"`
	Precipitation []float64 `json:"precipitation"`
	WindSpeed     []float64 `json:"wind_speed"`
}

func Chart(f *forecast.Forecast) Series {
	n := f.Len()
	s := Series{
		Labels:        make([]string, 0, n),
		Temperature:   make([]float64, 0, n),
		Precipitation: make([]float64, 0, n),
		WindSpeed:     make([]float64, 0, n),
	}
	for _, item := range f.All() {
		s.Labels = append(s.Labels, HourLabel(item.Datetime))
		s.Temperature = append(s.Temperature, item.Temperature)
		s.Precipitation = append(s.Precipitation, item.Precipitation)
		s.WindSpeed = append(s.WindSpeed, item.WindSpeed)
	}
	return s
}
