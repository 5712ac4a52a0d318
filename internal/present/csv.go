package present

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"gsmforecast/internal/forecast"
)

// CSVHeader is the column order of WriteCSV, matching the flat item keys
var CSVHeader = []string{
	"datetime", "temperature", "precipitation", "wind_speed", "wind_direction",
	"wind_direction_compass", "humidity", "cloud_cover", "pressure", "weather_icon",
}

// WriteCSV writes a header and one row per hour
func WriteCSV(w io.Writer, f *forecast.Forecast) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(CSVHeader); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}

	for i, item := range f.All() {
		fl := item.Flatten()
		row := []string{
			fl.Datetime,
			formatFloat(fl.Temperature),
			formatFloat(fl.Precipitation),
			formatFloat(fl.WindSpeed),
			formatFloat(fl.WindDirection),
			fl.WindDirectionCompass,
			formatFloat(fl.Humidity),
			formatFloat(fl.CloudCover),
			formatFloat(fl.Pressure),
			string(fl.WeatherIcon),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write csv row %d: %w", i, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
