package present

import (
	"fmt"
	"strings"

	"gsmforecast/internal/forecast"
)

// TextHours caps the hourly lines of FormatText
const TextHours = 24

// FormatText renders a human readable summary followed by up to TextHours hourly lines
func FormatText(f *forecast.Forecast, city string) string {
	var b strings.Builder

	if city != "" {
		fmt.Fprintf(&b, "# Weather forecast for %s\n", city)
	} else {
		b.WriteString("# Weather forecast\n")
	}
	fmt.Fprintf(&b, "📍 Location: %.4f, %.4f\n", f.Latitude(), f.Longitude())
	fmt.Fprintf(&b, "📅 Model run: %s\n", FormatReferenceTime(f.ReferenceTime()))
	fmt.Fprintf(&b, "⏰ Forecast hours: %d\n\n", f.Len())

	if f.Len() == 0 {
		b.WriteString("No hourly data.\n")
		return b.String()
	}

	s := Summarize(f)
	b.WriteString("## Summary\n")
	fmt.Fprintf(&b, "🌡️ High: %.1f°C\n", s.MaxTemperature)
	fmt.Fprintf(&b, "🌡️ Low: %.1f°C\n", s.MinTemperature)
	fmt.Fprintf(&b, "💧 Total precipitation: %.1fmm\n", s.TotalPrecipitation)
	fmt.Fprintf(&b, "🌧️ Rainy hours: %d\n", s.RainyHours)
	fmt.Fprintf(&b, "💨 Max wind: %.1fm/s\n", s.MaxWindSpeed)
	fmt.Fprintf(&b, "💦 Avg humidity: %.0f%%\n\n", s.AverageHumidity)

	shown := min(TextHours, f.Len())
	fmt.Fprintf(&b, "## Next %d hours\n\n", shown)
	for i, item := range f.All() {
		if i >= shown {
			break
		}
		b.WriteString(hourLine(item))
		b.WriteByte('\n')
	}

	return b.String()
}

func hourLine(item forecast.Item) string {
	return fmt.Sprintf("%s %s temp:%.1f°C precip:%.1fmm wind:%.1fm/s(%s) humidity:%.0f%% clouds:%.0f%% pressure:%.1fhPa",
		item.Datetime, item.WeatherIcon().Emoji(),
		item.Temperature, item.Precipitation,
		item.WindSpeed, item.CompassDirection(),
		item.Humidity, item.CloudCover, item.Pressure)
}
