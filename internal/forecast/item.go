package forecast

import (
	"encoding/json"
	"fmt"
	"math"

	"gsmforecast/internal/models"
)

// Icon is the weather condition category of an hour
type Icon string

const (
	IconRain         Icon = "RAIN"
	IconLightRain    Icon = "LIGHT_RAIN"
	IconCloudy       Icon = "CLOUDY"
	IconPartlyCloudy Icon = "PARTLY_CLOUDY"
	IconClear        Icon = "CLEAR"
)

// Emoji returns the glyph the web and chat front ends show for the icon
func (i Icon) Emoji() string {
	switch i {
	case IconRain:
		return "🌧️"
	case IconLightRain:
		return "🌦️"
	case IconCloudy:
		return "☁️"
	case IconPartlyCloudy:
		return "⛅"
	}
	return "☀️"
}

var compassPoints = [16]string{
	"N", "NNE", "NE", "ENE", "E", "ESE", "SE", "SSE",
	"S", "SSW", "SW", "WSW", "W", "WNW", "NW", "NNW",
}

// Item is one hour of a forecast
type Item struct {
	Datetime      string
	Temperature   float64 // °C
	Precipitation float64 // mm
	WindSpeed     float64 // m/s
	WindDirection float64 // degrees, direction the wind blows from
	Humidity      float64 // %
	CloudCover    float64 // %
	Pressure      float64 // hPa
}

// NewItem decodes one raw hourly record. Every field must be present and typed.
func NewItem(raw json.RawMessage) (Item, error) {
	var rec models.Record
	if err := json.Unmarshal(raw, &rec); err != nil {
		return Item{}, MalformedError("invalid forecast record", err)
	}
	if field := rec.Missing(); field != "" {
		return Item{}, MalformedError(fmt.Sprintf("forecast record missing %s", field), nil)
	}
	return Item{
		Datetime:      *rec.Datetime,
		Temperature:   *rec.TMP,
		Precipitation: *rec.APCP,
		WindSpeed:     *rec.WSPD,
		WindDirection: *rec.WDIR,
		Humidity:      *rec.RH,
		CloudCover:    *rec.TCDC,
		Pressure:      *rec.PRES,
	}, nil
}

// CompassDirection maps the wind direction onto 16 compass points.
// Half-sector boundaries round away from zero, so 11.25° is NNE.
func (it Item) CompassDirection() string {
	idx := int(math.Round(it.WindDirection/22.5)) % 16
	if idx < 0 {
		idx += 16
	}
	return compassPoints[idx]
}

// WeatherIcon picks the condition category, precipitation first and then cloud cover
func (it Item) WeatherIcon() Icon {
	switch {
	case it.Precipitation > 1.0:
		return IconRain
	case it.Precipitation > 0.1:
		return IconLightRain
	case it.CloudCover > 70:
		return IconCloudy
	case it.CloudCover > 30:
		return IconPartlyCloudy
	}
	return IconClear
}

// Flat is the serialized form of an Item including derived fields
type Flat struct {
	Datetime             string  `json:"datetime"`
	Temperature          float64 `json:"temperature"`
	Precipitation        float64 `json:"precipitation"`
	WindSpeed            float64 `json:"wind_speed"`
	WindDirection        float64 `json:"wind_direction"`
	WindDirectionCompass string  `json:"wind_direction_compass"`
	Humidity             float64 `json:"humidity"`
	CloudCover           float64 `json:"cloud_cover"`
	Pressure             float64 `json:"pressure"`
	WeatherIcon          Icon    `json:"weather_icon"`
}

// Flatten returns raw and derived fields in their serialized form
func (it Item) Flatten() Flat {
	return Flat{
		Datetime:             it.Datetime,
		Temperature:          it.Temperature,
		Precipitation:        it.Precipitation,
		WindSpeed:            it.WindSpeed,
		WindDirection:        it.WindDirection,
		WindDirectionCompass: it.CompassDirection(),
		Humidity:             it.Humidity,
		CloudCover:           it.CloudCover,
		Pressure:             it.Pressure,
		WeatherIcon:          it.WeatherIcon(),
	}
}

// Map returns the flat form keyed by the same names as the JSON encoding
func (it Item) Map() map[string]any {
	f := it.Flatten()
	return map[string]any{
		"datetime":               f.Datetime,
		"temperature":            f.Temperature,
		"precipitation":          f.Precipitation,
		"wind_speed":             f.WindSpeed,
		"wind_direction":         f.WindDirection,
		"wind_direction_compass": f.WindDirectionCompass,
		"humidity":               f.Humidity,
		"cloud_cover":            f.CloudCover,
		"pressure":               f.Pressure,
		"weather_icon":           string(f.WeatherIcon),
	}
}

// MarshalJSON encodes the item in its flat form
func (it Item) MarshalJSON() ([]byte, error) {
	return json.Marshal(it.Flatten())
}
