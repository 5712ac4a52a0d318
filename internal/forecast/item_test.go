package forecast

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func TestCompassDirection(t *testing.T) {
	tests := []struct {
		name      string
		direction float64
		want      string
	}{
		{"north", 0, "N"},
		{"north north east", 22.5, "NNE"},
		{"east", 90, "E"},
		{"south", 180, "S"},
		{"west", 270, "W"},
		{"north west", 315, "NW"},
		{"just below NNW boundary", 348.7, "NNW"},
		{"NNW centre", 337.5, "NNW"},
		{"tie between N and NNE rounds away from zero", 11.25, "NNE"},
		{"tie between NNE and NE rounds away from zero", 33.75, "NE"},
		{"tie between NNW and N wraps to N", 348.75, "N"},
		{"just below half sector", 11.2, "N"},
		{"full circle", 360, "N"},
		{"negative angle passes through", -22.5, "NNW"},
		{"beyond full circle", 382.5, "NNE"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			item := Item{WindDirection: tt.direction}
			if got := item.CompassDirection(); got != tt.want {
				t.Errorf("CompassDirection(%v) = %v, want %v", tt.direction, got, tt.want)
			}
		})
	}
}

func TestWeatherIcon(t *testing.T) {
	tests := []struct {
		name          string
		precipitation float64
		cloudCover    float64
		want          Icon
	}{
		{"rain beats cloud cover", 1.5, 90, IconRain},
		{"light rain", 0.5, 10, IconLightRain},
		{"rain threshold is strict", 1.0, 0, IconLightRain},
		{"light rain threshold is strict", 0.1, 0, IconClear},
		{"drizzle falls through to cloudy", 0.05, 80, IconCloudy},
		{"cloudy threshold is strict", 0, 70, IconPartlyCloudy},
		{"partly cloudy", 0, 50, IconPartlyCloudy},
		{"partly cloudy threshold is strict", 0, 30, IconClear},
		{"clear", 0, 10, IconClear},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			item := Item{Precipitation: tt.precipitation, CloudCover: tt.cloudCover}
			if got := item.WeatherIcon(); got != tt.want {
				t.Errorf("WeatherIcon() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestIconEmoji(t *testing.T) {
	if IconRain.Emoji() != "🌧️" {
		t.Errorf("IconRain.Emoji() = %v", IconRain.Emoji())
	}
	if IconClear.Emoji() != "☀️" {
		t.Errorf("IconClear.Emoji() = %v", IconClear.Emoji())
	}
}

func TestNewItem(t *testing.T) {
	raw := json.RawMessage(`{"datetime":"2024-01-01T00:00:00Z","TMP":10.5,"APCP":0.2,"WSPD":3.1,"WDIR":90,"RH":55,"TCDC":40,"PRES":1012.3}`)

	item, err := NewItem(raw)
	if err != nil {
		t.Fatalf("NewItem() error = %v", err)
	}

	want := Item{
		Datetime:      "2024-01-01T00:00:00Z",
		Temperature:   10.5,
		Precipitation: 0.2,
		WindSpeed:     3.1,
		WindDirection: 90,
		Humidity:      55,
		CloudCover:    40,
		Pressure:      1012.3,
	}
	if item != want {
		t.Errorf("NewItem() = %+v, want %+v", item, want)
	}
}

func TestNewItem_Malformed(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		wantMsg string
	}{
		{
			name:    "missing pressure",
			raw:     `{"datetime":"x","TMP":1,"APCP":0,"WSPD":0,"WDIR":0,"RH":0,"TCDC":0}`,
			wantMsg: "PRES",
		},
		{
			name:    "null temperature",
			raw:     `{"datetime":"x","TMP":null,"APCP":0,"WSPD":0,"WDIR":0,"RH":0,"TCDC":0,"PRES":0}`,
			wantMsg: "TMP",
		},
		{
			name:    "missing datetime",
			raw:     `{"TMP":1,"APCP":0,"WSPD":0,"WDIR":0,"RH":0,"TCDC":0,"PRES":0}`,
			wantMsg: "datetime",
		},
		{
			name:    "mistyped humidity",
			raw:     `{"datetime":"x","TMP":1,"APCP":0,"WSPD":0,"WDIR":0,"RH":"high","TCDC":0,"PRES":0}`,
			wantMsg: "invalid forecast record",
		},
		{
			name:    "not an object",
			raw:     `[1,2,3]`,
			wantMsg: "invalid forecast record",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewItem(json.RawMessage(tt.raw))
			if !errors.Is(err, ErrMalformedResponse) {
				t.Fatalf("NewItem() error = %v, want MalformedResponse", err)
			}
			if !strings.Contains(err.Error(), tt.wantMsg) {
				t.Errorf("NewItem() error = %q, want it to mention %q", err.Error(), tt.wantMsg)
			}
		})
	}
}

func TestItemMap(t *testing.T) {
	item := Item{
		Datetime:      "2024-01-01T03:00:00Z",
		Temperature:   12,
		Precipitation: 2,
		WindSpeed:     4,
		WindDirection: 180,
		Humidity:      90,
		CloudCover:    100,
		Pressure:      1000,
	}

	m := item.Map()

	keys := []string{
		"datetime", "temperature", "precipitation", "wind_speed", "wind_direction",
		"wind_direction_compass", "humidity", "cloud_cover", "pressure", "weather_icon",
	}
	if len(m) != len(keys) {
		t.Errorf("Map() has %d keys, want %d", len(m), len(keys))
	}
	for _, k := range keys {
		if _, ok := m[k]; !ok {
			t.Errorf("Map() missing key %s", k)
		}
	}

	if m["wind_direction_compass"] != "S" {
		t.Errorf("Map()[wind_direction_compass] = %v, want S", m["wind_direction_compass"])
	}
	if m["weather_icon"] != "RAIN" {
		t.Errorf("Map()[weather_icon] = %v, want RAIN", m["weather_icon"])
	}
	if m["temperature"] != 12.0 {
		t.Errorf("Map()[temperature] = %v, want 12", m["temperature"])
	}
}

func TestItemMarshalJSON(t *testing.T) {
	item := Item{Datetime: "2024-01-01T00:00:00Z", WindDirection: 45, CloudCover: 50}

	data, err := json.Marshal(item)
	if err != nil {
		t.Fatalf("json.Marshal() error = %v", err)
	}

	var decoded map[string]interface{}
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("json.Unmarshal() error = %v", err)
	}

	if decoded["wind_direction_compass"] != "NE" {
		t.Errorf("wind_direction_compass = %v, want NE", decoded["wind_direction_compass"])
	}
	if decoded["weather_icon"] != "PARTLY_CLOUDY" {
		t.Errorf("weather_icon = %v, want PARTLY_CLOUDY", decoded["weather_icon"])
	}
}
