package models

import "encoding/json"

// SuccessCode is the envelope code the GSM API returns on success
const SuccessCode = 200

// Envelope represents the outer response of the GSM forecast API.
// Optional members are kept raw so presence can be told apart from zero values.
type Envelope struct {
	Code   *int            `json:"code"`
	Error  json.RawMessage `json:"error"`
	Result json.RawMessage `json:"result"`
}

// Result is the payload carried by a successful envelope
type Result struct {
	LatLng       *string           `json:"latlng"`
	GribFileTime *string           `json:"grib2file_time"`
	Forecast     []json.RawMessage `json:"forecast"`
}

// Record is one hour of raw model output. Every member is required;
// pointers let the decoder report which one is missing.
type Record struct {
	Datetime *string  `json:"datetime"`
	TMP      *float64 `json:"TMP"`
	APCP     *float64 `json:"APCP"`
	WSPD     *float64 `json:"WSPD"`
	WDIR     *float64 `json:"WDIR"`
	RH       *float64 `json:"RH"`
	TCDC     *float64 `json:"TCDC"`
	PRES     *float64 `json:"PRES"`
}

// Missing returns the name of the first absent field, or "" when the record is complete
func (r Record) Missing() string {
	switch {
	case r.Datetime == nil:
		return "datetime"
	case r.TMP == nil:
		return "TMP"
	case r.APCP == nil:
		return "APCP"
	case r.WSPD == nil:
		return "WSPD"
	case r.WDIR == nil:
		return "WDIR"
	case r.RH == nil:
		return "RH"
	case r.TCDC == nil:
		return "TCDC"
	case r.PRES == nil:
		return "PRES"
	}
	return ""
}

// IsNull reports whether a raw member was absent or an explicit JSON null
func IsNull(raw json.RawMessage) bool {
	if len(raw) == 0 {
		return true
	}
	return string(raw) == "null"
}
