package models

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// flexNumber decodes a model supplied number that may arrive as a JSON
// number or a numeric string. Anything else decodes to zero.
type flexNumber float64

func (n *flexNumber) UnmarshalJSON(data []byte) error {
	*n = 0
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil
	}
	raw := string(data)
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return nil
		}
		raw = strings.TrimSpace(s)
	}
	// NaN and Inf would not survive re-encoding.
	if f, err := strconv.ParseFloat(raw, 64); err == nil && !math.IsNaN(f) && !math.IsInf(f, 0) {
		*n = flexNumber(f)
	}
	return nil
}

func (n flexNumber) toFloat() float64 { return float64(n) }

func (n flexNumber) toInt() int { return int(n) }

// UnmarshalJSON also accepts a bare place name in place of the object.
func (l *Location) UnmarshalJSON(data []byte) error {
	if trimmed := bytes.TrimSpace(data); len(trimmed) > 0 && trimmed[0] == '"' {
		*l = Location{}
		return json.Unmarshal(trimmed, &l.Name)
	}
	type alias Location
	aux := struct {
		*alias
		Lat flexNumber `json:"lat"`
		Lng flexNumber `json:"lng"`
	}{alias: (*alias)(l)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	l.Lat, l.Lng = aux.Lat.toFloat(), aux.Lng.toFloat()
	return nil
}

func (c *Coordinates) UnmarshalJSON(data []byte) error {
	type alias Coordinates
	aux := struct {
		*alias
		Lat flexNumber `json:"lat"`
		Lng flexNumber `json:"lng"`
	}{alias: (*alias)(c)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	c.Lat, c.Lng = aux.Lat.toFloat(), aux.Lng.toFloat()
	return nil
}

func (d *ItineraryDay) UnmarshalJSON(data []byte) error {
	type alias ItineraryDay
	aux := struct {
		*alias
		Day flexNumber `json:"day"`
	}{alias: (*alias)(d)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	d.Day = aux.Day.toInt()
	return nil
}

func (p *Place) UnmarshalJSON(data []byte) error {
	type alias Place
	aux := struct {
		*alias
		Rating  flexNumber `json:"rating"`
		Reviews flexNumber `json:"reviews"`
	}{alias: (*alias)(p)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	p.Rating, p.Reviews = aux.Rating.toFloat(), aux.Reviews.toInt()
	return nil
}
