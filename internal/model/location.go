package model

import (
	"fmt"
	"strings"
)

// Location is one of the fixed spots the school teaches at.
type Location string

const (
	LocationLosLances     Location = "Los Lances"
	LocationValdevaqueros Location = "Valdevaqueros"
	LocationPalmones      Location = "Palmones"
)

// Locations lists every known location in display order.
var Locations = []Location{LocationLosLances, LocationValdevaqueros, LocationPalmones}

// ParseLocation matches a location by name, ignoring case and surrounding spaces
func ParseLocation(s string) (Location, error) {
	s = strings.TrimSpace(s)
	for _, loc := range Locations {
		if strings.EqualFold(string(loc), s) {
			return loc, nil
		}
	}
	return "", fmt.Errorf("unknown location %q", s)
}
