package config

import "strings"

// FindLocation looks up a configured location by name, ignoring case
func (c *Config) FindLocation(name string) (Location, bool) {
	name = strings.TrimSpace(name)
	for _, loc := range c.Locations {
		if strings.EqualFold(loc.Name, name) {
			return loc, true
		}
	}
	return Location{}, false
}

// SearchLocations returns the names of locations containing query, ignoring case
func (c *Config) SearchLocations(query string) []string {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return nil
	}
	var names []string
	for _, loc := range c.Locations {
		if strings.Contains(strings.ToLower(loc.Name), query) {
			names = append(names, loc.Name)
		}
	}
	return names
}

// LocationNames lists configured location names in file order
func (c *Config) LocationNames() []string {
	names := make([]string, 0, len(c.Locations))
	for _, loc := range c.Locations {
		names = append(names, loc.Name)
	}
	return names
}
