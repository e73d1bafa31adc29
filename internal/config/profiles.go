package config

import (
	"fmt"
	"sort"
	"time"

	sigsyaml "sigs.k8s.io/yaml"
)

// ProfileConfig describes a reusable bundle of chain options that can be
// applied by name via --profile. Unset fields leave the corresponding
// chain option at its default or flag-provided value.
type ProfileConfig struct {
	// ArriveBy sets the search direction of the chain.
	ArriveBy *bool `json:"arriveBy,omitempty"`

	// GroupByP overrides the group-by distance fraction.
	GroupByP *float64 `json:"groupByP,omitempty"`

	// MinLimit overrides the approximate minimum itinerary count.
	MinLimit *int `json:"minLimit,omitempty"`

	// MaxLimit overrides the maximum itinerary count.
	MaxLimit *int `json:"maxLimit,omitempty"`

	// TransitSlack enables the timetable-variation reducer with the
	// given slack (Go duration string, e.g. "90s").
	TransitSlack string `json:"transitSlack,omitempty"`

	// StreetDominance toggles the transit-vs-street filter.
	StreetDominance *bool `json:"streetDominance,omitempty"`

	// Debug makes the chain non-destructive (tag instead of remove).
	Debug *bool `json:"debug,omitempty"`

	// Extends names a built-in profile to extend with these overrides.
	Extends string `json:"extends,omitempty"`
}

// ParseTransitSlack returns the profile's transit slack as a duration.
// An empty value means the variation reducer stays disabled.
func (p ProfileConfig) ParseTransitSlack() (time.Duration, error) {
	if p.TransitSlack == "" {
		return 0, nil
	}

	d, err := time.ParseDuration(p.TransitSlack)
	if err != nil {
		return 0, fmt.Errorf("invalid transitSlack %q: %w", p.TransitSlack, err)
	}

	return d, nil
}

// builtinProfiles contains the built-in profile definitions.
var builtinProfiles = map[string]ProfileConfig{
	// default mirrors the chain builder defaults.
	"default": {},
	"arrive-by": {
		ArriveBy: boolPtr(true),
	},
	// commute: a short, decisive list for commuters — collapse
	// timetable noise and keep the list small.
	"commute": {
		MaxLimit:     intPtr(5),
		TransitSlack: "90s",
	},
	// departure-board: many departures per corridor, little grouping.
	"departure-board": {
		GroupByP: floatPtr(0.95),
		MinLimit: intPtr(10),
		MaxLimit: intPtr(50),
	},
}

// BuiltinProfileNames returns the names of all built-in profiles.
func BuiltinProfileNames() []string {
	names := make([]string, 0, len(builtinProfiles))
	for name := range builtinProfiles {
		names = append(names, name)
	}

	sort.Strings(names)

	return names
}

// ResolveProfile resolves a profile name to its configuration by checking
// built-in profiles first, then custom profiles. Returns an error if the
// profile name is not found in either source.
func ResolveProfile(name string, custom map[string]ProfileConfig) (ProfileConfig, error) {
	// Check built-in profiles.
	if p, ok := builtinProfiles[name]; ok {
		return p, nil
	}

	// Check custom profiles.
	if custom != nil {
		if p, ok := custom[name]; ok {
			// If the custom profile extends a built-in, merge them.
			if p.Extends != "" {
				base, err := ResolveProfile(p.Extends, nil)
				if err != nil {
					return ProfileConfig{}, fmt.Errorf("profile %q extends unknown profile %q", name, p.Extends)
				}

				return mergeProfiles(base, p), nil
			}

			return p, nil
		}
	}

	return ProfileConfig{}, fmt.Errorf("unknown profile %q (built-in: %v)", name, BuiltinProfileNames())
}

// ParseProfiles parses the profiles section from raw config file bytes.
func ParseProfiles(data []byte) (map[string]ProfileConfig, error) {
	var raw struct {
		Profiles map[string]ProfileConfig `json:"profiles,omitempty"`
	}

	if err := sigsyaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing profiles config: %w", err)
	}

	return raw.Profiles, nil
}

// mergeProfiles overlays override on top of base. Set fields win.
func mergeProfiles(base, override ProfileConfig) ProfileConfig {
	merged := base

	if override.ArriveBy != nil {
		merged.ArriveBy = override.ArriveBy
	}

	if override.GroupByP != nil {
		merged.GroupByP = override.GroupByP
	}

	if override.MinLimit != nil {
		merged.MinLimit = override.MinLimit
	}

	if override.MaxLimit != nil {
		merged.MaxLimit = override.MaxLimit
	}

	if override.TransitSlack != "" {
		merged.TransitSlack = override.TransitSlack
	}

	if override.StreetDominance != nil {
		merged.StreetDominance = override.StreetDominance
	}

	if override.Debug != nil {
		merged.Debug = override.Debug
	}

	merged.Extends = ""

	return merged
}

func boolPtr(b bool) *bool { return &b }

func intPtr(i int) *int { return &i }

func floatPtr(f float64) *float64 { return &f }
