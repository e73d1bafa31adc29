package trip

// Mode is the travel mode of a single leg.
type Mode string

// Supported travel modes.
const (
	ModeWalk    Mode = "walk"
	ModeBicycle Mode = "bicycle"
	ModeCar     Mode = "car"
	ModeBus     Mode = "bus"
	ModeTram    Mode = "tram"
	ModeMetro   Mode = "metro"
	ModeRail    Mode = "rail"
	ModeFerry   Mode = "ferry"
)

// IsTransit reports whether the mode is a scheduled public transport mode.
func (m Mode) IsTransit() bool {
	switch m {
	case ModeBus, ModeTram, ModeMetro, ModeRail, ModeFerry:
		return true
	default:
		return false
	}
}

// IsStreet reports whether the mode is an on-street mode (walk, bicycle, car).
func (m Mode) IsStreet() bool {
	switch m {
	case ModeWalk, ModeBicycle, ModeCar:
		return true
	default:
		return false
	}
}
