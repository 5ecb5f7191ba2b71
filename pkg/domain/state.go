package domain

// Status classifies the boiler's safety condition. It is a pure function of
// water level and pressure, recomputed on every tick and never stored
// independently of them.
type Status string

const (
	StatusNormal           Status = "NORMAL"
	StatusWarning          Status = "WARNING"
	StatusLowLevelTrip     Status = "LOW_LEVEL_TRIP"
	StatusHighLevelTrip    Status = "HIGH_LEVEL_TRIP"
	StatusCriticalPressure Status = "CRITICAL_PRESSURE"
)

// IsTrip reports whether the status is terminal for the episode.
// Trip states are successful classifications, not errors; clearing one
// requires an explicit reset.
func (s Status) IsTrip() bool {
	switch s {
	case StatusLowLevelTrip, StatusHighLevelTrip, StatusCriticalPressure:
		return true
	}
	return false
}

// Snapshot is an immutable view of the boiler published after each tick.
// Readers never observe a partially-updated tick: the session layer swaps
// the whole snapshot at once.
type Snapshot struct {
	WaterLevel      float64  `json:"water_level"`
	Pressure        float64  `json:"pressure"`
	Temperature     float64  `json:"temperature"`
	FireIntensity   float64  `json:"fire_intensity"`
	SteamGeneration float64  `json:"steam_generation"`
	Status          Status   `json:"status"`
	Alarms          []string `json:"alarms"`
	Tick            uint64   `json:"tick"`
}
