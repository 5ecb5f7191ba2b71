// Package physics simulates the mass and energy balance of an industrial
// drum boiler: fire generates steam, steam depletes drum level and builds
// pressure, temperature follows pressure with a superheat correction when
// the drum runs low.
//
// The Boiler is deliberately not goroutine-safe. One tick must be in flight
// at a time; pkg/session enforces the single-writer discipline.
package physics

import (
	"fmt"
	"time"

	"github.com/drumtwinlabs/drumtwin/pkg/domain"
)

// Boiler owns the mutable simulation state for one session.
type Boiler struct {
	consts Constants

	waterLevel      float64
	pressure        float64
	temperature     float64
	fireIntensity   float64
	steamGeneration float64
	status          domain.Status
	alarms          []string
	tick            uint64

	history ring
}

// New creates a boiler at the given initial conditions.
// Values outside the physical ranges clamp, as everywhere else.
func New(consts Constants, waterLevel, pressure, temperature float64) *Boiler {
	b := &Boiler{consts: consts, history: newRing(HistoryCap)}
	b.Reset(waterLevel, pressure, temperature)
	return b
}

// Constants returns the tuning this boiler was built with.
func (b *Boiler) Constants() Constants { return b.consts }

// Tick advances the simulation by dt with the given control input and
// returns the resulting snapshot. The input clamps to [0,100]; dt is the
// caller's explicit timestep (use NominalStep for reference behavior).
// Tick cannot fail: out-of-range values clamp, they are never rejected.
func (b *Boiler) Tick(fireIntensity float64, dt time.Duration) domain.Snapshot {
	b.fireIntensity = clamp(fireIntensity, 0, 100)
	sec := dt.Seconds()

	// Mass balance: constant feedwater in, evaporation out.
	b.steamGeneration = b.fireIntensity * b.consts.SteamConversionFactor
	b.waterLevel = clamp(b.waterLevel+(b.consts.FeedwaterInflow-b.steamGeneration)*sec, 0, 100)

	// Energy balance: steam builds pressure, turbine extraction decays it.
	build := b.steamGeneration * b.consts.PressureBuildRate * sec
	loss := b.pressure * b.consts.PressureDecayRate * sec
	b.pressure = clamp(b.pressure+build-loss, 0, b.consts.MaxPressure)

	// Saturation-curve surrogate with a superheat spike when the drum runs dry.
	base := 540 + (b.pressure/b.consts.MaxPressure)*60
	if b.waterLevel < 30 {
		base += (30 - b.waterLevel) * 2
	}
	b.temperature = base

	b.status, b.alarms = Classify(b.consts, b.waterLevel, b.pressure)
	b.tick++

	snap := b.Snapshot()
	b.history.push(snap)
	return snap
}

// Reset overwrites the state unconditionally: fire intensity drops to zero,
// alarms and history clear. Recovery from a trip goes through here.
func (b *Boiler) Reset(waterLevel, pressure, temperature float64) {
	b.waterLevel = clamp(waterLevel, 0, 100)
	b.pressure = clamp(pressure, 0, b.consts.MaxPressure)
	b.temperature = temperature
	b.fireIntensity = 0
	b.steamGeneration = 0
	b.status = domain.StatusNormal
	b.alarms = nil
	b.tick = 0
	b.history.reset()
}

// Snapshot returns the current state without advancing the simulation.
func (b *Boiler) Snapshot() domain.Snapshot {
	alarms := make([]string, len(b.alarms))
	copy(alarms, b.alarms)
	return domain.Snapshot{
		WaterLevel:      b.waterLevel,
		Pressure:        b.pressure,
		Temperature:     b.temperature,
		FireIntensity:   b.fireIntensity,
		SteamGeneration: b.steamGeneration,
		Status:          b.status,
		Alarms:          alarms,
		Tick:            b.tick,
	}
}

// History returns the buffered snapshots, oldest first.
func (b *Boiler) History() []domain.Snapshot { return b.history.slice() }

// Classify maps (water level, pressure) to a status and alarm messages.
// The cascade is first-match: order is the contract, only one branch fires.
func Classify(c Constants, waterLevel, pressure float64) (domain.Status, []string) {
	switch {
	case pressure > c.CriticalPressure:
		return domain.StatusCriticalPressure,
			[]string{fmt.Sprintf("CRITICAL: pressure %.1f MPa exceeds safe limit", pressure)}
	case waterLevel < c.MinWaterLevel:
		return domain.StatusLowLevelTrip,
			[]string{fmt.Sprintf("TRIP: drum level %.1f%% - boiler shutdown", waterLevel)}
	case waterLevel > c.MaxWaterLevel:
		return domain.StatusHighLevelTrip,
			[]string{fmt.Sprintf("TRIP: drum level %.1f%% - carryover risk", waterLevel)}
	case waterLevel < c.WarnWaterLevel || pressure > c.WarnPressure:
		var alarms []string
		if waterLevel < c.WarnWaterLevel {
			alarms = append(alarms, fmt.Sprintf("WARNING: low drum level %.1f%%", waterLevel))
		}
		if pressure > c.WarnPressure {
			alarms = append(alarms, fmt.Sprintf("WARNING: high pressure %.1f MPa", pressure))
		}
		return domain.StatusWarning, alarms
	default:
		return domain.StatusNormal, nil
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
