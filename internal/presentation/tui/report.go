package tui

import (
	"fmt"
	"strings"

	"github.com/muesli/termenv"

	"github.com/drumtwinlabs/drumtwin"
	"github.com/drumtwinlabs/drumtwin/pkg/domain"
)

// StatusLine formats one step for live terminal output, colored by status.
func StatusLine(res drumtwin.StepResult) string {
	p := termenv.ColorProfile()

	status := termenv.String(string(res.Snapshot.Status))
	switch res.Snapshot.Status {
	case domain.StatusNormal:
		status = status.Foreground(p.Color("#4ade80"))
	case domain.StatusWarning:
		status = status.Foreground(p.Color("#facc15"))
	default:
		status = status.Foreground(p.Color("#f87171")).Bold()
	}

	line := fmt.Sprintf("tick %4d  fire %5.1f%%  level %5.1f%%  pressure %5.2f MPa  temp %6.1f C  %s",
		res.Snapshot.Tick,
		res.Snapshot.FireIntensity,
		res.Snapshot.WaterLevel,
		res.Snapshot.Pressure,
		res.Snapshot.Temperature,
		status.String(),
	)
	if res.Decision.Intervened {
		line += "  " + termenv.String("[override]").Foreground(p.Color("#38bdf8")).String()
	}
	return line
}

// RunReport builds a markdown summary of an offline run. Render it with
// NewRenderer for terminal output.
func RunReport(scenario string, steps []drumtwin.StepResult) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Run Report: %s\n\n", scenario)
	if len(steps) == 0 {
		b.WriteString("No steps executed.\n")
		return b.String()
	}

	last := steps[len(steps)-1]
	interventions := 0
	worst := domain.StatusNormal
	for _, s := range steps {
		if s.Decision.Intervened {
			interventions++
		}
		if severity(s.Snapshot.Status) > severity(worst) {
			worst = s.Snapshot.Status
		}
	}

	fmt.Fprintf(&b, "- **Steps**: %d\n", len(steps))
	fmt.Fprintf(&b, "- **Interventions**: %d\n", interventions)
	fmt.Fprintf(&b, "- **Worst status**: %s\n", worst)
	fmt.Fprintf(&b, "- **Final state**: level %.1f%%, pressure %.2f MPa, temperature %.1f C\n\n",
		last.Snapshot.WaterLevel, last.Snapshot.Pressure, last.Snapshot.Temperature)

	if len(last.Snapshot.Alarms) > 0 {
		b.WriteString("## Active alarms\n\n")
		for _, a := range last.Snapshot.Alarms {
			fmt.Fprintf(&b, "- %s\n", a)
		}
		b.WriteString("\n")
	}

	b.WriteString("## Override events\n\n")
	if interventions == 0 {
		b.WriteString("None.\n")
		return b.String()
	}
	b.WriteString("| Tick | Requested | Applied | Reason |\n")
	b.WriteString("|------|-----------|---------|--------|\n")
	for _, s := range steps {
		if s.Decision.Intervened {
			fmt.Fprintf(&b, "| %d | %.1f%% | %.1f%% | %s |\n",
				s.Snapshot.Tick, s.Decision.RequestedInput, s.Decision.EffectiveInput, s.Decision.Reason)
		}
	}
	return b.String()
}

func severity(s domain.Status) int {
	switch s {
	case domain.StatusNormal:
		return 0
	case domain.StatusWarning:
		return 1
	case domain.StatusLowLevelTrip, domain.StatusHighLevelTrip:
		return 2
	case domain.StatusCriticalPressure:
		return 3
	default:
		return 0
	}
}
