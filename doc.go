/*
Package drumtwin is a digital twin of an industrial drum boiler with a
supervisory override layer: a deterministic physics engine advances the
boiler state tick by tick, while a forecast engine projects steam
temperature over a fixed horizon and clamps dangerous operator inputs
before they reach the plant model.

# Concept

The twin separates three concerns. The physics core (pkg/physics) is a
pure state machine: same state, same input, same dt, same result. The
forecast engine (pkg/forecast) runs an autoregressive rollout of a
trained surrogate model over normalized feature windows. The supervisor
(pkg/supervisor) sits between them, deciding per step whether the
requested fire intensity is applied as-is or capped at the safe limit.
This hexagonal split lets the same core drive an HTTP API, an MCP
server, or an offline scenario run.

# Usage

Wire a Twin from a model artifact and step it:

	package main

	import (
		"context"
		"log"

		"github.com/drumtwinlabs/drumtwin"
		"github.com/drumtwinlabs/drumtwin/pkg/adapters/model"
	)

	func main() {
		artifact, err := model.Load("boiler_model.json")
		if err != nil {
			log.Fatal(err)
		}

		twin, err := drumtwin.New(artifact.Normalizer(), artifact.Predictor())
		if err != nil {
			log.Fatal(err)
		}

		ctx := context.Background()
		res, err := twin.Step(ctx, "session-123", 85.0, true)
		if err != nil {
			log.Fatal(err)
		}

		if res.Decision.Intervened {
			log.Println("override:", res.Decision.Reason)
		}
		log.Printf("level=%.1f%% pressure=%.1fMPa status=%s",
			res.Snapshot.WaterLevel, res.Snapshot.Pressure, res.Snapshot.Status)
	}
*/
package drumtwin
