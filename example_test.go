package drumtwin_test

import (
	"context"
	"fmt"

	"github.com/drumtwinlabs/drumtwin"
)

func ExampleTwin_Step() {
	norm := &affineNorm{
		mean:  []float64{50, 10, 60, 550},
		scale: []float64{25, 5, 30, 40},
	}
	twin, err := drumtwin.New(norm, &stubPredictor{window: 5})
	if err != nil {
		fmt.Println(err)
		return
	}

	res, err := twin.Step(context.Background(), "demo", 30, true)
	if err != nil {
		fmt.Println(err)
		return
	}

	fmt.Println(res.Snapshot.Status)
	fmt.Println(res.Decision.Intervened)
	// Output:
	// NORMAL
	// false
}
