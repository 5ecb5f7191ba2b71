package domain

// Forecast is an ordered series of denormalized predictions.
// Index 0 is one step ahead, index len-1 is the horizon endpoint.
// Immutable once produced.
type Forecast struct {
	Series []float64 `json:"series"`
	Final  float64   `json:"final"`
	Avg    float64   `json:"avg"`
	Peak   float64   `json:"peak"`
}

// NewForecast derives the summary fields from a non-empty series.
func NewForecast(series []float64) Forecast {
	f := Forecast{Series: series}
	if len(series) == 0 {
		return f
	}
	f.Final = series[len(series)-1]
	f.Peak = series[0]
	sum := 0.0
	for _, v := range series {
		sum += v
		if v > f.Peak {
			f.Peak = v
		}
	}
	f.Avg = sum / float64(len(series))
	return f
}
