package model_test

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/drumtwinlabs/drumtwin/pkg/adapters/model"
	"github.com/drumtwinlabs/drumtwin/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validArtifact() map[string]any {
	return map[string]any{
		"schema_version": 1,
		"features":       []string{"valve_open", "furnace_pressure", "fan_flow", "steam_temp"},
		"window":         60,
		"horizon":        30,
		"scaler": map[string]any{
			"mean":  []float64{50, 10, 60, 550},
			"scale": []float64{25, 5, 30, 40},
		},
		"surrogate": map[string]any{
			"lags":    1,
			"weights": []float64{0, 0, 0, 1},
			"bias":    0,
		},
		"metadata": map[string]any{
			"trained_at":   "2024-11-02T10:00:00Z",
			"source_model": "boiler_model.keras",
		},
	}
}

func encode(t *testing.T, doc map[string]any) []byte {
	t.Helper()
	data, err := json.Marshal(doc)
	require.NoError(t, err)
	return data
}

func TestLoad_FromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "artifact.json")
	require.NoError(t, os.WriteFile(path, encode(t, validArtifact()), 0o644))

	a, err := model.Load(path)
	require.NoError(t, err)

	assert.Equal(t, 60, a.Predictor().Window())
	assert.Equal(t, 4, a.Normalizer().Features())
	assert.Equal(t, "boiler_model.keras", a.Meta().SourceModel)
	assert.Equal(t, "2024-11-02T10:00:00Z", a.Meta().TrainedAt)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := model.Load(filepath.Join(t.TempDir(), "nope.json"))
	assert.Error(t, err)
}

func TestDecode_SchemaErrors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(doc map[string]any)
	}{
		{"unsupported schema version", func(doc map[string]any) {
			doc["schema_version"] = 2
		}},
		{"scaler width mismatch", func(doc map[string]any) {
			doc["scaler"] = map[string]any{
				"mean":  []float64{50, 10, 60},
				"scale": []float64{25, 5, 30},
			}
		}},
		{"zero scale column", func(doc map[string]any) {
			doc["scaler"] = map[string]any{
				"mean":  []float64{50, 10, 60, 550},
				"scale": []float64{25, 0, 30, 40},
			}
		}},
		{"weights length mismatch", func(doc map[string]any) {
			doc["surrogate"] = map[string]any{
				"lags":    2,
				"weights": []float64{0, 0, 0, 1},
				"bias":    0,
			}
		}},
		{"window shorter than lags", func(doc map[string]any) {
			doc["window"] = 1
			doc["surrogate"] = map[string]any{
				"lags":    2,
				"weights": []float64{0, 0, 0, 0, 0, 0, 0, 1},
				"bias":    0,
			}
		}},
		{"no features", func(doc map[string]any) {
			doc["features"] = []string{}
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := validArtifact()
			tt.mutate(doc)
			_, err := model.Decode(encode(t, doc))
			assert.ErrorIs(t, err, domain.ErrArtifactSchema)
		})
	}
}

func TestNormalizer_Roundtrip(t *testing.T) {
	a, err := model.Decode(encode(t, validArtifact()))
	require.NoError(t, err)
	norm := a.Normalizer()

	raw := [][]float64{
		{50, 10, 60, 550},
		{75, 15, 90, 590},
		{25, 5, 30, 510},
	}
	scaled, err := norm.Transform(raw)
	require.NoError(t, err)

	// Row at the fitted mean normalizes to zero.
	for j := range scaled[0] {
		assert.InDelta(t, 0, scaled[0][j], 1e-12)
	}

	back, err := norm.Inverse(scaled)
	require.NoError(t, err)
	for i := range raw {
		for j := range raw[i] {
			assert.InDelta(t, raw[i][j], back[i][j], 1e-9)
		}
	}
}

func TestNormalizer_RejectsWrongWidth(t *testing.T) {
	a, err := model.Decode(encode(t, validArtifact()))
	require.NoError(t, err)

	_, err = a.Normalizer().Transform([][]float64{{1, 2, 3}})
	assert.Error(t, err)
	_, err = a.Normalizer().Inverse([][]float64{{1, 2, 3}})
	assert.Error(t, err)
}

func TestPredictor_LinearReadout(t *testing.T) {
	doc := validArtifact()
	doc["surrogate"] = map[string]any{
		"lags":    2,
		"weights": []float64{0, 0, 0, 0.25, 0, 0, 0, 0.75},
		"bias":    0.1,
	}
	a, err := model.Decode(encode(t, doc))
	require.NoError(t, err)
	pred := a.Predictor()

	window := [][]float64{
		{9, 9, 9, 9}, // outside the lag tail, must be ignored
		{0, 0, 0, 0.4},
		{0, 0, 0, 0.8},
	}
	got, err := pred.Predict(context.Background(), window)
	require.NoError(t, err)
	assert.InDelta(t, 0.1+0.25*0.4+0.75*0.8, got, 1e-12)
}

func TestPredictor_ShortWindow(t *testing.T) {
	doc := validArtifact()
	doc["surrogate"] = map[string]any{
		"lags":    3,
		"weights": make([]float64, 12),
		"bias":    0,
	}
	a, err := model.Decode(encode(t, doc))
	require.NoError(t, err)

	_, err = a.Predictor().Predict(context.Background(), [][]float64{{0, 0, 0, 0}})
	assert.Error(t, err)
}
