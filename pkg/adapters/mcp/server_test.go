package mcp

import (
	"context"
	"fmt"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/drumtwinlabs/drumtwin"
)

type affineNorm struct {
	mean  []float64
	scale []float64
}

func (n *affineNorm) Features() int { return len(n.mean) }

func (n *affineNorm) Transform(rows [][]float64) ([][]float64, error) {
	out := make([][]float64, len(rows))
	for i, row := range rows {
		if len(row) != len(n.mean) {
			return nil, fmt.Errorf("row width %d", len(row))
		}
		r := make([]float64, len(row))
		for j, v := range row {
			r[j] = (v - n.mean[j]) / n.scale[j]
		}
		out[i] = r
	}
	return out, nil
}

func (n *affineNorm) Inverse(rows [][]float64) ([][]float64, error) {
	out := make([][]float64, len(rows))
	for i, row := range rows {
		r := make([]float64, len(row))
		for j, v := range row {
			r[j] = v*n.scale[j] + n.mean[j]
		}
		out[i] = r
	}
	return out, nil
}

type stubPredictor struct{ drift float64 }

func (p *stubPredictor) Window() int   { return 5 }
func (p *stubPredictor) Features() int { return 4 }

func (p *stubPredictor) Predict(_ context.Context, window [][]float64) (float64, error) {
	return window[len(window)-1][3] + p.drift, nil
}

func newMCPServer(t *testing.T, drift float64) *Server {
	t.Helper()
	norm := &affineNorm{
		mean:  []float64{50, 10, 60, 550},
		scale: []float64{25, 5, 30, 40},
	}
	twin, err := drumtwin.New(norm, &stubPredictor{drift: drift})
	require.NoError(t, err)
	return NewServer(twin)
}

func TestHandleStep(t *testing.T) {
	s := newMCPServer(t, 0)
	ctx := context.Background()

	res, err := s.handleStep(ctx, mcp.CallToolRequest{}, map[string]any{
		"fire_intensity": 30.0,
		"ai_mode":        true,
	})
	require.NoError(t, err)

	assert.Equal(t, "default", res.SessionID)
	assert.Equal(t, uint64(1), res.Snapshot.Tick)
	assert.False(t, res.Decision.Intervened)
	assert.Len(t, res.Forecast.Series, 30)
}

func TestHandleStep_Override(t *testing.T) {
	s := newMCPServer(t, 0.1)
	ctx := context.Background()

	res, err := s.handleStep(ctx, mcp.CallToolRequest{}, map[string]any{
		"fire_intensity": 90.0,
		"ai_mode":        true,
		"session_id":     "agent-1",
	})
	require.NoError(t, err)

	assert.Equal(t, "agent-1", res.SessionID)
	assert.True(t, res.Decision.Intervened)
	assert.Equal(t, 60.0, res.Decision.EffectiveInput)
}

func TestHandleStep_InvalidArgs(t *testing.T) {
	s := newMCPServer(t, 0)

	_, err := s.handleStep(context.Background(), mcp.CallToolRequest{}, map[string]any{
		"fire_intensity": "not a number",
	})
	assert.Error(t, err)
}

func TestHandleResetAndState(t *testing.T) {
	s := newMCPServer(t, 0)
	ctx := context.Background()

	_, err := s.handleStep(ctx, mcp.CallToolRequest{}, map[string]any{"fire_intensity": 100.0})
	require.NoError(t, err)

	reset, err := s.handleReset(ctx, mcp.CallToolRequest{}, map[string]any{})
	require.NoError(t, err)
	assert.Equal(t, uint64(0), reset.Snapshot.Tick)

	state, err := s.handleState(ctx, mcp.CallToolRequest{}, map[string]any{})
	require.NoError(t, err)
	assert.Equal(t, reset.Snapshot, state.Snapshot)
}

func TestHandleState_UnknownSession(t *testing.T) {
	s := newMCPServer(t, 0)

	_, err := s.handleState(context.Background(), mcp.CallToolRequest{}, map[string]any{
		"session_id": "ghost",
	})
	assert.Error(t, err)
}

func TestHandleForecast(t *testing.T) {
	s := newMCPServer(t, 0)
	ctx := context.Background()

	_, err := s.handleStep(ctx, mcp.CallToolRequest{}, map[string]any{"fire_intensity": 30.0})
	require.NoError(t, err)

	res, err := s.handleForecast(ctx, mcp.CallToolRequest{}, map[string]any{
		"fire_intensity": 80.0,
	})
	require.NoError(t, err)
	assert.Len(t, res.Forecast.Series, 30)

	// Forecast must not advance the simulation.
	state, err := s.handleState(ctx, mcp.CallToolRequest{}, map[string]any{})
	require.NoError(t, err)
	assert.Equal(t, uint64(1), state.Snapshot.Tick)
}
