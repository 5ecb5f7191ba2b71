// Package mcp exposes the twin as an MCP server, so agent hosts can step
// the simulation and query forecasts as tools.
package mcp

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/mitchellh/mapstructure"

	"github.com/drumtwinlabs/drumtwin"
	"github.com/drumtwinlabs/drumtwin/pkg/domain"
	"github.com/drumtwinlabs/drumtwin/pkg/session"
)

// StepResponse is the structured result of the simulate_step tool.
type StepResponse struct {
	SessionID string          `json:"session_id"`
	Snapshot  domain.Snapshot `json:"snapshot" jsonschema_description:"Boiler state after the step"`
	Decision  domain.Decision `json:"decision" jsonschema_description:"Supervisor decision for this step"`
	Forecast  domain.Forecast `json:"forecast" jsonschema_description:"Temperature forecast over the horizon"`
}

// StateResponse is the structured result of get_state and reset_simulation.
type StateResponse struct {
	SessionID string          `json:"session_id"`
	Snapshot  domain.Snapshot `json:"snapshot"`
}

// ForecastResponse is the structured result of the forecast tool.
type ForecastResponse struct {
	SessionID string          `json:"session_id"`
	Forecast  domain.Forecast `json:"forecast"`
}

// Server wraps the twin and exposes it as an MCP server.
type Server struct {
	twin      *drumtwin.Twin
	mcpServer *server.MCPServer
}

// NewServer creates the MCP server and registers the twin's tools.
func NewServer(twin *drumtwin.Twin) *Server {
	s := &Server{
		twin:      twin,
		mcpServer: server.NewMCPServer("drumtwin-mcp", strings.TrimSpace(drumtwin.Version)),
	}
	s.registerTools()
	return s
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE starts the server on the given port using SSE.
func (s *Server) ServeSSE(ctx context.Context, port int) error {
	addr := fmt.Sprintf(":%d", port)
	baseURL := fmt.Sprintf("http://localhost:%d", port)

	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", corsMiddleware(sseServer.SSEHandler()))
	mux.Handle("/message", corsMiddleware(sseServer.MessageHandler()))

	httpServer := &http.Server{
		Addr:    addr,
		Handler: mux,
	}

	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Requested-With")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

type stepArgs struct {
	SessionID     string  `mapstructure:"session_id"`
	FireIntensity float64 `mapstructure:"fire_intensity"`
	AIMode        bool    `mapstructure:"ai_mode"`
}

type sessionArgs struct {
	SessionID string `mapstructure:"session_id"`
}

type forecastArgs struct {
	SessionID     string  `mapstructure:"session_id"`
	FireIntensity float64 `mapstructure:"fire_intensity"`
}

func (s *Server) registerTools() {
	stepTool := mcp.NewTool("simulate_step",
		mcp.WithDescription("Advance the boiler simulation one tick with the given fire intensity. With ai_mode the supervisor may clamp the input."),
		mcp.WithNumber("fire_intensity", mcp.Required(), mcp.Description("Requested fire intensity 0-100%")),
		mcp.WithBoolean("ai_mode", mcp.Description("Enable the supervisory override (default false)")),
		mcp.WithString("session_id", mcp.Description("Session to step (default shared session)")),
		mcp.WithOutputSchema[StepResponse](),
	)
	s.mcpServer.AddTool(stepTool, mcp.NewStructuredToolHandler(s.handleStep))

	resetTool := mcp.NewTool("reset_simulation",
		mcp.WithDescription("Reset a simulation session to its initial conditions."),
		mcp.WithString("session_id", mcp.Description("Session to reset (default shared session)")),
		mcp.WithOutputSchema[StateResponse](),
	)
	s.mcpServer.AddTool(resetTool, mcp.NewStructuredToolHandler(s.handleReset))

	stateTool := mcp.NewTool("get_state",
		mcp.WithDescription("Read the current boiler state without advancing the simulation."),
		mcp.WithString("session_id", mcp.Description("Session to read (default shared session)")),
		mcp.WithOutputSchema[StateResponse](),
	)
	s.mcpServer.AddTool(stateTool, mcp.NewStructuredToolHandler(s.handleState))

	forecastTool := mcp.NewTool("forecast",
		mcp.WithDescription("Forecast steam temperature over the horizon for a hypothetical fire intensity, without advancing the simulation."),
		mcp.WithNumber("fire_intensity", mcp.Required(), mcp.Description("Hypothetical fire intensity 0-100%")),
		mcp.WithString("session_id", mcp.Description("Session whose state seeds the forecast (default shared session)")),
		mcp.WithOutputSchema[ForecastResponse](),
	)
	s.mcpServer.AddTool(forecastTool, mcp.NewStructuredToolHandler(s.handleForecast))
}

func (s *Server) handleStep(ctx context.Context, request mcp.CallToolRequest, args map[string]any) (StepResponse, error) {
	var in stepArgs
	if err := mapstructure.Decode(args, &in); err != nil {
		return StepResponse{}, fmt.Errorf("invalid arguments: %w", err)
	}
	sessionID := orDefault(in.SessionID)

	res, err := s.twin.Step(ctx, sessionID, in.FireIntensity, in.AIMode)
	if err != nil {
		return StepResponse{}, fmt.Errorf("step failed: %w", err)
	}
	return StepResponse{
		SessionID: sessionID,
		Snapshot:  res.Snapshot,
		Decision:  res.Decision,
		Forecast:  res.Forecast,
	}, nil
}

func (s *Server) handleReset(ctx context.Context, request mcp.CallToolRequest, args map[string]any) (StateResponse, error) {
	var in sessionArgs
	if err := mapstructure.Decode(args, &in); err != nil {
		return StateResponse{}, fmt.Errorf("invalid arguments: %w", err)
	}
	sessionID := orDefault(in.SessionID)

	snap, err := s.twin.Reset(ctx, sessionID)
	if err != nil {
		return StateResponse{}, fmt.Errorf("reset failed: %w", err)
	}
	return StateResponse{SessionID: sessionID, Snapshot: snap}, nil
}

func (s *Server) handleState(ctx context.Context, request mcp.CallToolRequest, args map[string]any) (StateResponse, error) {
	var in sessionArgs
	if err := mapstructure.Decode(args, &in); err != nil {
		return StateResponse{}, fmt.Errorf("invalid arguments: %w", err)
	}
	sessionID := orDefault(in.SessionID)

	snap, err := s.twin.State(ctx, sessionID)
	if err != nil {
		return StateResponse{}, fmt.Errorf("get state failed: %w", err)
	}
	return StateResponse{SessionID: sessionID, Snapshot: snap}, nil
}

func (s *Server) handleForecast(ctx context.Context, request mcp.CallToolRequest, args map[string]any) (ForecastResponse, error) {
	var in forecastArgs
	if err := mapstructure.Decode(args, &in); err != nil {
		return ForecastResponse{}, fmt.Errorf("invalid arguments: %w", err)
	}
	sessionID := orDefault(in.SessionID)

	fc, err := s.twin.Predict(ctx, sessionID, in.FireIntensity)
	if err != nil {
		return ForecastResponse{}, fmt.Errorf("forecast failed: %w", err)
	}
	return ForecastResponse{SessionID: sessionID, Forecast: fc}, nil
}

func orDefault(id string) string {
	if id == "" {
		return session.DefaultSessionID
	}
	return id
}
