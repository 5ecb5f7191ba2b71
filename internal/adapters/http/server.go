// Package http exposes the twin over a JSON REST surface.
package http

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/drumtwinlabs/drumtwin"
	"github.com/drumtwinlabs/drumtwin/internal/logging"
	"github.com/drumtwinlabs/drumtwin/pkg/domain"
	"github.com/drumtwinlabs/drumtwin/pkg/forecast"
	"github.com/drumtwinlabs/drumtwin/pkg/session"
)

// Server routes REST calls into the twin facade.
type Server struct {
	twin      *drumtwin.Twin
	logger    *slog.Logger
	gatherer  prometheus.Gatherer
	modelInfo map[string]any
}

// Option configures the Server.
type Option func(*Server)

// WithLogger sets the request logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) { s.logger = logger }
}

// WithMetrics mounts /metrics for the given gatherer.
func WithMetrics(g prometheus.Gatherer) Option {
	return func(s *Server) { s.gatherer = g }
}

// WithModelInfo attaches model artifact details to the health response.
func WithModelInfo(info map[string]any) Option {
	return func(s *Server) { s.modelInfo = info }
}

// NewHandler builds the HTTP handler for the twin.
func NewHandler(twin *drumtwin.Twin, opts ...Option) http.Handler {
	s := &Server{twin: twin, logger: logging.NewNop()}
	for _, opt := range opts {
		opt(s)
	}

	r := chi.NewRouter()
	r.Post("/simulate", s.simulate)
	r.Post("/predict", s.predict)
	r.Post("/reset", s.reset)
	r.Get("/state", s.state)
	r.Get("/history", s.history)
	r.Get("/sessions", s.listSessions)
	r.Post("/sessions", s.createSession)
	r.Delete("/sessions/{id}", s.deleteSession)
	r.Get("/healthz", s.healthz)
	if s.gatherer != nil {
		r.Get("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}).ServeHTTP)
	}

	return enableCORS(r)
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

type simulateRequest struct {
	FireIntensity float64  `json:"fire_intensity"`
	AIMode        bool     `json:"ai_mode"`
	SessionID     string   `json:"session_id"`
	DtSeconds     *float64 `json:"dt_seconds"`
}

type visualState struct {
	WaterLevel      float64 `json:"water_level"`
	Pressure        float64 `json:"pressure"`
	Temperature     float64 `json:"temperature"`
	FireIntensity   float64 `json:"fire_intensity"`
	SteamGeneration float64 `json:"steam_generation"`
}

type aiData struct {
	PredictedTempAvg    float64   `json:"predicted_temp_avg"`
	PredictedTempFinal  float64   `json:"predicted_temp_final"`
	PredictedTempPeak   float64   `json:"predicted_temp_peak"`
	PredictedTempSeries []float64 `json:"predicted_temps_series"`
	OriginalUserInput   float64   `json:"original_user_input"`
	ActualSystemInput   float64   `json:"actual_system_input"`
	InterventionActive  bool      `json:"intervention_active"`
	InterventionReason  string    `json:"intervention_reason"`
	AIModeEnabled       bool      `json:"ai_mode_enabled"`
}

type simulateResponse struct {
	SessionID   string      `json:"session_id"`
	Tick        uint64      `json:"tick"`
	VisualState visualState `json:"visual_state"`
	AIData      aiData      `json:"ai_data"`
	Status      string      `json:"status"`
	Alarms      []string    `json:"alarms"`
}

func (s *Server) simulate(w http.ResponseWriter, r *http.Request) {
	var body simulateRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		s.logger.Warn("simulate: invalid request body", "err", err)
		return
	}
	sessionID := orDefault(body.SessionID)

	var res drumtwin.StepResult
	var err error
	if body.DtSeconds != nil {
		if *body.DtSeconds <= 0 {
			http.Error(w, "dt_seconds must be positive", http.StatusBadRequest)
			return
		}
		dt := time.Duration(*body.DtSeconds * float64(time.Second))
		res, err = s.twin.StepDt(r.Context(), sessionID, body.FireIntensity, body.AIMode, dt)
	} else {
		res, err = s.twin.Step(r.Context(), sessionID, body.FireIntensity, body.AIMode)
	}
	if err != nil {
		s.writeError(w, "simulate", err)
		return
	}

	s.writeJSON(w, simulateResponse{
		SessionID: sessionID,
		Tick:      res.Snapshot.Tick,
		VisualState: visualState{
			WaterLevel:      res.Snapshot.WaterLevel,
			Pressure:        res.Snapshot.Pressure,
			Temperature:     res.Snapshot.Temperature,
			FireIntensity:   res.Snapshot.FireIntensity,
			SteamGeneration: res.Snapshot.SteamGeneration,
		},
		AIData: aiData{
			PredictedTempAvg:    res.Forecast.Avg,
			PredictedTempFinal:  res.Forecast.Final,
			PredictedTempPeak:   res.Forecast.Peak,
			PredictedTempSeries: res.Forecast.Series,
			OriginalUserInput:   res.Decision.RequestedInput,
			ActualSystemInput:   res.Decision.EffectiveInput,
			InterventionActive:  res.Decision.Intervened,
			InterventionReason:  res.Decision.Reason,
			AIModeEnabled:       body.AIMode,
		},
		Status: string(res.Snapshot.Status),
		Alarms: res.Snapshot.Alarms,
	})
}

type predictRequest struct {
	ValveOpen float64 `json:"valve_open"`
	Pressure  float64 `json:"pressure"`
	Flow      float64 `json:"flow"`
}

type predictResponse struct {
	Time        []int     `json:"time"`
	Temperature []float64 `json:"temperature"`
}

// predict is the stateless what-if query: explicit control values, seeded
// from the cold-start temperature, no session touched.
func (s *Server) predict(w http.ResponseWriter, r *http.Request) {
	var body predictRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		s.logger.Warn("predict: invalid request body", "err", err)
		return
	}

	fc, err := s.twin.Forecast(r.Context(), forecast.Seed{
		Controls: [3]float64{body.ValveOpen, body.Pressure, body.Flow},
		Target:   s.twin.Initial().Temperature,
	})
	if err != nil {
		s.writeError(w, "predict", err)
		return
	}

	steps := make([]int, len(fc.Series))
	for i := range steps {
		steps[i] = i + 1
	}
	s.writeJSON(w, predictResponse{Time: steps, Temperature: fc.Series})
}

type resetRequest struct {
	SessionID   string   `json:"session_id"`
	WaterLevel  *float64 `json:"water_level"`
	Pressure    *float64 `json:"pressure"`
	Temperature *float64 `json:"temperature"`
}

func (s *Server) reset(w http.ResponseWriter, r *http.Request) {
	var body resetRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil && !errors.Is(err, io.EOF) {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		s.logger.Warn("reset: invalid request body", "err", err)
		return
	}
	sessionID := orDefault(body.SessionID)

	init := s.twin.Initial()
	if body.WaterLevel != nil {
		init.WaterLevel = *body.WaterLevel
	}
	if body.Pressure != nil {
		init.Pressure = *body.Pressure
	}
	if body.Temperature != nil {
		init.Temperature = *body.Temperature
	}

	snap, err := s.twin.ResetTo(r.Context(), sessionID, init)
	if err != nil {
		s.writeError(w, "reset", err)
		return
	}
	s.writeJSON(w, map[string]any{
		"message":    "Simulation reset",
		"session_id": sessionID,
		"state":      snap,
	})
}

func (s *Server) state(w http.ResponseWriter, r *http.Request) {
	snap, err := s.twin.State(r.Context(), sessionParam(r))
	if err != nil {
		s.writeError(w, "state", err)
		return
	}
	s.writeJSON(w, snap)
}

func (s *Server) history(w http.ResponseWriter, r *http.Request) {
	hist, err := s.twin.History(r.Context(), sessionParam(r))
	if err != nil {
		s.writeError(w, "history", err)
		return
	}
	s.writeJSON(w, map[string]any{"history": hist, "count": len(hist)})
}

func (s *Server) listSessions(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, map[string]any{"sessions": s.twin.Sessions(r.Context())})
}

func (s *Server) createSession(w http.ResponseWriter, r *http.Request) {
	var body struct {
		SessionID string `json:"session_id"`
	}
	// An empty body is fine; the twin generates an ID.
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil && !errors.Is(err, io.EOF) {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	id, err := s.twin.CreateSession(r.Context(), body.SessionID)
	if err != nil {
		s.writeError(w, "create session", err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(map[string]string{"session_id": id}); err != nil {
		s.logger.Error("response encode failed", "err", err)
	}
}

func (s *Server) deleteSession(w http.ResponseWriter, r *http.Request) {
	if err := s.twin.DeleteSession(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.writeError(w, "delete session", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) healthz(w http.ResponseWriter, r *http.Request) {
	resp := map[string]any{
		"status":  "healthy",
		"version": drumtwin.Version,
		"config": map[string]any{
			"forecast_steps": s.twin.Horizon(),
		},
	}
	if s.modelInfo != nil {
		resp["model"] = s.modelInfo
	}
	s.writeJSON(w, resp)
}

func (s *Server) writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("response encode failed", "err", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, domain.ErrSessionNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, domain.ErrDependencyUnavailable), errors.Is(err, domain.ErrArtifactSchema):
		http.Error(w, err.Error(), http.StatusServiceUnavailable)
		s.logger.Error(op+" failed", "err", err)
	default:
		http.Error(w, err.Error(), http.StatusInternalServerError)
		s.logger.Error(op+" failed", "err", err)
	}
}

func sessionParam(r *http.Request) string {
	return orDefault(r.URL.Query().Get("session_id"))
}

func orDefault(id string) string {
	if id == "" {
		return session.DefaultSessionID
	}
	return id
}
