// Package inspector exposes a read-only HTTP debug view over the simulated
// bus: current property states as JSON plus Prometheus metrics. It is a
// development aid, not a caller transport.
package inspector

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/timzifer/vehiclesim/hardware"
)

// Server serves the inspector endpoints until closed.
type Server struct {
	logger   zerolog.Logger
	hardware *hardware.FakeHardware
	server   *http.Server
	ln       net.Listener
}

type stateResponse struct {
	Properties []hardware.PropertyState `json:"properties"`
}

// New starts the inspector on the given listen address.
func New(listen string, hw *hardware.FakeHardware, logger zerolog.Logger) (*Server, error) {
	server := &Server{
		logger:   logger.With().Str("component", "inspector").Logger(),
		hardware: hw,
	}
	mux := http.NewServeMux()
	mux.HandleFunc("/state", server.handleState)
	mux.HandleFunc("/configs", server.handleConfigs)
	mux.HandleFunc("/healthz", server.handleHealth)
	mux.Handle("/metrics", promhttp.Handler())

	ln, err := net.Listen("tcp", listen)
	if err != nil {
		return nil, err
	}
	srv := &http.Server{Handler: mux}
	server.server = srv
	server.ln = ln

	go func() {
		if err := srv.Serve(ln); err != nil && err != http.ErrServerClosed {
			server.logger.Error().Err(err).Msg("inspector server stopped")
		}
	}()

	server.logger.Info().Str("listen", ln.Addr().String()).Msg("inspector started")
	return server, nil
}

// Addr returns the bound listen address.
func (s *Server) Addr() string {
	if s == nil || s.ln == nil {
		return ""
	}
	return s.ln.Addr().String()
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, stateResponse{Properties: s.hardware.PropertyStates()})
}

func (s *Server) handleConfigs(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, s.hardware.AllPropertyConfigs())
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func writeJSON(w http.ResponseWriter, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// Close shuts the server down, waiting briefly for in-flight requests.
func (s *Server) Close() {
	if s == nil || s.server == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := s.server.Shutdown(ctx); err != nil && err != context.Canceled {
		s.logger.Error().Err(err).Msg("inspector shutdown failed")
	}
}
