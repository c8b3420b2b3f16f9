// Package api serves read-only snapshots of the simulation core over HTTP
// and a WebSocket stream. It is the in-repo stand-in for the external
// rendering/telemetry layers: every payload is copied out of the core, and
// no endpoint mutates simulation state.
package api

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/talgya/gridcity/internal/commute"
	"github.com/talgya/gridcity/internal/demand"
	"github.com/talgya/gridcity/internal/engine"
	"github.com/talgya/gridcity/internal/grid"
	"github.com/talgya/gridcity/internal/utilities"
	"github.com/talgya/gridcity/internal/zoning"
)

// Snapshot is one published frame of city state. All slices are copies;
// consumers may hold them indefinitely.
type Snapshot struct {
	Tick         uint64           `json:"tick"`
	Date         string           `json:"date"`
	Size         grid.Size        `json:"size"`
	Stats        engine.SimStats  `json:"stats"`
	Demand       demand.Snapshot  `json:"demand"`
	UtilityStats utilities.Stats  `json:"utility_stats"`
	CommuteStats commute.Stats    `json:"commute_stats"`
	Zones        []zoning.Tile    `json:"zones,omitempty"`
	UtilityGrid  []utilities.Cell `json:"utility_grid,omitempty"`
	Traffic      []float64        `json:"traffic,omitempty"`
}

// Capture builds a snapshot from the simulation. Must run on the
// simulation goroutine (typically inside the loop's OnDay callback).
func Capture(sim *engine.Simulation, tick uint64) Snapshot {
	return Snapshot{
		Tick:         tick,
		Date:         engine.SimDate(tick),
		Size:         sim.Zones.Size(),
		Stats:        sim.Stats,
		Demand:       sim.Demand.Demand(),
		UtilityStats: sim.Utilities.Stats(),
		CommuteStats: sim.Commute.Stats(),
		Zones:        sim.Zones.Snapshot(),
		UtilityGrid:  sim.Utilities.Grid(),
		Traffic:      sim.Commute.TrafficFlow(),
	}
}

// Server publishes snapshots to HTTP and WebSocket consumers.
type Server struct {
	Port int

	mu     sync.RWMutex
	latest Snapshot
	ready  bool

	hub *hub
}

// NewServer creates a server listening on the given port once started.
func NewServer(port int) *Server {
	return &Server{
		Port: port,
		hub:  newHub(),
	}
}

// Publish stores the latest snapshot and pushes it to stream clients.
// Safe to call from the simulation goroutine.
func (s *Server) Publish(snap Snapshot) {
	s.mu.Lock()
	s.latest = snap
	s.ready = true
	s.mu.Unlock()

	s.hub.broadcast(snap)
}

// snapshot returns the latest published frame, if any.
func (s *Server) snapshot() (Snapshot, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.latest, s.ready
}

// Start begins serving in a goroutine.
func (s *Server) Start() {
	mux := http.NewServeMux()

	mux.HandleFunc("/api/v1/status", s.handleStatus)
	mux.HandleFunc("/api/v1/stats", s.handleStats)
	mux.HandleFunc("/api/v1/demand", s.handleDemand)
	mux.HandleFunc("/api/v1/zones", s.handleZones)
	mux.HandleFunc("/api/v1/utilities", s.handleUtilities)
	mux.HandleFunc("/api/v1/traffic", s.handleTraffic)
	mux.HandleFunc("/ws", s.hub.handleWS)

	addr := fmt.Sprintf(":%d", s.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      mux,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	go func() {
		slog.Info("api server listening", "addr", addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("api server failed", "error", err)
		}
	}()
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Debug("write response failed", "error", err)
	}
}

// requireSnapshot fetches the latest frame or writes 503 when the
// simulation has not published yet.
func (s *Server) requireSnapshot(w http.ResponseWriter, r *http.Request) (Snapshot, bool) {
	if r.Method != http.MethodGet {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "GET only"})
		return Snapshot{}, false
	}
	snap, ok := s.snapshot()
	if !ok {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "no snapshot published yet"})
		return Snapshot{}, false
	}
	return snap, true
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	snap, ok := s.requireSnapshot(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"tick": snap.Tick,
		"date": snap.Date,
		"size": snap.Size,
	})
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	snap, ok := s.requireSnapshot(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"tick":     snap.Tick,
		"stats":    snap.Stats,
		"commute":  snap.CommuteStats,
		"utility":  snap.UtilityStats,
	})
}

func (s *Server) handleDemand(w http.ResponseWriter, r *http.Request) {
	snap, ok := s.requireSnapshot(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, snap.Demand)
}

func (s *Server) handleZones(w http.ResponseWriter, r *http.Request) {
	snap, ok := s.requireSnapshot(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"size":  snap.Size,
		"tiles": snap.Zones,
	})
}

func (s *Server) handleUtilities(w http.ResponseWriter, r *http.Request) {
	snap, ok := s.requireSnapshot(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"size":  snap.Size,
		"stats": snap.UtilityStats,
		"cells": snap.UtilityGrid,
	})
}

func (s *Server) handleTraffic(w http.ResponseWriter, r *http.Request) {
	snap, ok := s.requireSnapshot(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"size":       snap.Size,
		"flow":       snap.Traffic,
		"congestion": snap.CommuteStats.CongestionLevel,
	})
}
