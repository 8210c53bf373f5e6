package server

import (
	"context"
	"encoding/json"
	"net/http"
	"sort"
	"time"
)

// HealthStatus represents the overall health of the system
type HealthStatus string

const (
	HealthStatusHealthy   HealthStatus = "healthy"
	HealthStatusDegraded  HealthStatus = "degraded"
	HealthStatusUnhealthy HealthStatus = "unhealthy"
)

// ComponentStatus represents the health of an individual component
type ComponentStatus string

const (
	ComponentStatusUp       ComponentStatus = "up"
	ComponentStatusDown     ComponentStatus = "down"
	ComponentStatusDegraded ComponentStatus = "degraded"
)

// Health is the /health response body.
type Health struct {
	Status     HealthStatus               `json:"status"`
	Timestamp  time.Time                  `json:"timestamp"`
	Components map[string]ComponentHealth `json:"components"`
}

type ComponentHealth struct {
	Status    ComponentStatus `json:"status"`
	Message   string          `json:"message,omitempty"`
	LatencyMs float64         `json:"latency_ms,omitempty"`
}

// Pinger is anything the health endpoints can probe.
type Pinger interface {
	Ping(ctx context.Context) error
}

// slowThreshold marks a reachable but sluggish component as degraded.
const slowThreshold = time.Second

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	health := s.checkHealth(r.Context())

	statusCode := http.StatusOK
	if health.Status == HealthStatusUnhealthy {
		statusCode = http.StatusServiceUnavailable
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(health)
}

// handleReady answers 200 only when every component answers a ping.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	for _, name := range s.componentNames() {
		if err := s.components[name].Ping(ctx); err != nil {
			s.log.Warn("readiness check failed", "component", name, "err", err)
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusServiceUnavailable)
			_ = json.NewEncoder(w).Encode(map[string]string{
				"status":  "not_ready",
				"message": name + " unavailable",
			})
			return
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"status":    "ok",
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

func (s *Server) componentNames() []string {
	names := make([]string, 0, len(s.components))
	for name := range s.components {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (s *Server) checkHealth(ctx context.Context) Health {
	health := Health{
		Timestamp:  time.Now(),
		Components: make(map[string]ComponentHealth, len(s.components)),
	}
	for _, name := range s.componentNames() {
		health.Components[name] = s.checkComponent(ctx, name, s.components[name])
	}
	health.Status = determineOverallHealth(health.Components)
	return health
}

// checkComponent pings p. The endpoint is public, so a failure is reported
// as "unavailable" and its cause only logged.
func (s *Server) checkComponent(ctx context.Context, name string, p Pinger) ComponentHealth {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	start := time.Now()
	if err := p.Ping(ctx); err != nil {
		s.log.Warn("health check failed", "component", name, "err", err)
		return ComponentHealth{Status: ComponentStatusDown, Message: "unavailable"}
	}
	latency := time.Since(start)

	ch := ComponentHealth{Status: ComponentStatusUp, LatencyMs: float64(latency.Microseconds()) / 1000}
	if latency > slowThreshold {
		ch.Status = ComponentStatusDegraded
		ch.Message = "latency high"
	}
	return ch
}

func determineOverallHealth(components map[string]ComponentHealth) HealthStatus {
	var downCount, degradedCount int
	for _, component := range components {
		switch component.Status {
		case ComponentStatusDown:
			downCount++
		case ComponentStatusDegraded:
			degradedCount++
		}
	}

	if downCount > 0 {
		return HealthStatusUnhealthy
	}
	if degradedCount > 0 {
		return HealthStatusDegraded
	}
	return HealthStatusHealthy
}
