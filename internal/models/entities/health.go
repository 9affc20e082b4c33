package entities

import "time"

type ServiceStatus struct {
	Status    string `json:"status"`
	Details   string `json:"details"`
	LatencyMs int64  `json:"latency_ms"`
}

type HealthCheckResponse struct {
	Status    string                   `json:"status"`
	Services  map[string]ServiceStatus `json:"services"`
	UpSince   time.Time                `json:"up_since"`
	Uptime    string                   `json:"uptime"`
	CheckedAt time.Time                `json:"checked_at"`
}
