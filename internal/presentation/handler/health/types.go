package health

// healthResponse represents the health status of the service
type healthResponse struct {
	Status    string `json:"status"`    // ok or degraded
	Broker    bool   `json:"broker"`    // broker connection state
	Timestamp string `json:"timestamp"` // current server timestamp in RFC3339 format
	Uptime    string `json:"uptime"`    // server uptime since start
}
