package adminapi

// HealthResponse is the body of GET /healthz.
type HealthResponse struct {
	Status string `json:"status"`
}

// ForwardingStatsResponse mirrors forwarder.StatsSnapshot for the wire.
type ForwardingStatsResponse struct {
	Forwarded    uint64 `json:"forwarded"`
	Refused      uint64 `json:"refused"`
	Dropped      uint64 `json:"dropped"`
	Unauthorized uint64 `json:"unauthorized"`
	PendingCount int    `json:"pending_count"`
}

// FilteringStatsResponse mirrors filter.Stats for the wire.
type FilteringStatsResponse struct {
	Allowed uint64 `json:"allowed"`
	Denied  uint64 `json:"denied"`
	ListLen int    `json:"list_len"`
}

// CPUStats reports host CPU usage as sampled by gopsutil.
type CPUStats struct {
	NumCPU      int     `json:"num_cpu"`
	UsedPercent float64 `json:"used_percent"`
}

// MemoryStats reports host memory usage as sampled by gopsutil.
type MemoryStats struct {
	TotalMB     float64 `json:"total_mb"`
	UsedMB      float64 `json:"used_mb"`
	UsedPercent float64 `json:"used_percent"`
}

// StatsResponse is the body of GET /stats.
type StatsResponse struct {
	UptimeSeconds int64                   `json:"uptime_seconds"`
	Forwarding    ForwardingStatsResponse `json:"forwarding"`
	Filtering     FilteringStatsResponse  `json:"filtering"`
	CPU           CPUStats                `json:"cpu"`
	Memory        MemoryStats             `json:"memory"`
}
