package adminapi

import (
	"net/http"
	"runtime"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"
)

// handleHealth godoc
// @Summary Health check
// @Description Returns status "ok" whenever the admin API is serving; the forwarding core's state is not checked.
// @Tags system
// @Produce json
// @Success 200 {object} HealthResponse
// @Router /healthz [get]
func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{Status: "ok"})
}

// handleStats godoc
// @Summary Server statistics
// @Description Returns forwarding counters, blacklist size, and host CPU/memory usage.
// @Tags system
// @Produce json
// @Success 200 {object} StatsResponse
// @Router /stats [get]
func (s *Server) handleStats(c *gin.Context) {
	resp := StatsResponse{
		UptimeSeconds: int64(time.Since(s.startTime).Seconds()),
		CPU:           CPUStats{NumCPU: runtime.NumCPU()},
	}

	if s.forwarding != nil {
		snap := s.forwarding.Snapshot()
		resp.Forwarding = ForwardingStatsResponse(snap)
	}

	if s.filtering != nil {
		fs := s.filtering.Stats()
		resp.Filtering = FilteringStatsResponse{
			Allowed: fs.Allowed,
			Denied:  fs.Denied,
			ListLen: fs.ListLen,
		}
	}

	if vmStat, err := mem.VirtualMemory(); err == nil {
		resp.Memory = MemoryStats{
			TotalMB:     float64(vmStat.Total) / 1024 / 1024,
			UsedMB:      float64(vmStat.Used) / 1024 / 1024,
			UsedPercent: vmStat.UsedPercent,
		}
	}

	if cpuPercent, err := cpu.Percent(200*time.Millisecond, false); err == nil && len(cpuPercent) > 0 {
		resp.CPU.UsedPercent = cpuPercent[0]
	}

	c.JSON(http.StatusOK, resp)
}
