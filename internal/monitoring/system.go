package monitoring

import (
	"time"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/disk"
	"github.com/shirou/gopsutil/v3/mem"
)

// SystemSnapshot is the host-level view reported on the admin status
// endpoint.
type SystemSnapshot struct {
	CPUPercent  float64 `json:"cpu_percent"`
	MemUsed     uint64  `json:"mem_used_bytes"`
	MemTotal    uint64  `json:"mem_total_bytes"`
	DiskUsed    uint64  `json:"disk_used_bytes"`
	DiskTotal   uint64  `json:"disk_total_bytes"`
	CollectedAt string  `json:"collected_at"`
}

// CollectSystem gathers cpu, memory and disk usage. Individual probe
// failures leave the corresponding fields zero.
func CollectSystem(diskPath string) SystemSnapshot {
	snap := SystemSnapshot{CollectedAt: time.Now().UTC().Format(time.RFC3339)}

	if percents, err := cpu.Percent(0, false); err == nil && len(percents) > 0 {
		snap.CPUPercent = percents[0]
	}
	if memStats, err := mem.VirtualMemory(); err == nil {
		snap.MemUsed = memStats.Used
		snap.MemTotal = memStats.Total
	}
	if diskPath == "" {
		diskPath = "/"
	}
	if diskStats, err := disk.Usage(diskPath); err == nil {
		snap.DiskUsed = diskStats.Used
		snap.DiskTotal = diskStats.Total
	}
	return snap
}
