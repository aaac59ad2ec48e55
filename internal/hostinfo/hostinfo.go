// Package hostinfo reports a one-line host diagnostic for the configuration
// echo, grounded on monitoring/monitor.go's use of gopsutil for live process
// CPU/memory figures (the teacher reads per-process stats; this package
// reads host-wide stats, since there is no simulated "process" here).
package hostinfo

import (
	"fmt"

	"github.com/shirou/gopsutil/cpu"
	"github.com/shirou/gopsutil/host"
	"github.com/shirou/gopsutil/mem"
)

// Snapshot is a point-in-time host diagnostic.
type Snapshot struct {
	Platform    string
	CPUCount    int
	TotalMemory uint64
	UsedPercent float64
}

// Collect gathers a Snapshot. Any individual gopsutil call that fails is
// silently left at its zero value: this line is informational, never on
// the critical path of argument/configuration validation (§7).
func Collect() Snapshot {
	var s Snapshot

	if info, err := host.Info(); err == nil {
		s.Platform = info.Platform
	}

	if n, err := cpu.Counts(true); err == nil {
		s.CPUCount = n
	}

	if vm, err := mem.VirtualMemory(); err == nil {
		s.TotalMemory = vm.Total
		s.UsedPercent = vm.UsedPercent
	}

	return s
}

// String renders the snapshot the way it appears in the configuration echo.
func (s Snapshot) String() string {
	return fmt.Sprintf("%s, %d cpus, mem %.1f%% used of %d MB",
		s.Platform, s.CPUCount, s.UsedPercent, s.TotalMemory/(1024*1024))
}
