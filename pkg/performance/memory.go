package performance

import (
	"log"
	"runtime"
	"time"
)

// MemorySnapshot represents memory state at a point in time
type MemorySnapshot struct {
	Timestamp   time.Time
	TotalMB     uint64 // Total system memory
	AvailableMB uint64 // Available memory for use
	UsedMB      uint64 // Currently used memory
	FreeMB      uint64 // Free memory (not including buffers/cache)
}

// GetAvailableMemoryMB returns only the available memory in MB
func GetAvailableMemoryMB() uint64 {
	snapshot := GetSystemMemory()
	return snapshot.AvailableMB
}

// GoMemoryStats holds Go runtime memory statistics (see GetGoMemory)
type GoMemoryStats struct {
	AllocMB      uint64 // Currently allocated heap memory
	TotalAllocMB uint64 // Cumulative allocated memory
	SysMB        uint64 // Memory obtained from system
	NumGC        uint32 // Number of GC runs
}

// GetGoMemory retrieves Go runtime memory statistics
func GetGoMemory() GoMemoryStats {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	return GoMemoryStats{
		AllocMB:      m.Alloc / (1024 * 1024),
		TotalAllocMB: m.TotalAlloc / (1024 * 1024),
		SysMB:        m.Sys / (1024 * 1024),
		NumGC:        m.NumGC,
	}
}

// IsLowMemory returns true if available memory is below threshold
func IsLowMemory(thresholdMB uint64) bool {
	available := GetAvailableMemoryMB()
	return available < thresholdMB
}

// MemoryPressureLevel represents how much memory pressure the system is under
type MemoryPressureLevel int

const (
	MemoryPressureNone MemoryPressureLevel = iota
	MemoryPressureLow
	MemoryPressureMedium
	MemoryPressureHigh
	MemoryPressureCritical
)

// PressureThresholds are the available-memory cutoffs, in MB, between
// adjacent pressure levels. Callers size these to their own footprint
// rather than a fixed desktop-class assumption — a player with a tiny
// packet-queue budget has correspondingly little slack before it's the one
// under pressure.
type PressureThresholds struct {
	Low, Medium, High, Critical uint64
}

// GetMemoryPressure returns the current memory pressure level against t.
func GetMemoryPressure(t PressureThresholds) MemoryPressureLevel {
	available := GetAvailableMemoryMB()

	switch {
	case available < t.Critical:
		return MemoryPressureCritical
	case available < t.High:
		return MemoryPressureHigh
	case available < t.Medium:
		return MemoryPressureMedium
	case available < t.Low:
		return MemoryPressureLow
	default:
		return MemoryPressureNone
	}
}

// String returns a human-readable description of memory pressure
func (m MemoryPressureLevel) String() string {
	switch m {
	case MemoryPressureNone:
		return "None"
	case MemoryPressureLow:
		return "Low"
	case MemoryPressureMedium:
		return "Medium"
	case MemoryPressureHigh:
		return "High"
	case MemoryPressureCritical:
		return "Critical"
	default:
		return "Unknown"
	}
}

// LogMemorySnapshot logs a detailed memory snapshot, with pressure judged
// against t.
func LogMemorySnapshot(t PressureThresholds) {
	sys := GetSystemMemory()
	goMem := GetGoMemory()
	pressure := GetMemoryPressure(t)

	log.Printf("Memory: System[Total=%dMB, Avail=%dMB, Used=%dMB, Free=%dMB] Go[Alloc=%dMB, Sys=%dMB, GC=%d] Pressure=%s",
		sys.TotalMB, sys.AvailableMB, sys.UsedMB, sys.FreeMB,
		goMem.AllocMB, goMem.SysMB, goMem.NumGC,
		pressure.String())
}
