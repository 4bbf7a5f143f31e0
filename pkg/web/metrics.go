package web

import (
	"bufio"
	"io"
	"math"
	"os"
	"runtime"
	"strconv"
	"strings"
	"sync"
)

// Metrics is the system usage reported by / and /health.
type Metrics struct {
	CPUPercent    float64 `json:"cpu_percent"`
	MemoryPercent float64 `json:"memory_percent"`
	MemoryUsedMB  float64 `json:"memory_used_mb"`
}

// Sampler reads host CPU and memory from /proc. CPU usage is the delta
// since the previous call, so the first call reports 0. Hosts without
// /proc report the Go runtime's memory instead.
type Sampler struct {
	procDir string

	mu        sync.Mutex
	lastIdle  uint64
	lastTotal uint64
}

func NewSampler() *Sampler {
	return &Sampler{procDir: "/proc"}
}

// Read samples the current metrics.
func (s *Sampler) Read() Metrics {
	var m Metrics

	if f, err := os.Open(s.procDir + "/stat"); err == nil {
		idle, total, ok := parseCPUStat(f)
		f.Close()
		if ok {
			s.mu.Lock()
			if s.lastTotal > 0 && total > s.lastTotal {
				dTotal := float64(total - s.lastTotal)
				dIdle := float64(idle - s.lastIdle)
				m.CPUPercent = round2(100 * (dTotal - dIdle) / dTotal)
			}
			s.lastIdle, s.lastTotal = idle, total
			s.mu.Unlock()
		}
	}

	if f, err := os.Open(s.procDir + "/meminfo"); err == nil {
		totalKB, availKB, ok := parseMeminfo(f)
		f.Close()
		if ok && totalKB > 0 {
			used := totalKB - availKB
			m.MemoryPercent = round2(100 * float64(used) / float64(totalKB))
			m.MemoryUsedMB = round2(float64(used) / 1024)
			return m
		}
	}

	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)
	m.MemoryUsedMB = round2(float64(ms.Sys) / 1024 / 1024)
	return m
}

// parseCPUStat reads the aggregate "cpu" line of /proc/stat. Idle includes iowait.
func parseCPUStat(r io.Reader) (idle, total uint64, ok bool) {
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		fields := strings.Fields(sc.Text())
		if len(fields) < 5 || fields[0] != "cpu" {
			continue
		}
		for i, f := range fields[1:] {
			v, err := strconv.ParseUint(f, 10, 64)
			if err != nil {
				return 0, 0, false
			}
			total += v
			if i == 3 || i == 4 {
				idle += v
			}
		}
		return idle, total, true
	}
	return 0, 0, false
}

// parseMeminfo returns MemTotal and MemAvailable in kB.
func parseMeminfo(r io.Reader) (totalKB, availKB uint64, ok bool) {
	sc := bufio.NewScanner(r)
	var haveTotal, haveAvail bool
	for sc.Scan() {
		fields := strings.Fields(sc.Text())
		if len(fields) < 2 {
			continue
		}
		v, err := strconv.ParseUint(fields[1], 10, 64)
		if err != nil {
			continue
		}
		switch fields[0] {
		case "MemTotal:":
			totalKB, haveTotal = v, true
		case "MemAvailable:":
			availKB, haveAvail = v, true
		}
	}
	return totalKB, availKB, haveTotal && haveAvail
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
