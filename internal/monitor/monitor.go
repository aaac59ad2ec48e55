// Package monitor optionally exposes a read-only HTTP view of a running
// simulation's counters and tag-array contents, grounded on
// monitoring/monitor.go's mux-routed server (minus every control endpoint:
// this monitor cannot pause, resume, or otherwise affect the simulation it
// observes, since §5 requires byte-identical, deterministic output
// regardless of whether anyone is watching).
package monitor

import (
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"os"

	"github.com/gorilla/mux"
	"github.com/pkg/browser"
	"github.com/syifan/goseth"

	"github.com/archsim/cachesim/cache"
)

// Monitor serves /stats and /state for a single cache.Hierarchy.
type Monitor struct {
	hierarchy *cache.Hierarchy
}

// New returns a Monitor over hierarchy. The hierarchy's Access calls
// continue to run concurrently with the server's handlers, on separate
// goroutines; cache.Level.Stats() and the counter fields it reads are
// guarded by a mutex for exactly this reason, the way monitoring/monitor.go
// guards its progress-bar state with progressBarsLock.
func New(hierarchy *cache.Hierarchy) *Monitor {
	return &Monitor{hierarchy: hierarchy}
}

// Serve starts the HTTP server on port (0 picks a random free port) and
// returns the address it bound, logging it to stderr the way
// monitoring/monitor.go does. If open is true, it launches the default
// browser at /stats.
func (m *Monitor) Serve(port int, open bool) (string, error) {
	r := mux.NewRouter()
	r.HandleFunc("/stats", m.stats)
	r.HandleFunc("/state", m.state)

	listener, err := net.Listen("tcp", fmt.Sprintf(":%d", port))
	if err != nil {
		return "", fmt.Errorf("monitor: listening: %w", err)
	}

	addr := listener.Addr().(*net.TCPAddr)
	url := fmt.Sprintf("http://localhost:%d/stats", addr.Port)
	fmt.Fprintf(os.Stderr, "Monitoring simulation at %s\n", url)

	go func() {
		if err := http.Serve(listener, r); err != nil {
			fmt.Fprintf(os.Stderr, "monitor: server stopped: %v\n", err)
		}
	}()

	if open {
		if err := browser.OpenURL(url); err != nil {
			fmt.Fprintf(os.Stderr, "monitor: could not open browser: %v\n", err)
		}
	}

	return url, nil
}

type levelStats struct {
	Name        string  `json:"name"`
	Reads       uint64  `json:"reads"`
	Writes      uint64  `json:"writes"`
	ReadMisses  uint64  `json:"read_misses"`
	WriteMisses uint64  `json:"write_misses"`
	Writebacks  uint64  `json:"writebacks"`
	MissRate    float64 `json:"miss_rate"`
}

// stats reports every level's counters as JSON.
func (m *Monitor) stats(w http.ResponseWriter, _ *http.Request) {
	var levels []levelStats
	for _, level := range m.hierarchy.Levels() {
		s := level.Stats()
		levels = append(levels, levelStats{
			Name:        level.Name(),
			Reads:       s.Reads,
			Writes:      s.Writes,
			ReadMisses:  s.ReadMisses,
			WriteMisses: s.WriteMisses,
			Writebacks:  s.Writebacks,
			MissRate:    s.MissRate(),
		})
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(levels); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// state serializes the top level's tag array via goseth, the same
// depth-limited introspection monitoring/monitor.go's listComponentDetails
// uses for a live akita component.
func (m *Monitor) state(w http.ResponseWriter, _ *http.Request) {
	serializer := goseth.NewSerializer()
	serializer.SetRoot(m.hierarchy.Top())
	serializer.SetMaxDepth(3)

	w.Header().Set("Content-Type", "application/json")
	if err := serializer.Serialize(w); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
