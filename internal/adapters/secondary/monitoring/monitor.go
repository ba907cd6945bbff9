package monitoring

import (
	"math"
	"runtime"
	"sync"
	"time"

	"github.com/fredcamaral/marpview/internal/domain/entities"
	"github.com/fredcamaral/marpview/internal/domain/ports"
)

// Stats is a point-in-time snapshot of viewer activity
type Stats struct {
	Uptime string `json:"uptime"`

	DecksLoaded    int64                        `json:"decks_loaded"`
	LoadFailures   map[entities.ErrorKind]int64 `json:"load_failures"`
	LastLoadMs     int64                        `json:"last_load_ms"`
	AverageLoadMs  float64                      `json:"average_load_ms"`
	SlidesInDeck   int                          `json:"slides_in_deck"`
	SlideChanges   int64                        `json:"slide_changes"`
	CurrentSlide   int                          `json:"current_slide"`
	HTTPRequests   int64                        `json:"http_requests"`
	OpenSockets    int64                        `json:"open_sockets"`
	TotalSockets   int64                        `json:"total_sockets"`
	MemoryMB       int64                        `json:"memory_mb"`
	GoroutineCount int                          `json:"goroutines"`
	GCCount        uint32                       `json:"gc_cycles"`
}

// Monitor counts deck loads, slide moves and connections
type Monitor struct {
	mu        sync.RWMutex
	startedAt time.Time
	now       func() time.Time

	loads        int64
	failures     map[entities.ErrorKind]int64
	lastLoad     time.Duration
	averageLoad  time.Duration
	slides       int
	slideChanges int64
	current      int
	requests     int64
	openSockets  int64
	totalSockets int64
}

// NewMonitor creates a monitor; uptime counts from now
func NewMonitor() *Monitor {
	return &Monitor{
		startedAt: time.Now(),
		now:       time.Now,
		failures:  make(map[entities.ErrorKind]int64),
	}
}

// DeckLoaded implements ports.SessionObserver
func (m *Monitor) DeckLoaded(duration time.Duration, slides int, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err != nil {
		m.failures[entities.KindOf(err)]++
		return
	}

	m.loads++
	m.lastLoad = duration
	m.slides = slides
	m.current = 0

	// Exponential moving average
	if m.averageLoad == 0 {
		m.averageLoad = duration
	} else {
		alpha := 0.1
		m.averageLoad = time.Duration(float64(m.averageLoad)*(1-alpha) + float64(duration)*alpha)
	}
}

// SlideChanged implements ports.SessionObserver
func (m *Monitor) SlideChanged(current int) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.slideChanges++
	m.current = current
}

// RecordHTTPRequest counts one HTTP request
func (m *Monitor) RecordHTTPRequest() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requests++
}

// SocketOpened counts a new WebSocket connection
func (m *Monitor) SocketOpened() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.openSockets++
	m.totalSockets++
}

// SocketClosed counts a closed WebSocket connection
func (m *Monitor) SocketClosed() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.openSockets > 0 {
		m.openSockets--
	}
}

// Snapshot returns the current counters with runtime memory figures
func (m *Monitor) Snapshot() Stats {
	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)

	m.mu.RLock()
	defer m.mu.RUnlock()

	failures := make(map[entities.ErrorKind]int64, len(m.failures))
	for k, v := range m.failures {
		failures[k] = v
	}

	return Stats{
		Uptime:         m.now().Sub(m.startedAt).Round(time.Second).String(),
		DecksLoaded:    m.loads,
		LoadFailures:   failures,
		LastLoadMs:     m.lastLoad.Milliseconds(),
		AverageLoadMs:  float64(m.averageLoad.Microseconds()) / 1000,
		SlidesInDeck:   m.slides,
		SlideChanges:   m.slideChanges,
		CurrentSlide:   m.current,
		HTTPRequests:   m.requests,
		OpenSockets:    m.openSockets,
		TotalSockets:   m.totalSockets,
		MemoryMB:       safeUint64ToInt64(memStats.Alloc) / (1024 * 1024),
		GoroutineCount: runtime.NumGoroutine(),
		GCCount:        memStats.NumGC,
	}
}

// safeUint64ToInt64 safely converts uint64 to int64, capping at max int64 value
func safeUint64ToInt64(val uint64) int64 {
	if val > math.MaxInt64 {
		return math.MaxInt64
	}
	return int64(val)
}

var _ ports.SessionObserver = (*Monitor)(nil)
