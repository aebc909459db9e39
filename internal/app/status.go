// internal/app/status.go
package app

import (
	"sync"
	"time"

	"review_harvester/internal/domain"
)

// Progress tracks the run for the ops endpoints.
type Progress struct {
	mu      sync.Mutex
	state   string
	started time.Time
	current string
	counts  map[string]int
}

func NewProgress() *Progress {
	return &Progress{state: "idle", counts: make(map[string]int)}
}

type Status struct {
	State     string         `json:"state"`
	Source    string         `json:"source,omitempty"`
	Collected map[string]int `json:"collected"`
	StartedAt string         `json:"started_at,omitempty"`
	Elapsed   string         `json:"elapsed,omitempty"`
}

func (p *Progress) StartRun() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.state = "running"
	p.started = time.Now()
}

func (p *Progress) StartSource(pl domain.Platform) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.current = string(pl)
}

func (p *Progress) FinishSource(pl domain.Platform, collected int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.counts[string(pl)] = collected
	p.current = ""
}

func (p *Progress) FinishRun() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.state = "done"
	p.current = ""
}

// Snapshot returns a copy safe to serialize while the run mutates state.
func (p *Progress) Snapshot() Status {
	p.mu.Lock()
	defer p.mu.Unlock()
	s := Status{
		State:     p.state,
		Source:    p.current,
		Collected: make(map[string]int, len(p.counts)),
	}
	for k, v := range p.counts {
		s.Collected[k] = v
	}
	if !p.started.IsZero() {
		s.StartedAt = p.started.UTC().Format(time.RFC3339)
		s.Elapsed = time.Since(p.started).Round(time.Millisecond).String()
	}
	return s
}
