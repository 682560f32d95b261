// Package progress provides thread-safe progress reporting for scan
// pipelines. The scanner publishes discrete events; any number of listeners
// may subscribe, and the scanner works identically with no listeners at all.
package progress

import (
	"fmt"
	"sync"
	"time"
)

// Phase represents the current stage of a scan.
type Phase string

const (
	PhaseExpanding Phase = "expanding"
	PhaseProbing   Phase = "probing"
	PhaseComplete  Phase = "complete"
	PhaseError     Phase = "error"
)

// ScanProgress describes the state of one application's scan.
type ScanProgress struct {
	Phase           Phase
	AppName         string
	CurrentPath     string
	Candidates      int
	Probed          int
	ArtifactsFound  int
	AppsTotal       int
	AppsDone        int
	StartTime       time.Time
	Error           error
}

// Reporter fans scan progress out to subscribed listeners. A nil *Reporter
// is valid and drops every update, so callers never need nil checks beyond
// the method receiver.
type Reporter struct {
	mu        sync.RWMutex
	current   *ScanProgress
	listeners []chan *ScanProgress
}

// NewReporter creates a progress reporter with no listeners.
func NewReporter() *Reporter {
	return &Reporter{}
}

// Subscribe returns a channel that receives progress updates. Updates are
// dropped rather than blocking when a listener falls behind.
func (r *Reporter) Subscribe() <-chan *ScanProgress {
	r.mu.Lock()
	defer r.mu.Unlock()

	ch := make(chan *ScanProgress, 16)
	r.listeners = append(r.listeners, ch)
	return ch
}

// Unsubscribe closes and removes a listener channel.
func (r *Reporter) Unsubscribe(ch <-chan *ScanProgress) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, listener := range r.listeners {
		if listener == ch {
			close(listener)
			r.listeners = append(r.listeners[:i], r.listeners[i+1:]...)
			return
		}
	}
}

// Update records the latest progress and notifies listeners without
// blocking.
func (r *Reporter) Update(update *ScanProgress) {
	if r == nil {
		return
	}

	r.mu.Lock()
	r.current = update
	listeners := make([]chan *ScanProgress, len(r.listeners))
	copy(listeners, r.listeners)
	r.mu.Unlock()

	for _, listener := range listeners {
		select {
		case listener <- update:
		default:
		}
	}
}

// Current returns the most recent progress update.
func (r *Reporter) Current() *ScanProgress {
	if r == nil {
		return nil
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.current
}

// Format renders a progress update as a single status line.
func Format(p *ScanProgress) string {
	if p == nil {
		return "Initializing..."
	}

	switch p.Phase {
	case PhaseExpanding:
		return fmt.Sprintf("Expanding locations for %s...", p.AppName)
	case PhaseProbing:
		return fmt.Sprintf("Probing %s: %d/%d candidates", p.AppName, p.Probed, p.Candidates)
	case PhaseComplete:
		elapsed := time.Since(p.StartTime).Round(time.Millisecond)
		return fmt.Sprintf("Scanned %s: %d artifacts in %s", p.AppName, p.ArtifactsFound, elapsed)
	case PhaseError:
		return fmt.Sprintf("Scan error for %s: %v", p.AppName, p.Error)
	default:
		return "Scanning..."
	}
}
