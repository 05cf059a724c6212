package server

import "go.uber.org/atomic"

// InFlight admits one prediction at a time. A caller that fails TryAcquire
// is rejected rather than queued.
type InFlight struct {
	busy atomic.Bool
}

// TryAcquire sets the flag if it was clear and reports whether it did.
func (g *InFlight) TryAcquire() bool {
	return g.busy.CAS(false, true)
}

// Release clears the flag.
func (g *InFlight) Release() {
	g.busy.Store(false)
}

// Busy reports whether a prediction is running.
func (g *InFlight) Busy() bool {
	return g.busy.Load()
}
