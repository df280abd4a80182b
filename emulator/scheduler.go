package emulator

import "golang.org/x/exp/slices"

// HandlerID names a registered callback so events can be added, found, and
// cancelled without the scheduler knowing anything about what they do.
type HandlerID uint32

const (
	HandlerGPUHBlank HandlerID = iota
	HandlerGPUScanline
	HandlerTimer0
	HandlerTimer1
	HandlerTimer2
	HandlerCDROM
	HandlerDMA
	HandlerSIO
	handlerCount
)

// event is a pending callback at an absolute cycle count, carrying a small
// handler-defined parameter (a DMA channel index, a CD-ROM response id, ...).
// Several events for the same handler may coexist — e.g. every DMA channel
// mid-transfer, or a CD-ROM command's INT3 and a still-pending earlier
// command's INT2 — which is the one place a single "next due time" per
// handler falls short of the real hardware's behavior.
type event struct {
	handler HandlerID
	param   int32
	due     uint64
}

// Scheduler is the cycle-driven event queue that sequences every peripheral.
// The CPU interpreter is the master clock: each host loop iteration advances
// it by a fixed quantum, then calls Tick with the same cycle count, which
// fires every event whose due time has been reached, in ascending order of
// due time (ties broken by insertion order).
type Scheduler struct {
	cycles uint64
	events []event
	staged []event
	onFire [handlerCount]func(param int32, late uint64)
}

func NewScheduler() *Scheduler {
	return &Scheduler{}
}

// Bind registers the callback invoked when one of handler's events fires.
// late is how many cycles past the due time the scheduler actually
// delivered it, so a handler can compensate for coarse quantum granularity.
func (s *Scheduler) Bind(handler HandlerID, cb func(param int32, late uint64)) {
	s.onFire[handler] = cb
}

func (s *Scheduler) Now() uint64 {
	return s.cycles
}

// Add queues a new event for handler, due cyclesUntil cycles from now,
// carrying param through to the callback. Safe to call from inside a
// handler's own callback: the new event is staged and merged into the live
// set after the running callback returns, and its due time counts from the
// end of the current Tick, so with a non-zero delay it can't be fired again
// within the same Tick.
func (s *Scheduler) Add(handler HandlerID, param int32, cyclesUntil uint64) {
	s.staged = append(s.staged, event{handler: handler, param: param, due: s.cycles + cyclesUntil})
}

// Remove cancels every pending event — fired or still staged — for handler.
func (s *Scheduler) Remove(handler HandlerID) {
	s.events = removeHandlerEvents(s.events, handler)
	s.staged = removeHandlerEvents(s.staged, handler)
}

func removeHandlerEvents(evs []event, handler HandlerID) []event {
	kept := evs[:0]
	for _, e := range evs {
		if e.handler != handler {
			kept = append(kept, e)
		}
	}
	return kept
}

// Pending reports whether handler has at least one event scheduled.
func (s *Scheduler) Pending(handler HandlerID) bool {
	for _, e := range s.events {
		if e.handler == handler {
			return true
		}
	}
	for _, e := range s.staged {
		if e.handler == handler {
			return true
		}
	}
	return false
}

// GetRunCycles returns how many cycles remain until the nearest active
// event, or a large quantum if nothing is scheduled; callers use this to
// size the next CPU run slice so they never overshoot an event boundary by
// more than the fixed instruction quantum.
func (s *Scheduler) GetRunCycles() uint64 {
	s.mergeStaged()
	var nearest uint64 = 1 << 40
	for i := range s.events {
		if s.events[i].due <= s.cycles {
			return 0
		}
		if d := s.events[i].due - s.cycles; d < nearest {
			nearest = d
		}
	}
	return nearest
}

func (s *Scheduler) mergeStaged() {
	if len(s.staged) == 0 {
		return
	}
	s.events = append(s.events, s.staged...)
	s.staged = s.staged[:0]
}

// Tick advances the clock by cycles and fires every event whose due time
// has now been reached, in due-time order; a handler firing may itself
// stage a successor event without being fired again this call, since staged
// events are merged into the live set only after each event's callback has
// run, then the next-due event is recomputed from that set.
func (s *Scheduler) Tick(cycles uint64) {
	s.cycles += cycles
	s.mergeStaged()

	for {
		due := s.dueIndices()
		if len(due) == 0 {
			break
		}
		idx := due[0]
		e := s.events[idx]
		s.events = append(s.events[:idx], s.events[idx+1:]...)
		late := s.cycles - e.due
		if cb := s.onFire[e.handler]; cb != nil {
			cb(e.param, late)
		}
		s.mergeStaged()
	}
}

// dueIndices returns the indices of every event whose due time has passed,
// ordered by due time (ties broken by index, i.e. insertion order, since
// events are appended in registration order and SortStableFunc preserves
// that ordering among equal keys).
func (s *Scheduler) dueIndices() []int {
	var due []int
	for i := range s.events {
		if s.events[i].due <= s.cycles {
			due = append(due, i)
		}
	}
	slices.SortStableFunc(due, func(a, b int) bool {
		return s.events[a].due < s.events[b].due
	})
	return due
}
