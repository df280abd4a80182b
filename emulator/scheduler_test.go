package emulator

import "testing"

func TestSchedulerFiresAtExactDueTime(t *testing.T) {
	assert := func(v bool) {
		if !v {
			t.Error("assert failed")
		}
	}

	s := NewScheduler()
	var fired bool
	var lateness uint64
	s.Bind(HandlerTimer0, func(_ int32, late uint64) {
		fired = true
		lateness = late
	})

	s.Add(HandlerTimer0, 0, 100)
	assert(s.Pending(HandlerTimer0))
	assert(s.GetRunCycles() == 100)

	s.Tick(40)
	assert(!fired)
	assert(s.GetRunCycles() == 60)

	s.Tick(60)
	assert(fired)
	assert(lateness == 0)
	assert(!s.Pending(HandlerTimer0))
}

func TestSchedulerOvershootReportsLateness(t *testing.T) {
	assert := func(v bool) {
		if !v {
			t.Error("assert failed")
		}
	}

	s := NewScheduler()
	var lateness uint64
	s.Bind(HandlerCDROM, func(_ int32, late uint64) { lateness = late })

	s.Add(HandlerCDROM, 0, 10)
	s.Tick(25)

	assert(lateness == 15)
	assert(s.Now() == 25)
}

// TestSchedulerOrdersSimultaneousEventsByInsertionOrder confirms that two
// events due on the same tick fire in the order they were added rather than
// by HandlerID, matching the stable sort in dueIndices.
func TestSchedulerOrdersSimultaneousEventsByInsertionOrder(t *testing.T) {
	assert := func(v bool) {
		if !v {
			t.Error("assert failed")
		}
	}

	s := NewScheduler()
	var order []HandlerID
	s.Bind(HandlerTimer1, func(int32, uint64) { order = append(order, HandlerTimer1) })
	s.Bind(HandlerTimer0, func(int32, uint64) { order = append(order, HandlerTimer0) })

	s.Add(HandlerTimer1, 0, 5)
	s.Add(HandlerTimer0, 0, 5)
	s.Tick(5)

	assert(len(order) == 2)
	assert(order[0] == HandlerTimer1)
	assert(order[1] == HandlerTimer0)
}

// TestSchedulerHandlerCanRescheduleItself confirms a handler firing mid-Tick
// can stage a new event without being re-fired within the same Tick call.
func TestSchedulerHandlerCanRescheduleItself(t *testing.T) {
	assert := func(v bool) {
		if !v {
			t.Error("assert failed")
		}
	}

	s := NewScheduler()
	fireCount := 0
	s.Bind(HandlerGPUScanline, func(int32, uint64) {
		fireCount++
		s.Add(HandlerGPUScanline, 0, 10)
	})

	s.Add(HandlerGPUScanline, 0, 10)
	s.Tick(10)

	assert(fireCount == 1)
	assert(s.Pending(HandlerGPUScanline))
	assert(s.GetRunCycles() == 10)
}

// TestSchedulerSupportsMultipleEventsPerHandler confirms Add never overwrites
// a handler's existing pending event, and Remove cancels all of them at once.
func TestSchedulerSupportsMultipleEventsPerHandler(t *testing.T) {
	assert := func(v bool) {
		if !v {
			t.Error("assert failed")
		}
	}

	s := NewScheduler()
	var fired []int32
	s.Bind(HandlerCDROM, func(param int32, _ uint64) { fired = append(fired, param) })

	s.Add(HandlerCDROM, 1, 10)
	s.Add(HandlerCDROM, 2, 20)
	s.Tick(10)

	assert(len(fired) == 1)
	assert(fired[0] == 1)
	assert(s.Pending(HandlerCDROM))

	s.Add(HandlerCDROM, 3, 5)
	s.Remove(HandlerCDROM)
	assert(!s.Pending(HandlerCDROM))

	s.Tick(100)
	assert(len(fired) == 1)
}
