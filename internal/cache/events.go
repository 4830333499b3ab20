package cache

import (
	"fmt"
	"time"
)

// EventKind is an input to the cache state machine.
type EventKind int

const (
	// EventChanged means the cache file was created or modified; it reloads.
	EventChanged EventKind = iota
	// EventDeleted means the cache file vanished; it regenerates.
	EventDeleted
	// EventRegenerateTick is the periodic maintenance tick; it regenerates.
	EventRegenerateTick
	// EventHelperExited reports the end of a regeneration job.
	EventHelperExited
)

func (k EventKind) String() string {
	switch k {
	case EventChanged:
		return "changed"
	case EventDeleted:
		return "deleted"
	case EventRegenerateTick:
		return "regenerate"
	case EventHelperExited:
		return "helper-exited"
	default:
		return fmt.Sprintf("unknown(%d)", int(k))
	}
}

// Event is delivered to Cache.HandleEvent.
type Event struct {
	Kind EventKind
	// Status is set for EventHelperExited.
	Status ExitStatus

	// job identifies the regeneration job an exit belongs to. Zero matches
	// whichever job is running.
	job uint64
}

// RegenerationOutcome is the result of a regeneration request.
type RegenerationOutcome string

const (
	RegenerationSpawned RegenerationOutcome = "spawned"
	RegenerationSkipped RegenerationOutcome = "skipped"
	RegenerationFailed  RegenerationOutcome = "failed"
)

// Observer receives cache instrumentation. Implementations are provided by
// the metrics package.
type Observer interface {
	ObserveLoad(backing Backing, size int, duration time.Duration, err error)
	ObserveReload()
	ObserveEvent(kind EventKind)
	ObserveRegeneration(outcome RegenerationOutcome)
	ObserveHelperExit(status ExitStatus, runtime time.Duration)
}

type nopObserver struct{}

func (nopObserver) ObserveLoad(Backing, int, time.Duration, error) {}
func (nopObserver) ObserveReload()                                 {}
func (nopObserver) ObserveEvent(EventKind)                         {}
func (nopObserver) ObserveRegeneration(RegenerationOutcome)        {}
func (nopObserver) ObserveHelperExit(ExitStatus, time.Duration)    {}

// Ticker drives periodic regeneration.
type Ticker interface {
	C() <-chan time.Time
	Stop()
}

type timeTicker struct {
	t *time.Ticker
}

func (t timeTicker) C() <-chan time.Time { return t.t.C }
func (t timeTicker) Stop()               { t.t.Stop() }

func newTimeTicker(d time.Duration) Ticker {
	return timeTicker{t: time.NewTicker(d)}
}
