package surface

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"
	"sync"

	"github.com/psidex/ptviz/internal/graph"
	"github.com/psidex/ptviz/internal/lib"
)

type EventType string

const (
	// EventReady fires once, after the collection is loaded and laid out.
	EventReady EventType = "ready"
	// EventClick fires when a node is clicked, Event.Node is the node.
	EventClick EventType = "click"
	// EventLoadError fires instead of EventReady when loading fails, Event.Err says why.
	EventLoadError EventType = "loaderror"
)

type Event struct {
	Type    EventType
	Surface *Surface
	Node    *graph.Node
	Err     error
}

// Handler reacts to an event. Handlers of a surface never run concurrently, each runs
// to completion before the next starts. A handler must not call Load, Click or Close
// on its own surface, those wait for the dispatcher the handler is running on.
type Handler func(ctx context.Context, ev Event)

type pending struct {
	ev       Event
	handlers []Handler
	done     chan struct{}
}

// dispatcher runs handlers one at a time on its own goroutine, in emission order.
type dispatcher struct {
	logger *slog.Logger
	queue  *lib.Queue[pending]
	wake   chan struct{}
	// mu orders emit against stop so nothing is queued after the final drain.
	mu      sync.Mutex
	stopped bool
	ctx     context.Context
	cancel  context.CancelFunc
	done    chan struct{}
}

func newDispatcher(logger *slog.Logger) *dispatcher {
	ctx, cancel := context.WithCancel(context.Background())
	d := &dispatcher{
		logger: logger,
		queue:  lib.NewQueue[pending](),
		wake:   make(chan struct{}, 1),
		ctx:    ctx,
		cancel: cancel,
		done:   make(chan struct{}),
	}
	go d.loop()
	return d
}

// emit queues ev; the returned channel closes once every handler has returned, or the
// dispatcher has stopped.
func (d *dispatcher) emit(ev Event, handlers []Handler) <-chan struct{} {
	p := pending{ev: ev, handlers: handlers, done: make(chan struct{})}
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.stopped {
		close(p.done)
		return p.done
	}
	d.queue.Enqueue(p)
	select {
	case d.wake <- struct{}{}:
	default:
	}
	return p.done
}

func (d *dispatcher) loop() {
	defer close(d.done)
	for {
		select {
		case <-d.ctx.Done():
			// Release anyone still waiting on events that will never run.
			if n := d.queue.Size(); n > 0 {
				d.logger.Debug("dropping queued events", "count", n)
			}
			for p, ok := d.queue.Dequeue(); ok; p, ok = d.queue.Dequeue() {
				close(p.done)
			}
			return
		case <-d.wake:
			for p, ok := d.queue.Dequeue(); ok; p, ok = d.queue.Dequeue() {
				for _, h := range p.handlers {
					d.run(h, p.ev)
				}
				close(p.done)
			}
		}
	}
}

func (d *dispatcher) run(h Handler, ev Event) {
	defer func() {
		if r := recover(); r != nil {
			d.logger.Error("event handler panicked", "event", ev.Type, "panic", fmt.Sprint(r), "stack", string(debug.Stack()))
		}
	}()
	h(d.ctx, ev)
}

func (d *dispatcher) stop() {
	d.mu.Lock()
	d.stopped = true
	d.mu.Unlock()
	d.cancel()
	<-d.done
}
