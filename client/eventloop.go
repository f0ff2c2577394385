package client

import (
	"sync"
	"time"
)

// EventLoop is the cooperative, single-threaded scheduler that drives a
// Client's asynchronous callbacks. Nothing runs on it concurrently with
// itself: callbacks only fire from inside Run, Poll, RunFor, or
// RunUntilIdle, on whichever goroutine called them.
//
// An asynchronous call's HTTP round trip happens on its own goroutine (the
// "suspension point"); when it completes, the continuation is posted to
// the loop rather than invoked directly, so the callback always runs on
// the driving goroutine instead of racing with it.
type EventLoop struct {
	mu      sync.Mutex
	cond    *sync.Cond
	tasks   []func()
	pending int
	stopped bool
}

// NewEventLoop creates an idle event loop.
func NewEventLoop() *EventLoop {
	el := &EventLoop{}
	el.cond = sync.NewCond(&el.mu)
	return el
}

// beginPending records that an asynchronous operation has started but has
// not yet posted its continuation, so RunUntilIdle knows to keep waiting
// for it.
func (el *EventLoop) beginPending() {
	el.mu.Lock()
	el.pending++
	el.mu.Unlock()
}

// Post schedules fn to run on the driving goroutine and marks one pending
// operation as resolved.
func (el *EventLoop) Post(fn func()) {
	el.mu.Lock()
	el.tasks = append(el.tasks, fn)
	el.pending--
	el.cond.Broadcast()
	el.mu.Unlock()
}

// Poll runs every task queued at the moment it is called, without
// blocking for more, and reports how many it ran.
func (el *EventLoop) Poll() int {
	el.mu.Lock()
	tasks := el.tasks
	el.tasks = nil
	el.mu.Unlock()

	for _, t := range tasks {
		t()
	}
	return len(tasks)
}

// RunUntilIdle drains queued tasks and waits for in-flight asynchronous
// operations to post theirs, until the loop has nothing left outstanding.
func (el *EventLoop) RunUntilIdle() {
	for {
		el.Poll()

		el.mu.Lock()
		if len(el.tasks) == 0 && el.pending <= 0 {
			el.mu.Unlock()
			return
		}
		for len(el.tasks) == 0 && el.pending > 0 {
			el.cond.Wait()
		}
		el.mu.Unlock()
	}
}

// RunFor drains and waits for work for up to d, then returns regardless
// of whether anything is still outstanding.
func (el *EventLoop) RunFor(d time.Duration) {
	deadline := time.Now().Add(d)
	for {
		n := el.Poll()
		if time.Now().After(deadline) {
			return
		}
		if n == 0 {
			time.Sleep(time.Millisecond)
		}
	}
}

// Run drives the loop until Stop is called, blocking the caller.
func (el *EventLoop) Run() {
	el.mu.Lock()
	el.stopped = false
	el.mu.Unlock()

	for {
		el.mu.Lock()
		for len(el.tasks) == 0 && !el.stopped {
			el.cond.Wait()
		}
		if el.stopped && len(el.tasks) == 0 {
			el.mu.Unlock()
			return
		}
		tasks := el.tasks
		el.tasks = nil
		el.mu.Unlock()

		for _, t := range tasks {
			t()
		}
	}
}

// Stop unblocks a caller inside Run once the queue drains.
func (el *EventLoop) Stop() {
	el.mu.Lock()
	el.stopped = true
	el.cond.Broadcast()
	el.mu.Unlock()
}
