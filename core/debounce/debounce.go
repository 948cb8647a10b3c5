// Package debounce provides delay-parametrized wrappers that collapse bursts
// of calls, independent of any UI framework.
package debounce

import (
	"sync"
	"time"
)

// Debounce returns call, which schedules fn to run with the latest argument
// once delay has passed without another call, and cancel, which drops any
// pending invocation.
func Debounce[T any](delay time.Duration, fn func(T)) (call func(T), cancel func()) {
	var (
		mu    sync.Mutex
		timer *time.Timer
		seq   uint64
	)
	call = func(v T) {
		mu.Lock()
		defer mu.Unlock()
		seq++
		mine := seq
		if timer != nil {
			timer.Stop()
		}
		timer = time.AfterFunc(delay, func() {
			mu.Lock()
			stale := mine != seq
			mu.Unlock()
			if !stale {
				fn(v)
			}
		})
	}
	cancel = func() {
		mu.Lock()
		defer mu.Unlock()
		seq++
		if timer != nil {
			timer.Stop()
			timer = nil
		}
	}
	return call, cancel
}

// Throttle returns call, which runs fn at most once per interval. A call that
// arrives inside the interval is deferred to its end, keeping only the latest
// argument. stop drops the deferred call.
func Throttle[T any](interval time.Duration, fn func(T)) (call func(T), stop func()) {
	var (
		mu       sync.Mutex
		last     time.Time
		pending  bool
		latest   T
		timer    *time.Timer
		disabled bool
	)
	var fire func()
	fire = func() {
		mu.Lock()
		if disabled || !pending {
			mu.Unlock()
			return
		}
		v := latest
		pending = false
		last = time.Now()
		timer = nil
		mu.Unlock()
		fn(v)
	}
	call = func(v T) {
		mu.Lock()
		if disabled {
			mu.Unlock()
			return
		}
		latest = v
		pending = true
		wait := interval - time.Since(last)
		if wait <= 0 && timer == nil {
			mu.Unlock()
			fire()
			return
		}
		if timer == nil {
			timer = time.AfterFunc(max(wait, 0), fire)
		}
		mu.Unlock()
	}
	stop = func() {
		mu.Lock()
		defer mu.Unlock()
		disabled = true
		pending = false
		if timer != nil {
			timer.Stop()
			timer = nil
		}
	}
	return call, stop
}
