package debounce

// arm stops the current timer, if any, and starts a new one for the wait
// duration. It must be called with the mutex held.
//
// Every armed timer carries a generation number. Stopping a timer whose
// function is already running does not stop the function, so expire compares
// its generation against the current one and treats stale timers as no-ops.
//
// The expiry runs on its own goroutine, as the clock may hold locks of its own
// while calling timer functions, and the function is allowed to call back into
// the Debouncer.
func (d *Debouncer[A, R]) arm() {
	d.disarm()

	gen := d.gen
	d.timer = d.clock.AfterFunc(d.wait, func() {
		go d.expire(gen)
	})
}

// disarm stops and forgets the current timer, invalidating any expiry that is
// already in flight. It must be called with the mutex held.
func (d *Debouncer[A, R]) disarm() {
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.gen++
}
