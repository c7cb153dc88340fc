package engine

import "sync"

// flights counts refreshes in progress. Unlike a sync.WaitGroup it accepts new
// refreshes while a caller is waiting for the count to drop to zero.
type flights struct {
	mu   sync.Mutex
	n    int
	idle chan struct{} // closed while n == 0
}

func newFlights() *flights {
	idle := make(chan struct{})
	close(idle)

	return &flights{idle: idle}
}

func (f *flights) add() {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.n == 0 {
		f.idle = make(chan struct{})
	}

	f.n++
}

func (f *flights) done() {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.n--
	if f.n == 0 {
		close(f.idle)
	}
}

// wait blocks until no refresh is in progress. Refreshes started while it
// waits extend the wait.
func (f *flights) wait() {
	f.mu.Lock()
	idle := f.idle
	f.mu.Unlock()

	<-idle
}
