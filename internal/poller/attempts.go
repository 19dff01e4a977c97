// internal/poller/attempts.go - In-memory record of poll attempts for a run
package poller

import (
	"sync"
	"time"
)

// Attempt is one probe of the node. Attempts live only for the duration of a
// run; they feed the final report and metrics, nothing persists them.
type Attempt struct {
	At  time.Time
	Err error
}

type AttemptLog struct {
	mu       sync.Mutex
	attempts []Attempt
}

func NewAttemptLog() *AttemptLog {
	return &AttemptLog{}
}

func (l *AttemptLog) Record(at time.Time, err error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.attempts = append(l.attempts, Attempt{At: at, Err: err})
}

func (l *AttemptLog) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.attempts = nil
}

// Stats returns the total number of attempts and how many failed.
func (l *AttemptLog) Stats() (total, failed int) {
	l.mu.Lock()
	defer l.mu.Unlock()

	for _, a := range l.attempts {
		if a.Err != nil {
			failed++
		}
	}
	return len(l.attempts), failed
}

// Snapshot copies out the recorded attempts in order.
func (l *AttemptLog) Snapshot() []Attempt {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make([]Attempt, len(l.attempts))
	copy(out, l.attempts)
	return out
}
