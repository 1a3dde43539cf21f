package installer

import (
	"io"
	"sync"
	"sync/atomic"
	"time"

	"github.com/schollz/progressbar/v3"
)

// Spinner shows a pending-operation indicator while an archive is being acquired.
// A disabled spinner prints nothing.
type Spinner struct {
	w        io.Writer
	enabled  bool
	interval time.Duration
	active   atomic.Int32
}

// NewSpinner creates a spinner writing to w
func NewSpinner(w io.Writer, enabled bool) *Spinner {
	return &Spinner{
		w:        w,
		enabled:  enabled && w != nil,
		interval: 100 * time.Millisecond,
	}
}

// Start begins spinning next to label. The returned stop function ends the ticker,
// waits for its goroutine to exit and clears the line; it is safe to call more than once.
func (s *Spinner) Start(label string) (stop func()) {
	if s == nil || !s.enabled {
		return func() {}
	}

	bar := progressbar.NewOptions(-1,
		progressbar.OptionSetWriter(s.w),
		progressbar.OptionSetDescription(label),
		progressbar.OptionSpinnerType(14),
		progressbar.OptionClearOnFinish(),
	)

	done := make(chan struct{})
	var wg sync.WaitGroup

	s.active.Add(1)
	wg.Add(1)
	go func() {
		defer wg.Done()
		defer s.active.Add(-1)

		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				_ = bar.Add(1)
			}
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() {
			close(done)
			wg.Wait()
			_ = bar.Clear()
		})
	}
}

// Active is the number of spinner goroutines still running
func (s *Spinner) Active() int {
	if s == nil {
		return 0
	}

	return int(s.active.Load())
}
