package common

import (
	"fmt"
	"time"
)

// RetryFixed executes an operation up to attempts times with a fixed delay
// between failures. Unlike a backoff retry this is a bounded poll: the delay
// never grows, and the last error is returned when every attempt fails.
func RetryFixed(attempts int, delay time.Duration, operation func() error) error {
	if attempts <= 0 {
		attempts = 1
	}

	var err error
	for attempt := 1; attempt <= attempts; attempt++ {
		if err = operation(); err == nil {
			return nil
		}
		if attempt < attempts {
			time.Sleep(delay)
		}
	}

	return fmt.Errorf("after %d attempts: %w", attempts, err)
}
