package core

import (
	"context"
	"fmt"
	"time"
)

// mockSubmitter is a placeholder implementation of the Submitter interface.
// It stands in for a browser-automation pipeline that logs into the external
// marketplace and files the stamp, simulating each step with a fixed delay.
type mockSubmitter struct {
	stepDelay time.Duration
	// sessionCheck decides whether the simulated marketplace session is still
	// valid. The default always passes.
	sessionCheck func(stampID string) error
}

// NewMockSubmitter creates a Submitter that simulates submission with the
// given per-step delay.
func NewMockSubmitter(stepDelay time.Duration) Submitter {
	return &mockSubmitter{
		stepDelay:    stepDelay,
		sessionCheck: func(string) error { return nil },
	}
}

// NewMockSubmitterWithSession creates a Submitter whose session check is
// supplied by the caller. Returning ErrSessionExpired from sessionCheck
// simulates an expired marketplace login.
func NewMockSubmitterWithSession(stepDelay time.Duration, sessionCheck func(stampID string) error) Submitter {
	return &mockSubmitter{
		stepDelay:    stepDelay,
		sessionCheck: sessionCheck,
	}
}

// Submit walks the simulated submission steps. The session is checked before
// the listing is filed; a failed check surfaces as ErrSessionExpired so the
// caller can park the stamp in session_expired rather than failed.
func (m *mockSubmitter) Submit(ctx context.Context, stampID string) error {
	steps := []string{"open_session", "fill_listing", "confirm_listing"}
	for _, step := range steps {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(m.stepDelay):
		}
		if step == "fill_listing" {
			if err := m.sessionCheck(stampID); err != nil {
				return fmt.Errorf("session check during submission of stamp '%s': %w", stampID, err)
			}
		}
	}
	return nil
}
