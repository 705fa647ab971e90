package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrInvalidUUID indicates the string is not a valid UUID format
	ErrInvalidUUID = errors.New("invalid UUID format")
	// ErrNotUUIDv7 indicates the UUID is not version 7
	ErrNotUUIDv7 = errors.New("UUID must be version 7")
	// ErrFutureTimestamp indicates a timestamp (or the time embedded in a
	// UUIDv7) lies more than MaxFutureSkew ahead of the server clock
	ErrFutureTimestamp = errors.New("timestamp is too far in the future")
)

// MaxFutureSkew is how far ahead of the server clock a device's clock may run
const MaxFutureSkew = time.Minute

// ValidateUUIDv7 validates that id is a UUIDv7 whose embedded time is not
// beyond now + MaxFutureSkew.
func ValidateUUIDv7(id string, now time.Time) error {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidUUID, err)
	}

	if parsed.Version() != 7 {
		return fmt.Errorf("%w: got version %d", ErrNotUUIDv7, parsed.Version())
	}

	return checkNotFuture(UUIDv7Time(parsed), now)
}

// UUIDv7Time extracts the embedded Unix-millisecond time of a UUIDv7
func UUIDv7Time(id uuid.UUID) time.Time {
	sec, nsec := id.Time().UnixTime()
	return time.Unix(sec, nsec).UTC()
}

// NewObservationID returns a time-ordered UUIDv7. The embedded time is the
// wall clock, not Options.Now.
func NewObservationID() (string, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return "", fmt.Errorf("generate id: %w", err)
	}
	return id.String(), nil
}

func checkNotFuture(ts, now time.Time) error {
	if ts.After(now.Add(MaxFutureSkew)) {
		return fmt.Errorf("%w: %s is more than %s ahead", ErrFutureTimestamp,
			ts.Format(time.RFC3339), MaxFutureSkew)
	}
	return nil
}
