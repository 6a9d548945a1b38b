package schedule

import "fmt"

// ConfigError reports an unusable day window. It is recoverable: the
// affected day is emitted empty and planning continues.
type ConfigError struct {
	Field string
	Err   error
}

func (e *ConfigError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("invalid %s: %v", e.Field, e.Err)
	}
	return fmt.Sprintf("invalid %s", e.Field)
}

func (e *ConfigError) Unwrap() error { return e.Err }

// CapacityError reports that the input is too large to plan. It aborts the
// run before any day is processed.
type CapacityError struct {
	Chapters int
	Limit    int
}

func (e *CapacityError) Error() string {
	return fmt.Sprintf("too many chapters: %d (limit %d)", e.Chapters, e.Limit)
}
