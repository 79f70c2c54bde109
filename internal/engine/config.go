package engine

// Config holds the engine's construction-time options.
type Config struct {
	// MaxOrders is a soft hint for sizing the order index and any pools;
	// exceeding it is the caller's concern (the core does not enforce
	// this as a hard pre-admission check).
	MaxOrders uint64

	// RingSize is the requested event-channel capacity; rounded up to
	// the next power of two.
	RingSize int

	// TickSize is the real price represented by one tick, used for
	// caller-side price conversions.
	TickSize float64

	// ReplaceDropOriginalOnFailure records the replace-failure policy and
	// defaults to true. The engine does not read it: when a replace's
	// resubmission is rejected the original order is lost whatever its
	// value, since cancellation has already happened by the time
	// resubmission runs and the original is not restored.
	ReplaceDropOriginalOnFailure bool
}

// DefaultConfig returns the engine's documented defaults.
func DefaultConfig() Config {
	return Config{
		MaxOrders:                     100_000,
		RingSize:                      10_000,
		TickSize:                      0.01,
		ReplaceDropOriginalOnFailure:  true,
	}
}
