package circuitbreaker

import "time"

type Config struct {
	// Name shows up in state change notifications.
	Name string

	// Enabled false makes New return nil, and a nil Breaker runs every call.
	Enabled bool

	// HalfOpenProbes is how many calls may pass while half-open. Zero means one.
	HalfOpenProbes uint

	// ResetInterval clears the failure counts while closed. Zero never clears them.
	ResetInterval time.Duration

	// OpenTimeout is how long the breaker rejects calls before probing again.
	OpenTimeout time.Duration

	// FailureThreshold consecutive failures trip the breaker.
	FailureThreshold uint

	// Ignore reports errors that say nothing about the dependency's health.
	// Ignored errors are returned to the caller but count as successes.
	Ignore func(error) bool

	OnStateChange func(name string, from, to State)
}
