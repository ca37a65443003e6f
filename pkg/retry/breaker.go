package retry

import (
	"errors"
	"sync"
	"sync/atomic"
	"time"
)

// ErrCircuitOpen is returned while the breaker rejects calls.
var ErrCircuitOpen = errors.New("circuit breaker is open")

// CircuitState represents the state of a circuit breaker.
type CircuitState int32

const (
	// CircuitClosed lets every call through.
	CircuitClosed CircuitState = iota
	// CircuitOpen rejects calls until ResetTimeout has passed.
	CircuitOpen
	// CircuitHalfOpen lets calls through to probe for recovery.
	CircuitHalfOpen
)

func (s CircuitState) String() string {
	switch s {
	case CircuitClosed:
		return "closed"
	case CircuitOpen:
		return "open"
	case CircuitHalfOpen:
		return "half-open"
	default:
		return "unknown"
	}
}

// BreakerConfig configures a Breaker.
type BreakerConfig struct {
	// MaxErrors is the number of consecutive failures that opens the circuit.
	MaxErrors int

	// ResetTimeout is how long the circuit stays open before probing.
	ResetTimeout time.Duration

	// SuccessThreshold is the number of probe successes that close it again.
	SuccessThreshold int

	OnStateChange func(from, to CircuitState)
}

// DefaultBreakerConfig returns the loader defaults.
func DefaultBreakerConfig() *BreakerConfig {
	return &BreakerConfig{
		MaxErrors:        5,
		ResetTimeout:     30 * time.Second,
		SuccessThreshold: 1,
	}
}

// Breaker fails calls fast after repeated failures of an upstream.
type Breaker struct {
	config *BreakerConfig

	state        atomic.Int32
	errorCount   atomic.Int32
	successCount atomic.Int32

	// Unix nanoseconds.
	lastError atomic.Int64

	mu sync.Mutex
}

// NewBreaker creates a closed breaker. A nil config uses defaults.
func NewBreaker(config *BreakerConfig) *Breaker {
	if config == nil {
		config = DefaultBreakerConfig()
	}
	b := &Breaker{config: config}
	b.state.Store(int32(CircuitClosed))
	return b
}

// State returns the current circuit state.
func (b *Breaker) State() CircuitState {
	return CircuitState(b.state.Load())
}

// Allow reports whether a call may proceed. An open circuit turns
// half-open once ResetTimeout has passed since the last failure.
func (b *Breaker) Allow() error {
	if b.State() != CircuitOpen {
		return nil
	}
	lastErr := time.Unix(0, b.lastError.Load())
	if time.Since(lastErr) > b.config.ResetTimeout {
		b.setState(CircuitHalfOpen)
		return nil
	}
	return ErrCircuitOpen
}

// RecordSuccess records a successful call.
func (b *Breaker) RecordSuccess() {
	switch b.State() {
	case CircuitHalfOpen:
		if int(b.successCount.Add(1)) >= b.config.SuccessThreshold {
			b.Reset()
		}
	default:
		b.errorCount.Store(0)
	}
}

// RecordError records a failed call.
func (b *Breaker) RecordError() {
	b.lastError.Store(time.Now().UnixNano())

	switch b.State() {
	case CircuitClosed:
		if int(b.errorCount.Add(1)) >= b.config.MaxErrors {
			b.setState(CircuitOpen)
		}
	case CircuitHalfOpen:
		b.setState(CircuitOpen)
		b.successCount.Store(0)
	}
}

// Reset closes the circuit.
func (b *Breaker) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.setState(CircuitClosed)
	b.errorCount.Store(0)
	b.successCount.Store(0)
}

func (b *Breaker) setState(newState CircuitState) {
	oldState := CircuitState(b.state.Swap(int32(newState)))
	if b.config.OnStateChange != nil && oldState != newState {
		b.config.OnStateChange(oldState, newState)
	}
}

// Guard runs fn under b. A nil breaker just calls fn. Rejections are
// Permanent so Do does not keep retrying into an open circuit, and
// Permanent failures of fn are not held against the upstream.
func Guard[T any](b *Breaker, fn func() (T, error)) (T, error) {
	if b == nil {
		return fn()
	}

	var zero T
	if err := b.Allow(); err != nil {
		return zero, Permanent(err)
	}

	res, err := fn()
	switch {
	case err == nil:
		b.RecordSuccess()
	case !IsPermanent(err):
		b.RecordError()
	}
	return res, err
}
