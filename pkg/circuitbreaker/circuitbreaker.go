package circuitbreaker

import (
	"errors"
	"sync"
	"time"
)

// ErrOpen is returned without invoking the wrapped call while the breaker
// is open.
var ErrOpen = errors.New("circuit breaker is open")

type State int

const (
	StateClosed State = iota
	StateOpen
	StateHalfOpen
)

type Config struct {
	Name string
	// FailureThreshold consecutive failures trip the breaker.
	FailureThreshold int
	// Cooldown is how long the breaker stays open before letting a trial
	// call through.
	Cooldown time.Duration
}

// Breaker sheds calls to a failing dependency. After FailureThreshold
// consecutive failures it rejects calls for Cooldown, then admits one trial
// call: success closes the breaker, failure reopens it.
type Breaker struct {
	name      string
	threshold int
	cooldown  time.Duration

	mu       sync.Mutex
	state    State
	failures int
	openedAt time.Time
}

func New(config Config) *Breaker {
	if config.FailureThreshold <= 0 {
		config.FailureThreshold = 5
	}
	if config.Cooldown <= 0 {
		config.Cooldown = 30 * time.Second
	}
	return &Breaker{
		name:      config.Name,
		threshold: config.FailureThreshold,
		cooldown:  config.Cooldown,
		state:     StateClosed,
	}
}

func (b *Breaker) Execute(fn func() error) error {
	if !b.admit() {
		return ErrOpen
	}

	err := fn()
	b.record(err)
	return err
}

func (b *Breaker) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}

func (b *Breaker) admit() bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.state != StateOpen {
		return true
	}
	if time.Since(b.openedAt) >= b.cooldown {
		b.state = StateHalfOpen
		return true
	}
	return false
}

func (b *Breaker) record(err error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if err != nil {
		b.failures++
		if b.state == StateHalfOpen || b.failures >= b.threshold {
			b.state = StateOpen
			b.openedAt = time.Now()
		}
		return
	}

	b.state = StateClosed
	b.failures = 0
}
