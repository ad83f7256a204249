package resilience

// Guard pairs a breaker with an enable switch and a classifier deciding
// which errors count against the dependency.
type Guard struct {
	breaker   *CircuitBreaker
	enabled   bool
	isFailure func(error) bool
}

// NewGuard builds a guard from cfg. A nil classifier treats every error as a
// failure.
func NewGuard(cfg CircuitBreakerConfig, isFailure func(error) bool) *Guard {
	if isFailure == nil {
		isFailure = func(err error) bool { return err != nil }
	}
	return &Guard{
		breaker:   NewCircuitBreaker(cfg),
		enabled:   cfg.Enabled,
		isFailure: isFailure,
	}
}

// Allow returns ErrCircuitOpen while the dependency is tripped.
func (g *Guard) Allow() error {
	if g == nil || !g.enabled {
		return nil
	}
	return g.breaker.Allow()
}

// Record reports the outcome of a call admitted by Allow.
func (g *Guard) Record(err error) {
	if g == nil || !g.enabled {
		return
	}
	if err != nil && g.isFailure(err) {
		g.breaker.RecordFailure()
		return
	}
	g.breaker.RecordSuccess()
}

func (g *Guard) State() CircuitState {
	if g == nil || !g.enabled {
		return CircuitStateClosed
	}
	return g.breaker.State()
}
