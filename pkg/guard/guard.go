package guard

import (
	"github.com/milliihq/access/pkg/observability"
	"github.com/milliihq/access/pkg/permissions"
)

// PermissionSource is what the guard needs from the permission store.
// *store.Store satisfies it.
type PermissionSource interface {
	Loading() bool
	HasPermission(key permissions.Key) bool
	Role() permissions.Role
}

// Outcome classifies a guard decision.
type Outcome int

const (
	// OutcomeLoading means the store has not settled yet; show a
	// placeholder, never a denial.
	OutcomeLoading Outcome = iota
	// OutcomeAllowed means the request may proceed.
	OutcomeAllowed
	// OutcomeDenied means the request must be redirected.
	OutcomeDenied
)

// String returns the metric label for the outcome.
func (o Outcome) String() string {
	switch o {
	case OutcomeLoading:
		return "loading"
	case OutcomeAllowed:
		return "allowed"
	case OutcomeDenied:
		return "denied"
	default:
		return "unknown"
	}
}

// Decision is the result of evaluating a requirement against the current
// permission state. RedirectTarget is set only for denied decisions.
type Decision struct {
	Outcome        Outcome
	RedirectTarget string
}

// Targets holds the landing routes denied users are redirected to.
type Targets struct {
	// Portal receives denied client and guest users.
	Portal string
	// Dashboard receives every other denied user.
	Dashboard string
}

// DefaultTargets are the standard Millii landing routes.
func DefaultTargets() Targets {
	return Targets{Portal: "/portal", Dashboard: "/dashboard"}
}

// Guard evaluates permission requirements against the store. Every
// evaluation reads the live store state; no decision is ever cached, so a
// permission change takes effect on the next request.
type Guard struct {
	source  PermissionSource
	targets Targets
	log     *observability.Logger
	metrics *observability.Metrics
}

// Option configures a Guard.
type Option func(*Guard)

// WithTargets overrides the denial redirect targets.
func WithTargets(t Targets) Option {
	return func(g *Guard) {
		if t.Portal != "" {
			g.targets.Portal = t.Portal
		}
		if t.Dashboard != "" {
			g.targets.Dashboard = t.Dashboard
		}
	}
}

// WithLogger sets the structured logger.
func WithLogger(log *observability.Logger) Option {
	return func(g *Guard) { g.log = log.WithComponent("guard") }
}

// WithMetrics enables decision-outcome metrics.
func WithMetrics(m *observability.Metrics) Option {
	return func(g *Guard) { g.metrics = m }
}

// New creates a Guard over a permission source.
func New(source PermissionSource, opts ...Option) *Guard {
	g := &Guard{
		source:  source,
		targets: DefaultTargets(),
		log:     observability.NewLogger(observability.InfoLevel, nil).WithComponent("guard"),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Decide evaluates req against the current permission state. Checks run in
// strict priority order: a loading store short-circuits everything so an
// unsettled state can never produce a denial, an admin bypasses all
// requirements, an empty requirement always passes, and only then is the
// requirement evaluated against the effective set.
func (g *Guard) Decide(req permissions.Requirement) Decision {
	d := g.decide(req)
	if g.metrics != nil {
		g.metrics.GuardDecisionsTotal.WithLabelValues(d.Outcome.String()).Inc()
	}
	return d
}

func (g *Guard) decide(req permissions.Requirement) Decision {
	if g.source.Loading() {
		return Decision{Outcome: OutcomeLoading}
	}

	role := g.source.Role()
	if role.IsAdmin() {
		return Decision{Outcome: OutcomeAllowed}
	}
	if req.Mode == permissions.ModeNone {
		return Decision{Outcome: OutcomeAllowed}
	}
	if permissions.Evaluate(req, g.source.HasPermission) {
		return Decision{Outcome: OutcomeAllowed}
	}

	target := g.targets.Dashboard
	if role.IsPortalRole() {
		target = g.targets.Portal
	}
	return Decision{Outcome: OutcomeDenied, RedirectTarget: target}
}
