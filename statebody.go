package hfsmx

// StateBody is the user-supplied, polymorphic behavior attached to one leaf
// or region-head state (spec.md §1, "user-supplied state bodies"). Every
// method is mandatory; BaseState below embeds no-op defaults so a concrete
// type only needs to override what it cares about.
type StateBody interface {
	// EntryGuard runs before the state is entered. Returning false cancels
	// the pending transition for this substitution round (spec.md §4.3,
	// §4.5, §5).
	EntryGuard(ctl GuardControl) bool

	// Enter runs when the state becomes active.
	Enter(ctl PlanControl)

	// Reenter runs instead of Exit+Enter on the active states beneath a
	// region that is reaffirmed because a Change named its head while it was
	// already active (spec.md §4.5's inner-reaffirm path); the region's own
	// head is not re-entered. Most bodies leave this as a no-op; override it
	// to distinguish a reaffirm from a fresh entry.
	Reenter(ctl PlanControl)

	// Update runs once per tick while the state is active.
	Update(ctl FullControl) Status

	// React runs once per dispatched event while the state is active.
	React(event Event, ctl FullControl) Status

	// ExitGuard runs before the state is exited. Returning false cancels.
	ExitGuard(ctl GuardControl) bool

	// Exit runs when the state stops being active.
	Exit(ctl PlanControl)
}

// UtilityReporter is an optional capability (spec.md §4.2): a state that
// wants to influence Utilitarian/RandomUtil selection reports a utility
// value. States that don't implement it default to 1.0.
type UtilityReporter interface {
	Utility(ctl Control) float64
}

// RankReporter is an optional capability used by RandomUtil selection to
// rank prongs before weighting by utility. States that don't implement it
// default to rank 0.
type RankReporter interface {
	Rank(ctl Control) int8
}

// PlanAware is an optional capability invoked by the plan executor (spec.md
// §4.4, C8) on a region head when its plan completes or aborts.
type PlanAware interface {
	PlanSucceeded(ctl PlanControl)
	PlanFailed(ctl PlanControl)
}

// Dynamic is a marker interface for "dynamic" state bodies (spec.md §3/§9).
// The engine does not consult it: a body that implements Dynamic is still
// treated as static. A dynamic leaf is declared with DynamicState, whose
// Factory builds the body when the state is entered and whose body is
// discarded on destruct; a body passed to State is "static", built once by
// the caller and kept for the Machine's lifetime.
type Dynamic interface {
	hfsmxDynamic()
}

// Factory constructs a fresh StateBody instance for a dynamic state. Static
// states don't need one; they're built once and passed directly.
type Factory func() StateBody

// BaseState embeds into a concrete StateBody to provide no-op defaults for
// every hook, the way spec.md §9 recommends ("a trait with default
// methods; each user state provides overrides").
type BaseState struct{}

func (BaseState) EntryGuard(GuardControl) bool       { return true }
func (BaseState) Enter(PlanControl)                  {}
func (BaseState) Reenter(PlanControl)                {}
func (BaseState) Update(FullControl) Status          { return Status{Result: ResultNone} }
func (BaseState) React(Event, FullControl) Status    { return Status{Result: ResultNone} }
func (BaseState) ExitGuard(GuardControl) bool        { return true }
func (BaseState) Exit(PlanControl)                   {}
