package hfsmx

// Logger is the structured-logging capability the engine calls into for
// every dispatch hook, transition, and plan event (spec.md §6). It mirrors
// HFSM2's HFSM_LOG_* macro set, expressed as a Go interface so a Machine can
// be built with a no-op logger in production-hot paths and a logrus-backed
// one in development or tests.
type Logger interface {
	// RecordMethod is called around every StateBody hook invocation.
	RecordMethod(ctx any, id StateID, method Method)

	// RecordTransition is called once a request is actually committed
	// (after guard approval), not when it's merely queued.
	RecordTransition(ctx any, id StateID, kind RequestKind)

	// RecordTaskStatus is called when FullControl.Succeed/Fail marks a
	// plan task's origin state.
	RecordTaskStatus(ctx any, region RegionID, id StateID, event StatusEvent)

	// RecordPlanStatus is called when a region's plan drains to empty
	// (Succeeded) or is abandoned (Failed).
	RecordPlanStatus(ctx any, region RegionID, event StatusEvent)

	// RecordCancelledPending is called when a guard cancels a
	// substitution round.
	RecordCancelledPending(ctx any, id StateID)

	// RecordUtilityResolution is called after a Utilitarian selection.
	RecordUtilityResolution(ctx any, region RegionID, prong int, utility float64)

	// RecordRandomResolution is called after a RandomUtil selection.
	RecordRandomResolution(ctx any, region RegionID, prong int, utility float64)
}

// noopLogger discards everything; it's the default so a freshly built
// Machine never pays logging overhead unless AttachLogger is called.
type noopLogger struct{}

func (noopLogger) RecordMethod(any, StateID, Method)                       {}
func (noopLogger) RecordTransition(any, StateID, RequestKind)              {}
func (noopLogger) RecordTaskStatus(any, RegionID, StateID, StatusEvent)    {}
func (noopLogger) RecordPlanStatus(any, RegionID, StatusEvent)             {}
func (noopLogger) RecordCancelledPending(any, StateID)                    {}
func (noopLogger) RecordUtilityResolution(any, RegionID, int, float64)    {}
func (noopLogger) RecordRandomResolution(any, RegionID, int, float64)     {}

// internal adapter methods used by the rest of the package, so call sites
// read as m.log().recordMethod(...) rather than the exported
// Logger.RecordMethod(...) everywhere — keeps the public Logger interface
// capitalized/idiomatic while internal call sites stay terse.
type logAdapter struct{ Logger }

func (l logAdapter) recordMethod(ctx any, id StateID, method Method) {
	l.RecordMethod(ctx, id, method)
}
func (l logAdapter) recordTransition(ctx any, id StateID, kind RequestKind) {
	l.RecordTransition(ctx, id, kind)
}
func (l logAdapter) recordTaskStatus(ctx any, region RegionID, id StateID, event StatusEvent) {
	l.RecordTaskStatus(ctx, region, id, event)
}
func (l logAdapter) recordPlanStatus(ctx any, region RegionID, event StatusEvent) {
	l.RecordPlanStatus(ctx, region, event)
}
func (l logAdapter) recordCancelledPending(ctx any, id StateID) {
	l.RecordCancelledPending(ctx, id)
}
func (l logAdapter) recordUtilityResolution(ctx any, region RegionID, prong int, utility float64) {
	l.RecordUtilityResolution(ctx, region, prong, utility)
}
func (l logAdapter) recordRandomResolution(ctx any, region RegionID, prong int, utility float64) {
	l.RecordRandomResolution(ctx, region, prong, utility)
}
