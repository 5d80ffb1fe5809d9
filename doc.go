// Package hfsmx implements a deterministic, single-threaded hierarchical
// finite state machine (HFSM) engine: a static tree of regions and states,
// executed tick by tick.
//
// A region groups child states under one of several selection strategies
// (Composite, Resumable, Utilitarian, RandomUtil) or runs them all in
// parallel (Orthogonal). Every state exposes lifecycle hooks (entry guard,
// enter, update, react, exit guard, exit) through a StateBody, and requests
// transitions through a FullControl handed to it during dispatch.
//
// The tree is assembled once via Builder and is immutable for the lifetime
// of the Machine; there is no dynamic state registration and no background
// goroutines — every exported Machine method runs synchronously on its
// caller.
package hfsmx
