// Package widgets binds a lesson to its controls. A [Session] holds the
// parameter values, line visibility, axis mode and animation frame of one
// lesson and re-plots it on every change; front ends subscribe with
// [Session.OnRedraw] and act as sliders and buttons by calling its methods.
package widgets
