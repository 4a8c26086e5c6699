// Package dynamo provides the primitives shared by every lesson.
//
// The package defines:
//
//   - [Param] and [Params]: bounded, named controls with remembered defaults
//   - [Values]: a snapshot of parameter values passed to model functions
//   - [State] and [System]: first order ODE systems (dX/dt = f(X, t))
//   - [Linspace], [Logspace], [Arange], [Meshgrid]: sampling grids
//   - sentinel errors used across the numerical packages
//
// # Example
//
//	ps := dynamo.NewParams(
//	    dynamo.Param{Name: "T", Description: "Temperature -- T (K)", Value: 5800, Min: 1, Max: 10000},
//	)
//	if err := ps.Set("T", 3000); err != nil {
//	    // errors.Is(err, dynamo.ErrParameterBounds)
//	}
//	lambda := dynamo.Logspace(-7, -5.5, 1001)
//
// # Thread Safety
//
// Params is NOT thread-safe. Front ends that drive it from several
// goroutines wrap it in a widgets.Session.
package dynamo
