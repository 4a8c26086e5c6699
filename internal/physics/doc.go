// Package physics provides the model functions behind the lessons.
//
// Most models are plain functions or small value types evaluated pointwise:
//
//   - [Grating] and [YoungSlits]: diffraction and interference intensities
//   - [PlanckNu] and its Wien and Rayleigh-Jeans approximations
//   - [Barrier]: tunnel effect transmission
//   - [SeriesRLC]: step and frequency responses
//   - [Orbit]: Keplerian two body orbits
//   - [VdWPressure], [Spinodal] and [Maxwell]: van der Waals isotherms
//
// Two models implement [dynamo.System] and are integrated numerically:
// the [Pendulum] for phase portraits and the Schrödinger equation inside a
// [SquareWell], whose bound states are found by shooting:
//
//	well := physics.NewSquareWell()
//	energies, err := well.Eigenenergies(ctx)
//
// Units are SI unless a type says otherwise. The quantum models use ħ = m = 1
// and the van der Waals functions use reduced variables.
package physics
