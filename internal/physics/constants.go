package physics

import "math"

// Physical constants in SI units.
const (
	C      = 299792458.0      // speed of light
	H      = 6.6260693e-34    // Planck
	K      = 1.3806505e-23    // Boltzmann
	E      = 1.60217653e-19   // elementary charge
	Me     = 9.1093826e-31    // electron mass
	Mp     = 1.67262171e-27   // proton mass
	G      = 6.67408e-11      // gravitation
	Na     = 6.0221415e23     // Avogadro
	Mu0    = 12.566370614e-7  // vacuum permeability
	Eps0   = 8.854187817e-12  // vacuum permittivity
	Amu    = 1.66053886e-27   // atomic mass unit
	Msun   = 1.988e30         // solar mass
	Mearth = 5.9722e24        // Earth mass
	AU     = 1.495978707e11   // astronomical unit
	Year   = 365 * 86400.0    // seconds in a year
	WienB  = 2.897771955e-3   // Wien displacement constant (m K)
	Hbar   = H / (2 * math.Pi)
)
