package physics

import "github.com/san-kum/lessonlab/internal/dynamo"

// VelocityField is a sampled 2D flow, row-major over Y then X.
type VelocityField struct {
	X, Y [][]float64
	U, V [][]float64
}

// ChannelGrid is the 6 x 25 grid used for the channel flow profiles.
func ChannelGrid() (X, Y [][]float64) {
	return dynamo.Meshgrid(dynamo.Linspace(0, 3, 6), dynamo.Linspace(-1, 1, 25))
}

func field(profile func(y float64) float64) VelocityField {
	X, Y := ChannelGrid()
	f := VelocityField{X: X, Y: Y, U: make([][]float64, len(Y)), V: make([][]float64, len(Y))}
	for i := range Y {
		f.U[i] = make([]float64, len(Y[i]))
		f.V[i] = make([]float64, len(Y[i]))
		for j := range Y[i] {
			f.U[i][j] = profile(Y[i][j])
		}
	}
	return f
}

// Couette is the linear shear profile U = 4(y+1)/2 between a fixed wall at
// y = -1 and a moving wall at y = 1.
func Couette() VelocityField {
	return field(func(y float64) float64 { return 4 * (y + 1) / 2 })
}

// Poiseuille is the parabolic profile U = 4(1-y²) of pressure driven flow.
func Poiseuille() VelocityField {
	return field(func(y float64) float64 { return 4 * (1 - y*y) })
}
