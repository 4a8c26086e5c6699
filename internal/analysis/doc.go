// Package analysis derives secondary views of a model: amplitude spectra of
// sampled signals and phase portraits of integrated systems.
//
//	spectrum, err := analysis.NewSpectrum(samples, fs)
//	apparent := spectrum.Dominant()
package analysis
