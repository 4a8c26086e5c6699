package config

import "sort"

// Presets holds named parameter sets per lesson.
var Presets = map[string]map[string]*Config{
	"planck_law": {
		"sun":               {Lesson: "planck_law", Params: map[string]float64{"T": 5800}},
		"incandescent":      {Lesson: "planck_law", Params: map[string]float64{"T": 2700}},
		"cosmic_background": {Lesson: "planck_law", Params: map[string]float64{"T": 2.725}, LogY: true},
	},
	"rlc_step_response": {
		"underdamped": {Lesson: "rlc_step_response", Params: map[string]float64{"R": 2, "L": 1, "C": 10}},
		"critical":    {Lesson: "rlc_step_response", Params: map[string]float64{"R": 20, "L": 1, "C": 10}},
		"overdamped":  {Lesson: "rlc_step_response", Params: map[string]float64{"R": 30, "L": 0.1, "C": 10}},
	},
	"rlc_frequency_response": {
		"sharp":    {Lesson: "rlc_frequency_response", Params: map[string]float64{"R": 1, "L": 3, "C": 10}},
		"critical": {Lesson: "rlc_frequency_response", Params: map[string]float64{"R": 20, "L": 1, "C": 10}},
	},
	"kepler_orbits": {
		"earth":  {Lesson: "kepler_orbits", Params: map[string]float64{"mass_ratio": -2, "a": 1, "e": 0.0167}},
		"comet":  {Lesson: "kepler_orbits", Params: map[string]float64{"mass_ratio": -2, "a": 10, "e": 0.967}},
		"binary": {Lesson: "kepler_orbits", Params: map[string]float64{"mass_ratio": 0, "a": 2, "e": 0.5}},
	},
	"young_slits": {
		"sodium": {Lesson: "young_slits", Params: map[string]float64{"lambda": 589}},
		"he_ne":  {Lesson: "young_slits", Params: map[string]float64{"lambda": 633}},
	},
	"sampling": {
		"nyquist": {Lesson: "sampling", Params: map[string]float64{"fs": 20}},
		"aliased": {Lesson: "sampling", Params: map[string]float64{"fs": 11}},
	},
	"n_slit_diffraction": {
		"grating": {Lesson: "n_slit_diffraction", Params: map[string]float64{"N": 30, "a": 2, "b": 1}},
	},
	"van_der_waals": {
		"near_critical": {Lesson: "van_der_waals", Params: map[string]float64{"Tr": 0.98}},
		"supercritical": {Lesson: "van_der_waals", Params: map[string]float64{"Tr": 1.1}},
	},
}

func GetPreset(lesson, preset string) *Config {
	lessonPresets, ok := Presets[lesson]
	if !ok {
		return nil
	}
	cfg, ok := lessonPresets[preset]
	if !ok {
		return nil
	}
	return cfg
}

func ListPresets(lesson string) []string {
	lessonPresets, ok := Presets[lesson]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(lessonPresets))
	for name := range lessonPresets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
