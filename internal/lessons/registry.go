package lessons

import (
	"fmt"
	"sort"
)

type Registry struct {
	lessons map[string]func() Lesson
}

type Option func(*options)

type options struct {
	vdwData string
}

// WithVdWData points the van der Waals lesson at a precomputed coexistence
// file instead of computing the curves on first use.
func WithVdWData(path string) Option {
	return func(o *options) { o.vdwData = path }
}

func NewRegistry() *Registry {
	return &Registry{lessons: make(map[string]func() Lesson)}
}

// Default returns a registry holding every lesson.
func Default(opts ...Option) *Registry {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	r := NewRegistry()
	r.Register(NewNSlitDiffraction)
	r.Register(NewParticleDiffusion)
	r.Register(NewSampling)
	r.Register(NewCouetteFlow)
	r.Register(NewPoiseuilleFlow)
	r.Register(NewTunnelEffect)
	r.Register(NewYoungSlits)
	r.Register(NewTwoWaveInterference)
	r.Register(NewPlanckLaw)
	r.Register(NewKeplerOrbits)
	r.Register(NewDampedOscillator)
	r.Register(NewPhasePortrait)
	r.Register(NewDispersivePropagation)
	r.Register(NewWaveReflection)
	r.Register(NewSoundPropagation)
	r.Register(NewQuantumWell)
	r.Register(NewRLCStepResponse)
	r.Register(NewRLCFrequencyResponse)
	r.Register(func() Lesson { return NewVanDerWaals(o.vdwData) })
	return r
}

// Register adds a factory under the name of the lesson it builds. A later
// registration with the same name replaces the earlier one.
func (r *Registry) Register(factory func() Lesson) {
	r.lessons[factory().Name()] = factory
}

func (r *Registry) Get(name string) (Lesson, error) {
	fn, ok := r.lessons[name]
	if !ok {
		return nil, fmt.Errorf("unknown lesson: %s", name)
	}
	return fn(), nil
}

func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.lessons))
	for name := range r.lessons {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// All builds one instance of every lesson, sorted by name.
func (r *Registry) All() []Lesson {
	names := r.Names()
	out := make([]Lesson, len(names))
	for i, name := range names {
		out[i] = r.lessons[name]()
	}
	return out
}
