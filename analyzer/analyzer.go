package analyzer

import (
	"fmt"
	"io"

	"github.com/rs/zerolog/log"
)

// Options configures an Analyzer.
type Options struct {
	Policy       Policy
	SidecarPaths []string
	Weights      WeightTable
}

type Option func(*Options)

func WithPolicy(p Policy) Option {
	return func(o *Options) { o.Policy = p }
}

// WithSidecarPaths replaces the sidecar search list. An empty list disables
// sidecar lookup.
func WithSidecarPaths(paths ...string) Option {
	return func(o *Options) { o.SidecarPaths = append([]string(nil), paths...) }
}

func WithWeights(table WeightTable) Option {
	return func(o *Options) { o.Weights = table }
}

// Analyzer turns one ZisK execution log into an Analysis. It keeps no state
// between calls.
type Analyzer struct {
	opts Options
}

func New(opts ...Option) *Analyzer {
	o := Options{
		Policy:       PolicyMeasured,
		SidecarPaths: append([]string(nil), DefaultSidecarPaths...),
		Weights:      WeightTable{Weights: DefaultWeights(), Default: DefaultWeight},
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.Policy == "" {
		o.Policy = PolicyMeasured
	}
	return &Analyzer{opts: o}
}

// AnalyzeReader reads r to completion and analyzes its contents.
func (a *Analyzer) AnalyzeReader(r io.Reader) (*Analysis, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}
	return a.Analyze(string(data)), nil
}

// Analyze runs every extractor over text and attributes cost according to
// the configured policy.
func (a *Analyzer) Analyze(text string) *Analysis {
	res := &Analysis{
		Operations: ParseMarkers(text),
		Stats:      ParseExecutionStats(text),
		Opcodes:    ParseOpcodeStats(text),
		Memory:     ParseMemoryStats(text),
	}
	a.attribute(res)

	log.Debug().
		Int("operations", len(res.Operations)).
		Int("opcodes", len(res.Opcodes)).
		Bool("stats", res.Stats != nil).
		Bool("memory", res.Memory != nil).
		Str("policy", string(res.Policy)).
		Msg("[analyzer] parsed")
	return res
}

func (a *Analyzer) attribute(res *Analysis) {
	switch a.opts.Policy {
	case PolicyWeighted:
		res.Policy = PolicyWeighted
		res.Attribution = AttributeWeighted(res.Operations, res.Stats, a.opts.Weights)
	case PolicyMeasured:
		if measured, path, ok := FindSidecar(a.opts.SidecarPaths); ok {
			res.Policy = PolicyMeasured
			res.SidecarPath = path
			res.Operations = measured
			res.Attribution = AttributeMeasured(measured, res.Stats)
			return
		}
		fallthrough
	default:
		res.Policy = PolicyEqualShare
		res.Attribution = AttributeEqualShare(res.Operations, res.Stats)
	}
	if len(res.Attribution) > 0 {
		res.Operations = applyAttribution(res.Attribution)
	}
}
