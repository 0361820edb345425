package analyzer

import (
	"fmt"
	"strings"
)

// Policy selects how the run's total cost is split across operations.
type Policy string

const (
	// PolicyMeasured uses sidecar measurements when available and falls
	// back to PolicyEqualShare otherwise.
	PolicyMeasured   Policy = "measured"
	PolicyEqualShare Policy = "equal"
	// PolicyWeighted applies a fixed per-name weight table.
	PolicyWeighted Policy = "weighted"
)

func ParsePolicy(s string) (Policy, error) {
	switch p := Policy(strings.ToLower(strings.TrimSpace(s))); p {
	case "":
		return PolicyMeasured, nil
	case PolicyMeasured, PolicyEqualShare, PolicyWeighted:
		return p, nil
	default:
		return "", fmt.Errorf("unknown attribution policy %q (want measured, equal or weighted)", s)
	}
}

// DefaultWeight is applied by PolicyWeighted to names missing from the table.
const DefaultWeight = 0.20

// DefaultWeights is the complexity table for the beacon-state guest program.
func DefaultWeights() map[string]float64 {
	return map[string]float64{
		"deserialize-pre-state-ssz":   0.15,
		"deserialize-operation-input": 0.05,
		"process-operation":           0.70,
		"merkleize-operation":         0.08,
		"output-state-root":           0.02,
	}
}

// WeightTable is the configuration for PolicyWeighted.
type WeightTable struct {
	Weights map[string]float64
	Default float64
}

func (t WeightTable) weight(name string) float64 {
	if w, ok := t.Weights[name]; ok {
		return w
	}
	return t.Default
}

// AttributeEqualShare gives each operation 1/N of the totals. Steps are
// truncated, so their sum may fall short of the total by at most N-1.
func AttributeEqualShare(ops []Operation, stats *ExecutionStats) []Attribution {
	if len(ops) == 0 || stats == nil {
		return nil
	}
	n := len(ops)
	weight := 1 / float64(n)
	out := make([]Attribution, 0, n)
	for _, op := range ops {
		out = append(out, Attribution{
			Name:     op.Name,
			Weight:   weight,
			Steps:    stats.TotalSteps / int64(n),
			Duration: stats.TotalDuration / float64(n),
			Cost:     stats.TotalCost / float64(n),
		})
	}
	return out
}

// AttributeWeighted applies the weight table to every operation.
func AttributeWeighted(ops []Operation, stats *ExecutionStats, table WeightTable) []Attribution {
	if len(ops) == 0 || stats == nil {
		return nil
	}
	out := make([]Attribution, 0, len(ops))
	for _, op := range ops {
		w := table.weight(op.Name)
		out = append(out, Attribution{
			Name:     op.Name,
			Weight:   w,
			Steps:    int64(float64(stats.TotalSteps) * w),
			Duration: stats.TotalDuration * w,
			Cost:     stats.TotalCost * w,
		})
	}
	return out
}

// AttributeMeasured uses recorded values as-is with weight steps/total.
// The total is the run's step count, or the sum of measured steps when no
// stats were parsed.
func AttributeMeasured(measured []Operation, stats *ExecutionStats) []Attribution {
	if len(measured) == 0 {
		return nil
	}
	var total int64
	if stats != nil {
		total = stats.TotalSteps
	}
	if total == 0 {
		for _, op := range measured {
			if op.Steps != nil {
				total += *op.Steps
			}
		}
	}

	out := make([]Attribution, 0, len(measured))
	for _, op := range measured {
		a := Attribution{Name: op.Name}
		if op.Steps != nil {
			a.Steps = *op.Steps
		}
		if op.Duration != nil {
			a.Duration = *op.Duration
		}
		if op.Cost != nil {
			a.Cost = *op.Cost
		}
		if total > 0 {
			a.Weight = float64(a.Steps) / float64(total)
		}
		out = append(out, a)
	}
	return out
}

// applyAttribution rebuilds the operation list from the attribution so the
// export carries the same numbers the report shows.
func applyAttribution(attr []Attribution) []Operation {
	ops := make([]Operation, 0, len(attr))
	for _, a := range attr {
		steps, duration, cost := a.Steps, a.Duration, a.Cost
		ops = append(ops, Operation{
			Name:     a.Name,
			Steps:    &steps,
			Duration: &duration,
			Cost:     &cost,
		})
	}
	return ops
}
