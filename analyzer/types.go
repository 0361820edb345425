package analyzer

import "errors"

var (
	ErrNoData       = errors.New("no execution statistics found")
	ErrNoOperations = errors.New("no operations detected")
)

// Operation is one named pipeline phase bracketed by TIMING markers or
// loaded from a sidecar measurement file. Nil fields mean "not measured".
type Operation struct {
	Name     string   `json:"name"`
	Steps    *int64   `json:"steps"`
	Duration *float64 `json:"duration"`
	Cost     *float64 `json:"cost"`
}

// ExecutionStats holds the aggregate counters printed by the emulator.
type ExecutionStats struct {
	TotalSteps    int64   `json:"total_steps"`
	TotalDuration float64 `json:"total_duration"`
	TotalCost     float64 `json:"total_cost"`
	MainCost      float64 `json:"main_cost"`
	Throughput    float64 `json:"throughput"`
	Frequency     float64 `json:"frequency"`
	ClocksPerStep float64 `json:"clocks_per_step"`
}

type OpcodeStat struct {
	Cost       float64 `json:"cost"`
	StepsPerOp int64   `json:"steps_per_op"`
	Operations int64   `json:"operations"`
}

// MemoryStats counts aligned (a) and non-aligned (na1, na2) accesses.
type MemoryStats struct {
	AlignedReads      int64
	NonAlignedReads1  int64
	NonAlignedReads2  int64
	AlignedWrites     int64
	NonAlignedWrites1 int64
	NonAlignedWrites2 int64
}

func (m MemoryStats) TotalReads() int64 {
	return m.AlignedReads + m.NonAlignedReads1 + m.NonAlignedReads2
}

func (m MemoryStats) TotalWrites() int64 {
	return m.AlignedWrites + m.NonAlignedWrites1 + m.NonAlignedWrites2
}

func (m MemoryStats) Total() int64 {
	return m.TotalReads() + m.TotalWrites()
}

// Attribution is the share of the run assigned to one operation.
type Attribution struct {
	Name     string
	Weight   float64
	Steps    int64
	Duration float64
	Cost     float64
}

// Analysis is the in-memory result of a single pass over one log.
type Analysis struct {
	Operations  []Operation
	Stats       *ExecutionStats
	Opcodes     map[string]OpcodeStat
	Memory      *MemoryStats
	Attribution []Attribution

	// Policy is the attribution policy that was actually applied.
	Policy Policy
	// SidecarPath is set when measurements were loaded from a sidecar file.
	SidecarPath string
}
