package analyzer

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	markerRegex     = regexp.MustCompile(`TIMING_(START|END):(.+)`)
	totalCostRegex  = regexp.MustCompile(`Total Cost: ([\d.]+) sec`)
	mainCostRegex   = regexp.MustCompile(`Main Cost: ([\d.]+) sec ([\d,]+) steps`)
	processROMRegex = regexp.MustCompile(`process_rom\(\) steps=([\d,]+) duration=([\d.]+) tp=([\d.]+) Msteps/s freq=([\d.]+) ([\d.]+) clocks/step`)
	opcodeRegex     = regexp.MustCompile(`(\w+): ([\d.]+) sec \((\d+) steps/op\) \(([\d,]+) ops\)`)
	memoryRegex     = regexp.MustCompile(`Memory: ([\d,]+) a reads \+ ([\d,]+) na1 reads \+ ([\d,]+) na2 reads \+ ([\d,]+) a writes \+ ([\d,]+) na1 writes \+ ([\d,]+) na2 writes`)
)

// ParseMarkers returns the operations that have both a TIMING_START and a
// TIMING_END marker, in order of first appearance.
func ParseMarkers(text string) []Operation {
	type seen struct {
		start, end bool
	}
	var order []string
	markers := make(map[string]*seen)

	for _, m := range markerRegex.FindAllStringSubmatch(text, -1) {
		name := strings.TrimSpace(m[2])
		if name == "" {
			continue
		}
		s, ok := markers[name]
		if !ok {
			s = &seen{}
			markers[name] = s
			order = append(order, name)
		}
		if m[1] == "START" {
			s.start = true
		} else {
			s.end = true
		}
	}

	var ops []Operation
	for _, name := range order {
		if s := markers[name]; s.start && s.end {
			ops = append(ops, Operation{Name: name})
		}
	}
	return ops
}

// ParseExecutionStats extracts the aggregate counters. It returns nil when
// none of the cost or process_rom lines are present.
func ParseExecutionStats(text string) *ExecutionStats {
	total := totalCostRegex.FindStringSubmatch(text)
	main := mainCostRegex.FindStringSubmatch(text)
	rom := processROMRegex.FindStringSubmatch(text)
	if total == nil && main == nil && rom == nil {
		return nil
	}

	stats := &ExecutionStats{}
	if total != nil {
		stats.TotalCost = parseFloat(total[1])
	}
	if rom != nil {
		stats.TotalSteps = parseInt(rom[1])
		stats.TotalDuration = parseFloat(rom[2])
		stats.Throughput = parseFloat(rom[3])
		stats.Frequency = parseFloat(rom[4])
		stats.ClocksPerStep = parseFloat(rom[5])
	}
	// The Main Cost line is authoritative for the step count.
	if main != nil {
		stats.MainCost = parseFloat(main[1])
		stats.TotalSteps = parseInt(main[2])
	}
	return stats
}

// ParseOpcodeStats extracts per-opcode cost lines. A repeated opcode keeps
// the last value seen.
func ParseOpcodeStats(text string) map[string]OpcodeStat {
	opcodes := make(map[string]OpcodeStat)
	for _, m := range opcodeRegex.FindAllStringSubmatch(text, -1) {
		opcodes[m[1]] = OpcodeStat{
			Cost:       parseFloat(m[2]),
			StepsPerOp: parseInt(m[3]),
			Operations: parseInt(m[4]),
		}
	}
	return opcodes
}

func ParseMemoryStats(text string) *MemoryStats {
	m := memoryRegex.FindStringSubmatch(text)
	if m == nil {
		return nil
	}
	return &MemoryStats{
		AlignedReads:      parseInt(m[1]),
		NonAlignedReads1:  parseInt(m[2]),
		NonAlignedReads2:  parseInt(m[3]),
		AlignedWrites:     parseInt(m[4]),
		NonAlignedWrites1: parseInt(m[5]),
		NonAlignedWrites2: parseInt(m[6]),
	}
}

// parseInt accepts thousands separators; malformed input yields 0.
func parseInt(s string) int64 {
	v, err := strconv.ParseInt(strings.ReplaceAll(s, ",", ""), 10, 64)
	if err != nil {
		return 0
	}
	return v
}

func parseFloat(s string) float64 {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}
