package analyzer

import "sort"

// DefaultTopOpcodes is how many opcodes the report lists.
const DefaultTopOpcodes = 10

type RankedOpcode struct {
	Name string
	OpcodeStat
}

// TopOpcodes returns at most n opcodes ordered by cost, most expensive
// first. Equal costs are ordered by name. n <= 0 returns all of them.
func (a *Analysis) TopOpcodes(n int) []RankedOpcode {
	ranked := make([]RankedOpcode, 0, len(a.Opcodes))
	for name, st := range a.Opcodes {
		ranked = append(ranked, RankedOpcode{Name: name, OpcodeStat: st})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Cost != ranked[j].Cost {
			return ranked[i].Cost > ranked[j].Cost
		}
		return ranked[i].Name < ranked[j].Name
	})
	if n > 0 && len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}
