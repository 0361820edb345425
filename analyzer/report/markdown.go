package report

import (
	"fmt"
	"io"
	"strings"

	"gosuda.org/zisk-timing/analyzer"
	"gosuda.org/zisk-timing/utils"
)

// cellEscaper neutralizes log-derived text inside table cells. Markup
// characters are backslash escaped and angle brackets become entities.
var cellEscaper = strings.NewReplacer(
	`\`, `\\`,
	"`", "\\`",
	"|", `\|`,
	"*", `\*`,
	"_", `\_`,
	"[", `\[`,
	"]", `\]`,
	"<", "&lt;",
	">", "&gt;",
)

func escapeCell(s string) string { return cellEscaper.Replace(s) }

// Markdown writes the report as markdown tables. It carries the same data
// as Text and is what the HTML viewer renders.
func Markdown(w io.Writer, name string, res *analyzer.Analysis, opts Options) error {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("# ZisK Cycle Counting Report - %s\n\n", escapeCell(name)))
	if res == nil || res.Stats == nil {
		b.WriteString(noDataMsg + "\n")
		_, err := io.WriteString(w, b.String())
		return err
	}
	st := res.Stats

	b.WriteString("## Overall Execution Statistics\n\n")
	b.WriteString("| Metric | Value |\n")
	b.WriteString("|---|---|\n")
	b.WriteString(fmt.Sprintf("| Total Steps | %s |\n", utils.Commas(st.TotalSteps)))
	b.WriteString(fmt.Sprintf("| Total Duration | %.4f s |\n", st.TotalDuration))
	b.WriteString(fmt.Sprintf("| Total Cost | %.2f sec |\n", st.TotalCost))
	b.WriteString(fmt.Sprintf("| Throughput | %.2f Msteps/s |\n", st.Throughput))
	b.WriteString(fmt.Sprintf("| Frequency | %.0f MHz |\n", st.Frequency))
	b.WriteString(fmt.Sprintf("| Clocks per Step | %.2f |\n\n", st.ClocksPerStep))

	b.WriteString(fmt.Sprintf("## Operations (%d, %s)\n\n", len(res.Operations), policyLabel(res)))
	if len(res.Attribution) == 0 {
		b.WriteString("No operations detected.\n\n")
	} else {
		b.WriteString("| # | Operation | Weight | Steps | Time (s) | Cost (sec) |\n")
		b.WriteString("|---|---|---|---|---|---|\n")
		for i, a := range res.Attribution {
			b.WriteString(fmt.Sprintf("| %d | %s | %s | %s | %.4f | %.2f |\n",
				i+1, escapeCell(a.Name), utils.Percent(a.Weight), utils.Commas(a.Steps), a.Duration, a.Cost))
		}
		b.WriteString("\n")
	}

	if len(res.Opcodes) > 0 {
		b.WriteString("## Top Expensive Opcodes\n\n")
		b.WriteString("| Opcode | Cost (sec) | Steps/op | Ops |\n")
		b.WriteString("|---|---|---|---|\n")
		for _, op := range res.TopOpcodes(opts.top()) {
			b.WriteString(fmt.Sprintf("| %s | %.2f | %d | %s |\n",
				escapeCell(op.Name), op.Cost, op.StepsPerOp, utils.Commas(op.Operations)))
		}
		b.WriteString("\n")
	}

	if m := res.Memory; m != nil {
		b.WriteString("## Memory Usage\n\n")
		b.WriteString("| | Aligned | Non-aligned 1 | Non-aligned 2 | Total |\n")
		b.WriteString("|---|---|---|---|---|\n")
		b.WriteString(fmt.Sprintf("| Reads | %s | %s | %s | %s |\n",
			utils.Commas(m.AlignedReads), utils.Commas(m.NonAlignedReads1),
			utils.Commas(m.NonAlignedReads2), utils.Commas(m.TotalReads())))
		b.WriteString(fmt.Sprintf("| Writes | %s | %s | %s | %s |\n",
			utils.Commas(m.AlignedWrites), utils.Commas(m.NonAlignedWrites1),
			utils.Commas(m.NonAlignedWrites2), utils.Commas(m.TotalWrites())))
		b.WriteString(fmt.Sprintf("\nTotal memory operations: %s\n", utils.Commas(m.Total())))
	}

	_, err := io.WriteString(w, b.String())
	return err
}
