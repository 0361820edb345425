package report

import (
	"bufio"
	"fmt"
	"io"

	"github.com/fatih/color"

	"gosuda.org/zisk-timing/analyzer"
	"gosuda.org/zisk-timing/utils"
)

const (
	title     = "ZISK PER-OPERATION CYCLE COUNTING ANALYSIS REPORT"
	noDataMsg = "No execution statistics found. Please provide valid ZisK output."
)

// Options controls report rendering.
type Options struct {
	// TopOpcodes limits the opcode ranking; 0 means analyzer.DefaultTopOpcodes.
	TopOpcodes int
	// Color highlights headings with ANSI escapes.
	Color bool
}

func (o Options) top() int {
	if o.TopOpcodes <= 0 {
		return analyzer.DefaultTopOpcodes
	}
	return o.TopOpcodes
}

// Text writes the fixed-layout plain text report.
func Text(w io.Writer, res *analyzer.Analysis, opts Options) error {
	bw := bufio.NewWriter(w)
	line := func(format string, args ...interface{}) {
		fmt.Fprintf(bw, format, args...)
		bw.WriteByte('\n')
	}

	heading := fmt.Sprint
	if opts.Color {
		c := color.New(color.Bold, color.FgCyan)
		c.EnableColor()
		heading = c.Sprint
	}

	if res == nil || res.Stats == nil {
		line("%s", noDataMsg)
		return bw.Flush()
	}
	st := res.Stats

	line("%s", utils.Rule("=", 80))
	line("%s", heading(title))
	line("%s", utils.Rule("=", 80))
	line("")

	line("%s", heading("OVERALL EXECUTION STATISTICS"))
	line("%s", utils.Rule("-", 40))
	line("Total Steps: %s", utils.Commas(st.TotalSteps))
	line("Total Duration: %.4f seconds", st.TotalDuration)
	line("Total Cost: %.2f sec", st.TotalCost)
	line("Throughput: %.2f Msteps/s", st.Throughput)
	line("Frequency: %.0f MHz", st.Frequency)
	line("Clocks per Step: %.2f", st.ClocksPerStep)
	line("")

	line("%s", heading(fmt.Sprintf("OPERATIONS DETECTED: %d", len(res.Operations))))
	line("%s", utils.Rule("-", 40))
	for i, op := range res.Operations {
		line("%d. %s", i+1, op.Name)
	}
	line("")

	if len(res.Attribution) > 0 {
		line("%s", heading(fmt.Sprintf("PER-OPERATION COST ANALYSIS (%s)", policyLabel(res))))
		line("%s", utils.Rule("-", 40))
		for _, a := range res.Attribution {
			line("%s:", a.Name)
			line("  Weight: %s", utils.Percent(a.Weight))
			line("  Steps: %s", utils.Commas(a.Steps))
			line("  Time: %.4f seconds", a.Duration)
			line("  Cost: %.2f sec", a.Cost)
			line("")
		}
	}

	if len(res.Opcodes) > 0 {
		line("%s", heading("TOP EXPENSIVE OPCODES"))
		line("%s", utils.Rule("-", 30))
		for _, op := range res.TopOpcodes(opts.top()) {
			line("%s: %.2f sec (%s ops)", op.Name, op.Cost, utils.Commas(op.Operations))
		}
		line("")
	}

	if m := res.Memory; m != nil {
		line("%s", heading("MEMORY USAGE ANALYSIS"))
		line("%s", utils.Rule("-", 30))
		line("Total Reads: %s", utils.Commas(m.TotalReads()))
		line("Total Writes: %s", utils.Commas(m.TotalWrites()))
		line("Total Memory Operations: %s", utils.Commas(m.Total()))
		line("")
	}

	line("%s", utils.Rule("=", 80))
	line("Analysis completed successfully.")
	line("%s", utils.Rule("=", 80))
	return bw.Flush()
}

func policyLabel(res *analyzer.Analysis) string {
	switch res.Policy {
	case analyzer.PolicyMeasured:
		if res.SidecarPath != "" {
			return "measured: " + res.SidecarPath
		}
		return "measured"
	case analyzer.PolicyWeighted:
		return "weighted"
	default:
		return "equal-share"
	}
}
