package analyzer

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// DefaultExportPath is used when --export is given without a file name.
const DefaultExportPath = "timing_analysis.json"

// Document is the JSON export layout. It is also accepted as a sidecar file.
type Document struct {
	ExecutionStats *ExecutionStats       `json:"execution_stats"`
	Operations     []Operation           `json:"operations"`
	OpcodeStats    map[string]OpcodeStat `json:"opcode_stats"`
	MemoryStats    map[string]int64      `json:"memory_stats"`
}

func memoryMap(m *MemoryStats) map[string]int64 {
	out := make(map[string]int64, 6)
	if m == nil {
		return out
	}
	out["aligned_reads"] = m.AlignedReads
	out["non_aligned_reads_1"] = m.NonAlignedReads1
	out["non_aligned_reads_2"] = m.NonAlignedReads2
	out["aligned_writes"] = m.AlignedWrites
	out["non_aligned_writes_1"] = m.NonAlignedWrites1
	out["non_aligned_writes_2"] = m.NonAlignedWrites2
	return out
}

// NewDocument builds the export view of an analysis.
func NewDocument(res *Analysis) *Document {
	doc := &Document{
		ExecutionStats: res.Stats,
		Operations:     res.Operations,
		OpcodeStats:    res.Opcodes,
		MemoryStats:    memoryMap(res.Memory),
	}
	if doc.Operations == nil {
		doc.Operations = []Operation{}
	}
	if doc.OpcodeStats == nil {
		doc.OpcodeStats = map[string]OpcodeStat{}
	}
	return doc
}

// Memory converts the memory_stats mapping back into MemoryStats. It
// returns nil when the mapping is empty.
func (d *Document) Memory() *MemoryStats {
	if len(d.MemoryStats) == 0 {
		return nil
	}
	return &MemoryStats{
		AlignedReads:      d.MemoryStats["aligned_reads"],
		NonAlignedReads1:  d.MemoryStats["non_aligned_reads_1"],
		NonAlignedReads2:  d.MemoryStats["non_aligned_reads_2"],
		AlignedWrites:     d.MemoryStats["aligned_writes"],
		NonAlignedWrites1: d.MemoryStats["non_aligned_writes_1"],
		NonAlignedWrites2: d.MemoryStats["non_aligned_writes_2"],
	}
}

func Export(w io.Writer, res *Analysis) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(NewDocument(res)); err != nil {
		return fmt.Errorf("encode export: %w", err)
	}
	return nil
}

func ExportFile(path string, res *Analysis) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create export file: %w", err)
	}
	if err := Export(f, res); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close export file: %w", err)
	}
	return nil
}

// LoadExport reads a document written by Export.
func LoadExport(r io.Reader) (*Document, error) {
	var doc Document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode export: %w", err)
	}
	return &doc, nil
}
