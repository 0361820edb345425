package analyzer

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
)

// DefaultSidecarPaths are searched, in order, relative to the working directory.
var DefaultSidecarPaths = []string{
	"timing_measurements.json",
	"build/timing_measurements.json",
	"guest/build/timing_measurements.json",
}

type sidecarDocument struct {
	Operations []Operation `json:"operations"`
}

// ReadSidecar loads measured operations from a single file.
func ReadSidecar(path string) ([]Operation, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read sidecar: %w", err)
	}

	var doc sidecarDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse sidecar %s: %w", path, err)
	}

	// Names are unique per run; the first entry for a name wins.
	ops := doc.Operations[:0]
	seen := make(map[string]struct{}, len(doc.Operations))
	for _, op := range doc.Operations {
		if op.Name == "" {
			continue
		}
		if _, dup := seen[op.Name]; dup {
			log.Debug().Str("path", path).Str("name", op.Name).Msg("[sidecar] duplicate operation ignored")
			continue
		}
		seen[op.Name] = struct{}{}
		ops = append(ops, op)
	}
	if len(ops) == 0 {
		return nil, fmt.Errorf("sidecar %s: %w", path, ErrNoOperations)
	}
	return ops, nil
}

// FindSidecar returns the operations of the first usable file in paths.
// Missing or malformed files are skipped.
func FindSidecar(paths []string) ([]Operation, string, bool) {
	for _, path := range paths {
		ops, err := ReadSidecar(path)
		if err != nil {
			log.Debug().Err(err).Str("path", path).Msg("[sidecar] skipped")
			continue
		}
		log.Debug().Str("path", path).Int("operations", len(ops)).Msg("[sidecar] loaded")
		return ops, path, true
	}
	return nil, "", false
}
