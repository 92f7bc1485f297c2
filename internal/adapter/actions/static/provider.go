package staticactions

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"planverse/internal/domain/plan"
)

// Provider loads action definitions from a directory of JSON files. Each file
// holds either a single definition or an array of them; files are read in
// name order so the resulting list is deterministic.
type Provider struct {
	Root string
}

func (p Provider) Definitions(_ context.Context) ([]plan.ActionDefinition, error) {
	entries, err := os.ReadDir(p.Root)
	if err != nil {
		return nil, fmt.Errorf("read action library dir: %w", err)
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)

	var defs []plan.ActionDefinition
	for _, name := range names {
		b, err := os.ReadFile(filepath.Join(p.Root, name))
		if err != nil {
			return nil, fmt.Errorf("read action file %s: %w", name, err)
		}
		fileDefs, err := decodeDefinitions(b)
		if err != nil {
			return nil, fmt.Errorf("parse action file %s: %w", name, err)
		}
		defs = append(defs, fileDefs...)
	}
	return defs, nil
}

func decodeDefinitions(b []byte) ([]plan.ActionDefinition, error) {
	trimmed := strings.TrimSpace(string(b))
	if strings.HasPrefix(trimmed, "[") {
		var defs []plan.ActionDefinition
		if err := json.Unmarshal(b, &defs); err != nil {
			return nil, err
		}
		return defs, nil
	}
	var def plan.ActionDefinition
	if err := json.Unmarshal(b, &def); err != nil {
		return nil, err
	}
	return []plan.ActionDefinition{def}, nil
}
