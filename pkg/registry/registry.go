// pkg/registry/registry.go
package registry

import (
	"encoding/json"
	"fmt"
	"os"
)

func Load(path string) (*WorkerRegistry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var reg WorkerRegistry
	err = json.Unmarshal(data, &reg)
	return &reg, err
}

func Save(reg *WorkerRegistry, path string) error {
	data, err := json.MarshalIndent(reg, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Validate checks structural invariants: unique IDs, non-empty task types,
// and a known category per worker.
func Validate(reg *WorkerRegistry) error {
	seen := map[string]bool{}
	categories := map[string]bool{
		CategoryUnderwriting: true,
		CategoryPortfolio:    true,
		CategoryServicing:    true,
	}

	for _, w := range reg.Workers {
		if w.ID == "" {
			return fmt.Errorf("worker with empty id")
		}
		if seen[w.ID] {
			return fmt.Errorf("duplicate worker id: %s", w.ID)
		}
		seen[w.ID] = true

		if w.TaskType == "" {
			return fmt.Errorf("worker %s has no task type", w.ID)
		}
		if !categories[w.Category] {
			return fmt.Errorf("worker %s has unknown category: %s", w.ID, w.Category)
		}
	}
	return nil
}
