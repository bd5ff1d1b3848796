// cmd/tools/registry-updater/main.go
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"lending-workers/pkg/registry"
)

var registryPath = "configs/worker-registry.json"

func main() {
	addCmd := flag.NewFlagSet("add", flag.ExitOnError)
	updateCmd := flag.NewFlagSet("update", flag.ExitOnError)
	validateCmd := flag.NewFlagSet("validate", flag.ExitOnError)

	// Add command flags
	idAdd := addCmd.String("id", "", "Worker ID (e.g., score-draw-request)")
	displayName := addCmd.String("displayName", "", "Display Name (e.g., Score Draw Request)")
	description := addCmd.String("description", "", "Description")
	category := addCmd.String("category", "", "Category (underwriting, portfolio, servicing)")
	taskType := addCmd.String("taskType", "", "Camunda Task Type (e.g., score-draw-request)")
	version := addCmd.String("version", "1.0.0", "Version")
	implStatus := addCmd.String("status", "planned", "Implementation Status (planned, in-progress, completed, verified)")

	// Update command flags
	idUpdate := updateCmd.String("id", "", "Worker ID to update")
	field := updateCmd.String("field", "", "Field to update (status, version, displayName)")
	value := updateCmd.String("value", "", "New value for the field")

	// Validate command flags
	validateCmd.StringVar(&registryPath, "path", registryPath, "Path to registry file")

	if len(os.Args) < 2 {
		help()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "add":
		addCmd.Parse(os.Args[2:])
		if *idAdd == "" || *displayName == "" || *description == "" || *category == "" || *taskType == "" {
			fmt.Println("Error: id, displayName, description, category, and taskType are required for add.")
			addCmd.Usage()
			os.Exit(1)
		}
		worker := registry.WorkerDefinition{
			ID:                   *idAdd,
			DisplayName:          *displayName,
			Description:          *description,
			Category:             *category,
			Version:              *version,
			TaskType:             *taskType,
			ImplementationStatus: *implStatus,
			InputSchema:          map[string]interface{}{},
			OutputSchema:         map[string]interface{}{},
			ErrorCodes:           []string{},
			Timeout:              "10s",
			Retries:              0,
			Workflows:            []string{},
			Tags:                 []string{},
		}
		if err := addWorker(&worker); err != nil {
			fmt.Printf("Error adding worker: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Added worker: %s\n", *idAdd)

	case "update":
		updateCmd.Parse(os.Args[2:])
		if *idUpdate == "" || *field == "" || *value == "" {
			fmt.Println("Error: id, field, and value are required for update.")
			updateCmd.Usage()
			os.Exit(1)
		}
		if err := updateWorker(*idUpdate, *field, *value); err != nil {
			fmt.Printf("Error updating worker: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Updated worker %s, field %s to %s\n", *idUpdate, *field, *value)

	case "validate":
		validateCmd.Parse(os.Args[2:])
		reg, err := registry.Load(registryPath)
		if err != nil {
			fmt.Printf("Registry load failed: %v\n", err)
			os.Exit(1)
		}
		if err := registry.Validate(reg); err != nil {
			fmt.Printf("Registry validation failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("Registry validation passed.")

	case "help":
		fallthrough
	default:
		help()
	}
}

func addWorker(worker *registry.WorkerDefinition) error {
	reg, err := registry.Load(registryPath)
	if err != nil {
		if os.IsNotExist(err) {
			reg = &registry.WorkerRegistry{
				Version:     "1.0.0",
				LastUpdated: time.Now().Format(time.RFC3339),
				Workers:     []registry.WorkerDefinition{},
			}
		} else {
			return fmt.Errorf("failed to load registry: %w", err)
		}
	}

	for _, existing := range reg.Workers {
		if existing.ID == worker.ID {
			return fmt.Errorf("worker with ID %s already exists", worker.ID)
		}
	}

	reg.Workers = append(reg.Workers, *worker)
	reg.LastUpdated = time.Now().Format(time.RFC3339)

	return registry.Save(reg, registryPath)
}

func updateWorker(id, field, value string) error {
	reg, err := registry.Load(registryPath)
	if err != nil {
		return fmt.Errorf("failed to load registry: %w", err)
	}

	found := false
	for i := range reg.Workers {
		if reg.Workers[i].ID == id {
			found = true
			switch field {
			case "status":
				reg.Workers[i].ImplementationStatus = value
			case "version":
				reg.Workers[i].Version = value
			case "displayName":
				reg.Workers[i].DisplayName = value
			case "description":
				reg.Workers[i].Description = value
			default:
				return fmt.Errorf("unsupported field: %s", field)
			}
			break
		}
	}
	if !found {
		return fmt.Errorf("worker not found: %s", id)
	}

	reg.LastUpdated = time.Now().Format(time.RFC3339)
	return registry.Save(reg, registryPath)
}

func help() {
	fmt.Println(`Usage: registry-updater <command> [flags]

Commands:
  add       Add a new worker definition to the registry
  update    Update a field on an existing worker definition
  validate  Check the registry file for structural problems
  help      Show this message`)
}
