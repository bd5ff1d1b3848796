// pkg/registry/schema.go
package registry

// WorkerRegistry is the catalog of Camunda task workers this service
// provides, consumed by deployment tooling and the BPMN authors.
type WorkerRegistry struct {
	Version     string             `json:"version"`
	LastUpdated string             `json:"lastUpdated"`
	Workers     []WorkerDefinition `json:"workers"`
}

type WorkerDefinition struct {
	ID                   string                 `json:"id"`
	DisplayName          string                 `json:"displayName"`
	Description          string                 `json:"description"`
	Category             string                 `json:"category"`
	Version              string                 `json:"version"`
	TaskType             string                 `json:"taskType"`
	ImplementationStatus string                 `json:"implementationStatus"`
	InputSchema          map[string]interface{} `json:"inputSchema"`
	OutputSchema         map[string]interface{} `json:"outputSchema"`
	ErrorCodes           []string               `json:"errorCodes"`
	Timeout              string                 `json:"timeout"`
	Retries              int                    `json:"retries"`
	Workflows            []string               `json:"workflows"`
	Tags                 []string               `json:"tags"`
}

// Worker categories.
const (
	CategoryUnderwriting = "underwriting"
	CategoryPortfolio    = "portfolio"
	CategoryServicing    = "servicing"
)
