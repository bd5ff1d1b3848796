// internal/models/orchestration.go
package models

import "lending-workers/internal/risk"

// TaskResult is the audit entry recorded per orchestration stage.
type TaskResult struct {
	Status      string      `json:"status"`
	CompletedAt string      `json:"completed_at"`
	Output      interface{} `json:"output,omitempty"`
}

// OrchestrationOutputs collects what each stage produced.
type OrchestrationOutputs struct {
	DocumentFields map[string]string     `json:"documentFields,omitempty"`
	AutoFill       map[string]string     `json:"autoFill,omitempty"`
	Credit         *risk.CreditAssessment `json:"credit,omitempty"`
	Fraud          *risk.FraudAssessment  `json:"fraud,omitempty"`
	Scorecard      *risk.Scorecard        `json:"scorecard,omitempty"`
}

// OrchestrationRecord is the append-only result of one full pipeline run.
type OrchestrationRecord struct {
	ID              string                `json:"id"`
	Applicant       Applicant             `json:"applicant"`
	Status          string                `json:"status"`
	Outputs         OrchestrationOutputs  `json:"outputs"`
	Tasks           map[string]TaskResult `json:"tasks"`
	DocumentURL     string                `json:"document_url,omitempty"`
	PackageFilename string                `json:"package_filename,omitempty"`
	ReviewStatus    string                `json:"review_status,omitempty"`
	SubmittedAt     string                `json:"submitted_at"`
}

// Orchestration stage names, in pipeline order.
const (
	StageParseDocument    = "parse_document"
	StageExtractAutofill  = "extract_autofill"
	StageAdjustCredit     = "adjust_credit"
	StageDetectFraud      = "detect_fraud"
	StageComposeScorecard = "compose_scorecard"
)
