package models

import "time"

// Diagnosis labels produced by the screening artifact.
const (
	LabelNegative = 0
	LabelPositive = 1
)

// ScreeningResult is the outcome of one screening run: the precomputed
// label, its human-readable diagnosis, and the generated precautions text.
type ScreeningResult struct {
	Label       int       `json:"label"`
	Positive    bool      `json:"positive"`
	Diagnosis   string    `json:"diagnosis"`
	Precautions string    `json:"precautions,omitempty"`
	GeneratedAt time.Time `json:"generated_at"`
}

// AuditEvent is a single append-only audit log entry.
type AuditEvent struct {
	EventID    string    `json:"event_id"`
	OccurredAt time.Time `json:"occurred_at"`
	Type       string    `json:"type"` // SIGN_UP | SIGN_IN | SIGN_IN_FAILED | LOGOUT | SCREENING
	Message    string    `json:"message"`
	Metadata   any       `json:"metadata,omitempty"`
}
