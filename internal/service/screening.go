package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"ckdscreen/internal/models"
	"ckdscreen/internal/repository"
)

// EventScreening marks one screening run in the audit log.
const EventScreening = "SCREENING"

// Diagnosis text shown to patients.
const (
	DiagnosisPositive = "Positive: Chronic Kidney Disease Detected"
	DiagnosisNegative = "Negative: No Chronic Kidney Disease Detected"
)

var (
	ErrArtifactMissing = errors.New("screening artifact not found")
	ErrArtifactEmpty   = errors.New("screening artifact holds no labels")
)

// ScreeningService serves the precomputed verdict. The labels come from an
// offline training pipeline; this service never runs a model. The artifact
// is re-read on every call so it can be regenerated without a restart.
type ScreeningService struct {
	artifactPath string
	audit        repository.AuditRepo
}

func NewScreeningService(artifactPath string, audit repository.AuditRepo) *ScreeningService {
	return &ScreeningService{artifactPath: artifactPath, audit: audit}
}

var _ Screening = (*ScreeningService)(nil)

// Screen returns the published verdict: the first label of the artifact,
// mapped to its diagnosis text.
func (s *ScreeningService) Screen(ctx context.Context, username string) (models.ScreeningResult, error) {
	labels, err := s.loadLabels()
	if err != nil {
		return models.ScreeningResult{}, err
	}

	label := labels[0]
	res := models.ScreeningResult{
		Label:       label,
		Positive:    label == models.LabelPositive,
		Diagnosis:   DiagnosisNegative,
		GeneratedAt: time.Now().UTC(),
	}
	if res.Positive {
		res.Diagnosis = DiagnosisPositive
	}

	if s.audit != nil {
		_ = s.audit.Append(ctx, models.AuditEvent{
			Type:     EventScreening,
			Message:  fmt.Sprintf("screening run for %q", username),
			Metadata: map[string]any{"label": label},
		})
	}
	return res, nil
}

// loadLabels reads and decodes the label artifact (a JSON array of 0/1
// ints).
func (s *ScreeningService) loadLabels() ([]int, error) {
	raw, err := os.ReadFile(s.artifactPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrArtifactMissing, s.artifactPath)
		}
		return nil, fmt.Errorf("read artifact %q: %w", s.artifactPath, err)
	}
	var labels []int
	if err := json.Unmarshal(raw, &labels); err != nil {
		return nil, fmt.Errorf("decode artifact %q: %w", s.artifactPath, err)
	}
	if len(labels) == 0 {
		return nil, ErrArtifactEmpty
	}
	return labels, nil
}
