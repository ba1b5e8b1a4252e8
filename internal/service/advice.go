package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"ckdscreen/internal/models"
)

const promptTemplate = "Patient test results: %s. Based on these lab values, provide concise health precautions. " +
	"Limit to 2-3 key points covering diet, hydration, and lifestyle. Keep it brief and patient-friendly."

// ErrNoGenerator is returned when the advice collaborator is not configured.
var ErrNoGenerator = errors.New("advice generator not configured")

// AdviceService formats a lab report into a prompt and delegates to the
// remote generative model. Failures propagate; there is no retry here.
type AdviceService struct {
	gen Generator
}

func NewAdviceService(gen Generator) *AdviceService {
	return &AdviceService{gen: gen}
}

var _ Advice = (*AdviceService)(nil)

// Precautions asks the generator for patient-facing precautions text.
func (s *AdviceService) Precautions(ctx context.Context, r models.LabReport) (string, error) {
	if s.gen == nil {
		return "", ErrNoGenerator
	}
	text, err := s.gen.Generate(ctx, buildPrompt(r))
	if err != nil {
		return "", fmt.Errorf("generate precautions: %w", err)
	}
	return strings.TrimSpace(text), nil
}

// buildPrompt flattens the report into ordered "key: value" pairs inside
// the precautions instruction.
func buildPrompt(r models.LabReport) string {
	return fmt.Sprintf(promptTemplate, strings.Join(r.Pairs(), ", "))
}
