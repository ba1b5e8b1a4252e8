package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"ckdscreen/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeGenerator struct {
	reply      string
	err        error
	lastPrompt string
}

func (f *fakeGenerator) Generate(_ context.Context, prompt string) (string, error) {
	f.lastPrompt = prompt
	return f.reply, f.err
}

func sampleReport() models.LabReport {
	return models.LabReport{
		Age: 50, BloodPressure: 80, SpecificGravity: 1.015, Albumin: 0, Sugar: 0,
		PusCell: "normal", PusCellClumps: "notpresent", Bacteria: "notpresent",
		BloodGlucose: 100, BloodUrea: 30, SerumCreatinine: 1.2, Sodium: 135,
		Potassium: 4.5, Hemoglobin: 14.0, PackedCellVolume: 45, WhiteCellCount: 7500,
		Hypertension: "no", Diabetes: "no", CoronaryArtery: "no",
		Appetite: "good", PedalEdema: "no", Anemia: "no",
	}
}

func TestAdviceService_PromptShape(t *testing.T) {
	gen := &fakeGenerator{reply: "  Drink water. Cut salt.  \n"}
	svc := NewAdviceService(gen)

	text, err := svc.Precautions(context.Background(), sampleReport())
	require.NoError(t, err)
	assert.Equal(t, "Drink water. Cut salt.", text, "reply is trimmed")

	prompt := gen.lastPrompt
	assert.True(t, strings.HasPrefix(prompt, "Patient test results: "), "prompt=%q", prompt)
	assert.Contains(t, prompt, "diet, hydration, and lifestyle")
	assert.Contains(t, prompt, "age: 50")
	assert.Contains(t, prompt, "sg: 1.015")
	assert.Contains(t, prompt, "appet: good")

	// Field order is stable: age comes before bp, bp before sg.
	assert.Less(t, strings.Index(prompt, "age:"), strings.Index(prompt, "bp:"))
	assert.Less(t, strings.Index(prompt, "bp:"), strings.Index(prompt, "sg:"))
}

func TestAdviceService_GeneratorError(t *testing.T) {
	gen := &fakeGenerator{err: errors.New("quota exceeded")}
	svc := NewAdviceService(gen)

	_, err := svc.Precautions(context.Background(), sampleReport())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "generate precautions")
}

func TestAdviceService_NilGenerator(t *testing.T) {
	svc := NewAdviceService(nil)
	_, err := svc.Precautions(context.Background(), sampleReport())
	assert.ErrorIs(t, err, ErrNoGenerator)
}

func TestLabReport_PairsCoversAllFields(t *testing.T) {
	pairs := sampleReport().Pairs()
	assert.Len(t, pairs, 22)
	assert.Equal(t, "age: 50", pairs[0])
	assert.Equal(t, "ane: no", pairs[len(pairs)-1])
}
