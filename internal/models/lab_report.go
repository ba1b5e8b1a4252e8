package models

import "fmt"

// Categorical answer values accepted on a lab report.
const (
	AnswerYes        = "yes"
	AnswerNo         = "no"
	AnswerPresent    = "present"
	AnswerNotPresent = "notpresent"
	AnswerNormal     = "normal"
	AnswerAbnormal   = "abnormal"
	AnswerGood       = "good"
	AnswerPoor       = "poor"
)

// LabReport holds one set of clinical lab values entered for a screening.
// Field order matches the intake form and is preserved when the report is
// flattened into prompt text.
type LabReport struct {
	Age              int     `json:"age" binding:"gte=0,lte=120"`
	BloodPressure    int     `json:"bp" binding:"gte=0,lte=200"`
	SpecificGravity  float64 `json:"sg" binding:"gte=1.000,lte=1.030"`
	Albumin          int     `json:"al" binding:"gte=0,lte=5"`
	Sugar            int     `json:"sugar" binding:"gte=0,lte=5"`
	PusCell          string  `json:"pc" binding:"oneof=normal abnormal"`
	PusCellClumps    string  `json:"pcc" binding:"oneof=present notpresent"`
	Bacteria         string  `json:"ba" binding:"oneof=present notpresent"`
	BloodGlucose     int     `json:"bgr" binding:"gte=0,lte=500"`
	BloodUrea        int     `json:"bu" binding:"gte=0,lte=300"`
	SerumCreatinine  float64 `json:"sc" binding:"gte=0,lte=30"`
	Sodium           int     `json:"sod" binding:"gte=0,lte=200"`
	Potassium        float64 `json:"pot" binding:"gte=0,lte=15"`
	Hemoglobin       float64 `json:"hemo" binding:"gte=0,lte=20"`
	PackedCellVolume int     `json:"pcv" binding:"gte=0,lte=100"`
	WhiteCellCount   int     `json:"wc" binding:"gte=0,lte=50000"`
	Hypertension     string  `json:"htn" binding:"oneof=yes no"`
	Diabetes         string  `json:"dm" binding:"oneof=yes no"`
	CoronaryArtery   string  `json:"cad" binding:"oneof=yes no"`
	Appetite         string  `json:"appet" binding:"oneof=good poor"`
	PedalEdema       string  `json:"pe" binding:"oneof=yes no"`
	Anemia           string  `json:"ane" binding:"oneof=yes no"`
}

// Pairs returns the report as ordered "key: value" strings, one per field,
// using the short clinical keys from the intake form.
func (r LabReport) Pairs() []string {
	return []string{
		fmt.Sprintf("age: %d", r.Age),
		fmt.Sprintf("bp: %d", r.BloodPressure),
		fmt.Sprintf("sg: %g", r.SpecificGravity),
		fmt.Sprintf("al: %d", r.Albumin),
		fmt.Sprintf("sugar: %d", r.Sugar),
		fmt.Sprintf("pc: %s", r.PusCell),
		fmt.Sprintf("pcc: %s", r.PusCellClumps),
		fmt.Sprintf("ba: %s", r.Bacteria),
		fmt.Sprintf("bgr: %d", r.BloodGlucose),
		fmt.Sprintf("bu: %d", r.BloodUrea),
		fmt.Sprintf("sc: %g", r.SerumCreatinine),
		fmt.Sprintf("sod: %d", r.Sodium),
		fmt.Sprintf("pot: %g", r.Potassium),
		fmt.Sprintf("hemo: %g", r.Hemoglobin),
		fmt.Sprintf("pcv: %d", r.PackedCellVolume),
		fmt.Sprintf("wc: %d", r.WhiteCellCount),
		fmt.Sprintf("htn: %s", r.Hypertension),
		fmt.Sprintf("dm: %s", r.Diabetes),
		fmt.Sprintf("cad: %s", r.CoronaryArtery),
		fmt.Sprintf("appet: %s", r.Appetite),
		fmt.Sprintf("pe: %s", r.PedalEdema),
		fmt.Sprintf("ane: %s", r.Anemia),
	}
}
