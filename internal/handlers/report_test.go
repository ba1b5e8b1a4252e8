package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"ckdscreen/internal/models"
	"ckdscreen/internal/service"
)

const validReportJSON = `{
	"age": 50, "bp": 80, "sg": 1.015, "al": 0, "sugar": 0,
	"pc": "normal", "pcc": "notpresent", "ba": "notpresent",
	"bgr": 100, "bu": 30, "sc": 1.2, "sod": 135, "pot": 4.5,
	"hemo": 14.0, "pcv": 45, "wc": 7500,
	"htn": "no", "dm": "no", "cad": "no",
	"appet": "good", "pe": "no", "ane": "no"
}`

func TestPutReport(t *testing.T) {
	sess := service.Session{ID: "s1", UserID: 1, Username: "alice"}
	s, _, sessions := authedService(sess)
	r := newTestRouter(s)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPut, "/api/v1/report", bytes.NewBufferString(validReportJSON))
	req.Header = authHeader("tok")
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("put report status=%d, body=%s", w.Code, w.Body.String())
	}
	if sessions.lastReport.Age != 50 || sessions.lastReport.PusCell != "normal" {
		t.Fatalf("report not stored as sent: %+v", sessions.lastReport)
	}
}

func TestPutReport_ValidationFailure(t *testing.T) {
	sess := service.Session{ID: "s1", UserID: 1, Username: "alice"}
	s, _, _ := authedService(sess)
	r := newTestRouter(s)

	cases := []struct {
		name string
		body string
	}{
		{"age out of range", `{"age": 300}`},
		{"unknown categorical value", `{"age": 50, "pc": "weird"}`},
		{"not json", `age=50`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPut, "/api/v1/report", bytes.NewBufferString(tc.body))
			req.Header = authHeader("tok")
			req.Header.Set("Content-Type", "application/json")
			r.ServeHTTP(w, req)
			if w.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d (body=%s)", w.Code, w.Body.String())
			}
		})
	}
}

func TestGetReport(t *testing.T) {
	report := models.LabReport{Age: 61, BloodPressure: 90, PusCell: "abnormal"}
	sess := service.Session{ID: "s1", UserID: 1, Username: "alice", Report: &report}
	s, _, _ := authedService(sess)
	r := newTestRouter(s)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/report", nil)
	req.Header = authHeader("tok")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("get report status=%d, body=%s", w.Code, w.Body.String())
	}
	var got models.LabReport
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got.Age != 61 || got.PusCell != "abnormal" {
		t.Fatalf("unexpected report: %+v", got)
	}
}

func TestGetReport_NoneSubmitted(t *testing.T) {
	sess := service.Session{ID: "s1", UserID: 1, Username: "alice"}
	s, _, _ := authedService(sess)
	r := newTestRouter(s)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/report", nil)
	req.Header = authHeader("tok")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 without report, got %d", w.Code)
	}
}
