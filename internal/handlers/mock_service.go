package handlers

import (
	"context"
	"net/http"
	"time"

	"ckdscreen/internal/models"
	"ckdscreen/internal/service"

	"github.com/gin-gonic/gin"
)

// ---- Service Mocks ----

type mockAuth struct {
	registerID  int
	registerErr error
	tokenStr    string
	tokenErr    error
	parseClaims *service.Claims
	parseErr    error
	logoutOK    bool

	lastRegisterUsername string
	lastRegisterPassword string
	lastTokenUsername    string
	lastTokenPassword    string
	lastParseToken       string
	lastLogoutSessionID  string
	lastLogoutUsername   string
}

func (m *mockAuth) Register(username, password string) (int, error) {
	m.lastRegisterUsername = username
	m.lastRegisterPassword = password
	return m.registerID, m.registerErr
}
func (m *mockAuth) GenerateToken(username, password string) (string, error) {
	m.lastTokenUsername = username
	m.lastTokenPassword = password
	return m.tokenStr, m.tokenErr
}
func (m *mockAuth) ParseToken(token string) (*service.Claims, error) {
	m.lastParseToken = token
	return m.parseClaims, m.parseErr
}
func (m *mockAuth) Logout(sessionID, username string) bool {
	m.lastLogoutSessionID = sessionID
	m.lastLogoutUsername = username
	return m.logoutOK
}

type mockSessions struct {
	sess         service.Session
	ok           bool
	setReportErr error
	setResultErr error

	getCalls   int
	peekCalls  int
	lastGetID  string
	lastReport models.LabReport
	lastResult models.ScreeningResult
}

func (m *mockSessions) Get(id string) (service.Session, bool) {
	m.getCalls++
	m.lastGetID = id
	return m.sess, m.ok
}
func (m *mockSessions) Peek(id string) (service.Session, bool) {
	m.peekCalls++
	return m.sess, m.ok
}
func (m *mockSessions) SetReport(id string, r models.LabReport) error {
	m.lastReport = r
	if m.setReportErr == nil {
		m.sess.Report = &r
	}
	return m.setReportErr
}
func (m *mockSessions) SetResult(id string, res models.ScreeningResult) error {
	m.lastResult = res
	return m.setResultErr
}
func (m *mockSessions) Run(ctx context.Context, tick time.Duration) {}

type mockScreening struct {
	result models.ScreeningResult
	err    error
	calls  int
}

func (m *mockScreening) Screen(ctx context.Context, username string) (models.ScreeningResult, error) {
	m.calls++
	return m.result, m.err
}

type mockAdvice struct {
	text       string
	err        error
	lastReport models.LabReport
}

func (m *mockAdvice) Precautions(ctx context.Context, r models.LabReport) (string, error) {
	m.lastReport = r
	return m.text, m.err
}

type mockAuditLog struct {
	resp       []models.AuditEvent
	err        error
	lastFilter service.LogFilter
}

func (m *mockAuditLog) List(ctx context.Context, f service.LogFilter) ([]models.AuditEvent, error) {
	m.lastFilter = f
	return m.resp, m.err
}

// ---- Shared Test Helpers ----

func newTestRouter(s *service.Service) *gin.Engine {
	h := NewHandler(s, nil)
	gin.SetMode(gin.TestMode)
	return h.InitRoutes()
}

// authHeader returns headers carrying the given bearer token.
func authHeader(token string) http.Header {
	h := http.Header{}
	h.Set("Authorization", "Bearer "+token)
	return h
}

// authedService wires mockAuth+mockSessions so protected routes pass the
// session middleware with the given session.
func authedService(sess service.Session) (*service.Service, *mockAuth, *mockSessions) {
	auth := &mockAuth{parseClaims: &service.Claims{UserID: sess.UserID, SessionID: sess.ID}}
	sessions := &mockSessions{sess: sess, ok: true}
	return &service.Service{Authorization: auth, Sessions: sessions}, auth, sessions
}
