package service

import (
	"context"
	"time"

	"ckdscreen/internal/logger"
	"ckdscreen/internal/models"
	"ckdscreen/internal/repository"
)

type Authorization interface {
	Register(username, password string) (int, error)
	GenerateToken(username, password string) (string, error)
	ParseToken(accessToken string) (*Claims, error)
	Logout(sessionID, username string) bool
}

// Sessions stores the per-login ephemeral state: the lab report being
// filled in and the last screening result. Nothing here survives a restart.
type Sessions interface {
	Get(id string) (Session, bool)
	Peek(id string) (Session, bool)
	SetReport(id string, r models.LabReport) error
	SetResult(id string, res models.ScreeningResult) error
	Run(ctx context.Context, tick time.Duration)
}

// Screening produces the diagnosis from the precomputed label artifact.
type Screening interface {
	Screen(ctx context.Context, username string) (models.ScreeningResult, error)
}

// Advice turns a lab report into patient-facing precautions text via the
// generative-language collaborator.
type Advice interface {
	Precautions(ctx context.Context, r models.LabReport) (string, error)
}

// AuditLog exposes append-only audit events with filtering access.
type AuditLog interface {
	List(ctx context.Context, f LogFilter) ([]models.AuditEvent, error)
}

// Generator is the text-in/text-out seam to the remote generative model.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Config carries the service-layer knobs resolved from configuration.
type Config struct {
	SigningKey   string
	TokenTTL     time.Duration
	SessionTTL   time.Duration
	ArtifactPath string
}

type Service struct {
	Authorization
	Sessions
	Screening
	Advice
	AuditLog
}

// NewService wires the repository layer and the generator client into
// concrete services. log may be nil in tests.
func NewService(repos *repository.Repository, gen Generator, log *logger.Logger, cfg Config) *Service {
	sessions := NewSessionService(cfg.SessionTTL)
	return &Service{
		Authorization: NewAuthService(repos.Users, repos.Audit, sessions, log, cfg.SigningKey, cfg.TokenTTL),
		Sessions:      sessions,
		Screening:     NewScreeningService(cfg.ArtifactPath, repos.Audit),
		Advice:        NewAdviceService(gen),
		AuditLog:      NewAuditLogService(repos.Audit),
	}
}
