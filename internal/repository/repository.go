package repository

import (
	"context"
	"database/sql"
	"time"

	"ckdscreen/internal/models"
)

type Users interface {
	Create(username, hash string) (int, error)
	GetByUsername(username string) (*models.User, error)
}

type AuditRepo interface {
	Append(ctx context.Context, e models.AuditEvent) error
	List(ctx context.Context, from, to time.Time, typ string) ([]models.AuditEvent, error)
}

type Repository struct {
	Users Users
	Audit AuditRepo
}

func NewRepository(conn *sql.DB) *Repository {
	return &Repository{
		Users: NewUserRepository(conn),
		Audit: NewAuditSQLite(conn),
	}
}
