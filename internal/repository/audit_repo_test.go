package repository

import (
	"context"
	"errors"
	"path/filepath"
	"regexp"
	"testing"
	"time"

	"ckdscreen/internal/models"
	dbconn "ckdscreen/internal/repository/db"

	"github.com/DATA-DOG/go-sqlmock"
)

func newMockAuditRepo(t *testing.T) (*AuditSQLite, sqlmock.Sqlmock, func()) {
	t.Helper()

	mockDB, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}

	repo := NewAuditSQLite(mockDB)
	cleanup := func() {
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Fatalf("unmet sqlmock expectations: %v", err)
		}
		_ = mockDB.Close()
	}
	return repo, mock, cleanup
}

const insertAuditPattern = `INSERT INTO audit_events`

func TestAuditSQLite_Append_FillsIDAndTime(t *testing.T) {
	repo, mock, cleanup := newMockAuditRepo(t)
	defer cleanup()

	mock.ExpectExec(insertAuditPattern).
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), "SIGN_IN", "alice signed in", nil).
		WillReturnResult(sqlmock.NewResult(1, 1))

	err := repo.Append(context.Background(), models.AuditEvent{
		Type:    "sign_in", // normalized to upper on insert
		Message: "alice signed in",
	})
	if err != nil {
		t.Fatalf("Append: %v", err)
	}
}

func TestAuditSQLite_Append_MarshalsMetadata(t *testing.T) {
	repo, mock, cleanup := newMockAuditRepo(t)
	defer cleanup()

	meta := `{"label":1}`
	mock.ExpectExec(insertAuditPattern).
		WithArgs("e-1", sqlmock.AnyArg(), "SCREENING", "screening run", &meta).
		WillReturnResult(sqlmock.NewResult(1, 1))

	err := repo.Append(context.Background(), models.AuditEvent{
		EventID:  "e-1",
		Type:     "SCREENING",
		Message:  "screening run",
		Metadata: map[string]any{"label": 1},
	})
	if err != nil {
		t.Fatalf("Append: %v", err)
	}
}

func TestAuditSQLite_Append_ExecError(t *testing.T) {
	repo, mock, cleanup := newMockAuditRepo(t)
	defer cleanup()

	mock.ExpectExec(insertAuditPattern).
		WillReturnError(errors.New("disk full"))

	if err := repo.Append(context.Background(), models.AuditEvent{Type: "SIGN_UP", Message: "x"}); err == nil {
		t.Fatalf("expected error, got nil")
	}
}

func TestAuditSQLite_List(t *testing.T) {
	repo, mock, cleanup := newMockAuditRepo(t)
	defer cleanup()

	now := time.Now().UTC().Truncate(time.Second)
	rows := sqlmock.NewRows([]string{"id", "occurred_at", "type", "message", "meta"}).
		AddRow("e1", now, "SIGN_IN", "alice signed in", nil).
		AddRow("e2", now.Add(time.Second), "SCREENING", "screening run", `{"label":0}`)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, occurred_at, type, message, meta FROM audit_events`)).
		WillReturnRows(rows)

	events, err := repo.List(context.Background(), time.Time{}, time.Time{}, "")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(events))
	}
	if events[0].EventID != "e1" || events[0].Type != "SIGN_IN" {
		t.Fatalf("unexpected first event: %+v", events[0])
	}
	// meta JSON decoded back into a value
	m, ok := events[1].Metadata.(map[string]any)
	if !ok || m["label"] != float64(0) {
		t.Fatalf("metadata not decoded: %+v", events[1].Metadata)
	}
}

// Range filtering runs against a real SQLite file: occurred_at is stored
// as TEXT, so both bounds must bind the stored layout or the comparison
// silently mixes formats.
func TestAuditSQLite_List_TimeRange(t *testing.T) {
	dir := t.TempDir()
	conn, err := dbconn.InitDB(filepath.Join(dir, "audit.db"))
	if err != nil {
		t.Fatalf("InitDB: %v", err)
	}
	defer conn.Close()

	repo := NewAuditSQLite(conn)
	ctx := context.Background()

	base := time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)
	for i, typ := range []string{"SIGN_UP", "SIGN_IN", "LOGOUT"} {
		err := repo.Append(ctx, models.AuditEvent{
			OccurredAt: base.Add(time.Duration(i) * time.Minute),
			Type:       typ,
			Message:    typ,
		})
		if err != nil {
			t.Fatalf("Append %s: %v", typ, err)
		}
	}

	// window around the middle event only
	events, err := repo.List(ctx, base.Add(30*time.Second), base.Add(90*time.Second), "")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(events) != 1 || events[0].Type != "SIGN_IN" {
		t.Fatalf("expected only the SIGN_IN event, got %+v", events)
	}

	// both bounds are inclusive: events exactly at from and at to survive
	events, err = repo.List(ctx, base, base.Add(2*time.Minute), "")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(events) != 3 {
		t.Fatalf("expected all 3 events in the inclusive range, got %d", len(events))
	}

	// from alone keeps the boundary event
	events, err = repo.List(ctx, base.Add(time.Minute), time.Time{}, "")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(events) != 2 || events[0].Type != "SIGN_IN" {
		t.Fatalf("expected SIGN_IN and LOGOUT from the boundary, got %+v", events)
	}
}

func TestAuditSQLite_List_TypeFilterNormalized(t *testing.T) {
	repo, mock, cleanup := newMockAuditRepo(t)
	defer cleanup()

	rows := sqlmock.NewRows([]string{"id", "occurred_at", "type", "message", "meta"})
	mock.ExpectQuery(`SELECT id, occurred_at, type, message, meta FROM audit_events WHERE type = \?`).
		WithArgs("LOGOUT").
		WillReturnRows(rows)

	events, err := repo.List(context.Background(), time.Time{}, time.Time{}, " logout ")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(events) != 0 {
		t.Fatalf("expected no events, got %d", len(events))
	}
}
