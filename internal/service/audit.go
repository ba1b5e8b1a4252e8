package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"ckdscreen/internal/models"
	"ckdscreen/internal/repository"
)

// LogFilter narrows an audit listing by time range and/or event type.
type LogFilter struct {
	From time.Time
	To   time.Time
	Type string
}

type AuditLogService struct {
	audit repository.AuditRepo
}

func NewAuditLogService(audit repository.AuditRepo) *AuditLogService {
	return &AuditLogService{audit: audit}
}

var _ AuditLog = (*AuditLogService)(nil)

var errInvalidTimeRange = errors.New("invalid time range: From must be <= To")

// normalizeToUTC returns t in UTC, preserving zero time values.
func normalizeToUTC(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	return t.UTC()
}

// normalizeEventType trims spaces and uppercases the event type filter.
func normalizeEventType(s string) string {
	return strings.TrimSpace(strings.ToUpper(s))
}

// normalizeAndValidateFilter prepares query parameters and validates the time range.
func normalizeAndValidateFilter(f LogFilter) (time.Time, time.Time, string, error) {
	from := normalizeToUTC(f.From)
	to := normalizeToUTC(f.To)

	if !from.IsZero() && !to.IsZero() && from.After(to) {
		return time.Time{}, time.Time{}, "", errInvalidTimeRange
	}

	return from, to, normalizeEventType(f.Type), nil
}

func (s *AuditLogService) List(ctx context.Context, f LogFilter) ([]models.AuditEvent, error) {
	from, to, typ, err := normalizeAndValidateFilter(f)
	if err != nil {
		return nil, err
	}
	return s.audit.List(ctx, from, to, typ)
}
