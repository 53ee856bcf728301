package service

import (
	"context"

	"tindahan/internal/model"
	"tindahan/internal/repository"
)

// AuditService exposes the mutation trail, newest first.
type AuditService interface {
	ListEntries(ctx context.Context, page, limit int) ([]model.AuditLog, int64, error)
}

type auditService struct {
	repo repository.AuditRepository
}

func NewAuditService(repo repository.AuditRepository) AuditService {
	return &auditService{repo: repo}
}

func (s *auditService) ListEntries(ctx context.Context, page, limit int) ([]model.AuditLog, int64, error) {
	return s.repo.List(ctx, page, limit)
}
