package usecase

import (
	"context"
	"strings"

	"storefront/internal/domain/model"
	repo "storefront/internal/repository"
)

type AuditLogUsecase struct {
	auditRepo repo.AuditLogRepository
}

func NewAuditLogUsecase(auditRepo repo.AuditLogRepository) *AuditLogUsecase {
	return &AuditLogUsecase{auditRepo: auditRepo}
}

type AuditLogListInput struct {
	Actor        string
	Action       string
	ResourceType string
	ResourceID   int64
	From         string
	To           string
	Limit        int
	Offset       int
}

func (u *AuditLogUsecase) List(ctx context.Context, in AuditLogListInput) ([]model.AuditLog, error) {
	if in.Limit < 0 || in.Limit > 200 {
		return []model.AuditLog{}, NewValidationError("invalid limit")
	}
	if in.Offset < 0 {
		return []model.AuditLog{}, NewValidationError("invalid offset")
	}

	f := repo.AuditLogFilter{Limit: in.Limit, Offset: in.Offset}
	if s := strings.TrimSpace(in.Actor); s != "" {
		f.Actor = &s
	}
	if s := strings.TrimSpace(in.Action); s != "" {
		a := model.AuditAction(s)
		switch a {
		case model.AuditActionUpdateStock, model.AuditActionUpdateOrderStatus,
			model.AuditActionDeleteOrder, model.AuditActionDeleteProduct:
		default:
			return []model.AuditLog{}, NewValidationError("invalid action")
		}
		f.Action = &a
	}
	if s := strings.TrimSpace(in.ResourceType); s != "" {
		rt := model.AuditResourceType(s)
		if rt != model.AuditResourceProduct && rt != model.AuditResourceOrder {
			return []model.AuditLog{}, NewValidationError("invalid resourceType")
		}
		f.ResourceType = &rt
	}
	if in.ResourceID > 0 {
		id := in.ResourceID
		f.ResourceID = &id
	}

	var ok bool
	if f.CreatedFrom, ok = parseDateTimeRFC3339(in.From); !ok {
		return []model.AuditLog{}, NewValidationError("invalid from")
	}
	if f.CreatedTo, ok = parseDateTimeRFC3339(in.To); !ok {
		return []model.AuditLog{}, NewValidationError("invalid to")
	}

	logs, err := u.auditRepo.List(ctx, f)
	if err != nil {
		return []model.AuditLog{}, NewPersistenceError(err)
	}
	if logs == nil {
		logs = []model.AuditLog{}
	}
	return logs, nil
}
