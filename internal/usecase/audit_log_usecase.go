package usecase

import (
	"context"
	"errors"
	"strconv"

	"telehealth-backend/internal/converter"
	"telehealth-backend/internal/delivery/dto"
	"telehealth-backend/internal/domain/repository"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var ErrAuditLogNotFound = errors.New("audit log not found")

type AuditLogUsecase interface {
	GetAllAuditLogs(ctx context.Context) (*dto.AuditLogListResponse, error)
	GetAuditLog(ctx context.Context, id string) (*dto.AuditLogResponse, error)
}

type auditLogUsecase struct {
	db           *gorm.DB
	log          *logrus.Logger
	auditLogRepo repository.AuditLogRepository
}

func NewAuditLogUsecase(db *gorm.DB, log *logrus.Logger, auditLogRepo repository.AuditLogRepository) AuditLogUsecase {
	return &auditLogUsecase{
		db:           db,
		log:          log,
		auditLogRepo: auditLogRepo,
	}
}

// GetAllAuditLogs returns every audit entry, newest first
func (u *auditLogUsecase) GetAllAuditLogs(ctx context.Context) (*dto.AuditLogListResponse, error) {
	logs, err := u.auditLogRepo.FindAll(u.db.WithContext(ctx))
	if err != nil {
		u.log.Warnf("Failed to find audit logs: %+v", err)
		return nil, err
	}

	return &dto.AuditLogListResponse{
		Logs:  converter.AuditLogsToResponses(logs),
		Total: len(logs),
	}, nil
}

// GetAuditLog returns a single audit entry by id
func (u *auditLogUsecase) GetAuditLog(ctx context.Context, id string) (*dto.AuditLogResponse, error) {
	logID, err := strconv.ParseInt(id, 10, 64)
	if err != nil {
		return nil, ErrAuditLogNotFound
	}

	entry, err := u.auditLogRepo.FindByID(u.db.WithContext(ctx), logID)
	if err != nil {
		u.log.Warnf("Failed to find audit log %d: %+v", logID, err)
		return nil, err
	}
	if entry == nil {
		return nil, ErrAuditLogNotFound
	}

	return converter.AuditLogToResponse(entry), nil
}
