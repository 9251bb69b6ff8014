package chat

import (
	"fmt"

	"gorm.io/gorm"

	types "github.com/issam-seghir/shark-chat-backend/internal/domain/chat"
	"github.com/issam-seghir/shark-chat-backend/internal/platform/dbctx"
	"github.com/issam-seghir/shark-chat-backend/internal/platform/logger"
)

type AttachmentRepo interface {
	Create(dbc dbctx.Context, a *types.Attachment) error
	GetByID(dbc dbctx.Context, id string) (*types.Attachment, error)
}

type attachmentRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewAttachmentRepo(db *gorm.DB, log *logger.Logger) AttachmentRepo {
	return &attachmentRepo{db: db, log: log.With("repo", "AttachmentRepo")}
}

func (r *attachmentRepo) Create(dbc dbctx.Context, a *types.Attachment) error {
	if a == nil || a.ID == "" {
		return fmt.Errorf("missing attachment id")
	}
	txx := dbc.Tx
	if txx == nil {
		txx = r.db
	}
	return txx.WithContext(dbc.Ctx).Create(a).Error
}

func (r *attachmentRepo) GetByID(dbc dbctx.Context, id string) (*types.Attachment, error) {
	if id == "" {
		return nil, fmt.Errorf("missing attachment id")
	}
	txx := dbc.Tx
	if txx == nil {
		txx = r.db
	}
	var a types.Attachment
	if err := txx.WithContext(dbc.Ctx).Where("id = ?", id).Take(&a).Error; err != nil {
		return nil, err
	}
	return &a, nil
}
