package chat

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	types "github.com/issam-seghir/shark-chat-backend/internal/domain/chat"
	"github.com/issam-seghir/shark-chat-backend/internal/platform/dbctx"
	"github.com/issam-seghir/shark-chat-backend/internal/platform/logger"
)

// UserRepo reads user profiles. User rows are written by the identity
// provider sync, not by this service, so there is no create path here.
type UserRepo interface {
	GetByID(dbc dbctx.Context, id string) (*types.User, error)
}

type userRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewUserRepo(db *gorm.DB, log *logger.Logger) UserRepo {
	return &userRepo{db: db, log: log.With("repo", "UserRepo")}
}

func (r *userRepo) GetByID(dbc dbctx.Context, id string) (*types.User, error) {
	if id == "" {
		return nil, fmt.Errorf("missing user id")
	}
	txx := dbc.Tx
	if txx == nil {
		txx = r.db
	}
	var u types.User
	err := txx.WithContext(dbc.Ctx).Where("id = ?", id).Take(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("user %s: %w", id, types.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}
