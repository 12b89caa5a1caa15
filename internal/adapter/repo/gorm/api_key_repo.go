package gormrepo

import (
	"context"
	"errors"
	"strings"
	"time"

	"agentbridge/internal/adapter/repo/gorm/model"
	"agentbridge/internal/app/ports"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type APIKeyRepo struct {
	db *gorm.DB
}

func NewAPIKeyRepo(db *gorm.DB) APIKeyRepo {
	return APIKeyRepo{db: db}
}

func (r APIKeyRepo) UsernameForKey(ctx context.Context, key uuid.UUID) (string, error) {
	var row model.APIKey
	if err := dbFor(ctx, r.db).Where(&model.APIKey{Key: key.String()}).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ports.ErrNotFound
		}
		return "", err
	}
	return row.Username, nil
}

func (r APIKeyRepo) PutKey(ctx context.Context, key uuid.UUID, username string) error {
	row := model.APIKey{
		Key:       key.String(),
		Username:  username,
		CreatedAt: time.Now().UTC(),
	}
	if err := dbFor(ctx, r.db).Create(&row).Error; err != nil {
		if isUniqueViolation(err) {
			return ports.ErrConflict
		}
		return err
	}
	return nil
}

// Revoke deletes key. An unknown key reports ports.ErrNotFound.
func (r APIKeyRepo) Revoke(ctx context.Context, key uuid.UUID) error {
	res := dbFor(ctx, r.db).Where(&model.APIKey{Key: key.String()}).Delete(&model.APIKey{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ports.ErrNotFound
	}
	return nil
}

func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate key") || strings.Contains(msg, "unique constraint")
}
