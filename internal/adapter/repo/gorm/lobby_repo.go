package gormrepo

import (
	"context"
	"errors"
	"time"

	"agentbridge/internal/adapter/repo/gorm/model"
	"agentbridge/internal/app/ports"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type LobbyRepo struct {
	db *gorm.DB
}

func NewLobbyRepo(db *gorm.DB) LobbyRepo {
	return LobbyRepo{db: db}
}

func (r LobbyRepo) ActiveGame(ctx context.Context, username string) (ports.LobbyBinding, error) {
	var row model.LobbyPlayer
	if err := dbFor(ctx, r.db).Where(&model.LobbyPlayer{Username: username}).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ports.LobbyBinding{}, ports.ErrNotFound
		}
		return ports.LobbyBinding{}, err
	}
	return ports.LobbyBinding{Username: row.Username, GameID: row.GameID, APIAccess: row.APIAccess}, nil
}

// Join upserts the player's binding; a player sits in at most one game.
func (r LobbyRepo) Join(ctx context.Context, b ports.LobbyBinding) error {
	row := model.LobbyPlayer{
		Username:  b.Username,
		GameID:    b.GameID,
		APIAccess: b.APIAccess,
		JoinedAt:  time.Now().UTC(),
	}
	return dbFor(ctx, r.db).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "username"}},
		DoUpdates: clause.AssignmentColumns([]string{"game_id", "api_access", "joined_at"}),
	}).Create(&row).Error
}
