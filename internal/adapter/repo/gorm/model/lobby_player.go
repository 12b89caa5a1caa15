package model

import "time"

const TableNameLobbyPlayer = "lobby_players"

type LobbyPlayer struct {
	Username  string    `gorm:"column:username;primaryKey" json:"username"`
	GameID    string    `gorm:"column:game_id;not null" json:"game_id"`
	APIAccess bool      `gorm:"column:api_access;not null" json:"api_access"`
	JoinedAt  time.Time `gorm:"column:joined_at;not null;default:now()" json:"joined_at"`
}

func (*LobbyPlayer) TableName() string {
	return TableNameLobbyPlayer
}
