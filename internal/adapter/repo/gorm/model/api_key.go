package model

import "time"

const TableNameAPIKey = "api_keys"

type APIKey struct {
	Key       string    `gorm:"column:key;primaryKey" json:"key"`
	Username  string    `gorm:"column:username;not null" json:"username"`
	CreatedAt time.Time `gorm:"column:created_at;not null;default:now()" json:"created_at"`
}

func (*APIKey) TableName() string {
	return TableNameAPIKey
}
