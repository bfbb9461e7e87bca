package model

import "time"

// TokenBlacklistModel: access token yang sudah logout, disimpan sebagai sha256 hex.
type TokenBlacklistModel struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Fingerprint string    `gorm:"column:fingerprint;size:64;not null;uniqueIndex" json:"fingerprint"`
	ExpiredAt   time.Time `gorm:"column:expired_at;not null;index" json:"expired_at"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// TableName memastikan nama tabel sesuai dengan skema database
func (TokenBlacklistModel) TableName() string {
	return "token_blacklist"
}
