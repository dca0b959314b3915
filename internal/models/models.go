package models

import (
	"fmt"
	"time"
)

type Account struct {
	ID           uint   `gorm:"primaryKey"`
	Name         string `gorm:"uniqueIndex;size:64;not null"`
	PasswordHash string `gorm:"not null"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// RequestStatus 是聊天请求的状态。
type RequestStatus string

const (
	StatusPending  RequestStatus = "pending"
	StatusAccepted RequestStatus = "accepted"
	StatusRejected RequestStatus = "rejected"
)

// ChatRequest 是 RequesterID 向 TargetID 发起的聊天请求。
// 请求有效期间 ActivePair 保存 PairKey，唯一索引保证同一对账号只有一个有效请求。
type ChatRequest struct {
	ID          uint          `gorm:"primaryKey"`
	RequesterID uint          `gorm:"index;not null"`
	TargetID    uint          `gorm:"index;not null"`
	Status      RequestStatus `gorm:"size:16;index;not null"`
	ActivePair  *string       `gorm:"uniqueIndex;size:48"`
	CreatedAt   time.Time
	RespondedAt *time.Time
}

// PairKey 生成与顺序无关的账号对 key。
func PairKey(a, b uint) string {
	if a > b {
		a, b = b, a
	}
	return fmt.Sprintf("%d:%d", a, b)
}

// Message 的正文只保存摩尔斯信号码，不保存明文。
type Message struct {
	ID          uint      `gorm:"primaryKey"`
	SenderID    uint      `gorm:"index:idx_msg_pair,priority:1;not null"`
	RecipientID uint      `gorm:"index:idx_msg_pair,priority:2;not null"`
	Morse       string    `gorm:"type:text;not null"`
	CreatedAt   time.Time `gorm:"index"`
}

type RefreshToken struct {
	ID        uint      `gorm:"primaryKey"`
	AccountID uint      `gorm:"index;not null"`
	Token     string    `gorm:"uniqueIndex;size:128;not null"`
	ExpiresAt time.Time `gorm:"index;not null"`
	RevokedAt *time.Time
	CreatedAt time.Time
}
