package store

import (
	"context"

	"morsechat/internal/models"

	"gorm.io/gorm"
)

// MessageStore 读写消息表。
type MessageStore struct {
	db *gorm.DB
}

// NewMessageStore 基于 db 创建 MessageStore。
func NewMessageStore(db *gorm.DB) *MessageStore {
	return &MessageStore{db: db}
}

func (s *MessageStore) WithTx(tx *gorm.DB) *MessageStore {
	return &MessageStore{db: tx}
}

// Create 写入一条消息，成功后 msg.ID 被回填。
func (s *MessageStore) Create(ctx context.Context, msg *models.Message) error {
	return translate(s.db.WithContext(ctx).Create(msg).Error, "messageStore.Create")
}

// Between 返回 a 与 b 之间的全部消息，按时间升序。
func (s *MessageStore) Between(ctx context.Context, a, b uint) ([]models.Message, error) {
	var out []models.Message
	err := s.db.WithContext(ctx).
		Where("(sender_id = ? AND recipient_id = ?) OR (sender_id = ? AND recipient_id = ?)", a, b, b, a).
		Order("created_at asc").Order("id asc").
		Find(&out).Error
	if err != nil {
		return nil, translate(err, "messageStore.Between")
	}
	return out, nil
}
