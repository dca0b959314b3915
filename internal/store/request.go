package store

import (
	"context"
	"time"

	"morsechat/internal/models"

	"gorm.io/gorm"
)

// RequestStore 读写聊天请求表。
type RequestStore struct {
	db *gorm.DB
}

// NewRequestStore 基于 db 创建 RequestStore。
func NewRequestStore(db *gorm.DB) *RequestStore {
	return &RequestStore{db: db}
}

func (s *RequestStore) WithTx(tx *gorm.DB) *RequestStore {
	return &RequestStore{db: tx}
}

// Create 插入 pending 请求并占用账号对的 key；同一对账号已有有效请求时返回 ErrDuplicate。
func (s *RequestStore) Create(ctx context.Context, requesterID, targetID uint) (*models.ChatRequest, error) {
	key := models.PairKey(requesterID, targetID)
	req := models.ChatRequest{
		RequesterID: requesterID,
		TargetID:    targetID,
		Status:      models.StatusPending,
		ActivePair:  &key,
	}
	if err := s.db.WithContext(ctx).Create(&req).Error; err != nil {
		return nil, translate(err, "requestStore.Create")
	}
	return &req, nil
}

// ByID 按 id 查询请求，不存在时返回 ErrNotFound。
func (s *RequestStore) ByID(ctx context.Context, id uint) (*models.ChatRequest, error) {
	var req models.ChatRequest
	if err := s.db.WithContext(ctx).First(&req, id).Error; err != nil {
		return nil, translate(err, "requestStore.ByID")
	}
	return &req, nil
}

// Resolve 用一条带条件的 UPDATE 把发给 responderID 的 pending 请求改为 status。
// releasePair 为 true 时同时清空 key，双方可以重新发起请求。返回值表示是否有行被修改。
func (s *RequestStore) Resolve(ctx context.Context, id, responderID uint, status models.RequestStatus, releasePair bool, at time.Time) (bool, error) {
	updates := map[string]any{
		"status":       status,
		"responded_at": at,
	}
	if releasePair {
		updates["active_pair"] = nil
	}
	res := s.db.WithContext(ctx).Model(&models.ChatRequest{}).
		Where("id = ? AND target_id = ? AND status = ?", id, responderID, models.StatusPending).
		Updates(updates)
	if res.Error != nil {
		return false, translate(res.Error, "requestStore.Resolve")
	}
	return res.RowsAffected > 0, nil
}

// HasAccepted 判断 a 与 b 之间（任一方向）是否存在已接受的请求。
func (s *RequestStore) HasAccepted(ctx context.Context, a, b uint) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.ChatRequest{}).
		Where("((requester_id = ? AND target_id = ?) OR (requester_id = ? AND target_id = ?)) AND status = ?",
			a, b, b, a, models.StatusAccepted).
		Count(&count).Error
	if err != nil {
		return false, translate(err, "requestStore.HasAccepted")
	}
	return count > 0, nil
}

// Incoming 列出发给 accountID 的请求，最新的在前。
func (s *RequestStore) Incoming(ctx context.Context, accountID uint) ([]models.ChatRequest, error) {
	var out []models.ChatRequest
	err := s.db.WithContext(ctx).Where("target_id = ?", accountID).
		Order("created_at desc").Order("id desc").Find(&out).Error
	if err != nil {
		return nil, translate(err, "requestStore.Incoming")
	}
	return out, nil
}

// Outgoing 列出 accountID 发出的请求，最新的在前。
func (s *RequestStore) Outgoing(ctx context.Context, accountID uint) ([]models.ChatRequest, error) {
	var out []models.ChatRequest
	err := s.db.WithContext(ctx).Where("requester_id = ?", accountID).
		Order("created_at desc").Order("id desc").Find(&out).Error
	if err != nil {
		return nil, translate(err, "requestStore.Outgoing")
	}
	return out, nil
}
