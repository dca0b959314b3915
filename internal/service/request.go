package service

import (
	"context"
	"errors"
	"time"

	"morsechat/internal/config"
	"morsechat/internal/metrics"
	"morsechat/internal/models"
	"morsechat/internal/store"

	"gorm.io/gorm"
)

// Decision 是被请求方对聊天请求的答复。
type Decision string

const (
	DecisionAccept Decision = "accept"
	DecisionReject Decision = "reject"
)

func (d Decision) status() (models.RequestStatus, error) {
	switch d {
	case DecisionAccept:
		return models.StatusAccepted, nil
	case DecisionReject:
		return models.StatusRejected, nil
	default:
		return "", ErrInvalidDecision
	}
}

// RequestService 管理聊天请求的生命周期：pending → accepted | rejected。
type RequestService struct {
	accounts *store.AccountStore
	requests *store.RequestStore
	// reopen 为 true 时，被拒绝的请求释放该账号对，双方可以重新发起请求。
	reopen bool
	now    func() time.Time
}

func NewRequestService(db *gorm.DB, cfg config.Config) *RequestService {
	return &RequestService{
		accounts: store.NewAccountStore(db),
		requests: store.NewRequestStore(db),
		reopen:   cfg.ReopenOnReject,
		now:      time.Now,
	}
}

// RequestDTO 是对外输出的聊天请求。
type RequestDTO struct {
	ID            uint                 `json:"id"`
	RequesterID   uint                 `json:"requester_id"`
	RequesterName string               `json:"requester_name"`
	TargetID      uint                 `json:"target_id"`
	TargetName    string               `json:"target_name"`
	Status        models.RequestStatus `json:"status"`
	CreatedAt     time.Time            `json:"created_at"`
	RespondedAt   *time.Time           `json:"responded_at,omitempty"`
}

// Create 由 actor 向 targetID 发起聊天请求。同一账号对同时只能有一个有效请求。
func (s *RequestService) Create(ctx context.Context, actor Actor, targetID uint) (*RequestDTO, error) {
	if targetID == actor.AccountID {
		return nil, ErrSelfRequestForbidden
	}
	ok, err := s.accounts.Exists(ctx, targetID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrAccountNotFound
	}
	req, err := s.requests.Create(ctx, actor.AccountID, targetID)
	if err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return nil, ErrDuplicateRequest
		}
		return nil, err
	}
	metrics.ChatRequestsTotal.WithLabelValues("created").Inc()
	return s.describeOne(ctx, *req)
}

// Respond 只允许请求的目标账号在 pending 状态下答复一次。
func (s *RequestService) Respond(ctx context.Context, actor Actor, requestID uint, decision Decision) (*RequestDTO, error) {
	status, err := decision.status()
	if err != nil {
		return nil, err
	}
	release := status == models.StatusRejected && s.reopen
	changed, err := s.requests.Resolve(ctx, requestID, actor.AccountID, status, release, s.now().UTC())
	if err != nil {
		return nil, err
	}
	req, err := s.requests.ByID(ctx, requestID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrRequestNotFound
		}
		return nil, err
	}
	if !changed {
		if req.TargetID != actor.AccountID {
			return nil, ErrNotRequestTarget
		}
		return nil, ErrRequestNotPending
	}
	metrics.ChatRequestsTotal.WithLabelValues(string(status)).Inc()
	return s.describeOne(ctx, *req)
}

// Incoming 列出发给 actor 的请求，最新的在前。
func (s *RequestService) Incoming(ctx context.Context, actor Actor) ([]RequestDTO, error) {
	reqs, err := s.requests.Incoming(ctx, actor.AccountID)
	if err != nil {
		return nil, err
	}
	return s.describe(ctx, reqs)
}

// Outgoing 列出 actor 发出的请求，最新的在前。
func (s *RequestService) Outgoing(ctx context.Context, actor Actor) ([]RequestDTO, error) {
	reqs, err := s.requests.Outgoing(ctx, actor.AccountID)
	if err != nil {
		return nil, err
	}
	return s.describe(ctx, reqs)
}

func (s *RequestService) describeOne(ctx context.Context, req models.ChatRequest) (*RequestDTO, error) {
	out, err := s.describe(ctx, []models.ChatRequest{req})
	if err != nil {
		return nil, err
	}
	return &out[0], nil
}

// describe 批量补全双方名称。
func (s *RequestService) describe(ctx context.Context, reqs []models.ChatRequest) ([]RequestDTO, error) {
	seen := make(map[uint]struct{}, len(reqs)*2)
	ids := make([]uint, 0, len(reqs)*2)
	for _, r := range reqs {
		for _, id := range [2]uint{r.RequesterID, r.TargetID} {
			if _, ok := seen[id]; ok {
				continue
			}
			seen[id] = struct{}{}
			ids = append(ids, id)
		}
	}
	names, err := s.accounts.Names(ctx, ids)
	if err != nil {
		return nil, err
	}
	out := make([]RequestDTO, 0, len(reqs))
	for _, r := range reqs {
		out = append(out, RequestDTO{
			ID:            r.ID,
			RequesterID:   r.RequesterID,
			RequesterName: names[r.RequesterID],
			TargetID:      r.TargetID,
			TargetName:    names[r.TargetID],
			Status:        r.Status,
			CreatedAt:     r.CreatedAt,
			RespondedAt:   r.RespondedAt,
		})
	}
	return out, nil
}
