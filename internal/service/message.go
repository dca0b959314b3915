package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"morsechat/internal/config"
	"morsechat/internal/metrics"
	"morsechat/internal/models"
	"morsechat/internal/morse"
	"morsechat/internal/policy"
	"morsechat/internal/store"

	"gorm.io/gorm"
)

// MessageService 封装消息相关的业务逻辑。消息正文只以摩尔斯码形式存储。
type MessageService struct {
	db       *gorm.DB
	policy   policy.Policy
	codec    *morse.Codec
	accounts *store.AccountStore
	requests *store.RequestStore
	messages *store.MessageStore
}

func NewMessageService(db *gorm.DB, cfg config.Config) *MessageService {
	return &MessageService{
		db:       db,
		policy:   policy.New(cfg.PrivilegedAccountID),
		codec:    morse.Default(),
		accounts: store.NewAccountStore(db),
		requests: store.NewRequestStore(db),
		messages: store.NewMessageStore(db),
	}
}

// MessageDTO 是对外输出的消息数据，同时带摩尔斯码原文和解码后的文本。
type MessageDTO struct {
	ID          uint      `json:"id"`
	SenderID    uint      `json:"sender_id"`
	SenderName  string    `json:"sender_name"`
	RecipientID uint      `json:"recipient_id"`
	Morse       string    `json:"morse"`
	Text        string    `json:"text"`
	CreatedAt   time.Time `json:"created_at"`
}

// SendInput 二选一：Morse 校验后直接保存，Text 先编码再保存；两者都有时以 Morse 为准。
type SendInput struct {
	RecipientID uint
	Morse       string
	Text        string
}

// Send 在同一个事务里完成授权判断和写入。
func (s *MessageService) Send(ctx context.Context, actor Actor, in SendInput) (*MessageDTO, error) {
	body := strings.TrimSpace(in.Morse)
	switch {
	case body != "":
		// 客户端直接提交的正文必须是信号码，不能把明文存进去。
		if !morse.IsPattern(body) {
			return nil, ErrInvalidPattern
		}
	case in.Text != "":
		body = s.codec.Encode(in.Text)
	default:
		return nil, ErrEmptyMessage
	}
	if in.RecipientID == actor.AccountID {
		return nil, ErrSelfMessageForbidden
	}

	msg := models.Message{SenderID: actor.AccountID, RecipientID: in.RecipientID, Morse: body}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		ok, err := s.accounts.WithTx(tx).Exists(ctx, in.RecipientID)
		if err != nil {
			return err
		}
		if !ok {
			return ErrAccountNotFound
		}
		allowed, err := s.policy.CanSend(ctx, actor.AccountID, in.RecipientID, s.requests.WithTx(tx))
		if err != nil {
			return err
		}
		if !allowed {
			return ErrChatNotAuthorized
		}
		return s.messages.WithTx(tx).Create(ctx, &msg)
	})
	if err != nil {
		if errors.Is(err, ErrChatNotAuthorized) {
			metrics.MessagesDeniedTotal.Inc()
		}
		return nil, err
	}
	metrics.MessagesStoredTotal.Inc()

	names, err := s.accounts.Names(ctx, []uint{actor.AccountID})
	if err != nil {
		return nil, err
	}
	dto := s.toDTO(msg, names)
	return &dto, nil
}

// ListWith 返回 actor 与 withID 之间的全部消息，按创建时间升序。
func (s *MessageService) ListWith(ctx context.Context, actor Actor, withID uint) ([]MessageDTO, error) {
	ok, err := s.accounts.Exists(ctx, withID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrAccountNotFound
	}
	msgs, err := s.messages.Between(ctx, actor.AccountID, withID)
	if err != nil {
		return nil, err
	}
	names, err := s.accounts.Names(ctx, []uint{actor.AccountID, withID})
	if err != nil {
		return nil, err
	}
	out := make([]MessageDTO, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, s.toDTO(m, names))
	}
	return out, nil
}

func (s *MessageService) toDTO(m models.Message, names map[uint]string) MessageDTO {
	return MessageDTO{
		ID:          m.ID,
		SenderID:    m.SenderID,
		SenderName:  names[m.SenderID],
		RecipientID: m.RecipientID,
		Morse:       m.Morse,
		Text:        s.codec.Decode(m.Morse),
		CreatedAt:   m.CreatedAt,
	}
}
