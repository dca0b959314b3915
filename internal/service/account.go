package service

import (
	"context"
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"morsechat/internal/auth"
	"morsechat/internal/config"
	"morsechat/internal/models"
	"morsechat/internal/policy"
	"morsechat/internal/store"

	"gorm.io/gorm"
)

const (
	maxNameLen     = 64
	maxPasswordLen = 72 // bcrypt 只使用前 72 字节
)

// AccountService 封装注册、登录和 token 相关的业务逻辑。
type AccountService struct {
	db       *gorm.DB
	cfg      config.Config
	policy   policy.Policy
	accounts *store.AccountStore
}

func NewAccountService(db *gorm.DB, cfg config.Config) *AccountService {
	return &AccountService{
		db:       db,
		cfg:      cfg,
		policy:   policy.New(cfg.PrivilegedAccountID),
		accounts: store.NewAccountStore(db),
	}
}

// AccountDTO 是对外输出的账号数据。
type AccountDTO struct {
	ID         uint   `json:"id"`
	Name       string `json:"name"`
	Privileged bool   `json:"privileged"`
}

// Register 注册新账号。名称区分大小写且唯一。
func (s *AccountService) Register(ctx context.Context, name, password string) (*AccountDTO, error) {
	name = strings.TrimSpace(name)
	if name == "" || utf8.RuneCountInString(name) > maxNameLen {
		return nil, ErrInvalidName
	}
	if password == "" || len(password) > maxPasswordLen {
		return nil, ErrInvalidPassword
	}
	taken, err := s.accounts.NameTaken(ctx, name)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, ErrDuplicateName
	}
	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, err
	}
	acc := models.Account{Name: name, PasswordHash: hash}
	if err := s.accounts.Create(ctx, &acc); err != nil {
		// 并发注册同名账号时由唯一索引兜底。
		if errors.Is(err, store.ErrDuplicate) {
			return nil, ErrDuplicateName
		}
		return nil, err
	}
	return s.toDTO(acc), nil
}

// LoginResult 登录成功后返回的数据。
type LoginResult struct {
	AccessToken  string     `json:"access_token"`
	RefreshToken string     `json:"refresh_token"`
	Account      AccountDTO `json:"account"`
}

// Login 校验名称和密码并签发 token 对。
func (s *AccountService) Login(ctx context.Context, name, password string) (*LoginResult, error) {
	acc, err := s.accounts.ByName(ctx, strings.TrimSpace(name))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !auth.VerifyPassword(acc.PasswordHash, password) {
		return nil, ErrInvalidCredentials
	}
	at, rt, err := s.issueTokens(s.db.WithContext(ctx), acc.ID)
	if err != nil {
		return nil, err
	}
	return &LoginResult{AccessToken: at, RefreshToken: rt, Account: *s.toDTO(*acc)}, nil
}

// RefreshResult 刷新 token 后返回的新 token 对。
type RefreshResult struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// RefreshTokens 验证旧 refresh token 并签发新 token 对（旋转刷新）。
func (s *AccountService) RefreshTokens(ctx context.Context, oldRT string) (*RefreshResult, error) {
	var result RefreshResult
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// 先占用旧 token，并发刷新时只有一个事务能拿到。
		rec, err := auth.ConsumeRefreshToken(tx, oldRT)
		if err != nil {
			return err
		}
		at, rt, err := s.issueTokens(tx, rec.AccountID)
		if err != nil {
			return err
		}
		result.AccessToken = at
		result.RefreshToken = rt
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// Logout 吊销 refresh token。重复调用不会报错。
func (s *AccountService) Logout(ctx context.Context, refreshToken string) error {
	_, err := auth.RevokeRefreshToken(s.db.WithContext(ctx), refreshToken)
	return err
}

// List 返回除当前账号外的全部账号，按名称排序。
func (s *AccountService) List(ctx context.Context, actor Actor) ([]AccountDTO, error) {
	accs, err := s.accounts.List(ctx, actor.AccountID)
	if err != nil {
		return nil, err
	}
	out := make([]AccountDTO, 0, len(accs))
	for _, a := range accs {
		out = append(out, *s.toDTO(a))
	}
	return out, nil
}

func (s *AccountService) issueTokens(tx *gorm.DB, accountID uint) (string, string, error) {
	at, err := auth.GenerateAccessToken(accountID, s.cfg.JWTSecret, s.cfg.AccessTokenTTLMinutes)
	if err != nil {
		return "", "", err
	}
	rt, err := auth.GenerateRefreshToken()
	if err != nil {
		return "", "", err
	}
	exp := time.Now().Add(time.Duration(s.cfg.RefreshTokenTTLDays) * 24 * time.Hour)
	if err := auth.SaveRefreshToken(tx, accountID, rt, exp); err != nil {
		return "", "", err
	}
	return at, rt, nil
}

func (s *AccountService) toDTO(a models.Account) *AccountDTO {
	return &AccountDTO{ID: a.ID, Name: a.Name, Privileged: s.policy.IsPrivileged(a.ID)}
}
