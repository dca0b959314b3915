// Package store 封装基于 gorm 的数据访问，每个 store 都可以通过 WithTx 绑定到事务上。
package store

import (
	"context"

	"morsechat/internal/models"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

var (
	ErrNotFound  = errors.New("store: record not found")
	ErrDuplicate = errors.New("store: duplicate record")
)

// translate 把 gorm 错误映射为 store 的哨兵错误，并附上出错的操作名。
func translate(err error, op string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return errors.Wrap(ErrNotFound, op)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return errors.Wrap(ErrDuplicate, op)
	default:
		return errors.Wrap(err, op)
	}
}

// AccountStore 读写账号表。
type AccountStore struct {
	db *gorm.DB
}

// NewAccountStore 基于 db 创建 AccountStore。
func NewAccountStore(db *gorm.DB) *AccountStore {
	return &AccountStore{db: db}
}

// WithTx 返回绑定到 tx 的副本。
func (s *AccountStore) WithTx(tx *gorm.DB) *AccountStore {
	return &AccountStore{db: tx}
}

func (s *AccountStore) Create(ctx context.Context, a *models.Account) error {
	return translate(s.db.WithContext(ctx).Create(a).Error, "accountStore.Create")
}

func (s *AccountStore) ByID(ctx context.Context, id uint) (*models.Account, error) {
	var a models.Account
	if err := s.db.WithContext(ctx).First(&a, id).Error; err != nil {
		return nil, translate(err, "accountStore.ByID")
	}
	return &a, nil
}

// ByName 按名称查询账号，不存在时返回 ErrNotFound。
func (s *AccountStore) ByName(ctx context.Context, name string) (*models.Account, error) {
	var a models.Account
	if err := s.db.WithContext(ctx).Where("name = ?", name).First(&a).Error; err != nil {
		return nil, translate(err, "accountStore.ByName")
	}
	return &a, nil
}

func (s *AccountStore) NameTaken(ctx context.Context, name string) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.Account{}).Where("name = ?", name).Count(&count).Error
	if err != nil {
		return false, translate(err, "accountStore.NameTaken")
	}
	return count > 0, nil
}

func (s *AccountStore) Exists(ctx context.Context, id uint) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.Account{}).Where("id = ?", id).Count(&count).Error
	if err != nil {
		return false, translate(err, "accountStore.Exists")
	}
	return count > 0, nil
}

// List 按名称排序返回除 excludeID 外的全部账号。
func (s *AccountStore) List(ctx context.Context, excludeID uint) ([]models.Account, error) {
	var out []models.Account
	err := s.db.WithContext(ctx).Select("id", "name", "created_at").
		Where("id <> ?", excludeID).Order("name asc").Find(&out).Error
	if err != nil {
		return nil, translate(err, "accountStore.List")
	}
	return out, nil
}

// Names 一次查询解析 ids 对应的名称，不存在的 id 不会出现在结果里。
func (s *AccountStore) Names(ctx context.Context, ids []uint) (map[uint]string, error) {
	names := make(map[uint]string, len(ids))
	if len(ids) == 0 {
		return names, nil
	}
	var accounts []models.Account
	if err := s.db.WithContext(ctx).Select("id", "name").Where("id IN ?", ids).Find(&accounts).Error; err != nil {
		return nil, translate(err, "accountStore.Names")
	}
	for _, a := range accounts {
		names[a.ID] = a.Name
	}
	return names, nil
}
