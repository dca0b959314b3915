// Package testutil 为各包测试提供一次性数据库。
package testutil

import (
	"fmt"
	"testing"

	"morsechat/internal/db"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// NewDB 返回只属于 t 的、已迁移的内存 SQLite 数据库。
func NewDB(t testing.TB) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	gdb, err := db.Connect(db.DriverSQLite, dsn)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.Migrate(gdb); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := gdb.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return gdb
}
