package database

import (
	"testing"

	"github.com/golang-migrate/migrate/v4/source/iofs"
)

// 校验内嵌迁移脚本本身是完整的（每个版本都有 up/down），
// 不依赖数据库连接
func TestEmbeddedMigrationsComplete(t *testing.T) {
	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		t.Fatalf("读取内嵌迁移脚本失败: %v", err)
	}
	defer src.Close() //nolint:errcheck

	version, err := src.First()
	if err != nil {
		t.Fatalf("迁移脚本为空: %v", err)
	}

	for {
		if _, _, err := src.ReadUp(version); err != nil {
			t.Errorf("版本 %d 缺少 up 脚本: %v", version, err)
		}
		if _, _, err := src.ReadDown(version); err != nil {
			t.Errorf("版本 %d 缺少 down 脚本: %v", version, err)
		}

		next, err := src.Next(version)
		if err != nil {
			break // 已到最后一个版本
		}
		version = next
	}
}
