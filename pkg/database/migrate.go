package database

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"go.uber.org/zap"
)

// 迁移脚本随二进制一起发布，部署时无需携带 SQL 文件
//
//go:embed migrations/*.sql
var migrationsFS embed.FS

// RunMigrations 启动时把数据库结构推进到最新版本
// 发现 dirty 版本（上次迁移中断）直接报错退出，不带病启动
func RunMigrations(db *sql.DB, logger *zap.Logger) error {
	m, err := newMigrator(db)
	if err != nil {
		return err
	}

	from, dirty, err := m.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return fmt.Errorf("读取 schema 版本失败: %w", err)
	}
	if dirty {
		return fmt.Errorf("schema 版本 %d 处于 dirty 状态，需人工修复后重启", from)
	}

	err = m.Up()
	switch {
	case errors.Is(err, migrate.ErrNoChange):
		logger.Info("数据库结构已是最新", zap.Uint("version", from))
		return nil
	case err != nil:
		return fmt.Errorf("迁移执行失败: %w", err)
	}

	to, _, _ := m.Version()
	logger.Info("数据库结构已更新",
		zap.Uint("from", from),
		zap.Uint("to", to))
	return nil
}

func newMigrator(db *sql.DB) (*migrate.Migrate, error) {
	source, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return nil, fmt.Errorf("读取内嵌迁移脚本失败: %w", err)
	}

	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return nil, fmt.Errorf("构建 postgres 迁移驱动失败: %w", err)
	}

	return migrate.NewWithInstance("iofs", source, "postgres", driver)
}
