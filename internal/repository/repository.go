// Package repository 提供数据访问层
package repository

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/paiyou/paiyou/pkg/model"
)

// ListFilter 列表查询过滤器
type ListFilter struct {
	ActiveOnly bool   `json:"active_only"`
	Search     string `json:"search,omitempty"`
	Offset     int    `json:"offset"`
	Limit      int    `json:"limit"`
}

// DefaultListFilter 返回默认过滤器
func DefaultListFilter() ListFilter {
	return ListFilter{
		ActiveOnly: true,
		Offset:     0,
		Limit:      100,
	}
}

// WithLimit 设置限制
func (f ListFilter) WithLimit(limit int) ListFilter {
	f.Limit = limit
	return f
}

// WithOffset 设置偏移
func (f ListFilter) WithOffset(offset int) ListFilter {
	f.Offset = offset
	return f
}

// DB 数据库接口
// Transaction 用于多行写入的全有或全无提交
type DB interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
	Transaction(ctx context.Context, fn func(tx *sql.Tx) error) error
}

// Scanner 行扫描接口
type Scanner interface {
	Scan(dest ...interface{}) error
}

// RunStore 求解运行存储
// 内存实现用于无数据库部署，Postgres实现用于持久化
type RunStore interface {
	CreateRun(ctx context.Context, run *model.SolverRun) error
	UpdateRun(ctx context.Context, run *model.SolverRun) error
	GetRun(ctx context.Context, runID uuid.UUID) (*model.SolverRun, error)
	ListRuns(ctx context.Context, filter ListFilter) ([]*model.SolverRun, error)
	SaveAssignments(ctx context.Context, runID uuid.UUID, assignments []model.Assignment) error
	GetAssignments(ctx context.Context, runID uuid.UUID) ([]model.Assignment, error)
	LogError(ctx context.Context, runID uuid.UUID, message string) error
	GetErrors(ctx context.Context, runID uuid.UUID) ([]model.ErrorLog, error)
}

// ErrRunNotFound 运行记录不存在
var ErrRunNotFound = sql.ErrNoRows
