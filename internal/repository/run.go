package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/paiyou/paiyou/pkg/model"
)

// SolverRunRepository 求解运行仓储（Postgres实现）
type SolverRunRepository struct {
	db DB
}

// NewSolverRunRepository 创建求解运行仓储
func NewSolverRunRepository(db DB) *SolverRunRepository {
	return &SolverRunRepository{db: db}
}

// CreateRun 创建运行记录
func (r *SolverRunRepository) CreateRun(ctx context.Context, run *model.SolverRun) error {
	query := `
		INSERT INTO solver_runs (
			run_id, status, start_date, end_date, constraints,
			objective_value, solve_time, assignments_count, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW(), NOW())
		RETURNING id, created_at, updated_at
	`

	err := r.db.QueryRowContext(ctx, query,
		run.RunID, run.Status, run.StartDate, run.EndDate, run.Constraints,
		run.ObjectiveValue, run.SolveTime, run.AssignmentsCount,
	).Scan(&run.ID, &run.CreatedAt, &run.UpdatedAt)
	if err != nil {
		return fmt.Errorf("创建运行记录失败: %w", err)
	}

	return nil
}

// UpdateRun 更新运行记录
func (r *SolverRunRepository) UpdateRun(ctx context.Context, run *model.SolverRun) error {
	query := `
		UPDATE solver_runs SET
			status = $2, objective_value = $3, solve_time = $4,
			assignments_count = $5, updated_at = NOW()
		WHERE run_id = $1
	`

	result, err := r.db.ExecContext(ctx, query,
		run.RunID, run.Status, run.ObjectiveValue, run.SolveTime, run.AssignmentsCount,
	)
	if err != nil {
		return fmt.Errorf("更新运行记录失败: %w", err)
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return ErrRunNotFound
	}

	return nil
}

// GetRun 根据运行ID获取记录
func (r *SolverRunRepository) GetRun(ctx context.Context, runID uuid.UUID) (*model.SolverRun, error) {
	query := `
		SELECT id, run_id, status, start_date, end_date, constraints,
			objective_value, solve_time, assignments_count, created_at, updated_at
		FROM solver_runs
		WHERE run_id = $1
	`

	var run model.SolverRun
	err := r.db.QueryRowContext(ctx, query, runID).Scan(
		&run.ID, &run.RunID, &run.Status, &run.StartDate, &run.EndDate, &run.Constraints,
		&run.ObjectiveValue, &run.SolveTime, &run.AssignmentsCount, &run.CreatedAt, &run.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, ErrRunNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("查询运行记录失败: %w", err)
	}

	return &run, nil
}

// ListRuns 查询运行记录列表，按创建时间倒序
func (r *SolverRunRepository) ListRuns(ctx context.Context, filter ListFilter) ([]*model.SolverRun, error) {
	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}

	query := `
		SELECT id, run_id, status, start_date, end_date, constraints,
			objective_value, solve_time, assignments_count, created_at, updated_at
		FROM solver_runs
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`

	rows, err := r.db.QueryContext(ctx, query, limit, filter.Offset)
	if err != nil {
		return nil, fmt.Errorf("查询运行记录列表失败: %w", err)
	}
	defer rows.Close()

	var runs []*model.SolverRun
	for rows.Next() {
		var run model.SolverRun
		if err := rows.Scan(
			&run.ID, &run.RunID, &run.Status, &run.StartDate, &run.EndDate, &run.Constraints,
			&run.ObjectiveValue, &run.SolveTime, &run.AssignmentsCount, &run.CreatedAt, &run.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("扫描运行记录失败: %w", err)
		}
		runs = append(runs, &run)
	}
	return runs, rows.Err()
}

// SaveAssignments 在单个事务内保存一次运行的全部排班
// 任一行写入失败即整体回滚，不留下部分排班
func (r *SolverRunRepository) SaveAssignments(ctx context.Context, runID uuid.UUID, assignments []model.Assignment) error {
	query := `
		INSERT INTO assignments (
			run_id, employee_id, employee_name, shift_id, shift_name, date, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, NOW())
	`

	return r.db.Transaction(ctx, func(tx *sql.Tx) error {
		for _, a := range assignments {
			if _, err := tx.ExecContext(ctx, query,
				runID, a.EmployeeID, a.EmployeeName, a.ShiftID, a.ShiftName, a.Date,
			); err != nil {
				return fmt.Errorf("保存排班失败: %w", err)
			}
		}
		return nil
	})
}

// GetAssignments 获取一次运行的全部排班
func (r *SolverRunRepository) GetAssignments(ctx context.Context, runID uuid.UUID) ([]model.Assignment, error) {
	query := `
		SELECT employee_id, employee_name, shift_id, shift_name, date
		FROM assignments
		WHERE run_id = $1
		ORDER BY id
	`

	rows, err := r.db.QueryContext(ctx, query, runID)
	if err != nil {
		return nil, fmt.Errorf("查询排班失败: %w", err)
	}
	defer rows.Close()

	var assignments []model.Assignment
	for rows.Next() {
		var a model.Assignment
		if err := rows.Scan(&a.EmployeeID, &a.EmployeeName, &a.ShiftID, &a.ShiftName, &a.Date); err != nil {
			return nil, fmt.Errorf("扫描排班失败: %w", err)
		}
		assignments = append(assignments, a)
	}
	return assignments, rows.Err()
}

// LogError 记录一次运行的错误
func (r *SolverRunRepository) LogError(ctx context.Context, runID uuid.UUID, message string) error {
	query := `INSERT INTO error_logs (run_id, message, created_at) VALUES ($1, $2, NOW())`

	if _, err := r.db.ExecContext(ctx, query, runID, message); err != nil {
		return fmt.Errorf("记录运行错误失败: %w", err)
	}
	return nil
}

// GetErrors 获取一次运行的全部错误
func (r *SolverRunRepository) GetErrors(ctx context.Context, runID uuid.UUID) ([]model.ErrorLog, error) {
	query := `
		SELECT id, run_id, message, created_at
		FROM error_logs
		WHERE run_id = $1
		ORDER BY id
	`

	rows, err := r.db.QueryContext(ctx, query, runID)
	if err != nil {
		return nil, fmt.Errorf("查询运行错误失败: %w", err)
	}
	defer rows.Close()

	var logs []model.ErrorLog
	for rows.Next() {
		var e model.ErrorLog
		if err := rows.Scan(&e.ID, &e.RunID, &e.Message, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("扫描运行错误失败: %w", err)
		}
		logs = append(logs, e)
	}
	return logs, rows.Err()
}
