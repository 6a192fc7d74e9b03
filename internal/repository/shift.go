package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/paiyou/paiyou/pkg/model"
)

// ShiftRepository 班次仓储
type ShiftRepository struct {
	db DB
}

// NewShiftRepository 创建班次仓储
func NewShiftRepository(db DB) *ShiftRepository {
	return &ShiftRepository{db: db}
}

// Create 创建班次
func (r *ShiftRepository) Create(ctx context.Context, shift *model.Shift) error {
	skillsJSON, _ := json.Marshal(shift.RequiredSkills)

	query := `
		INSERT INTO shifts (
			name, start_time, end_time, day_of_week, required_skills,
			min_employees, max_employees, cost_multiplier, is_active, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW(), NOW())
		RETURNING id
	`

	err := r.db.QueryRowContext(ctx, query,
		shift.Name, shift.StartTime, shift.EndTime, shift.DayOfWeek, skillsJSON,
		shift.MinEmployees, shift.MaxEmployees, shift.CostMultiplier, shift.IsActive,
	).Scan(&shift.ID)
	if err != nil {
		return fmt.Errorf("创建班次失败: %w", err)
	}

	return nil
}

// GetByID 根据ID获取班次
func (r *ShiftRepository) GetByID(ctx context.Context, id int64) (*model.Shift, error) {
	query := `
		SELECT id, name, start_time, end_time, day_of_week, required_skills,
			min_employees, max_employees, cost_multiplier, is_active
		FROM shifts
		WHERE id = $1
	`

	return r.scanShift(r.db.QueryRowContext(ctx, query, id))
}

// Update 更新班次
func (r *ShiftRepository) Update(ctx context.Context, shift *model.Shift) error {
	skillsJSON, _ := json.Marshal(shift.RequiredSkills)

	query := `
		UPDATE shifts SET
			name = $2, start_time = $3, end_time = $4, day_of_week = $5,
			required_skills = $6, min_employees = $7, max_employees = $8,
			cost_multiplier = $9, is_active = $10, updated_at = NOW()
		WHERE id = $1
	`

	result, err := r.db.ExecContext(ctx, query,
		shift.ID, shift.Name, shift.StartTime, shift.EndTime, shift.DayOfWeek,
		skillsJSON, shift.MinEmployees, shift.MaxEmployees,
		shift.CostMultiplier, shift.IsActive,
	)
	if err != nil {
		return fmt.Errorf("更新班次失败: %w", err)
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("班次不存在")
	}

	return nil
}

// Delete 停用班次（软删除）
func (r *ShiftRepository) Delete(ctx context.Context, id int64) error {
	query := `UPDATE shifts SET is_active = FALSE, updated_at = NOW() WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("停用班次失败: %w", err)
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("班次不存在")
	}

	return nil
}

// List 查询班次列表
func (r *ShiftRepository) List(ctx context.Context, filter ListFilter) ([]*model.Shift, error) {
	query := `
		SELECT id, name, start_time, end_time, day_of_week, required_skills,
			min_employees, max_employees, cost_multiplier, is_active
		FROM shifts
	`
	args := []interface{}{}
	if filter.ActiveOnly {
		query += ` WHERE is_active = TRUE`
	}
	query += ` ORDER BY id`
	if filter.Limit > 0 {
		args = append(args, filter.Limit, filter.Offset)
		query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)-1, len(args))
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("查询班次列表失败: %w", err)
	}
	defer rows.Close()

	var shifts []*model.Shift
	for rows.Next() {
		shift, err := r.scanShift(rows)
		if err != nil {
			return nil, err
		}
		shifts = append(shifts, shift)
	}
	return shifts, rows.Err()
}

// scanShift 扫描班次行
func (r *ShiftRepository) scanShift(row Scanner) (*model.Shift, error) {
	var shift model.Shift
	var skillsJSON []byte

	err := row.Scan(
		&shift.ID, &shift.Name, &shift.StartTime, &shift.EndTime, &shift.DayOfWeek,
		&skillsJSON, &shift.MinEmployees, &shift.MaxEmployees,
		&shift.CostMultiplier, &shift.IsActive,
	)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("班次不存在")
	}
	if err != nil {
		return nil, fmt.Errorf("扫描班次数据失败: %w", err)
	}

	json.Unmarshal(skillsJSON, &shift.RequiredSkills)

	return &shift, nil
}
