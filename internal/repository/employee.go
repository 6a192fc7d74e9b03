package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/paiyou/paiyou/pkg/model"
)

// EmployeeRepository 员工仓储
type EmployeeRepository struct {
	db DB
}

// NewEmployeeRepository 创建员工仓储
func NewEmployeeRepository(db DB) *EmployeeRepository {
	return &EmployeeRepository{db: db}
}

// Create 创建员工
func (r *EmployeeRepository) Create(ctx context.Context, emp *model.Employee) error {
	skillsJSON, _ := json.Marshal(emp.Skills)
	availJSON, _ := json.Marshal(emp.Availability)
	prefsJSON, _ := json.Marshal(emp.Preferences)

	query := `
		INSERT INTO employees (
			name, email, phone, position, skills, availability,
			preferences, hourly_rate, is_active, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW(), NOW())
		RETURNING id
	`

	err := r.db.QueryRowContext(ctx, query,
		emp.Name, emp.Email, emp.Phone, emp.Position, skillsJSON, availJSON,
		prefsJSON, emp.HourlyRate, emp.IsActive,
	).Scan(&emp.ID)
	if err != nil {
		return fmt.Errorf("创建员工失败: %w", err)
	}

	return nil
}

// GetByID 根据ID获取员工
func (r *EmployeeRepository) GetByID(ctx context.Context, id int64) (*model.Employee, error) {
	query := `
		SELECT id, name, email, phone, position, skills, availability,
			preferences, hourly_rate, is_active
		FROM employees
		WHERE id = $1
	`

	return r.scanEmployee(r.db.QueryRowContext(ctx, query, id))
}

// Update 更新员工
func (r *EmployeeRepository) Update(ctx context.Context, emp *model.Employee) error {
	skillsJSON, _ := json.Marshal(emp.Skills)
	availJSON, _ := json.Marshal(emp.Availability)
	prefsJSON, _ := json.Marshal(emp.Preferences)

	query := `
		UPDATE employees SET
			name = $2, email = $3, phone = $4, position = $5, skills = $6,
			availability = $7, preferences = $8, hourly_rate = $9, is_active = $10,
			updated_at = NOW()
		WHERE id = $1
	`

	result, err := r.db.ExecContext(ctx, query,
		emp.ID, emp.Name, emp.Email, emp.Phone, emp.Position, skillsJSON,
		availJSON, prefsJSON, emp.HourlyRate, emp.IsActive,
	)
	if err != nil {
		return fmt.Errorf("更新员工失败: %w", err)
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("员工不存在")
	}

	return nil
}

// Delete 停用员工（软删除）
func (r *EmployeeRepository) Delete(ctx context.Context, id int64) error {
	query := `UPDATE employees SET is_active = FALSE, updated_at = NOW() WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("停用员工失败: %w", err)
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("员工不存在")
	}

	return nil
}

// List 查询员工列表
func (r *EmployeeRepository) List(ctx context.Context, filter ListFilter) ([]*model.Employee, error) {
	query := `
		SELECT id, name, email, phone, position, skills, availability,
			preferences, hourly_rate, is_active
		FROM employees
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
		return nil, fmt.Errorf("查询员工列表失败: %w", err)
	}
	defer rows.Close()

	var employees []*model.Employee
	for rows.Next() {
		emp, err := r.scanEmployee(rows)
		if err != nil {
			return nil, err
		}
		employees = append(employees, emp)
	}
	return employees, rows.Err()
}

// scanEmployee 扫描员工行
func (r *EmployeeRepository) scanEmployee(row Scanner) (*model.Employee, error) {
	var emp model.Employee
	var skillsJSON, availJSON, prefsJSON []byte

	err := row.Scan(
		&emp.ID, &emp.Name, &emp.Email, &emp.Phone, &emp.Position,
		&skillsJSON, &availJSON, &prefsJSON, &emp.HourlyRate, &emp.IsActive,
	)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("员工不存在")
	}
	if err != nil {
		return nil, fmt.Errorf("扫描员工数据失败: %w", err)
	}

	json.Unmarshal(skillsJSON, &emp.Skills)
	json.Unmarshal(availJSON, &emp.Availability)
	json.Unmarshal(prefsJSON, &emp.Preferences)

	return &emp, nil
}
