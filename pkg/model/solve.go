// Package model 定义排班求解引擎的核心数据模型
package model

import (
	"time"

	"github.com/google/uuid"
)

// 求解运行状态
const (
	RunStatusPending   = "pending"
	RunStatusRunning   = "running"
	RunStatusCompleted = "completed"
	RunStatusFailed    = "failed"
)

// 求解结果状态（metrics.status）
const (
	SolveStatusSuccess    = "SUCCESS"
	SolveStatusInfeasible = "INFEASIBLE"
	SolveStatusUnknown    = "UNKNOWN"
)

// SolveRequest 求解请求约束
type SolveRequest struct {
	StartDate string `json:"start_date"` // ISO-8601 日期或日期时间，可带尾缀Z
	EndDate   string `json:"end_date"`

	// 以下两项随请求接收并记入运行快照；休息规则按整日相邻口径建模
	MaxHoursPerEmployee int `json:"max_hours_per_employee"`
	MinRestHours        int `json:"min_rest_hours"`

	PreferEmployeePreferences bool `json:"prefer_employee_preferences"`
	MinimizeCost              bool `json:"minimize_cost"` // true=成本最小化，false=偏好最大化
}

// Assignment 排班分配（求解输出）
// 人名与班次名冗余写入，下游无需再查表
type Assignment struct {
	EmployeeID   int64  `json:"employee_id" db:"employee_id"`
	EmployeeName string `json:"employee_name" db:"employee_name"`
	ShiftID      int64  `json:"shift_id" db:"shift_id"`
	ShiftName    string `json:"shift_name" db:"shift_name"`
	Date         string `json:"date" db:"date"` // YYYY-MM-DD
}

// RunMetrics 求解质量指标
type RunMetrics struct {
	ObjectiveValue     float64 `json:"objective_value"`
	SolveTime          float64 `json:"solve_time"` // 秒
	TotalAssignments   int     `json:"total_assignments"`
	CoveragePercentage float64 `json:"coverage_percentage"`
	LoadBalance        float64 `json:"load_balance"`
	ModelVariables     int     `json:"model_variables,omitempty"`
	ModelConstraints   int     `json:"model_constraints,omitempty"`
	Status             string  `json:"status"`
	Error              string  `json:"error,omitempty"`
}

// SolveResult 求解结果
// 核心边界内的预期失败（不可行、未知、前置校验失败）以该结构返回，不抛错
type SolveResult struct {
	Success     bool         `json:"success"`
	Assignments []Assignment `json:"assignments"`
	Metrics     RunMetrics   `json:"metrics"`
}

// SolverRun 求解运行记录
type SolverRun struct {
	ID               int64     `json:"id" db:"id"`
	RunID            uuid.UUID `json:"run_id" db:"run_id"`
	Status           string    `json:"status" db:"status"` // pending/running/completed/failed
	StartDate        string    `json:"start_date" db:"start_date"`
	EndDate          string    `json:"end_date" db:"end_date"`
	Constraints      string    `json:"constraints,omitempty" db:"constraints"` // 请求约束JSON快照
	ObjectiveValue   float64   `json:"objective_value" db:"objective_value"`
	SolveTime        float64   `json:"solve_time" db:"solve_time"`
	AssignmentsCount int       `json:"assignments_count" db:"assignments_count"`
	CreatedAt        time.Time `json:"created_at" db:"created_at"`
	UpdatedAt        time.Time `json:"updated_at" db:"updated_at"`
}

// ErrorLog 求解错误日志
type ErrorLog struct {
	ID        int64     `json:"id" db:"id"`
	RunID     uuid.UUID `json:"run_id" db:"run_id"`
	Message   string    `json:"message" db:"message"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
