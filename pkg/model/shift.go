// Package model 定义排班求解引擎的核心数据模型
package model

// Shift 班次模板
// 锚定在某个星期（0=周一 ... 6=周日），在排班区间内的匹配日重复出现
type Shift struct {
	ID        int64  `json:"id" db:"id"`
	Name      string `json:"name" db:"name"`
	StartTime string `json:"start_time,omitempty" db:"start_time"` // HH:MM，仅透传展示
	EndTime   string `json:"end_time,omitempty" db:"end_time"`     // HH:MM，仅透传展示
	DayOfWeek int    `json:"day_of_week" db:"day_of_week"`         // 0-6（周一-周日）

	RequiredSkills []string `json:"required_skills" db:"required_skills"` // 空表示无技能限制
	MinEmployees   int      `json:"min_employees" db:"min_employees"`
	MaxEmployees   int      `json:"max_employees" db:"max_employees"`
	CostMultiplier float64  `json:"cost_multiplier" db:"cost_multiplier"` // 应用于员工时薪的成本乘数

	IsActive bool `json:"is_active" db:"is_active"`
}

// HasSkillRequirement 检查班次是否有技能限制
func (s *Shift) HasSkillRequirement() bool {
	return len(s.RequiredSkills) > 0
}
