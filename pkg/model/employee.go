// Package model 定义排班求解引擎的核心数据模型
package model

// Employee 员工
// 求解期间为只读快照，归属外部持久化层
type Employee struct {
	ID       int64  `json:"id" db:"id"`
	Name     string `json:"name" db:"name"`
	Email    string `json:"email,omitempty" db:"email"`
	Phone    string `json:"phone,omitempty" db:"phone"`
	Position string `json:"position,omitempty" db:"position"`

	// 求解相关
	Skills       []string           `json:"skills" db:"skills"`
	Availability map[string]bool    `json:"availability" db:"availability"` // 小写英文星期名 -> 是否可用，缺省可用
	Preferences  map[string]float64 `json:"preferences" db:"preferences"`   // 班次ID字符串 -> 偏好分值，缺省0
	HourlyRate   float64            `json:"hourly_rate" db:"hourly_rate"`   // 时薪，非负

	IsActive bool `json:"is_active" db:"is_active"`
}

// HasSkill 检查员工是否具备某技能
func (e *Employee) HasSkill(skill string) bool {
	for _, s := range e.Skills {
		if s == skill {
			return true
		}
	}
	return false
}

// HasAnySkill 检查员工是否具备技能列表中的至少一项
// 空列表视为无技能限制
func (e *Employee) HasAnySkill(skills []string) bool {
	if len(skills) == 0 {
		return true
	}
	for _, s := range skills {
		if e.HasSkill(s) {
			return true
		}
	}
	return false
}

// AvailableOn 检查员工在某星期（小写英文名）是否可用
// 可用性记录未显式标记的星期默认可用
func (e *Employee) AvailableOn(dayName string) bool {
	if e.Availability == nil {
		return true
	}
	available, ok := e.Availability[dayName]
	if !ok {
		return true
	}
	return available
}

// PreferenceFor 返回员工对某班次的偏好分值，缺省为0
func (e *Employee) PreferenceFor(shiftID string) float64 {
	if e.Preferences == nil {
		return 0
	}
	return e.Preferences[shiftID]
}
