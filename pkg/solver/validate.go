package solver

import (
	"fmt"
	"strings"

	"github.com/paiyou/paiyou/pkg/model"
)

// ValidationResult 前置校验结果，Errors 汇总全部不满足项
type ValidationResult struct {
	Valid  bool     `json:"valid"`
	Errors []string `json:"errors,omitempty"`
}

// Message 将全部校验错误合并为一条消息
func (r *ValidationResult) Message() string {
	return strings.Join(r.Errors, "; ")
}

// ValidateInputs 求解前的可行性预检
// 校验不短路：累积所有错误后统一返回，便于一次性修正输入
func ValidateInputs(employees []*model.Employee, shifts []*model.Shift, req *model.SolveRequest) *ValidationResult {
	result := &ValidationResult{Valid: true}

	if len(employees) == 0 {
		result.Errors = append(result.Errors, "没有可用员工")
	}
	if len(shifts) == 0 {
		result.Errors = append(result.Errors, "没有已配置的班次")
	}

	// 技能覆盖：每个班次要求的每项技能至少有一名员工具备
	for _, s := range shifts {
		for _, skill := range s.RequiredSkills {
			found := false
			for _, e := range employees {
				if e.HasSkill(skill) {
					found = true
					break
				}
			}
			if !found {
				result.Errors = append(result.Errors,
					fmt.Sprintf("班次 '%s' 需要技能 '%s'，但没有员工具备该技能", s.Name, skill))
			}
		}
	}

	// 人数覆盖：符合条件（具备任一所需技能）的员工数须达到最小人数
	if len(employees) > 0 {
		for _, s := range shifts {
			eligible := 0
			for _, e := range employees {
				if e.HasAnySkill(s.RequiredSkills) {
					eligible++
				}
			}
			if eligible < s.MinEmployees {
				result.Errors = append(result.Errors,
					fmt.Sprintf("班次 '%s' 需要至少 %d 名员工，但符合条件的只有 %d 名", s.Name, s.MinEmployees, eligible))
			}
		}
	}

	// 日期范围
	days, horizonErr := ExpandHorizon(req.StartDate, req.EndDate)
	if strings.TrimSpace(req.StartDate) == "" || strings.TrimSpace(req.EndDate) == "" {
		result.Errors = append(result.Errors, "开始和结束日期均为必填")
	} else if horizonErr != nil {
		result.Errors = append(result.Errors, horizonErr.Error())
	}

	// 总量可行性：整个排班周期的最小人次需求不得超过总人力供给
	if horizonErr == nil && len(employees) > 0 && len(shifts) > 0 {
		totalMin := 0
		for _, s := range shifts {
			for _, d := range days {
				if WeekdayIndex(d) == s.DayOfWeek {
					totalMin += s.MinEmployees
				}
			}
		}
		capacity := len(employees) * len(days)
		if totalMin > capacity {
			result.Errors = append(result.Errors,
				fmt.Sprintf("排班周期内最少需要 %d 人次，但总人力上限只有 %d 人次", totalMin, capacity))
		}
	}

	result.Valid = len(result.Errors) == 0
	return result
}
