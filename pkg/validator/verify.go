// Package validator 对排班结果做规则复核
// 独立于求解器重新检查每条硬约束，用于结果审计与对外校验接口
package validator

import (
	"fmt"

	"github.com/paiyou/paiyou/pkg/model"
	"github.com/paiyou/paiyou/pkg/solver"
)

// 违规规则标识
const (
	RuleOneShiftPerDay = "one_shift_per_day"
	RuleCoverageMin    = "coverage_min"
	RuleCoverageMax    = "coverage_max"
	RuleSkill          = "skill_eligibility"
	RuleAvailability   = "availability"
	RuleDailyRest      = "daily_rest"
	RuleConsecutive    = "consecutive_days"
)

// Violation 一条排班违规记录
type Violation struct {
	Rule       string `json:"rule"`
	EmployeeID int64  `json:"employee_id,omitempty"`
	ShiftID    int64  `json:"shift_id,omitempty"`
	Date       string `json:"date,omitempty"`
	Message    string `json:"message"`
}

// Check 复核排班表是否满足全部硬约束，返回全部违规项
// 最小人数检查容忍求解器的覆盖松弛：缺员仍会上报，由调用方决定处置
func Check(employees []*model.Employee, shifts []*model.Shift, startDate, endDate string, assignments []model.Assignment) ([]Violation, error) {
	days, err := solver.ExpandHorizon(startDate, endDate)
	if err != nil {
		return nil, err
	}

	empByID := make(map[int64]*model.Employee, len(employees))
	for _, e := range employees {
		empByID[e.ID] = e
	}
	shiftByID := make(map[int64]*model.Shift, len(shifts))
	for _, s := range shifts {
		shiftByID[s.ID] = s
	}

	dayIndex := make(map[string]int, len(days))
	for i, d := range days {
		dayIndex[solver.FormatDate(d)] = i
	}

	var violations []Violation

	// 每人每天的排班数与每 (班次, 日) 的人数
	perDay := make(map[int64]map[string]int)
	perShiftDay := make(map[int64]map[string]int)
	for _, a := range assignments {
		if perDay[a.EmployeeID] == nil {
			perDay[a.EmployeeID] = make(map[string]int)
		}
		perDay[a.EmployeeID][a.Date]++
		if perShiftDay[a.ShiftID] == nil {
			perShiftDay[a.ShiftID] = make(map[string]int)
		}
		perShiftDay[a.ShiftID][a.Date]++
	}

	for _, a := range assignments {
		emp := empByID[a.EmployeeID]
		shift := shiftByID[a.ShiftID]
		if emp == nil || shift == nil {
			violations = append(violations, Violation{
				Rule: RuleSkill, EmployeeID: a.EmployeeID, ShiftID: a.ShiftID, Date: a.Date,
				Message: fmt.Sprintf("排班引用了未知的员工 %d 或班次 %d", a.EmployeeID, a.ShiftID),
			})
			continue
		}

		if shift.HasSkillRequirement() && !emp.HasAnySkill(shift.RequiredSkills) {
			violations = append(violations, Violation{
				Rule: RuleSkill, EmployeeID: emp.ID, ShiftID: shift.ID, Date: a.Date,
				Message: fmt.Sprintf("员工 '%s' 不具备班次 '%s' 的任一所需技能", emp.Name, shift.Name),
			})
		}

		di, ok := dayIndex[a.Date]
		if !ok {
			violations = append(violations, Violation{
				Rule: RuleAvailability, EmployeeID: emp.ID, ShiftID: shift.ID, Date: a.Date,
				Message: fmt.Sprintf("排班日期 %s 不在排班周期内", a.Date),
			})
			continue
		}
		day := days[di]

		if !emp.AvailableOn(solver.WeekdayName(day)) {
			violations = append(violations, Violation{
				Rule: RuleAvailability, EmployeeID: emp.ID, ShiftID: shift.ID, Date: a.Date,
				Message: fmt.Sprintf("员工 '%s' 在 %s 声明不可用", emp.Name, a.Date),
			})
		}

		if solver.WeekdayIndex(day) != shift.DayOfWeek {
			violations = append(violations, Violation{
				Rule: RuleCoverageMax, EmployeeID: emp.ID, ShiftID: shift.ID, Date: a.Date,
				Message: fmt.Sprintf("班次 '%s' 不在 %s 运作", shift.Name, a.Date),
			})
		}
	}

	// 每人每天最多一个班次
	for empID, dates := range perDay {
		for date, n := range dates {
			if n > 1 {
				violations = append(violations, Violation{
					Rule: RuleOneShiftPerDay, EmployeeID: empID, Date: date,
					Message: fmt.Sprintf("员工 %d 在 %s 被排了 %d 个班次", empID, date, n),
				})
			}
		}
	}

	// 人数覆盖上下限
	for _, s := range shifts {
		for _, d := range days {
			if solver.WeekdayIndex(d) != s.DayOfWeek {
				continue
			}
			date := solver.FormatDate(d)
			n := perShiftDay[s.ID][date]
			if n < s.MinEmployees {
				violations = append(violations, Violation{
					Rule: RuleCoverageMin, ShiftID: s.ID, Date: date,
					Message: fmt.Sprintf("班次 '%s' 在 %s 仅排 %d 人，低于最小人数 %d", s.Name, date, n, s.MinEmployees),
				})
			}
			if n > s.MaxEmployees {
				violations = append(violations, Violation{
					Rule: RuleCoverageMax, ShiftID: s.ID, Date: date,
					Message: fmt.Sprintf("班次 '%s' 在 %s 排了 %d 人，超过最大人数 %d", s.Name, date, n, s.MaxEmployees),
				})
			}
		}
	}

	// 相邻两天合计最多工作一天、任意连续7天最多工作6天
	for empID, dates := range perDay {
		worked := make([]bool, len(days))
		for date := range dates {
			if di, ok := dayIndex[date]; ok {
				worked[di] = true
			}
		}
		for d := 0; d+1 < len(worked); d++ {
			if worked[d] && worked[d+1] {
				violations = append(violations, Violation{
					Rule: RuleDailyRest, EmployeeID: empID, Date: solver.FormatDate(days[d+1]),
					Message: fmt.Sprintf("员工 %d 在 %s 与 %s 连续两天工作", empID, solver.FormatDate(days[d]), solver.FormatDate(days[d+1])),
				})
			}
		}
		for w := 0; w+7 <= len(worked); w++ {
			n := 0
			for d := w; d < w+7; d++ {
				if worked[d] {
					n++
				}
			}
			if n > 6 {
				violations = append(violations, Violation{
					Rule: RuleConsecutive, EmployeeID: empID, Date: solver.FormatDate(days[w]),
					Message: fmt.Sprintf("员工 %d 自 %s 起的7天内工作 %d 天", empID, solver.FormatDate(days[w]), n),
				})
			}
		}
	}

	return violations, nil
}
