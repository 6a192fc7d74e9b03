package solver

import (
	"github.com/paiyou/paiyou/pkg/cpsolver"
)

// maxConsecutiveDays 任意连续7天窗口内的最大工作日数
const maxConsecutiveDays = 6

// addConstraints 将全部排班硬约束加入模型
func addConstraints(m *cpsolver.Model, vs *VarSpace) {
	addOneShiftPerDay(m, vs)
	addCoverage(m, vs)
	addSkillEligibility(m, vs)
	addAvailability(m, vs)
	addDailyRest(m, vs)
	addConsecutiveCap(m, vs)
}

// addOneShiftPerDay 每名员工每天最多承担一个班次
func addOneShiftPerDay(m *cpsolver.Model, vs *VarSpace) {
	for e := range vs.Employees {
		for d := range vs.Days {
			vars := make([]cpsolver.Var, 0, len(vs.Shifts))
			for s := range vs.Shifts {
				if v, ok := vs.Var(e, s, d); ok {
					vars = append(vars, v)
				}
			}
			if len(vars) > 0 {
				m.AddSumAtMost(vars, 1)
			}
		}
	}
}

// addCoverage 班次在其工作日上的人数覆盖
// 匹配日：人数+松弛 >= 最小人数，人数 <= 最大人数。
// 松弛上界为最小人数-1，下界中始终含至少一名真实员工，
// 最小人数为1或松弛不存在时下界为硬约束。
// 非匹配日：该班次当日全部变量强制为0
func addCoverage(m *cpsolver.Model, vs *VarSpace) {
	for s, shift := range vs.Shifts {
		for d, day := range vs.Days {
			assigned := make([]cpsolver.Var, 0, len(vs.Employees))
			for e := range vs.Employees {
				if v, ok := vs.Var(e, s, d); ok {
					assigned = append(assigned, v)
				}
			}

			if WeekdayIndex(day) != shift.DayOfWeek {
				for _, v := range assigned {
					m.AddEquality(v, 0)
				}
				continue
			}

			if slack, ok := vs.Slack(s, d); ok {
				withSlack := append(append([]cpsolver.Var(nil), assigned...), slack)
				m.AddSumAtLeast(withSlack, shift.MinEmployees)
			} else if shift.MinEmployees > 0 {
				m.AddSumAtLeast(assigned, shift.MinEmployees)
			}
			m.AddSumAtMost(assigned, shift.MaxEmployees)
		}
	}
}

// addSkillEligibility 不具备班次任一所需技能的员工不得承担该班次
// 无技能要求的班次对所有员工开放
func addSkillEligibility(m *cpsolver.Model, vs *VarSpace) {
	for e, emp := range vs.Employees {
		for s, shift := range vs.Shifts {
			if !shift.HasSkillRequirement() || emp.HasAnySkill(shift.RequiredSkills) {
				continue
			}
			for d := range vs.Days {
				if v, ok := vs.Var(e, s, d); ok {
					m.AddEquality(v, 0)
				}
			}
		}
	}
}

// addAvailability 员工声明当天不可用时，当日全部班次变量强制为0
// 可用性按周循环，缺省视为可用
func addAvailability(m *cpsolver.Model, vs *VarSpace) {
	for e, emp := range vs.Employees {
		for d, day := range vs.Days {
			if emp.AvailableOn(WeekdayName(day)) {
				continue
			}
			for s := range vs.Shifts {
				if v, ok := vs.Var(e, s, d); ok {
					m.AddEquality(v, 0)
				}
			}
		}
	}
}

// addDailyRest 相邻两天合计最多工作一天，保证班次间的休息间隔
func addDailyRest(m *cpsolver.Model, vs *VarSpace) {
	for e := range vs.Employees {
		for d := 0; d+1 < len(vs.Days); d++ {
			vars := make([]cpsolver.Var, 0, 2*len(vs.Shifts))
			for s := range vs.Shifts {
				if v, ok := vs.Var(e, s, d); ok {
					vars = append(vars, v)
				}
				if v, ok := vs.Var(e, s, d+1); ok {
					vars = append(vars, v)
				}
			}
			if len(vars) > 0 {
				m.AddSumAtMost(vars, 1)
			}
		}
	}
}

// addConsecutiveCap 任意连续7天窗口内最多工作6天
func addConsecutiveCap(m *cpsolver.Model, vs *VarSpace) {
	for e := range vs.Employees {
		for w := 0; w+7 <= len(vs.Days); w++ {
			vars := make([]cpsolver.Var, 0, 7*len(vs.Shifts))
			for d := w; d < w+7; d++ {
				for s := range vs.Shifts {
					if v, ok := vs.Var(e, s, d); ok {
						vars = append(vars, v)
					}
				}
			}
			if len(vars) > 0 {
				m.AddSumAtMost(vars, maxConsecutiveDays)
			}
		}
	}
}
