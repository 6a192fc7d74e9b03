package solver

import (
	"time"

	"github.com/paiyou/paiyou/pkg/cpsolver"
	"github.com/paiyou/paiyou/pkg/model"
)

// slackCap 单个(班次,日)允许放宽的最大缺员人数
const slackCap = 10

// VarSpace 决策变量空间
// 对每个 (员工, 班次, 日) 三元组建一个布尔变量，语义为该员工当日承担该班次。
// 变量按密集方式创建：不匹配的组合不省略，而由约束强制为0，
// 使得索引查找始终命中，提取阶段无需区分稀疏缺位。
type VarSpace struct {
	Employees []*model.Employee
	Shifts    []*model.Shift
	Days      []time.Time

	vars   []cpsolver.Var              // 员工主序的平铺数组
	slacks map[[2]int]cpsolver.Var     // (班次索引, 日索引) -> 覆盖松弛变量
}

// NewVarSpace 在模型中创建全部决策变量与覆盖松弛变量
func NewVarSpace(m *cpsolver.Model, employees []*model.Employee, shifts []*model.Shift, days []time.Time) *VarSpace {
	vs := &VarSpace{
		Employees: employees,
		Shifts:    shifts,
		Days:      days,
		vars:      make([]cpsolver.Var, len(employees)*len(shifts)*len(days)),
		slacks:    make(map[[2]int]cpsolver.Var),
	}

	for e := range employees {
		for s := range shifts {
			for d := range days {
				vs.vars[vs.index(e, s, d)] = m.NewBoolVar()
			}
		}
	}

	// 松弛变量只在班次的工作日与日历日匹配、且最小人数>1时存在。
	// 上界取 min(slackCap, 最小人数-1)：松弛只吸收部分缺口，
	// 任何有人数下界的班次始终要求至少一名真实员工，
	// 完全无人可排时模型保持不可行而非靠松弛凑数。
	for s, shift := range shifts {
		for d, day := range days {
			if WeekdayIndex(day) != shift.DayOfWeek || shift.MinEmployees <= 1 {
				continue
			}
			bound := shift.MinEmployees - 1
			if bound > slackCap {
				bound = slackCap
			}
			vs.slacks[[2]int{s, d}] = m.NewIntVar(0, bound)
		}
	}
	return vs
}

// index 员工主序的平铺索引
func (vs *VarSpace) index(e, s, d int) int {
	return (e*len(vs.Shifts)+s)*len(vs.Days) + d
}

// Var 按索引查找决策变量，越界时返回 ok=false 并被调用方静默跳过
func (vs *VarSpace) Var(e, s, d int) (cpsolver.Var, bool) {
	if e < 0 || e >= len(vs.Employees) || s < 0 || s >= len(vs.Shifts) || d < 0 || d >= len(vs.Days) {
		return 0, false
	}
	return vs.vars[vs.index(e, s, d)], true
}

// Slack 查找 (班次, 日) 的覆盖松弛变量，最小人数不可放宽时不存在
func (vs *VarSpace) Slack(s, d int) (cpsolver.Var, bool) {
	v, ok := vs.slacks[[2]int{s, d}]
	return v, ok
}

// NumDecisionVars 返回决策变量数（不含松弛变量）
func (vs *VarSpace) NumDecisionVars() int {
	return len(vs.vars)
}

// NumSlackVars 返回松弛变量数
func (vs *VarSpace) NumSlackVars() int {
	return len(vs.slacks)
}
