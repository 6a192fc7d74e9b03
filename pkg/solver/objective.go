package solver

import (
	"strconv"

	"github.com/paiyou/paiyou/pkg/cpsolver"
	"github.com/paiyou/paiyou/pkg/model"
)

// slackPenalty 覆盖缺员的目标惩罚权重，远高于单次排班成本以优先满足覆盖
const slackPenalty = 10.0

// setObjective 按请求选择目标函数
// 成本最小化优先于偏好最大化，二者互斥
func setObjective(m *cpsolver.Model, vs *VarSpace, req *model.SolveRequest) {
	if req.MinimizeCost {
		setCostObjective(m, vs)
		return
	}
	setPreferenceObjective(m, vs)
}

// setCostObjective 最小化 Σ(排班×时薪×成本系数) + 松弛惩罚
func setCostObjective(m *cpsolver.Model, vs *VarSpace) {
	var vars []cpsolver.Var
	var coefs []float64

	for e, emp := range vs.Employees {
		for s, shift := range vs.Shifts {
			cost := emp.HourlyRate * shift.CostMultiplier
			for d := range vs.Days {
				if v, ok := vs.Var(e, s, d); ok {
					vars = append(vars, v)
					coefs = append(coefs, cost)
				}
			}
		}
	}
	for s := range vs.Shifts {
		for d := range vs.Days {
			if v, ok := vs.Slack(s, d); ok {
				vars = append(vars, v)
				coefs = append(coefs, slackPenalty)
			}
		}
	}
	m.Minimize(vars, coefs)
}

// setPreferenceObjective 最大化 Σ(排班×员工对班次的偏好分)
func setPreferenceObjective(m *cpsolver.Model, vs *VarSpace) {
	var vars []cpsolver.Var
	var coefs []float64

	for e, emp := range vs.Employees {
		for s, shift := range vs.Shifts {
			pref := emp.PreferenceFor(strconv.FormatInt(shift.ID, 10))
			for d := range vs.Days {
				if v, ok := vs.Var(e, s, d); ok {
					vars = append(vars, v)
					coefs = append(coefs, pref)
				}
			}
		}
	}
	m.Maximize(vars, coefs)
}
