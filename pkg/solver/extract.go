package solver

import (
	"github.com/paiyou/paiyou/pkg/cpsolver"
	"github.com/paiyou/paiyou/pkg/model"
)

// extractAssignments 从求解结果提取排班表
// 按员工、班次、日的声明顺序遍历，保证输出顺序确定；
// 员工与班次名称直接冗余写入，读取方无需回表
func extractAssignments(vs *VarSpace, res *cpsolver.Result) []model.Assignment {
	var assignments []model.Assignment
	for e, emp := range vs.Employees {
		for s, shift := range vs.Shifts {
			for d, day := range vs.Days {
				v, ok := vs.Var(e, s, d)
				if !ok || !res.BoolValue(v) {
					continue
				}
				assignments = append(assignments, model.Assignment{
					EmployeeID:   emp.ID,
					EmployeeName: emp.Name,
					ShiftID:      shift.ID,
					ShiftName:    shift.Name,
					Date:         FormatDate(day),
				})
			}
		}
	}
	return assignments
}
