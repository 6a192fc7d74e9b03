package solver

import (
	"math"

	"github.com/paiyou/paiyou/pkg/model"
)

// calculateCoverage 覆盖率 = 100 × 排班总数 / (员工数 × 班次数)
// 分母为0时返回0
func calculateCoverage(assignments []model.Assignment, employees []*model.Employee, shifts []*model.Shift) float64 {
	denom := len(employees) * len(shifts)
	if denom == 0 {
		return 0
	}
	return round2(100 * float64(len(assignments)) / float64(denom))
}

// calculateLoadBalance 负载均衡度 = 100 × 最轻负载 / 最重负载
// 只统计至少有一次排班的员工；无任何排班时返回0
func calculateLoadBalance(assignments []model.Assignment) float64 {
	counts := make(map[int64]int)
	for _, a := range assignments {
		counts[a.EmployeeID]++
	}
	if len(counts) == 0 {
		return 0
	}

	minLoad, maxLoad := math.MaxInt, 0
	for _, c := range counts {
		if c < minLoad {
			minLoad = c
		}
		if c > maxLoad {
			maxLoad = c
		}
	}
	return round2(100 * float64(minLoad) / float64(maxLoad))
}

// round2 保留两位小数
func round2(x float64) float64 {
	return math.Round(x*100) / 100
}
