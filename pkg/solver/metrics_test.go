package solver

import (
	"testing"

	"github.com/paiyou/paiyou/pkg/model"
)

func TestCalculateCoverage(t *testing.T) {
	employees := []*model.Employee{{ID: 1}, {ID: 2}}
	shifts := []*model.Shift{{ID: 1}, {ID: 2}}

	tests := []struct {
		name        string
		assignments int
		want        float64
	}{
		{"全覆盖", 4, 100},
		{"半覆盖", 2, 50},
		{"无排班", 0, 0},
		{"超过分母", 6, 150},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assignments := make([]model.Assignment, tt.assignments)
			if got := calculateCoverage(assignments, employees, shifts); got != tt.want {
				t.Errorf("覆盖率 = %f, 期望 %f", got, tt.want)
			}
		})
	}
}

func TestCalculateCoverage_ZeroDenominator(t *testing.T) {
	if got := calculateCoverage(nil, nil, nil); got != 0 {
		t.Errorf("分母为0时覆盖率 = %f, 期望 0", got)
	}
}

func TestCalculateLoadBalance(t *testing.T) {
	tests := []struct {
		name        string
		assignments []model.Assignment
		want        float64
	}{
		{"无排班", nil, 0},
		{"单人", []model.Assignment{{EmployeeID: 1}, {EmployeeID: 1}}, 100},
		{"完全均衡", []model.Assignment{{EmployeeID: 1}, {EmployeeID: 2}}, 100},
		{"四三分布", []model.Assignment{
			{EmployeeID: 1}, {EmployeeID: 1}, {EmployeeID: 1}, {EmployeeID: 1},
			{EmployeeID: 2}, {EmployeeID: 2}, {EmployeeID: 2},
		}, 75},
		{"一二分布", []model.Assignment{
			{EmployeeID: 1}, {EmployeeID: 2}, {EmployeeID: 2},
		}, 50},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := calculateLoadBalance(tt.assignments); got != tt.want {
				t.Errorf("负载均衡度 = %f, 期望 %f", got, tt.want)
			}
		})
	}
}

func TestCalculateLoadBalance_IgnoresIdleEmployees(t *testing.T) {
	// 只统计至少有一次排班的员工，闲置员工不拉低均衡度
	assignments := []model.Assignment{
		{EmployeeID: 1}, {EmployeeID: 1},
		{EmployeeID: 2}, {EmployeeID: 2},
	}
	if got := calculateLoadBalance(assignments); got != 100 {
		t.Errorf("负载均衡度 = %f, 期望 100", got)
	}
}

func TestRound2(t *testing.T) {
	tests := []struct {
		in   float64
		want float64
	}{
		{66.666666, 66.67},
		{33.333333, 33.33},
		{100, 100},
	}
	for _, tt := range tests {
		if got := round2(tt.in); got != tt.want {
			t.Errorf("round2(%f) = %f, 期望 %f", tt.in, got, tt.want)
		}
	}
}
