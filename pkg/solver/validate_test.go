package solver

import (
	"strings"
	"testing"

	"github.com/paiyou/paiyou/pkg/model"
)

func validRequest() *model.SolveRequest {
	return &model.SolveRequest{
		StartDate:    "2024-01-01",
		EndDate:      "2024-01-07",
		MinimizeCost: true,
	}
}

func TestValidateInputs_NoEmployees(t *testing.T) {
	result := ValidateInputs(nil, []*model.Shift{{ID: 1, Name: "早班", MinEmployees: 1, MaxEmployees: 2}}, validRequest())
	if result.Valid {
		t.Fatal("期望校验失败")
	}
	if !strings.Contains(result.Message(), "没有可用员工") {
		t.Errorf("错误消息 = %q", result.Message())
	}
}

func TestValidateInputs_NoShifts(t *testing.T) {
	result := ValidateInputs([]*model.Employee{{ID: 1, Name: "张三"}}, nil, validRequest())
	if result.Valid {
		t.Fatal("期望校验失败")
	}
	if !strings.Contains(result.Message(), "没有已配置的班次") {
		t.Errorf("错误消息 = %q", result.Message())
	}
}

func TestValidateInputs_MissingSkill(t *testing.T) {
	employees := []*model.Employee{
		{ID: 1, Name: "张三", Skills: []string{"cooking"}},
	}
	shifts := []*model.Shift{
		{ID: 1, Name: "焊接班", RequiredSkills: []string{"welding"}, MinEmployees: 1, MaxEmployees: 2},
	}

	result := ValidateInputs(employees, shifts, validRequest())
	if result.Valid {
		t.Fatal("期望校验失败")
	}
	msg := result.Message()
	if !strings.Contains(msg, "焊接班") || !strings.Contains(msg, "welding") {
		t.Errorf("错误消息应指明班次与缺失技能: %q", msg)
	}
}

func TestValidateInputs_NotEnoughEligible(t *testing.T) {
	employees := []*model.Employee{
		{ID: 1, Name: "张三", Skills: []string{"welding"}},
		{ID: 2, Name: "李四", Skills: []string{"cooking"}},
	}
	shifts := []*model.Shift{
		{ID: 1, Name: "焊接班", RequiredSkills: []string{"welding"}, MinEmployees: 2, MaxEmployees: 3},
	}

	result := ValidateInputs(employees, shifts, validRequest())
	if result.Valid {
		t.Fatal("期望校验失败")
	}
	if !strings.Contains(result.Message(), "需要至少 2 名员工") {
		t.Errorf("错误消息 = %q", result.Message())
	}
}

func TestValidateInputs_AggregateCapacity(t *testing.T) {
	// 1名员工1天，但班次最少需要3人次
	employees := []*model.Employee{{ID: 1, Name: "张三"}}
	shifts := []*model.Shift{
		{ID: 1, Name: "早班", DayOfWeek: 0, MinEmployees: 3, MaxEmployees: 5},
	}
	req := &model.SolveRequest{StartDate: "2024-01-01", EndDate: "2024-01-01", MinimizeCost: true}

	result := ValidateInputs(employees, shifts, req)
	if result.Valid {
		t.Fatal("期望校验失败")
	}
	// 符合条件人数与总量两条都应报出
	if len(result.Errors) < 2 {
		t.Errorf("错误数 = %d, 期望累积多条: %v", len(result.Errors), result.Errors)
	}
}

func TestValidateInputs_MissingDates(t *testing.T) {
	employees := []*model.Employee{{ID: 1, Name: "张三"}}
	shifts := []*model.Shift{{ID: 1, Name: "早班", MinEmployees: 1, MaxEmployees: 1}}

	result := ValidateInputs(employees, shifts, &model.SolveRequest{})
	if result.Valid {
		t.Fatal("期望校验失败")
	}
	if !strings.Contains(result.Message(), "开始和结束日期均为必填") {
		t.Errorf("错误消息 = %q", result.Message())
	}
}

func TestValidateInputs_InvalidRange(t *testing.T) {
	employees := []*model.Employee{{ID: 1, Name: "张三"}}
	shifts := []*model.Shift{{ID: 1, Name: "早班", MinEmployees: 1, MaxEmployees: 1}}
	req := &model.SolveRequest{StartDate: "2024-01-07", EndDate: "2024-01-01"}

	result := ValidateInputs(employees, shifts, req)
	if result.Valid {
		t.Fatal("期望校验失败")
	}
}

func TestValidateInputs_Valid(t *testing.T) {
	employees := []*model.Employee{
		{ID: 1, Name: "张三", Skills: []string{"cooking"}},
		{ID: 2, Name: "李四", Skills: []string{"cooking"}},
	}
	shifts := []*model.Shift{
		{ID: 1, Name: "早班", DayOfWeek: 0, RequiredSkills: []string{"cooking"}, MinEmployees: 1, MaxEmployees: 2},
	}

	result := ValidateInputs(employees, shifts, validRequest())
	if !result.Valid {
		t.Errorf("期望校验通过: %v", result.Errors)
	}
	if result.Message() != "" {
		t.Errorf("通过时消息应为空: %q", result.Message())
	}
}
