package validator

import (
	"testing"

	"github.com/paiyou/paiyou/pkg/model"
)

func weekEmployees() []*model.Employee {
	return []*model.Employee{
		{ID: 1, Name: "张三", Skills: []string{"cooking"}},
		{ID: 2, Name: "李四", Skills: []string{"cooking"}},
	}
}

func mondayShift() *model.Shift {
	return &model.Shift{
		ID: 1, Name: "早班", DayOfWeek: 0,
		RequiredSkills: []string{"cooking"},
		MinEmployees:   1, MaxEmployees: 2,
	}
}

func TestCheck_ValidSchedule(t *testing.T) {
	shifts := []*model.Shift{mondayShift()}
	assignments := []model.Assignment{
		{EmployeeID: 1, ShiftID: 1, Date: "2024-01-01"}, // 周一
	}

	violations, err := Check(weekEmployees(), shifts, "2024-01-01", "2024-01-07", assignments)
	if err != nil {
		t.Fatal(err)
	}
	if len(violations) != 0 {
		t.Errorf("期望无违规: %+v", violations)
	}
}

func TestCheck_DuplicateSameDay(t *testing.T) {
	night := &model.Shift{ID: 2, Name: "晚班", DayOfWeek: 0, MinEmployees: 0, MaxEmployees: 2}
	shifts := []*model.Shift{mondayShift(), night}
	assignments := []model.Assignment{
		{EmployeeID: 1, ShiftID: 1, Date: "2024-01-01"},
		{EmployeeID: 1, ShiftID: 2, Date: "2024-01-01"},
	}

	violations, err := Check(weekEmployees(), shifts, "2024-01-01", "2024-01-07", assignments)
	if err != nil {
		t.Fatal(err)
	}
	if !hasRule(violations, RuleOneShiftPerDay) {
		t.Errorf("期望检出一天多班违规: %+v", violations)
	}
}

func TestCheck_UnderCoverage(t *testing.T) {
	shifts := []*model.Shift{mondayShift()}

	violations, err := Check(weekEmployees(), shifts, "2024-01-01", "2024-01-07", nil)
	if err != nil {
		t.Fatal(err)
	}
	if !hasRule(violations, RuleCoverageMin) {
		t.Errorf("期望检出最小人数不足: %+v", violations)
	}
}

func TestCheck_OverCoverage(t *testing.T) {
	s := mondayShift()
	s.MaxEmployees = 1
	shifts := []*model.Shift{s}
	assignments := []model.Assignment{
		{EmployeeID: 1, ShiftID: 1, Date: "2024-01-01"},
		{EmployeeID: 2, ShiftID: 1, Date: "2024-01-01"},
	}

	violations, err := Check(weekEmployees(), shifts, "2024-01-01", "2024-01-07", assignments)
	if err != nil {
		t.Fatal(err)
	}
	if !hasRule(violations, RuleCoverageMax) {
		t.Errorf("期望检出超过最大人数: %+v", violations)
	}
}

func TestCheck_SkillViolation(t *testing.T) {
	employees := []*model.Employee{
		{ID: 1, Name: "张三", Skills: []string{"service"}},
	}
	shifts := []*model.Shift{mondayShift()}
	assignments := []model.Assignment{
		{EmployeeID: 1, ShiftID: 1, Date: "2024-01-01"},
	}

	violations, err := Check(employees, shifts, "2024-01-01", "2024-01-07", assignments)
	if err != nil {
		t.Fatal(err)
	}
	if !hasRule(violations, RuleSkill) {
		t.Errorf("期望检出技能不符: %+v", violations)
	}
}

func TestCheck_AvailabilityViolation(t *testing.T) {
	employees := []*model.Employee{
		{ID: 1, Name: "张三", Skills: []string{"cooking"}, Availability: map[string]bool{"monday": false}},
		{ID: 2, Name: "李四", Skills: []string{"cooking"}},
	}
	shifts := []*model.Shift{mondayShift()}
	assignments := []model.Assignment{
		{EmployeeID: 1, ShiftID: 1, Date: "2024-01-01"},
	}

	violations, err := Check(employees, shifts, "2024-01-01", "2024-01-07", assignments)
	if err != nil {
		t.Fatal(err)
	}
	if !hasRule(violations, RuleAvailability) {
		t.Errorf("期望检出不可用日排班: %+v", violations)
	}
}

func TestCheck_WrongWeekday(t *testing.T) {
	shifts := []*model.Shift{mondayShift()}
	assignments := []model.Assignment{
		// 2024-01-02 是周二，早班只在周一运作
		{EmployeeID: 1, ShiftID: 1, Date: "2024-01-02"},
	}

	violations, err := Check(weekEmployees(), shifts, "2024-01-01", "2024-01-07", assignments)
	if err != nil {
		t.Fatal(err)
	}
	if !hasRule(violations, RuleCoverageMax) {
		t.Errorf("期望检出非运作日排班: %+v", violations)
	}
}

func TestCheck_AdjacentDays(t *testing.T) {
	night := &model.Shift{ID: 2, Name: "晚班", DayOfWeek: 1, MinEmployees: 0, MaxEmployees: 2}
	shifts := []*model.Shift{mondayShift(), night}
	assignments := []model.Assignment{
		{EmployeeID: 1, ShiftID: 1, Date: "2024-01-01"},
		{EmployeeID: 1, ShiftID: 2, Date: "2024-01-02"},
	}

	violations, err := Check(weekEmployees(), shifts, "2024-01-01", "2024-01-07", assignments)
	if err != nil {
		t.Fatal(err)
	}
	if !hasRule(violations, RuleDailyRest) {
		t.Errorf("期望检出连续两天工作: %+v", violations)
	}
}

func TestCheck_UnknownEmployee(t *testing.T) {
	shifts := []*model.Shift{mondayShift()}
	assignments := []model.Assignment{
		{EmployeeID: 99, ShiftID: 1, Date: "2024-01-01"},
	}

	violations, err := Check(weekEmployees(), shifts, "2024-01-01", "2024-01-07", assignments)
	if err != nil {
		t.Fatal(err)
	}
	if len(violations) == 0 {
		t.Error("期望检出未知员工")
	}
}

func TestCheck_InvalidDateRange(t *testing.T) {
	if _, err := Check(weekEmployees(), []*model.Shift{mondayShift()}, "bad-date", "2024-01-07", nil); err == nil {
		t.Error("日期无效应报错")
	}
}

func hasRule(violations []Violation, rule string) bool {
	for _, v := range violations {
		if v.Rule == rule {
			return true
		}
	}
	return false
}
