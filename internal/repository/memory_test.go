package repository

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/paiyou/paiyou/pkg/model"
)

func TestMemoryRunStore_CreateAndGet(t *testing.T) {
	store := NewMemoryRunStore()
	ctx := context.Background()

	run := &model.SolverRun{
		RunID:     uuid.New(),
		Status:    model.RunStatusPending,
		StartDate: "2024-01-01",
		EndDate:   "2024-01-07",
	}
	if err := store.CreateRun(ctx, run); err != nil {
		t.Fatal(err)
	}
	if run.ID == 0 {
		t.Error("创建后应分配自增ID")
	}
	if run.CreatedAt.IsZero() || run.UpdatedAt.IsZero() {
		t.Error("创建后应填充时间戳")
	}

	got, err := store.GetRun(ctx, run.RunID)
	if err != nil {
		t.Fatal(err)
	}
	if got.RunID != run.RunID || got.Status != model.RunStatusPending {
		t.Errorf("读取结果不一致: %+v", got)
	}
}

func TestMemoryRunStore_GetNotFound(t *testing.T) {
	store := NewMemoryRunStore()
	if _, err := store.GetRun(context.Background(), uuid.New()); err == nil {
		t.Error("不存在的运行应报错")
	}
}

func TestMemoryRunStore_Update(t *testing.T) {
	store := NewMemoryRunStore()
	ctx := context.Background()

	run := &model.SolverRun{RunID: uuid.New(), Status: model.RunStatusPending}
	store.CreateRun(ctx, run)

	run.Status = model.RunStatusCompleted
	run.ObjectiveValue = 42
	run.AssignmentsCount = 7
	if err := store.UpdateRun(ctx, run); err != nil {
		t.Fatal(err)
	}

	got, _ := store.GetRun(ctx, run.RunID)
	if got.Status != model.RunStatusCompleted || got.ObjectiveValue != 42 || got.AssignmentsCount != 7 {
		t.Errorf("更新未生效: %+v", got)
	}
}

func TestMemoryRunStore_UpdateNotFound(t *testing.T) {
	store := NewMemoryRunStore()
	run := &model.SolverRun{RunID: uuid.New()}
	if err := store.UpdateRun(context.Background(), run); err == nil {
		t.Error("更新不存在的运行应报错")
	}
}

func TestMemoryRunStore_ListNewestFirst(t *testing.T) {
	store := NewMemoryRunStore()
	ctx := context.Background()

	first := &model.SolverRun{RunID: uuid.New()}
	second := &model.SolverRun{RunID: uuid.New()}
	store.CreateRun(ctx, first)
	store.CreateRun(ctx, second)

	runs, err := store.ListRuns(ctx, DefaultListFilter())
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 2 {
		t.Fatalf("列表长度 = %d, 期望 2", len(runs))
	}
	if runs[0].RunID != second.RunID {
		t.Error("列表应按创建时间倒序")
	}
}

func TestMemoryRunStore_Assignments(t *testing.T) {
	store := NewMemoryRunStore()
	ctx := context.Background()
	runID := uuid.New()

	assignments := []model.Assignment{
		{EmployeeID: 1, EmployeeName: "张三", ShiftID: 1, ShiftName: "早班", Date: "2024-01-01"},
		{EmployeeID: 2, EmployeeName: "李四", ShiftID: 1, ShiftName: "早班", Date: "2024-01-08"},
	}
	if err := store.SaveAssignments(ctx, runID, assignments); err != nil {
		t.Fatal(err)
	}

	got, err := store.GetAssignments(ctx, runID)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 || got[0].EmployeeName != "张三" {
		t.Errorf("读取排班不一致: %+v", got)
	}
}

func TestMemoryRunStore_Errors(t *testing.T) {
	store := NewMemoryRunStore()
	ctx := context.Background()
	runID := uuid.New()

	if err := store.LogError(ctx, runID, "无可行解"); err != nil {
		t.Fatal(err)
	}
	if err := store.LogError(ctx, runID, "重试仍失败"); err != nil {
		t.Fatal(err)
	}

	logs, err := store.GetErrors(ctx, runID)
	if err != nil {
		t.Fatal(err)
	}
	if len(logs) != 2 {
		t.Fatalf("错误数 = %d, 期望 2", len(logs))
	}
	if logs[0].Message != "无可行解" || logs[1].ID <= logs[0].ID {
		t.Errorf("错误日志顺序或ID错误: %+v", logs)
	}
}
