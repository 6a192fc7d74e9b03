package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/paiyou/paiyou/internal/repository"
	"github.com/paiyou/paiyou/pkg/model"
	"github.com/paiyou/paiyou/pkg/solver"
)

// newTestMux 构建与生产路由一致的测试路由
func newTestMux(store repository.RunStore) *http.ServeMux {
	engine := solver.NewEngine(60 * time.Second)
	solverHandler := NewSolverHandler(engine, store)
	validateHandler := NewValidateHandler()

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/v1/solver/solve", solverHandler.Solve)
	mux.HandleFunc("GET /api/v1/solver/runs", solverHandler.ListRuns)
	mux.HandleFunc("GET /api/v1/solver/runs/{run_id}", solverHandler.GetRun)
	mux.HandleFunc("GET /api/v1/solver/runs/{run_id}/assignments", solverHandler.GetAssignments)
	mux.HandleFunc("GET /api/v1/solver/runs/{run_id}/errors", solverHandler.GetErrors)
	mux.HandleFunc("GET /api/v1/reports/{run_id}", solverHandler.Report)
	mux.HandleFunc("POST /api/v1/schedule/validate", validateHandler.Validate)
	return mux
}

// waitForRun 轮询等待后台求解结束
func waitForRun(t *testing.T, store repository.RunStore, runID uuid.UUID) *model.SolverRun {
	t.Helper()
	deadline := time.Now().Add(10 * time.Second)
	for time.Now().Before(deadline) {
		run, err := store.GetRun(context.Background(), runID)
		if err == nil && (run.Status == model.RunStatusCompleted || run.Status == model.RunStatusFailed) {
			return run
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("等待求解完成超时")
	return nil
}

func solveBody() []byte {
	body, _ := json.Marshal(map[string]interface{}{
		"start_date":    "2024-01-01",
		"end_date":      "2024-01-01",
		"minimize_cost": true,
		"employees": []map[string]interface{}{
			{"id": 1, "name": "张三", "hourly_rate": 4},
		},
		"shifts": []map[string]interface{}{
			{"id": 1, "name": "早班", "day_of_week": 0, "min_employees": 1, "max_employees": 1, "cost_multiplier": 1.5},
		},
	})
	return body
}

func TestSolverHandler_SolveLifecycle(t *testing.T) {
	store := repository.NewMemoryRunStore()
	mux := newTestMux(store)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/solver/solve", bytes.NewReader(solveBody()))
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusAccepted {
		t.Fatalf("状态码 = %d, 期望 202: %s", rec.Code, rec.Body.String())
	}

	var resp SolveResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Status != model.RunStatusPending {
		t.Errorf("受理状态 = %s, 期望 pending", resp.Status)
	}

	runID, err := uuid.Parse(resp.RunID)
	if err != nil {
		t.Fatalf("无效run_id: %v", err)
	}

	run := waitForRun(t, store, runID)
	if run.Status != model.RunStatusCompleted {
		t.Fatalf("运行状态 = %s, 期望 completed", run.Status)
	}
	if run.AssignmentsCount != 1 {
		t.Errorf("排班数 = %d, 期望 1", run.AssignmentsCount)
	}

	// 查询排班
	req = httptest.NewRequest(http.MethodGet, "/api/v1/solver/runs/"+resp.RunID+"/assignments", nil)
	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("查询排班状态码 = %d", rec.Code)
	}
	var assignResp struct {
		Assignments []model.Assignment `json:"assignments"`
		Total       int                `json:"total"`
	}
	json.Unmarshal(rec.Body.Bytes(), &assignResp)
	if assignResp.Total != 1 || assignResp.Assignments[0].EmployeeName != "张三" {
		t.Errorf("排班响应错误: %+v", assignResp)
	}

	// 报告
	req = httptest.NewRequest(http.MethodGet, "/api/v1/reports/"+resp.RunID, nil)
	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("报告状态码 = %d", rec.Code)
	}
	var report ReportResponse
	json.Unmarshal(rec.Body.Bytes(), &report)
	if report.TotalAssignments != 1 || report.ByEmployee["张三"] != 1 {
		t.Errorf("报告内容错误: %+v", report)
	}
}

func TestSolverHandler_FailedRunLogsError(t *testing.T) {
	store := repository.NewMemoryRunStore()
	mux := newTestMux(store)

	// 员工缺少班次要求的技能，前置校验失败
	body, _ := json.Marshal(map[string]interface{}{
		"start_date":    "2024-01-01",
		"end_date":      "2024-01-01",
		"minimize_cost": true,
		"employees": []map[string]interface{}{
			{"id": 1, "name": "张三", "skills": []string{"cooking"}},
		},
		"shifts": []map[string]interface{}{
			{"id": 1, "name": "焊接班", "day_of_week": 0, "required_skills": []string{"welding"}, "min_employees": 1, "max_employees": 1},
		},
	})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/solver/solve", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	if rec.Code != http.StatusAccepted {
		t.Fatalf("状态码 = %d: %s", rec.Code, rec.Body.String())
	}

	var resp SolveResponse
	json.Unmarshal(rec.Body.Bytes(), &resp)
	runID, _ := uuid.Parse(resp.RunID)

	run := waitForRun(t, store, runID)
	if run.Status != model.RunStatusFailed {
		t.Fatalf("运行状态 = %s, 期望 failed", run.Status)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/v1/solver/runs/"+resp.RunID+"/errors", nil)
	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	var errResp struct {
		Errors []model.ErrorLog `json:"errors"`
		Total  int              `json:"total"`
	}
	json.Unmarshal(rec.Body.Bytes(), &errResp)
	if errResp.Total == 0 {
		t.Error("失败的运行应有错误日志")
	}
}

func TestSolverHandler_GetRunNotFound(t *testing.T) {
	mux := newTestMux(repository.NewMemoryRunStore())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/solver/runs/"+uuid.New().String(), nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Errorf("状态码 = %d, 期望 404", rec.Code)
	}
}

func TestSolverHandler_InvalidRunID(t *testing.T) {
	mux := newTestMux(repository.NewMemoryRunStore())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/solver/runs/not-a-uuid", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("状态码 = %d, 期望 400", rec.Code)
	}
}

func TestSolverHandler_InvalidBody(t *testing.T) {
	mux := newTestMux(repository.NewMemoryRunStore())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/solver/solve", bytes.NewReader([]byte("{bad json")))
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("状态码 = %d, 期望 400", rec.Code)
	}
}

func TestValidateHandler_PreCheck(t *testing.T) {
	mux := newTestMux(repository.NewMemoryRunStore())

	body, _ := json.Marshal(map[string]interface{}{
		"start_date": "2024-01-01",
		"end_date":   "2024-01-07",
		"employees":  []map[string]interface{}{},
		"shifts":     []map[string]interface{}{},
	})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/schedule/validate", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("状态码 = %d", rec.Code)
	}
	var result struct {
		Valid  bool     `json:"valid"`
		Errors []string `json:"errors"`
	}
	json.Unmarshal(rec.Body.Bytes(), &result)
	if result.Valid {
		t.Error("空输入应校验失败")
	}
	if len(result.Errors) == 0 {
		t.Error("应返回错误明细")
	}
}

func TestValidateHandler_CheckAssignments(t *testing.T) {
	mux := newTestMux(repository.NewMemoryRunStore())

	body, _ := json.Marshal(map[string]interface{}{
		"start_date": "2024-01-01",
		"end_date":   "2024-01-07",
		"employees": []map[string]interface{}{
			{"id": 1, "name": "张三"},
		},
		"shifts": []map[string]interface{}{
			{"id": 1, "name": "早班", "day_of_week": 0, "min_employees": 1, "max_employees": 1},
		},
		"assignments": []map[string]interface{}{
			{"employee_id": 1, "shift_id": 1, "date": "2024-01-01"},
		},
	})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/schedule/validate", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("状态码 = %d: %s", rec.Code, rec.Body.String())
	}
	var result struct {
		Valid bool `json:"valid"`
		Total int  `json:"total"`
	}
	json.Unmarshal(rec.Body.Bytes(), &result)
	if !result.Valid || result.Total != 0 {
		t.Errorf("合规排班应通过复核: %s", rec.Body.String())
	}
}
