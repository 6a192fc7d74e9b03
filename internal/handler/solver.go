package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/paiyou/paiyou/internal/metrics"
	"github.com/paiyou/paiyou/internal/repository"
	"github.com/paiyou/paiyou/pkg/errors"
	"github.com/paiyou/paiyou/pkg/logger"
	"github.com/paiyou/paiyou/pkg/model"
	"github.com/paiyou/paiyou/pkg/solver"
)

// SolverHandler 求解处理器
// 求解在后台goroutine中执行，接口立即返回运行记录供轮询
type SolverHandler struct {
	engine    *solver.Engine
	store     repository.RunStore
	employees *repository.EmployeeRepository // 数据库未启用时为nil
	shifts    *repository.ShiftRepository
}

// NewSolverHandler 创建求解处理器
func NewSolverHandler(engine *solver.Engine, store repository.RunStore) *SolverHandler {
	return &SolverHandler{engine: engine, store: store}
}

// WithRepositories 挂载员工与班次仓储，请求未内联数据时从数据库加载
func (h *SolverHandler) WithRepositories(employees *repository.EmployeeRepository, shifts *repository.ShiftRepository) *SolverHandler {
	h.employees = employees
	h.shifts = shifts
	return h
}

// SolveHTTPRequest 求解请求
// 员工与班次可内联提供；省略且数据库启用时从库中加载在职数据
type SolveHTTPRequest struct {
	StartDate                 string            `json:"start_date"`
	EndDate                   string            `json:"end_date"`
	MaxHoursPerEmployee       int               `json:"max_hours_per_employee,omitempty"`
	MinRestHours              int               `json:"min_rest_hours,omitempty"`
	PreferEmployeePreferences bool              `json:"prefer_employee_preferences,omitempty"`
	MinimizeCost              bool              `json:"minimize_cost,omitempty"`
	Employees                 []*model.Employee `json:"employees,omitempty"`
	Shifts                    []*model.Shift    `json:"shifts,omitempty"`
}

// SolveResponse 求解请求受理响应
type SolveResponse struct {
	RunID  string `json:"run_id"`
	Status string `json:"status"`
}

// Solve 受理求解请求并异步执行
func (h *SolverHandler) Solve(w http.ResponseWriter, r *http.Request) {
	var req SolveHTTPRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, errors.Wrap(err, errors.CodeInvalidInput, "解析请求失败"))
		return
	}

	employees, shifts, appErr := h.resolveInputs(r.Context(), &req)
	if appErr != nil {
		respondError(w, appErr)
		return
	}

	solveReq := &model.SolveRequest{
		StartDate:                 req.StartDate,
		EndDate:                   req.EndDate,
		MaxHoursPerEmployee:       req.MaxHoursPerEmployee,
		MinRestHours:              req.MinRestHours,
		PreferEmployeePreferences: req.PreferEmployeePreferences,
		MinimizeCost:              req.MinimizeCost,
	}

	snapshot, _ := json.Marshal(solveReq)
	run := &model.SolverRun{
		RunID:       uuid.New(),
		Status:      model.RunStatusPending,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		Constraints: string(snapshot),
	}

	if err := h.store.CreateRun(r.Context(), run); err != nil {
		respondError(w, errors.Wrap(err, errors.CodeDatabaseError, "创建运行记录失败"))
		return
	}

	metrics.ActiveRunsInc()
	go h.executeRun(run.RunID, employees, shifts, solveReq)

	respondJSON(w, http.StatusAccepted, SolveResponse{
		RunID:  run.RunID.String(),
		Status: run.Status,
	})
}

// resolveInputs 解析求解用的员工与班次数据
func (h *SolverHandler) resolveInputs(ctx context.Context, req *SolveHTTPRequest) ([]*model.Employee, []*model.Shift, *errors.AppError) {
	employees := req.Employees
	shifts := req.Shifts

	if len(employees) == 0 && h.employees != nil {
		loaded, err := h.employees.List(ctx, repository.DefaultListFilter())
		if err != nil {
			return nil, nil, errors.Wrap(err, errors.CodeDatabaseError, "加载员工数据失败")
		}
		employees = loaded
	}
	if len(shifts) == 0 && h.shifts != nil {
		loaded, err := h.shifts.List(ctx, repository.DefaultListFilter())
		if err != nil {
			return nil, nil, errors.Wrap(err, errors.CodeDatabaseError, "加载班次数据失败")
		}
		shifts = loaded
	}

	return employees, shifts, nil
}

// executeRun 后台执行一次求解并持久化结果
// 使用独立context，请求断开不影响求解
func (h *SolverHandler) executeRun(runID uuid.UUID, employees []*model.Employee, shifts []*model.Shift, req *model.SolveRequest) {
	defer metrics.ActiveRunsDec()

	ctx := context.Background()

	run, err := h.store.GetRun(ctx, runID)
	if err != nil {
		logger.WithError(err).Str("run_id", runID.String()).Msg("读取运行记录失败")
		return
	}

	run.Status = model.RunStatusRunning
	if err := h.store.UpdateRun(ctx, run); err != nil {
		logger.WithError(err).Str("run_id", runID.String()).Msg("更新运行状态失败")
	}

	res := h.engine.Solve(ctx, runID.String(), employees, shifts, req)

	metrics.RecordSolverRun(res.Metrics.Status, time.Duration(res.Metrics.SolveTime*float64(time.Second)))
	metrics.SetModelSize(res.Metrics.ModelVariables, res.Metrics.ModelConstraints)

	run.ObjectiveValue = res.Metrics.ObjectiveValue
	run.SolveTime = res.Metrics.SolveTime
	run.AssignmentsCount = res.Metrics.TotalAssignments

	if res.Success {
		run.Status = model.RunStatusCompleted
		if err := h.store.SaveAssignments(ctx, runID, res.Assignments); err != nil {
			logger.WithError(err).Str("run_id", runID.String()).Msg("保存排班失败")
		}
		metrics.SetSolutionQuality(res.Metrics.CoveragePercentage, res.Metrics.LoadBalance)
	} else {
		run.Status = model.RunStatusFailed
		if res.Metrics.Error != "" {
			if err := h.store.LogError(ctx, runID, res.Metrics.Error); err != nil {
				logger.WithError(err).Str("run_id", runID.String()).Msg("记录运行错误失败")
			}
		}
	}

	if err := h.store.UpdateRun(ctx, run); err != nil {
		logger.WithError(err).Str("run_id", runID.String()).Msg("更新运行结果失败")
	}
}

// ListRuns 查询运行记录列表
func (h *SolverHandler) ListRuns(w http.ResponseWriter, r *http.Request) {
	runs, err := h.store.ListRuns(r.Context(), repository.DefaultListFilter())
	if err != nil {
		respondError(w, errors.Wrap(err, errors.CodeDatabaseError, "查询运行记录失败"))
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"runs":  runs,
		"total": len(runs),
	})
}

// GetRun 查询单次运行记录
func (h *SolverHandler) GetRun(w http.ResponseWriter, r *http.Request) {
	runID, ok := parseRunID(w, r)
	if !ok {
		return
	}

	run, err := h.store.GetRun(r.Context(), runID)
	if err != nil {
		respondError(w, errors.NotFound("运行记录", runID.String()))
		return
	}
	respondJSON(w, http.StatusOK, run)
}

// GetAssignments 查询一次运行的排班表
func (h *SolverHandler) GetAssignments(w http.ResponseWriter, r *http.Request) {
	runID, ok := parseRunID(w, r)
	if !ok {
		return
	}

	if _, err := h.store.GetRun(r.Context(), runID); err != nil {
		respondError(w, errors.NotFound("运行记录", runID.String()))
		return
	}

	assignments, err := h.store.GetAssignments(r.Context(), runID)
	if err != nil {
		respondError(w, errors.Wrap(err, errors.CodeDatabaseError, "查询排班失败"))
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"run_id":      runID.String(),
		"assignments": assignments,
		"total":       len(assignments),
	})
}

// GetErrors 查询一次运行的错误日志
func (h *SolverHandler) GetErrors(w http.ResponseWriter, r *http.Request) {
	runID, ok := parseRunID(w, r)
	if !ok {
		return
	}

	if _, err := h.store.GetRun(r.Context(), runID); err != nil {
		respondError(w, errors.NotFound("运行记录", runID.String()))
		return
	}

	logs, err := h.store.GetErrors(r.Context(), runID)
	if err != nil {
		respondError(w, errors.Wrap(err, errors.CodeDatabaseError, "查询运行错误失败"))
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"run_id": runID.String(),
		"errors": logs,
		"total":  len(logs),
	})
}

// ReportResponse 运行报告
type ReportResponse struct {
	Run              *model.SolverRun `json:"run"`
	TotalAssignments int              `json:"total_assignments"`
	ByEmployee       map[string]int   `json:"by_employee"`
	ByShift          map[string]int   `json:"by_shift"`
	ByDate           map[string]int   `json:"by_date"`
}

// Report 生成一次运行的汇总报告
func (h *SolverHandler) Report(w http.ResponseWriter, r *http.Request) {
	runID, ok := parseRunID(w, r)
	if !ok {
		return
	}

	run, err := h.store.GetRun(r.Context(), runID)
	if err != nil {
		respondError(w, errors.NotFound("运行记录", runID.String()))
		return
	}

	assignments, err := h.store.GetAssignments(r.Context(), runID)
	if err != nil {
		respondError(w, errors.Wrap(err, errors.CodeDatabaseError, "查询排班失败"))
		return
	}

	report := ReportResponse{
		Run:              run,
		TotalAssignments: len(assignments),
		ByEmployee:       make(map[string]int),
		ByShift:          make(map[string]int),
		ByDate:           make(map[string]int),
	}
	for _, a := range assignments {
		report.ByEmployee[a.EmployeeName]++
		report.ByShift[a.ShiftName]++
		report.ByDate[a.Date]++
	}
	respondJSON(w, http.StatusOK, report)
}

// parseRunID 从路径解析运行ID
func parseRunID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	runID, err := uuid.Parse(r.PathValue("run_id"))
	if err != nil {
		respondError(w, errors.Wrap(err, errors.CodeInvalidInput, "无效的运行ID格式"))
		return uuid.Nil, false
	}
	return runID, true
}
