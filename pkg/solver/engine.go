package solver

import (
	"context"
	"fmt"
	"time"

	"github.com/paiyou/paiyou/pkg/cpsolver"
	"github.com/paiyou/paiyou/pkg/logger"
	"github.com/paiyou/paiyou/pkg/model"
)

// 求解时限边界，请求不可突破
const (
	DefaultTimeLimit = 300 * time.Second
	MinTimeLimit     = 60 * time.Second
	MaxTimeLimit     = 300 * time.Second
)

// Engine 排班求解引擎
// 校验输入、展开排班周期、构建约束模型、在时限内求解并提取结果。
// 引擎无共享可变状态，可被并发调用
type Engine struct {
	timeLimit time.Duration
	log       *logger.SolverLogger
}

// NewEngine 创建求解引擎，时限钳制到 [MinTimeLimit, MaxTimeLimit]
func NewEngine(timeLimit time.Duration) *Engine {
	if timeLimit <= 0 {
		timeLimit = DefaultTimeLimit
	}
	if timeLimit < MinTimeLimit {
		timeLimit = MinTimeLimit
	}
	if timeLimit > MaxTimeLimit {
		timeLimit = MaxTimeLimit
	}
	return &Engine{
		timeLimit: timeLimit,
		log:       logger.NewSolverLogger(),
	}
}

// TimeLimit 返回生效的求解时限
func (e *Engine) TimeLimit() time.Duration {
	return e.timeLimit
}

// Solve 执行一次完整求解
// 任何内部故障都被捕获并转化为失败结果，不会使调用方崩溃
func (e *Engine) Solve(ctx context.Context, runID string, employees []*model.Employee, shifts []*model.Shift, req *model.SolveRequest) (result *model.SolveResult) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error().Str("run_id", runID).Interface("panic", r).Msg("求解引擎内部故障")
			result = &model.SolveResult{
				Metrics: model.RunMetrics{
					Status: "INTERNAL_ERROR",
					Error:  fmt.Sprintf("求解引擎内部故障: %v", r),
				},
			}
		}
	}()

	validation := ValidateInputs(employees, shifts, req)
	if !validation.Valid {
		e.log.ValidationFailed(runID, validation.Message())
		return &model.SolveResult{
			Metrics: model.RunMetrics{
				Status: "PRECONDITION_FAILED",
				Error:  validation.Message(),
			},
		}
	}

	days, err := ExpandHorizon(req.StartDate, req.EndDate)
	if err != nil {
		return &model.SolveResult{
			Metrics: model.RunMetrics{
				Status: "PRECONDITION_FAILED",
				Error:  err.Error(),
			},
		}
	}

	e.log.StartSolve(runID, len(employees), len(shifts), len(days))

	m := cpsolver.NewModel()
	vs := NewVarSpace(m, employees, shifts, days)
	addConstraints(m, vs)
	setObjective(m, vs, req)
	e.log.ModelBuilt(runID, m.NumVars(), m.NumConstraints())

	s := cpsolver.NewSolver()
	s.SetTimeLimit(e.timeLimit)
	res := s.Solve(ctx, m)

	result = e.buildResult(vs, res, employees, shifts)
	result.Metrics.ModelVariables = m.NumVars()
	result.Metrics.ModelConstraints = m.NumConstraints()
	e.log.SolveComplete(runID, result.Metrics.Status, res.WallTime, len(result.Assignments))
	return result
}

// buildResult 将求解器状态映射为业务结果
func (e *Engine) buildResult(vs *VarSpace, res *cpsolver.Result, employees []*model.Employee, shifts []*model.Shift) *model.SolveResult {
	metrics := model.RunMetrics{
		SolveTime: res.WallTime.Seconds(),
	}

	switch {
	case res.Status.HasSolution():
		assignments := extractAssignments(vs, res)
		metrics.Status = model.SolveStatusSuccess
		metrics.ObjectiveValue = res.Objective
		metrics.TotalAssignments = len(assignments)
		metrics.CoveragePercentage = calculateCoverage(assignments, employees, shifts)
		metrics.LoadBalance = calculateLoadBalance(assignments)
		return &model.SolveResult{
			Success:     true,
			Assignments: assignments,
			Metrics:     metrics,
		}
	case res.Status == cpsolver.StatusInfeasible:
		metrics.Status = model.SolveStatusInfeasible
		metrics.Error = "无可行解，约束过于严格"
	default:
		metrics.Status = model.SolveStatusUnknown
		metrics.Error = "时限内未能确定是否存在可行解"
	}
	return &model.SolveResult{Metrics: metrics}
}
