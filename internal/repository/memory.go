package repository

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/paiyou/paiyou/pkg/model"
)

// MemoryRunStore 内存求解运行存储
// 无数据库部署时的默认实现，进程重启后数据丢失
type MemoryRunStore struct {
	mu          sync.RWMutex
	nextID      int64
	runs        map[uuid.UUID]*model.SolverRun
	order       []uuid.UUID // 创建顺序
	assignments map[uuid.UUID][]model.Assignment
	errs        map[uuid.UUID][]model.ErrorLog
	nextErrID   int64
}

// NewMemoryRunStore 创建内存运行存储
func NewMemoryRunStore() *MemoryRunStore {
	return &MemoryRunStore{
		nextID:      1,
		nextErrID:   1,
		runs:        make(map[uuid.UUID]*model.SolverRun),
		assignments: make(map[uuid.UUID][]model.Assignment),
		errs:        make(map[uuid.UUID][]model.ErrorLog),
	}
}

// CreateRun 创建运行记录
func (s *MemoryRunStore) CreateRun(ctx context.Context, run *model.SolverRun) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	run.ID = s.nextID
	s.nextID++
	run.CreatedAt = now
	run.UpdatedAt = now

	cp := *run
	s.runs[run.RunID] = &cp
	s.order = append(s.order, run.RunID)
	return nil
}

// UpdateRun 更新运行记录
func (s *MemoryRunStore) UpdateRun(ctx context.Context, run *model.SolverRun) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.runs[run.RunID]
	if !ok {
		return ErrRunNotFound
	}
	existing.Status = run.Status
	existing.ObjectiveValue = run.ObjectiveValue
	existing.SolveTime = run.SolveTime
	existing.AssignmentsCount = run.AssignmentsCount
	existing.UpdatedAt = time.Now()
	return nil
}

// GetRun 根据运行ID获取记录
func (s *MemoryRunStore) GetRun(ctx context.Context, runID uuid.UUID) (*model.SolverRun, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	run, ok := s.runs[runID]
	if !ok {
		return nil, ErrRunNotFound
	}
	cp := *run
	return &cp, nil
}

// ListRuns 查询运行记录列表，按创建时间倒序
func (s *MemoryRunStore) ListRuns(ctx context.Context, filter ListFilter) ([]*model.SolverRun, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}

	var runs []*model.SolverRun
	skipped := 0
	for i := len(s.order) - 1; i >= 0 && len(runs) < limit; i-- {
		if skipped < filter.Offset {
			skipped++
			continue
		}
		if run, ok := s.runs[s.order[i]]; ok {
			cp := *run
			runs = append(runs, &cp)
		}
	}
	return runs, nil
}

// SaveAssignments 保存一次运行的全部排班
func (s *MemoryRunStore) SaveAssignments(ctx context.Context, runID uuid.UUID, assignments []model.Assignment) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.assignments[runID] = append([]model.Assignment(nil), assignments...)
	return nil
}

// GetAssignments 获取一次运行的全部排班
func (s *MemoryRunStore) GetAssignments(ctx context.Context, runID uuid.UUID) ([]model.Assignment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return append([]model.Assignment(nil), s.assignments[runID]...), nil
}

// LogError 记录一次运行的错误
func (s *MemoryRunStore) LogError(ctx context.Context, runID uuid.UUID, message string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.errs[runID] = append(s.errs[runID], model.ErrorLog{
		ID:        s.nextErrID,
		RunID:     runID,
		Message:   message,
		CreatedAt: time.Now(),
	})
	s.nextErrID++
	return nil
}

// GetErrors 获取一次运行的全部错误
func (s *MemoryRunStore) GetErrors(ctx context.Context, runID uuid.UUID) ([]model.ErrorLog, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return append([]model.ErrorLog(nil), s.errs[runID]...), nil
}
