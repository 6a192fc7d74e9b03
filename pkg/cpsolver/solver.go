// Package cpsolver 提供0/1与有界整数变量上的线性约束模型与有界时间求解器
package cpsolver

import (
	"context"
	"time"
)

// Status 求解终止状态
type Status int

const (
	// StatusUnknown 时限内既未找到可行解也未证明不可行
	StatusUnknown Status = iota
	// StatusOptimal 找到可证最优解
	StatusOptimal
	// StatusFeasible 时限内找到可行解，最优性未证明
	StatusFeasible
	// StatusInfeasible 证明硬约束下无可行解
	StatusInfeasible
)

// String 返回状态名称
func (s Status) String() string {
	switch s {
	case StatusOptimal:
		return "OPTIMAL"
	case StatusFeasible:
		return "FEASIBLE"
	case StatusInfeasible:
		return "INFEASIBLE"
	default:
		return "UNKNOWN"
	}
}

// HasSolution 检查该状态是否携带可行解
func (s Status) HasSolution() bool {
	return s == StatusOptimal || s == StatusFeasible
}

// Result 求解结果
type Result struct {
	Status    Status
	Objective float64       // 目标值（按模型原始方向）
	WallTime  time.Duration // 墙钟耗时
	Nodes     int64         // 搜索节点数

	values []int
}

// Value 返回变量在解中的取值；无解时返回0
func (r *Result) Value(v Var) int {
	if r.values == nil || int(v) >= len(r.values) {
		return 0
	}
	return r.values[v]
}

// BoolValue 返回布尔变量在解中的取值
func (r *Result) BoolValue(v Var) bool {
	return r.Value(v) == 1
}

// Solver 有界时间分支定界求解器
// 同输入、同时限下终止状态可复现（确定性深度优先搜索）
type Solver struct {
	timeLimit time.Duration
}

// NewSolver 创建求解器，默认时限60秒
func NewSolver() *Solver {
	return &Solver{timeLimit: 60 * time.Second}
}

// SetTimeLimit 设置墙钟时限
func (s *Solver) SetTimeLimit(d time.Duration) {
	if d > 0 {
		s.timeLimit = d
	}
}

// Solve 求解模型
// 一个模型实例只能被一次求解使用；并发运行必须各自持有独立模型
func (s *Solver) Solve(ctx context.Context, m *Model) *Result {
	start := time.Now()
	deadline := start.Add(s.timeLimit)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}

	res := &Result{Status: StatusUnknown}

	st := newSearch(m, ctx, deadline)

	// 根节点界传播：单变量约束与区间推理在搜索前收紧域
	if !st.propagateRoot() {
		res.Status = StatusInfeasible
		res.WallTime = time.Since(start)
		return res
	}

	if time.Now().After(deadline) || ctx.Err() != nil {
		res.WallTime = time.Since(start)
		return res
	}

	st.dfs(0)

	res.Nodes = st.nodes
	res.WallTime = time.Since(start)

	switch {
	case st.stopped && st.hasBest:
		res.Status = StatusFeasible
	case st.stopped:
		res.Status = StatusUnknown
	case st.hasBest:
		res.Status = StatusOptimal
	default:
		res.Status = StatusInfeasible
	}

	if st.hasBest {
		res.values = st.best
		res.Objective = st.bestObj * st.sign
	}
	return res
}

// varCon 变量在某约束中的出现及其贡献界
type varCon struct {
	ci   int // 约束索引
	coef int
	minT int // coef*x 在当前域下的最小贡献
	maxT int // coef*x 在当前域下的最大贡献
}

// search 深度优先分支定界的搜索状态
type search struct {
	m        *Model
	ctx      context.Context
	deadline time.Time

	lbs, ubs []int // 根传播后的域

	varCons [][]varCon
	minSum  []int // 各约束当前可达的最小和
	maxSum  []int // 各约束当前可达的最大和

	objCoef []float64 // 归一化为最小化后的逐变量目标系数
	objMin  []float64 // 变量目标贡献的域内最小值
	objLB   float64   // 当前节点的目标下界
	sign    float64   // 最大化时为-1，结果目标值乘回

	values  []int
	best    []int
	bestObj float64
	hasBest bool

	nodes   int64
	stopped bool
}

// newSearch 初始化搜索状态
func newSearch(m *Model, ctx context.Context, deadline time.Time) *search {
	n := m.NumVars()
	st := &search{
		m:        m,
		ctx:      ctx,
		deadline: deadline,
		lbs:      append([]int(nil), m.lbs...),
		ubs:      append([]int(nil), m.ubs...),
		objCoef:  make([]float64, n),
		objMin:   make([]float64, n),
		values:   make([]int, n),
		sign:     1,
	}

	if m.maximize {
		st.sign = -1
	}
	for _, t := range m.obj {
		st.objCoef[t.v] += t.coef * st.sign
	}
	return st
}

// propagateRoot 根节点界传播，返回false表示已证不可行
func (st *search) propagateRoot() bool {
	n := len(st.lbs)
	// 每轮至少收紧一个界，界总量有限，轮数上限防御性设置
	maxRounds := n + len(st.m.cons) + 1
	for round := 0; round < maxRounds; round++ {
		changed := false
		for _, c := range st.m.cons {
			minSum, maxSum := 0, 0
			for _, t := range c.terms {
				minSum += minContribution(t.coef, st.lbs[t.v], st.ubs[t.v])
				maxSum += maxContribution(t.coef, st.lbs[t.v], st.ubs[t.v])
			}
			if (c.hi != NoUpper && minSum > c.hi) || (c.lo != NoLower && maxSum < c.lo) {
				return false
			}
			for _, t := range c.terms {
				minOther := minSum - minContribution(t.coef, st.lbs[t.v], st.ubs[t.v])
				maxOther := maxSum - maxContribution(t.coef, st.lbs[t.v], st.ubs[t.v])

				newLB, newUB := st.lbs[t.v], st.ubs[t.v]
				if t.coef > 0 {
					if c.hi != NoUpper {
						if ub := floorDiv(c.hi-minOther, t.coef); ub < newUB {
							newUB = ub
						}
					}
					if c.lo != NoLower {
						if lb := ceilDiv(c.lo-maxOther, t.coef); lb > newLB {
							newLB = lb
						}
					}
				} else {
					if c.hi != NoUpper {
						if lb := ceilDiv(c.hi-minOther, t.coef); lb > newLB {
							newLB = lb
						}
					}
					if c.lo != NoLower {
						if ub := floorDiv(c.lo-maxOther, t.coef); ub < newUB {
							newUB = ub
						}
					}
				}
				if newLB > newUB {
					return false
				}
				if newLB != st.lbs[t.v] || newUB != st.ubs[t.v] {
					st.lbs[t.v] = newLB
					st.ubs[t.v] = newUB
					changed = true
				}
			}
		}
		if !changed {
			break
		}
	}

	st.initIncremental()
	return true
}

// initIncremental 基于传播后的域建立增量和与目标下界
func (st *search) initIncremental() {
	st.varCons = make([][]varCon, len(st.lbs))
	st.minSum = make([]int, len(st.m.cons))
	st.maxSum = make([]int, len(st.m.cons))

	for ci, c := range st.m.cons {
		for _, t := range c.terms {
			minT := minContribution(t.coef, st.lbs[t.v], st.ubs[t.v])
			maxT := maxContribution(t.coef, st.lbs[t.v], st.ubs[t.v])
			st.minSum[ci] += minT
			st.maxSum[ci] += maxT
			st.varCons[t.v] = append(st.varCons[t.v], varCon{ci: ci, coef: t.coef, minT: minT, maxT: maxT})
		}
	}

	st.objLB = 0
	for v := range st.objCoef {
		lo := st.objCoef[v] * float64(st.lbs[v])
		hi := st.objCoef[v] * float64(st.ubs[v])
		if hi < lo {
			lo = hi
		}
		st.objMin[v] = lo
		st.objLB += lo
	}
}

// dfs 按变量创建序分支
func (st *search) dfs(i int) {
	st.nodes++
	if st.nodes&1023 == 0 {
		if time.Now().After(st.deadline) || st.ctx.Err() != nil {
			st.stopped = true
			return
		}
	}

	if i == len(st.values) {
		// 所有变量已定且约束可达范围均合法，即为可行解
		if !st.hasBest || st.objLB < st.bestObj-1e-9 {
			st.bestObj = st.objLB
			st.best = append([]int(nil), st.values...)
			st.hasBest = true
		}
		return
	}

	lb, ub := st.lbs[i], st.ubs[i]

	// 目标系数为负时从大值分支，优先探索更优的一侧
	vals := make([]int, 0, ub-lb+1)
	if st.objCoef[i] > 0 {
		for x := lb; x <= ub; x++ {
			vals = append(vals, x)
		}
	} else {
		for x := ub; x >= lb; x-- {
			vals = append(vals, x)
		}
	}

	for _, x := range vals {
		if st.assign(i, x) {
			st.dfs(i + 1)
		}
		st.unassign(i, x)
		if st.stopped {
			return
		}
	}
}

// assign 将变量i固定为x，更新增量和并检查可满足性与目标界
func (st *search) assign(i, x int) bool {
	st.values[i] = x
	for _, vc := range st.varCons[i] {
		st.minSum[vc.ci] += vc.coef*x - vc.minT
		st.maxSum[vc.ci] += vc.coef*x - vc.maxT
	}
	st.objLB += st.objCoef[i]*float64(x) - st.objMin[i]

	if st.hasBest && st.objLB > st.bestObj-1e-9 {
		return false
	}
	for _, vc := range st.varCons[i] {
		c := &st.m.cons[vc.ci]
		if c.hi != NoUpper && st.minSum[vc.ci] > c.hi {
			return false
		}
		if c.lo != NoLower && st.maxSum[vc.ci] < c.lo {
			return false
		}
	}
	return true
}

// unassign 撤销assign的增量更新
func (st *search) unassign(i, x int) {
	for _, vc := range st.varCons[i] {
		st.minSum[vc.ci] -= vc.coef*x - vc.minT
		st.maxSum[vc.ci] -= vc.coef*x - vc.maxT
	}
	st.objLB -= st.objCoef[i]*float64(x) - st.objMin[i]
}

// minContribution 返回 coef*x 在 x∈[lb,ub] 下的最小值
func minContribution(coef, lb, ub int) int {
	if coef >= 0 {
		return coef * lb
	}
	return coef * ub
}

// maxContribution 返回 coef*x 在 x∈[lb,ub] 下的最大值
func maxContribution(coef, lb, ub int) int {
	if coef >= 0 {
		return coef * ub
	}
	return coef * lb
}

// floorDiv 向下取整的整数除法
func floorDiv(a, b int) int {
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}
	return q
}

// ceilDiv 向上取整的整数除法
func ceilDiv(a, b int) int {
	q := a / b
	if a%b != 0 && (a < 0) == (b < 0) {
		q++
	}
	return q
}
