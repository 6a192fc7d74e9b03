// Package cpsolver 提供0/1与有界整数变量上的线性约束模型与有界时间求解器
//
// 模型与搜索分离：上层只负责声明变量、线性约束与线性目标，
// 求解算法可整体替换而不影响建模方。
package cpsolver

import "math"

// 约束边界哨兵值，表示该侧无界
const (
	NoLower = math.MinInt32
	NoUpper = math.MaxInt32
)

// Var 变量句柄（模型内索引）
type Var int

// term 约束中的一项 coef*var
type term struct {
	v    Var
	coef int
}

// linConstraint 线性约束 lo <= Σ coef*var <= hi（闭区间）
type linConstraint struct {
	terms []term
	lo    int
	hi    int
}

// objTerm 目标函数中的一项 coef*var
type objTerm struct {
	v    Var
	coef float64
}

// Model 约束模型
// 每次求解运行独占一个模型实例，不可跨运行复用
type Model struct {
	lbs []int
	ubs []int

	cons []linConstraint

	obj          []objTerm
	maximize     bool
	hasObjective bool
}

// NewModel 创建空模型
func NewModel() *Model {
	return &Model{}
}

// NewBoolVar 创建0/1布尔变量
func (m *Model) NewBoolVar() Var {
	return m.NewIntVar(0, 1)
}

// NewIntVar 创建域为 [lb, ub] 的整数变量
func (m *Model) NewIntVar(lb, ub int) Var {
	if ub < lb {
		ub = lb
	}
	m.lbs = append(m.lbs, lb)
	m.ubs = append(m.ubs, ub)
	return Var(len(m.lbs) - 1)
}

// NumVars 返回变量数
func (m *Model) NumVars() int {
	return len(m.lbs)
}

// NumConstraints 返回约束数
func (m *Model) NumConstraints() int {
	return len(m.cons)
}

// AddLinearConstraint 添加线性约束 lo <= Σ coefs[i]*vars[i] <= hi
// 单侧约束用 NoLower / NoUpper 表示无界
func (m *Model) AddLinearConstraint(vars []Var, coefs []int, lo, hi int) {
	terms := make([]term, 0, len(vars))
	for i, v := range vars {
		if coefs[i] == 0 {
			continue
		}
		terms = append(terms, term{v: v, coef: coefs[i]})
	}
	m.cons = append(m.cons, linConstraint{terms: terms, lo: lo, hi: hi})
}

// AddSumAtMost 添加约束 Σ vars <= hi
func (m *Model) AddSumAtMost(vars []Var, hi int) {
	m.AddLinearConstraint(vars, ones(len(vars)), NoLower, hi)
}

// AddSumAtLeast 添加约束 Σ vars >= lo
func (m *Model) AddSumAtLeast(vars []Var, lo int) {
	m.AddLinearConstraint(vars, ones(len(vars)), lo, NoUpper)
}

// AddSumRange 添加约束 lo <= Σ vars <= hi
func (m *Model) AddSumRange(vars []Var, lo, hi int) {
	m.AddLinearConstraint(vars, ones(len(vars)), lo, hi)
}

// AddEquality 添加约束 var == value
func (m *Model) AddEquality(v Var, value int) {
	m.AddLinearConstraint([]Var{v}, []int{1}, value, value)
}

// Minimize 设置最小化目标 Σ coefs[i]*vars[i]
func (m *Model) Minimize(vars []Var, coefs []float64) {
	m.setObjective(vars, coefs, false)
}

// Maximize 设置最大化目标 Σ coefs[i]*vars[i]
func (m *Model) Maximize(vars []Var, coefs []float64) {
	m.setObjective(vars, coefs, true)
}

// setObjective 设置线性目标
func (m *Model) setObjective(vars []Var, coefs []float64, maximize bool) {
	m.obj = m.obj[:0]
	for i, v := range vars {
		if coefs[i] == 0 {
			continue
		}
		m.obj = append(m.obj, objTerm{v: v, coef: coefs[i]})
	}
	m.maximize = maximize
	m.hasObjective = true
}

// ones 返回 n 个 1 的系数切片
func ones(n int) []int {
	c := make([]int, n)
	for i := range c {
		c[i] = 1
	}
	return c
}
