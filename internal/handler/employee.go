package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/paiyou/paiyou/internal/repository"
	"github.com/paiyou/paiyou/pkg/errors"
	"github.com/paiyou/paiyou/pkg/model"
)

// EmployeeHandler 员工管理处理器，仅在数据库启用时注册
type EmployeeHandler struct {
	repo *repository.EmployeeRepository
}

// NewEmployeeHandler 创建员工管理处理器
func NewEmployeeHandler(repo *repository.EmployeeRepository) *EmployeeHandler {
	return &EmployeeHandler{repo: repo}
}

// Create 创建员工
func (h *EmployeeHandler) Create(w http.ResponseWriter, r *http.Request) {
	var emp model.Employee
	if err := json.NewDecoder(r.Body).Decode(&emp); err != nil {
		respondError(w, errors.Wrap(err, errors.CodeInvalidInput, "解析请求失败"))
		return
	}
	if emp.Name == "" {
		respondError(w, errors.InvalidInput("name", "不能为空"))
		return
	}

	emp.IsActive = true
	if err := h.repo.Create(r.Context(), &emp); err != nil {
		respondError(w, errors.Wrap(err, errors.CodeDatabaseError, "创建员工失败"))
		return
	}
	respondJSON(w, http.StatusCreated, emp)
}

// Get 查询员工
func (h *EmployeeHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	emp, err := h.repo.GetByID(r.Context(), id)
	if err != nil {
		respondError(w, errors.NotFound("员工", strconv.FormatInt(id, 10)))
		return
	}
	respondJSON(w, http.StatusOK, emp)
}

// List 查询员工列表
func (h *EmployeeHandler) List(w http.ResponseWriter, r *http.Request) {
	employees, err := h.repo.List(r.Context(), repository.DefaultListFilter())
	if err != nil {
		respondError(w, errors.Wrap(err, errors.CodeDatabaseError, "查询员工列表失败"))
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"employees": employees,
		"total":     len(employees),
	})
}

// Update 更新员工
func (h *EmployeeHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	var emp model.Employee
	if err := json.NewDecoder(r.Body).Decode(&emp); err != nil {
		respondError(w, errors.Wrap(err, errors.CodeInvalidInput, "解析请求失败"))
		return
	}
	emp.ID = id

	if err := h.repo.Update(r.Context(), &emp); err != nil {
		respondError(w, errors.Wrap(err, errors.CodeDatabaseError, "更新员工失败"))
		return
	}
	respondJSON(w, http.StatusOK, emp)
}

// Delete 停用员工
func (h *EmployeeHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	if err := h.repo.Delete(r.Context(), id); err != nil {
		respondError(w, errors.Wrap(err, errors.CodeDatabaseError, "停用员工失败"))
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"deleted": true})
}

// parseID 从路径解析整数ID
func parseID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		respondError(w, errors.Wrap(err, errors.CodeInvalidInput, "无效的ID格式"))
		return 0, false
	}
	return id, true
}
