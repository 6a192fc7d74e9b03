package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/paiyou/paiyou/internal/repository"
	"github.com/paiyou/paiyou/pkg/errors"
	"github.com/paiyou/paiyou/pkg/model"
)

// ShiftHandler 班次管理处理器，仅在数据库启用时注册
type ShiftHandler struct {
	repo *repository.ShiftRepository
}

// NewShiftHandler 创建班次管理处理器
func NewShiftHandler(repo *repository.ShiftRepository) *ShiftHandler {
	return &ShiftHandler{repo: repo}
}

// Create 创建班次
func (h *ShiftHandler) Create(w http.ResponseWriter, r *http.Request) {
	var shift model.Shift
	if err := json.NewDecoder(r.Body).Decode(&shift); err != nil {
		respondError(w, errors.Wrap(err, errors.CodeInvalidInput, "解析请求失败"))
		return
	}
	if shift.Name == "" {
		respondError(w, errors.InvalidInput("name", "不能为空"))
		return
	}
	if shift.DayOfWeek < 0 || shift.DayOfWeek > 6 {
		respondError(w, errors.InvalidInput("day_of_week", "必须在0到6之间"))
		return
	}
	if shift.MaxEmployees < shift.MinEmployees {
		respondError(w, errors.InvalidInput("max_employees", "不能小于最小人数"))
		return
	}

	shift.IsActive = true
	if err := h.repo.Create(r.Context(), &shift); err != nil {
		respondError(w, errors.Wrap(err, errors.CodeDatabaseError, "创建班次失败"))
		return
	}
	respondJSON(w, http.StatusCreated, shift)
}

// Get 查询班次
func (h *ShiftHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	shift, err := h.repo.GetByID(r.Context(), id)
	if err != nil {
		respondError(w, errors.NotFound("班次", strconv.FormatInt(id, 10)))
		return
	}
	respondJSON(w, http.StatusOK, shift)
}

// List 查询班次列表
func (h *ShiftHandler) List(w http.ResponseWriter, r *http.Request) {
	shifts, err := h.repo.List(r.Context(), repository.DefaultListFilter())
	if err != nil {
		respondError(w, errors.Wrap(err, errors.CodeDatabaseError, "查询班次列表失败"))
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"shifts": shifts,
		"total":  len(shifts),
	})
}

// Update 更新班次
func (h *ShiftHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	var shift model.Shift
	if err := json.NewDecoder(r.Body).Decode(&shift); err != nil {
		respondError(w, errors.Wrap(err, errors.CodeInvalidInput, "解析请求失败"))
		return
	}
	shift.ID = id

	if err := h.repo.Update(r.Context(), &shift); err != nil {
		respondError(w, errors.Wrap(err, errors.CodeDatabaseError, "更新班次失败"))
		return
	}
	respondJSON(w, http.StatusOK, shift)
}

// Delete 停用班次
func (h *ShiftHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	if err := h.repo.Delete(r.Context(), id); err != nil {
		respondError(w, errors.Wrap(err, errors.CodeDatabaseError, "停用班次失败"))
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"deleted": true})
}
