package handler

import (
	"encoding/json"
	"net/http"

	"github.com/paiyou/paiyou/pkg/errors"
	"github.com/paiyou/paiyou/pkg/model"
	"github.com/paiyou/paiyou/pkg/solver"
	"github.com/paiyou/paiyou/pkg/validator"
)

// ValidateHandler 排班校验处理器
type ValidateHandler struct{}

// NewValidateHandler 创建排班校验处理器
func NewValidateHandler() *ValidateHandler {
	return &ValidateHandler{}
}

// ValidateRequest 排班校验请求
// 不带排班表时做求解前预检，带排班表时逐条复核硬约束
type ValidateRequest struct {
	StartDate   string             `json:"start_date"`
	EndDate     string             `json:"end_date"`
	Employees   []*model.Employee  `json:"employees"`
	Shifts      []*model.Shift     `json:"shifts"`
	Assignments []model.Assignment `json:"assignments,omitempty"`
}

// Validate 校验输入或排班表
func (h *ValidateHandler) Validate(w http.ResponseWriter, r *http.Request) {
	var req ValidateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, errors.Wrap(err, errors.CodeInvalidInput, "解析请求失败"))
		return
	}

	if len(req.Assignments) == 0 {
		result := solver.ValidateInputs(req.Employees, req.Shifts, &model.SolveRequest{
			StartDate: req.StartDate,
			EndDate:   req.EndDate,
		})
		respondJSON(w, http.StatusOK, result)
		return
	}

	violations, err := validator.Check(req.Employees, req.Shifts, req.StartDate, req.EndDate, req.Assignments)
	if err != nil {
		respondError(w, errors.Wrap(err, errors.CodeInvalidInput, "日期范围无效"))
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"valid":      len(violations) == 0,
		"violations": violations,
		"total":      len(violations),
	})
}
