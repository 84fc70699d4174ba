// Package handler 提供 HTTP 请求处理器
package handler

import (
	"github.com/gin-gonic/gin"

	"scenra/internal/application/quota"
	"scenra/internal/domain/entity"
	"scenra/internal/interfaces/http/dto"
	"scenra/internal/interfaces/http/middleware"
	"scenra/pkg/logger"
)

// UsageHandler 用量处理器
type UsageHandler struct {
	quotaSvc *quota.Service
}

// NewUsageHandler 创建用量处理器
func NewUsageHandler(quotaSvc *quota.Service) *UsageHandler {
	return &UsageHandler{quotaSvc: quotaSvc}
}

// GetUsage 获取本月用量
// @Summary 获取当前用户的本月生成用量
// @Tags Usage
// @Produce json
// @Success 200 {object} dto.Response[quota.Status]
// @Failure 500 {object} dto.ErrorResponse
// @Router /v1/usage [get]
func (h *UsageHandler) GetUsage(c *gin.Context) {
	ctx := c.Request.Context()
	userID := middleware.GetUserIDFromGin(c)
	plan := entity.Plan(middleware.GetPlanFromGin(c))

	status, err := h.quotaSvc.Check(ctx, userID, plan)
	if err != nil {
		logger.Error(ctx, "failed to check quota", err)
		dto.InternalError(c, "failed to get usage")
		return
	}
	dto.Success(c, status)
}
