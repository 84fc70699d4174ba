// Package handler 提供 HTTP 请求处理器
package handler

import (
	"io"

	"github.com/gin-gonic/gin"

	"scenra/internal/application/generation"
	"scenra/internal/application/roundtable"
	"scenra/internal/domain/entity"
	"scenra/internal/interfaces/http/dto"
	"scenra/internal/interfaces/http/middleware"
	"scenra/pkg/errors"
	"scenra/pkg/logger"
)

// GenerateHandler 生成处理器
type GenerateHandler struct {
	service *generation.Service
}

// NewGenerateHandler 创建生成处理器
func NewGenerateHandler(service *generation.Service) *GenerateHandler {
	return &GenerateHandler{service: service}
}

// Generate 同步生成
// @Summary 生成视频提示词
// @Description 多智能体圆桌讨论后合成优化提示词，同步返回完整结果
// @Tags Generation
// @Accept json
// @Produce json
// @Param body body dto.GenerateRequest true "生成请求"
// @Success 200 {object} dto.Response[generation.Output]
// @Failure 400 {object} dto.ErrorResponse
// @Failure 429 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /v1/generate [post]
func (h *GenerateHandler) Generate(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.GenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	in := req.ToInput(middleware.GetUserIDFromGin(c), entity.Plan(middleware.GetPlanFromGin(c)))

	out, err := h.service.Generate(ctx, in)
	if err != nil {
		h.writeError(c, err, "generation failed")
		return
	}
	dto.Success(c, out)
}

// GenerateStream 流式生成
// @Summary 流式生成视频提示词
// @Description 以 SSE 推送圆桌讨论的每个发言，最后推送完整结果；
// @Description 开始后发生的失败以 error 事件结束流
// @Tags Generation
// @Accept json
// @Produce text/event-stream
// @Param body body dto.GenerateRequest true "生成请求"
// @Success 200 "SSE stream"
// @Failure 400 {object} dto.ErrorResponse
// @Failure 429 {object} dto.ErrorResponse
// @Router /v1/generate/stream [post]
func (h *GenerateHandler) GenerateStream(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.GenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	in := req.ToInput(middleware.GetUserIDFromGin(c), entity.Plan(middleware.GetPlanFromGin(c)))

	// 配额与输入校验在响应头提交前完成，此类失败走普通 HTTP 错误
	events, err := h.service.GenerateStream(ctx, in)
	if err != nil {
		h.writeError(c, err, "generation failed")
		return
	}

	// 设置 SSE 响应头
	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache, no-transform")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")

	c.Stream(func(w io.Writer) bool {
		select {
		case ev, ok := <-events:
			if !ok {
				return false
			}
			switch ev.Type {
			case roundtable.EventTurn:
				c.SSEvent("turn", ev.Turn)
				return true
			case roundtable.EventResult:
				c.SSEvent("result", ev.Output)
				return true
			case roundtable.EventError:
				// 头已提交，错误只能以带内事件形式结束流
				c.SSEvent("error", gin.H{
					"code":    ev.Code,
					"message": ev.Message,
				})
				return false
			}
			return true

		case <-c.Request.Context().Done():
			// 客户端断开
			return false
		}
	})
}

// Validate 独立一致性校验
// @Summary 校验提示词的角色一致性
// @Description 对任意提示词文本执行角色视觉指纹校验
// @Tags Generation
// @Accept json
// @Produce json
// @Param body body dto.ValidateRequest true "校验请求"
// @Success 200 {object} dto.Response[consistency.Report]
// @Failure 400 {object} dto.ErrorResponse
// @Router /v1/validate [post]
func (h *GenerateHandler) Validate(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.ValidateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	report, err := h.service.Validate(ctx, req.Prompt, req.SeriesID, req.CharacterIDs)
	if err != nil {
		h.writeError(c, err, "validation failed")
		return
	}
	dto.Success(c, report)
}

// writeError 按 AppError 状态码写出错误响应
func (h *GenerateHandler) writeError(c *gin.Context, err error, fallback string) {
	if errors.IsAppError(err) {
		appErr := errors.AsAppError(err)
		c.JSON(appErr.HTTPStatus, dto.ErrorResponse{
			Code:    appErr.HTTPStatus,
			Message: appErr.Message,
			Error: &dto.ErrorDetail{
				ErrorCode: string(appErr.Code),
				Details:   appErr.Detail,
			},
			TraceID: c.GetString("trace_id"),
		})
		return
	}
	logger.Error(c.Request.Context(), fallback, err)
	dto.InternalError(c, fallback)
}
