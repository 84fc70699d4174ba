// Package handler 提供 HTTP 请求处理器
package handler

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"scenra/internal/domain/entity"
	"scenra/internal/domain/repository"
	"scenra/internal/interfaces/http/dto"
	"scenra/internal/interfaces/http/middleware"
	"scenra/pkg/logger"
)

// VideoHandler 视频处理器
type VideoHandler struct {
	videoRepo repository.VideoRepository
}

// NewVideoHandler 创建视频处理器
func NewVideoHandler(videoRepo repository.VideoRepository) *VideoHandler {
	return &VideoHandler{videoRepo: videoRepo}
}

// loadOwned 加载并校验归属
func (h *VideoHandler) loadOwned(c *gin.Context) *entity.Video {
	ctx := c.Request.Context()
	videoID := dto.BindVideoID(c)
	userID := middleware.GetUserIDFromGin(c)

	video, err := h.videoRepo.GetByID(ctx, videoID)
	if err != nil {
		logger.Error(ctx, "failed to get video", err)
		dto.InternalError(c, "failed to get video")
		return nil
	}
	if video == nil || video.UserID != userID {
		dto.NotFound(c, "video not found")
		return nil
	}
	return video
}

// ListVideos 获取视频列表
// @Summary 获取生成的视频列表
// @Tags Videos
// @Produce json
// @Param series_id query string false "按系列过滤"
// @Param platform query string false "按平台过滤"
// @Param page query int false "页码" default(1)
// @Param page_size query int false "每页条数" default(20)
// @Success 200 {object} dto.Response[[]entity.Video]
// @Failure 500 {object} dto.ErrorResponse
// @Router /v1/videos [get]
func (h *VideoHandler) ListVideos(c *gin.Context) {
	ctx := c.Request.Context()
	userID := middleware.GetUserIDFromGin(c)
	pageReq := dto.BindPage(c)

	var filter *repository.VideoFilter
	seriesID := c.Query("series_id")
	platform := strings.ToLower(strings.TrimSpace(c.Query("platform")))
	if seriesID != "" || platform != "" {
		filter = &repository.VideoFilter{
			SeriesID: seriesID,
			Platform: entity.Platform(platform),
		}
	}

	result, err := h.videoRepo.ListByUser(ctx, userID, filter, repository.NewPagination(pageReq.Page, pageReq.PageSize))
	if err != nil {
		logger.Error(ctx, "failed to list videos", err)
		dto.InternalError(c, "failed to list videos")
		return
	}

	meta := dto.NewPageMeta(pageReq.Page, pageReq.PageSize, int(result.Total))
	dto.SuccessWithPage(c, result.Items, meta)
}

// GetVideo 获取视频详情
// @Summary 获取视频详情
// @Tags Videos
// @Produce json
// @Param vid path string true "视频 ID"
// @Success 200 {object} dto.Response[entity.Video]
// @Failure 404 {object} dto.ErrorResponse
// @Router /v1/videos/{vid} [get]
func (h *VideoHandler) GetVideo(c *gin.Context) {
	video := h.loadOwned(c)
	if video == nil {
		return
	}
	dto.Success(c, video)
}

// DeleteVideo 删除视频
// @Summary 删除视频记录
// @Tags Videos
// @Param vid path string true "视频 ID"
// @Success 204
// @Failure 404 {object} dto.ErrorResponse
// @Router /v1/videos/{vid} [delete]
func (h *VideoHandler) DeleteVideo(c *gin.Context) {
	ctx := c.Request.Context()

	video := h.loadOwned(c)
	if video == nil {
		return
	}

	if err := h.videoRepo.Delete(ctx, video.ID); err != nil {
		logger.Error(ctx, "failed to delete video", err)
		dto.InternalError(c, "failed to delete video")
		return
	}
	dto.NoContent(c)
}

// RecordMetrics 记录视频表现指标
// @Summary 记录视频表现指标
// @Description 同一视频同一平台重复提交时覆盖旧值
// @Tags Videos
// @Accept json
// @Produce json
// @Param vid path string true "视频 ID"
// @Param body body dto.RecordMetricsRequest true "表现指标"
// @Success 200 {object} dto.Response[dto.VideoMetricsResponse]
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /v1/videos/{vid}/metrics [post]
func (h *VideoHandler) RecordMetrics(c *gin.Context) {
	ctx := c.Request.Context()

	video := h.loadOwned(c)
	if video == nil {
		return
	}

	var req dto.RecordMetricsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	platform := entity.Platform(strings.ToLower(strings.TrimSpace(req.Platform)))
	if !platform.IsValid() {
		dto.BadRequest(c, "unsupported platform: "+req.Platform)
		return
	}

	metrics := &entity.VideoMetrics{
		ID:         uuid.NewString(),
		VideoID:    video.ID,
		Platform:   platform,
		Views:      req.Views,
		Likes:      req.Likes,
		Comments:   req.Comments,
		Shares:     req.Shares,
		RecordedAt: time.Now().UTC(),
	}

	if err := h.videoRepo.UpsertMetrics(ctx, metrics); err != nil {
		logger.Error(ctx, "failed to record metrics", err)
		dto.InternalError(c, "failed to record metrics")
		return
	}
	dto.Success(c, dto.ToVideoMetricsResponse(metrics))
}

// ListMetrics 获取视频表现指标
// @Summary 获取视频在各平台的表现指标
// @Tags Videos
// @Produce json
// @Param vid path string true "视频 ID"
// @Success 200 {object} dto.Response[[]dto.VideoMetricsResponse]
// @Failure 404 {object} dto.ErrorResponse
// @Router /v1/videos/{vid}/metrics [get]
func (h *VideoHandler) ListMetrics(c *gin.Context) {
	ctx := c.Request.Context()

	video := h.loadOwned(c)
	if video == nil {
		return
	}

	items, err := h.videoRepo.ListMetrics(ctx, video.ID)
	if err != nil {
		logger.Error(ctx, "failed to list metrics", err)
		dto.InternalError(c, "failed to list metrics")
		return
	}

	resp := make([]*dto.VideoMetricsResponse, 0, len(items))
	for _, m := range items {
		resp = append(resp, dto.ToVideoMetricsResponse(m))
	}
	dto.Success(c, resp)
}
