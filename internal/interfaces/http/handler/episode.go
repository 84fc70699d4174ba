// Package handler 提供 HTTP 请求处理器
package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/lib/pq"

	"scenra/internal/domain/entity"
	"scenra/internal/domain/repository"
	"scenra/internal/interfaces/http/dto"
	"scenra/internal/interfaces/http/middleware"
	"scenra/pkg/logger"
)

// EpisodeHandler 剧集处理器
type EpisodeHandler struct {
	seriesRepo  repository.SeriesRepository
	episodeRepo repository.EpisodeRepository
}

// NewEpisodeHandler 创建剧集处理器
func NewEpisodeHandler(seriesRepo repository.SeriesRepository, episodeRepo repository.EpisodeRepository) *EpisodeHandler {
	return &EpisodeHandler{
		seriesRepo:  seriesRepo,
		episodeRepo: episodeRepo,
	}
}

// ownedSeriesID 校验系列归属并返回系列 ID
func (h *EpisodeHandler) ownedSeriesID(c *gin.Context) string {
	ctx := c.Request.Context()
	seriesID := dto.BindSeriesID(c)
	userID := middleware.GetUserIDFromGin(c)

	series, err := h.seriesRepo.GetByID(ctx, seriesID)
	if err != nil {
		logger.Error(ctx, "failed to get series", err)
		dto.InternalError(c, "failed to get series")
		return ""
	}
	if series == nil || series.UserID != userID {
		dto.NotFound(c, "series not found")
		return ""
	}
	return seriesID
}

// loadEpisode 加载属于指定系列的剧集
func (h *EpisodeHandler) loadEpisode(c *gin.Context, seriesID string) *entity.Episode {
	ctx := c.Request.Context()
	episodeID := dto.BindEpisodeID(c)

	episode, err := h.episodeRepo.GetByID(ctx, episodeID)
	if err != nil {
		logger.Error(ctx, "failed to get episode", err)
		dto.InternalError(c, "failed to get episode")
		return nil
	}
	if episode == nil || episode.SeriesID != seriesID {
		dto.NotFound(c, "episode not found")
		return nil
	}
	return episode
}

// ListEpisodes 获取剧集列表
// @Summary 获取系列的剧集列表
// @Tags Episodes
// @Produce json
// @Param sid path string true "系列 ID"
// @Param page query int false "页码" default(1)
// @Param page_size query int false "每页条数" default(20)
// @Success 200 {object} dto.Response[[]entity.Episode]
// @Failure 404 {object} dto.ErrorResponse
// @Router /v1/series/{sid}/episodes [get]
func (h *EpisodeHandler) ListEpisodes(c *gin.Context) {
	ctx := c.Request.Context()

	seriesID := h.ownedSeriesID(c)
	if seriesID == "" {
		return
	}
	pageReq := dto.BindPage(c)

	result, err := h.episodeRepo.ListBySeries(ctx, seriesID, repository.NewPagination(pageReq.Page, pageReq.PageSize))
	if err != nil {
		logger.Error(ctx, "failed to list episodes", err)
		dto.InternalError(c, "failed to list episodes")
		return
	}

	meta := dto.NewPageMeta(pageReq.Page, pageReq.PageSize, int(result.Total))
	dto.SuccessWithPage(c, result.Items, meta)
}

// CreateEpisode 创建剧集
// @Summary 创建剧集
// @Tags Episodes
// @Accept json
// @Produce json
// @Param sid path string true "系列 ID"
// @Param body body dto.CreateEpisodeRequest true "剧集信息"
// @Success 201 {object} dto.Response[entity.Episode]
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /v1/series/{sid}/episodes [post]
func (h *EpisodeHandler) CreateEpisode(c *gin.Context) {
	ctx := c.Request.Context()

	seriesID := h.ownedSeriesID(c)
	if seriesID == "" {
		return
	}

	var req dto.CreateEpisodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	now := time.Now().UTC()
	episode := &entity.Episode{
		ID:        uuid.NewString(),
		SeriesID:  seriesID,
		Number:    req.Number,
		Title:     req.Title,
		Synopsis:  req.Synopsis,
		Themes:    pq.StringArray(req.Themes),
		CreatedAt: now,
		UpdatedAt: now,
	}
	for i := range req.Scenes {
		episode.Scenes = append(episode.Scenes, req.Scenes[i].ToEntity())
	}

	if err := h.episodeRepo.Create(ctx, episode); err != nil {
		logger.Error(ctx, "failed to create episode", err)
		dto.InternalError(c, "failed to create episode")
		return
	}
	dto.Created(c, episode)
}

// GetEpisode 获取剧集详情
// @Summary 获取剧集详情
// @Tags Episodes
// @Produce json
// @Param sid path string true "系列 ID"
// @Param eid path string true "剧集 ID"
// @Success 200 {object} dto.Response[entity.Episode]
// @Failure 404 {object} dto.ErrorResponse
// @Router /v1/series/{sid}/episodes/{eid} [get]
func (h *EpisodeHandler) GetEpisode(c *gin.Context) {
	seriesID := h.ownedSeriesID(c)
	if seriesID == "" {
		return
	}
	episode := h.loadEpisode(c, seriesID)
	if episode == nil {
		return
	}
	dto.Success(c, episode)
}

// UpdateEpisode 更新剧集
// @Summary 更新剧集
// @Tags Episodes
// @Accept json
// @Produce json
// @Param sid path string true "系列 ID"
// @Param eid path string true "剧集 ID"
// @Param body body dto.UpdateEpisodeRequest true "更新内容"
// @Success 200 {object} dto.Response[entity.Episode]
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /v1/series/{sid}/episodes/{eid} [put]
func (h *EpisodeHandler) UpdateEpisode(c *gin.Context) {
	ctx := c.Request.Context()

	seriesID := h.ownedSeriesID(c)
	if seriesID == "" {
		return
	}
	episode := h.loadEpisode(c, seriesID)
	if episode == nil {
		return
	}

	var req dto.UpdateEpisodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	if req.Title != "" {
		episode.Title = req.Title
	}
	if req.Synopsis != nil {
		episode.Synopsis = *req.Synopsis
	}
	if req.Scenes != nil {
		episode.Scenes = episode.Scenes[:0]
		for i := range req.Scenes {
			episode.Scenes = append(episode.Scenes, req.Scenes[i].ToEntity())
		}
	}
	if req.Themes != nil {
		episode.Themes = pq.StringArray(req.Themes)
	}
	episode.UpdatedAt = time.Now().UTC()

	if err := h.episodeRepo.Update(ctx, episode); err != nil {
		logger.Error(ctx, "failed to update episode", err)
		dto.InternalError(c, "failed to update episode")
		return
	}
	dto.Success(c, episode)
}

// DeleteEpisode 删除剧集
// @Summary 删除剧集
// @Tags Episodes
// @Param sid path string true "系列 ID"
// @Param eid path string true "剧集 ID"
// @Success 204
// @Failure 404 {object} dto.ErrorResponse
// @Router /v1/series/{sid}/episodes/{eid} [delete]
func (h *EpisodeHandler) DeleteEpisode(c *gin.Context) {
	ctx := c.Request.Context()

	seriesID := h.ownedSeriesID(c)
	if seriesID == "" {
		return
	}
	episode := h.loadEpisode(c, seriesID)
	if episode == nil {
		return
	}

	if err := h.episodeRepo.Delete(ctx, episode.ID); err != nil {
		logger.Error(ctx, "failed to delete episode", err)
		dto.InternalError(c, "failed to delete episode")
		return
	}
	dto.NoContent(c)
}
