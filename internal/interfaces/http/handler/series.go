// Package handler 提供 HTTP 请求处理器
package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"scenra/internal/domain/entity"
	"scenra/internal/domain/repository"
	redisc "scenra/internal/infrastructure/persistence/redis"
	"scenra/internal/interfaces/http/dto"
	"scenra/internal/interfaces/http/middleware"
	"scenra/pkg/logger"
)

// SeriesHandler 系列处理器
type SeriesHandler struct {
	seriesRepo repository.SeriesRepository
	cache      *redisc.Cache
}

// NewSeriesHandler 创建系列处理器
func NewSeriesHandler(seriesRepo repository.SeriesRepository, cache *redisc.Cache) *SeriesHandler {
	return &SeriesHandler{
		seriesRepo: seriesRepo,
		cache:      cache,
	}
}

// loadOwned 加载并校验归属，失败时已写出响应并返回 nil
func (h *SeriesHandler) loadOwned(c *gin.Context) *entity.Series {
	ctx := c.Request.Context()
	seriesID := dto.BindSeriesID(c)
	userID := middleware.GetUserIDFromGin(c)

	series, err := h.seriesRepo.GetByID(ctx, seriesID)
	if err != nil {
		logger.Error(ctx, "failed to get series", err)
		dto.InternalError(c, "failed to get series")
		return nil
	}
	if series == nil || series.UserID != userID {
		dto.NotFound(c, "series not found")
		return nil
	}
	return series
}

// invalidate 使系列生成上下文缓存失效，失败仅告警
func (h *SeriesHandler) invalidate(c *gin.Context, seriesID string) {
	if h.cache == nil {
		return
	}
	if err := h.cache.InvalidateSeries(c.Request.Context(), seriesID); err != nil {
		logger.Warn(c.Request.Context(), "failed to invalidate series cache", "series_id", seriesID)
	}
}

// ListSeries 获取系列列表
// @Summary 获取系列列表
// @Description 获取当前用户的系列列表
// @Tags Series
// @Produce json
// @Param page query int false "页码" default(1)
// @Param page_size query int false "每页条数" default(20)
// @Success 200 {object} dto.Response[[]entity.Series]
// @Failure 500 {object} dto.ErrorResponse
// @Router /v1/series [get]
func (h *SeriesHandler) ListSeries(c *gin.Context) {
	ctx := c.Request.Context()
	userID := middleware.GetUserIDFromGin(c)
	pageReq := dto.BindPage(c)

	result, err := h.seriesRepo.ListByUser(ctx, userID, repository.NewPagination(pageReq.Page, pageReq.PageSize))
	if err != nil {
		logger.Error(ctx, "failed to list series", err)
		dto.InternalError(c, "failed to list series")
		return
	}

	meta := dto.NewPageMeta(pageReq.Page, pageReq.PageSize, int(result.Total))
	dto.SuccessWithPage(c, result.Items, meta)
}

// CreateSeries 创建系列
// @Summary 创建系列
// @Description 创建新的视频系列
// @Tags Series
// @Accept json
// @Produce json
// @Param body body dto.CreateSeriesRequest true "系列信息"
// @Success 201 {object} dto.Response[entity.Series]
// @Failure 400 {object} dto.ErrorResponse
// @Router /v1/series [post]
func (h *SeriesHandler) CreateSeries(c *gin.Context) {
	ctx := c.Request.Context()
	userID := middleware.GetUserIDFromGin(c)

	var req dto.CreateSeriesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	platform := entity.Platform(req.Platform)
	if !platform.IsValid() {
		dto.BadRequest(c, "unsupported platform: "+req.Platform)
		return
	}

	now := time.Now().UTC()
	series := &entity.Series{
		ID:             uuid.NewString(),
		UserID:         userID,
		Title:          req.Title,
		Description:    req.Description,
		Platform:       platform,
		SoraSettings:   req.SoraSettings.ToEntity(),
		VisualTemplate: req.VisualTemplate,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := h.seriesRepo.Create(ctx, series); err != nil {
		logger.Error(ctx, "failed to create series", err)
		dto.InternalError(c, "failed to create series")
		return
	}
	dto.Created(c, series)
}

// GetSeries 获取系列详情
// @Summary 获取系列详情
// @Tags Series
// @Produce json
// @Param sid path string true "系列 ID"
// @Success 200 {object} dto.Response[entity.Series]
// @Failure 404 {object} dto.ErrorResponse
// @Router /v1/series/{sid} [get]
func (h *SeriesHandler) GetSeries(c *gin.Context) {
	series := h.loadOwned(c)
	if series == nil {
		return
	}
	dto.Success(c, series)
}

// UpdateSeries 更新系列
// @Summary 更新系列
// @Tags Series
// @Accept json
// @Produce json
// @Param sid path string true "系列 ID"
// @Param body body dto.UpdateSeriesRequest true "更新内容"
// @Success 200 {object} dto.Response[entity.Series]
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /v1/series/{sid} [put]
func (h *SeriesHandler) UpdateSeries(c *gin.Context) {
	ctx := c.Request.Context()

	series := h.loadOwned(c)
	if series == nil {
		return
	}

	var req dto.UpdateSeriesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	if req.Title != "" {
		series.Title = req.Title
	}
	if req.Description != nil {
		series.Description = *req.Description
	}
	if req.Platform != "" {
		platform := entity.Platform(req.Platform)
		if !platform.IsValid() {
			dto.BadRequest(c, "unsupported platform: "+req.Platform)
			return
		}
		series.Platform = platform
	}
	if req.VisualTemplate != nil {
		series.VisualTemplate = req.VisualTemplate
	}
	series.UpdatedAt = time.Now().UTC()

	if err := h.seriesRepo.Update(ctx, series); err != nil {
		logger.Error(ctx, "failed to update series", err)
		dto.InternalError(c, "failed to update series")
		return
	}
	h.invalidate(c, series.ID)
	dto.Success(c, series)
}

// DeleteSeries 删除系列
// @Summary 删除系列
// @Tags Series
// @Param sid path string true "系列 ID"
// @Success 204
// @Failure 404 {object} dto.ErrorResponse
// @Router /v1/series/{sid} [delete]
func (h *SeriesHandler) DeleteSeries(c *gin.Context) {
	ctx := c.Request.Context()

	series := h.loadOwned(c)
	if series == nil {
		return
	}

	if err := h.seriesRepo.Delete(ctx, series.ID); err != nil {
		logger.Error(ctx, "failed to delete series", err)
		dto.InternalError(c, "failed to delete series")
		return
	}
	h.invalidate(c, series.ID)
	dto.NoContent(c)
}

// UpdateSoraSettings 更新系列风格设定
// @Summary 更新系列级 Sora 风格设定
// @Tags Series
// @Accept json
// @Produce json
// @Param sid path string true "系列 ID"
// @Param body body dto.SoraSettingsRequest true "风格设定"
// @Success 200 {object} dto.Response[entity.SoraStyleSettings]
// @Failure 404 {object} dto.ErrorResponse
// @Router /v1/series/{sid}/sora-settings [put]
func (h *SeriesHandler) UpdateSoraSettings(c *gin.Context) {
	ctx := c.Request.Context()

	series := h.loadOwned(c)
	if series == nil {
		return
	}

	var req dto.SoraSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	settings := req.ToEntity()
	if err := h.seriesRepo.UpdateSoraSettings(ctx, series.ID, settings); err != nil {
		logger.Error(ctx, "failed to update sora settings", err)
		dto.InternalError(c, "failed to update sora settings")
		return
	}
	h.invalidate(c, series.ID)
	dto.Success(c, settings)
}

// ListSettings 获取场景设定列表
// @Summary 获取系列的场景设定
// @Tags Series
// @Produce json
// @Param sid path string true "系列 ID"
// @Success 200 {object} dto.Response[[]entity.Setting]
// @Failure 404 {object} dto.ErrorResponse
// @Router /v1/series/{sid}/settings [get]
func (h *SeriesHandler) ListSettings(c *gin.Context) {
	ctx := c.Request.Context()

	series := h.loadOwned(c)
	if series == nil {
		return
	}

	items, err := h.seriesRepo.ListSettings(ctx, series.ID)
	if err != nil {
		logger.Error(ctx, "failed to list settings", err)
		dto.InternalError(c, "failed to list settings")
		return
	}
	dto.Success(c, items)
}

// CreateSetting 创建场景设定
// @Summary 创建场景设定
// @Tags Series
// @Accept json
// @Produce json
// @Param sid path string true "系列 ID"
// @Param body body dto.CreateSettingRequest true "场景设定"
// @Success 201 {object} dto.Response[entity.Setting]
// @Failure 404 {object} dto.ErrorResponse
// @Router /v1/series/{sid}/settings [post]
func (h *SeriesHandler) CreateSetting(c *gin.Context) {
	ctx := c.Request.Context()

	series := h.loadOwned(c)
	if series == nil {
		return
	}

	var req dto.CreateSettingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	now := time.Now().UTC()
	setting := &entity.Setting{
		ID:            uuid.NewString(),
		SeriesID:      series.ID,
		Name:          req.Name,
		Description:   req.Description,
		VisualDetails: req.VisualDetails,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := h.seriesRepo.CreateSetting(ctx, setting); err != nil {
		logger.Error(ctx, "failed to create setting", err)
		dto.InternalError(c, "failed to create setting")
		return
	}
	h.invalidate(c, series.ID)
	dto.Created(c, setting)
}

// ListVisualAssets 获取视觉资产列表
// @Summary 获取系列的视觉资产
// @Tags Series
// @Produce json
// @Param sid path string true "系列 ID"
// @Success 200 {object} dto.Response[[]entity.VisualAsset]
// @Failure 404 {object} dto.ErrorResponse
// @Router /v1/series/{sid}/assets [get]
func (h *SeriesHandler) ListVisualAssets(c *gin.Context) {
	ctx := c.Request.Context()

	series := h.loadOwned(c)
	if series == nil {
		return
	}

	items, err := h.seriesRepo.ListVisualAssets(ctx, series.ID)
	if err != nil {
		logger.Error(ctx, "failed to list visual assets", err)
		dto.InternalError(c, "failed to list visual assets")
		return
	}
	dto.Success(c, items)
}

// CreateVisualAsset 创建视觉资产
// @Summary 创建视觉资产
// @Tags Series
// @Accept json
// @Produce json
// @Param sid path string true "系列 ID"
// @Param body body dto.CreateVisualAssetRequest true "视觉资产"
// @Success 201 {object} dto.Response[entity.VisualAsset]
// @Failure 404 {object} dto.ErrorResponse
// @Router /v1/series/{sid}/assets [post]
func (h *SeriesHandler) CreateVisualAsset(c *gin.Context) {
	ctx := c.Request.Context()

	series := h.loadOwned(c)
	if series == nil {
		return
	}

	var req dto.CreateVisualAssetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	asset := &entity.VisualAsset{
		ID:          uuid.NewString(),
		SeriesID:    series.ID,
		Name:        req.Name,
		AssetType:   req.AssetType,
		Description: req.Description,
		URL:         req.URL,
		CreatedAt:   time.Now().UTC(),
	}

	if err := h.seriesRepo.CreateVisualAsset(ctx, asset); err != nil {
		logger.Error(ctx, "failed to create visual asset", err)
		dto.InternalError(c, "failed to create visual asset")
		return
	}
	h.invalidate(c, series.ID)
	dto.Created(c, asset)
}

// ListRelationships 获取角色关系列表
// @Summary 获取系列的角色关系
// @Tags Series
// @Produce json
// @Param sid path string true "系列 ID"
// @Success 200 {object} dto.Response[[]entity.CharacterRelationship]
// @Failure 404 {object} dto.ErrorResponse
// @Router /v1/series/{sid}/relationships [get]
func (h *SeriesHandler) ListRelationships(c *gin.Context) {
	ctx := c.Request.Context()

	series := h.loadOwned(c)
	if series == nil {
		return
	}

	items, err := h.seriesRepo.ListRelationships(ctx, series.ID)
	if err != nil {
		logger.Error(ctx, "failed to list relationships", err)
		dto.InternalError(c, "failed to list relationships")
		return
	}
	dto.Success(c, items)
}

// CreateRelationship 创建角色关系
// @Summary 创建角色关系
// @Tags Series
// @Accept json
// @Produce json
// @Param sid path string true "系列 ID"
// @Param body body dto.CreateRelationshipRequest true "角色关系"
// @Success 201 {object} dto.Response[entity.CharacterRelationship]
// @Failure 404 {object} dto.ErrorResponse
// @Router /v1/series/{sid}/relationships [post]
func (h *SeriesHandler) CreateRelationship(c *gin.Context) {
	ctx := c.Request.Context()

	series := h.loadOwned(c)
	if series == nil {
		return
	}

	var req dto.CreateRelationshipRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	rel := &entity.CharacterRelationship{
		ID:               uuid.NewString(),
		SeriesID:         series.ID,
		CharacterAID:     req.CharacterAID,
		CharacterBID:     req.CharacterBID,
		RelationshipType: req.RelationshipType,
		CreatedAt:        time.Now().UTC(),
	}

	if err := h.seriesRepo.CreateRelationship(ctx, rel); err != nil {
		logger.Error(ctx, "failed to create relationship", err)
		dto.InternalError(c, "failed to create relationship")
		return
	}
	h.invalidate(c, series.ID)
	dto.Created(c, rel)
}
