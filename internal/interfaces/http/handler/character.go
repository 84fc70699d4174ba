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

// CharacterHandler 角色处理器
type CharacterHandler struct {
	seriesRepo    repository.SeriesRepository
	characterRepo repository.CharacterRepository
	cache         *redisc.Cache
}

// NewCharacterHandler 创建角色处理器
func NewCharacterHandler(seriesRepo repository.SeriesRepository, characterRepo repository.CharacterRepository, cache *redisc.Cache) *CharacterHandler {
	return &CharacterHandler{
		seriesRepo:    seriesRepo,
		characterRepo: characterRepo,
		cache:         cache,
	}
}

// ownedSeriesID 校验系列归属并返回系列 ID，失败时已写出响应并返回空串
func (h *CharacterHandler) ownedSeriesID(c *gin.Context) string {
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

// loadCharacter 加载属于指定系列的角色
func (h *CharacterHandler) loadCharacter(c *gin.Context, seriesID string) *entity.Character {
	ctx := c.Request.Context()
	characterID := dto.BindCharacterID(c)

	character, err := h.characterRepo.GetByID(ctx, characterID)
	if err != nil {
		logger.Error(ctx, "failed to get character", err)
		dto.InternalError(c, "failed to get character")
		return nil
	}
	if character == nil || character.SeriesID != seriesID {
		dto.NotFound(c, "character not found")
		return nil
	}
	return character
}

func (h *CharacterHandler) invalidate(c *gin.Context, seriesID string) {
	if h.cache == nil {
		return
	}
	if err := h.cache.InvalidateSeries(c.Request.Context(), seriesID); err != nil {
		logger.Warn(c.Request.Context(), "failed to invalidate series cache", "series_id", seriesID)
	}
}

// ListCharacters 获取角色列表
// @Summary 获取系列的角色列表
// @Tags Characters
// @Produce json
// @Param sid path string true "系列 ID"
// @Success 200 {object} dto.Response[[]entity.Character]
// @Failure 404 {object} dto.ErrorResponse
// @Router /v1/series/{sid}/characters [get]
func (h *CharacterHandler) ListCharacters(c *gin.Context) {
	ctx := c.Request.Context()

	seriesID := h.ownedSeriesID(c)
	if seriesID == "" {
		return
	}

	items, err := h.characterRepo.ListBySeries(ctx, seriesID)
	if err != nil {
		logger.Error(ctx, "failed to list characters", err)
		dto.InternalError(c, "failed to list characters")
		return
	}
	dto.Success(c, items)
}

// CreateCharacter 创建角色
// @Summary 创建角色
// @Tags Characters
// @Accept json
// @Produce json
// @Param sid path string true "系列 ID"
// @Param body body dto.CreateCharacterRequest true "角色信息"
// @Success 201 {object} dto.Response[entity.Character]
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /v1/series/{sid}/characters [post]
func (h *CharacterHandler) CreateCharacter(c *gin.Context) {
	ctx := c.Request.Context()

	seriesID := h.ownedSeriesID(c)
	if seriesID == "" {
		return
	}

	var req dto.CreateCharacterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	character := entity.NewCharacter(seriesID, req.Name)
	character.ID = uuid.NewString()
	character.Description = req.Description
	character.VisualFingerprint = req.VisualFingerprint.ToEntity()
	character.SoraPromptTemplate = req.SoraPromptTemplate
	if req.ConsistencyPriority != "" {
		character.ConsistencyPriority = entity.ConsistencyPriority(req.ConsistencyPriority)
	}

	if err := h.characterRepo.Create(ctx, character); err != nil {
		logger.Error(ctx, "failed to create character", err)
		dto.InternalError(c, "failed to create character")
		return
	}
	h.invalidate(c, seriesID)
	dto.Created(c, character)
}

// GetCharacter 获取角色详情
// @Summary 获取角色详情
// @Tags Characters
// @Produce json
// @Param sid path string true "系列 ID"
// @Param cid path string true "角色 ID"
// @Success 200 {object} dto.Response[entity.Character]
// @Failure 404 {object} dto.ErrorResponse
// @Router /v1/series/{sid}/characters/{cid} [get]
func (h *CharacterHandler) GetCharacter(c *gin.Context) {
	seriesID := h.ownedSeriesID(c)
	if seriesID == "" {
		return
	}
	character := h.loadCharacter(c, seriesID)
	if character == nil {
		return
	}
	dto.Success(c, character)
}

// UpdateCharacter 更新角色
// @Summary 更新角色
// @Tags Characters
// @Accept json
// @Produce json
// @Param sid path string true "系列 ID"
// @Param cid path string true "角色 ID"
// @Param body body dto.UpdateCharacterRequest true "更新内容"
// @Success 200 {object} dto.Response[entity.Character]
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /v1/series/{sid}/characters/{cid} [put]
func (h *CharacterHandler) UpdateCharacter(c *gin.Context) {
	ctx := c.Request.Context()

	seriesID := h.ownedSeriesID(c)
	if seriesID == "" {
		return
	}
	character := h.loadCharacter(c, seriesID)
	if character == nil {
		return
	}

	var req dto.UpdateCharacterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	if req.Name != "" {
		character.Name = req.Name
	}
	if req.Description != nil {
		character.Description = *req.Description
	}
	if req.VisualFingerprint != nil {
		character.VisualFingerprint = req.VisualFingerprint.ToEntity()
	}
	if req.ConsistencyPriority != "" {
		character.ConsistencyPriority = entity.ConsistencyPriority(req.ConsistencyPriority)
	}
	if req.SoraPromptTemplate != nil {
		character.SoraPromptTemplate = *req.SoraPromptTemplate
	}
	character.UpdatedAt = time.Now().UTC()

	if err := h.characterRepo.Update(ctx, character); err != nil {
		logger.Error(ctx, "failed to update character", err)
		dto.InternalError(c, "failed to update character")
		return
	}
	h.invalidate(c, seriesID)
	dto.Success(c, character)
}

// DeleteCharacter 删除角色
// @Summary 删除角色
// @Tags Characters
// @Param sid path string true "系列 ID"
// @Param cid path string true "角色 ID"
// @Success 204
// @Failure 404 {object} dto.ErrorResponse
// @Router /v1/series/{sid}/characters/{cid} [delete]
func (h *CharacterHandler) DeleteCharacter(c *gin.Context) {
	ctx := c.Request.Context()

	seriesID := h.ownedSeriesID(c)
	if seriesID == "" {
		return
	}
	character := h.loadCharacter(c, seriesID)
	if character == nil {
		return
	}

	if err := h.characterRepo.Delete(ctx, character.ID); err != nil {
		logger.Error(ctx, "failed to delete character", err)
		dto.InternalError(c, "failed to delete character")
		return
	}
	h.invalidate(c, seriesID)
	dto.NoContent(c)
}
