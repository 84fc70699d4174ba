// Package handler 提供 HTTP 请求处理器
package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"scenra/internal/domain/entity"
	"scenra/internal/domain/repository"
	"scenra/internal/interfaces/http/dto"
	"scenra/internal/interfaces/http/middleware"
	"scenra/pkg/logger"
	"scenra/pkg/utils"
)

// APIKeyHandler API Key 处理器
type APIKeyHandler struct {
	keyRepo repository.APIKeyRepository
}

// NewAPIKeyHandler 创建 API Key 处理器
func NewAPIKeyHandler(keyRepo repository.APIKeyRepository) *APIKeyHandler {
	return &APIKeyHandler{keyRepo: keyRepo}
}

// ListKeys 获取 API Key 列表
// @Summary 获取当前用户的 API Key 列表
// @Tags APIKeys
// @Produce json
// @Success 200 {object} dto.Response[[]dto.APIKeyDTO]
// @Failure 500 {object} dto.ErrorResponse
// @Router /v1/apikeys [get]
func (h *APIKeyHandler) ListKeys(c *gin.Context) {
	ctx := c.Request.Context()
	userID := middleware.GetUserIDFromGin(c)

	keys, err := h.keyRepo.ListByUser(ctx, userID)
	if err != nil {
		logger.Error(ctx, "failed to list api keys", err)
		dto.InternalError(c, "failed to list api keys")
		return
	}
	dto.Success(c, dto.ToAPIKeyDTOs(keys))
}

// CreateKey 创建 API Key
// @Summary 创建 API Key
// @Description Key 明文只在创建响应中返回一次
// @Tags APIKeys
// @Accept json
// @Produce json
// @Param body body dto.CreateAPIKeyRequest true "Key 名称"
// @Success 201 {object} dto.Response[dto.CreateAPIKeyResponse]
// @Failure 400 {object} dto.ErrorResponse
// @Router /v1/apikeys [post]
func (h *APIKeyHandler) CreateKey(c *gin.Context) {
	ctx := c.Request.Context()
	userID := middleware.GetUserIDFromGin(c)

	var req dto.CreateAPIKeyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	plaintext, err := utils.GenerateAPIKey()
	if err != nil {
		logger.Error(ctx, "failed to generate api key", err)
		dto.InternalError(c, "failed to create api key")
		return
	}

	key := &entity.APIKey{
		ID:        uuid.NewString(),
		UserID:    userID,
		Name:      req.Name,
		KeyHash:   utils.HashAPIKey(plaintext),
		KeyHint:   utils.APIKeyHint(plaintext),
		CreatedAt: time.Now().UTC(),
	}

	if err := h.keyRepo.Create(ctx, key); err != nil {
		logger.Error(ctx, "failed to create api key", err)
		dto.InternalError(c, "failed to create api key")
		return
	}

	dto.Created(c, dto.CreateAPIKeyResponse{
		APIKeyDTO: *dto.ToAPIKeyDTO(key),
		Key:       plaintext,
	})
}

// RevokeKey 吊销 API Key
// @Summary 吊销 API Key
// @Tags APIKeys
// @Param kid path string true "Key ID"
// @Success 204
// @Failure 404 {object} dto.ErrorResponse
// @Router /v1/apikeys/{kid} [delete]
func (h *APIKeyHandler) RevokeKey(c *gin.Context) {
	ctx := c.Request.Context()
	userID := middleware.GetUserIDFromGin(c)
	keyID := dto.BindAPIKeyID(c)

	keys, err := h.keyRepo.ListByUser(ctx, userID)
	if err != nil {
		logger.Error(ctx, "failed to list api keys", err)
		dto.InternalError(c, "failed to revoke api key")
		return
	}

	var target *entity.APIKey
	for _, k := range keys {
		if k.ID == keyID {
			target = k
			break
		}
	}
	if target == nil {
		dto.NotFound(c, "api key not found")
		return
	}

	if err := h.keyRepo.Revoke(ctx, target.ID, time.Now().UTC()); err != nil {
		logger.Error(ctx, "failed to revoke api key", err)
		dto.InternalError(c, "failed to revoke api key")
		return
	}
	dto.NoContent(c)
}
