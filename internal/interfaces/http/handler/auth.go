// Package handler 提供 HTTP 请求处理器
package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"scenra/internal/config"
	"scenra/internal/domain/entity"
	"scenra/internal/domain/repository"
	"scenra/internal/interfaces/http/dto"
	"scenra/pkg/logger"
	"scenra/pkg/utils"
)

// AuthHandler 认证处理器
type AuthHandler struct {
	userRepo   repository.UserRepository
	jwtManager *utils.JWTManager
	jwtCfg     config.JWTConfig
}

// NewAuthHandler 创建认证处理器
func NewAuthHandler(userRepo repository.UserRepository, jwtCfg config.JWTConfig) *AuthHandler {
	return &AuthHandler{
		userRepo:   userRepo,
		jwtManager: utils.NewJWTManager(jwtCfg.Secret, jwtCfg.Issuer),
		jwtCfg:     jwtCfg,
	}
}

// Register 注册
// @Summary 用户注册
// @Description 创建账号并返回令牌
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body dto.RegisterRequest true "注册信息"
// @Success 201 {object} dto.Response[dto.AuthResponse]
// @Failure 400 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse
// @Router /v1/auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	existing, err := h.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		logger.Error(ctx, "failed to check existing user", err)
		dto.InternalError(c, "failed to register")
		return
	}
	if existing != nil {
		dto.Conflict(c, "email already registered")
		return
	}

	now := time.Now().UTC()
	user := &entity.User{
		ID:        uuid.NewString(),
		Email:     req.Email,
		Name:      req.Name,
		Plan:      entity.PlanFree,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := user.SetPassword(req.Password); err != nil {
		logger.Error(ctx, "failed to hash password", err)
		dto.InternalError(c, "failed to register")
		return
	}

	if err := h.userRepo.Create(ctx, user); err != nil {
		logger.Error(ctx, "failed to create user", err)
		dto.InternalError(c, "failed to register")
		return
	}

	resp, err := h.issueTokens(user)
	if err != nil {
		logger.Error(ctx, "failed to issue tokens", err)
		dto.InternalError(c, "failed to register")
		return
	}
	dto.Created(c, resp)
}

// Login 登录
// @Summary 用户登录
// @Description 校验邮箱密码并返回令牌
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body dto.LoginRequest true "登录信息"
// @Success 200 {object} dto.Response[dto.AuthResponse]
// @Failure 401 {object} dto.ErrorResponse
// @Router /v1/auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	user, err := h.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		logger.Error(ctx, "failed to load user", err)
		dto.InternalError(c, "failed to login")
		return
	}
	if user == nil || !user.CheckPassword(req.Password) {
		dto.Unauthorized(c, "invalid email or password")
		return
	}

	resp, err := h.issueTokens(user)
	if err != nil {
		logger.Error(ctx, "failed to issue tokens", err)
		dto.InternalError(c, "failed to login")
		return
	}
	dto.Success(c, resp)
}

// Refresh 刷新令牌
// @Summary 刷新令牌
// @Description 使用 RefreshToken 换取新的令牌对
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body dto.RefreshRequest true "刷新令牌"
// @Success 200 {object} dto.Response[dto.AuthResponse]
// @Failure 401 {object} dto.ErrorResponse
// @Router /v1/auth/refresh [post]
func (h *AuthHandler) Refresh(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	claims, err := h.jwtManager.ParseToken(req.RefreshToken)
	if err != nil {
		dto.Unauthorized(c, "invalid refresh token")
		return
	}
	if claims.Type != "refresh" {
		dto.Unauthorized(c, "invalid token type")
		return
	}

	// 重新读取用户，套餐变更后新令牌携带最新套餐
	user, err := h.userRepo.GetByID(ctx, claims.UserID)
	if err != nil || user == nil {
		dto.Unauthorized(c, "invalid refresh token")
		return
	}

	resp, err := h.issueTokens(user)
	if err != nil {
		logger.Error(ctx, "failed to issue tokens", err)
		dto.InternalError(c, "failed to refresh token")
		return
	}
	dto.Success(c, resp)
}

// issueTokens 签发令牌对并组装认证响应
func (h *AuthHandler) issueTokens(user *entity.User) (*dto.AuthResponse, error) {
	pair, err := h.jwtManager.GenerateTokenPair(
		user.ID, string(user.Plan),
		h.jwtCfg.Expiration, h.jwtCfg.RefreshExpiration,
	)
	if err != nil {
		return nil, err
	}
	return &dto.AuthResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		ExpiresIn:    int(h.jwtCfg.Expiration.Seconds()),
		User:         dto.ToAuthUserDTO(user),
	}, nil
}
