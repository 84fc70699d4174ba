// Package quota 实现按套餐的月度生成配额
package quota

import (
	"context"
	"time"

	"scenra/internal/config"
	"scenra/internal/domain/entity"
	"scenra/internal/domain/repository"
	apperrors "scenra/pkg/errors"
	"scenra/pkg/metrics"
)

// Status 配额检查结果。
// NearLimit 与 AtLimit 互斥：达到上限时只报 AtLimit。
type Status struct {
	Plan      entity.Plan `json:"plan"`
	Limit     int64       `json:"limit"`
	Used      int64       `json:"used"`
	Remaining int64       `json:"remaining"`
	NearLimit bool        `json:"near_limit"`
	AtLimit   bool        `json:"at_limit"`
	// ResetsAt 下一个自然月起点（UTC）
	ResetsAt time.Time `json:"resets_at"`
}

// Service 生成配额服务
type Service struct {
	videoRepo repository.VideoRepository
	cfg       config.QuotaConfig
	now       func() time.Time
}

// NewService 创建配额服务
func NewService(videoRepo repository.VideoRepository, cfg config.QuotaConfig) *Service {
	return &Service{
		videoRepo: videoRepo,
		cfg:       cfg,
		now:       time.Now,
	}
}

// Check 返回用户当前的配额状态。
// 配额关闭或套餐无上限（0）时恒为无限制状态。
func (s *Service) Check(ctx context.Context, userID string, plan entity.Plan) (*Status, error) {
	st := &Status{Plan: plan, ResetsAt: nextMonthStart(s.now())}

	limit := int64(0)
	if s.cfg.Enabled {
		limit = s.cfg.PlanLimits[string(plan)]
	}
	if limit <= 0 {
		st.Remaining = -1
		metrics.QuotaChecksTotal.WithLabelValues("ok").Inc()
		return st, nil
	}

	used, err := s.videoRepo.CountByUserSince(ctx, userID, monthStart(s.now()))
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeDatabaseError, "failed to count monthly generations")
	}

	st.Limit = limit
	st.Used = used
	st.Remaining = limit - used
	if st.Remaining < 0 {
		st.Remaining = 0
	}

	switch {
	case used >= limit:
		st.AtLimit = true
		metrics.QuotaChecksTotal.WithLabelValues("at_limit").Inc()
	case float64(used) >= float64(limit)*s.nearRatio():
		st.NearLimit = true
		metrics.QuotaChecksTotal.WithLabelValues("near_limit").Inc()
	default:
		metrics.QuotaChecksTotal.WithLabelValues("ok").Inc()
	}
	return st, nil
}

// Enforce 达到上限时返回配额错误，否则返回当前状态
func (s *Service) Enforce(ctx context.Context, userID string, plan entity.Plan) (*Status, error) {
	st, err := s.Check(ctx, userID, plan)
	if err != nil {
		return nil, err
	}
	if st.AtLimit {
		return nil, apperrors.ErrQuotaExceeded
	}
	return st, nil
}

func (s *Service) nearRatio() float64 {
	if s.cfg.NearLimitRatio > 0 {
		return s.cfg.NearLimitRatio
	}
	return 0.8
}

func monthStart(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

func nextMonthStart(t time.Time) time.Time {
	return monthStart(t).AddDate(0, 1, 0)
}
