package quota

import (
	"context"
	"errors"
	"testing"
	"time"

	"scenra/internal/config"
	"scenra/internal/domain/entity"
	"scenra/internal/domain/repository"
	apperrors "scenra/pkg/errors"
)

// countingVideoRepo 只实现配额所需计数的视频仓储桩
type countingVideoRepo struct {
	repository.VideoRepository

	count     int64
	countErr  error
	lastSince time.Time
}

func (r *countingVideoRepo) CountByUserSince(ctx context.Context, userID string, since time.Time) (int64, error) {
	r.lastSince = since
	return r.count, r.countErr
}

func newTestService(repo *countingVideoRepo) *Service {
	svc := NewService(repo, config.QuotaConfig{
		Enabled:        true,
		PlanLimits:     map[string]int64{"free": 20, "pro": 500, "studio": 0},
		NearLimitRatio: 0.8,
	})
	svc.now = func() time.Time {
		return time.Date(2026, time.March, 15, 10, 0, 0, 0, time.UTC)
	}
	return svc
}

// TestCheckWellUnderLimit 验证远离上限时的正常状态。
// 场景：free 套餐本月已用 5 次，near 与 at 均为 false，剩余次数正确。
func TestCheckWellUnderLimit(t *testing.T) {
	repo := &countingVideoRepo{count: 5}
	svc := newTestService(repo)

	st, err := svc.Check(context.Background(), "u1", entity.PlanFree)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if st.NearLimit || st.AtLimit {
		t.Fatalf("expected neither flag, got near=%v at=%v", st.NearLimit, st.AtLimit)
	}
	if st.Limit != 20 || st.Used != 5 || st.Remaining != 15 {
		t.Fatalf("unexpected counts: %+v", st)
	}
}

// TestCheckNearLimitBoundary 验证恰好达到 80% 时进入 near 状态。
// 场景：free 套餐已用 16/20，near 为 true 且 at 为 false。
func TestCheckNearLimitBoundary(t *testing.T) {
	repo := &countingVideoRepo{count: 16}
	svc := newTestService(repo)

	st, err := svc.Check(context.Background(), "u1", entity.PlanFree)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !st.NearLimit || st.AtLimit {
		t.Fatalf("expected near only, got near=%v at=%v", st.NearLimit, st.AtLimit)
	}
}

// TestCheckAtLimitExcludesNear 验证达到上限时只报 at，不再报 near。
// 场景：free 套餐已用 20/20，at 为 true、near 为 false，剩余为 0。
func TestCheckAtLimitExcludesNear(t *testing.T) {
	repo := &countingVideoRepo{count: 20}
	svc := newTestService(repo)

	st, err := svc.Check(context.Background(), "u1", entity.PlanFree)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !st.AtLimit || st.NearLimit {
		t.Fatalf("flags must be mutually exclusive, got near=%v at=%v", st.NearLimit, st.AtLimit)
	}
	if st.Remaining != 0 {
		t.Fatalf("expected zero remaining, got %d", st.Remaining)
	}
}

// TestCheckOverLimitClampsRemaining 验证超额时剩余次数不为负。
// 场景：历史数据导致已用 25/20，剩余应钳制为 0。
func TestCheckOverLimitClampsRemaining(t *testing.T) {
	repo := &countingVideoRepo{count: 25}
	svc := newTestService(repo)

	st, err := svc.Check(context.Background(), "u1", entity.PlanFree)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !st.AtLimit || st.Remaining != 0 {
		t.Fatalf("expected clamped at-limit status, got %+v", st)
	}
}

// TestCheckUnlimitedPlan 验证上限为 0 的套餐不受限制。
// 场景：studio 套餐上限配置为 0，状态恒为无限制且不查询计数。
func TestCheckUnlimitedPlan(t *testing.T) {
	repo := &countingVideoRepo{countErr: errors.New("should not be called")}
	svc := newTestService(repo)

	st, err := svc.Check(context.Background(), "u1", entity.PlanStudio)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if st.AtLimit || st.NearLimit {
		t.Fatalf("unlimited plan must never flag, got %+v", st)
	}
	if st.Remaining != -1 {
		t.Fatalf("expected remaining -1 for unlimited, got %d", st.Remaining)
	}
}

// TestCheckDisabledQuota 验证配额总开关关闭时所有套餐不受限。
// 场景：quota.enabled 为 false，free 套餐也返回无限制状态。
func TestCheckDisabledQuota(t *testing.T) {
	repo := &countingVideoRepo{count: 999}
	svc := NewService(repo, config.QuotaConfig{Enabled: false, PlanLimits: map[string]int64{"free": 20}})

	st, err := svc.Check(context.Background(), "u1", entity.PlanFree)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if st.AtLimit || st.NearLimit || st.Remaining != -1 {
		t.Fatalf("expected unlimited status, got %+v", st)
	}
}

// TestCheckCountsFromMonthStart 验证计数窗口为当前自然月（UTC）。
// 场景：当前时间为 3 月 15 日，计数起点应为 3 月 1 日零点，重置时间为 4 月 1 日。
func TestCheckCountsFromMonthStart(t *testing.T) {
	repo := &countingVideoRepo{count: 1}
	svc := newTestService(repo)

	st, err := svc.Check(context.Background(), "u1", entity.PlanFree)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	wantSince := time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC)
	if !repo.lastSince.Equal(wantSince) {
		t.Fatalf("expected count since %v, got %v", wantSince, repo.lastSince)
	}
	wantReset := time.Date(2026, time.April, 1, 0, 0, 0, 0, time.UTC)
	if !st.ResetsAt.Equal(wantReset) {
		t.Fatalf("expected reset at %v, got %v", wantReset, st.ResetsAt)
	}
}

// TestEnforceBlocksAtLimit 验证达到上限时 Enforce 返回配额错误。
// 场景：free 套餐已用完，Enforce 应返回配额超限错误码。
func TestEnforceBlocksAtLimit(t *testing.T) {
	repo := &countingVideoRepo{count: 20}
	svc := newTestService(repo)

	_, err := svc.Enforce(context.Background(), "u1", entity.PlanFree)
	if err == nil {
		t.Fatalf("expected quota error")
	}
	if apperrors.AsAppError(err).Code != apperrors.CodeQuotaExceeded {
		t.Fatalf("expected quota exceeded code, got %v", err)
	}
}

// TestEnforcePassesNearLimit 验证接近上限但未达上限时 Enforce 放行。
// 场景：已用 19/20，Enforce 返回状态且 near 为 true。
func TestEnforcePassesNearLimit(t *testing.T) {
	repo := &countingVideoRepo{count: 19}
	svc := newTestService(repo)

	st, err := svc.Enforce(context.Background(), "u1", entity.PlanFree)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !st.NearLimit {
		t.Fatalf("expected near limit status, got %+v", st)
	}
}

// TestCheckCountFailure 验证计数失败映射为数据库错误。
// 场景：仓储计数返回错误，Check 应返回数据库错误码。
func TestCheckCountFailure(t *testing.T) {
	repo := &countingVideoRepo{countErr: errors.New("connection reset")}
	svc := newTestService(repo)

	_, err := svc.Check(context.Background(), "u1", entity.PlanFree)
	if err == nil {
		t.Fatalf("expected error")
	}
	if apperrors.AsAppError(err).Code != apperrors.CodeDatabaseError {
		t.Fatalf("expected database error code, got %v", err)
	}
}
