package postgres

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"scenra/internal/domain/entity"
	"scenra/internal/domain/repository"
)

// SeriesRepository 系列仓储实现
type SeriesRepository struct {
	client *Client
}

// NewSeriesRepository 创建系列仓储
func NewSeriesRepository(client *Client) *SeriesRepository {
	return &SeriesRepository{client: client}
}

// Create 创建系列
func (r *SeriesRepository) Create(ctx context.Context, series *entity.Series) error {
	ctx, span := tracer.Start(ctx, "postgres.SeriesRepository.Create")
	defer span.End()

	if err := r.client.getDB(ctx).Create(series).Error; err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to create series: %w", err)
	}
	return nil
}

// GetByID 根据 ID 获取系列，未找到返回 nil
func (r *SeriesRepository) GetByID(ctx context.Context, id string) (*entity.Series, error) {
	ctx, span := tracer.Start(ctx, "postgres.SeriesRepository.GetByID")
	defer span.End()

	var series entity.Series
	err := r.client.getDB(ctx).First(&series, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		span.RecordError(err)
		return nil, fmt.Errorf("failed to get series: %w", err)
	}
	return &series, nil
}

// Update 更新系列
func (r *SeriesRepository) Update(ctx context.Context, series *entity.Series) error {
	ctx, span := tracer.Start(ctx, "postgres.SeriesRepository.Update")
	defer span.End()

	if err := r.client.getDB(ctx).Save(series).Error; err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to update series: %w", err)
	}
	return nil
}

// Delete 删除系列
func (r *SeriesRepository) Delete(ctx context.Context, id string) error {
	ctx, span := tracer.Start(ctx, "postgres.SeriesRepository.Delete")
	defer span.End()

	if err := r.client.getDB(ctx).Delete(&entity.Series{}, "id = ?", id).Error; err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to delete series: %w", err)
	}
	return nil
}

// ListByUser 获取用户的系列列表
func (r *SeriesRepository) ListByUser(ctx context.Context, userID string, pagination repository.Pagination) (*repository.PagedResult[*entity.Series], error) {
	ctx, span := tracer.Start(ctx, "postgres.SeriesRepository.ListByUser")
	defer span.End()

	db := r.client.getDB(ctx).Model(&entity.Series{}).Where("user_id = ?", userID)

	var total int64
	if err := db.Count(&total).Error; err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to count series: %w", err)
	}

	var items []*entity.Series
	err := db.Order("updated_at DESC").
		Limit(pagination.Limit()).
		Offset(pagination.Offset()).
		Find(&items).Error
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to list series: %w", err)
	}
	return repository.NewPagedResult(items, total, pagination), nil
}

// UpdateSoraSettings 更新系列级 Sora 风格设定
func (r *SeriesRepository) UpdateSoraSettings(ctx context.Context, id string, settings *entity.SoraStyleSettings) error {
	ctx, span := tracer.Start(ctx, "postgres.SeriesRepository.UpdateSoraSettings")
	defer span.End()

	err := r.client.getDB(ctx).Model(&entity.Series{}).
		Where("id = ?", id).
		Update("sora_settings", settings).Error
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to update sora settings: %w", err)
	}
	return nil
}

// ListSettings 获取系列的场景设定
func (r *SeriesRepository) ListSettings(ctx context.Context, seriesID string) ([]*entity.Setting, error) {
	ctx, span := tracer.Start(ctx, "postgres.SeriesRepository.ListSettings")
	defer span.End()

	var items []*entity.Setting
	err := r.client.getDB(ctx).
		Where("series_id = ?", seriesID).
		Order("created_at ASC").
		Find(&items).Error
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to list settings: %w", err)
	}
	return items, nil
}

// ListSettingsByIDs 按 ID 集合获取场景设定，未命中的 ID 静默跳过
func (r *SeriesRepository) ListSettingsByIDs(ctx context.Context, seriesID string, ids []string) ([]*entity.Setting, error) {
	ctx, span := tracer.Start(ctx, "postgres.SeriesRepository.ListSettingsByIDs")
	defer span.End()

	if len(ids) == 0 {
		return nil, nil
	}

	var rows []*entity.Setting
	err := r.client.getDB(ctx).
		Where("series_id = ? AND id IN ?", seriesID, ids).
		Find(&rows).Error
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to list settings by ids: %w", err)
	}

	byID := make(map[string]*entity.Setting, len(rows))
	for _, s := range rows {
		byID[s.ID] = s
	}
	items := make([]*entity.Setting, 0, len(rows))
	for _, id := range ids {
		if s, ok := byID[id]; ok {
			items = append(items, s)
		}
	}
	return items, nil
}

// CreateSetting 创建场景设定
func (r *SeriesRepository) CreateSetting(ctx context.Context, setting *entity.Setting) error {
	ctx, span := tracer.Start(ctx, "postgres.SeriesRepository.CreateSetting")
	defer span.End()

	if err := r.client.getDB(ctx).Create(setting).Error; err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to create setting: %w", err)
	}
	return nil
}

// ListVisualAssets 获取系列的视觉资产
func (r *SeriesRepository) ListVisualAssets(ctx context.Context, seriesID string) ([]*entity.VisualAsset, error) {
	ctx, span := tracer.Start(ctx, "postgres.SeriesRepository.ListVisualAssets")
	defer span.End()

	var items []*entity.VisualAsset
	err := r.client.getDB(ctx).
		Where("series_id = ?", seriesID).
		Order("created_at ASC").
		Find(&items).Error
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to list visual assets: %w", err)
	}
	return items, nil
}

// CreateVisualAsset 创建视觉资产
func (r *SeriesRepository) CreateVisualAsset(ctx context.Context, asset *entity.VisualAsset) error {
	ctx, span := tracer.Start(ctx, "postgres.SeriesRepository.CreateVisualAsset")
	defer span.End()

	if err := r.client.getDB(ctx).Create(asset).Error; err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to create visual asset: %w", err)
	}
	return nil
}

// ListRelationships 获取系列的角色关系
func (r *SeriesRepository) ListRelationships(ctx context.Context, seriesID string) ([]*entity.CharacterRelationship, error) {
	ctx, span := tracer.Start(ctx, "postgres.SeriesRepository.ListRelationships")
	defer span.End()

	var items []*entity.CharacterRelationship
	err := r.client.getDB(ctx).
		Where("series_id = ?", seriesID).
		Order("created_at ASC").
		Find(&items).Error
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to list relationships: %w", err)
	}
	return items, nil
}

// CreateRelationship 创建角色关系
func (r *SeriesRepository) CreateRelationship(ctx context.Context, rel *entity.CharacterRelationship) error {
	ctx, span := tracer.Start(ctx, "postgres.SeriesRepository.CreateRelationship")
	defer span.End()

	if err := r.client.getDB(ctx).Create(rel).Error; err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to create relationship: %w", err)
	}
	return nil
}
