// Package generation 编排一次完整的视频提示词生成请求
package generation

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"scenra/internal/application/consistency"
	"scenra/internal/application/quota"
	"scenra/internal/application/roundtable"
	"scenra/internal/domain/entity"
	"scenra/internal/domain/repository"
	redisc "scenra/internal/infrastructure/persistence/redis"
	apperrors "scenra/pkg/errors"
	"scenra/pkg/logger"
)

// seriesContextTTL 系列上下文缓存时长
const seriesContextTTL = 5 * time.Minute

// Input 一次生成请求的输入
type Input struct {
	UserID string
	Plan   entity.Plan

	Brief    string
	Platform string

	SeriesID    string
	EpisodeID   string
	SceneNumber int

	// CharacterIDs 选中的角色，为空时使用系列全部角色
	CharacterIDs []string
	// SettingIDs 选中的场景设定，为空时使用系列全部设定
	SettingIDs []string

	SoraOverride *entity.SoraStyleSettings
}

// Output 一次生成请求的产出
type Output struct {
	VideoID    string                       `json:"video_id"`
	Result     *roundtable.GenerationResult `json:"result"`
	Validation *consistency.Report          `json:"validation,omitempty"`
	Quota      *quota.Status                `json:"quota,omitempty"`
}

// Service 生成服务
type Service struct {
	seriesRepo    repository.SeriesRepository
	characterRepo repository.CharacterRepository
	episodeRepo   repository.EpisodeRepository
	videoRepo     repository.VideoRepository

	orchestrator *roundtable.Orchestrator
	streamer     *roundtable.Streamer
	validator    *consistency.Validator
	quotaSvc     *quota.Service
	cache        *redisc.Cache
}

// NewService 创建生成服务
func NewService(
	seriesRepo repository.SeriesRepository,
	characterRepo repository.CharacterRepository,
	episodeRepo repository.EpisodeRepository,
	videoRepo repository.VideoRepository,
	orchestrator *roundtable.Orchestrator,
	validator *consistency.Validator,
	quotaSvc *quota.Service,
	cache *redisc.Cache,
) *Service {
	return &Service{
		seriesRepo:    seriesRepo,
		characterRepo: characterRepo,
		episodeRepo:   episodeRepo,
		videoRepo:     videoRepo,
		orchestrator:  orchestrator,
		streamer:      roundtable.NewStreamer(orchestrator),
		validator:     validator,
		quotaSvc:      quotaSvc,
		cache:         cache,
	}
}

// Generate 同步执行一次完整生成：配额、聚合、圆桌、校验、落库
func (s *Service) Generate(ctx context.Context, in *Input) (*Output, error) {
	qs, req, err := s.prepare(ctx, in)
	if err != nil {
		return nil, err
	}

	result, err := s.orchestrator.Run(ctx, req)
	if err != nil {
		return nil, err
	}

	out := s.finalize(ctx, in, req, result)
	out.Quota = qs
	return out, nil
}

// StreamEvent 流式生成事件。
// result 变体携带完整 Output（含校验与落库后的 video_id）。
type StreamEvent struct {
	Type    roundtable.EventType  `json:"type"`
	Turn    *roundtable.TurnEvent `json:"turn,omitempty"`
	Output  *Output               `json:"output,omitempty"`
	Code    string                `json:"code,omitempty"`
	Message string                `json:"message,omitempty"`
}

// GenerateStream 流式执行一次完整生成。
// 配额与输入校验失败作为同步错误返回；
// 运行开始后的失败以终止事件形式出现在通道内。
func (s *Service) GenerateStream(ctx context.Context, in *Input) (<-chan StreamEvent, error) {
	qs, req, err := s.prepare(ctx, in)
	if err != nil {
		return nil, err
	}

	out := make(chan StreamEvent, 16)
	go func() {
		defer close(out)
		for ev := range s.streamer.Run(ctx, req) {
			switch ev.Type {
			case roundtable.EventTurn:
				out <- StreamEvent{Type: ev.Type, Turn: ev.Turn}
			case roundtable.EventResult:
				final := s.finalize(ctx, in, req, ev.Result)
				final.Quota = qs
				out <- StreamEvent{Type: ev.Type, Output: final}
			case roundtable.EventError:
				out <- StreamEvent{Type: ev.Type, Code: ev.Code, Message: ev.Message}
			}
		}
	}()
	return out, nil
}

// Validate 独立执行角色一致性校验
func (s *Service) Validate(ctx context.Context, prompt string, seriesID string, characterIDs []string) (*consistency.Report, error) {
	characters, err := s.loadCharacters(ctx, seriesID, characterIDs)
	if err != nil {
		return nil, err
	}
	return s.validator.Validate(prompt, characters), nil
}

// prepare 执行配额检查并聚合生成请求
func (s *Service) prepare(ctx context.Context, in *Input) (*quota.Status, *roundtable.GenerationRequest, error) {
	qs, err := s.quotaSvc.Enforce(ctx, in.UserID, in.Plan)
	if err != nil {
		return nil, nil, err
	}

	raw, err := s.buildRawInputs(ctx, in)
	if err != nil {
		return nil, nil, err
	}
	req, err := roundtable.Aggregate(*raw)
	if err != nil {
		return nil, nil, err
	}
	return qs, req, nil
}

// seriesBundle 系列的完整生成上下文，整体缓存
type seriesBundle struct {
	Series        *entity.Series                  `json:"series"`
	Characters    []*entity.Character             `json:"characters"`
	Settings      []*entity.Setting               `json:"settings"`
	VisualAssets  []*entity.VisualAsset           `json:"visual_assets"`
	Relationships []*entity.CharacterRelationship `json:"relationships"`
}

// buildRawInputs 查询并组装聚合输入。
// 可选上下文（系列、剧集、角色）缺失时按缺席处理，不中止请求。
func (s *Service) buildRawInputs(ctx context.Context, in *Input) (*roundtable.RawInputs, error) {
	raw := &roundtable.RawInputs{
		UserID:       in.UserID,
		Brief:        in.Brief,
		Platform:     in.Platform,
		SceneNumber:  in.SceneNumber,
		SoraOverride: in.SoraOverride,
	}

	if in.SeriesID != "" {
		bundle, err := s.loadSeriesBundle(ctx, in.SeriesID)
		if err != nil {
			return nil, err
		}
		if bundle != nil {
			raw.Series = bundle.Series
			raw.Characters = filterByIDs(bundle.Characters, in.CharacterIDs, func(c *entity.Character) string { return c.ID })
			raw.Settings = filterByIDs(bundle.Settings, in.SettingIDs, func(st *entity.Setting) string { return st.ID })
			raw.VisualAssets = bundle.VisualAssets
			raw.Relationships = bundle.Relationships
		}
	}

	if in.EpisodeID != "" {
		episode, err := s.episodeRepo.GetByID(ctx, in.EpisodeID)
		if err != nil {
			logger.Warn(ctx, "failed to load episode, proceeding without screenplay context",
				"episode_id", in.EpisodeID, "error", err.Error())
		} else {
			raw.Episode = episode
		}
	}
	return raw, nil
}

// loadSeriesBundle 读穿缓存加载系列上下文，系列不存在返回 nil
func (s *Service) loadSeriesBundle(ctx context.Context, seriesID string) (*seriesBundle, error) {
	load := func() (interface{}, error) {
		series, err := s.seriesRepo.GetByID(ctx, seriesID)
		if err != nil {
			return nil, err
		}
		if series == nil {
			return &seriesBundle{}, nil
		}

		bundle := &seriesBundle{Series: series}
		if bundle.Characters, err = s.characterRepo.ListBySeries(ctx, seriesID); err != nil {
			return nil, err
		}
		if bundle.Settings, err = s.seriesRepo.ListSettings(ctx, seriesID); err != nil {
			return nil, err
		}
		if bundle.VisualAssets, err = s.seriesRepo.ListVisualAssets(ctx, seriesID); err != nil {
			return nil, err
		}
		if bundle.Relationships, err = s.seriesRepo.ListRelationships(ctx, seriesID); err != nil {
			return nil, err
		}
		return bundle, nil
	}

	var bytes []byte
	var err error
	if s.cache != nil {
		bytes, err = s.cache.GetOrLoadSafe(ctx, redisc.SeriesContextKey(seriesID), seriesContextTTL, load)
		if err != nil {
			// 缓存层故障时直接回源
			logger.Warn(ctx, "series context cache unavailable, loading directly",
				"series_id", seriesID, "error", err.Error())
			bytes = nil
		}
	}

	if bytes == nil {
		data, err := load()
		if err != nil {
			return nil, err
		}
		bundle := data.(*seriesBundle)
		if bundle.Series == nil {
			return nil, nil
		}
		return bundle, nil
	}

	var bundle seriesBundle
	if err := json.Unmarshal(bytes, &bundle); err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeCacheError, "corrupt series context cache")
	}
	if bundle.Series == nil {
		return nil, nil
	}
	return &bundle, nil
}

// loadCharacters 加载校验用的角色集合
func (s *Service) loadCharacters(ctx context.Context, seriesID string, characterIDs []string) ([]*entity.Character, error) {
	if seriesID == "" {
		return nil, nil
	}
	if len(characterIDs) > 0 {
		return s.characterRepo.ListByIDs(ctx, seriesID, characterIDs)
	}
	return s.characterRepo.ListBySeries(ctx, seriesID)
}

// finalize 对结果做一致性校验并写入视频记录。
// 落库失败不吞掉结果，只记录告警。
func (s *Service) finalize(ctx context.Context, in *Input, req *roundtable.GenerationRequest, result *roundtable.GenerationResult) *Output {
	out := &Output{Result: result}

	if len(req.Characters) > 0 {
		out.Validation = s.validator.Validate(result.OptimizedPrompt, req.Characters)
	}

	video := &entity.Video{
		ID:              uuid.NewString(),
		UserID:          in.UserID,
		SeriesID:        req.SeriesID,
		EpisodeID:       req.EpisodeID,
		Brief:           req.Brief,
		Platform:        req.Platform,
		OptimizedPrompt: result.OptimizedPrompt,
		CharacterCount:  result.CharacterCount,
		Hashtags:        pq.StringArray(result.Hashtags),
		CreatedAt:       time.Now().UTC(),
	}
	video.Breakdown, _ = json.Marshal(result.DetailedBreakdown)
	video.Shots, _ = json.Marshal(result.SuggestedShots)
	video.Discussion, _ = json.Marshal(result.Discussion)
	if out.Validation != nil {
		score := out.Validation.QualityScore
		video.QualityScore = &score
	}

	if err := s.videoRepo.Create(ctx, video); err != nil {
		logger.Error(ctx, "failed to persist generated video", err, "user_id", in.UserID)
	} else {
		out.VideoID = video.ID
	}
	return out
}

// filterByIDs 按选中 ID 过滤并保持选中顺序；未选中时返回全集
func filterByIDs[T any](items []T, ids []string, idOf func(T) string) []T {
	if len(ids) == 0 {
		return items
	}
	byID := make(map[string]T, len(items))
	for _, it := range items {
		byID[idOf(it)] = it
	}
	selected := make([]T, 0, len(ids))
	for _, id := range ids {
		if it, ok := byID[id]; ok {
			selected = append(selected, it)
		}
	}
	return selected
}
