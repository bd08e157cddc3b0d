package subtitles

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/justchokingaround/marquee/internal/metrics"
	"github.com/justchokingaround/marquee/pkg/types"
)

// ExternalIDResolver maps a catalog title to its IMDB id ("" when unknown)
type ExternalIDResolver interface {
	ResolveExternalID(ctx context.Context, id int, kind types.MediaType) string
}

// Source searches and downloads subtitles
type Source interface {
	Search(ctx context.Context, q Query) []Candidate
	Download(ctx context.Context, link string) (string, error)
}

// Params selects the title and track to fetch subtitles for. Season and
// Episode are only meaningful for series and ignored when zero.
type Params struct {
	ID       int
	Kind     types.MediaType
	Season   int
	Episode  int
	Language string
	Sort     SortStrategy
}

// Service resolves a catalog title to a single decoded subtitle file
type Service struct {
	resolver ExternalIDResolver
	source   Source
	language string
	sort     SortStrategy
	choices  ChoiceStore
	logger   *slog.Logger
}

// NewService creates a subtitle service. language and sort are used when
// Params leaves them empty.
func NewService(resolver ExternalIDResolver, source Source, language string, sort SortStrategy, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	if language == "" {
		language = "eng"
	}
	if sort == "" {
		sort = SortSmart
	}
	return &Service{
		resolver: resolver,
		source:   source,
		language: language,
		sort:     sort,
		logger:   logger,
	}
}

// WithChoices makes Resolve remember and reuse picks through store
func (s *Service) WithChoices(store ChoiceStore) *Service {
	s.choices = store
	return s
}

// Candidates resolves the title and returns every candidate in the order
// GetSubtitles would index them.
func (s *Service) Candidates(ctx context.Context, params Params) ([]Candidate, error) {
	params = s.withDefaults(params)

	imdbID := s.resolver.ResolveExternalID(ctx, params.ID, params.Kind)
	if imdbID == "" {
		return nil, ErrNoExternalID
	}

	q := Query{IMDBID: imdbID, Language: params.Language}
	if params.Kind == types.MediaTypeTV {
		q.Season = params.Season
		q.Episode = params.Episode
	}

	found := s.source.Search(ctx, q)
	if len(found) == 0 {
		return nil, ErrNoSubtitles
	}
	return Sort(found, params.Sort), nil
}

// GetSubtitles picks the candidate at index (clamped to the result set) and
// returns its decoded text. It never returns an error or panics; failures are
// reported through SubtitleResult.
func (s *Service) GetSubtitles(ctx context.Context, params Params, index int) types.SubtitleResult {
	return s.get(ctx, params, func([]Candidate) int { return index }, "explicit")
}

// Resolve behaves like GetSubtitles but remembers the pick. With a nil index
// the previously chosen release is located in the current ranking; without
// one the top candidate is used.
func (s *Service) Resolve(ctx context.Context, params Params, index *int) types.SubtitleResult {
	params = s.withDefaults(params)

	var res types.SubtitleResult
	switch {
	case index != nil:
		res = s.GetSubtitles(ctx, params, *index)
	case s.choices != nil:
		res = s.get(ctx, params, func(c []Candidate) int { return s.remembered(ctx, params, c) }, "remembered")
	default:
		res = s.get(ctx, params, func([]Candidate) int { return 0 }, "default")
	}

	if res.Success && s.choices != nil {
		err := s.choices.Save(ctx, params, Choice{
			Index:       res.CurrentIndex,
			ReleaseName: res.ReleaseName,
			Language:    params.Language,
			Sort:        params.Sort,
		})
		if err != nil {
			s.logger.Warn("failed to save subtitle choice", "id", params.ID, "error", err)
		}
	}
	return res
}

func (s *Service) remembered(ctx context.Context, params Params, candidates []Candidate) int {
	choice, ok, err := s.choices.Load(ctx, params)
	if err != nil {
		s.logger.Warn("failed to load subtitle choice", "id", params.ID, "error", err)
		return 0
	}
	if !ok {
		return 0
	}
	return recall(choice, params, candidates)
}

// Forget drops the remembered picks of a title
func (s *Service) Forget(ctx context.Context, params Params) error {
	if s.choices == nil {
		return nil
	}
	params = s.withDefaults(params)
	if err := s.choices.Forget(ctx, params); err != nil {
		return fmt.Errorf("failed to forget subtitle choice: %w", err)
	}
	return nil
}

func (s *Service) get(ctx context.Context, params Params, choose func([]Candidate) int, source string) (res types.SubtitleResult) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("subtitle lookup panicked", "id", params.ID, "panic", r)
			res = types.SubtitleResult{Error: fmt.Sprintf("unexpected error: %v", r)}
			metrics.ObserveSubtitleLookup(false, "internal")
		}
	}()

	candidates, err := s.Candidates(ctx, params)
	if err != nil {
		return s.fail(params, err)
	}

	chosen := ClampIndex(choose(candidates), len(candidates))
	pick := candidates[chosen]
	if pick.DownloadLink == "" {
		return s.fail(params, ErrNoDownloadLink)
	}

	text, err := s.source.Download(ctx, pick.DownloadLink)
	if err != nil {
		return s.fail(params, err)
	}

	s.logger.Info("subtitles resolved",
		"id", params.ID,
		"kind", params.Kind,
		"index", chosen,
		"pick", source,
		"total", len(candidates),
		"release", pick.ReleaseName,
	)
	metrics.ObserveSubtitleLookup(true, "")

	return types.SubtitleResult{
		Success:        true,
		SRTContent:     text,
		TotalAvailable: len(candidates),
		CurrentIndex:   chosen,
		ReleaseName:    pick.ReleaseName,
	}
}

func (s *Service) fail(params Params, err error) types.SubtitleResult {
	s.logger.Warn("subtitle lookup failed", "id", params.ID, "kind", params.Kind, "error", err)
	metrics.ObserveSubtitleLookup(false, reason(err))
	return types.SubtitleResult{Error: Message(err)}
}

func (s *Service) withDefaults(params Params) Params {
	if params.Language == "" {
		params.Language = s.language
	}
	if params.Sort == "" {
		params.Sort = s.sort
	}
	if params.Kind == "" {
		params.Kind = types.MediaTypeMovie
	}
	if params.Kind != types.MediaTypeTV {
		params.Season, params.Episode = 0, 0
	}
	return params
}
