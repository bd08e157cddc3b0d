package subtitles

import (
	"context"

	"gorm.io/gorm"

	"github.com/justchokingaround/marquee/internal/database"
)

// Choice is the candidate a user settled on, with the ranking it was picked from
type Choice struct {
	Index       int
	ReleaseName string
	Language    string
	Sort        SortStrategy
}

// ChoiceStore remembers one Choice per title and episode
type ChoiceStore interface {
	Load(ctx context.Context, params Params) (Choice, bool, error)
	Save(ctx context.Context, params Params, choice Choice) error
	// Forget drops every remembered choice for the title, all episodes included
	Forget(ctx context.Context, params Params) error
}

// DBChoices keeps choices in the subtitle_choices table
type DBChoices struct {
	db *gorm.DB
}

// NewDBChoices creates a ChoiceStore backed by db
func NewDBChoices(db *gorm.DB) *DBChoices {
	return &DBChoices{db: db}
}

func (c *DBChoices) Load(ctx context.Context, params Params) (Choice, bool, error) {
	row, ok, err := database.GetSubtitleChoice(c.db.WithContext(ctx), params.ID, string(params.Kind), params.Season, params.Episode)
	if err != nil || !ok {
		return Choice{}, false, err
	}
	return Choice{
		Index:       row.Index,
		ReleaseName: row.ReleaseName,
		Language:    row.Language,
		Sort:        SortStrategy(row.Sort),
	}, true, nil
}

func (c *DBChoices) Save(ctx context.Context, params Params, choice Choice) error {
	return database.SaveSubtitleChoice(c.db.WithContext(ctx), database.SubtitleChoice{
		TitleID:     params.ID,
		Kind:        string(params.Kind),
		Season:      params.Season,
		Episode:     params.Episode,
		Language:    choice.Language,
		Sort:        string(choice.Sort),
		Index:       choice.Index,
		ReleaseName: choice.ReleaseName,
	})
}

func (c *DBChoices) Forget(ctx context.Context, params Params) error {
	return database.ClearSubtitleChoices(c.db.WithContext(ctx), params.ID, string(params.Kind))
}

// recall picks the index to use when the caller gave none. The remembered
// release is looked up by name in the current ranking; its stored index only
// applies when the ranking was built with the same language and sort.
func recall(choice Choice, params Params, candidates []Candidate) int {
	if choice.ReleaseName != "" {
		for i, c := range candidates {
			if c.ReleaseName == choice.ReleaseName {
				return i
			}
		}
	}
	if choice.Language == params.Language && choice.Sort == params.Sort {
		return ClampIndex(choice.Index, len(candidates))
	}
	return 0
}
