package database

import (
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GetSubtitleChoice returns the remembered candidate for a title.
// ok is false when nothing is stored (not an error).
func GetSubtitleChoice(db *gorm.DB, titleID int, kind string, season, episode int) (choice SubtitleChoice, ok bool, err error) {
	err = db.Where("title_id = ? AND kind = ? AND season = ? AND episode = ?", titleID, kind, season, episode).
		First(&choice).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return SubtitleChoice{}, false, nil
		}
		return SubtitleChoice{}, false, err
	}
	return choice, true, nil
}

// SaveSubtitleChoice stores or updates the chosen candidate for a title
func SaveSubtitleChoice(db *gorm.DB, choice SubtitleChoice) error {
	if choice.TitleID <= 0 {
		return errors.New("invalid subtitle choice: title id must be positive")
	}
	if choice.Index < 0 {
		return errors.New("invalid subtitle choice: index must not be negative")
	}

	return db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "title_id"}, {Name: "kind"}, {Name: "season"}, {Name: "episode"}},
		DoUpdates: clause.AssignmentColumns([]string{"language", "sort_strategy", "candidate_index", "release_name", "updated_at"}),
	}).Create(&choice).Error
}

// ClearSubtitleChoices removes every remembered choice for a title
func ClearSubtitleChoices(db *gorm.DB, titleID int, kind string) error {
	return db.Where("title_id = ? AND kind = ?", titleID, kind).Delete(&SubtitleChoice{}).Error
}
