package database

import (
	"time"

	"gorm.io/gorm"
)

// Setting represents a key-value store for application settings
type Setting struct {
	Key       string    `gorm:"primaryKey"`
	Value     string    `gorm:"not null"`
	UpdatedAt time.Time `gorm:"default:CURRENT_TIMESTAMP"`
}

// TableName overrides the table name
func (Setting) TableName() string {
	return "settings"
}

// SubtitleChoice remembers which subtitle candidate the user settled on for
// a title (and episode, for series)
type SubtitleChoice struct {
	ID          uint      `gorm:"primaryKey"`
	TitleID     int       `gorm:"not null;uniqueIndex:idx_subtitle_choice"`
	Kind        string    `gorm:"not null;uniqueIndex:idx_subtitle_choice"` // movie, tv
	Season      int       `gorm:"not null;default:0;uniqueIndex:idx_subtitle_choice"`
	Episode     int       `gorm:"not null;default:0;uniqueIndex:idx_subtitle_choice"`
	Language    string    `gorm:"not null;default:'eng'"`
	Sort        string    `gorm:"column:sort_strategy;not null;default:'smart'"`
	Index       int       `gorm:"column:candidate_index;not null;default:0"`
	ReleaseName string    `gorm:""`
	CreatedAt   time.Time `gorm:"default:CURRENT_TIMESTAMP"`
	UpdatedAt   time.Time `gorm:"default:CURRENT_TIMESTAMP"`
}

// TableName overrides the table name
func (SubtitleChoice) TableName() string {
	return "subtitle_choices"
}

// Migrate runs database migrations
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&Setting{},
		&SubtitleChoice{},
	)
}
