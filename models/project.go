package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Category values for Project.Category.
const (
	CategoryFeatured = "featured"
	CategoryProjects = "projects"
	CategoryLabs     = "labs"
)

// Status values for Project.ProjectStatus.
const (
	StatusDraft     = "draft"
	StatusPublished = "published"
	StatusArchived  = "archived"
)

// Project represents one portfolio entry.
type Project struct {
	ID            uuid.UUID                   `json:"id" db:"id" gorm:"type:uuid;primaryKey;not null"`
	Title         string                      `json:"title" db:"title" gorm:"type:text;not null"`
	Category      string                      `json:"category" db:"category" gorm:"type:text;not null;default:'projects';index"`
	ProjectStatus string                      `json:"project_status" db:"project_status" gorm:"type:text;not null;default:'draft';index"`
	CoverImageURL *string                     `json:"proj_cover_image_url,omitempty" db:"proj_cover_image_url" gorm:"type:text"`
	Description   *string                     `json:"proj_description,omitempty" db:"proj_description" gorm:"type:text"`
	ProjectURL    *string                     `json:"proj_url,omitempty" db:"proj_url" gorm:"type:text"`
	StartDate     string                      `json:"start_date" db:"start_date" gorm:"type:date;not null"`
	EndDate       *string                     `json:"end_date,omitempty" db:"end_date" gorm:"type:date"`
	Tags          datatypes.JSONSlice[string] `json:"tags" db:"tags" gorm:"type:json"`
	Visibility    bool                        `json:"visibility" db:"visibility" gorm:"not null;default:true;index"`
	ViewCount     int64                       `json:"view_count" db:"view_count" gorm:"not null;default:0"`
	CreatedAt     time.Time                   `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time                   `json:"updated_at" db:"updated_at"`

	Challenges []Challenge `json:"challenges,omitempty" gorm:"foreignKey:ProjectID;references:ID;constraint:OnDelete:CASCADE"`
}

// BeforeCreate assigns an ID so inserts behave the same on postgres and the
// sqlite test driver.
func (p *Project) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// ValidCategory reports whether s is one of the known project categories.
func ValidCategory(s string) bool {
	switch s {
	case CategoryFeatured, CategoryProjects, CategoryLabs:
		return true
	}
	return false
}

// ValidStatus reports whether s is one of the known project statuses.
func ValidStatus(s string) bool {
	switch s {
	case StatusDraft, StatusPublished, StatusArchived:
		return true
	}
	return false
}

// NormalizeTags trims tags and drops blanks and duplicates, keeping the first
// occurrence of each value.
func NormalizeTags(tags []string) []string {
	seen := make(map[string]struct{}, len(tags))
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		tag = strings.TrimSpace(tag)
		if tag == "" {
			continue
		}
		if _, ok := seen[tag]; ok {
			continue
		}
		seen[tag] = struct{}{}
		out = append(out, tag)
	}
	return out
}
