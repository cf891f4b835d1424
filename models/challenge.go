package models

import (
	"strings"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Challenge represents one technical-challenge narrative attached to a
// project. Challenge rows are fully replaced on every save of their project,
// so their IDs are not stable across saves.
type Challenge struct {
	ID            uuid.UUID                   `json:"id" db:"id" gorm:"type:uuid;primaryKey;not null"`
	ProjectID     uuid.UUID                   `json:"project_id" db:"project_id" gorm:"type:uuid;not null;index:idx_challenge_project_id;constraint:OnDelete:CASCADE"`
	CoreChallenge string                      `json:"core_challenge" db:"core_challenge" gorm:"type:text;not null"`
	ImageURL      *string                     `json:"image_url,omitempty" db:"image_url" gorm:"type:text"`
	MermaidSyntax *string                     `json:"mermaid_syntax,omitempty" db:"mermaid_syntax" gorm:"type:text"`
	ProblemItems  datatypes.JSONSlice[string] `json:"problem_items" db:"problem_items" gorm:"type:json"`
	SolutionItems datatypes.JSONSlice[string] `json:"solution_items" db:"solution_items" gorm:"type:json"`
	ResultItems   datatypes.JSONSlice[string] `json:"result_items" db:"result_items" gorm:"type:json"`
	DisplayOrder  int                         `json:"display_order" db:"display_order" gorm:"not null;default:0"`
}

// BeforeCreate assigns an ID so inserts behave the same on postgres and the
// sqlite test driver.
func (c *Challenge) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// ChallengeDraft is the editable form of a challenge as submitted by the admin
// console. The editing UI keeps at least one (possibly blank) slot in each
// item list; drafts are normalized into persistable rows by BuildChallenges.
type ChallengeDraft struct {
	CoreChallenge string   `json:"core_challenge"`
	ImageURL      string   `json:"image_url"`
	MermaidSyntax string   `json:"mermaid_syntax"`
	ProblemItems  []string `json:"problem_items"`
	SolutionItems []string `json:"solution_items"`
	ResultItems   []string `json:"result_items"`
}

// BuildChallenges converts submitted drafts into rows for projectID. Drafts
// with a blank core challenge are dropped, item lists are filtered to
// non-blank entries, and display_order is assigned as the position in the
// filtered sequence.
func BuildChallenges(projectID uuid.UUID, drafts []ChallengeDraft) []Challenge {
	challenges := make([]Challenge, 0, len(drafts))
	for _, draft := range drafts {
		if strings.TrimSpace(draft.CoreChallenge) == "" {
			continue
		}
		challenges = append(challenges, Challenge{
			ProjectID:     projectID,
			CoreChallenge: draft.CoreChallenge,
			ImageURL:      optional(draft.ImageURL),
			MermaidSyntax: optional(draft.MermaidSyntax),
			ProblemItems:  filterBlank(draft.ProblemItems),
			SolutionItems: filterBlank(draft.SolutionItems),
			ResultItems:   filterBlank(draft.ResultItems),
			DisplayOrder:  len(challenges),
		})
	}
	return challenges
}

func filterBlank(items []string) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		if strings.TrimSpace(item) != "" {
			out = append(out, item)
		}
	}
	return out
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
