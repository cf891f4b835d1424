package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"gorm.io/datatypes"

	"github.com/rpupo63/portfolio-gallery-backend/models"
)

func sampleProject() models.Project {
	description := "Real-time dashboard for fleet telemetry"
	return models.Project{
		Title:       "Fleet Tracker",
		Description: &description,
		Tags:        datatypes.NewJSONSlice([]string{"Go", "WebSockets"}),
	}
}

func TestMatchesTitleCaseInsensitive(t *testing.T) {
	project := sampleProject()

	assert.True(t, Matches(project, "fleet"))
	assert.True(t, Matches(project, "TRACKER"))
	assert.False(t, Matches(project, "inventory"))
}

func TestMatchesDescriptionAndTags(t *testing.T) {
	project := sampleProject()

	assert.True(t, Matches(project, "telemetry"))
	assert.True(t, Matches(project, "websockets"))

	project.Description = nil
	assert.False(t, Matches(project, "telemetry"))
}

func TestMatchesEmptyQuery(t *testing.T) {
	assert.True(t, Matches(sampleProject(), ""))
	assert.True(t, Matches(sampleProject(), "   "))
}

func TestFilterPreservesOrder(t *testing.T) {
	projects := []models.Project{
		{Title: "Alpha Go"},
		{Title: "Beta"},
		{Title: "Gamma Go"},
	}

	filtered := Filter(projects, "go")

	assert.Len(t, filtered, 2)
	assert.Equal(t, "Alpha Go", filtered[0].Title)
	assert.Equal(t, "Gamma Go", filtered[1].Title)
}

func TestFilterEmptyQueryReturnsInput(t *testing.T) {
	projects := []models.Project{{Title: "Alpha"}, {Title: "Beta"}}

	filtered := Filter(projects, "")

	assert.Equal(t, projects, filtered)
}
