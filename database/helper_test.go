package database

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/rpupo63/portfolio-gallery-backend/models"
)

// RepoTestSuite runs the repositories against a throwaway in-memory sqlite
// database. Each test gets its own database so state never leaks between them.
type RepoTestSuite struct {
	suite.Suite
	ctx           context.Context
	db            *gorm.DB
	projectRepo   *ProjectRepo
	challengeRepo *ChallengeRepo
}

func (s *RepoTestSuite) SetupTest() {
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_json=1", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	s.Require().NoError(err)
	s.Require().NoError(db.AutoMigrate(&models.Project{}, &models.Challenge{}))

	s.ctx = context.Background()
	s.db = db
	s.projectRepo = NewProjectRepo(db)
	s.challengeRepo = NewChallengeRepo(db)
}

// newProject returns an unsaved project with sensible defaults.
func newProject(title string) models.Project {
	return models.Project{
		Title:         title,
		Category:      models.CategoryProjects,
		ProjectStatus: models.StatusDraft,
		StartDate:     "2024-01-01",
		Visibility:    true,
	}
}

// mustCreate persists a project directly, bypassing the save workflow.
func (s *RepoTestSuite) mustCreate(project *models.Project) {
	s.Require().NoError(s.db.Create(project).Error)
}
