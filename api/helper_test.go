package api

import (
	"fmt"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/rpupo63/portfolio-gallery-backend/database"
	"github.com/rpupo63/portfolio-gallery-backend/metrics"
	"github.com/rpupo63/portfolio-gallery-backend/models"
)

var (
	testMetricsOnce sync.Once
	testMetrics     *metrics.Metrics
)

// metricsForTest shares one collector set across the package; registering a
// second set on the default registry would panic.
func metricsForTest() *metrics.Metrics {
	testMetricsOnce.Do(func() {
		testMetrics = metrics.New()
	})
	return testMetrics
}

// newTestDatabase opens a throwaway in-memory sqlite database, migrated and
// unique to the calling test.
func newTestDatabase(t *testing.T) database.Database {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_json=1", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Project{}, &models.Challenge{}))

	return database.New(db)
}

// seedProject persists a project directly, bypassing the handlers.
func seedProject(t *testing.T, db database.Database, project *models.Project) {
	t.Helper()

	if project.Category == "" {
		project.Category = models.CategoryProjects
	}
	if project.ProjectStatus == "" {
		project.ProjectStatus = models.StatusDraft
	}
	if project.StartDate == "" {
		project.StartDate = "2024-01-01"
	}
	require.NoError(t, db.ProjectRepo().GetDB().Create(project).Error)
}
