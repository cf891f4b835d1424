package database

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/rpupo63/portfolio-gallery-backend/models"
)

// Sort fields accepted by ListOptions. Anything else falls back to created_at.
var allowedSortFields = map[string]struct{}{
	"created_at": {},
	"title":      {},
	"start_date": {},
}

// ListOptions describes the admin project listing: composable filters, a
// whitelisted sort key and offset pagination.
type ListOptions struct {
	Search     string
	Category   string
	Status     string
	Visibility *bool
	SortField  string
	SortAsc    bool
	Offset     int
	Limit      int
}

type ProjectRepo struct {
	db *gorm.DB
}

func NewProjectRepo(db *gorm.DB) *ProjectRepo {
	return &ProjectRepo{db}
}

// GetDB returns the underlying database connection for debugging purposes
func (r *ProjectRepo) GetDB() *gorm.DB {
	return r.db
}

// FindVisible returns all publicly listed projects ordered by start date
// descending, optionally narrowed to one category.
func (r *ProjectRepo) FindVisible(ctx context.Context, category string) ([]models.Project, error) {
	var projects []models.Project
	query := r.db.WithContext(ctx).
		Where("visibility = ?", true).
		Order("start_date DESC")
	if category != "" {
		query = query.Where("category = ?", category)
	}
	err := query.Find(&projects).Error
	return projects, err
}

// FindVisibleByID returns one publicly listed project with its challenges
// ordered by display_order. Hidden projects are reported as not found.
func (r *ProjectRepo) FindVisibleByID(ctx context.Context, id uuid.UUID) (*models.Project, error) {
	var project models.Project
	err := r.db.WithContext(ctx).
		Preload("Challenges", orderChallenges).
		Where("visibility = ?", true).
		First(&project, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &project, nil
}

// FindByID returns a project by its ID regardless of visibility, with its
// challenges ordered by display_order.
func (r *ProjectRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Project, error) {
	var project models.Project
	err := r.db.WithContext(ctx).
		Preload("Challenges", orderChallenges).
		First(&project, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &project, nil
}

func orderChallenges(db *gorm.DB) *gorm.DB {
	return db.Order("display_order ASC")
}

// List returns one admin page of projects plus the total row count for the
// active filters. Search matches a case-insensitive title substring or exact
// tag membership, mirroring the public console behavior.
func (r *ProjectRepo) List(ctx context.Context, opts ListOptions) ([]models.Project, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Project{})

	if opts.Search != "" {
		titlePattern := "%" + strings.ToLower(opts.Search) + "%"
		// Tags are stored as a JSON array; membership is a match on the
		// quoted value inside the serialized column.
		tagPattern := `%"` + opts.Search + `"%`
		if r.db.Dialector.Name() == "postgres" {
			query = query.Where("LOWER(title) LIKE ? OR tags::text LIKE ?", titlePattern, tagPattern)
		} else {
			query = query.Where("LOWER(title) LIKE ? OR tags LIKE ?", titlePattern, tagPattern)
		}
	}
	if opts.Category != "" {
		query = query.Where("category = ?", opts.Category)
	}
	if opts.Status != "" {
		query = query.Where("project_status = ?", opts.Status)
	}
	if opts.Visibility != nil {
		query = query.Where("visibility = ?", *opts.Visibility)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	sortField := opts.SortField
	if _, ok := allowedSortFields[sortField]; !ok {
		sortField = "created_at"
	}
	direction := "DESC"
	if opts.SortAsc {
		direction = "ASC"
	}

	var projects []models.Project
	err := query.Order(sortField + " " + direction).
		Offset(opts.Offset).
		Limit(opts.Limit).
		Find(&projects).Error
	return projects, total, err
}

// SaveWithChallenges persists a project and its full challenge set as one
// logical save. The existing challenge rows are replaced, not diffed; a
// failure at any step rolls back the whole save.
func (r *ProjectRepo) SaveWithChallenges(ctx context.Context, project *models.Project, challenges []models.Challenge, isUpdate bool) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if isUpdate {
			if err := tx.Save(project).Error; err != nil {
				return err
			}
			if err := tx.Where("project_id = ?", project.ID).Delete(&models.Challenge{}).Error; err != nil {
				return err
			}
		} else {
			if err := tx.Create(project).Error; err != nil {
				return err
			}
		}

		if len(challenges) > 0 {
			for i := range challenges {
				challenges[i].ProjectID = project.ID
			}
			if err := tx.Create(&challenges).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// UpdateVisibility flips the public listing flag for one project.
func (r *ProjectRepo) UpdateVisibility(ctx context.Context, id uuid.UUID, visible bool) error {
	result := r.db.WithContext(ctx).
		Model(&models.Project{}).
		Where("id = ?", id).
		Update("visibility", visible)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Delete removes a project and its challenge rows in one transaction so no
// orphaned challenges survive the parent.
func (r *ProjectRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("project_id = ?", id).Delete(&models.Challenge{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&models.Project{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

// IncrementViewCount bumps a project's view counter. The atomic in-place
// expression is preferred; if it cannot be applied the counter falls back to a
// read-modify-write update, acceptable for a vanity metric.
func (r *ProjectRepo) IncrementViewCount(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Model(&models.Project{}).
		Where("id = ?", id).
		UpdateColumn("view_count", gorm.Expr("view_count + ?", 1))
	if result.Error == nil {
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	}

	var project models.Project
	if err := r.db.WithContext(ctx).First(&project, "id = ?", id).Error; err != nil {
		return err
	}
	return r.db.WithContext(ctx).
		Model(&models.Project{}).
		Where("id = ?", id).
		UpdateColumn("view_count", project.ViewCount+1).Error
}
