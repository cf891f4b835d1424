package database

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/rpupo63/portfolio-gallery-backend/models"
)

type ChallengeRepo struct {
	db *gorm.DB
}

func NewChallengeRepo(db *gorm.DB) *ChallengeRepo {
	return &ChallengeRepo{db}
}

// GetDB returns the underlying database connection for debugging purposes
func (r *ChallengeRepo) GetDB() *gorm.DB {
	return r.db
}

// FindByProjectID returns all challenges for a project ordered by display_order
func (r *ChallengeRepo) FindByProjectID(ctx context.Context, projectID uuid.UUID) ([]models.Challenge, error) {
	var challenges []models.Challenge
	err := r.db.WithContext(ctx).
		Where("project_id = ?", projectID).
		Order("display_order ASC").
		Find(&challenges).Error
	return challenges, err
}

// AddBatch inserts a set of challenges
func (r *ChallengeRepo) AddBatch(ctx context.Context, challenges []models.Challenge) error {
	if len(challenges) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&challenges).Error
}

// DeleteByProjectID removes all challenges belonging to a project
func (r *ChallengeRepo) DeleteByProjectID(ctx context.Context, projectID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("project_id = ?", projectID).
		Delete(&models.Challenge{}).Error
}
