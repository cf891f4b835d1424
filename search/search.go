// Package search implements the gallery's free-text project filter.
package search

import (
	"strings"

	"github.com/rpupo63/portfolio-gallery-backend/models"
)

// Matches reports whether query is a case-insensitive substring of the
// project's title, description or any tag. An empty query matches everything.
func Matches(project models.Project, query string) bool {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return true
	}

	if strings.Contains(strings.ToLower(project.Title), query) {
		return true
	}
	if project.Description != nil && strings.Contains(strings.ToLower(*project.Description), query) {
		return true
	}
	for _, tag := range project.Tags {
		if strings.Contains(strings.ToLower(tag), query) {
			return true
		}
	}
	return false
}

// Filter returns the projects matching query, preserving order. The input
// slice is returned unchanged for an empty query.
func Filter(projects []models.Project, query string) []models.Project {
	if strings.TrimSpace(query) == "" {
		return projects
	}
	out := make([]models.Project, 0, len(projects))
	for _, project := range projects {
		if Matches(project, query) {
			out = append(out, project)
		}
	}
	return out
}
