package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rpupo63/portfolio-gallery-backend/database"
	"github.com/rpupo63/portfolio-gallery-backend/models"
	"github.com/rpupo63/portfolio-gallery-backend/session"
)

func newGalleryRouter(db database.Database, markers session.MarkerStore) *chi.Mux {
	h := newProjectHandler(db.ProjectRepo(), markers, metricsForTest())

	r := chi.NewRouter()
	r.Get("/projects", h.getGallery())
	r.Get("/project/{projectID}", h.getProjectDetail())
	return r
}

func TestGetGalleryListsOnlyVisibleProjects(t *testing.T) {
	db := newTestDatabase(t)
	router := newGalleryRouter(db, session.NewMemoryStore(time.Hour))

	visible := models.Project{Title: "Fleet Tracker", Visibility: true}
	seedProject(t, db, &visible)
	hidden := models.Project{Title: "Secret", Visibility: false}
	seedProject(t, db, &hidden)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/projects", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var collection ProjectCollection
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&collection))
	require.Equal(t, 1, collection.Total)
	assert.Equal(t, "Fleet Tracker", collection.Projects[0].Title)
}

func TestGetGalleryFreeTextQuery(t *testing.T) {
	db := newTestDatabase(t)
	router := newGalleryRouter(db, session.NewMemoryStore(time.Hour))

	tracker := models.Project{Title: "Fleet Tracker", Visibility: true}
	seedProject(t, db, &tracker)
	recipes := models.Project{Title: "Recipe Box", Visibility: true}
	seedProject(t, db, &recipes)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/projects?q=fleet", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var collection ProjectCollection
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&collection))
	require.Equal(t, 1, collection.Total)
	assert.Equal(t, "Fleet Tracker", collection.Projects[0].Title)
}

func TestGetGalleryRejectsUnknownCategory(t *testing.T) {
	db := newTestDatabase(t)
	router := newGalleryRouter(db, session.NewMemoryStore(time.Hour))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/projects?category=portfolio", nil))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetProjectDetailReturnsOrderedChallenges(t *testing.T) {
	db := newTestDatabase(t)
	router := newGalleryRouter(db, session.NewMemoryStore(time.Hour))

	project := models.Project{Title: "With challenges", Visibility: true}
	seedProject(t, db, &project)
	require.NoError(t, db.ChallengeRepo().AddBatch(context.Background(), []models.Challenge{
		{ProjectID: project.ID, CoreChallenge: "Second", DisplayOrder: 1},
		{ProjectID: project.ID, CoreChallenge: "First", DisplayOrder: 0},
	}))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/project/"+project.ID.String(), nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var detail ProjectWithChallenges
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&detail))
	assert.Equal(t, project.ID, detail.Project.ID)
	require.Len(t, detail.Challenges, 2)
	assert.Equal(t, "First", detail.Challenges[0].CoreChallenge)
	assert.Equal(t, "Second", detail.Challenges[1].CoreChallenge)
}

func TestGetProjectDetailHiddenProjectNotFound(t *testing.T) {
	db := newTestDatabase(t)
	router := newGalleryRouter(db, session.NewMemoryStore(time.Hour))

	hidden := models.Project{Title: "Secret", Visibility: false}
	seedProject(t, db, &hidden)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/project/"+hidden.ID.String(), nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetProjectDetailInvalidID(t *testing.T) {
	db := newTestDatabase(t)
	router := newGalleryRouter(db, session.NewMemoryStore(time.Hour))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/project/not-a-uuid", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/project/"+uuid.NewString(), nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestViewCountedOncePerSession(t *testing.T) {
	db := newTestDatabase(t)
	router := newGalleryRouter(db, session.NewMemoryStore(time.Hour))

	project := models.Project{Title: "Counted", Visibility: true}
	seedProject(t, db, &project)

	viewCount := func() int64 {
		found, err := db.ProjectRepo().FindByID(context.Background(), project.ID)
		if err != nil {
			return -1
		}
		return found.ViewCount
	}

	visit := func(sessionID string) {
		req := httptest.NewRequest(http.MethodGet, "/project/"+project.ID.String(), nil)
		if sessionID != "" {
			req.Header.Set("X-Session-ID", sessionID)
		}
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)
	}

	visit("session-a")
	require.Eventually(t, func() bool { return viewCount() == 1 }, 2*time.Second, 10*time.Millisecond)

	// A repeat visit from the same session must not count again. The
	// increment runs off the request goroutine, so give it a moment.
	visit("session-a")
	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, int64(1), viewCount())

	visit("session-b")
	require.Eventually(t, func() bool { return viewCount() == 2 }, 2*time.Second, 10*time.Millisecond)
}

func TestViewCountedViaSessionCookie(t *testing.T) {
	db := newTestDatabase(t)
	router := newGalleryRouter(db, session.NewMemoryStore(time.Hour))

	project := models.Project{Title: "Cookie counted", Visibility: true}
	seedProject(t, db, &project)

	visit := func() {
		req := httptest.NewRequest(http.MethodGet, "/project/"+project.ID.String(), nil)
		req.AddCookie(&http.Cookie{Name: "session_id", Value: "cookie-session"})
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)
	}

	visit()
	require.Eventually(t, func() bool {
		found, err := db.ProjectRepo().FindByID(context.Background(), project.ID)
		return err == nil && found.ViewCount == 1
	}, 2*time.Second, 10*time.Millisecond)

	visit()
	time.Sleep(100 * time.Millisecond)

	found, err := db.ProjectRepo().FindByID(context.Background(), project.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), found.ViewCount)
}
