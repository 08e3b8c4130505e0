package handlers

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/unihub/unihub/backend/internal/models"
	"gorm.io/gorm"
)

func feedbackRouter(db *gorm.DB, user *models.User) *gin.Engine {
	r := gin.New()
	h := NewFeedbackHandler(db)
	g := r.Group("/api", identityAs(user))
	g.POST("/projects/:id/feedback", h.Create)
	g.GET("/projects/:id/feedback", h.List)
	g.DELETE("/feedback/:id", h.Delete)
	return r
}

func seedProject(t *testing.T, db *gorm.DB) *models.Project {
	t.Helper()

	owner := createUser(t, db, "creator@example.edu", models.RoleStudent)
	student := &models.Student{UserID: owner.ID, StudentID: "S-100", Major: "CS"}
	require.NoError(t, db.Create(student).Error)

	project := &models.Project{
		Title:      "Campus Energy Monitor",
		CreatorID:  student.ID,
		Status:     models.ProjectInProgress,
		Visibility: models.VisibilityPublic,
	}
	require.NoError(t, db.Create(project).Error)
	return project
}

func TestFeedback_CreateAndList(t *testing.T) {
	db := setupTestDB(t)
	project := seedProject(t, db)
	reviewer := createUser(t, db, "reviewer@example.edu", models.RoleStudent)
	r := feedbackRouter(db, reviewer)

	w := performJSON(r, "POST", fmt.Sprintf("/api/projects/%d/feedback", project.ID),
		gin.H{"rating": 4, "comment": "solid proposal"})
	require.Equal(t, http.StatusCreated, w.Code)

	w = performJSON(r, "GET", fmt.Sprintf("/api/projects/%d/feedback", project.ID), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "solid proposal")
}

func TestFeedback_CreateUnknownProject(t *testing.T) {
	db := setupTestDB(t)
	reviewer := createUser(t, db, "reviewer@example.edu", models.RoleStudent)
	r := feedbackRouter(db, reviewer)

	w := performJSON(r, "POST", "/api/projects/999/feedback", gin.H{"rating": 3})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestFeedback_RatingOutOfRange(t *testing.T) {
	db := setupTestDB(t)
	project := seedProject(t, db)
	reviewer := createUser(t, db, "reviewer@example.edu", models.RoleStudent)
	r := feedbackRouter(db, reviewer)

	for _, rating := range []int{0, 6} {
		w := performJSON(r, "POST", fmt.Sprintf("/api/projects/%d/feedback", project.ID),
			gin.H{"rating": rating})
		assert.Equal(t, http.StatusBadRequest, w.Code, "rating %d should be rejected", rating)
	}
}

func TestFeedback_DeleteOwnershipRules(t *testing.T) {
	db := setupTestDB(t)
	project := seedProject(t, db)
	author := createUser(t, db, "author@example.edu", models.RoleStudent)
	stranger := createUser(t, db, "stranger@example.edu", models.RoleStudent)
	admin := createUser(t, db, "admin@example.edu", models.RoleAdmin)

	feedback := &models.Feedback{ProjectID: project.ID, UserID: author.ID, Rating: 5}
	require.NoError(t, db.Create(feedback).Error)

	w := performJSON(feedbackRouter(db, stranger), "DELETE",
		fmt.Sprintf("/api/feedback/%d", feedback.ID), nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = performJSON(feedbackRouter(db, admin), "DELETE",
		fmt.Sprintf("/api/feedback/%d", feedback.ID), nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = performJSON(feedbackRouter(db, author), "DELETE",
		fmt.Sprintf("/api/feedback/%d", feedback.ID), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
