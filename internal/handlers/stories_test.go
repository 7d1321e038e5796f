package handlers

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/worldwide-social/worldwide/internal/models"
	"github.com/worldwide-social/worldwide/internal/storage"
)

// createStory uploads a tiny PNG as a story for the test user
func (suite *HandlersTestSuite) createStory() map[string]any {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("image", "story.png")
	require.NoError(suite.T(), err)
	_, err = part.Write([]byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A})
	require.NoError(suite.T(), err)
	require.NoError(suite.T(), mw.Close())

	req := httptest.NewRequest("POST", "/api/v1/stories", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+suite.token)

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	require.Equal(suite.T(), http.StatusCreated, w.Code, "response: %s", w.Body.String())
	return suite.decode(w)
}

func (suite *HandlersTestSuite) withMediaStore() {
	media, err := storage.NewLocalStore(suite.T().TempDir(), "/media")
	require.NoError(suite.T(), err)
	suite.handlers.SetMediaStore(media)
}

func (suite *HandlersTestSuite) TestCreateStory() {
	suite.withMediaStore()

	resp := suite.createStory()
	suite.NotEmpty(resp["id"])
	suite.NotEmpty(resp["image"])

	var story models.Story
	suite.NoError(suite.db.First(&story, "id = ?", resp["id"]).Error)
	suite.Equal(suite.testUser.ID, story.UserID)
	suite.NotEmpty(story.MediaKey)
	suite.WithinDuration(time.Now().Add(models.StoryTTL), story.ExpiresAt, time.Minute)
}

func (suite *HandlersTestSuite) TestCreateStoryRejectsNonImage() {
	suite.withMediaStore()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, _ := mw.CreateFormFile("image", "notes.txt")
	part.Write([]byte("not an image"))
	mw.Close()

	req := httptest.NewRequest("POST", "/api/v1/stories", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+suite.token)

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	suite.Equal(http.StatusBadRequest, w.Code)
	suite.Contains(w.Body.String(), "invalid_file_type")
}

func (suite *HandlersTestSuite) TestGetStoriesHidesExpired() {
	suite.withMediaStore()
	suite.createStory()

	expired := &models.Story{
		ID:        "expired-story",
		UserID:    suite.testUser.ID,
		ImageURL:  "/media/old.png",
		ExpiresAt: time.Now().Add(-time.Hour),
	}
	suite.NoError(suite.db.Create(expired).Error)

	w := suite.request("GET", "/api/v1/stories", nil)
	suite.Equal(http.StatusOK, w.Code)

	resp := suite.decode(w)
	stories := resp["stories"].([]any)
	suite.Len(stories, 1)
	suite.NotEqual("expired-story", stories[0].(map[string]any)["id"])
}

func (suite *HandlersTestSuite) TestViewStoryCountsEachViewerOnce() {
	suite.withMediaStore()
	created := suite.createStory()
	storyID := created["id"].(string)

	// The author's own view never counts
	w := suite.request("POST", "/api/v1/stories/"+storyID+"/view", nil)
	suite.Equal(http.StatusOK, w.Code)
	suite.Equal(float64(0), suite.decode(w)["view_count"])

	// Switch to a second account and view twice
	viewer := &models.User{ID: "viewer-1", Username: "viewer", DisplayName: "Viewer"}
	suite.NoError(suite.db.Create(viewer).Error)
	authResp, err := suite.handlers.authSvc.TokenForUser(viewer)
	require.NoError(suite.T(), err)

	saved := suite.token
	suite.token = authResp.Token
	defer func() { suite.token = saved }()

	w = suite.request("POST", "/api/v1/stories/"+storyID+"/view", nil)
	suite.Equal(http.StatusOK, w.Code)
	suite.Equal(float64(1), suite.decode(w)["view_count"])

	// The response and the stored row agree
	var stored models.Story
	suite.NoError(suite.db.First(&stored, "id = ?", storyID).Error)
	suite.Equal(1, stored.ViewCount)

	w = suite.request("POST", "/api/v1/stories/"+storyID+"/view", nil)
	suite.Equal(http.StatusOK, w.Code)
	suite.Equal(float64(1), suite.decode(w)["view_count"])
}

func (suite *HandlersTestSuite) TestStoryViewsOnlyForAuthor() {
	suite.withMediaStore()
	created := suite.createStory()
	storyID := created["id"].(string)

	w := suite.request("GET", "/api/v1/stories/"+storyID+"/views", nil)
	suite.Equal(http.StatusOK, w.Code)

	other := &models.User{ID: "other-1", Username: "other", DisplayName: "Other"}
	suite.NoError(suite.db.Create(other).Error)
	authResp, err := suite.handlers.authSvc.TokenForUser(other)
	require.NoError(suite.T(), err)

	saved := suite.token
	suite.token = authResp.Token
	defer func() { suite.token = saved }()

	w = suite.request("GET", "/api/v1/stories/"+storyID+"/views", nil)
	suite.Equal(http.StatusForbidden, w.Code)
}
