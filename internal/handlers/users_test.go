package handlers

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/worldwide-social/worldwide/internal/models"
)

func (suite *HandlersTestSuite) TestUpdateProfileAndHealth() {
	w := suite.request("PUT", "/api/v1/users/me", map[string]any{
		"bio":        "making things",
		"avatar_url": "https://example.com/a.png",
		"status":     "online and curious",
		"theme_config": map[string]any{
			"primary_color": "#7c3aed",
			"mode":          "dark",
		},
	})
	suite.Equal(http.StatusOK, w.Code)

	resp := suite.decode(w)
	suite.Equal("making things", resp["bio"])
	// avatar + bio + status + theme present, music missing
	suite.Equal(float64(80), resp["profile_health"])
}

func (suite *HandlersTestSuite) TestGetUserAndPosts() {
	suite.seedPost(models.CategoryTech, "visible on profile")

	w := suite.request("GET", "/api/v1/users/"+suite.testUser.ID, nil)
	suite.Equal(http.StatusOK, w.Code)
	suite.Contains(w.Body.String(), "tester")

	w = suite.request("GET", "/api/v1/users/"+suite.testUser.ID+"/posts", nil)
	suite.Equal(http.StatusOK, w.Code)
	suite.Contains(w.Body.String(), "visible on profile")

	w = suite.request("GET", "/api/v1/users/nonexistent", nil)
	suite.Equal(http.StatusNotFound, w.Code)
}

func (suite *HandlersTestSuite) TestInterestsRoundTrip() {
	post := suite.seedPost(models.CategoryNature, "green")
	suite.request("POST", "/api/v1/posts/"+post.ID+"/like", nil)

	w := suite.request("GET", "/api/v1/interests", nil)
	suite.Equal(http.StatusOK, w.Code)
	resp := suite.decode(w)
	interests := resp["interests"].(map[string]any)
	suite.Equal(float64(5), interests[models.CategoryNature])

	w = suite.request("DELETE", "/api/v1/interests", nil)
	suite.Equal(http.StatusOK, w.Code)

	w = suite.request("GET", "/api/v1/interests", nil)
	resp = suite.decode(w)
	suite.Empty(resp["interests"])
}

func (suite *HandlersTestSuite) TestNotifications() {
	for _, read := range []bool{false, false, true} {
		n := &models.Notification{
			ID:     uuid.New().String(),
			UserID: suite.testUser.ID,
			Type:   "like",
			Read:   read,
		}
		suite.NoError(suite.db.Create(n).Error)
	}

	w := suite.request("GET", "/api/v1/notifications", nil)
	suite.Equal(http.StatusOK, w.Code)
	resp := suite.decode(w)
	suite.Equal(float64(2), resp["unread"])
	suite.Len(resp["notifications"].([]any), 3)

	w = suite.request("POST", "/api/v1/notifications/read", nil)
	suite.Equal(http.StatusOK, w.Code)

	w = suite.request("GET", "/api/v1/notifications", nil)
	resp = suite.decode(w)
	suite.Equal(float64(0), resp["unread"])
}
