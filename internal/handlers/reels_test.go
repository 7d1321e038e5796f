package handlers

import (
	"net/http"

	"github.com/worldwide-social/worldwide/internal/interest"
	"github.com/worldwide-social/worldwide/internal/models"
)

func (suite *HandlersTestSuite) TestCreateReel() {
	w := suite.request("POST", "/api/v1/reels", map[string]any{
		"caption":     "first reel",
		"video_thumb": "https://example.com/t.jpg",
		"category":    models.CategoryNeural,
	})
	suite.Equal(http.StatusCreated, w.Code)
	suite.Contains(w.Body.String(), "first reel")
}

func (suite *HandlersTestSuite) TestReelsRankedByInterest() {
	suite.seedReel(models.CategoryNature, "nature reel")
	neural := suite.seedReel(models.CategoryNeural, "neural reel")

	w := suite.request("POST", "/api/v1/reels/"+neural.ID+"/share", nil)
	suite.Equal(http.StatusOK, w.Code)

	w = suite.request("GET", "/api/v1/reels", nil)
	suite.Equal(http.StatusOK, w.Code)

	resp := suite.decode(w)
	reels := resp["reels"].([]any)
	suite.Len(reels, 2)
	suite.Equal("neural reel", reels[0].(map[string]any)["caption"])
}

func (suite *HandlersTestSuite) TestReelShareOutweighsPostShare() {
	reel := suite.seedReel(models.CategoryMusic, "reel")

	suite.request("POST", "/api/v1/reels/"+reel.ID+"/share", nil)
	suite.Equal(interest.WeightShareReel, suite.handlers.scorer.Score(suite.testUser.ID, models.CategoryMusic))
	suite.Greater(interest.WeightShareReel, interest.WeightSharePost)
}

func (suite *HandlersTestSuite) TestReelLikeIdempotent() {
	reel := suite.seedReel(models.CategoryArt, "like me")

	suite.request("POST", "/api/v1/reels/"+reel.ID+"/like", nil)
	suite.request("POST", "/api/v1/reels/"+reel.ID+"/like", nil)

	var got models.Reel
	suite.NoError(suite.db.First(&got, "id = ?", reel.ID).Error)
	suite.Equal(1, got.LikeCount)
	suite.Equal(interest.WeightLike, suite.handlers.scorer.Score(suite.testUser.ID, models.CategoryArt))
}

func (suite *HandlersTestSuite) TestReelViewCompletion() {
	reel := suite.seedReel(models.CategoryLifestyle, "watch me")

	w := suite.request("POST", "/api/v1/reels/"+reel.ID+"/viewed", nil)
	suite.Equal(http.StatusOK, w.Code)
	suite.Equal(interest.WeightViewComplete, suite.handlers.scorer.Score(suite.testUser.ID, models.CategoryLifestyle))
}

func (suite *HandlersTestSuite) TestRecordSwipeValidatesDirection() {
	w := suite.request("POST", "/api/v1/reels/swipe", map[string]any{"direction": "up"})
	suite.Equal(http.StatusOK, w.Code)

	w = suite.request("POST", "/api/v1/reels/swipe", map[string]any{"direction": "sideways"})
	suite.Equal(http.StatusBadRequest, w.Code)
}
