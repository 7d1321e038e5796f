package handlers

import (
	"net/http"
	"time"

	"github.com/worldwide-social/worldwide/internal/interest"
	"github.com/worldwide-social/worldwide/internal/models"
)

func (suite *HandlersTestSuite) TestCreateAndGetPost() {
	w := suite.request("POST", "/api/v1/posts", map[string]any{
		"content":  "hello world",
		"category": models.CategoryTech,
	})
	suite.Equal(http.StatusCreated, w.Code)
	resp := suite.decode(w)
	postID := resp["id"].(string)
	suite.NotEmpty(postID)

	w = suite.request("GET", "/api/v1/posts/"+postID, nil)
	suite.Equal(http.StatusOK, w.Code)
	suite.Contains(w.Body.String(), "hello world")
}

func (suite *HandlersTestSuite) TestFeedRankedByInterest() {
	suite.seedPost(models.CategoryNature, "a nature post")
	art := suite.seedPost(models.CategoryArt, "an art post")
	suite.seedPost(models.CategoryTech, "a tech post")

	// Liking the art post should float Art to the top of the feed
	w := suite.request("POST", "/api/v1/posts/"+art.ID+"/like", nil)
	suite.Equal(http.StatusOK, w.Code)

	w = suite.request("GET", "/api/v1/feed", nil)
	suite.Equal(http.StatusOK, w.Code)

	resp := suite.decode(w)
	posts := resp["posts"].([]any)
	suite.Len(posts, 3)
	first := posts[0].(map[string]any)
	suite.Equal("an art post", first["content"])
}

func (suite *HandlersTestSuite) TestFeedTiesKeepRecencyOrder() {
	older := suite.seedPost(models.CategoryTech, "older")
	newer := suite.seedPost(models.CategoryTech, "newer")
	suite.db.Model(older).UpdateColumn("created_at", time.Now().Add(-time.Hour))
	suite.db.Model(newer).UpdateColumn("created_at", time.Now())

	w := suite.request("GET", "/api/v1/feed", nil)
	suite.Equal(http.StatusOK, w.Code)

	resp := suite.decode(w)
	posts := resp["posts"].([]any)
	suite.Len(posts, 2)
	// Both unscored: newest-first DB order must survive the stable sort
	suite.Equal("newer", posts[0].(map[string]any)["content"])
}

func (suite *HandlersTestSuite) TestLikeRecordsEngagementOnce() {
	post := suite.seedPost(models.CategoryMusic, "a song")

	w := suite.request("POST", "/api/v1/posts/"+post.ID+"/like", nil)
	suite.Equal(http.StatusOK, w.Code)
	suite.Equal(interest.WeightLike, suite.handlers.scorer.Score(suite.testUser.ID, models.CategoryMusic))

	// A second like must not double-score
	w = suite.request("POST", "/api/v1/posts/"+post.ID+"/like", nil)
	suite.Equal(http.StatusOK, w.Code)
	suite.Equal(interest.WeightLike, suite.handlers.scorer.Score(suite.testUser.ID, models.CategoryMusic))

	var got models.Post
	suite.NoError(suite.db.First(&got, "id = ?", post.ID).Error)
	suite.Equal(1, got.LikeCount)
	suite.True(got.IsLiked)
}

func (suite *HandlersTestSuite) TestUnlikeKeepsScore() {
	post := suite.seedPost(models.CategoryMusic, "a song")

	suite.request("POST", "/api/v1/posts/"+post.ID+"/like", nil)
	w := suite.request("DELETE", "/api/v1/posts/"+post.ID+"/like", nil)
	suite.Equal(http.StatusOK, w.Code)

	// Scores never decrease
	suite.Equal(interest.WeightLike, suite.handlers.scorer.Score(suite.testUser.ID, models.CategoryMusic))

	var got models.Post
	suite.NoError(suite.db.First(&got, "id = ?", post.ID).Error)
	suite.Equal(0, got.LikeCount)
	suite.False(got.IsLiked)
}

func (suite *HandlersTestSuite) TestEngagementWeights() {
	post := suite.seedPost(models.CategoryFuture, "future post")

	suite.request("POST", "/api/v1/posts/"+post.ID+"/save", nil)
	suite.Equal(interest.WeightSave, suite.handlers.scorer.Score(suite.testUser.ID, models.CategoryFuture))

	suite.request("POST", "/api/v1/posts/"+post.ID+"/share", nil)
	suite.Equal(interest.WeightSave+interest.WeightSharePost,
		suite.handlers.scorer.Score(suite.testUser.ID, models.CategoryFuture))

	suite.request("POST", "/api/v1/posts/"+post.ID+"/viewed", nil)
	suite.Equal(interest.WeightSave+interest.WeightSharePost+interest.WeightViewComplete,
		suite.handlers.scorer.Score(suite.testUser.ID, models.CategoryFuture))
}

func (suite *HandlersTestSuite) TestSharesStack() {
	post := suite.seedPost(models.CategoryArt, "share me")

	suite.request("POST", "/api/v1/posts/"+post.ID+"/share", nil)
	suite.request("POST", "/api/v1/posts/"+post.ID+"/share", nil)

	// Each share is a distinct engagement
	suite.Equal(2*interest.WeightSharePost, suite.handlers.scorer.Score(suite.testUser.ID, models.CategoryArt))
}

func (suite *HandlersTestSuite) TestCommentsThread() {
	post := suite.seedPost(models.CategoryTech, "discuss")

	w := suite.request("POST", "/api/v1/posts/"+post.ID+"/comments", map[string]any{
		"text": "top level",
	})
	suite.Equal(http.StatusCreated, w.Code)
	parentID := suite.decode(w)["id"].(string)

	w = suite.request("POST", "/api/v1/posts/"+post.ID+"/comments", map[string]any{
		"text":      "a reply",
		"parent_id": parentID,
	})
	suite.Equal(http.StatusCreated, w.Code)

	w = suite.request("GET", "/api/v1/posts/"+post.ID+"/comments", nil)
	suite.Equal(http.StatusOK, w.Code)
	resp := suite.decode(w)
	suite.Equal(float64(2), resp["total"])

	comments := resp["comments"].([]any)
	suite.Len(comments, 1, "reply should nest under its parent")
	root := comments[0].(map[string]any)
	suite.Equal("top level", root["text"])
	suite.Len(root["replies"].([]any), 1)

	suite.Equal(2*interest.WeightComment, suite.handlers.scorer.Score(suite.testUser.ID, models.CategoryTech))
}

func (suite *HandlersTestSuite) TestCommentReplyToForeignParentRejected() {
	post := suite.seedPost(models.CategoryTech, "post a")
	other := suite.seedPost(models.CategoryTech, "post b")

	w := suite.request("POST", "/api/v1/posts/"+post.ID+"/comments", map[string]any{
		"text": "on post a",
	})
	parentID := suite.decode(w)["id"].(string)

	w = suite.request("POST", "/api/v1/posts/"+other.ID+"/comments", map[string]any{
		"text":      "cross-post reply",
		"parent_id": parentID,
	})
	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *HandlersTestSuite) TestDeletePostOwnership() {
	post := suite.seedPost(models.CategoryTech, "mine")

	// Another account's post cannot be deleted
	foreign := &models.Post{ID: "foreign-post", UserID: "someone-else", Content: "not yours"}
	suite.NoError(suite.db.Create(foreign).Error)

	w := suite.request("DELETE", "/api/v1/posts/"+foreign.ID, nil)
	suite.Equal(http.StatusForbidden, w.Code)

	w = suite.request("DELETE", "/api/v1/posts/"+post.ID, nil)
	suite.Equal(http.StatusOK, w.Code)

	var count int64
	suite.db.Model(&models.Post{}).Where("id = ?", post.ID).Count(&count)
	suite.Equal(int64(0), count)
}
