package handlers

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/worldwide-social/worldwide/internal/models"
)

func (suite *HandlersTestSuite) seedMessage(senderID, recipientID, text string) *models.ChatMessage {
	msg := &models.ChatMessage{
		ID:          uuid.New().String(),
		SenderID:    senderID,
		RecipientID: recipientID,
		Text:        text,
		MediaType:   models.MessageText,
	}
	suite.NoError(suite.db.Create(msg).Error)
	return msg
}

func (suite *HandlersTestSuite) TestGetConversation() {
	me := suite.testUser.ID
	suite.seedMessage(me, "peer-1", "hey")
	suite.seedMessage("peer-1", me, "hi back")
	suite.seedMessage(me, "peer-2", "unrelated thread")

	w := suite.request("GET", "/api/v1/messages/peer-1", nil)
	suite.Equal(http.StatusOK, w.Code)

	resp := suite.decode(w)
	messages := resp["messages"].([]any)
	suite.Len(messages, 2)
	suite.Equal("hey", messages[0].(map[string]any)["text"])
}

func (suite *HandlersTestSuite) TestGetConversationsLatestPerPeer() {
	me := suite.testUser.ID
	first := suite.seedMessage(me, "peer-1", "first")
	second := suite.seedMessage("peer-1", me, "second")
	suite.db.Model(first).UpdateColumn("created_at", second.CreatedAt.Add(-time.Minute))
	suite.seedMessage("peer-2", me, "other thread")

	w := suite.request("GET", "/api/v1/messages", nil)
	suite.Equal(http.StatusOK, w.Code)

	resp := suite.decode(w)
	conversations := resp["conversations"].([]any)
	suite.Len(conversations, 2)

	for _, raw := range conversations {
		conv := raw.(map[string]any)
		if conv["peer_id"] == "peer-1" {
			last := conv["last_message"].(map[string]any)
			suite.Equal("second", last["text"])
		}
	}
}

func (suite *HandlersTestSuite) TestLikeMessageParticipantsOnly() {
	msg := suite.seedMessage("peer-1", suite.testUser.ID, "like me")

	w := suite.request("POST", "/api/v1/messages/"+msg.ID+"/like", nil)
	suite.Equal(http.StatusOK, w.Code)
	suite.Equal(true, suite.decode(w)["is_liked"])

	foreign := suite.seedMessage("peer-1", "peer-2", "private")
	w = suite.request("POST", "/api/v1/messages/"+foreign.ID+"/like", nil)
	suite.Equal(http.StatusForbidden, w.Code)
}

func (suite *HandlersTestSuite) TestEditMessageSenderOnlyTextOnly() {
	mine := suite.seedMessage(suite.testUser.ID, "peer-1", "typo")

	w := suite.request("PUT", "/api/v1/messages/"+mine.ID, map[string]any{"text": "fixed"})
	suite.Equal(http.StatusOK, w.Code)

	var got models.ChatMessage
	suite.NoError(suite.db.First(&got, "id = ?", mine.ID).Error)
	suite.Equal("fixed", got.Text)
	suite.True(got.IsEdited)

	theirs := suite.seedMessage("peer-1", suite.testUser.ID, "not yours")
	w = suite.request("PUT", "/api/v1/messages/"+theirs.ID, map[string]any{"text": "hacked"})
	suite.Equal(http.StatusForbidden, w.Code)

	image := &models.ChatMessage{
		ID:          uuid.New().String(),
		SenderID:    suite.testUser.ID,
		RecipientID: "peer-1",
		MediaURL:    "/media/pic.png",
		MediaType:   models.MessageImage,
	}
	suite.NoError(suite.db.Create(image).Error)
	w = suite.request("PUT", "/api/v1/messages/"+image.ID, map[string]any{"text": "caption"})
	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *HandlersTestSuite) TestDeleteMessage() {
	mine := suite.seedMessage(suite.testUser.ID, "peer-1", "delete me")

	w := suite.request("DELETE", "/api/v1/messages/"+mine.ID, nil)
	suite.Equal(http.StatusOK, w.Code)

	var count int64
	suite.db.Model(&models.ChatMessage{}).Where("id = ?", mine.ID).Count(&count)
	suite.Equal(int64(0), count)
}
