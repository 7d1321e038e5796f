package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strptr(s string) *string { return &s }

func TestCommentArenaBuildsThreads(t *testing.T) {
	comments := []Comment{
		{ID: "c1", PostID: "p1", Text: "first"},
		{ID: "c2", PostID: "p1", Text: "second"},
		{ID: "c3", PostID: "p1", ParentID: strptr("c1"), Text: "reply to first"},
		{ID: "c4", PostID: "p1", ParentID: strptr("c3"), Text: "nested reply"},
		{ID: "c5", PostID: "p1", ParentID: strptr("c1"), Text: "another reply"},
	}

	arena := NewCommentArena(comments)

	require.Len(t, arena.Roots, 2)
	assert.Equal(t, "c1", arena.Roots[0].ID)
	assert.Equal(t, "c2", arena.Roots[1].ID)

	replies := arena.Replies("c1")
	require.Len(t, replies, 2)
	assert.Equal(t, "c3", replies[0].ID)
	assert.Equal(t, "c5", replies[1].ID)

	thread := arena.Thread("c1")
	ids := make([]string, len(thread))
	for i, c := range thread {
		ids[i] = c.ID
	}
	assert.Equal(t, []string{"c1", "c3", "c4", "c5"}, ids, "depth-first order")
}

func TestCommentArenaOrphanBecomesRoot(t *testing.T) {
	comments := []Comment{
		{ID: "c1", Text: "reply to a deleted comment", ParentID: strptr("gone")},
	}

	arena := NewCommentArena(comments)

	require.Len(t, arena.Roots, 1)
	assert.Equal(t, "c1", arena.Roots[0].ID)
}

func TestCommentArenaUnknownThread(t *testing.T) {
	arena := NewCommentArena(nil)
	assert.Nil(t, arena.Thread("nope"))
	assert.Empty(t, arena.Replies("nope"))
}
