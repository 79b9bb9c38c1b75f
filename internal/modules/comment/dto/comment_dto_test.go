package dto

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildTree(t *testing.T) {
	root := CommentResponse{ID: uuid.New()}
	child := CommentResponse{ID: uuid.New(), ParentID: &root.ID}
	grandchild := CommentResponse{ID: uuid.New(), ParentID: &child.ID}
	missing := uuid.New()
	orphan := CommentResponse{ID: uuid.New(), ParentID: &missing}

	tree := BuildTree([]CommentResponse{grandchild, orphan, child, root})

	require.Len(t, tree, 2)
	assert.Equal(t, orphan.ID, tree[0].ID)
	assert.Empty(t, tree[0].Replies)

	assert.Equal(t, root.ID, tree[1].ID)
	require.Len(t, tree[1].Replies, 1)
	assert.Equal(t, child.ID, tree[1].Replies[0].ID)
	require.Len(t, tree[1].Replies[0].Replies, 1)
	assert.Equal(t, grandchild.ID, tree[1].Replies[0].Replies[0].ID)
}

func TestBuildTreeEmpty(t *testing.T) {
	tree := BuildTree(nil)
	assert.NotNil(t, tree)
	assert.Empty(t, tree)
}
