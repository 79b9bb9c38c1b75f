package contact

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kunal592/MD-BlogApp/internal/modules/contact/dto"
	"github.com/kunal592/MD-BlogApp/internal/modules/contact/repository"
	"github.com/kunal592/MD-BlogApp/internal/testutil"
	"github.com/kunal592/MD-BlogApp/pkg/apperror"
	commonDto "github.com/kunal592/MD-BlogApp/pkg/dto"
)

func TestContactLifecycle(t *testing.T) {
	db := testutil.NewTestDB(t)
	svc := NewContactService(repository.NewContactRepository(db))
	ctx := context.Background()

	created, err := svc.Create(ctx, dto.CreateContactRequest{
		Name:    "Dana",
		Email:   " Dana@Example.com ",
		Message: "<script>x</script>Please add dark mode",
	})
	require.NoError(t, err)
	assert.Equal(t, "dana@example.com", created.Email)
	assert.Equal(t, "Please add dark mode", created.Message)
	assert.False(t, created.IsResolved)

	_, err = svc.Create(ctx, dto.CreateContactRequest{Name: "Eve", Email: "eve@example.com", Message: "<b></b>"})
	assert.ErrorIs(t, err, apperror.ErrInvalidInput)

	resolved, err := svc.SetResolved(ctx, created.ID, true)
	require.NoError(t, err)
	assert.True(t, resolved.IsResolved)

	open := false
	page, err := svc.List(ctx, dto.ContactFilter{Resolved: &open})
	require.NoError(t, err)
	assert.Empty(t, page.Items)

	all, err := svc.List(ctx, dto.ContactFilter{PageQuery: commonDto.PageQuery{Page: 1, Limit: 10}})
	require.NoError(t, err)
	require.Len(t, all.Items, 1)
	assert.Equal(t, created.ID, all.Items[0].ID)

	_, err = svc.SetResolved(ctx, uuid.New(), true)
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}
