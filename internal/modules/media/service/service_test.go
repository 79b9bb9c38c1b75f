package media

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kunal592/MD-BlogApp/pkg/apperror"
	commonDto "github.com/kunal592/MD-BlogApp/pkg/dto"
)

type memoryStorage struct {
	folder string
	body   string
}

func (m *memoryStorage) UploadImage(ctx context.Context, r io.Reader, folder, fileName string) (string, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	m.folder, m.body = folder, string(b)
	return "https://cdn.example.com/" + folder + "/" + fileName, nil
}

func (m *memoryStorage) DeleteImage(ctx context.Context, fileURL string) error { return nil }

func TestUploadImage(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	file := func(name string) commonDto.UploadFile {
		return commonDto.UploadFile{Reader: strings.NewReader("pixels"), FileName: name}
	}

	t.Run("stored", func(t *testing.T) {
		store := &memoryStorage{}
		resp, err := NewMediaService(store).UploadImage(ctx, userID, file("cover.PNG"), 6)
		require.NoError(t, err)
		assert.Equal(t, "https://cdn.example.com/blog-images/cover.PNG", resp.URL)
		assert.Equal(t, "pixels", store.body)
		assert.Equal(t, uploadFolder, store.folder)
	})

	t.Run("not an image", func(t *testing.T) {
		_, err := NewMediaService(&memoryStorage{}).UploadImage(ctx, userID, file("run.sh"), 6)
		assert.ErrorIs(t, err, apperror.ErrInvalidInput)
	})

	t.Run("too large", func(t *testing.T) {
		_, err := NewMediaService(&memoryStorage{}).UploadImage(ctx, userID, file("big.jpg"), MaxUploadSize+1)
		assert.ErrorIs(t, err, apperror.ErrInvalidInput)
	})

	t.Run("storage not configured", func(t *testing.T) {
		_, err := NewMediaService(nil).UploadImage(ctx, userID, file("cover.png"), 6)
		assert.ErrorIs(t, err, apperror.ErrInvalidOperation)
	})
}
