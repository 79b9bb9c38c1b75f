package media

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/kunal592/MD-BlogApp/internal/modules/media/dto"
	"github.com/kunal592/MD-BlogApp/pkg/apperror"
	commonDto "github.com/kunal592/MD-BlogApp/pkg/dto"
	"github.com/kunal592/MD-BlogApp/pkg/storage"
)

const (
	MaxUploadSize = 5 << 20
	uploadFolder  = "blog-images"
)

type MediaService interface {
	UploadImage(ctx context.Context, userID uuid.UUID, file commonDto.UploadFile, size int64) (*dto.UploadResponse, error)
}

type mediaService struct {
	fileStorage storage.ImageStorage
}

// NewMediaService accepts nil storage; uploads are then refused.
func NewMediaService(fileStorage storage.ImageStorage) MediaService {
	return &mediaService{fileStorage: fileStorage}
}

func (s *mediaService) UploadImage(ctx context.Context, userID uuid.UUID, file commonDto.UploadFile, size int64) (*dto.UploadResponse, error) {
	if s.fileStorage == nil {
		return nil, fmt.Errorf("%w: image upload is not available", apperror.ErrInvalidOperation)
	}
	if !storage.IsImage(file.FileName) {
		return nil, fmt.Errorf("%w: only image files are allowed", apperror.ErrInvalidInput)
	}
	if size > MaxUploadSize {
		return nil, fmt.Errorf("%w: image exceeds %d MB", apperror.ErrInvalidInput, MaxUploadSize>>20)
	}

	url, err := s.fileStorage.UploadImage(ctx, file.Reader, uploadFolder, file.FileName)
	if err != nil {
		return nil, err
	}

	log.Debug().Str("user_id", userID.String()).Str("url", url).Msg("image uploaded")
	return &dto.UploadResponse{URL: url, FileName: file.FileName, Size: size}, nil
}
