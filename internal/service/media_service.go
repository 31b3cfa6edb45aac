package service

import (
	"context"

	"fotogram/internal/models"
	"fotogram/internal/repository"
)

type MediaService struct {
	mediaRepo repository.MediaRepository
}

type AddMediaInput struct {
	PostID uint
	Type   models.MediaType
	URL    string
}

func NewMediaService(mediaRepo repository.MediaRepository) *MediaService {
	return &MediaService{mediaRepo: mediaRepo}
}

func (s *MediaService) AddMedia(ctx context.Context, in AddMediaInput) (*models.Media, error) {
	media := models.NewMedia(in.PostID, in.Type, in.URL)
	if err := s.mediaRepo.Create(ctx, media); err != nil {
		return nil, err
	}
	return media, nil
}

func (s *MediaService) DeleteMedia(ctx context.Context, id uint) error {
	return s.mediaRepo.Delete(ctx, id)
}
