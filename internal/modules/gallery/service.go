package gallery

import (
	"context"
	"time"

	"imagencali/internal/storage"
)

const presignTTL = time.Hour

// Image is one gallery entry with a time-limited download URL.
type Image struct {
	Key          string    `json:"key"`
	URL          string    `json:"url"`
	Size         int64     `json:"size"`
	LastModified time.Time `json:"lastModified"`
}

type Service struct {
	store storage.ObjectStore
}

func NewService(store storage.ObjectStore) *Service {
	return &Service{store: store}
}

// List returns every stored image, newest first, each with a presigned
// URL so the bucket never has to be public.
func (s *Service) List(ctx context.Context) ([]Image, error) {
	objects, err := s.store.List(ctx)
	if err != nil {
		return nil, err
	}

	images := make([]Image, 0, len(objects))
	for _, obj := range objects {
		url, err := s.store.PresignGet(ctx, obj.Key, presignTTL)
		if err != nil {
			return nil, err
		}
		images = append(images, Image{
			Key:          obj.Key,
			URL:          url,
			Size:         obj.Size,
			LastModified: obj.LastModified,
		})
	}
	return images, nil
}
