package service

import (
	"context"
	"sort"
	"strings"

	"github.com/coach-video-admin/internal/models"
	"github.com/coach-video-admin/internal/repository"
	"github.com/rs/zerolog"
)

type catalogService struct {
	videos repository.VideoRepository
	log    zerolog.Logger
}

func newCatalogService(videos repository.VideoRepository, log zerolog.Logger) *catalogService {
	return &catalogService{
		videos: videos,
		log:    log.With().Str("service", "catalog").Logger(),
	}
}

// ParseVideoURL splits a video URL into its category (the parent path segment)
// and its name (the last segment up to the first dot).
func ParseVideoURL(url string) (category, name string) {
	segments := strings.Split(url, "/")
	if len(segments) >= 2 {
		category = segments[len(segments)-2]
	}
	return category, VideoKey(segments[len(segments)-1])
}

// VideoKey derives the document key of an object: its base name up to the first dot
func VideoKey(objectName string) string {
	base := objectName[strings.LastIndex(objectName, "/")+1:]
	if i := strings.Index(base, "."); i >= 0 {
		base = base[:i]
	}
	return base
}

// Build groups video names by category, both sorted
func (s *catalogService) Build(ctx context.Context) (*models.Catalog, error) {
	videos, err := s.videos.All(ctx)
	if err != nil {
		return nil, upstream("read videos", err)
	}

	catalog := &models.Catalog{
		Categories: []string{},
		Videos:     make(map[string][]string),
	}
	for _, v := range videos {
		category, name := ParseVideoURL(v.URL)
		if _, seen := catalog.Videos[category]; !seen {
			catalog.Categories = append(catalog.Categories, category)
		}
		catalog.Videos[category] = append(catalog.Videos[category], name)
	}

	sort.Strings(catalog.Categories)
	for _, names := range catalog.Videos {
		sort.Strings(names)
	}

	s.log.Debug().
		Int("videos", len(videos)).
		Int("categories", len(catalog.Categories)).
		Msg("Catalog built")

	return catalog, nil
}

// Distribution counts coaches per video, skipping unassigned videos
func (s *catalogService) Distribution(ctx context.Context) ([]models.VideoLoad, error) {
	videos, err := s.videos.All(ctx)
	if err != nil {
		return nil, upstream("read videos", err)
	}

	loads := []models.VideoLoad{}
	for _, v := range videos {
		if len(v.Coaches) == 0 {
			continue
		}
		_, name := ParseVideoURL(v.URL)
		loads = append(loads, models.VideoLoad{Video: name, Coaches: len(v.Coaches)})
	}

	sort.SliceStable(loads, func(i, j int) bool {
		return loads[i].Video < loads[j].Video
	})
	return loads, nil
}

func (s *catalogService) Count(ctx context.Context) (int, error) {
	n, err := s.videos.Count(ctx)
	if err != nil {
		return 0, upstream("count videos", err)
	}
	return n, nil
}
