// Package recommend serves the course, video and trend cards shown next to a
// user's goals. Every lookup degrades to a static fallback.
package recommend

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/illegalcall/emerge/internal/models"
	"github.com/illegalcall/emerge/internal/suggest"
)

const defaultSubject = "Career Development"

type Options struct {
	Cache    Cache
	CacheTTL time.Duration
	Logger   *slog.Logger
}

// Service combines the video and course collaborators with caching
type Service struct {
	videos  VideoSearcher
	courses suggest.TextGenerator
	cache   Cache
	ttl     time.Duration
	logger  *slog.Logger
	now     func() time.Time
}

// NewService builds a Service. A nil videos searcher always yields the
// fallback video.
func NewService(videos VideoSearcher, courses suggest.TextGenerator, opts Options) *Service {
	s := &Service{
		videos:  videos,
		courses: courses,
		cache:   opts.Cache,
		ttl:     opts.CacheTTL,
		logger:  opts.Logger,
		now:     time.Now,
	}
	if s.cache == nil {
		s.cache = NoCache{}
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	if s.courses == nil {
		s.courses = suggest.Unconfigured{}
	}
	return s
}

func cacheKey(kind string, p *models.Profile) string {
	return fmt.Sprintf("recommend:%s:%d:%d", kind, p.UserID, p.UpdatedAt.Unix())
}

// Video returns a video for the profile's primary subject and first interest.
func (s *Service) Video(ctx context.Context, p *models.Profile) *models.Video {
	subject := p.PrimarySubject(defaultSubject)
	key := cacheKey("video", p)

	var cached models.Video
	if s.cache.Get(ctx, key, &cached) {
		return &cached
	}

	if s.videos == nil {
		return FallbackVideo(subject)
	}

	video, err := s.videos.SearchVideo(ctx, videoQuery(p))
	if err != nil {
		s.logger.Warn("Video lookup failed, serving fallback", "user_id", p.UserID, "error", err)
		return FallbackVideo(subject)
	}

	s.cache.Set(ctx, key, video, s.ttl)
	return video
}

// Course returns a generated course recommendation for the profile.
func (s *Service) Course(ctx context.Context, p *models.Profile) *models.Course {
	subject := p.PrimarySubject(defaultSubject)
	key := cacheKey("course", p)

	var cached models.Course
	if s.cache.Get(ctx, key, &cached) {
		return &cached
	}

	course, err := recommendCourse(ctx, s.courses, p)
	if err != nil {
		s.logger.Warn("Course recommendation failed, serving fallback", "user_id", p.UserID, "error", err)
		return FallbackCourse(subject)
	}

	s.cache.Set(ctx, key, course, s.ttl)
	return course
}

// Recommendation bundles the course and video for the dashboard.
func (s *Service) Recommendation(ctx context.Context, p *models.Profile) models.Recommendation {
	return models.Recommendation{
		Course: s.Course(ctx, p),
		Video:  s.Video(ctx, p),
	}
}

// Trends returns the trend cards for subject, defaulting when it is blank.
func (s *Service) Trends(subject string) []models.TrendItem {
	if subject = strings.TrimSpace(subject); subject == "" {
		subject = defaultSubject
	}
	return Trends(subject, s.now().Year())
}
