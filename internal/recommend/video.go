package recommend

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"time"

	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"

	"github.com/illegalcall/emerge/internal/metrics"
	"github.com/illegalcall/emerge/internal/models"
)

const videoService = "video service"

// errNoVideo means the search succeeded but matched nothing.
var errNoVideo = errors.New("no video found")

// VideoSearcher looks up at most one video for a query
type VideoSearcher interface {
	SearchVideo(ctx context.Context, query string) (*models.Video, error)
}

// YouTubeSearcher implements VideoSearcher with the YouTube Data API
type YouTubeSearcher struct {
	svc     *youtube.Service
	timeout time.Duration
}

func NewYouTubeSearcher(ctx context.Context, apiKey string, timeout time.Duration, opts ...option.ClientOption) (*YouTubeSearcher, error) {
	if apiKey == "" {
		return nil, errors.New("YOUTUBE_API_KEY is not set")
	}

	svc, err := youtube.NewService(ctx, append([]option.ClientOption{option.WithAPIKey(apiKey)}, opts...)...)
	if err != nil {
		return nil, fmt.Errorf("failed to create YouTube client: %w", err)
	}
	return &YouTubeSearcher{svc: svc, timeout: timeout}, nil
}

// SearchVideo returns the most relevant medium length English video.
func (y *YouTubeSearcher) SearchVideo(ctx context.Context, query string) (*models.Video, error) {
	if y.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, y.timeout)
		defer cancel()
	}

	start := time.Now()
	resp, err := y.svc.Search.List([]string{"snippet"}).
		Q(query).
		Type("video").
		MaxResults(1).
		RelevanceLanguage("en").
		VideoDuration("medium").
		Order("relevance").
		Context(ctx).
		Do()
	metrics.ObserveUpstream("youtube", start, err)
	if err != nil {
		return nil, models.NewUpstreamError(videoService, err)
	}

	for _, item := range resp.Items {
		if item.Id == nil || item.Id.VideoId == "" || item.Snippet == nil {
			continue
		}
		return &models.Video{
			Title:       item.Snippet.Title,
			Description: item.Snippet.Description,
			URL:         "https://youtube.com/watch?v=" + item.Id.VideoId,
		}, nil
	}
	return nil, errNoVideo
}

func videoQuery(p *models.Profile) string {
	return fmt.Sprintf("%s %s career guide", p.PrimarySubject("career development"), p.FirstInterest("professional development"))
}

// FallbackVideo is served whenever the video service cannot answer.
func FallbackVideo(subject string) *models.Video {
	return &models.Video{
		Title:       subject + " Career Guide",
		Description: "Learn about career opportunities in " + subject,
		URL:         "https://www.youtube.com/results?search_query=" + url.QueryEscape(subject+" career guide"),
	}
}
