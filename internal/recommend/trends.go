package recommend

import (
	"fmt"
	"net/url"

	"github.com/illegalcall/emerge/internal/models"
)

// Trends returns the trending topic cards for a subject.
func Trends(subject string, year int) []models.TrendItem {
	return []models.TrendItem{
		{
			ID:          "trend1",
			Title:       fmt.Sprintf("Top Skills in %s for %d", subject, year),
			Description: fmt.Sprintf("Key skills and technologies that are shaping the %s field this year. Learn what employers are looking for and how to stay competitive.", subject),
			URL:         "https://www.bls.gov/ooh/",
			Type:        "article",
		},
		{
			ID:          "trend2",
			Title:       fmt.Sprintf("%s Industry Outlook", subject),
			Description: fmt.Sprintf("Latest market trends and future projections for careers in %s.", subject),
			URL:         "https://www.onetonline.org/find/quick?s=" + url.QueryEscape(subject),
			Type:        "article",
		},
	}
}
