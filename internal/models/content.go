package models

import (
	"strings"
	"time"
)

// Keyword is a search term tied back to an ICP by title.
type Keyword struct {
	ID              string `json:"id"`
	Term            string `json:"term"`
	SearchVolume    string `json:"searchVolume"`
	Difficulty      string `json:"difficulty"`
	Relevance       string `json:"relevance"`
	RelatedICP      string `json:"relatedICP"`
	CompetitorUsage string `json:"competitorUsage,omitempty"`
	Custom          bool   `json:"isCustom,omitempty"`
}

type TrafficPoint struct {
	Month    string `json:"month"`
	Searches int    `json:"searches"`
	Clicks   int    `json:"clicks"`
}

type CompetitorRank struct {
	Name     string `json:"name"`
	Position int    `json:"position"`
}

// KeywordStats is fetched lazily for a keyword and cached by term.
type KeywordStats struct {
	ID           string           `json:"id"`
	Term         string           `json:"term"`
	Forecast     []TrafficPoint   `json:"forecast"`
	Historical   []TrafficPoint   `json:"historical"`
	Synonyms     []string         `json:"synonyms"`
	Competition  float64          `json:"competition"`
	SuggestedBid string           `json:"suggestedBid"`
	Competitors  []CompetitorRank `json:"competitors"`
}

type ContentType string

const (
	BlogPost    ContentType = "Blog Post"
	WhitePaper  ContentType = "White Paper"
	EBook       ContentType = "eBook"
	Webinar     ContentType = "Webinar"
	CaseStudy   ContentType = "Case Study"
	Infographic ContentType = "Infographic"
	Video       ContentType = "Video"
)

var ContentTypes = []ContentType{BlogPost, WhitePaper, EBook, Webinar, CaseStudy, Infographic, Video}

// ParseContentType matches s against the known types ignoring case, spaces
// and hyphens. Unknown values become BlogPost.
func ParseContentType(s string) ContentType {
	key := contentTypeKey(s)
	for _, ct := range ContentTypes {
		if contentTypeKey(string(ct)) == key {
			return ct
		}
	}
	return BlogPost
}

func contentTypeKey(s string) string {
	s = strings.ToLower(s)
	return strings.NewReplacer(" ", "", "-", "", "_", "").Replace(s)
}

// ContentIdea is a planned piece of marketing content.
type ContentIdea struct {
	ID             string      `json:"id"`
	Title          string      `json:"title"`
	Type           ContentType `json:"type"`
	TargetICP      string      `json:"targetICP"`
	TargetKeywords []string    `json:"targetKeywords"`
	Outline        []string    `json:"outline"`
	EstimatedValue string      `json:"estimatedValue"`
	Published      bool        `json:"published"`
	PublishLink    string      `json:"publishLink,omitempty"`
	Custom         bool        `json:"isCustom,omitempty"`
}

// PublishedContent records a content idea that has been published.
type PublishedContent struct {
	ContentID   string    `json:"contentId"`
	Title       string    `json:"title"`
	Link        string    `json:"link"`
	PublishedAt time.Time `json:"publishedAt"`
}
