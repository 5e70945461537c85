package store

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/BerylCAtieno/marketing-strategy-agent/internal/apperr"
	"github.com/BerylCAtieno/marketing-strategy-agent/internal/models"
)

func (s *Store) ICPs() []models.ICP { return s.Snapshot().ICPs }

func (s *Store) SetICPs(ctx context.Context, items []models.ICP) error {
	return setAll(ctx, s, icps, items)
}

func (s *Store) AddCustomICP(ctx context.Context, item models.ICP) (models.ICP, error) {
	return addCustom(ctx, s, icps, item)
}

// UpdateICP replaces an ICP. A title change is carried over to the USPs,
// keywords and content ideas that referenced the old title.
func (s *Store) UpdateICP(ctx context.Context, id string, item models.ICP) (models.ICP, error) {
	return update(ctx, s, icps, id, item)
}

func (s *Store) DeleteICP(ctx context.Context, id string) error {
	return remove(ctx, s, icps, id)
}

func (s *Store) MergeICPs(ctx context.Context, items []models.ICP) ([]models.ICP, error) {
	return merge(ctx, s, icps, items)
}

func (s *Store) USPs() []models.USP { return s.Snapshot().USPs }

func (s *Store) SetUSPs(ctx context.Context, items []models.USP) error {
	return setAll(ctx, s, usps, items)
}

func (s *Store) AddCustomUSP(ctx context.Context, item models.USP) (models.USP, error) {
	return addCustom(ctx, s, usps, item)
}

func (s *Store) UpdateUSP(ctx context.Context, id string, item models.USP) (models.USP, error) {
	return update(ctx, s, usps, id, item)
}

func (s *Store) DeleteUSP(ctx context.Context, id string) error {
	return remove(ctx, s, usps, id)
}

func (s *Store) MergeUSPs(ctx context.Context, items []models.USP) ([]models.USP, error) {
	return merge(ctx, s, usps, items)
}

func (s *Store) Geographies() []models.Geography { return s.Snapshot().Geographies }

func (s *Store) SetGeographies(ctx context.Context, items []models.Geography) error {
	return setAll(ctx, s, geographies, items)
}

func (s *Store) AddCustomGeography(ctx context.Context, item models.Geography) (models.Geography, error) {
	item.MarketSize = models.NormalizeMarketSize(item.MarketSize)
	return addCustom(ctx, s, geographies, item)
}

func (s *Store) UpdateGeography(ctx context.Context, id string, item models.Geography) (models.Geography, error) {
	item.MarketSize = models.NormalizeMarketSize(item.MarketSize)
	return update(ctx, s, geographies, id, item)
}

func (s *Store) DeleteGeography(ctx context.Context, id string) error {
	return remove(ctx, s, geographies, id)
}

func (s *Store) MergeGeographies(ctx context.Context, items []models.Geography) ([]models.Geography, error) {
	return merge(ctx, s, geographies, items)
}

func (s *Store) Keywords() []models.Keyword { return s.Snapshot().Keywords }

func (s *Store) SetKeywords(ctx context.Context, items []models.Keyword) error {
	return setAll(ctx, s, keywords, items)
}

func (s *Store) AddCustomKeyword(ctx context.Context, item models.Keyword) (models.Keyword, error) {
	return addCustom(ctx, s, keywords, item)
}

// UpdateKeyword replaces a keyword; a term change is carried over to the
// target keyword lists of content ideas.
func (s *Store) UpdateKeyword(ctx context.Context, id string, item models.Keyword) (models.Keyword, error) {
	return update(ctx, s, keywords, id, item)
}

func (s *Store) DeleteKeyword(ctx context.Context, id string) error {
	return remove(ctx, s, keywords, id)
}

func (s *Store) MergeKeywords(ctx context.Context, items []models.Keyword) ([]models.Keyword, error) {
	return merge(ctx, s, keywords, items)
}

// Keyword returns the keyword with the given id.
func (s *Store) Keyword(id string) (models.Keyword, error) {
	for _, kw := range s.Keywords() {
		if kw.ID == id {
			return kw, nil
		}
	}
	return models.Keyword{}, apperr.NewNotFound("keyword", id)
}

func (s *Store) ContentIdeas() []models.ContentIdea { return s.Snapshot().ContentIdeas }

func (s *Store) SetContentIdeas(ctx context.Context, items []models.ContentIdea) error {
	return setAll(ctx, s, contentIdeas, items)
}

func (s *Store) AddCustomContentIdea(ctx context.Context, item models.ContentIdea) (models.ContentIdea, error) {
	item.Type = models.ParseContentType(string(item.Type))
	return addCustom(ctx, s, contentIdeas, item)
}

func (s *Store) UpdateContentIdea(ctx context.Context, id string, item models.ContentIdea) (models.ContentIdea, error) {
	item.Type = models.ParseContentType(string(item.Type))
	return update(ctx, s, contentIdeas, id, item)
}

func (s *Store) DeleteContentIdea(ctx context.Context, id string) error {
	return remove(ctx, s, contentIdeas, id)
}

func (s *Store) MergeContentIdeas(ctx context.Context, items []models.ContentIdea) ([]models.ContentIdea, error) {
	return merge(ctx, s, contentIdeas, items)
}

// PublishContent marks a content idea as published and records its share
// link. An empty link gets a generated /share/ path.
func (s *Store) PublishContent(ctx context.Context, id, link string) (models.ContentIdea, error) {
	link = strings.TrimSpace(link)
	if link == "" {
		link = "/share/" + uuid.NewString()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	var published models.ContentIdea
	err := s.mutateLocked(ctx, func(st *models.State) error {
		i := contentIdeas.indexOf(st, id)
		if i < 0 {
			return apperr.NewNotFound("content idea", id)
		}
		idea := &st.ContentIdeas[i]
		idea.Published = true
		idea.PublishLink = link

		entry := models.PublishedContent{
			ContentID:   idea.ID,
			Title:       idea.Title,
			Link:        link,
			PublishedAt: s.now().UTC(),
		}
		replaced := false
		for j := range st.PublishedContent {
			if st.PublishedContent[j].ContentID == id {
				st.PublishedContent[j] = entry
				replaced = true
			}
		}
		if !replaced {
			st.PublishedContent = append(st.PublishedContent, entry)
		}
		published = *idea
		return nil
	})
	if err != nil {
		return models.ContentIdea{}, err
	}
	return published, nil
}

func (s *Store) Competitors() []models.Competitor { return s.Snapshot().Competitors }

func (s *Store) SetCompetitors(ctx context.Context, items []models.Competitor) error {
	return setAll(ctx, s, competitors, items)
}

func (s *Store) AddCompetitor(ctx context.Context, item models.Competitor) (models.Competitor, error) {
	return addCustom(ctx, s, competitors, item)
}

func (s *Store) DeleteCompetitor(ctx context.Context, id string) error {
	return remove(ctx, s, competitors, id)
}

// KeywordStatsByTerm returns cached stats for term, compared case-insensitively.
func (s *Store) KeywordStatsByTerm(term string) (models.KeywordStats, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, ks := range s.state.KeywordStats {
		if normKey(ks.Term) == normKey(term) {
			return cloneState(models.State{KeywordStats: []models.KeywordStats{ks}}).KeywordStats[0], true
		}
	}
	return models.KeywordStats{}, false
}

// PutKeywordStats caches stats, replacing any entry for the same term.
func (s *Store) PutKeywordStats(ctx context.Context, stats models.KeywordStats) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mutateLocked(ctx, func(st *models.State) error {
		for i := range st.KeywordStats {
			if normKey(st.KeywordStats[i].Term) == normKey(stats.Term) {
				st.KeywordStats[i] = stats
				return nil
			}
		}
		st.KeywordStats = append(st.KeywordStats, stats)
		return nil
	})
}
