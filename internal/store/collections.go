package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/BerylCAtieno/marketing-strategy-agent/internal/apperr"
	"github.com/BerylCAtieno/marketing-strategy-agent/internal/models"
)

// collection describes how to reach and identify one entity list of the state.
type collection[T any] struct {
	name     string
	idPrefix string
	list     func(*models.State) *[]T
	id       func(*T) *string
	key      func(T) string
	custom   func(*T)
	// preserve copies the fields an edit must not change from old to next.
	preserve func(old T, next *T)
	// renamed runs after an update changed the item's key.
	renamed func(st *models.State, oldKey, newKey string)
}

func normKey(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func (c collection[T]) indexOf(st *models.State, id string) int {
	for i := range *c.list(st) {
		if *c.id(&(*c.list(st))[i]) == id {
			return i
		}
	}
	return -1
}

func setAll[T any](ctx context.Context, s *Store, c collection[T], items []T) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mutateLocked(ctx, func(st *models.State) error {
		*c.list(st) = append(make([]T, 0, len(items)), items...)
		return nil
	})
}

func addCustom[T any](ctx context.Context, s *Store, c collection[T], item T) (T, error) {
	var zero T
	if strings.TrimSpace(c.key(item)) == "" {
		return zero, apperr.NewValidation(fmt.Sprintf("%s requires a %s", c.name, keyName(c.name)))
	}
	prefix := c.idPrefix
	if prefix == "" {
		prefix = "custom-"
	}
	*c.id(&item) = prefix + uuid.NewString()
	c.custom(&item)

	s.mu.Lock()
	defer s.mu.Unlock()
	err := s.mutateLocked(ctx, func(st *models.State) error {
		*c.list(st) = append(*c.list(st), item)
		return nil
	})
	if err != nil {
		return zero, err
	}
	return item, nil
}

// update replaces the item with the given id. The id and whatever the
// collection's preserve hook names are kept from the stored item.
func update[T any](ctx context.Context, s *Store, c collection[T], id string, item T) (T, error) {
	var zero T
	if strings.TrimSpace(c.key(item)) == "" {
		return zero, apperr.NewValidation(fmt.Sprintf("%s requires a %s", c.name, keyName(c.name)))
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	err := s.mutateLocked(ctx, func(st *models.State) error {
		i := c.indexOf(st, id)
		if i < 0 {
			return apperr.NewNotFound(c.name, id)
		}
		items := *c.list(st)
		old := items[i]
		*c.id(&item) = id
		if c.preserve != nil {
			c.preserve(old, &item)
		}
		items[i] = item

		if c.renamed != nil && normKey(c.key(old)) != normKey(c.key(item)) {
			c.renamed(st, c.key(old), c.key(item))
		}
		return nil
	})
	if err != nil {
		return zero, err
	}
	return item, nil
}

func remove[T any](ctx context.Context, s *Store, c collection[T], id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mutateLocked(ctx, func(st *models.State) error {
		i := c.indexOf(st, id)
		if i < 0 {
			return apperr.NewNotFound(c.name, id)
		}
		items := *c.list(st)
		*c.list(st) = append(items[:i:i], items[i+1:]...)
		return nil
	})
}

// merge appends items whose key is not held yet, all under one lock, and
// returns the items actually added.
func merge[T any](ctx context.Context, s *Store, c collection[T], items []T) ([]T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	held := make(map[string]bool)
	ids := make(map[string]bool)
	for _, it := range *c.list(&s.state) {
		held[normKey(c.key(it))] = true
		ids[*c.id(&it)] = true
	}

	added := make([]T, 0, len(items))
	for _, it := range items {
		k := normKey(c.key(it))
		if k == "" || held[k] || ids[*c.id(&it)] {
			continue
		}
		held[k] = true
		ids[*c.id(&it)] = true
		added = append(added, it)
	}
	if len(added) == 0 {
		return added, nil
	}
	err := s.mutateLocked(ctx, func(st *models.State) error {
		*c.list(st) = append(*c.list(st), added...)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return added, nil
}

func keyName(entity string) string {
	switch entity {
	case "geography":
		return "region"
	case "keyword":
		return "term"
	case "competitor":
		return "name"
	}
	return "title"
}

var icps = collection[models.ICP]{
	name:     "icp",
	list:     func(st *models.State) *[]models.ICP { return &st.ICPs },
	id:       func(v *models.ICP) *string { return &v.ID },
	key:      func(v models.ICP) string { return v.Title },
	custom:   func(v *models.ICP) { v.Custom = true },
	preserve: func(old models.ICP, next *models.ICP) { next.Custom = old.Custom },
	renamed: func(st *models.State, oldTitle, newTitle string) {
		for i := range st.USPs {
			if normKey(st.USPs[i].TargetICP) == normKey(oldTitle) {
				st.USPs[i].TargetICP = newTitle
			}
		}
		for i := range st.Keywords {
			if normKey(st.Keywords[i].RelatedICP) == normKey(oldTitle) {
				st.Keywords[i].RelatedICP = newTitle
			}
		}
		for i := range st.ContentIdeas {
			if normKey(st.ContentIdeas[i].TargetICP) == normKey(oldTitle) {
				st.ContentIdeas[i].TargetICP = newTitle
			}
		}
	},
}

var usps = collection[models.USP]{
	name:     "usp",
	list:     func(st *models.State) *[]models.USP { return &st.USPs },
	id:       func(v *models.USP) *string { return &v.ID },
	key:      func(v models.USP) string { return v.Title },
	custom:   func(v *models.USP) { v.Custom = true },
	preserve: func(old models.USP, next *models.USP) { next.Custom = old.Custom },
}

var geographies = collection[models.Geography]{
	name:     "geography",
	list:     func(st *models.State) *[]models.Geography { return &st.Geographies },
	id:       func(v *models.Geography) *string { return &v.ID },
	key:      func(v models.Geography) string { return v.Region },
	custom:   func(v *models.Geography) { v.Custom = true },
	preserve: func(old models.Geography, next *models.Geography) { next.Custom = old.Custom },
}

var keywords = collection[models.Keyword]{
	name:     "keyword",
	list:     func(st *models.State) *[]models.Keyword { return &st.Keywords },
	id:       func(v *models.Keyword) *string { return &v.ID },
	key:      func(v models.Keyword) string { return v.Term },
	custom:   func(v *models.Keyword) { v.Custom = true },
	preserve: func(old models.Keyword, next *models.Keyword) { next.Custom = old.Custom },
	renamed: func(st *models.State, oldTerm, newTerm string) {
		for i := range st.ContentIdeas {
			for j, kw := range st.ContentIdeas[i].TargetKeywords {
				if normKey(kw) == normKey(oldTerm) {
					st.ContentIdeas[i].TargetKeywords[j] = newTerm
				}
			}
		}
	},
}

var contentIdeas = collection[models.ContentIdea]{
	name:   "content idea",
	list:   func(st *models.State) *[]models.ContentIdea { return &st.ContentIdeas },
	id:     func(v *models.ContentIdea) *string { return &v.ID },
	key:    func(v models.ContentIdea) string { return v.Title },
	custom: func(v *models.ContentIdea) { v.Custom = true },
	// publishing only happens through PublishContent
	preserve: func(old models.ContentIdea, next *models.ContentIdea) {
		next.Custom = old.Custom
		next.Published = old.Published
		next.PublishLink = old.PublishLink
	},
}

var competitors = collection[models.Competitor]{
	name:     "competitor",
	idPrefix: "competitor-",
	list:     func(st *models.State) *[]models.Competitor { return &st.Competitors },
	id:       func(v *models.Competitor) *string { return &v.ID },
	key:      func(v models.Competitor) string { return v.Name },
	custom:   func(*models.Competitor) {},
}
