package books

import (
	"context"
	"sort"

	"github.com/lucasnneto/book-api/internal/entities"
)

// SeriesGroup is one partition of the grouped listing. Series is nil for the
// bucket of books that belong to no series.
type SeriesGroup struct {
	Series *string         `json:"series"`
	Books  []entities.Book `json:"books"`
	Count  int             `json:"count"`
}

// GroupBySeries runs the same search as Search and partitions the result by
// series value. Books without a series form their own partition; it is never
// dropped. Partitions are sorted by series name with the ungrouped bucket
// last, so the output order is reproducible.
func (s *Service) GroupBySeries(ctx context.Context, filter, owner string) ([]SeriesGroup, error) {
	found, err := s.Search(ctx, filter, owner)
	if err != nil {
		return nil, err
	}
	return groupBySeries(found), nil
}

func groupBySeries(found []entities.Book) []SeriesGroup {
	partitions := make(map[string][]entities.Book)
	for _, b := range found {
		partitions[b.Series] = append(partitions[b.Series], b)
	}

	groups := make([]SeriesGroup, 0, len(partitions))
	for series, members := range partitions {
		g := SeriesGroup{Books: members, Count: len(members)}
		if series != "" {
			name := series
			g.Series = &name
		}
		groups = append(groups, g)
	}

	sort.Slice(groups, func(i, j int) bool {
		a, b := groups[i].Series, groups[j].Series
		if a == nil {
			return false
		}
		if b == nil {
			return true
		}
		return *a < *b
	})
	return groups
}
