package services

import (
	"context"
	"fmt"
	"meeting-lab/domain"
	"meeting-lab/errors"
	"meeting-lab/runtime"
	"meeting-lab/search"
)

type SearchResult struct {
	Hits  []search.Hit `json:"hits"`
	Total uint64       `json:"total"`
}

type SearchService struct {
	meeting *runtime.Meeting
	index   *search.Index
}

func NewSearchService(meeting *runtime.Meeting, index *search.Index) *SearchService {
	return &SearchService{meeting: meeting, index: index}
}

func (s *SearchService) Search(ctx context.Context, identity domain.Identity, query search.Query) (SearchResult, error) {
	if s.index == nil {
		return SearchResult{}, fmt.Errorf("%w: search index is disabled", errors.ErrPersistence)
	}
	if !s.meeting.Gate.CanView(identity.Login) {
		return SearchResult{}, errors.ErrBanned
	}
	hits, total, err := s.index.Search(ctx, query.Normalize())
	if err != nil {
		return SearchResult{}, errors.Persistence("search", err)
	}
	return SearchResult{Hits: hits, Total: total}, nil
}
