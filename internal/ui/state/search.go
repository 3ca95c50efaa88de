package state

import (
	"strings"

	"github.com/atomicstack/keypad-popup/internal/keys"
	"github.com/lithammer/fuzzysearch/fuzzy"
)

// Candidate is a key offered by the search prompt.
type Candidate struct {
	Code  keys.Code
	Label string
}

// Search tracks the key search prompt.
type Search struct {
	Query  string
	Full   []Candidate
	Items  []Candidate
	Cursor int
}

// NewSearch returns a search over candidates with an empty query.
func NewSearch(candidates []Candidate) *Search {
	s := &Search{Full: append([]Candidate(nil), candidates...)}
	s.SetQuery("")
	return s
}

// SetQuery filters the candidates and moves the cursor to the best match.
func (s *Search) SetQuery(query string) {
	s.Query = query
	s.Items = FilterCandidates(s.Full, query)
	s.Cursor = BestMatchIndex(s.Items, query)
}

// Selected returns the candidate under the cursor.
func (s *Search) Selected() (Candidate, bool) {
	if s.Cursor < 0 || s.Cursor >= len(s.Items) {
		return Candidate{}, false
	}
	return s.Items[s.Cursor], true
}

// MoveCursor moves the cursor by delta, clamped to the matches.
func (s *Search) MoveCursor(delta int) bool {
	if len(s.Items) == 0 {
		s.Cursor = -1
		return false
	}
	old := s.Cursor
	s.Cursor += delta
	if s.Cursor < 0 {
		s.Cursor = 0
	}
	if s.Cursor >= len(s.Items) {
		s.Cursor = len(s.Items) - 1
	}
	return s.Cursor != old
}

// FilterCandidates returns the candidates matching query. Fuzzy label
// matches are preferred; substring matches on label or code are the
// fallback.
func FilterCandidates(items []Candidate, query string) []Candidate {
	trimmed := strings.TrimSpace(query)
	if trimmed == "" {
		return append([]Candidate(nil), items...)
	}
	labels := make([]string, len(items))
	for i, item := range items {
		labels[i] = item.Label
	}
	ranks := fuzzy.RankFindNormalizedFold(trimmed, labels)
	if len(ranks) > 0 {
		matches := make(map[int]struct{}, len(ranks))
		for _, rank := range ranks {
			matches[rank.OriginalIndex] = struct{}{}
		}
		filtered := make([]Candidate, 0, len(matches))
		for idx, item := range items {
			if _, ok := matches[idx]; ok {
				filtered = append(filtered, item)
			}
		}
		if len(filtered) > 0 {
			return filtered
		}
	}
	lower := strings.ToLower(trimmed)
	filtered := make([]Candidate, 0, len(items))
	for _, item := range items {
		if strings.Contains(strings.ToLower(item.Label), lower) || strings.Contains(strings.ToLower(string(item.Code)), lower) {
			filtered = append(filtered, item)
		}
	}
	return filtered
}

// BestMatchIndex returns the best index for query among items, or -1 when
// items is empty.
func BestMatchIndex(items []Candidate, query string) int {
	if len(items) == 0 {
		return -1
	}
	trimmed := strings.TrimSpace(query)
	if trimmed == "" {
		return 0
	}
	lower := strings.ToLower(trimmed)
	for i, item := range items {
		if strings.EqualFold(item.Label, trimmed) || strings.EqualFold(string(item.Code), trimmed) {
			return i
		}
	}
	for i, item := range items {
		if strings.HasPrefix(strings.ToLower(item.Label), lower) {
			return i
		}
	}
	for i, item := range items {
		if strings.HasPrefix(strings.ToLower(string(item.Code)), lower) {
			return i
		}
	}
	labels := make([]string, len(items))
	for i, item := range items {
		labels[i] = item.Label
	}
	ranks := fuzzy.RankFindNormalizedFold(trimmed, labels)
	if len(ranks) == 0 {
		return 0
	}
	best := ranks[0]
	for _, rank := range ranks[1:] {
		if rank.Distance < best.Distance {
			best = rank
			continue
		}
		if rank.Distance == best.Distance && rank.OriginalIndex < best.OriginalIndex {
			best = rank
		}
	}
	if best.OriginalIndex < 0 || best.OriginalIndex >= len(items) {
		return 0
	}
	return best.OriginalIndex
}
