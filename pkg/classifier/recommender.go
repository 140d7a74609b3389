package classifier

import (
	"sort"
	"strings"
)

// MaxSuggestedTags bounds every recommendation list.
const MaxSuggestedTags = 5

// NewTagPenalty discounts suggestions that would create a brand-new tag, so
// reinforcing the existing taxonomy always beats inventing names for it.
const NewTagPenalty = 0.8

// TagRecommender proposes tags for a document from its extracted keywords.
// Keywords matching a known tag surface the tag itself; the rest are offered
// as new-tag candidates at a discount.
type TagRecommender struct {
	extractor *KeywordExtractor
	maxTags   int
}

// NewTagRecommender builds a recommender on top of a keyword extractor.
// maxTags <= 0 falls back to MaxSuggestedTags; values above the cap are
// clipped to it.
func NewTagRecommender(extractor *KeywordExtractor, maxTags int) *TagRecommender {
	if maxTags <= 0 || maxTags > MaxSuggestedTags {
		maxTags = MaxSuggestedTags
	}
	return &TagRecommender{extractor: extractor, maxTags: maxTags}
}

// Recommend returns at most maxTags suggestions sorted by descending score,
// ties broken by keyword extraction order. Empty text yields an empty slice,
// never an error. Repeating the call with the same inputs yields the
// identical list.
func (r *TagRecommender) Recommend(text string, knownTags []string, bg IDFSource) []TagSuggestion {
	keywords := r.extractor.Extract(text, r.maxTags*2, bg)
	if len(keywords) == 0 {
		return nil
	}

	type known struct {
		name   string
		folded string
	}
	knowns := make([]known, 0, len(knownTags))
	for _, tag := range knownTags {
		folded := strings.ToLower(strings.TrimSpace(tag))
		if folded == "" {
			continue
		}
		knowns = append(knowns, known{name: strings.TrimSpace(tag), folded: folded})
	}

	usedTags := make(map[string]struct{}, len(knowns))
	suggestions := make([]TagSuggestion, 0, len(keywords))
	for _, kw := range keywords {
		folded := strings.ToLower(kw.Term)
		matched := false
		for _, kt := range knowns {
			if _, done := usedTags[kt.folded]; done {
				continue
			}
			if kt.folded == folded || strings.Contains(kt.folded, folded) || strings.Contains(folded, kt.folded) {
				usedTags[kt.folded] = struct{}{}
				suggestions = append(suggestions, TagSuggestion{Tag: kt.name, Score: kw.Weight, Known: true})
				matched = true
				break
			}
		}
		if !matched {
			suggestions = append(suggestions, TagSuggestion{Tag: kw.Term, Score: kw.Weight * NewTagPenalty})
		}
	}

	sort.SliceStable(suggestions, func(i, j int) bool { return suggestions[i].Score > suggestions[j].Score })
	if len(suggestions) > r.maxTags {
		suggestions = suggestions[:r.maxTags]
	}
	for i := range suggestions {
		suggestions[i].Rank = i + 1
	}
	return suggestions
}
