package classify

import (
	"sort"
	"strings"

	"github.com/geocat/catalog-extractor/models"
	"github.com/geocat/catalog-extractor/pkg/score"
)

// Stats derives the run statistics purely from the finalized record list and
// the classification index. Nothing is cached between runs.
func Stats(records []models.DatasetRecord, index map[string][]string, topKeywordLimit int) models.Statistics {
	stats := models.Statistics{
		ByCategory: make(map[string]int, len(index)),
	}
	for cat, ids := range index {
		stats.ByCategory[cat] = len(ids)
	}

	counts := make(map[string]int)
	for i := range records {
		rec := &records[i]

		switch score.Tier(rec.ConfidenceScore) {
		case score.TierHigh:
			stats.Quality.HighQuality++
		case score.TierMedium:
			stats.Quality.MediumQuality++
		default:
			stats.Quality.LowQuality++
		}

		if rec.Title != "" {
			stats.Completeness.WithTitles++
		}
		if rec.Description != "" {
			stats.Completeness.WithDescriptions++
		}
		if len(rec.Tags) > 0 {
			stats.Completeness.WithTags++
		}
		if rec.URL != "" {
			stats.Completeness.WithURLs++
		}
		if rec.ThumbnailURL != "" {
			stats.Completeness.WithThumbnails++
		}

		countWords(counts, rec.Title)
		countWords(counts, rec.Description)
	}

	stats.TopKeywords = topKeywords(counts, topKeywordLimit)
	return stats
}

// countWords tallies stopword-filtered word frequencies from text.
func countWords(counts map[string]int, text string) {
	for _, word := range strings.Fields(strings.ToLower(text)) {
		word = strings.TrimFunc(word, func(r rune) bool {
			return ('a' > r || r > 'z') && ('0' > r || r > '9')
		})
		if word == "" || isStopword(word) {
			continue
		}
		counts[word]++
	}
}

// topKeywords returns the limit most frequent words, ordered by count
// descending then word ascending so output is deterministic.
func topKeywords(counts map[string]int, limit int) []models.KeywordCount {
	if limit <= 0 || len(counts) == 0 {
		return nil
	}
	all := make([]models.KeywordCount, 0, len(counts))
	for word, count := range counts {
		all = append(all, models.KeywordCount{Word: word, Count: count})
	}
	sort.Slice(all, func(i, j int) bool {
		if all[i].Count != all[j].Count {
			return all[i].Count > all[j].Count
		}
		return all[i].Word < all[j].Word
	})
	if len(all) > limit {
		all = all[:limit]
	}
	return all
}
