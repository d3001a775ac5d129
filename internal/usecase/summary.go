package usecase

import (
	"fmt"

	"github.com/montanaflynn/stats"

	"github.com/naka-gawa/gh-search/internal/domain"
)

// unknownLanguage buckets repositories GitHub could not classify.
const unknownLanguage = "(none)"

// Summarize computes aggregate statistics over repos.
func Summarize(repos []domain.Repository) (domain.ResultStats, error) {
	summary := domain.ResultStats{
		Count:     len(repos),
		Languages: map[string]int{},
	}
	if len(repos) == 0 {
		return summary, nil
	}

	starData := make(stats.Float64Data, 0, len(repos))
	forkData := make(stats.Float64Data, 0, len(repos))
	for _, r := range repos {
		summary.TotalStars += r.Stars
		starData = append(starData, float64(r.Stars))
		forkData = append(forkData, float64(r.Forks))

		lang := unknownLanguage
		if r.Language != nil && *r.Language != "" {
			lang = *r.Language
		}
		summary.Languages[lang]++
	}

	var err error
	if summary.MeanStars, err = stats.Mean(starData); err != nil {
		return domain.ResultStats{}, fmt.Errorf("mean stars: %w", err)
	}
	if summary.MedianStars, err = stats.Median(starData); err != nil {
		return domain.ResultStats{}, fmt.Errorf("median stars: %w", err)
	}
	if summary.MeanForks, err = stats.Mean(forkData); err != nil {
		return domain.ResultStats{}, fmt.Errorf("mean forks: %w", err)
	}
	return summary, nil
}

// Summary computes statistics over the current search results.
func (s *Store) Summary() (domain.ResultStats, error) {
	return Summarize(s.State().SearchResults)
}
