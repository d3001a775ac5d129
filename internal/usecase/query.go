package usecase

import (
	"fmt"
	"strings"
	"time"
)

// TrendingPageSize is the fixed page size of trending queries.
const TrendingPageSize = 20

// minStars filters derived queries down to repositories with some traction.
const minStars = "stars:>10"

// Timeframe selects how far back a trending query looks.
type Timeframe string

const (
	Daily   Timeframe = "daily"
	Weekly  Timeframe = "weekly"
	Monthly Timeframe = "monthly"
)

// Days returns the lookback window in days. Unknown timeframes count as daily.
func (t Timeframe) Days() int {
	switch t {
	case Weekly:
		return 7
	case Monthly:
		return 30
	default:
		return 1
	}
}

// ParseTimeframe validates s. An empty string yields Daily.
func ParseTimeframe(s string) (Timeframe, error) {
	switch t := Timeframe(strings.ToLower(strings.TrimSpace(s))); t {
	case "":
		return Daily, nil
	case Daily, Weekly, Monthly:
		return t, nil
	default:
		return "", fmt.Errorf("unknown timeframe %q (want daily, weekly or monthly)", s)
	}
}

// TrendingSince returns the creation-date lower bound for a trending query
// issued at now, formatted as YYYY-MM-DD in UTC.
func TrendingSince(now time.Time, t Timeframe) string {
	return now.UTC().AddDate(0, 0, -t.Days()).Format("2006-01-02")
}

// TrendingQuery builds the search query for repositories created since the
// start of timeframe.
func TrendingQuery(now time.Time, t Timeframe) string {
	return fmt.Sprintf("created:>%s %s", TrendingSince(now, t), minStars)
}

// LanguageQuery builds the search query for repositories in language.
func LanguageQuery(language string) string {
	return fmt.Sprintf("language:%s %s", language, minStars)
}

// LanguageLabel is the query label shown for language results.
func LanguageLabel(language string) string {
	return language + " repositories"
}
