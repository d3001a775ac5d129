package domain

// ResultStats summarises the repositories currently held in the search results.
type ResultStats struct {
	Count       int            `json:"count"`
	TotalStars  int            `json:"total_stars"`
	MeanStars   float64        `json:"mean_stars"`
	MedianStars float64        `json:"median_stars"`
	MeanForks   float64        `json:"mean_forks"`
	Languages   map[string]int `json:"languages"`
}
