package domain

// RecommendationsPerList is the exact number of items in each 3S list.
const RecommendationsPerList = 3

// Recommendation is one Start, Stop or Spice-Up item.
type Recommendation struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// ThreeSRecommendations is the strategic Start/Stop/Spice-Up set.
type ThreeSRecommendations struct {
	Start          []Recommendation `json:"start"`
	Stop           []Recommendation `json:"stop"`
	SpiceUp        []Recommendation `json:"spiceUp"`
	ProcessingTime int64            `json:"processingTime"`
	Cached         bool             `json:"cached,omitempty"`
}
