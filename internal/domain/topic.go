package domain

import "strconv"

// Topic is one ranked content candidate for a given day.
type Topic struct {
	Score   int    `json:"score"`
	Title   string `json:"title"`
	Topic   string `json:"topic"`
	Angle   string `json:"angle"`
	Summary string `json:"summary"`
	URL     string `json:"url"`
	Source  string `json:"source"`
}

// Artifact records one generated post: the parsed headline, the output
// directory and every image written into it.
type Artifact struct {
	Title  string   `json:"title"`
	Tags   string   `json:"tags"`
	Dir    string   `json:"dir"`
	Images []string `json:"images"`
}

// DayRecord is the per-day tracking entry. Generated and Published are
// keyed by the 1-based topic index rendered as a decimal string.
type DayRecord struct {
	DigestFile string              `json:"digest_file"`
	Topics     []Topic             `json:"topics"`
	Generated  map[string]Artifact `json:"generated"`
	Published  map[string]bool     `json:"published"`
}

// TopicStatus enumerates lifecycle milestones of a ranked topic.
type TopicStatus string

const (
	StatusRanked    TopicStatus = "ranked"
	StatusGenerated TopicStatus = "generated"
	StatusPublished TopicStatus = "published"
)

// IndexKey renders a 1-based topic index as the map key used in tracking data.
func IndexKey(n int) string {
	return strconv.Itoa(n)
}

// HasTopic reports whether n addresses a ranked topic of the day.
func (r *DayRecord) HasTopic(n int) bool {
	return n >= 1 && n <= len(r.Topics)
}

// StatusOf derives the lifecycle status of topic n. Published wins over
// generated, generated over merely ranked.
func (r *DayRecord) StatusOf(n int) TopicStatus {
	key := IndexKey(n)
	if r.Published[key] {
		return StatusPublished
	}
	if _, ok := r.Generated[key]; ok {
		return StatusGenerated
	}
	return StatusRanked
}
