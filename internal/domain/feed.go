package domain

import "time"

// FeedArticle is one entry pulled from a subscribed feed.
type FeedArticle struct {
	Title     string
	Link      string
	Summary   string
	Published time.Time
}

// FeedUpdate groups the recent articles of a single feed.
type FeedUpdate struct {
	FeedTitle string
	FeedURL   string
	Articles  []FeedArticle
}

// ArticleReview is the model's take on a single feed article.
type ArticleReview struct {
	Translation string
	Summary     string
	Score       int
	Angle       string
}

// ScoredArticle is the persisted per-day scoring row, sorted by score
// when written. Field names mirror the on-disk collection.
type ScoredArticle struct {
	TitleEN   string `json:"title_en"`
	TitleCN   string `json:"title_cn"`
	SummaryCN string `json:"summary_cn"`
	Source    string `json:"source"`
	URL       string `json:"url"`
	Score     int    `json:"score"`
	Angle     string `json:"angle"`
}

// Topic converts a scored article into its ranked-topic form.
func (a ScoredArticle) Topic() Topic {
	return Topic{
		Score:   a.Score,
		Title:   a.TitleEN,
		Topic:   a.TitleCN,
		Angle:   a.Angle,
		Summary: a.SummaryCN,
		URL:     a.URL,
		Source:  a.Source,
	}
}
