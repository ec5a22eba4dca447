package domain

// Card is one supplementary knowledge card of a post.
type Card struct {
	Title   string
	Content string
}

// PostContent is the labelled structure recovered from model output:
// a headline, a feed caption and a deck of cards.
type PostContent struct {
	Title    string
	Subtitle string
	Body     string
	Tags     string
	Cards    []Card
}
