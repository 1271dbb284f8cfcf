package model

// Event is a normalized entry of the published feed.
//
// DateStart and DateEnd keep the date strings exactly as the content
// database delivered them (either "2006-01-02" or an RFC3339 date-time), so
// the artifact round-trips without reformatting. Status and DateEnd are
// serialized as null when unresolved.
type Event struct {
	ID        string   `json:"id"`
	Title     string   `json:"title"`
	DateStart string   `json:"dateStart"`
	DateEnd   *string  `json:"dateEnd"`
	Language  string   `json:"language"`
	Time      string   `json:"time"`
	Price     string   `json:"price"`
	Status    *string  `json:"status"`
	Place     string   `json:"place"`
	TypeTags  []string `json:"typeTags"`
}

// StatusText returns the status or "" when absent.
func (e Event) StatusText() string {
	if e.Status == nil {
		return ""
	}
	return *e.Status
}
