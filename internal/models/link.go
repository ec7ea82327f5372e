package models

import "time"

// Link is the index's record tying an indexed item back to its source row
type Link struct {
	LinkID      int64      `json:"link_id" db:"link_id"`
	URL         string     `json:"url" db:"url"`
	Route       string     `json:"route" db:"route"`
	Title       string     `json:"title" db:"title"`
	Description string     `json:"description" db:"description"`
	TypeTitle   string     `json:"type_title" db:"type_title"`
	Language    string     `json:"language" db:"language"`
	State       int        `json:"state" db:"state"`
	Access      int        `json:"access" db:"access"`
	Taxonomies  []Taxonomy `json:"taxonomies" db:"taxonomies"`
	Robots      string     `json:"robots,omitempty" db:"robots"`
	IndexDate   time.Time  `json:"indexdate" db:"indexdate"`
}

// SearchHit is one visible link matched by a search
type SearchHit struct {
	Link
	Score float64 `json:"score"`
}

// IndexRun summarizes one full or incremental indexing pass
type IndexRun struct {
	Since      *time.Time `json:"since,omitempty"`
	Total      int        `json:"total"`
	Indexed    int        `json:"indexed"`
	Failed     int        `json:"failed"`
	DurationMs int64      `json:"duration_ms"`
}
