package models

import "strings"

// MetaContext is the instruction group for fields weighted as metadata
const MetaContext = "metadata"

// Taxonomy is a facet attached to an indexed item, e.g. Language/en-GB
type Taxonomy struct {
	Branch string `json:"branch"`
	Title  string `json:"title"`
}

// String renders the taxonomy as "Branch:Title", the form stored on links
func (t Taxonomy) String() string {
	return t.Branch + ":" + t.Title
}

// ParseTaxonomy is the inverse of Taxonomy.String
func ParseTaxonomy(s string) Taxonomy {
	branch, title, _ := strings.Cut(s, ":")
	return Taxonomy{Branch: branch, Title: title}
}

// Metadata holds free-form metadata of an item (author, keywords, description)
type Metadata map[string]string

// Get returns the value for key, or "" when unset
func (m Metadata) Get(key string) string {
	if m == nil {
		return ""
	}
	return m[key]
}

// Result is one indexable item. It is built fresh from an article row
// for every indexing pass and never persisted on its own.
type Result struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	Body        string `json:"body"`
	State       int    `json:"state"`
	Access      int    `json:"access"`
	Language    string `json:"language"`
	Manual      string `json:"manual"`
	Heading     string `json:"heading"`
	Filename    string `json:"filename"`
	ManualTitle string `json:"mantitle"`

	// No category hierarchy exists for manual articles, so this stays nil
	CatState *int `json:"-"`

	TypeTitle string `json:"type_title"`
	Layout    string `json:"layout"`

	URL         string   `json:"url"`
	Route       string   `json:"route"`
	Params      Params   `json:"params"`
	Metadata    Metadata `json:"metadata,omitempty"`
	MetaAuthor  string   `json:"metaauthor,omitempty"`
	Description string   `json:"description,omitempty"`

	// Plain text of Body, filled in by content extras
	Text string `json:"-"`

	Instructions map[string][]string `json:"-"`
	Taxonomies   []Taxonomy          `json:"taxonomies,omitempty"`
}

// SetLanguage defaults an empty language to "*" (all languages)
func (r *Result) SetLanguage() {
	if r.Language == "" {
		r.Language = "*"
	}
}

// AddInstruction declares field as searchable within the given group
func (r *Result) AddInstruction(group, field string) {
	if r.Instructions == nil {
		r.Instructions = make(map[string][]string)
	}
	for _, f := range r.Instructions[group] {
		if f == field {
			return
		}
	}
	r.Instructions[group] = append(r.Instructions[group], field)
}

// AddTaxonomy attaches a facet value; duplicates are ignored
func (r *Result) AddTaxonomy(branch, title string) {
	for _, t := range r.Taxonomies {
		if t.Branch == branch && t.Title == title {
			return
		}
	}
	r.Taxonomies = append(r.Taxonomies, Taxonomy{Branch: branch, Title: title})
}

// HasTaxonomy reports whether any value is attached under branch
func (r *Result) HasTaxonomy(branch string) bool {
	for _, t := range r.Taxonomies {
		if t.Branch == branch {
			return true
		}
	}
	return false
}

// StateRecord is the published/access snapshot of one article
type StateRecord struct {
	ID        int64
	State     int
	Access    int
	CatState  *int
	CatAccess *int
}
