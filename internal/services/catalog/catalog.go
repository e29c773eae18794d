package catalog

import "strings"

type Product struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Link        string  `json:"link"`
	Status      string  `json:"status,omitempty"`
	Category    string  `json:"category"`
	Rating      float64 `json:"rating"`
	Users       int     `json:"users"`
	Tag         string  `json:"tag"`
	Parent      string  `json:"parent,omitempty"`
}

type Query struct {
	Search  string
	Status  string
	Tag     string
	Page    int
	PerPage int
}

type Page struct {
	Items     []Product `json:"items"`
	Total     int       `json:"total"`
	Page      int       `json:"page"`
	PageCount int       `json:"pageCount"`
}

// Catalog is a static in-memory product list with client-style
// filtering and pagination.
type Catalog struct {
	products []Product
}

func New() *Catalog {
	return &Catalog{products: products}
}

func (c *Catalog) Find(q Query) Page {
	filtered := make([]Product, 0, len(c.products))
	term := strings.ToLower(q.Search)

	for _, p := range c.products {
		if q.Status != "" && q.Status != "all" && p.Status != q.Status {
			continue
		}
		if q.Tag != "" && q.Tag != "all" && p.Tag != q.Tag {
			continue
		}
		if term != "" && !matches(p, term) {
			continue
		}
		filtered = append(filtered, p)
	}

	perPage := q.PerPage
	if perPage <= 0 {
		perPage = 9
	}
	page := q.Page
	if page <= 0 {
		page = 1
	}

	pageCount := (len(filtered) + perPage - 1) / perPage
	start := (page - 1) * perPage
	if start > len(filtered) {
		start = len(filtered)
	}
	end := start + perPage
	if end > len(filtered) {
		end = len(filtered)
	}

	return Page{
		Items:     filtered[start:end],
		Total:     len(filtered),
		Page:      page,
		PageCount: pageCount,
	}
}

func matches(p Product, term string) bool {
	for _, field := range []string{p.Name, p.Description, p.Category, p.Status, p.Tag, p.Parent} {
		if strings.Contains(strings.ToLower(field), term) {
			return true
		}
	}
	return false
}

func (c *Catalog) Statuses() []string {
	return uniqueNonEmpty(c.products, func(p Product) string { return p.Status })
}

func (c *Catalog) Tags() []string {
	return uniqueNonEmpty(c.products, func(p Product) string { return p.Tag })
}

func uniqueNonEmpty(products []Product, get func(Product) string) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, p := range products {
		v := get(p)
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
