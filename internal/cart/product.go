package cart

import (
	"encoding/json"
	"strings"
)

// Product is a catalog entry as served by the product API. Prices and like
// counts are minor currency units. Both are pointers so that an absent field
// can be told apart from an explicit zero.
type Product struct {
	ID          string
	Description string
	Price       *int64
	Likes       *int64
	Tags        []Tag
	Attrs       map[string]json.RawMessage
}

// Tag is a product tag with a display title.
type Tag struct {
	Title string `json:"title"`
}

// UnitPrice resolves the effective price for cart math: the price when the
// API provided one, else the like count, else zero.
func (p *Product) UnitPrice() int64 {
	if p.Price != nil {
		return *p.Price
	}
	if p.Likes != nil {
		return *p.Likes
	}
	return 0
}

// HasTag reports whether any tag title contains the given substring.
// An empty substring matches every product.
func (p *Product) HasTag(substring string) bool {
	if substring == "" {
		return true
	}
	needle := strings.ToLower(substring)
	for _, tag := range p.Tags {
		if strings.Contains(strings.ToLower(tag.Title), needle) {
			return true
		}
	}
	return false
}

// productWire is the upstream JSON shape. Unknown fields are retained in
// Attrs so the storefront can pass through catalog data it does not model.
type productWire struct {
	ID          string `json:"_id"`
	Description string `json:"description,omitempty"`
	Price       *int64 `json:"price,omitempty"`
	Likes       *int64 `json:"likes,omitempty"`
	Tags        []Tag  `json:"tags,omitempty"`
}

func (p *Product) UnmarshalJSON(data []byte) error {
	var w productWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	delete(raw, "_id")
	delete(raw, "description")
	delete(raw, "price")
	delete(raw, "likes")
	delete(raw, "tags")
	if len(raw) == 0 {
		raw = nil
	}

	p.ID = w.ID
	p.Description = w.Description
	p.Price = w.Price
	p.Likes = w.Likes
	p.Tags = w.Tags
	p.Attrs = raw
	return nil
}

func (p Product) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(p.Attrs)+5)
	for k, v := range p.Attrs {
		out[k] = v
	}
	out["_id"] = p.ID
	if p.Description != "" {
		out["description"] = p.Description
	}
	if p.Price != nil {
		out["price"] = *p.Price
	}
	if p.Likes != nil {
		out["likes"] = *p.Likes
	}
	if len(p.Tags) > 0 {
		out["tags"] = p.Tags
	}
	return json.Marshal(out)
}
