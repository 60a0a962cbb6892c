// Package model defines the DTOs mirrored from the commerce API.
// None of these types are owned or validated locally: they are overwritten
// by every fetch.
package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product is a catalog item. Read-only from the client's perspective.
type Product struct {
	ID                 string           `json:"_id"`
	Title              string           `json:"title"`
	Slug               string           `json:"slug,omitempty"`
	Description        string           `json:"description,omitempty"`
	Price              decimal.Decimal  `json:"price"`
	PriceAfterDiscount *decimal.Decimal `json:"priceAfterDiscount,omitempty"`
	ImageCover         string           `json:"imageCover,omitempty"`
	Images             []string         `json:"images,omitempty"`
	Quantity           int              `json:"quantity"` // units in stock
	Sold               int              `json:"sold,omitempty"`
	RatingsAverage     float64          `json:"ratingsAverage"`
	RatingsQuantity    int              `json:"ratingsQuantity"`
	Category           *Category        `json:"category,omitempty"`
	Subcategories      []Subcategory    `json:"subcategory,omitempty"`
	Brand              *Brand           `json:"brand,omitempty"`
	CreatedAt          *time.Time       `json:"createdAt,omitempty"`
	UpdatedAt          *time.Time       `json:"updatedAt,omitempty"`
}

// EffectivePrice returns the discounted price when the API reports one.
func (p *Product) EffectivePrice() decimal.Decimal {
	if p.PriceAfterDiscount != nil && p.PriceAfterDiscount.IsPositive() {
		return *p.PriceAfterDiscount
	}
	return p.Price
}

// InStock reports whether the API lists remaining units.
func (p *Product) InStock() bool {
	return p.Quantity > 0
}

// Category is a top-level product grouping.
type Category struct {
	ID        string     `json:"_id"`
	Name      string     `json:"name"`
	Slug      string     `json:"slug,omitempty"`
	Image     string     `json:"image,omitempty"`
	CreatedAt *time.Time `json:"createdAt,omitempty"`
	UpdatedAt *time.Time `json:"updatedAt,omitempty"`
}

// Subcategory belongs to exactly one Category.
type Subcategory struct {
	ID       string `json:"_id"`
	Name     string `json:"name"`
	Slug     string `json:"slug,omitempty"`
	Category string `json:"category,omitempty"` // parent category id
}

// Brand is a product manufacturer.
type Brand struct {
	ID        string     `json:"_id"`
	Name      string     `json:"name"`
	Slug      string     `json:"slug,omitempty"`
	Image     string     `json:"image,omitempty"`
	CreatedAt *time.Time `json:"createdAt,omitempty"`
	UpdatedAt *time.Time `json:"updatedAt,omitempty"`
}

// ProductFilter narrows a product listing. At most one field is used;
// precedence is Brand, Category, Subcategory.
type ProductFilter struct {
	Brand       string `json:"brand,omitempty"`
	Category    string `json:"category,omitempty"`
	Subcategory string `json:"subcategory,omitempty"`
}

// IsZero reports whether no filter is set.
func (f ProductFilter) IsZero() bool {
	return f.Brand == "" && f.Category == "" && f.Subcategory == ""
}

// Metadata is the pagination block of list responses.
type Metadata struct {
	CurrentPage   int `json:"currentPage"`
	NumberOfPages int `json:"numberOfPages"`
	Limit         int `json:"limit"`
	NextPage      int `json:"nextPage,omitempty"`
	PrevPage      int `json:"prevPage,omitempty"`
}

// List is the envelope the API wraps collections in.
type List[T any] struct {
	Results  int       `json:"results"`
	Metadata *Metadata `json:"metadata,omitempty"`
	Data     []T       `json:"data"`
}

// Single is the envelope the API wraps single resources in.
type Single[T any] struct {
	Data T `json:"data"`
}
