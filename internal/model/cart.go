package model

import (
	"bytes"
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// ProductRef is a cart or order line's product reference.
// Mutation responses carry a bare product id; fetches embed the product.
type ProductRef struct {
	ID      string
	Product *Product
}

// UnmarshalJSON accepts either "id" or a product object.
func (r *ProductRef) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		r.Product = nil
		return json.Unmarshal(data, &r.ID)
	}
	if bytes.Equal(data, []byte("null")) {
		*r = ProductRef{}
		return nil
	}
	var p Product
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	r.ID = p.ID
	r.Product = &p
	return nil
}

// MarshalJSON writes the embedded product when present, else the bare id.
func (r ProductRef) MarshalJSON() ([]byte, error) {
	if r.Product != nil {
		return json.Marshal(r.Product)
	}
	return json.Marshal(r.ID)
}

// CartLine is one product-and-quantity entry in a cart.
type CartLine struct {
	ID      string          `json:"_id"`
	Product ProductRef      `json:"product"`
	Count   int             `json:"count"`
	Price   decimal.Decimal `json:"price"` // unit price snapshot
}

// Subtotal is unit price times count.
func (l CartLine) Subtotal() decimal.Decimal {
	return l.Price.Mul(decimal.NewFromInt(int64(l.Count)))
}

// Cart is the server-side cart owned by the signed-in user.
type Cart struct {
	ID             string          `json:"_id"`
	Owner          string          `json:"cartOwner"`
	Products       []CartLine      `json:"products"`
	TotalCartPrice decimal.Decimal `json:"totalCartPrice"`
	CreatedAt      *time.Time      `json:"createdAt,omitempty"`
	UpdatedAt      *time.Time      `json:"updatedAt,omitempty"`
}

// Line returns the line holding productID, if any.
func (c *Cart) Line(productID string) (CartLine, bool) {
	if c == nil {
		return CartLine{}, false
	}
	for _, l := range c.Products {
		if l.Product.ID == productID {
			return l, true
		}
	}
	return CartLine{}, false
}

// CartResponse is the envelope returned by every /cart endpoint.
type CartResponse struct {
	Status         string `json:"status"`
	Message        string `json:"message,omitempty"`
	NumOfCartItems int    `json:"numOfCartItems"`
	CartID         string `json:"cartId,omitempty"`
	Data           *Cart  `json:"data"`
}

// ID returns the cart id from either the envelope or the embedded cart.
func (r *CartResponse) ID() string {
	if r == nil {
		return ""
	}
	if r.CartID != "" {
		return r.CartID
	}
	if r.Data != nil {
		return r.Data.ID
	}
	return ""
}

// Empty reports whether the cart holds no lines.
func (r *CartResponse) Empty() bool {
	if r == nil {
		return true
	}
	if r.NumOfCartItems > 0 {
		return false
	}
	return r.Data == nil || len(r.Data.Products) == 0
}

// WishlistResponse is returned by GET /wishlist.
type WishlistResponse struct {
	Status string    `json:"status"`
	Count  int       `json:"count"`
	Data   []Product `json:"data"`
}

// WishlistMutation is returned by POST/DELETE /wishlist; data holds product ids.
type WishlistMutation struct {
	Status  string   `json:"status"`
	Message string   `json:"message,omitempty"`
	Data    []string `json:"data"`
}
