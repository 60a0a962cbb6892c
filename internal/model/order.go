package model

import (
	"bytes"
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// PaymentMethod is how an order is settled.
type PaymentMethod string

const (
	PaymentCash PaymentMethod = "cash"
	PaymentCard PaymentMethod = "card"
)

// Address is a user-owned shipping address. Created or deleted, never edited.
type Address struct {
	ID      string `json:"_id"`
	Name    string `json:"name"`
	Details string `json:"details"`
	Phone   string `json:"phone"`
	City    string `json:"city"`
}

// Shipping converts a saved address to the order payload shape.
func (a Address) Shipping() ShippingAddress {
	return ShippingAddress{Details: a.Details, Phone: a.Phone, City: a.City}
}

// AddressInput is the body for POST /addresses.
type AddressInput struct {
	Name    string `json:"name"`
	Details string `json:"details"`
	Phone   string `json:"phone"`
	City    string `json:"city"`
}

// AddressList is returned by the address endpoints; mutations return the
// remaining list.
type AddressList struct {
	Status  string    `json:"status"`
	Message string    `json:"message,omitempty"`
	Results int       `json:"results,omitempty"`
	Data    []Address `json:"data"`
}

// ShippingAddress is the address snapshot attached to an order.
type ShippingAddress struct {
	Details string `json:"details"`
	Phone   string `json:"phone"`
	City    string `json:"city"`
}

// UserRef is an order owner: a bare id or an embedded user.
type UserRef struct {
	ID   string
	User *User
}

// UnmarshalJSON accepts either "id" or a user object.
func (r *UserRef) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		r.User = nil
		return json.Unmarshal(data, &r.ID)
	}
	if bytes.Equal(data, []byte("null")) {
		*r = UserRef{}
		return nil
	}
	var u User
	if err := json.Unmarshal(data, &u); err != nil {
		return err
	}
	r.ID = u.ID
	r.User = &u
	return nil
}

// MarshalJSON writes the embedded user when present, else the bare id.
func (r UserRef) MarshalJSON() ([]byte, error) {
	if r.User != nil {
		return json.Marshal(r.User)
	}
	return json.Marshal(r.ID)
}

// Order is created once by checkout and never mutated by the client.
type Order struct {
	ID                string           `json:"_id"`
	Number            int              `json:"id,omitempty"`
	User              UserRef          `json:"user"`
	CartItems         []CartLine       `json:"cartItems"`
	ShippingAddress   *ShippingAddress `json:"shippingAddress,omitempty"`
	TaxPrice          decimal.Decimal  `json:"taxPrice"`
	ShippingPrice     decimal.Decimal  `json:"shippingPrice"`
	TotalOrderPrice   decimal.Decimal  `json:"totalOrderPrice"`
	PaymentMethodType PaymentMethod    `json:"paymentMethodType,omitempty"`
	IsPaid            bool             `json:"isPaid"`
	IsDelivered       bool             `json:"isDelivered"`
	PaidAt            *time.Time       `json:"paidAt,omitempty"`
	CreatedAt         *time.Time       `json:"createdAt,omitempty"`
}

// OrderResponse is returned by POST /orders/{cartId}.
type OrderResponse struct {
	Status string `json:"status"`
	Data   *Order `json:"data"`
}

// CheckoutSession is the hosted payment session returned by the API.
type CheckoutSession struct {
	URL        string `json:"url"`
	ID         string `json:"id,omitempty"`
	SuccessURL string `json:"success_url,omitempty"`
	CancelURL  string `json:"cancel_url,omitempty"`
}

// CheckoutSessionResponse wraps CheckoutSession.
type CheckoutSessionResponse struct {
	Status  string           `json:"status"`
	Session *CheckoutSession `json:"session,omitempty"`
}

// RedirectURL returns the hosted checkout URL, or "" when none was issued.
func (r *CheckoutSessionResponse) RedirectURL() string {
	if r == nil || r.Session == nil {
		return ""
	}
	return r.Session.URL
}
