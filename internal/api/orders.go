package api

import (
	"context"
	"net/http"
	"net/url"

	"storefront/internal/model"
)

// ListOrders returns all orders visible to the token.
func (c *Client) ListOrders(ctx context.Context, token string) (*model.List[model.Order], error) {
	if err := requireToken(token); err != nil {
		return nil, err
	}
	var out model.List[model.Order]
	if err := c.do(ctx, request{resource: "orders", method: http.MethodGet, path: "/orders", token: token}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListUserOrders returns one user's orders. This endpoint answers with a
// bare JSON array rather than the list envelope.
func (c *Client) ListUserOrders(ctx context.Context, token, userID string) ([]model.Order, error) {
	if err := requireToken(token); err != nil {
		return nil, err
	}
	seg, err := segment("user id", userID)
	if err != nil {
		return nil, err
	}
	var out []model.Order
	if err := c.do(ctx, request{resource: "orders", method: http.MethodGet, path: "/orders/user/" + seg, token: token}, &out); err != nil {
		return nil, err
	}
	return out, nil
}

type orderBody struct {
	ShippingAddress model.ShippingAddress `json:"shippingAddress"`
}

// CreateCashOrder places a cash-on-delivery order for the cart.
func (c *Client) CreateCashOrder(ctx context.Context, token, cartID string, addr model.ShippingAddress) (*model.OrderResponse, error) {
	if err := requireToken(token); err != nil {
		return nil, err
	}
	seg, err := segment("cart id", cartID)
	if err != nil {
		return nil, err
	}

	var out model.OrderResponse
	err = c.do(ctx, request{
		resource: "orders",
		method:   http.MethodPost,
		path:     "/orders/" + seg,
		body:     orderBody{ShippingAddress: addr},
		token:    token,
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateCheckoutSession opens a hosted payment session for the cart. The
// payment provider sends the buyer back to returnURL when done. A zero
// address sends no body.
func (c *Client) CreateCheckoutSession(ctx context.Context, token, cartID, returnURL string, addr model.ShippingAddress) (*model.CheckoutSessionResponse, error) {
	if err := requireToken(token); err != nil {
		return nil, err
	}
	seg, err := segment("cart id", cartID)
	if err != nil {
		return nil, err
	}
	if returnURL == "" {
		return nil, model.NewPreconditionError("return url is required")
	}

	r := request{
		resource: "checkout",
		method:   http.MethodPost,
		path:     "/orders/checkout-session/" + seg,
		query:    url.Values{"url": {returnURL}},
		token:    token,
	}
	if addr != (model.ShippingAddress{}) {
		r.body = orderBody{ShippingAddress: addr}
	}

	var out model.CheckoutSessionResponse
	if err := c.do(ctx, r, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListAddresses returns the saved shipping addresses.
func (c *Client) ListAddresses(ctx context.Context, token string) (*model.AddressList, error) {
	if err := requireToken(token); err != nil {
		return nil, err
	}
	var out model.AddressList
	if err := c.do(ctx, request{resource: "addresses", method: http.MethodGet, path: "/addresses", token: token}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetAddress returns one saved address.
func (c *Client) GetAddress(ctx context.Context, token, id string) (*model.Address, error) {
	if err := requireToken(token); err != nil {
		return nil, err
	}
	seg, err := segment("address id", id)
	if err != nil {
		return nil, err
	}
	var out model.Single[model.Address]
	if err := c.do(ctx, request{resource: "addresses", method: http.MethodGet, path: "/addresses/" + seg, token: token}, &out); err != nil {
		return nil, err
	}
	return &out.Data, nil
}

// AddAddress saves an address and returns the updated list.
func (c *Client) AddAddress(ctx context.Context, token string, in model.AddressInput) (*model.AddressList, error) {
	if err := requireToken(token); err != nil {
		return nil, err
	}
	var out model.AddressList
	err := c.do(ctx, request{resource: "addresses", method: http.MethodPost, path: "/addresses", body: in, token: token}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// RemoveAddress deletes an address and returns the remaining list.
func (c *Client) RemoveAddress(ctx context.Context, token, id string) (*model.AddressList, error) {
	if err := requireToken(token); err != nil {
		return nil, err
	}
	seg, err := segment("address id", id)
	if err != nil {
		return nil, err
	}
	var out model.AddressList
	err = c.do(ctx, request{resource: "addresses", method: http.MethodDelete, path: "/addresses/" + seg, token: token}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}
