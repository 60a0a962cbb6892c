package api

import (
	"context"
	"net/http"

	"storefront/internal/model"
)

// GetCart returns the signed-in user's cart.
func (c *Client) GetCart(ctx context.Context, token string) (*model.CartResponse, error) {
	if err := requireToken(token); err != nil {
		return nil, err
	}
	var out model.CartResponse
	if err := c.do(ctx, request{resource: "cart", method: http.MethodGet, path: "/cart", token: token}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// AddToCart adds one unit of a product. Adding a product already in the
// cart increments its count server-side.
func (c *Client) AddToCart(ctx context.Context, token, productID string) (*model.CartResponse, error) {
	if err := requireToken(token); err != nil {
		return nil, err
	}
	if _, err := segment("product id", productID); err != nil {
		return nil, err
	}
	body := map[string]string{"productId": productID}

	var out model.CartResponse
	err := c.do(ctx, request{resource: "cart", method: http.MethodPost, path: "/cart", body: body, token: token}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateCartItem sets the count of a product line.
func (c *Client) UpdateCartItem(ctx context.Context, token, productID string, count int) (*model.CartResponse, error) {
	if err := requireToken(token); err != nil {
		return nil, err
	}
	seg, err := segment("product id", productID)
	if err != nil {
		return nil, err
	}
	body := map[string]int{"count": count}

	var out model.CartResponse
	err = c.do(ctx, request{resource: "cart", method: http.MethodPut, path: "/cart/" + seg, body: body, token: token}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// RemoveCartItem removes a product line.
func (c *Client) RemoveCartItem(ctx context.Context, token, productID string) (*model.CartResponse, error) {
	if err := requireToken(token); err != nil {
		return nil, err
	}
	seg, err := segment("product id", productID)
	if err != nil {
		return nil, err
	}

	var out model.CartResponse
	err = c.do(ctx, request{resource: "cart", method: http.MethodDelete, path: "/cart/" + seg, token: token}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// ClearCart empties the cart. The API answers with a bare status message.
func (c *Client) ClearCart(ctx context.Context, token string) (*model.StatusResponse, error) {
	if err := requireToken(token); err != nil {
		return nil, err
	}
	var out model.StatusResponse
	if err := c.do(ctx, request{resource: "cart", method: http.MethodDelete, path: "/cart", token: token}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetWishlist returns the wishlisted products.
func (c *Client) GetWishlist(ctx context.Context, token string) (*model.WishlistResponse, error) {
	if err := requireToken(token); err != nil {
		return nil, err
	}
	var out model.WishlistResponse
	if err := c.do(ctx, request{resource: "wishlist", method: http.MethodGet, path: "/wishlist", token: token}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// AddToWishlist adds a product. The response lists wishlisted product ids.
func (c *Client) AddToWishlist(ctx context.Context, token, productID string) (*model.WishlistMutation, error) {
	if err := requireToken(token); err != nil {
		return nil, err
	}
	if _, err := segment("product id", productID); err != nil {
		return nil, err
	}
	body := map[string]string{"productId": productID}

	var out model.WishlistMutation
	err := c.do(ctx, request{resource: "wishlist", method: http.MethodPost, path: "/wishlist", body: body, token: token}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// RemoveFromWishlist removes a product.
func (c *Client) RemoveFromWishlist(ctx context.Context, token, productID string) (*model.WishlistMutation, error) {
	if err := requireToken(token); err != nil {
		return nil, err
	}
	seg, err := segment("product id", productID)
	if err != nil {
		return nil, err
	}

	var out model.WishlistMutation
	err = c.do(ctx, request{resource: "wishlist", method: http.MethodDelete, path: "/wishlist/" + seg, token: token}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}
