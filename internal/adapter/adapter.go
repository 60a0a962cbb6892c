// Package adapter defines the interface between storefront pages and the
// commerce API. api.Client is the production implementation; Mock backs tests.
package adapter

import (
	"context"

	"storefront/internal/model"
)

// Commerce abstracts every call the storefront makes against the commerce API.
//
// Calls that act on the signed-in user take the raw token as an explicit
// argument. Implementations hold no per-user state.
type Commerce interface {
	Catalog
	Cart
	Wishlist
	Orders
	Addresses
	Auth
}

// Catalog covers the public product, category and brand reads.
type Catalog interface {
	ListProducts(ctx context.Context, filter model.ProductFilter) (*model.List[model.Product], error)
	GetProduct(ctx context.Context, id string) (*model.Product, error)
	ListCategories(ctx context.Context) (*model.List[model.Category], error)
	GetCategory(ctx context.Context, id string) (*model.Category, error)
	// ListSubcategories may return an empty list for a category without children.
	ListSubcategories(ctx context.Context, categoryID string) (*model.List[model.Subcategory], error)
	ListBrands(ctx context.Context) (*model.List[model.Brand], error)
	GetBrand(ctx context.Context, id string) (*model.Brand, error)
}

// Cart mutates the user's single server-side cart. Each mutation returns
// the cart as the server sees it after the change.
type Cart interface {
	GetCart(ctx context.Context, token string) (*model.CartResponse, error)
	AddToCart(ctx context.Context, token, productID string) (*model.CartResponse, error)
	UpdateCartItem(ctx context.Context, token, productID string, count int) (*model.CartResponse, error)
	RemoveCartItem(ctx context.Context, token, productID string) (*model.CartResponse, error)
	ClearCart(ctx context.Context, token string) (*model.StatusResponse, error)
}

// Wishlist mutations return only product ids; callers re-fetch for details.
type Wishlist interface {
	GetWishlist(ctx context.Context, token string) (*model.WishlistResponse, error)
	AddToWishlist(ctx context.Context, token, productID string) (*model.WishlistMutation, error)
	RemoveFromWishlist(ctx context.Context, token, productID string) (*model.WishlistMutation, error)
}

// Orders covers order history and the two checkout flows.
type Orders interface {
	ListOrders(ctx context.Context, token string) (*model.List[model.Order], error)
	ListUserOrders(ctx context.Context, token, userID string) ([]model.Order, error)
	// CreateCashOrder places a cash-on-delivery order from the cart.
	CreateCashOrder(ctx context.Context, token, cartID string, addr model.ShippingAddress) (*model.OrderResponse, error)
	// CreateCheckoutSession opens a hosted payment page. The buyer returns to returnURL.
	CreateCheckoutSession(ctx context.Context, token, cartID, returnURL string, addr model.ShippingAddress) (*model.CheckoutSessionResponse, error)
}

// Addresses manages saved shipping addresses.
type Addresses interface {
	ListAddresses(ctx context.Context, token string) (*model.AddressList, error)
	GetAddress(ctx context.Context, token, id string) (*model.Address, error)
	AddAddress(ctx context.Context, token string, in model.AddressInput) (*model.AddressList, error)
	RemoveAddress(ctx context.Context, token, id string) (*model.AddressList, error)
}

// Auth exchanges credentials for tokens and reads the current profile.
type Auth interface {
	SignIn(ctx context.Context, creds model.Credentials) (*model.AuthResponse, error)
	SignUp(ctx context.Context, in model.SignUpInput) (*model.AuthResponse, error)
	GetMe(ctx context.Context, token string) (*model.User, error)
}
