package adapter

import (
	"context"
	"fmt"
	"sync"

	"storefront/internal/model"
)

// Mock implements Commerce for testing.
// Each method can be configured via function fields; unconfigured methods
// fail with an internal error. Every call is recorded by name.
type Mock struct {
	ListProductsFunc      func(ctx context.Context, filter model.ProductFilter) (*model.List[model.Product], error)
	GetProductFunc        func(ctx context.Context, id string) (*model.Product, error)
	ListCategoriesFunc    func(ctx context.Context) (*model.List[model.Category], error)
	GetCategoryFunc       func(ctx context.Context, id string) (*model.Category, error)
	ListSubcategoriesFunc func(ctx context.Context, categoryID string) (*model.List[model.Subcategory], error)
	ListBrandsFunc        func(ctx context.Context) (*model.List[model.Brand], error)
	GetBrandFunc          func(ctx context.Context, id string) (*model.Brand, error)

	GetCartFunc        func(ctx context.Context, token string) (*model.CartResponse, error)
	AddToCartFunc      func(ctx context.Context, token, productID string) (*model.CartResponse, error)
	UpdateCartItemFunc func(ctx context.Context, token, productID string, count int) (*model.CartResponse, error)
	RemoveCartItemFunc func(ctx context.Context, token, productID string) (*model.CartResponse, error)
	ClearCartFunc      func(ctx context.Context, token string) (*model.StatusResponse, error)

	GetWishlistFunc        func(ctx context.Context, token string) (*model.WishlistResponse, error)
	AddToWishlistFunc      func(ctx context.Context, token, productID string) (*model.WishlistMutation, error)
	RemoveFromWishlistFunc func(ctx context.Context, token, productID string) (*model.WishlistMutation, error)

	ListOrdersFunc            func(ctx context.Context, token string) (*model.List[model.Order], error)
	ListUserOrdersFunc        func(ctx context.Context, token, userID string) ([]model.Order, error)
	CreateCashOrderFunc       func(ctx context.Context, token, cartID string, addr model.ShippingAddress) (*model.OrderResponse, error)
	CreateCheckoutSessionFunc func(ctx context.Context, token, cartID, returnURL string, addr model.ShippingAddress) (*model.CheckoutSessionResponse, error)

	ListAddressesFunc func(ctx context.Context, token string) (*model.AddressList, error)
	GetAddressFunc    func(ctx context.Context, token, id string) (*model.Address, error)
	AddAddressFunc    func(ctx context.Context, token string, in model.AddressInput) (*model.AddressList, error)
	RemoveAddressFunc func(ctx context.Context, token, id string) (*model.AddressList, error)

	SignInFunc func(ctx context.Context, creds model.Credentials) (*model.AuthResponse, error)
	SignUpFunc func(ctx context.Context, in model.SignUpInput) (*model.AuthResponse, error)
	GetMeFunc  func(ctx context.Context, token string) (*model.User, error)

	mu    sync.Mutex
	calls []string
}

// Calls returns the names of the methods invoked so far, in order.
func (m *Mock) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.calls...)
}

// CallCount returns how many times the named method was invoked.
func (m *Mock) CallCount(name string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, c := range m.calls {
		if c == name {
			n++
		}
	}
	return n
}

func (m *Mock) record(name string) {
	m.mu.Lock()
	m.calls = append(m.calls, name)
	m.mu.Unlock()
}

func notConfigured(name string) error {
	return model.NewInternalError(fmt.Errorf("mock: %s not configured", name))
}

func (m *Mock) ListProducts(ctx context.Context, filter model.ProductFilter) (*model.List[model.Product], error) {
	m.record("ListProducts")
	if m.ListProductsFunc != nil {
		return m.ListProductsFunc(ctx, filter)
	}
	return nil, notConfigured("ListProducts")
}

func (m *Mock) GetProduct(ctx context.Context, id string) (*model.Product, error) {
	m.record("GetProduct")
	if m.GetProductFunc != nil {
		return m.GetProductFunc(ctx, id)
	}
	return nil, notConfigured("GetProduct")
}

func (m *Mock) ListCategories(ctx context.Context) (*model.List[model.Category], error) {
	m.record("ListCategories")
	if m.ListCategoriesFunc != nil {
		return m.ListCategoriesFunc(ctx)
	}
	return nil, notConfigured("ListCategories")
}

func (m *Mock) GetCategory(ctx context.Context, id string) (*model.Category, error) {
	m.record("GetCategory")
	if m.GetCategoryFunc != nil {
		return m.GetCategoryFunc(ctx, id)
	}
	return nil, notConfigured("GetCategory")
}

// ListSubcategories returns an empty list when unconfigured.
func (m *Mock) ListSubcategories(ctx context.Context, categoryID string) (*model.List[model.Subcategory], error) {
	m.record("ListSubcategories")
	if m.ListSubcategoriesFunc != nil {
		return m.ListSubcategoriesFunc(ctx, categoryID)
	}
	return &model.List[model.Subcategory]{}, nil
}

func (m *Mock) ListBrands(ctx context.Context) (*model.List[model.Brand], error) {
	m.record("ListBrands")
	if m.ListBrandsFunc != nil {
		return m.ListBrandsFunc(ctx)
	}
	return nil, notConfigured("ListBrands")
}

func (m *Mock) GetBrand(ctx context.Context, id string) (*model.Brand, error) {
	m.record("GetBrand")
	if m.GetBrandFunc != nil {
		return m.GetBrandFunc(ctx, id)
	}
	return nil, notConfigured("GetBrand")
}

func (m *Mock) GetCart(ctx context.Context, token string) (*model.CartResponse, error) {
	m.record("GetCart")
	if m.GetCartFunc != nil {
		return m.GetCartFunc(ctx, token)
	}
	return nil, notConfigured("GetCart")
}

func (m *Mock) AddToCart(ctx context.Context, token, productID string) (*model.CartResponse, error) {
	m.record("AddToCart")
	if m.AddToCartFunc != nil {
		return m.AddToCartFunc(ctx, token, productID)
	}
	return nil, notConfigured("AddToCart")
}

func (m *Mock) UpdateCartItem(ctx context.Context, token, productID string, count int) (*model.CartResponse, error) {
	m.record("UpdateCartItem")
	if m.UpdateCartItemFunc != nil {
		return m.UpdateCartItemFunc(ctx, token, productID, count)
	}
	return nil, notConfigured("UpdateCartItem")
}

func (m *Mock) RemoveCartItem(ctx context.Context, token, productID string) (*model.CartResponse, error) {
	m.record("RemoveCartItem")
	if m.RemoveCartItemFunc != nil {
		return m.RemoveCartItemFunc(ctx, token, productID)
	}
	return nil, notConfigured("RemoveCartItem")
}

func (m *Mock) ClearCart(ctx context.Context, token string) (*model.StatusResponse, error) {
	m.record("ClearCart")
	if m.ClearCartFunc != nil {
		return m.ClearCartFunc(ctx, token)
	}
	return nil, notConfigured("ClearCart")
}

func (m *Mock) GetWishlist(ctx context.Context, token string) (*model.WishlistResponse, error) {
	m.record("GetWishlist")
	if m.GetWishlistFunc != nil {
		return m.GetWishlistFunc(ctx, token)
	}
	return nil, notConfigured("GetWishlist")
}

func (m *Mock) AddToWishlist(ctx context.Context, token, productID string) (*model.WishlistMutation, error) {
	m.record("AddToWishlist")
	if m.AddToWishlistFunc != nil {
		return m.AddToWishlistFunc(ctx, token, productID)
	}
	return nil, notConfigured("AddToWishlist")
}

func (m *Mock) RemoveFromWishlist(ctx context.Context, token, productID string) (*model.WishlistMutation, error) {
	m.record("RemoveFromWishlist")
	if m.RemoveFromWishlistFunc != nil {
		return m.RemoveFromWishlistFunc(ctx, token, productID)
	}
	return nil, notConfigured("RemoveFromWishlist")
}

func (m *Mock) ListOrders(ctx context.Context, token string) (*model.List[model.Order], error) {
	m.record("ListOrders")
	if m.ListOrdersFunc != nil {
		return m.ListOrdersFunc(ctx, token)
	}
	return nil, notConfigured("ListOrders")
}

func (m *Mock) ListUserOrders(ctx context.Context, token, userID string) ([]model.Order, error) {
	m.record("ListUserOrders")
	if m.ListUserOrdersFunc != nil {
		return m.ListUserOrdersFunc(ctx, token, userID)
	}
	return nil, notConfigured("ListUserOrders")
}

func (m *Mock) CreateCashOrder(ctx context.Context, token, cartID string, addr model.ShippingAddress) (*model.OrderResponse, error) {
	m.record("CreateCashOrder")
	if m.CreateCashOrderFunc != nil {
		return m.CreateCashOrderFunc(ctx, token, cartID, addr)
	}
	return nil, notConfigured("CreateCashOrder")
}

func (m *Mock) CreateCheckoutSession(ctx context.Context, token, cartID, returnURL string, addr model.ShippingAddress) (*model.CheckoutSessionResponse, error) {
	m.record("CreateCheckoutSession")
	if m.CreateCheckoutSessionFunc != nil {
		return m.CreateCheckoutSessionFunc(ctx, token, cartID, returnURL, addr)
	}
	return nil, notConfigured("CreateCheckoutSession")
}

func (m *Mock) ListAddresses(ctx context.Context, token string) (*model.AddressList, error) {
	m.record("ListAddresses")
	if m.ListAddressesFunc != nil {
		return m.ListAddressesFunc(ctx, token)
	}
	return nil, notConfigured("ListAddresses")
}

func (m *Mock) GetAddress(ctx context.Context, token, id string) (*model.Address, error) {
	m.record("GetAddress")
	if m.GetAddressFunc != nil {
		return m.GetAddressFunc(ctx, token, id)
	}
	return nil, notConfigured("GetAddress")
}

func (m *Mock) AddAddress(ctx context.Context, token string, in model.AddressInput) (*model.AddressList, error) {
	m.record("AddAddress")
	if m.AddAddressFunc != nil {
		return m.AddAddressFunc(ctx, token, in)
	}
	return nil, notConfigured("AddAddress")
}

func (m *Mock) RemoveAddress(ctx context.Context, token, id string) (*model.AddressList, error) {
	m.record("RemoveAddress")
	if m.RemoveAddressFunc != nil {
		return m.RemoveAddressFunc(ctx, token, id)
	}
	return nil, notConfigured("RemoveAddress")
}

func (m *Mock) SignIn(ctx context.Context, creds model.Credentials) (*model.AuthResponse, error) {
	m.record("SignIn")
	if m.SignInFunc != nil {
		return m.SignInFunc(ctx, creds)
	}
	return nil, notConfigured("SignIn")
}

func (m *Mock) SignUp(ctx context.Context, in model.SignUpInput) (*model.AuthResponse, error) {
	m.record("SignUp")
	if m.SignUpFunc != nil {
		return m.SignUpFunc(ctx, in)
	}
	return nil, notConfigured("SignUp")
}

func (m *Mock) GetMe(ctx context.Context, token string) (*model.User, error) {
	m.record("GetMe")
	if m.GetMeFunc != nil {
		return m.GetMeFunc(ctx, token)
	}
	return nil, notConfigured("GetMe")
}

// Verify Mock implements Commerce interface at compile time.
var _ Commerce = (*Mock)(nil)
