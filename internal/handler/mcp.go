// MCP transport for the storefront using the official MCP Go SDK.
// Exposes the shopping pages as MCP tools.
package handler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"storefront/internal/api"
	"storefront/internal/model"
	"storefront/internal/session"
	"storefront/internal/storefront"
)

// === MCP Tool Input Types ===
// Tools acting for a user take the token as an argument or, when omitted,
// from the token header of the HTTP request carrying the call.

// TokenInput identifies the signed-in user.
type TokenInput struct {
	Token string `json:"token,omitempty" jsonschema:"session token from sign_in; defaults to the token request header"`
}

// ListProductsInput is the input schema for list_products.
type ListProductsInput struct {
	Brand       string `json:"brand,omitempty" jsonschema:"brand id to filter by"`
	Category    string `json:"category,omitempty" jsonschema:"category id to filter by"`
	Subcategory string `json:"subcategory,omitempty" jsonschema:"subcategory id to filter by"`
}

// IDInput is the input schema for tools reading one catalog entry.
type IDInput struct {
	ID string `json:"id" jsonschema:"resource id"`
}

// ProductInput is the input schema for tools acting on one product.
type ProductInput struct {
	Token     string `json:"token,omitempty" jsonschema:"session token from sign_in; defaults to the token request header"`
	ProductID string `json:"productId" jsonschema:"product id"`
}

// UpdateCartItemInput is the input schema for update_cart_item.
type UpdateCartItemInput struct {
	Token     string `json:"token,omitempty" jsonschema:"session token from sign_in; defaults to the token request header"`
	ProductID string `json:"productId" jsonschema:"product id"`
	Count     int    `json:"count" jsonschema:"new quantity, at least 1"`
}

// CheckoutInput is the input schema for the checkout tools.
type CheckoutInput struct {
	Token     string `json:"token,omitempty" jsonschema:"session token from sign_in; defaults to the token request header"`
	AddressID string `json:"addressId,omitempty" jsonschema:"saved address id; defaults to the first saved address"`
}

// SignInInput is the input schema for sign_in.
type SignInInput struct {
	Email    string `json:"email" jsonschema:"account email"`
	Password string `json:"password" jsonschema:"account password"`
}

// mcpResult is the structured output of every tool.
type mcpResult struct {
	View    interface{}         `json:"view"`
	Notices []storefront.Notice `json:"notices,omitempty"`
}

// NewMCPServer creates an MCP server with the storefront tools registered.
// The server exposes the same operations as the REST API but via MCP protocol.
func (h *Handler) NewMCPServer() *mcp.Server {
	server := mcp.NewServer(
		&mcp.Implementation{
			Name:    "storefront",
			Version: "1.0.0",
		},
		&mcp.ServerOptions{
			Instructions: "Storefront - browse the catalog, manage the cart and wishlist, and check out. " +
				"Call sign_in first and pass the returned token to the other tools.",
		},
	)

	// Catalog
	mcp.AddTool(server, &mcp.Tool{
		Name:        "list_products",
		Description: "List products. At most one filter applies; brand wins over category, category over subcategory.",
	}, h.mcpListProducts)
	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_product",
		Description: "Get one product with its effective price.",
	}, h.mcpGetProduct)
	mcp.AddTool(server, &mcp.Tool{
		Name:        "list_categories",
		Description: "List all product categories.",
	}, h.mcpListCategories)
	mcp.AddTool(server, &mcp.Tool{
		Name:        "list_brands",
		Description: "List all brands.",
	}, h.mcpListBrands)

	// Cart
	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_cart",
		Description: "Get the signed-in user's cart.",
	}, h.mcpGetCart)
	mcp.AddTool(server, &mcp.Tool{
		Name:        "add_to_cart",
		Description: "Add one unit of a product to the cart.",
	}, h.mcpAddToCart)
	mcp.AddTool(server, &mcp.Tool{
		Name:        "update_cart_item",
		Description: "Set the quantity of a product already in the cart.",
	}, h.mcpUpdateCartItem)
	mcp.AddTool(server, &mcp.Tool{
		Name:        "remove_cart_item",
		Description: "Remove a product from the cart.",
	}, h.mcpRemoveCartItem)
	mcp.AddTool(server, &mcp.Tool{
		Name:        "clear_cart",
		Description: "Remove every product from the cart.",
	}, h.mcpClearCart)

	// Wishlist
	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_wishlist",
		Description: "Get the signed-in user's wishlist.",
	}, h.mcpGetWishlist)
	mcp.AddTool(server, &mcp.Tool{
		Name:        "toggle_wishlist",
		Description: "Add a product to the wishlist, or remove it if it is already there.",
	}, h.mcpToggleWishlist)

	// Checkout and account
	mcp.AddTool(server, &mcp.Tool{
		Name:        "checkout_online",
		Description: "Start hosted card payment for the cart. Returns the payment page URL.",
	}, h.mcpCheckoutOnline)
	mcp.AddTool(server, &mcp.Tool{
		Name:        "checkout_cash",
		Description: "Place a cash-on-delivery order for the cart. Needs a saved address.",
	}, h.mcpCheckoutCash)
	mcp.AddTool(server, &mcp.Tool{
		Name:        "list_orders",
		Description: "List the signed-in user's orders.",
	}, h.mcpListOrders)
	mcp.AddTool(server, &mcp.Tool{
		Name:        "sign_in",
		Description: "Sign in with email and password. Returns the session token.",
	}, h.mcpSignIn)

	return server
}

// NewMCPHandler returns an HTTP handler for the MCP endpoint.
// Mount this at /mcp on your mux.
func (h *Handler) NewMCPHandler() http.Handler {
	server := h.NewMCPServer()
	return mcp.NewStreamableHTTPHandler(
		func(r *http.Request) *mcp.Server { return server },
		nil,
	)
}

// === Tool Handlers ===

func (h *Handler) mcpListProducts(ctx context.Context, req *mcp.CallToolRequest, input ListProductsInput) (*mcp.CallToolResult, any, error) {
	d, notices := h.mcpDeps(ctx, req, "")
	page := storefront.NewProductListPage(d, model.ProductFilter{
		Brand:       input.Brand,
		Category:    input.Category,
		Subcategory: input.Subcategory,
	})
	if err := page.Load(ctx); err != nil {
		return nil, nil, h.mcpError(err)
	}
	return nil, mcpResult{View: page.View(), Notices: notices.Drain()}, nil
}

func (h *Handler) mcpGetProduct(ctx context.Context, req *mcp.CallToolRequest, input IDInput) (*mcp.CallToolResult, any, error) {
	if input.ID == "" {
		return nil, nil, fmt.Errorf("id is required")
	}
	d, notices := h.mcpDeps(ctx, req, "")
	page := storefront.NewProductPage(d, input.ID)
	if err := page.Load(ctx); err != nil {
		return nil, nil, h.mcpError(err)
	}
	return nil, mcpResult{View: page.View(), Notices: notices.Drain()}, nil
}

func (h *Handler) mcpListCategories(ctx context.Context, req *mcp.CallToolRequest, _ struct{}) (*mcp.CallToolResult, any, error) {
	d, notices := h.mcpDeps(ctx, req, "")
	page := storefront.NewCategoriesPage(d)
	if err := page.Load(ctx); err != nil {
		return nil, nil, h.mcpError(err)
	}
	return nil, mcpResult{View: page.View(), Notices: notices.Drain()}, nil
}

func (h *Handler) mcpListBrands(ctx context.Context, req *mcp.CallToolRequest, _ struct{}) (*mcp.CallToolResult, any, error) {
	d, notices := h.mcpDeps(ctx, req, "")
	page := storefront.NewBrandsPage(d)
	if err := page.Load(ctx); err != nil {
		return nil, nil, h.mcpError(err)
	}
	return nil, mcpResult{View: page.View(), Notices: notices.Drain()}, nil
}

func (h *Handler) mcpGetCart(ctx context.Context, req *mcp.CallToolRequest, input TokenInput) (*mcp.CallToolResult, any, error) {
	d, notices := h.mcpDeps(ctx, req, input.Token)
	page := storefront.NewCartPage(d)
	if err := page.Load(ctx); err != nil {
		return nil, nil, h.mcpError(err)
	}
	return nil, mcpResult{View: page.View(), Notices: notices.Drain()}, nil
}

func (h *Handler) mcpAddToCart(ctx context.Context, req *mcp.CallToolRequest, input ProductInput) (*mcp.CallToolResult, any, error) {
	if input.ProductID == "" {
		return nil, nil, fmt.Errorf("productId is required")
	}
	d, notices := h.mcpDeps(ctx, req, input.Token)
	page := storefront.NewCartPage(d)
	if err := page.Add(ctx, input.ProductID); err != nil {
		return nil, nil, h.mcpError(err)
	}
	return nil, mcpResult{View: page.View(), Notices: notices.Drain()}, nil
}

func (h *Handler) mcpUpdateCartItem(ctx context.Context, req *mcp.CallToolRequest, input UpdateCartItemInput) (*mcp.CallToolResult, any, error) {
	if input.ProductID == "" {
		return nil, nil, fmt.Errorf("productId is required")
	}
	d, notices := h.mcpDeps(ctx, req, input.Token)
	page := storefront.NewCartPage(d)
	if err := page.UpdateQuantity(ctx, input.ProductID, input.Count); err != nil {
		return nil, nil, h.mcpError(err)
	}
	return nil, mcpResult{View: page.View(), Notices: notices.Drain()}, nil
}

func (h *Handler) mcpRemoveCartItem(ctx context.Context, req *mcp.CallToolRequest, input ProductInput) (*mcp.CallToolResult, any, error) {
	if input.ProductID == "" {
		return nil, nil, fmt.Errorf("productId is required")
	}
	d, notices := h.mcpDeps(ctx, req, input.Token)
	page := storefront.NewCartPage(d)
	if err := page.Remove(ctx, input.ProductID); err != nil {
		return nil, nil, h.mcpError(err)
	}
	return nil, mcpResult{View: page.View(), Notices: notices.Drain()}, nil
}

func (h *Handler) mcpClearCart(ctx context.Context, req *mcp.CallToolRequest, input TokenInput) (*mcp.CallToolResult, any, error) {
	d, notices := h.mcpDeps(ctx, req, input.Token)
	page := storefront.NewCartPage(d)
	if err := page.Clear(ctx); err != nil {
		return nil, nil, h.mcpError(err)
	}
	return nil, mcpResult{View: page.View(), Notices: notices.Drain()}, nil
}

func (h *Handler) mcpGetWishlist(ctx context.Context, req *mcp.CallToolRequest, input TokenInput) (*mcp.CallToolResult, any, error) {
	d, notices := h.mcpDeps(ctx, req, input.Token)
	page := storefront.NewWishlistPage(d)
	if err := page.Load(ctx); err != nil {
		return nil, nil, h.mcpError(err)
	}
	return nil, mcpResult{View: page.View(), Notices: notices.Drain()}, nil
}

func (h *Handler) mcpToggleWishlist(ctx context.Context, req *mcp.CallToolRequest, input ProductInput) (*mcp.CallToolResult, any, error) {
	if input.ProductID == "" {
		return nil, nil, fmt.Errorf("productId is required")
	}
	d, notices := h.mcpDeps(ctx, req, input.Token)
	page := storefront.NewWishlistPage(d)
	if err := page.Load(ctx); err != nil {
		return nil, nil, h.mcpError(err)
	}
	if _, err := page.Toggle(ctx, input.ProductID); err != nil {
		return nil, nil, h.mcpError(err)
	}
	return nil, mcpResult{View: page.View(), Notices: notices.Drain()}, nil
}

func (h *Handler) mcpCheckoutOnline(ctx context.Context, req *mcp.CallToolRequest, input CheckoutInput) (*mcp.CallToolResult, any, error) {
	d, notices := h.mcpDeps(ctx, req, input.Token)
	page, err := h.mcpCheckout(ctx, d, input.AddressID)
	if err != nil {
		return nil, nil, h.mcpError(err)
	}
	url, err := page.PayOnline(ctx)
	if err != nil {
		return nil, nil, h.mcpError(err)
	}
	view := onlinePaymentResponse{RedirectURL: url, Checkout: page.View()}
	return nil, mcpResult{View: view, Notices: notices.Drain()}, nil
}

func (h *Handler) mcpCheckoutCash(ctx context.Context, req *mcp.CallToolRequest, input CheckoutInput) (*mcp.CallToolResult, any, error) {
	d, notices := h.mcpDeps(ctx, req, input.Token)
	page, err := h.mcpCheckout(ctx, d, input.AddressID)
	if err != nil {
		return nil, nil, h.mcpError(err)
	}
	if _, err := page.PayCash(ctx); err != nil {
		return nil, nil, h.mcpError(err)
	}
	return nil, mcpResult{View: page.View(), Notices: notices.Drain()}, nil
}

func (h *Handler) mcpListOrders(ctx context.Context, req *mcp.CallToolRequest, input TokenInput) (*mcp.CallToolResult, any, error) {
	d, notices := h.mcpDeps(ctx, req, input.Token)
	page := storefront.NewOrdersPage(d)
	if err := page.Load(ctx); err != nil {
		return nil, nil, h.mcpError(err)
	}
	return nil, mcpResult{View: page.View(), Notices: notices.Drain()}, nil
}

func (h *Handler) mcpSignIn(ctx context.Context, req *mcp.CallToolRequest, input SignInInput) (*mcp.CallToolResult, any, error) {
	if input.Email == "" || input.Password == "" {
		return nil, nil, fmt.Errorf("email and password are required")
	}
	d, notices := h.mcpDeps(ctx, req, "")
	page := storefront.NewAuthPage(d)
	if err := page.SignIn(ctx, input.Email, input.Password); err != nil {
		return nil, nil, h.mcpError(err)
	}
	view := signInResponse{Token: d.Session.Token(), AuthView: page.View()}
	return nil, mcpResult{View: view, Notices: notices.Drain()}, nil
}

// mcpCheckout loads a checkout page and applies the requested address.
func (h *Handler) mcpCheckout(ctx context.Context, d storefront.Deps, addressID string) (*storefront.CheckoutPage, error) {
	page := storefront.NewCheckoutPage(d, h.cfg.ReturnURL)
	if err := page.Load(ctx); err != nil {
		return nil, err
	}
	if addressID != "" {
		if err := page.SelectAddress(addressID); err != nil {
			return nil, err
		}
	}
	return page, nil
}

// mcpDeps builds page dependencies for one tool call. token wins over
// the token header of the carrying HTTP request.
func (h *Handler) mcpDeps(ctx context.Context, req *mcp.CallToolRequest, token string) (storefront.Deps, *storefront.NoticeLog) {
	if token == "" && req != nil && req.Extra != nil && req.Extra.Header != nil {
		token = req.Extra.Header.Get(api.TokenHeader)
	}
	sess, err := session.ForToken(ctx, h.commerce, token, h.logger)
	if err != nil {
		h.logger.Error("mcp session setup failed", slog.String("error", err.Error()))
	}

	notices := &storefront.NoticeLog{}
	return storefront.Deps{
		Commerce: h.commerce,
		Session:  sess,
		Notifier: notices,
		Logger:   h.logger,
	}, notices
}

// mcpError converts page errors to MCP-friendly errors.
func (h *Handler) mcpError(err error) error {
	var apiErr *model.APIError
	if errors.As(err, &apiErr) {
		return fmt.Errorf("%s: %s", apiErr.Code, apiErr.Message)
	}
	// Don't leak internal error details
	h.logger.Error("mcp internal error", "error", err.Error())
	return fmt.Errorf("internal error")
}
