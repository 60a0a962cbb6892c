package storefront

import (
	"context"
	"log/slog"

	"github.com/shopspring/decimal"

	"storefront/internal/model"
	"storefront/internal/reconcile"
)

// CartView renders the cart. Count is zero for the empty state.
type CartView struct {
	CartID         string           `json:"cartId,omitempty"`
	Count          int              `json:"count"`
	Lines          []model.CartLine `json:"lines"`
	Total          decimal.Decimal  `json:"total"`
	FormattedTotal string           `json:"formattedTotal"`
	Status
}

// Empty reports whether the cart has no lines.
func (v CartView) Empty() bool {
	return v.Count == 0
}

func newCartView(resp *model.CartResponse, st Status) CartView {
	v := CartView{Status: st, Total: decimal.Zero}
	if resp != nil && resp.Data != nil {
		v.CartID = resp.ID()
		v.Count = resp.NumOfCartItems
		v.Lines = resp.Data.Products
		v.Total = resp.Data.TotalCartPrice
		if v.Count == 0 {
			v.Count = len(resp.Data.Products)
		}
	}
	v.FormattedTotal = model.FormatPrice(v.Total, "")
	return v
}

// CartPage shows the signed-in user's cart. Every mutation is followed by
// a full re-fetch; there is no optimistic update.
type CartPage struct {
	deps Deps
	cart resource[*model.CartResponse]
}

func NewCartPage(d Deps) *CartPage {
	return &CartPage{deps: d}
}

// Load fetches the cart.
func (p *CartPage) Load(ctx context.Context) error {
	token, err := p.deps.token()
	if err != nil {
		return err
	}
	return p.refetch(ctx, token)
}

func (p *CartPage) refetch(ctx context.Context, token string) error {
	p.cart.begin()
	resp, err := p.deps.Commerce.GetCart(ctx, token)
	p.cart.finish(resp, err)
	if err != nil {
		return p.deps.failed("load cart", err, "Failed to load cart. Please try again.")
	}
	return nil
}

// Add adds one unit of a product, then re-fetches.
func (p *CartPage) Add(ctx context.Context, productID string) error {
	token, err := p.deps.token()
	if err != nil {
		return err
	}
	if _, err := p.deps.Commerce.AddToCart(ctx, token, productID); err != nil {
		return p.deps.failed("add to cart", err, "Failed to add to cart")
	}
	p.deps.notify(LevelSuccess, "Added to cart!")
	return p.refetch(ctx, token)
}

// UpdateQuantity sets a line's count, then re-fetches. Counts below 1 are
// rejected locally; use Remove to drop a line.
func (p *CartPage) UpdateQuantity(ctx context.Context, productID string, count int) error {
	token, err := p.deps.token()
	if err != nil {
		return err
	}
	if count < 1 {
		return p.deps.reject("Quantity must be at least 1.")
	}
	if _, err := p.deps.Commerce.UpdateCartItem(ctx, token, productID, count); err != nil {
		return p.deps.failed("update quantity", err, "Failed to update quantity.")
	}
	p.deps.notify(LevelSuccess, "Cart updated.")
	return p.refetch(ctx, token)
}

// Remove drops a line, then re-fetches.
func (p *CartPage) Remove(ctx context.Context, productID string) error {
	token, err := p.deps.token()
	if err != nil {
		return err
	}
	if _, err := p.deps.Commerce.RemoveCartItem(ctx, token, productID); err != nil {
		return p.deps.failed("remove item", err, "Failed to remove item.")
	}
	p.deps.notify(LevelSuccess, "Item removed from cart.")
	return p.refetch(ctx, token)
}

// Clear empties the cart, then re-fetches.
func (p *CartPage) Clear(ctx context.Context) error {
	token, err := p.deps.token()
	if err != nil {
		return err
	}
	if _, err := p.deps.Commerce.ClearCart(ctx, token); err != nil {
		return p.deps.failed("clear cart", err, "Failed to clear cart.")
	}
	p.deps.notify(LevelSuccess, "Cart cleared.")
	return p.refetch(ctx, token)
}

// Sync makes the cart match desired. It reads the current cart, applies
// removals, count updates and additions in that order, stops at the first
// failure, and re-fetches once at the end either way.
func (p *CartPage) Sync(ctx context.Context, desired []reconcile.Line) (*reconcile.Plan, error) {
	token, err := p.deps.token()
	if err != nil {
		return nil, err
	}
	for _, l := range desired {
		if l.ProductID == "" {
			return nil, p.deps.reject("Every cart line needs a product id.")
		}
	}

	current, err := p.deps.Commerce.GetCart(ctx, token)
	if err != nil {
		return nil, p.deps.failed("load cart", err, "Failed to load cart. Please try again.")
	}

	var lines []reconcile.Line
	if current != nil {
		lines = reconcile.FromCart(current.Data)
	}
	plan := reconcile.Diff(lines, desired)

	p.deps.logger().Debug("syncing cart",
		slog.Int("remove", len(plan.Remove)),
		slog.Int("update", len(plan.Update)),
		slog.Int("add", len(plan.Add)))

	if applyErr := p.apply(ctx, token, plan); applyErr != nil {
		// The apply error is what the caller sees; a failed reload is only logged.
		p.cart.begin()
		resp, err := p.deps.Commerce.GetCart(ctx, token)
		p.cart.finish(resp, err)
		if err != nil {
			p.deps.logger().Warn("reload cart after failed sync", slog.String("error", err.Error()))
		}
		return plan, p.deps.failed("sync cart", applyErr, "Failed to update cart.")
	}

	if !plan.IsEmpty() {
		p.deps.notify(LevelSuccess, "Cart updated.")
	}
	return plan, p.refetch(ctx, token)
}

func (p *CartPage) apply(ctx context.Context, token string, plan *reconcile.Plan) error {
	for _, id := range plan.Remove {
		if _, err := p.deps.Commerce.RemoveCartItem(ctx, token, id); err != nil {
			return err
		}
	}
	for _, c := range plan.Update {
		if _, err := p.deps.Commerce.UpdateCartItem(ctx, token, c.ProductID, c.To); err != nil {
			return err
		}
	}
	for _, id := range plan.Add {
		if _, err := p.deps.Commerce.AddToCart(ctx, token, id); err != nil {
			return err
		}
	}
	for _, c := range plan.AddThenSet {
		if _, err := p.deps.Commerce.UpdateCartItem(ctx, token, c.ProductID, c.To); err != nil {
			return err
		}
	}
	return nil
}

func (p *CartPage) View() CartView {
	resp, st := p.cart.snapshot()
	return newCartView(resp, st)
}
