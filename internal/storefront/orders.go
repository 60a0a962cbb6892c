package storefront

import (
	"context"

	"storefront/internal/model"
)

// OrdersView renders the order history.
type OrdersView struct {
	Orders []model.Order `json:"orders"`
	Count  int           `json:"count"`
	Status
}

// OrdersPage lists the signed-in user's orders. The user id comes from
// the token's claims; a token without one lists every order the API
// shows to it.
type OrdersPage struct {
	deps   Deps
	orders resource[[]model.Order]
}

func NewOrdersPage(d Deps) *OrdersPage {
	return &OrdersPage{deps: d}
}

func (p *OrdersPage) Load(ctx context.Context) error {
	token, err := p.deps.token()
	if err != nil {
		return err
	}

	p.orders.begin()
	orders, err := p.fetch(ctx, token)
	p.orders.finish(orders, err)
	if err != nil {
		return p.deps.failed("load orders", err, "Failed to load orders.")
	}
	return nil
}

func (p *OrdersPage) fetch(ctx context.Context, token string) ([]model.Order, error) {
	claims, err := p.deps.Session.Claims()
	if err == nil && claims.UserID != "" {
		return p.deps.Commerce.ListUserOrders(ctx, token, claims.UserID)
	}
	p.deps.logger().Debug("token has no user id, listing all orders")
	list, err := p.deps.Commerce.ListOrders(ctx, token)
	if err != nil {
		return nil, err
	}
	return list.Data, nil
}

func (p *OrdersPage) View() OrdersView {
	orders, st := p.orders.snapshot()
	return OrdersView{Orders: orders, Count: len(orders), Status: st}
}
