package storefront

import (
	"context"

	"storefront/internal/model"
)

// WishlistView renders the wishlist.
type WishlistView struct {
	Products []model.Product `json:"products"`
	Count    int             `json:"count"`
	Status
}

// WishlistPage shows the wishlist. Adds and removals re-fetch the full
// list rather than editing it locally.
type WishlistPage struct {
	deps     Deps
	wishlist resource[*model.WishlistResponse]
}

func NewWishlistPage(d Deps) *WishlistPage {
	return &WishlistPage{deps: d}
}

func (p *WishlistPage) Load(ctx context.Context) error {
	token, err := p.deps.token()
	if err != nil {
		return err
	}
	return p.refetch(ctx, token)
}

func (p *WishlistPage) refetch(ctx context.Context, token string) error {
	p.wishlist.begin()
	resp, err := p.deps.Commerce.GetWishlist(ctx, token)
	p.wishlist.finish(resp, err)
	if err != nil {
		return p.deps.failed("load wishlist", err, "Failed to load wishlist")
	}
	return nil
}

// Add adds a product, then re-fetches.
func (p *WishlistPage) Add(ctx context.Context, productID string) error {
	token, err := p.deps.token()
	if err != nil {
		return err
	}
	if _, err := p.deps.Commerce.AddToWishlist(ctx, token, productID); err != nil {
		return p.deps.failed("add to wishlist", err, "Failed to add to wishlist")
	}
	p.deps.notify(LevelSuccess, "Added to wishlist")
	return p.refetch(ctx, token)
}

// Remove removes a product, then re-fetches.
func (p *WishlistPage) Remove(ctx context.Context, productID string) error {
	token, err := p.deps.token()
	if err != nil {
		return err
	}
	if _, err := p.deps.Commerce.RemoveFromWishlist(ctx, token, productID); err != nil {
		return p.deps.failed("remove from wishlist", err, "Error removing from wishlist")
	}
	p.deps.notify(LevelSuccess, "Removed from wishlist")
	return p.refetch(ctx, token)
}

// Toggle removes the product when it is wishlisted and adds it otherwise.
// Membership is decided from the last fetched list, so call Load first.
// It reports whether the product is wishlisted afterwards.
func (p *WishlistPage) Toggle(ctx context.Context, productID string) (bool, error) {
	if p.Contains(productID) {
		if err := p.Remove(ctx, productID); err != nil {
			return true, err
		}
		return false, nil
	}
	if err := p.Add(ctx, productID); err != nil {
		return false, err
	}
	return true, nil
}

// Contains reports whether the last fetched list holds productID.
func (p *WishlistPage) Contains(productID string) bool {
	resp := p.wishlist.get()
	if resp == nil {
		return false
	}
	for _, prod := range resp.Data {
		if prod.ID == productID {
			return true
		}
	}
	return false
}

func (p *WishlistPage) View() WishlistView {
	resp, st := p.wishlist.snapshot()
	v := WishlistView{Status: st}
	if resp != nil {
		v.Products = resp.Data
		v.Count = len(resp.Data)
	}
	return v
}
