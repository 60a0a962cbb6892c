package storefront

import (
	"context"
	"log/slog"
	"sync"

	"storefront/internal/model"
)

// CheckoutView renders the checkout summary.
type CheckoutView struct {
	Cart              CartView        `json:"cart"`
	Addresses         []model.Address `json:"addresses"`
	SelectedAddressID string          `json:"selectedAddressId,omitempty"`
	RedirectURL       string          `json:"redirectUrl,omitempty"`
	LastOrder         *model.Order    `json:"lastOrder,omitempty"`
	Status
}

// CheckoutPage offers the two payment flows: hosted online payment and
// cash on delivery. Both need a signed-in user and a non-empty cart; cash
// also needs a selected address. Missing prerequisites are rejected before
// any call is made.
type CheckoutPage struct {
	deps      Deps
	returnURL string

	cart      resource[*model.CartResponse]
	addresses resource[*model.AddressList]

	mu          sync.Mutex
	selectedID  string
	redirectURL string
	lastOrder   *model.Order
}

// NewCheckoutPage creates a checkout page. returnURL is where the hosted
// payment page sends the buyer back to.
func NewCheckoutPage(d Deps, returnURL string) *CheckoutPage {
	return &CheckoutPage{deps: d, returnURL: returnURL}
}

// Load fetches the cart and saved addresses. The first address is
// selected unless the current selection still exists.
func (p *CheckoutPage) Load(ctx context.Context) error {
	token, err := p.deps.token()
	if err != nil {
		return err
	}

	var first error

	p.cart.begin()
	cart, err := p.deps.Commerce.GetCart(ctx, token)
	p.cart.finish(cart, err)
	if err != nil {
		first = p.deps.failed("load checkout cart", err, "Could not fetch cart.")
	}

	p.addresses.begin()
	addrs, err := p.deps.Commerce.ListAddresses(ctx, token)
	p.addresses.finish(addrs, err)
	if err != nil {
		err = p.deps.failed("load checkout addresses", err, "Could not fetch address.")
		if first == nil {
			first = err
		}
		return first
	}

	p.mu.Lock()
	if _, ok := findAddress(addrs, p.selectedID); !ok {
		p.selectedID = ""
		if addrs != nil && len(addrs.Data) > 0 {
			p.selectedID = addrs.Data[0].ID
		}
	}
	p.mu.Unlock()

	return first
}

// SelectAddress chooses the shipping address for cash orders.
func (p *CheckoutPage) SelectAddress(id string) error {
	if _, ok := findAddress(p.addresses.get(), id); !ok {
		return p.deps.reject("Please select one of your saved addresses.")
	}
	p.mu.Lock()
	p.selectedID = id
	p.mu.Unlock()
	return nil
}

// PayOnline opens a hosted payment session and returns the URL to send
// the buyer to. An empty URL with a nil error means the API accepted the
// order without a redirect.
func (p *CheckoutPage) PayOnline(ctx context.Context) (string, error) {
	token, cartID, err := p.ready()
	if err != nil {
		return "", err
	}
	if p.returnURL == "" {
		return "", p.deps.reject("Checkout return address is not configured.")
	}

	var ship model.ShippingAddress
	if addr, ok := p.selected(); ok {
		ship = addr.Shipping()
	}

	resp, err := p.deps.Commerce.CreateCheckoutSession(ctx, token, cartID, p.returnURL, ship)
	if err != nil {
		return "", p.deps.failed("start online payment", err, "Payment failed to start.")
	}

	url := resp.RedirectURL()
	p.mu.Lock()
	p.redirectURL = url
	p.mu.Unlock()

	if url == "" {
		p.deps.notify(LevelSuccess, "Order placed without redirect.")
	} else {
		p.deps.logger().Info("checkout session created", slog.String("cart_id", cartID))
	}
	return url, nil
}

// PayCash places a cash-on-delivery order to the selected address.
// The cart is consumed by the order, so the local cart is cleared.
func (p *CheckoutPage) PayCash(ctx context.Context) (*model.Order, error) {
	token, cartID, err := p.ready()
	if err != nil {
		return nil, err
	}
	addr, ok := p.selected()
	if !ok {
		return nil, p.deps.reject("Please add a shipping address first.")
	}

	resp, err := p.deps.Commerce.CreateCashOrder(ctx, token, cartID, addr.Shipping())
	if err != nil {
		return nil, p.deps.failed("place cash order", err, "Could not place cash order.")
	}

	p.cart.set(nil)
	p.mu.Lock()
	p.lastOrder = resp.Data
	p.mu.Unlock()

	p.deps.notify(LevelSuccess, "Cash order placed successfully!")
	p.deps.logger().Info("cash order placed", slog.String("cart_id", cartID))
	return resp.Data, nil
}

// ready checks the prerequisites shared by both payment flows.
func (p *CheckoutPage) ready() (token, cartID string, err error) {
	token, err = p.deps.token()
	if err != nil {
		return "", "", err
	}
	cart := p.cart.get()
	if cart.Empty() || cart.ID() == "" {
		return "", "", p.deps.reject("Your cart is empty.")
	}
	return token, cart.ID(), nil
}

func (p *CheckoutPage) selected() (model.Address, bool) {
	p.mu.Lock()
	id := p.selectedID
	p.mu.Unlock()
	return findAddress(p.addresses.get(), id)
}

func findAddress(list *model.AddressList, id string) (model.Address, bool) {
	if list == nil || id == "" {
		return model.Address{}, false
	}
	for _, a := range list.Data {
		if a.ID == id {
			return a, true
		}
	}
	return model.Address{}, false
}

func (p *CheckoutPage) View() CheckoutView {
	cart, st1 := p.cart.snapshot()
	addrs, st2 := p.addresses.snapshot()

	p.mu.Lock()
	defer p.mu.Unlock()

	v := CheckoutView{
		Cart:              newCartView(cart, st1),
		SelectedAddressID: p.selectedID,
		RedirectURL:       p.redirectURL,
		LastOrder:         p.lastOrder,
		Status:            merge(st1, st2),
	}
	if addrs != nil {
		v.Addresses = addrs.Data
	}
	return v
}
