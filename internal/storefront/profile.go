package storefront

import (
	"context"

	"storefront/internal/model"
)

// ProfileView renders the account page.
type ProfileView struct {
	User      *model.User     `json:"user,omitempty"`
	Addresses []model.Address `json:"addresses"`
	Status
}

// ProfilePage shows the user's profile and saved addresses. Adding or
// removing an address re-fetches the list.
type ProfilePage struct {
	deps      Deps
	user      resource[*model.User]
	addresses resource[*model.AddressList]
}

func NewProfilePage(d Deps) *ProfilePage {
	return &ProfilePage{deps: d}
}

// Load fetches the profile and the address list. A profile failure falls
// back to what the session knows about the user.
func (p *ProfilePage) Load(ctx context.Context) error {
	token, err := p.deps.token()
	if err != nil {
		return err
	}

	var first error

	p.user.begin()
	user, err := p.deps.Commerce.GetMe(ctx, token)
	if err != nil {
		if fallback := p.deps.Session.User(); fallback != nil {
			p.user.finish(fallback, nil)
		} else {
			p.user.finish(nil, err)
		}
		first = p.deps.failed("load profile", err, "Failed to load profile")
	} else {
		p.user.finish(user, nil)
	}

	if err := p.refetchAddresses(ctx, token); err != nil && first == nil {
		first = err
	}
	return first
}

func (p *ProfilePage) refetchAddresses(ctx context.Context, token string) error {
	p.addresses.begin()
	list, err := p.deps.Commerce.ListAddresses(ctx, token)
	p.addresses.finish(list, err)
	if err != nil {
		return p.deps.failed("load addresses", err, "Failed to load addresses")
	}
	return nil
}

// Address fetches one saved address. The loaded list is left as is.
func (p *ProfilePage) Address(ctx context.Context, id string) (*model.Address, error) {
	token, err := p.deps.token()
	if err != nil {
		return nil, err
	}
	addr, err := p.deps.Commerce.GetAddress(ctx, token, id)
	if err != nil {
		return nil, p.deps.failed("get address", err, "Could not fetch address.")
	}
	return addr, nil
}

// AddAddress saves an address, then re-fetches the list.
func (p *ProfilePage) AddAddress(ctx context.Context, in model.AddressInput) error {
	token, err := p.deps.token()
	if err != nil {
		return err
	}
	if _, err := p.deps.Commerce.AddAddress(ctx, token, in); err != nil {
		return p.deps.failed("add address", err, "Failed to add address")
	}
	p.deps.notify(LevelSuccess, "Address added!")
	return p.refetchAddresses(ctx, token)
}

// RemoveAddress deletes an address, then re-fetches the list.
func (p *ProfilePage) RemoveAddress(ctx context.Context, id string) error {
	token, err := p.deps.token()
	if err != nil {
		return err
	}
	if _, err := p.deps.Commerce.RemoveAddress(ctx, token, id); err != nil {
		return p.deps.failed("remove address", err, "Failed to remove address")
	}
	p.deps.notify(LevelSuccess, "Address removed!")
	return p.refetchAddresses(ctx, token)
}

func (p *ProfilePage) View() ProfileView {
	user, st1 := p.user.snapshot()
	addrs, st2 := p.addresses.snapshot()
	v := ProfileView{User: user, Status: merge(st1, st2)}
	if addrs != nil {
		v.Addresses = addrs.Data
	}
	return v
}
