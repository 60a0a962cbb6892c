package storefront

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/golang-jwt/jwt/v4"
	"github.com/shopspring/decimal"

	"storefront/internal/adapter"
	"storefront/internal/model"
	"storefront/internal/session"
)

// fakeShop is an in-memory commerce API behind adapter.Mock.
type fakeShop struct {
	mu        sync.Mutex
	lines     []model.CartLine
	wishlist  []string
	addresses []model.Address
	nextAddr  int
}

func unitPrice() decimal.Decimal { return decimal.NewFromInt(100) }

func (f *fakeShop) cartLocked() *model.CartResponse {
	total := decimal.Zero
	lines := make([]model.CartLine, len(f.lines))
	copy(lines, f.lines)
	for _, l := range lines {
		total = total.Add(l.Subtotal())
	}
	return &model.CartResponse{
		Status:         "success",
		NumOfCartItems: len(lines),
		CartID:         "cart-1",
		Data:           &model.Cart{ID: "cart-1", Products: lines, TotalCartPrice: total},
	}
}

func (f *fakeShop) addressesLocked() *model.AddressList {
	out := make([]model.Address, len(f.addresses))
	copy(out, f.addresses)
	return &model.AddressList{Status: "success", Results: len(out), Data: out}
}

func (f *fakeShop) mock() *adapter.Mock {
	return &adapter.Mock{
		GetCartFunc: func(context.Context, string) (*model.CartResponse, error) {
			f.mu.Lock()
			defer f.mu.Unlock()
			return f.cartLocked(), nil
		},
		AddToCartFunc: func(_ context.Context, _ string, productID string) (*model.CartResponse, error) {
			f.mu.Lock()
			defer f.mu.Unlock()
			for i := range f.lines {
				if f.lines[i].Product.ID == productID {
					f.lines[i].Count++
					return f.cartLocked(), nil
				}
			}
			f.lines = append(f.lines, model.CartLine{
				ID:      "line-" + productID,
				Product: model.ProductRef{ID: productID},
				Count:   1,
				Price:   unitPrice(),
			})
			return f.cartLocked(), nil
		},
		UpdateCartItemFunc: func(_ context.Context, _ string, productID string, count int) (*model.CartResponse, error) {
			f.mu.Lock()
			defer f.mu.Unlock()
			for i := range f.lines {
				if f.lines[i].Product.ID == productID {
					f.lines[i].Count = count
				}
			}
			return f.cartLocked(), nil
		},
		RemoveCartItemFunc: func(_ context.Context, _ string, productID string) (*model.CartResponse, error) {
			f.mu.Lock()
			defer f.mu.Unlock()
			kept := f.lines[:0]
			for _, l := range f.lines {
				if l.Product.ID != productID {
					kept = append(kept, l)
				}
			}
			f.lines = kept
			return f.cartLocked(), nil
		},
		ClearCartFunc: func(context.Context, string) (*model.StatusResponse, error) {
			f.mu.Lock()
			defer f.mu.Unlock()
			f.lines = nil
			return &model.StatusResponse{Message: "success"}, nil
		},
		GetWishlistFunc: func(context.Context, string) (*model.WishlistResponse, error) {
			f.mu.Lock()
			defer f.mu.Unlock()
			resp := &model.WishlistResponse{Status: "success", Count: len(f.wishlist)}
			for _, id := range f.wishlist {
				resp.Data = append(resp.Data, model.Product{ID: id, Title: "Product " + id})
			}
			return resp, nil
		},
		AddToWishlistFunc: func(_ context.Context, _ string, productID string) (*model.WishlistMutation, error) {
			f.mu.Lock()
			defer f.mu.Unlock()
			f.wishlist = append(f.wishlist, productID)
			return &model.WishlistMutation{Status: "success", Data: append([]string(nil), f.wishlist...)}, nil
		},
		RemoveFromWishlistFunc: func(_ context.Context, _ string, productID string) (*model.WishlistMutation, error) {
			f.mu.Lock()
			defer f.mu.Unlock()
			var kept []string
			for _, id := range f.wishlist {
				if id != productID {
					kept = append(kept, id)
				}
			}
			f.wishlist = kept
			return &model.WishlistMutation{Status: "success", Data: kept}, nil
		},
		ListAddressesFunc: func(context.Context, string) (*model.AddressList, error) {
			f.mu.Lock()
			defer f.mu.Unlock()
			return f.addressesLocked(), nil
		},
		AddAddressFunc: func(_ context.Context, _ string, in model.AddressInput) (*model.AddressList, error) {
			f.mu.Lock()
			defer f.mu.Unlock()
			f.nextAddr++
			f.addresses = append(f.addresses, model.Address{
				ID: fmt.Sprintf("addr-%d", f.nextAddr), Name: in.Name, Details: in.Details, Phone: in.Phone, City: in.City,
			})
			return f.addressesLocked(), nil
		},
		RemoveAddressFunc: func(_ context.Context, _ string, id string) (*model.AddressList, error) {
			f.mu.Lock()
			defer f.mu.Unlock()
			var kept []model.Address
			for _, a := range f.addresses {
				if a.ID != id {
					kept = append(kept, a)
				}
			}
			f.addresses = kept
			return f.addressesLocked(), nil
		},
	}
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// testToken signs a token the way the commerce API does.
func testToken(t *testing.T, userID string) string {
	t.Helper()
	claims := session.Claims{UserID: userID, Name: "Mona", Role: "user"}
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("k"))
	if err != nil {
		t.Fatalf("signing token: %v", err)
	}
	return s
}

// signedIn returns page deps with a restored session for userID.
func signedIn(t *testing.T, commerce adapter.Commerce) (Deps, *NoticeLog) {
	t.Helper()
	ctx := context.Background()
	store := session.NewMemoryStore()
	store.Set(ctx, session.TokenKey, testToken(t, "u-1"))
	sess, err := session.New(ctx, commerce, store, testLogger())
	if err != nil {
		t.Fatalf("session.New() error: %v", err)
	}
	log := &NoticeLog{}
	return Deps{Commerce: commerce, Session: sess, Notifier: log, Logger: testLogger()}, log
}

// signedOut returns page deps with an anonymous session.
func signedOut(t *testing.T, commerce adapter.Commerce) (Deps, *NoticeLog, session.TokenStore) {
	t.Helper()
	store := session.NewMemoryStore()
	sess, err := session.New(context.Background(), commerce, store, testLogger())
	if err != nil {
		t.Fatalf("session.New() error: %v", err)
	}
	log := &NoticeLog{}
	return Deps{Commerce: commerce, Session: sess, Notifier: log, Logger: testLogger()}, log, store
}

func wantLastNotice(t *testing.T, log *NoticeLog, level Level, msg string) {
	t.Helper()
	n, ok := log.Last()
	if !ok {
		t.Fatalf("no notice, want %s %q", level, msg)
	}
	if n.Level != level || n.Message != msg {
		t.Errorf("last notice = %s %q, want %s %q", n.Level, n.Message, level, msg)
	}
}
