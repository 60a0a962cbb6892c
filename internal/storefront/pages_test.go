package storefront

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/shopspring/decimal"

	"storefront/internal/adapter"
	"storefront/internal/model"
	"storefront/internal/session"
)

func TestProductListPage_ViewMatchesServer(t *testing.T) {
	server := &model.List[model.Product]{
		Results:  2,
		Metadata: &model.Metadata{CurrentPage: 1, NumberOfPages: 1, Limit: 40},
		Data: []model.Product{
			{ID: "p-1", Title: "Shirt", Price: decimal.NewFromInt(149), Quantity: 5},
			{ID: "p-2", Title: "Lamp", Price: decimal.NewFromInt(1299)},
		},
	}
	var gotFilter model.ProductFilter
	m := &adapter.Mock{
		ListProductsFunc: func(_ context.Context, f model.ProductFilter) (*model.List[model.Product], error) {
			gotFilter = f
			return server, nil
		},
	}
	page := NewProductListPage(Deps{Commerce: m}, model.ProductFilter{Brand: "b-1"})

	if err := page.Load(context.Background()); err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	v := page.View()
	if diff := cmp.Diff(server.Data, v.Products); diff != "" {
		t.Errorf("products mismatch (-server +view):\n%s", diff)
	}
	if v.Results != 2 || v.Metadata.Limit != 40 {
		t.Errorf("Results = %d, Metadata = %+v", v.Results, v.Metadata)
	}
	if gotFilter.Brand != "b-1" {
		t.Errorf("filter = %+v", gotFilter)
	}
}

func TestProductListPage_FailureKeepsPreviousList(t *testing.T) {
	calls := 0
	m := &adapter.Mock{
		ListProductsFunc: func(context.Context, model.ProductFilter) (*model.List[model.Product], error) {
			calls++
			if calls == 1 {
				return &model.List[model.Product]{Results: 1, Data: []model.Product{{ID: "p-1"}}}, nil
			}
			return nil, model.NewMalformedBodyError(errors.New("bad json"))
		},
	}
	log := &NoticeLog{}
	page := NewProductListPage(Deps{Commerce: m, Notifier: log}, model.ProductFilter{})

	page.Load(context.Background())
	if err := page.Load(context.Background()); !errors.Is(err, model.ErrMalformedBody) {
		t.Errorf("Load() error = %v, want ErrMalformedBody", err)
	}
	v := page.View()
	if len(v.Products) != 1 || v.Error == "" {
		t.Errorf("view = %+v, want previous list plus error", v)
	}
	wantLastNotice(t, log, LevelError, "Failed to load products. Please try again.")
}

func TestProductPage(t *testing.T) {
	ctx := context.Background()
	discount := decimal.NewFromInt(999)
	m := &adapter.Mock{
		GetProductFunc: func(_ context.Context, id string) (*model.Product, error) {
			return &model.Product{ID: id, Title: "Lamp", Price: decimal.NewFromInt(1299), PriceAfterDiscount: &discount}, nil
		},
		AddToCartFunc: func(context.Context, string, string) (*model.CartResponse, error) {
			return &model.CartResponse{Status: "success"}, nil
		},
		AddToWishlistFunc: func(context.Context, string, string) (*model.WishlistMutation, error) {
			return &model.WishlistMutation{Status: "success"}, nil
		},
	}
	deps, log := signedIn(t, m)
	page := NewProductPage(deps, "p-2")

	if err := page.Load(ctx); err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if v := page.View(); v.Product.ID != "p-2" || v.FormattedPrice != "EGP 999.00" {
		t.Errorf("view = %+v", v)
	}

	if err := page.AddToCart(ctx); err != nil {
		t.Fatalf("AddToCart() error: %v", err)
	}
	wantLastNotice(t, log, LevelSuccess, "Product added to cart successfully!")

	if err := page.AddToWishlist(ctx); err != nil {
		t.Fatalf("AddToWishlist() error: %v", err)
	}
	wantLastNotice(t, log, LevelSuccess, "Product added to wishlist!")
}

func TestProductPage_AddToCartSignedOut(t *testing.T) {
	m := &adapter.Mock{}
	deps, log, _ := signedOut(t, m)
	page := NewProductPage(deps, "p-2")

	if err := page.AddToCart(context.Background()); !errors.Is(err, model.ErrPrecondition) {
		t.Errorf("AddToCart() error = %v, want ErrPrecondition", err)
	}
	if m.CallCount("AddToCart") != 0 {
		t.Error("AddToCart called while signed out")
	}
	wantLastNotice(t, log, LevelError, session.LoginRequired)
}

func TestCategoryPage_PartialFailure(t *testing.T) {
	m := &adapter.Mock{
		GetCategoryFunc: func(_ context.Context, id string) (*model.Category, error) {
			return &model.Category{ID: id, Name: "Electronics"}, nil
		},
		ListSubcategoriesFunc: func(context.Context, string) (*model.List[model.Subcategory], error) {
			return nil, model.NewApplicationError(404, "")
		},
		ListProductsFunc: func(_ context.Context, f model.ProductFilter) (*model.List[model.Product], error) {
			if f.Category != "c-1" {
				t.Errorf("filter = %+v, want category c-1", f)
			}
			return &model.List[model.Product]{Data: []model.Product{{ID: "p-1"}}}, nil
		},
	}
	page := NewCategoryPage(Deps{Commerce: m}, "c-1")

	err := page.Load(context.Background())
	if !errors.Is(err, model.ErrNotFound) {
		t.Errorf("Load() error = %v, want ErrNotFound", err)
	}
	v := page.View()
	if v.Category == nil || v.Category.Name != "Electronics" || len(v.Products) != 1 {
		t.Errorf("view = %+v", v)
	}
	if v.Error == "" {
		t.Error("view should carry the subcategory error")
	}
}

func TestBrandPage(t *testing.T) {
	m := &adapter.Mock{
		GetBrandFunc: func(_ context.Context, id string) (*model.Brand, error) {
			return &model.Brand{ID: id, Name: "Acme"}, nil
		},
		ListProductsFunc: func(_ context.Context, f model.ProductFilter) (*model.List[model.Product], error) {
			return &model.List[model.Product]{Data: []model.Product{{ID: "p-" + f.Brand}}}, nil
		},
	}
	page := NewBrandPage(Deps{Commerce: m}, "b-1")
	if err := page.Load(context.Background()); err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	v := page.View()
	if v.Brand.Name != "Acme" || len(v.Products) != 1 || v.Products[0].ID != "p-b-1" {
		t.Errorf("view = %+v", v)
	}
	if !v.Loaded {
		t.Error("Loaded = false")
	}
}

func TestSubcategoryPage(t *testing.T) {
	var got model.ProductFilter
	m := &adapter.Mock{
		ListProductsFunc: func(_ context.Context, f model.ProductFilter) (*model.List[model.Product], error) {
			got = f
			return &model.List[model.Product]{}, nil
		},
	}
	page := NewSubcategoryPage(Deps{Commerce: m}, "s-1")
	if err := page.Load(context.Background()); err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if got.Subcategory != "s-1" {
		t.Errorf("filter = %+v", got)
	}
	if len(page.View().Products) != 0 {
		t.Error("want no products")
	}
}

func TestCategoriesAndBrandsPages(t *testing.T) {
	m := &adapter.Mock{
		ListCategoriesFunc: func(context.Context) (*model.List[model.Category], error) {
			return &model.List[model.Category]{Data: []model.Category{{ID: "c-1"}, {ID: "c-2"}}}, nil
		},
		ListBrandsFunc: func(context.Context) (*model.List[model.Brand], error) {
			return &model.List[model.Brand]{Data: []model.Brand{{ID: "b-1"}}}, nil
		},
	}
	cats := NewCategoriesPage(Deps{Commerce: m})
	brands := NewBrandsPage(Deps{Commerce: m})
	if err := cats.Load(context.Background()); err != nil {
		t.Fatalf("categories Load() error: %v", err)
	}
	if err := brands.Load(context.Background()); err != nil {
		t.Fatalf("brands Load() error: %v", err)
	}
	if len(cats.View().Categories) != 2 || len(brands.View().Brands) != 1 {
		t.Errorf("categories = %+v, brands = %+v", cats.View(), brands.View())
	}
}

func TestWishlistPage_Toggle(t *testing.T) {
	ctx := context.Background()
	shop := &fakeShop{wishlist: []string{"p-1"}}
	m := shop.mock()
	deps, log := signedIn(t, m)
	page := NewWishlistPage(deps)

	if err := page.Load(ctx); err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if !page.Contains("p-1") || page.Contains("p-2") {
		t.Fatal("Contains() does not reflect the loaded list")
	}

	in, err := page.Toggle(ctx, "p-2")
	if err != nil || !in {
		t.Fatalf("Toggle(p-2) = %v, %v; want true", in, err)
	}
	wantLastNotice(t, log, LevelSuccess, "Added to wishlist")
	if page.View().Count != 2 {
		t.Errorf("Count = %d, want 2", page.View().Count)
	}

	in, err = page.Toggle(ctx, "p-1")
	if err != nil || in {
		t.Fatalf("Toggle(p-1) = %v, %v; want false", in, err)
	}
	wantLastNotice(t, log, LevelSuccess, "Removed from wishlist")

	ids := []string{}
	for _, p := range page.View().Products {
		ids = append(ids, p.ID)
	}
	if diff := cmp.Diff([]string{"p-2"}, ids); diff != "" {
		t.Errorf("wishlist mismatch (-want +got):\n%s", diff)
	}
	// Removal re-fetches rather than filtering locally.
	if m.CallCount("GetWishlist") != 3 {
		t.Errorf("GetWishlist calls = %d, want 3", m.CallCount("GetWishlist"))
	}
}

func TestProfilePage(t *testing.T) {
	ctx := context.Background()
	shop := &fakeShop{}
	m := shop.mock()
	m.GetMeFunc = func(context.Context, string) (*model.User, error) {
		return &model.User{ID: "u-1", Name: "Mona", Email: "m@x.io"}, nil
	}
	deps, log := signedIn(t, m)
	page := NewProfilePage(deps)

	if err := page.Load(ctx); err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if v := page.View(); v.User.Email != "m@x.io" || len(v.Addresses) != 0 {
		t.Errorf("view = %+v", v)
	}

	in := model.AddressInput{Name: "Home", Details: "12 Nile St", Phone: "0100", City: "Cairo"}
	if err := page.AddAddress(ctx, in); err != nil {
		t.Fatalf("AddAddress() error: %v", err)
	}
	wantLastNotice(t, log, LevelSuccess, "Address added!")
	addrs := page.View().Addresses
	if len(addrs) != 1 || addrs[0].City != "Cairo" {
		t.Fatalf("addresses = %+v", addrs)
	}

	if err := page.RemoveAddress(ctx, addrs[0].ID); err != nil {
		t.Fatalf("RemoveAddress() error: %v", err)
	}
	wantLastNotice(t, log, LevelSuccess, "Address removed!")
	if len(page.View().Addresses) != 0 {
		t.Error("address still listed after removal")
	}
	if m.CallCount("ListAddresses") != 3 {
		t.Errorf("ListAddresses calls = %d, want 3", m.CallCount("ListAddresses"))
	}
}

func TestProfilePage_ProfileFailureFallsBackToSession(t *testing.T) {
	m := (&fakeShop{}).mock()
	m.GetMeFunc = func(context.Context, string) (*model.User, error) {
		return nil, model.NewApplicationError(404, "route not found")
	}
	deps, _ := signedIn(t, m)
	page := NewProfilePage(deps)

	if err := page.Load(context.Background()); err == nil {
		t.Fatal("Load() should report the profile failure")
	}
	if u := page.View().User; u == nil || u.ID != "u-1" {
		t.Errorf("User = %+v, want session user u-1", u)
	}
}

func TestOrdersPage_UsesTokenUser(t *testing.T) {
	var gotUser string
	m := &adapter.Mock{
		ListUserOrdersFunc: func(_ context.Context, _, userID string) ([]model.Order, error) {
			gotUser = userID
			return []model.Order{{ID: "o-1"}, {ID: "o-2"}}, nil
		},
	}
	deps, _ := signedIn(t, m)
	page := NewOrdersPage(deps)

	if err := page.Load(context.Background()); err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if gotUser != "u-1" {
		t.Errorf("userID = %s, want u-1", gotUser)
	}
	if page.View().Count != 2 {
		t.Errorf("Count = %d, want 2", page.View().Count)
	}
}

func TestOrdersPage_OpaqueTokenListsAllOrders(t *testing.T) {
	ctx := context.Background()
	var gotToken string
	m := &adapter.Mock{
		ListOrdersFunc: func(_ context.Context, token string) (*model.List[model.Order], error) {
			gotToken = token
			return &model.List[model.Order]{Results: 1, Data: []model.Order{{ID: "o-9"}}}, nil
		},
	}
	store := session.NewMemoryStore()
	store.Set(ctx, session.TokenKey, "opaque")
	sess, _ := session.New(ctx, m, store, testLogger())

	page := NewOrdersPage(Deps{Commerce: m, Session: sess})
	if err := page.Load(ctx); err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if gotToken != "opaque" {
		t.Errorf("ListOrders token = %q, want opaque", gotToken)
	}
	if m.CallCount("ListUserOrders") != 0 {
		t.Error("ListUserOrders called without a user id")
	}
	if v := page.View(); v.Count != 1 || v.Orders[0].ID != "o-9" {
		t.Errorf("Orders = %+v, want [o-9]", v.Orders)
	}
}

func TestAuthPage_SignIn(t *testing.T) {
	ctx := context.Background()
	m := &adapter.Mock{
		SignInFunc: func(_ context.Context, c model.Credentials) (*model.AuthResponse, error) {
			if c.Password != "right" {
				return nil, model.NewApplicationError(401, "Incorrect email or password")
			}
			return &model.AuthResponse{Message: "success", Token: "tok", User: model.User{Name: "Mona"}}, nil
		},
	}

	t.Run("valid credentials persist a token", func(t *testing.T) {
		deps, log, store := signedOut(t, m)
		page := NewAuthPage(deps)
		if err := page.SignIn(ctx, "m@x.io", "right"); err != nil {
			t.Fatalf("SignIn() error: %v", err)
		}
		if v, ok, _ := store.Get(ctx, session.TokenKey); !ok || v != "tok" {
			t.Errorf("stored token = %q, %v", v, ok)
		}
		if page.View().State != "authenticated" {
			t.Errorf("State = %s", page.View().State)
		}
		wantLastNotice(t, log, LevelSuccess, "Welcome back, Mona!")
	})

	t.Run("invalid credentials leave no token", func(t *testing.T) {
		deps, log, store := signedOut(t, m)
		page := NewAuthPage(deps)
		if err := page.SignIn(ctx, "m@x.io", "wrong"); !errors.Is(err, model.ErrApplication) {
			t.Errorf("SignIn() error = %v, want ErrApplication", err)
		}
		if _, ok, _ := store.Get(ctx, session.TokenKey); ok {
			t.Error("token stored after rejected sign-in")
		}
		v := page.View()
		if v.State != "error" || v.Error != "Incorrect email or password" {
			t.Errorf("view = %+v", v)
		}
		wantLastNotice(t, log, LevelError, "Incorrect email or password")
	})
}

func TestAuthPage_SignUp(t *testing.T) {
	ctx := context.Background()
	m := &adapter.Mock{
		SignUpFunc: func(context.Context, model.SignUpInput) (*model.AuthResponse, error) {
			return &model.AuthResponse{Message: "success", Token: "tok"}, nil
		},
	}
	deps, log, store := signedOut(t, m)
	page := NewAuthPage(deps)

	mismatch := model.SignUpInput{Name: "Mona", Email: "m@x.io", Password: "a", RePassword: "b", Phone: "0100"}
	if err := page.SignUp(ctx, mismatch); !errors.Is(err, model.ErrPrecondition) {
		t.Errorf("SignUp(mismatch) error = %v, want ErrPrecondition", err)
	}
	if m.CallCount("SignUp") != 0 {
		t.Error("SignUp called with mismatched passwords")
	}
	wantLastNotice(t, log, LevelError, "Passwords do not match!")

	ok := mismatch
	ok.RePassword = "a"
	if err := page.SignUp(ctx, ok); err != nil {
		t.Fatalf("SignUp() error: %v", err)
	}
	wantLastNotice(t, log, LevelSuccess, "Registration successful! Please log in.")
	if _, stored, _ := store.Get(ctx, session.TokenKey); stored {
		t.Error("sign-up should not sign the user in")
	}
}

func TestAuthPage_SignOut(t *testing.T) {
	deps, _ := signedIn(t, &adapter.Mock{})
	page := NewAuthPage(deps)
	if err := page.SignOut(context.Background()); err != nil {
		t.Fatalf("SignOut() error: %v", err)
	}
	if page.View().State != "anonymous" {
		t.Errorf("State = %s", page.View().State)
	}
}
