package storefront

import (
	"context"

	"storefront/internal/model"
)

// ProductListView renders a product grid.
type ProductListView struct {
	Products []model.Product     `json:"products"`
	Results  int                 `json:"results"`
	Metadata *model.Metadata     `json:"metadata,omitempty"`
	Filter   model.ProductFilter `json:"filter"`
	Status
}

// ProductListPage lists products, optionally filtered by brand, category
// or subcategory.
type ProductListPage struct {
	deps   Deps
	filter model.ProductFilter
	list   resource[*model.List[model.Product]]
}

func NewProductListPage(d Deps, filter model.ProductFilter) *ProductListPage {
	return &ProductListPage{deps: d, filter: filter}
}

// Load fetches the product list.
func (p *ProductListPage) Load(ctx context.Context) error {
	p.list.begin()
	list, err := p.deps.Commerce.ListProducts(ctx, p.filter)
	p.list.finish(list, err)
	if err != nil {
		return p.deps.failed("load products", err, "Failed to load products. Please try again.")
	}
	return nil
}

func (p *ProductListPage) View() ProductListView {
	list, st := p.list.snapshot()
	v := ProductListView{Filter: p.filter, Status: st}
	if list != nil {
		v.Products = list.Data
		v.Results = list.Results
		v.Metadata = list.Metadata
	}
	return v
}

// ProductView renders one product.
type ProductView struct {
	Product        *model.Product `json:"product,omitempty"`
	FormattedPrice string         `json:"formattedPrice,omitempty"`
	Status
}

// ProductPage shows one product and lets the user add it to the cart or
// the wishlist.
type ProductPage struct {
	deps    Deps
	id      string
	product resource[*model.Product]
}

func NewProductPage(d Deps, id string) *ProductPage {
	return &ProductPage{deps: d, id: id}
}

func (p *ProductPage) Load(ctx context.Context) error {
	p.product.begin()
	prod, err := p.deps.Commerce.GetProduct(ctx, p.id)
	p.product.finish(prod, err)
	if err != nil {
		return p.deps.failed("load product", err, "Failed to load product details.")
	}
	return nil
}

// AddToCart adds one unit of the product.
func (p *ProductPage) AddToCart(ctx context.Context) error {
	token, err := p.deps.token()
	if err != nil {
		return err
	}
	if _, err := p.deps.Commerce.AddToCart(ctx, token, p.id); err != nil {
		return p.deps.failed("add to cart", err, "Error adding product to cart")
	}
	p.deps.notify(LevelSuccess, "Product added to cart successfully!")
	return nil
}

// AddToWishlist adds the product to the wishlist.
func (p *ProductPage) AddToWishlist(ctx context.Context) error {
	token, err := p.deps.token()
	if err != nil {
		return err
	}
	if _, err := p.deps.Commerce.AddToWishlist(ctx, token, p.id); err != nil {
		return p.deps.failed("add to wishlist", err, "Error adding product to wishlist")
	}
	p.deps.notify(LevelSuccess, "Product added to wishlist!")
	return nil
}

func (p *ProductPage) View() ProductView {
	prod, st := p.product.snapshot()
	v := ProductView{Product: prod, Status: st}
	if prod != nil {
		v.FormattedPrice = model.FormatPrice(prod.EffectivePrice(), "")
	}
	return v
}

// CategoriesView renders the category index.
type CategoriesView struct {
	Categories []model.Category `json:"categories"`
	Status
}

// CategoriesPage lists all categories.
type CategoriesPage struct {
	deps       Deps
	categories resource[*model.List[model.Category]]
}

func NewCategoriesPage(d Deps) *CategoriesPage {
	return &CategoriesPage{deps: d}
}

func (p *CategoriesPage) Load(ctx context.Context) error {
	p.categories.begin()
	list, err := p.deps.Commerce.ListCategories(ctx)
	p.categories.finish(list, err)
	if err != nil {
		return p.deps.failed("load categories", err, "Failed to load categories.")
	}
	return nil
}

func (p *CategoriesPage) View() CategoriesView {
	list, st := p.categories.snapshot()
	v := CategoriesView{Status: st}
	if list != nil {
		v.Categories = list.Data
	}
	return v
}

// CategoryView renders one category with its subcategories and products.
type CategoryView struct {
	Category      *model.Category     `json:"category,omitempty"`
	Subcategories []model.Subcategory `json:"subcategories"`
	Products      []model.Product     `json:"products"`
	Status
}

// CategoryPage shows a category, its subcategories and its products.
type CategoryPage struct {
	deps          Deps
	id            string
	category      resource[*model.Category]
	subcategories resource[*model.List[model.Subcategory]]
	products      resource[*model.List[model.Product]]
}

func NewCategoryPage(d Deps, id string) *CategoryPage {
	return &CategoryPage{deps: d, id: id}
}

// Load fetches the three parts in turn. A failed part does not stop the
// others; the first error is returned.
func (p *CategoryPage) Load(ctx context.Context) error {
	var first error
	keep := func(err error) {
		if first == nil {
			first = err
		}
	}

	p.category.begin()
	cat, err := p.deps.Commerce.GetCategory(ctx, p.id)
	p.category.finish(cat, err)
	if err != nil {
		keep(p.deps.failed("load category", err, "Failed to load category."))
	}

	p.subcategories.begin()
	subs, err := p.deps.Commerce.ListSubcategories(ctx, p.id)
	p.subcategories.finish(subs, err)
	if err != nil {
		keep(p.deps.failed("load subcategories", err, "Failed to load subcategories."))
	}

	p.products.begin()
	prods, err := p.deps.Commerce.ListProducts(ctx, model.ProductFilter{Category: p.id})
	p.products.finish(prods, err)
	if err != nil {
		keep(p.deps.failed("load category products", err, "Failed to load products. Please try again."))
	}

	return first
}

func (p *CategoryPage) View() CategoryView {
	cat, st1 := p.category.snapshot()
	subs, st2 := p.subcategories.snapshot()
	prods, st3 := p.products.snapshot()

	v := CategoryView{Category: cat, Status: merge(st1, st2, st3)}
	if subs != nil {
		v.Subcategories = subs.Data
	}
	if prods != nil {
		v.Products = prods.Data
	}
	return v
}

// BrandsView renders the brand index.
type BrandsView struct {
	Brands []model.Brand `json:"brands"`
	Status
}

// BrandsPage lists all brands.
type BrandsPage struct {
	deps   Deps
	brands resource[*model.List[model.Brand]]
}

func NewBrandsPage(d Deps) *BrandsPage {
	return &BrandsPage{deps: d}
}

func (p *BrandsPage) Load(ctx context.Context) error {
	p.brands.begin()
	list, err := p.deps.Commerce.ListBrands(ctx)
	p.brands.finish(list, err)
	if err != nil {
		return p.deps.failed("load brands", err, "Failed to load brands.")
	}
	return nil
}

func (p *BrandsPage) View() BrandsView {
	list, st := p.brands.snapshot()
	v := BrandsView{Status: st}
	if list != nil {
		v.Brands = list.Data
	}
	return v
}

// BrandView renders one brand with its products.
type BrandView struct {
	Brand    *model.Brand    `json:"brand,omitempty"`
	Products []model.Product `json:"products"`
	Status
}

// BrandPage shows a brand and its products.
type BrandPage struct {
	deps     Deps
	id       string
	brand    resource[*model.Brand]
	products resource[*model.List[model.Product]]
}

func NewBrandPage(d Deps, id string) *BrandPage {
	return &BrandPage{deps: d, id: id}
}

func (p *BrandPage) Load(ctx context.Context) error {
	p.brand.begin()
	brand, err := p.deps.Commerce.GetBrand(ctx, p.id)
	p.brand.finish(brand, err)
	if err != nil {
		return p.deps.failed("load brand", err, "Failed to load brand.")
	}

	p.products.begin()
	prods, err := p.deps.Commerce.ListProducts(ctx, model.ProductFilter{Brand: p.id})
	p.products.finish(prods, err)
	if err != nil {
		return p.deps.failed("load brand products", err, "Failed to load products. Please try again.")
	}
	return nil
}

func (p *BrandPage) View() BrandView {
	brand, st1 := p.brand.snapshot()
	prods, st2 := p.products.snapshot()
	v := BrandView{Brand: brand, Status: merge(st1, st2)}
	if prods != nil {
		v.Products = prods.Data
	}
	return v
}

// NewSubcategoryPage lists the products of one subcategory.
func NewSubcategoryPage(d Deps, id string) *ProductListPage {
	return NewProductListPage(d, model.ProductFilter{Subcategory: id})
}
