package api

import (
	"context"
	"net/http"
	"net/url"

	"storefront/internal/model"
)

// =============================================================================
// CATALOG
// =============================================================================
//
// Catalog reads are public: no token is sent. List endpoints return the
// {results, metadata, data} envelope; single-resource endpoints wrap the
// resource in {data}.
// =============================================================================

// ListProducts returns products, optionally narrowed by brand, category or
// subcategory.
func (c *Client) ListProducts(ctx context.Context, filter model.ProductFilter) (*model.List[model.Product], error) {
	q := url.Values{}
	switch {
	case filter.Brand != "":
		q.Set("brand", filter.Brand)
	case filter.Category != "":
		q.Set("category", filter.Category)
	case filter.Subcategory != "":
		q.Set("subcategory", filter.Subcategory)
	}

	var out model.List[model.Product]
	err := c.do(ctx, request{resource: "products", method: http.MethodGet, path: "/products", query: q}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// GetProduct returns one product.
func (c *Client) GetProduct(ctx context.Context, id string) (*model.Product, error) {
	seg, err := segment("product id", id)
	if err != nil {
		return nil, err
	}
	var out model.Single[model.Product]
	if err := c.do(ctx, request{resource: "products", method: http.MethodGet, path: "/products/" + seg}, &out); err != nil {
		return nil, err
	}
	return &out.Data, nil
}

// ListCategories returns every top-level category.
func (c *Client) ListCategories(ctx context.Context) (*model.List[model.Category], error) {
	var out model.List[model.Category]
	if err := c.do(ctx, request{resource: "categories", method: http.MethodGet, path: "/categories"}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetCategory returns one category.
func (c *Client) GetCategory(ctx context.Context, id string) (*model.Category, error) {
	seg, err := segment("category id", id)
	if err != nil {
		return nil, err
	}
	var out model.Single[model.Category]
	if err := c.do(ctx, request{resource: "categories", method: http.MethodGet, path: "/categories/" + seg}, &out); err != nil {
		return nil, err
	}
	return &out.Data, nil
}

// ListSubcategories returns the subcategories of a category.
// A successful empty response yields an empty list.
func (c *Client) ListSubcategories(ctx context.Context, categoryID string) (*model.List[model.Subcategory], error) {
	seg, err := segment("category id", categoryID)
	if err != nil {
		return nil, err
	}
	var out model.List[model.Subcategory]
	path := "/categories/" + seg + "/subcategories"
	if err := c.do(ctx, request{resource: "subcategories", method: http.MethodGet, path: path}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListBrands returns every brand.
func (c *Client) ListBrands(ctx context.Context) (*model.List[model.Brand], error) {
	var out model.List[model.Brand]
	if err := c.do(ctx, request{resource: "brands", method: http.MethodGet, path: "/brands"}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetBrand returns one brand.
func (c *Client) GetBrand(ctx context.Context, id string) (*model.Brand, error) {
	seg, err := segment("brand id", id)
	if err != nil {
		return nil, err
	}
	var out model.Single[model.Brand]
	if err := c.do(ctx, request{resource: "brands", method: http.MethodGet, path: "/brands/" + seg}, &out); err != nil {
		return nil, err
	}
	return &out.Data, nil
}
