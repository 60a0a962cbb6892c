package handler

import (
	"net/http"

	"storefront/internal/model"
	"storefront/internal/storefront"
)

// handleListProducts lists products, optionally filtered.
// GET /products[?brand=|category=|subcategory=]
func (h *Handler) handleListProducts(w http.ResponseWriter, r *http.Request) {
	d, notices := h.deps(r)
	q := r.URL.Query()
	page := storefront.NewProductListPage(d, model.ProductFilter{
		Brand:       q.Get("brand"),
		Category:    q.Get("category"),
		Subcategory: q.Get("subcategory"),
	})

	if err := page.Load(r.Context()); err != nil {
		h.writeError(w, notices, err)
		return
	}
	h.writeView(w, notices, http.StatusOK, page.View())
}

// handleGetProduct returns one product.
// GET /products/{id}
func (h *Handler) handleGetProduct(w http.ResponseWriter, r *http.Request) {
	d, notices := h.deps(r)
	page := storefront.NewProductPage(d, r.PathValue("id"))

	if err := page.Load(r.Context()); err != nil {
		h.writeError(w, notices, err)
		return
	}
	h.writeView(w, notices, http.StatusOK, page.View())
}

// handleListCategories lists all categories.
// GET /categories
func (h *Handler) handleListCategories(w http.ResponseWriter, r *http.Request) {
	d, notices := h.deps(r)
	page := storefront.NewCategoriesPage(d)

	if err := page.Load(r.Context()); err != nil {
		h.writeError(w, notices, err)
		return
	}
	h.writeView(w, notices, http.StatusOK, page.View())
}

// handleGetCategory returns a category with its subcategories and products.
// A failed part is reported in the view's error field; the request only
// fails when the category itself could not be loaded.
// GET /categories/{id}
func (h *Handler) handleGetCategory(w http.ResponseWriter, r *http.Request) {
	d, notices := h.deps(r)
	page := storefront.NewCategoryPage(d, r.PathValue("id"))

	err := page.Load(r.Context())
	view := page.View()
	if err != nil && view.Category == nil {
		h.writeError(w, notices, err)
		return
	}
	h.writeView(w, notices, http.StatusOK, view)
}

// handleSubcategoryProducts lists the products of a subcategory.
// GET /subcategories/{id}/products
func (h *Handler) handleSubcategoryProducts(w http.ResponseWriter, r *http.Request) {
	d, notices := h.deps(r)
	page := storefront.NewSubcategoryPage(d, r.PathValue("id"))

	if err := page.Load(r.Context()); err != nil {
		h.writeError(w, notices, err)
		return
	}
	h.writeView(w, notices, http.StatusOK, page.View())
}

// handleListBrands lists all brands.
// GET /brands
func (h *Handler) handleListBrands(w http.ResponseWriter, r *http.Request) {
	d, notices := h.deps(r)
	page := storefront.NewBrandsPage(d)

	if err := page.Load(r.Context()); err != nil {
		h.writeError(w, notices, err)
		return
	}
	h.writeView(w, notices, http.StatusOK, page.View())
}

// handleGetBrand returns a brand with its products.
// GET /brands/{id}
func (h *Handler) handleGetBrand(w http.ResponseWriter, r *http.Request) {
	d, notices := h.deps(r)
	page := storefront.NewBrandPage(d, r.PathValue("id"))

	if err := page.Load(r.Context()); err != nil {
		h.writeError(w, notices, err)
		return
	}
	h.writeView(w, notices, http.StatusOK, page.View())
}
