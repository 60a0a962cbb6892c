package main

import (
	"fmt"
	"html"
	"io"
	"text/tabwriter"

	"storefront/internal/model"
	"storefront/internal/storefront"
)

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
}

// unescape undoes the entity escaping the sanitizer applies; the terminal
// is not an HTML context.
func unescape(s string) string {
	return html.UnescapeString(s)
}

func (a *app) renderProducts(w io.Writer, products []model.Product) error {
	if len(products) == 0 {
		fmt.Fprintln(w, "No products found.")
		return nil
	}
	tw := newTable(w)
	fmt.Fprintln(tw, "ID\tTITLE\tPRICE\tRATING")
	for i := range products {
		p := &products[i]
		fmt.Fprintf(tw, "%s\t%s\t%s\t%.1f\n",
			p.ID, a.plain(p.Title), model.FormatPrice(p.EffectivePrice(), ""), p.RatingsAverage)
	}
	return tw.Flush()
}

func (a *app) renderProduct(w io.Writer, view storefront.ProductView) error {
	p := view.Product
	if p == nil {
		return nil
	}
	fmt.Fprintf(w, "%s\n%s\n", a.plain(p.Title), view.FormattedPrice)
	if p.Brand != nil {
		fmt.Fprintf(w, "Brand: %s\n", a.plain(p.Brand.Name))
	}
	if p.Category != nil {
		fmt.Fprintf(w, "Category: %s\n", a.plain(p.Category.Name))
	}
	fmt.Fprintf(w, "Rating: %.1f (%d)\n", p.RatingsAverage, p.RatingsQuantity)
	if !p.InStock() {
		fmt.Fprintln(w, "Out of stock")
	}
	if p.Description != "" {
		fmt.Fprintf(w, "\n%s\n", a.plain(p.Description))
	}
	return nil
}

// renderNamed prints id/name pairs.
func renderNamed[T any](w io.Writer, items []T, fields func(T) (id, name string)) error {
	tw := newTable(w)
	fmt.Fprintln(tw, "ID\tNAME")
	for _, it := range items {
		id, name := fields(it)
		fmt.Fprintf(tw, "%s\t%s\n", id, unescape(name))
	}
	return tw.Flush()
}

func (a *app) renderCart(w io.Writer, view storefront.CartView) error {
	if view.Empty() {
		fmt.Fprintln(w, "Your cart is empty.")
		return nil
	}
	tw := newTable(w)
	fmt.Fprintln(tw, "PRODUCT\tTITLE\tCOUNT\tPRICE\tSUBTOTAL")
	for _, l := range view.Lines {
		title := ""
		if l.Product.Product != nil {
			title = a.plain(l.Product.Product.Title)
		}
		fmt.Fprintf(tw, "%s\t%s\t%d\t%s\t%s\n",
			l.Product.ID, title, l.Count,
			model.FormatPrice(l.Price, ""), model.FormatPrice(l.Subtotal(), ""))
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	fmt.Fprintf(w, "\nTotal: %s (%d items)\n", view.FormattedTotal, view.Count)
	return nil
}

// renderAddresses marks the selected address with an asterisk.
func renderAddresses(w io.Writer, addrs []model.Address, selected string) error {
	if len(addrs) == 0 {
		fmt.Fprintln(w, "No saved addresses.")
		return nil
	}
	tw := newTable(w)
	fmt.Fprintln(tw, "\tID\tNAME\tDETAILS\tCITY\tPHONE")
	for _, addr := range addrs {
		mark := ""
		if addr.ID == selected {
			mark = "*"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n", mark, addr.ID, addr.Name, addr.Details, addr.City, addr.Phone)
	}
	return tw.Flush()
}

func (a *app) renderCheckout(w io.Writer, view storefront.CheckoutView) error {
	if err := a.renderCart(w, view.Cart); err != nil {
		return err
	}
	fmt.Fprintln(w)
	return renderAddresses(w, view.Addresses, view.SelectedAddressID)
}

func renderOrders(w io.Writer, orders []model.Order) error {
	if len(orders) == 0 {
		fmt.Fprintln(w, "No orders yet.")
		return nil
	}
	tw := newTable(w)
	fmt.Fprintln(tw, "ID\tITEMS\tTOTAL\tPAYMENT\tPAID\tDELIVERED")
	for _, o := range orders {
		fmt.Fprintf(tw, "%s\t%d\t%s\t%s\t%t\t%t\n",
			o.ID, len(o.CartItems), model.FormatPrice(o.TotalOrderPrice, ""),
			o.PaymentMethodType, o.IsPaid, o.IsDelivered)
	}
	return tw.Flush()
}

func renderAuth(w io.Writer, view storefront.AuthView) error {
	switch {
	case view.User != nil && view.User.Name != "":
		fmt.Fprintf(w, "Signed in as %s", view.User.Name)
		if view.User.Email != "" {
			fmt.Fprintf(w, " <%s>", view.User.Email)
		}
		fmt.Fprintln(w)
	case view.State == "authenticated":
		fmt.Fprintln(w, "Signed in.")
	default:
		fmt.Fprintln(w, "Not signed in.")
	}
	return nil
}
