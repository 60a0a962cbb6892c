// Package reconcile computes the cart mutations that turn the server's
// current cart into a desired one. The cart API only offers add-one,
// set-count and remove, so a full desired state is applied as a series of
// those calls.
package reconcile

import (
	"sort"

	"storefront/internal/model"
)

// Line is one product and its count.
type Line struct {
	ProductID string `json:"productId"`
	Count     int    `json:"count"`
}

// Change is a count update for a product already in the cart.
type Change struct {
	ProductID string `json:"productId"`
	From      int    `json:"from"`
	To        int    `json:"to"`
}

// Plan describes the mutations needed to reach the desired cart.
// Apply in order: Remove → Update → Add, so an update never targets a
// line that is about to disappear.
//
// Added products arrive with count 1; those wanting more are also listed
// in AddThenSet and need a follow-up count update.
type Plan struct {
	Remove     []string `json:"remove,omitempty"`
	Update     []Change `json:"update,omitempty"`
	Add        []string `json:"add,omitempty"`
	AddThenSet []Change `json:"addThenSet,omitempty"`
}

// IsEmpty returns true if the cart already matches.
func (p *Plan) IsEmpty() bool {
	return len(p.Remove) == 0 && len(p.Update) == 0 && len(p.Add) == 0
}

// Calls returns the number of API calls the plan takes.
func (p *Plan) Calls() int {
	return len(p.Remove) + len(p.Update) + len(p.Add) + len(p.AddThenSet)
}

// FromCart extracts the current lines of a cart. A nil cart has none.
func FromCart(c *model.Cart) []Line {
	if c == nil {
		return nil
	}
	lines := make([]Line, 0, len(c.Products))
	for _, l := range c.Products {
		lines = append(lines, Line{ProductID: l.Product.ID, Count: l.Count})
	}
	return lines
}

// Diff computes the plan from current to desired.
// Matching is by product id. Desired lines with a count below 1 mean
// "not in the cart"; repeated products have their counts summed.
// Output is sorted by product id.
func Diff(current, desired []Line) *Plan {
	plan := &Plan{}

	currentBy := merge(current)
	desiredBy := merge(desired)

	for id, want := range desiredBy {
		have, exists := currentBy[id]
		switch {
		case !exists:
			plan.Add = append(plan.Add, id)
			if want > 1 {
				plan.AddThenSet = append(plan.AddThenSet, Change{ProductID: id, From: 1, To: want})
			}
		case have != want:
			plan.Update = append(plan.Update, Change{ProductID: id, From: have, To: want})
		}
	}

	for id := range currentBy {
		if _, exists := desiredBy[id]; !exists {
			plan.Remove = append(plan.Remove, id)
		}
	}

	sort.Strings(plan.Remove)
	sort.Strings(plan.Add)
	sortChanges(plan.Update)
	sortChanges(plan.AddThenSet)
	return plan
}

func merge(lines []Line) map[string]int {
	m := make(map[string]int, len(lines))
	for _, l := range lines {
		if l.ProductID == "" || l.Count < 1 {
			continue
		}
		m[l.ProductID] += l.Count
	}
	return m
}

func sortChanges(cs []Change) {
	sort.Slice(cs, func(i, j int) bool { return cs[i].ProductID < cs[j].ProductID })
}
