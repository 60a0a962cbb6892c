package main

import (
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"storefront/internal/model"
	"storefront/internal/storefront"
)

// =============================================================================
// ACCOUNT
// =============================================================================

func (a *app) signinCmd() *cobra.Command {
	var email, password string
	cmd := &cobra.Command{
		Use:   "signin",
		Short: "Sign in and keep the session token",
		RunE: func(cmd *cobra.Command, args []string) error {
			page := storefront.NewAuthPage(a.deps())
			if err := page.SignIn(cmd.Context(), email, password); err != nil {
				return err
			}
			return a.emit(page.View(), func(w io.Writer) error {
				return renderAuth(w, page.View())
			})
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "account email")
	cmd.Flags().StringVar(&password, "password", "", "account password")
	cmd.MarkFlagRequired("email")
	cmd.MarkFlagRequired("password")
	return cmd
}

func (a *app) signupCmd() *cobra.Command {
	var in model.SignUpInput
	cmd := &cobra.Command{
		Use:   "signup",
		Short: "Register a new account",
		Long:  `Register a new account. Sign in afterwards with the same credentials.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			page := storefront.NewAuthPage(a.deps())
			return page.SignUp(cmd.Context(), in)
		},
	}
	cmd.Flags().StringVar(&in.Name, "name", "", "display name")
	cmd.Flags().StringVar(&in.Email, "email", "", "account email")
	cmd.Flags().StringVar(&in.Password, "password", "", "account password")
	cmd.Flags().StringVar(&in.RePassword, "re-password", "", "password confirmation")
	cmd.Flags().StringVar(&in.Phone, "phone", "", "phone number")
	for _, name := range []string{"name", "email", "password", "re-password", "phone"} {
		cmd.MarkFlagRequired(name)
	}
	return cmd
}

func (a *app) signoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "signout",
		Short: "Forget the stored session token",
		RunE: func(cmd *cobra.Command, args []string) error {
			return storefront.NewAuthPage(a.deps()).SignOut(cmd.Context())
		},
	}
}

func (a *app) whoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in user",
		RunE: func(cmd *cobra.Command, args []string) error {
			view := storefront.NewAuthPage(a.deps()).View()
			return a.emit(view, func(w io.Writer) error {
				return renderAuth(w, view)
			})
		},
	}
}

// =============================================================================
// CATALOG
// =============================================================================

func (a *app) productsCmd() *cobra.Command {
	var filter model.ProductFilter
	cmd := &cobra.Command{
		Use:   "products",
		Short: "List products",
		Long: `List products. At most one filter applies: --brand wins over
--category, which wins over --subcategory.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			page := storefront.NewProductListPage(a.deps(), filter)
			if err := page.Load(cmd.Context()); err != nil {
				return err
			}
			view := page.View()
			return a.emit(view, func(w io.Writer) error {
				return a.renderProducts(w, view.Products)
			})
		},
	}
	cmd.Flags().StringVar(&filter.Brand, "brand", "", "brand id")
	cmd.Flags().StringVar(&filter.Category, "category", "", "category id")
	cmd.Flags().StringVar(&filter.Subcategory, "subcategory", "", "subcategory id")
	return cmd
}

func (a *app) productCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "product <id>",
		Short: "Show one product",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			page := storefront.NewProductPage(a.deps(), args[0])
			if err := page.Load(cmd.Context()); err != nil {
				return err
			}
			view := page.View()
			return a.emit(view, func(w io.Writer) error {
				return a.renderProduct(w, view)
			})
		},
	}
}

func (a *app) categoriesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "categories",
		Short: "List categories",
		RunE: func(cmd *cobra.Command, args []string) error {
			page := storefront.NewCategoriesPage(a.deps())
			if err := page.Load(cmd.Context()); err != nil {
				return err
			}
			view := page.View()
			return a.emit(view, func(w io.Writer) error {
				return renderNamed(w, view.Categories, func(c model.Category) (string, string) { return c.ID, c.Name })
			})
		},
	}
}

func (a *app) categoryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "category <id>",
		Short: "Show a category with its subcategories and products",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			page := storefront.NewCategoryPage(a.deps(), args[0])
			err := page.Load(cmd.Context())
			view := page.View()
			if err != nil && view.Category == nil {
				return err
			}
			return a.emit(view, func(w io.Writer) error {
				fmt.Fprintf(w, "%s\n\n", a.plain(view.Category.Name))
				if len(view.Subcategories) > 0 {
					fmt.Fprintln(w, "Subcategories:")
					if err := renderNamed(w, view.Subcategories, func(s model.Subcategory) (string, string) { return s.ID, s.Name }); err != nil {
						return err
					}
					fmt.Fprintln(w)
				}
				return a.renderProducts(w, view.Products)
			})
		},
	}
}

func (a *app) brandsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "brands",
		Short: "List brands",
		RunE: func(cmd *cobra.Command, args []string) error {
			page := storefront.NewBrandsPage(a.deps())
			if err := page.Load(cmd.Context()); err != nil {
				return err
			}
			view := page.View()
			return a.emit(view, func(w io.Writer) error {
				return renderNamed(w, view.Brands, func(b model.Brand) (string, string) { return b.ID, b.Name })
			})
		},
	}
}

func (a *app) brandCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "brand <id>",
		Short: "Show a brand and its products",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			page := storefront.NewBrandPage(a.deps(), args[0])
			if err := page.Load(cmd.Context()); err != nil {
				return err
			}
			view := page.View()
			return a.emit(view, func(w io.Writer) error {
				if view.Brand != nil {
					fmt.Fprintf(w, "%s\n\n", a.plain(view.Brand.Name))
				}
				return a.renderProducts(w, view.Products)
			})
		},
	}
}

// =============================================================================
// CART & WISHLIST
// =============================================================================

func (a *app) cartCmd() *cobra.Command {
	// show runs the action, then prints the resulting cart.
	show := func(action func(cmd *cobra.Command, page *storefront.CartPage, args []string) error) func(*cobra.Command, []string) error {
		return func(cmd *cobra.Command, args []string) error {
			page := storefront.NewCartPage(a.deps())
			if err := action(cmd, page, args); err != nil {
				return err
			}
			view := page.View()
			return a.emit(view, func(w io.Writer) error {
				return a.renderCart(w, view)
			})
		}
	}

	cmd := &cobra.Command{
		Use:   "cart",
		Short: "Show the cart",
		RunE: show(func(cmd *cobra.Command, page *storefront.CartPage, args []string) error {
			return page.Load(cmd.Context())
		}),
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "add <productId>",
			Short: "Add one unit of a product",
			Args:  cobra.ExactArgs(1),
			RunE: show(func(cmd *cobra.Command, page *storefront.CartPage, args []string) error {
				return page.Add(cmd.Context(), args[0])
			}),
		},
		&cobra.Command{
			Use:   "set <productId> <count>",
			Short: "Set the quantity of a product in the cart",
			Args:  cobra.ExactArgs(2),
			RunE: show(func(cmd *cobra.Command, page *storefront.CartPage, args []string) error {
				count, err := strconv.Atoi(args[1])
				if err != nil {
					return fmt.Errorf("invalid count %q: %w", args[1], err)
				}
				return page.UpdateQuantity(cmd.Context(), args[0], count)
			}),
		},
		&cobra.Command{
			Use:   "rm <productId>",
			Short: "Remove a product from the cart",
			Args:  cobra.ExactArgs(1),
			RunE: show(func(cmd *cobra.Command, page *storefront.CartPage, args []string) error {
				return page.Remove(cmd.Context(), args[0])
			}),
		},
		&cobra.Command{
			Use:   "clear",
			Short: "Empty the cart",
			Args:  cobra.NoArgs,
			RunE: show(func(cmd *cobra.Command, page *storefront.CartPage, args []string) error {
				return page.Clear(cmd.Context())
			}),
		},
	)
	return cmd
}

func (a *app) wishlistCmd() *cobra.Command {
	show := func(action func(cmd *cobra.Command, page *storefront.WishlistPage, args []string) error) func(*cobra.Command, []string) error {
		return func(cmd *cobra.Command, args []string) error {
			page := storefront.NewWishlistPage(a.deps())
			if err := action(cmd, page, args); err != nil {
				return err
			}
			view := page.View()
			return a.emit(view, func(w io.Writer) error {
				return a.renderProducts(w, view.Products)
			})
		}
	}

	cmd := &cobra.Command{
		Use:   "wishlist",
		Short: "Show the wishlist",
		RunE: show(func(cmd *cobra.Command, page *storefront.WishlistPage, args []string) error {
			return page.Load(cmd.Context())
		}),
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "add <productId>",
			Short: "Add a product to the wishlist",
			Args:  cobra.ExactArgs(1),
			RunE: show(func(cmd *cobra.Command, page *storefront.WishlistPage, args []string) error {
				return page.Add(cmd.Context(), args[0])
			}),
		},
		&cobra.Command{
			Use:   "rm <productId>",
			Short: "Remove a product from the wishlist",
			Args:  cobra.ExactArgs(1),
			RunE: show(func(cmd *cobra.Command, page *storefront.WishlistPage, args []string) error {
				return page.Remove(cmd.Context(), args[0])
			}),
		},
	)
	return cmd
}

// =============================================================================
// ADDRESSES, CHECKOUT & ORDERS
// =============================================================================

func (a *app) addressesCmd() *cobra.Command {
	show := func(action func(cmd *cobra.Command, page *storefront.ProfilePage, args []string) error) func(*cobra.Command, []string) error {
		return func(cmd *cobra.Command, args []string) error {
			page := storefront.NewProfilePage(a.deps())
			if err := action(cmd, page, args); err != nil {
				return err
			}
			view := page.View()
			return a.emit(view, func(w io.Writer) error {
				return renderAddresses(w, view.Addresses, "")
			})
		}
	}

	cmd := &cobra.Command{
		Use:   "addresses",
		Short: "List saved shipping addresses",
		RunE: show(func(cmd *cobra.Command, page *storefront.ProfilePage, args []string) error {
			return page.Load(cmd.Context())
		}),
	}

	var in model.AddressInput
	add := &cobra.Command{
		Use:   "add",
		Short: "Save a shipping address",
		Long:  `Save a shipping address. The API decides which fields are required.`,
		Args:  cobra.NoArgs,
		RunE: show(func(cmd *cobra.Command, page *storefront.ProfilePage, args []string) error {
			return page.AddAddress(cmd.Context(), in)
		}),
	}
	add.Flags().StringVar(&in.Name, "name", "", "label, e.g. Home")
	add.Flags().StringVar(&in.Details, "details", "", "street and building")
	add.Flags().StringVar(&in.Phone, "phone", "", "contact phone")
	add.Flags().StringVar(&in.City, "city", "", "city")

	cmd.AddCommand(
		add,
		&cobra.Command{
			Use:   "rm <id>",
			Short: "Delete a saved address",
			Args:  cobra.ExactArgs(1),
			RunE: show(func(cmd *cobra.Command, page *storefront.ProfilePage, args []string) error {
				return page.RemoveAddress(cmd.Context(), args[0])
			}),
		},
	)
	return cmd
}

func (a *app) checkoutCmd() *cobra.Command {
	var addressID string

	// prepare loads the checkout page and applies --address.
	prepare := func(cmd *cobra.Command) (*storefront.CheckoutPage, error) {
		page := storefront.NewCheckoutPage(a.deps(), a.returnURL())
		if err := page.Load(cmd.Context()); err != nil {
			return nil, err
		}
		if addressID != "" {
			if err := page.SelectAddress(addressID); err != nil {
				return nil, err
			}
		}
		return page, nil
	}

	cmd := &cobra.Command{
		Use:   "checkout",
		Short: "Show the checkout summary",
		RunE: func(cmd *cobra.Command, args []string) error {
			page, err := prepare(cmd)
			if err != nil {
				return err
			}
			view := page.View()
			return a.emit(view, func(w io.Writer) error {
				return a.renderCheckout(w, view)
			})
		},
	}
	cmd.PersistentFlags().StringVar(&addressID, "address", "", "saved address id (default: first saved address)")

	cmd.AddCommand(
		&cobra.Command{
			Use:   "online",
			Short: "Pay by card on the hosted payment page",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				page, err := prepare(cmd)
				if err != nil {
					return err
				}
				url, err := page.PayOnline(cmd.Context())
				if err != nil {
					return err
				}
				view := page.View()
				return a.emit(view, func(w io.Writer) error {
					if url != "" {
						fmt.Fprintf(w, "Open this page to pay:\n%s\n", url)
					}
					return nil
				})
			},
		},
		&cobra.Command{
			Use:   "cash",
			Short: "Place a cash-on-delivery order",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				page, err := prepare(cmd)
				if err != nil {
					return err
				}
				order, err := page.PayCash(cmd.Context())
				if err != nil {
					return err
				}
				view := page.View()
				return a.emit(view, func(w io.Writer) error {
					if order != nil {
						fmt.Fprintf(w, "Order %s: %s\n", order.ID, model.FormatPrice(order.TotalOrderPrice, ""))
					}
					return nil
				})
			},
		},
	)
	return cmd
}

func (a *app) ordersCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "orders",
		Short: "List your orders",
		RunE: func(cmd *cobra.Command, args []string) error {
			page := storefront.NewOrdersPage(a.deps())
			if err := page.Load(cmd.Context()); err != nil {
				return err
			}
			view := page.View()
			return a.emit(view, func(w io.Writer) error {
				return renderOrders(w, view.Orders)
			})
		},
	}
}
