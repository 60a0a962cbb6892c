package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"

	"github.com/microcosm-cc/bluemonday"
	"github.com/spf13/cobra"

	"storefront/internal/adapter"
	"storefront/internal/api"
	"storefront/internal/config"
	"storefront/internal/session"
	"storefront/internal/storefront"
)

// options replace the configured backends. Tests inject a mock API and a
// memory store here.
type options struct {
	commerce adapter.Commerce
	store    session.TokenStore
}

// app is the state shared by every command of one invocation.
type app struct {
	opts   options
	stdout io.Writer
	stderr io.Writer

	// Global flags
	jsonOut bool
	verbose bool

	cfg      *config.Config
	commerce adapter.Commerce
	store    session.TokenStore
	closer   io.Closer
	sess     *session.Session
	logger   *slog.Logger
	text     *bluemonday.Policy
}

func newApp(opts options, stdout, stderr io.Writer) *app {
	return &app{
		opts:   opts,
		stdout: stdout,
		stderr: stderr,
		text:   bluemonday.StrictPolicy(),
	}
}

// setup wires the API client, token store and session. Runs before every command.
func (a *app) setup(ctx context.Context) error {
	level := slog.LevelWarn
	if a.verbose {
		level = slog.LevelDebug
	}
	a.logger = slog.New(slog.NewTextHandler(a.stderr, &slog.HandlerOptions{Level: level}))

	a.commerce = a.opts.commerce
	a.store = a.opts.store

	if a.commerce == nil {
		cfg, err := config.Load(ctx)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		a.cfg = cfg

		client, err := api.New(api.Config{
			BaseURL:   cfg.API.BaseURL,
			ChromeTLS: cfg.API.ChromeTLS,
		})
		if err != nil {
			return fmt.Errorf("creating API client: %w", err)
		}
		a.commerce = client
	}

	if a.store == nil {
		if a.cfg == nil {
			a.store = session.NewMemoryStore()
		} else {
			store, closer, err := openStore(ctx, a.cfg.TokenStore)
			if err != nil {
				return err
			}
			a.store, a.closer = store, closer
		}
	}

	sess, err := session.New(ctx, a.commerce, a.store, a.logger)
	if err != nil {
		return fmt.Errorf("restoring session: %w", err)
	}
	a.sess = sess
	return nil
}

// close releases the token store.
func (a *app) close() error {
	if a.closer == nil {
		return nil
	}
	return a.closer.Close()
}

// openStore opens the configured token store. The closer is nil for
// stores that hold no resources.
func openStore(ctx context.Context, cfg config.TokenStoreConfig) (session.TokenStore, io.Closer, error) {
	switch cfg.Kind {
	case config.StoreMemory:
		return session.NewMemoryStore(), nil, nil
	case config.StoreSQLite:
		store, err := session.OpenSQLiteStore(ctx, cfg.Path)
		if err != nil {
			return nil, nil, fmt.Errorf("opening token store: %w", err)
		}
		return store, store, nil
	default:
		return session.NewFileStore(cfg.Path), nil, nil
	}
}

// deps builds page dependencies. Notices print to stderr as they happen.
func (a *app) deps() storefront.Deps {
	return storefront.Deps{
		Commerce: a.commerce,
		Session:  a.sess,
		Notifier: storefront.NotifierFunc(func(n storefront.Notice) {
			fmt.Fprintf(a.stderr, "%s: %s\n", n.Level, n.Message)
		}),
		Logger: a.logger,
	}
}

// returnURL is where hosted payment sends the buyer back to.
func (a *app) returnURL() string {
	if a.cfg != nil {
		return a.cfg.API.ReturnURL
	}
	return "http://localhost:8080"
}

// emit prints view as JSON with --json, otherwise through render.
func (a *app) emit(view interface{}, render func(w io.Writer) error) error {
	if a.jsonOut {
		enc := json.NewEncoder(a.stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(view)
	}
	return render(a.stdout)
}

// plain strips markup from API-provided text for terminal output.
func (a *app) plain(s string) string {
	return unescape(a.text.Sanitize(s))
}

func (a *app) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "shopctl",
		Short: "Browse the shop, manage the cart and check out from the terminal",
		Long: `shopctl drives the storefront against the commerce API.

The session token is kept in the token store selected by TOKEN_STORE
(file, sqlite or memory) at TOKEN_STORE_PATH, so sign in once and the
other commands act as that user.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd.Context())
		},
	}

	root.PersistentFlags().BoolVar(&a.jsonOut, "json", false, "print raw view state as JSON")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "log API calls to stderr")

	root.AddCommand(
		a.signinCmd(),
		a.signupCmd(),
		a.signoutCmd(),
		a.whoamiCmd(),
		a.productsCmd(),
		a.productCmd(),
		a.categoriesCmd(),
		a.categoryCmd(),
		a.brandsCmd(),
		a.brandCmd(),
		a.cartCmd(),
		a.wishlistCmd(),
		a.addressesCmd(),
		a.checkoutCmd(),
		a.ordersCmd(),
	)
	return root
}
