package main

import (
	"context"
	"errors"
	"fmt"
	"io"

	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"

	"github.com/khoahotran/cardify/adapters/apiclient"
	"github.com/khoahotran/cardify/adapters/sessionfile"
	"github.com/khoahotran/cardify/internal/application/cardview"
	"github.com/khoahotran/cardify/internal/application/editor"
	"github.com/khoahotran/cardify/internal/application/render"
	"github.com/khoahotran/cardify/internal/application/session"
	"github.com/khoahotran/cardify/internal/config"
	"github.com/khoahotran/cardify/pkg/apperror"
	"github.com/khoahotran/cardify/pkg/logger"
	"github.com/khoahotran/cardify/pkg/tracing"
)

type appOptions struct {
	configPath string
	apiURL     string
	stateDir   string
	out        io.Writer
}

// app is the client process: one store, one resolver and one renderer shared by
// every command.
type app struct {
	ctx      context.Context
	cfg      config.Config
	log      logger.Logger
	tp       *sdktrace.TracerProvider
	client   *apiclient.Client
	marker   *sessionfile.Marker
	store    *session.Store
	resolver *cardview.Resolver
	renderer *render.Renderer
	out      io.Writer
	unwatch  func()
}

func newApp(ctx context.Context, opts appOptions) (*app, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	cfg, err := config.LoadConfig(opts.configPath)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	if opts.apiURL != "" {
		cfg.Viewer.APIURL = opts.apiURL
	}
	if opts.stateDir != "" {
		cfg.Viewer.StateDir = opts.stateDir
	}

	log := logger.NewZapLogger(cfg.App.Env, true)

	var tp *sdktrace.TracerProvider
	if cfg.Tracing.OTLPEndpoint != "" {
		if tp, err = tracing.NewTracerProvider(cfg, log, "cardify-cli"); err != nil {
			log.Warn("Tracing disabled", zap.Error(err))
		}
	}

	client, err := apiclient.New(cfg.Viewer.APIURL, cfg.Viewer.FetchTimeout, log)
	if err != nil {
		return nil, err
	}
	marker, err := sessionfile.New(cfg.Viewer.StateDir)
	if err != nil {
		return nil, err
	}

	store := session.NewStore(client, marker, log)
	unwatch := watchStore(store, log)
	store.RestoreOnStart(ctx)

	return &app{
		ctx:      ctx,
		cfg:      cfg,
		log:      log,
		tp:       tp,
		client:   client,
		marker:   marker,
		store:    store,
		resolver: cardview.NewResolver(client, cfg.Viewer.ReservedIDs, log),
		renderer: render.NewRenderer(opts.out),
		out:      opts.out,
		unwatch:  unwatch,
	}, nil
}

// watchStore logs every change of the shared slot, patches and restores
// included.
func watchStore(store *session.Store, log logger.Logger) func() {
	return store.Subscribe(func(v session.ActiveView) {
		log.Debug("Active card changed",
			zap.String("user_id", v.UserID()),
			zap.String("theme", v.ThemeID),
			zap.Uint64("version", store.Version()),
		)
	})
}

func (a *app) close() {
	if a.unwatch != nil {
		a.unwatch()
	}
	if a.tp != nil {
		_ = a.tp.Shutdown(context.Background())
	}
	_ = a.log.Sync()
}

func (a *app) shell(opts ...cardview.PageOption) *cardview.Shell {
	return cardview.NewShell(a.ctx, a.store, a.resolver, a.log, opts...)
}

func (a *app) editor() *editor.Editor {
	return editor.New(a.store, a.client, a.client, a.log)
}

// present turns a page snapshot into terminal output. Ready pages render the
// shared slot, which holds the foreign card while one is shown.
func (a *app) present(v cardview.View) string {
	switch v.Status {
	case cardview.StatusLoading:
		return a.renderer.Skeleton()
	case cardview.StatusNotFound:
		return a.renderer.NotFound()
	default:
		return a.renderer.Card(a.store.Active(), false)
	}
}

func (a *app) println(s string) {
	fmt.Fprintln(a.out, s)
}

// toast reports the outcome of a save the way the web client's notifications did.
func (a *app) toast(err error) error {
	if err == nil {
		a.println(a.renderer.Message("Profile Updated", "Your changes have been saved."))
		return nil
	}

	body := err.Error()
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		body = appErr.Message
		for field, msg := range appErr.Fields {
			body += fmt.Sprintf("\n• %s: %s", field, msg)
		}
	}
	var saveErr *editor.SaveError
	if errors.As(err, &saveErr) {
		body = "Your changes were not saved. Please try again."
	}
	a.println(a.renderer.Message("Save Failed", body))
	return err
}

func (a *app) requireSession() error {
	if a.store.Active().Empty() {
		return errors.New("not logged in; run 'cardctl login <userId>' first")
	}
	return nil
}
