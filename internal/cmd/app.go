package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/caresync/caresync/internal/api"
	"github.com/caresync/caresync/internal/config"
	"github.com/caresync/caresync/internal/errors"
	"github.com/caresync/caresync/internal/log"
	"github.com/caresync/caresync/internal/render"
	"github.com/caresync/caresync/internal/session"
	"github.com/caresync/caresync/internal/storage"
)

// app is the assembled client stack every command runs against.
type app struct {
	cfg     *config.Config
	store   storage.Store
	client  *api.Client
	manager *session.Manager
	view    *render.View
	format  render.Format
	logger  *log.Logger
}

// newApp builds the stack from flags, config file, and environment,
// then hydrates the session from the state store. The 401 hook and the
// forced-logout navigation signal are registered here, once.
func newApp(cmd *cobra.Command) (*app, error) {
	cfgPath, _ := cmd.Flags().GetString("config")

	var cfg *config.Config
	var err error
	if cfgPath != "" {
		cfg, err = config.LoadFrom(cfgPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, err
	}

	if apiURL, _ := cmd.Flags().GetString("api-url"); apiURL != "" {
		cfg.APIURL = apiURL
	}
	if level, _ := cmd.Flags().GetString("log-level"); level != "" {
		cfg.LogLevel = level
	}

	logCfg := log.DefaultConfig()
	logCfg.Level = log.ParseLevel(cfg.LogLevel)
	logCfg.Format = log.ParseFormat(cfg.LogFormat)
	logger := log.New(logCfg)
	log.SetDefaultLogger(logger)

	outputFlag, _ := cmd.Flags().GetString("output")
	format, err := render.ParseFormat(outputFlag)
	if err != nil {
		return nil, errors.New(errors.ErrCodeConfigInvalid, err.Error())
	}

	fileStore, err := storage.NewFileStore(cfg.StateDir)
	if err != nil {
		return nil, err
	}
	var store storage.Store = fileStore
	if cfg.EncryptState {
		store, err = storage.NewEncryptedStore(fileStore, cfg.StateDir)
		if err != nil {
			return nil, err
		}
	}

	a := &app{
		cfg:    cfg,
		store:  store,
		view:   render.NewView(cmd.OutOrStdout()),
		format: format,
		logger: logger,
	}

	var manager *session.Manager
	client := api.NewClient(cfg.APIURL,
		api.WithTimeout(cfg.Timeout),
		api.WithLogger(logger),
		api.WithTokenSource(func() string { return manager.Token() }),
		api.WithUnauthorizedHandler(func() { manager.HandleUnauthorized() }),
	)
	manager = session.NewManager(client, store,
		session.WithManagerLogger(logger),
		session.WithNavigator(func() {
			fmt.Fprintln(os.Stderr, "Your session has ended. Run 'caresync login' to sign in again.")
		}),
	)

	a.client = client
	a.manager = manager

	if err := manager.Initialize(); err != nil {
		return nil, err
	}

	return a, nil
}

// requireAuth returns the current session or an error telling the user
// to log in.
func (a *app) requireAuth() (session.Session, error) {
	s := a.manager.Current()
	if !s.Authenticated() {
		return s, errors.New(errors.ErrCodeAuthUnauthorized, "not logged in").
			WithSuggestion("Run 'caresync login' first")
	}
	return s, nil
}

// emit renders data in the selected machine format, or calls text for
// the text view.
func (a *app) emit(cmd *cobra.Command, data any, text func()) error {
	if a.format == render.FormatText {
		text()
		return nil
	}
	return render.Encode(cmd.OutOrStdout(), a.format, data)
}
