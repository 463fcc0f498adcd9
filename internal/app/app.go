// Package app assembles the long-lived collaborators a command needs:
// configuration, logger, credential store, session and API client.
package app

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"

	"nathanbeddoewebdev/panelctl/internal/api"
	"nathanbeddoewebdev/panelctl/internal/apikeys"
	"nathanbeddoewebdev/panelctl/internal/auditlog"
	"nathanbeddoewebdev/panelctl/internal/config"
	"nathanbeddoewebdev/panelctl/internal/credstore"
	"nathanbeddoewebdev/panelctl/internal/invoices"
	"nathanbeddoewebdev/panelctl/internal/logger"
	"nathanbeddoewebdev/panelctl/internal/servers"
	"nathanbeddoewebdev/panelctl/internal/session"
	"nathanbeddoewebdev/panelctl/internal/users"
)

const (
	// EnvNoKeyring disables the OS keychain; credentials then live only in
	// the cookie jar.
	EnvNoKeyring = "PANELCTL_NO_KEYRING"

	// EnvToken supplies a bearer token (typically an API key) for a single
	// process without touching stored credentials.
	EnvToken = "PANELCTL_TOKEN"

	cookieFile = "cookies.json"
)

// Options controls how an App is built.
type Options struct {
	// Token, when set, runs the process with an in-memory session holding
	// only this token. Stored credentials are neither read nor written.
	Token string

	Verbose bool

	// Stderr receives navigation hints and, with Verbose, log records.
	Stderr io.Writer

	// Getenv defaults to os.Getenv.
	Getenv func(string) string

	// Audit, when non-nil, replaces the on-disk audit repository.
	Audit auditlog.Repository
}

// App holds the collaborators shared by every command.
type App struct {
	Config  *config.Config
	Logger  *slog.Logger
	Session *session.Manager
	API     *api.Client
	Audit   auditlog.Repository
	Jar     *credstore.CookieJar

	closers []func() error
}

// New loads configuration and wires the session and API client.
func New(opts Options) (*App, error) {
	if opts.Getenv == nil {
		opts.Getenv = os.Getenv
	}
	if opts.Stderr == nil {
		opts.Stderr = os.Stderr
	}
	if opts.Token == "" {
		opts.Token = opts.Getenv(EnvToken)
	}

	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	cfg.ApplyEnv(opts.Getenv)

	dir, err := config.Dir()
	if err != nil {
		return nil, err
	}

	a := &App{Config: cfg}

	logCfg := logger.Config{
		Level:   logger.ParseLevel(cfg.LogLevel),
		LogFile: filepath.Join(dir, logger.FileName),
		Format:  cfg.LogFormat,
	}
	if opts.Verbose {
		logCfg.Level = slog.LevelDebug
		logCfg.Stderr = opts.Stderr
	}
	log, closeLog, err := logger.New(logCfg)
	if err != nil {
		return nil, err
	}
	a.Logger = log
	a.closers = append(a.closers, closeLog)

	a.Audit = opts.Audit
	if a.Audit == nil {
		repo, err := auditlog.Open()
		if err != nil {
			a.Logger.Warn("audit log unavailable", "error", err)
		} else {
			a.Audit = repo
			a.closers = append(a.closers, repo.Close)
		}
	}

	store, jar, err := a.credentialStore(dir, opts)
	if err != nil {
		a.Close()
		return nil, err
	}
	a.Jar = jar

	sessOpts := session.Options{
		Navigator: session.NewHintNavigator(opts.Stderr),
		Logger:    a.Logger.With("component", "session"),
	}
	if a.Audit != nil {
		sessOpts.Recorder = auditlog.NewSessionRecorder(a.Audit, a.Logger)
	}
	if cfg.SignOutURL != "" {
		sessOpts.Federated = session.NewRevocationSignOut(cfg.SignOutURL, func() string {
			return a.Session.ActiveToken()
		})
	}
	a.Session = session.NewManager(store, sessOpts)

	clientOpts := []api.Option{api.WithLogger(a.Logger.With("component", "api"))}
	if jar != nil {
		clientOpts = append(clientOpts, api.WithCookieJar(jar))
	}
	a.API = api.NewClient(cfg.APIBaseURL, a.Session, clientOpts...)

	return a, nil
}

// credentialStore picks the backends: memory only for a one-off token,
// otherwise the keychain (unless disabled) over the cookie jar.
func (a *App) credentialStore(dir string, opts Options) (*credstore.Store, *credstore.CookieJar, error) {
	storeLog := a.Logger.With("component", "credstore")

	if opts.Token != "" {
		mem := credstore.NewMemoryBackend()
		store := credstore.New(mem, credstore.NewMemoryBackend(), storeLog)
		if err := store.Set(credstore.AuthToken, opts.Token, 0); err != nil {
			return nil, nil, err
		}
		return store, nil, nil
	}

	jar := credstore.NewCookieJar(filepath.Join(dir, cookieFile), apiHost(a.Config.APIBaseURL))

	var primary credstore.Backend = credstore.NewKeyringBackend(credstore.ServiceName)
	if opts.Getenv(EnvNoKeyring) != "" {
		primary = credstore.Unavailable{Err: fmt.Errorf("%w: disabled by %s", credstore.ErrUnavailable, EnvNoKeyring)}
	}
	return credstore.New(primary, jar, storeLog), jar, nil
}

func apiHost(baseURL string) string {
	u, err := url.Parse(baseURL)
	if err != nil {
		return ""
	}
	return u.Hostname()
}

// Servers returns the server service bound to the API client.
func (a *App) Servers() *servers.Service { return servers.NewService(a.API) }

// Users returns the user service bound to the API client.
func (a *App) Users() *users.Service { return users.NewService(a.API) }

// Invoices returns the invoice service bound to the API client.
func (a *App) Invoices() *invoices.Service { return invoices.NewService(a.API) }

// APIKeys returns the API key service bound to the API client.
func (a *App) APIKeys() *apikeys.Service { return apikeys.NewService(a.API) }

// Close releases the log file and the audit database.
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}
