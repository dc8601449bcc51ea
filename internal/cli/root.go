// Package cli implements the oneflow command tree.
package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/ayushprajapati1403/OneFlow-sub001/pkg/api/client"
	"github.com/ayushprajapati1403/OneFlow-sub001/pkg/auth"
	"github.com/ayushprajapati1403/OneFlow-sub001/pkg/config"
	"github.com/ayushprajapati1403/OneFlow-sub001/pkg/logger"
	"github.com/ayushprajapati1403/OneFlow-sub001/pkg/session"
)

var buildVersion = "dev"

var errNotSignedIn = errors.New("not signed in; run 'oneflow login' first")

// App carries the IO streams and per-invocation state of one CLI run.
type App struct {
	In  io.Reader
	Out io.Writer
	Err io.Writer
	// ReadPassword overrides the interactive password prompt.
	ReadPassword func(prompt string) (string, error)

	flags globalFlags
	env   *env
}

type globalFlags struct {
	configPath  string
	api         string
	prefix      string
	session     string
	logLevel    string
	output      string
	metricsFile string
}

// env is built once per run, after flags are parsed.
type env struct {
	cfg      config.ClientConfig
	logger   *slog.Logger
	store    *session.Store
	client   *client.Client
	auth     *auth.Controller
	registry *prometheus.Registry
	out      printer
}

// New returns an App bound to the process streams.
func New() *App {
	return &App{In: os.Stdin, Out: os.Stdout, Err: os.Stderr}
}

// ExecuteContext runs the command tree with args and releases the session
// store afterwards.
func (a *App) ExecuteContext(ctx context.Context, args []string) error {
	root := a.Command()
	root.SetArgs(args)
	root.SetIn(a.In)
	root.SetOut(a.Out)
	root.SetErr(a.Err)
	err := root.ExecuteContext(ctx)
	if cerr := a.close(); err == nil {
		err = cerr
	}
	return err
}

// Command builds the root command.
func (a *App) Command() *cobra.Command {
	root := &cobra.Command{
		Use:               "oneflow",
		Short:             "Command line client for the OneFlow project and billing API",
		Version:           buildVersion,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
	}
	pf := root.PersistentFlags()
	pf.StringVar(&a.flags.configPath, "config", "", "settings file (default $XDG_CONFIG_HOME/oneflow/config.yaml)")
	pf.StringVar(&a.flags.api, "api", "", "API base URL (overrides ONEFLOW_API_BASE_URL)")
	pf.StringVar(&a.flags.prefix, "prefix", "", `API path prefix (overrides ONEFLOW_API_PREFIX; "" sends requests to the bare base URL)`)
	pf.StringVar(&a.flags.session, "session", "", "session backend: file, redis, sqlite, postgres or memory")
	pf.StringVar(&a.flags.logLevel, "log-level", "", "log level: debug, info, warn or error")
	pf.StringVarP(&a.flags.output, "output", "o", outputTable, "output format: table or json")
	pf.StringVar(&a.flags.metricsFile, "metrics-file", "", "write request metrics in Prometheus text format to this file")

	root.AddCommand(
		a.loginCommand(),
		a.signupCommand(),
		a.logoutCommand(),
		a.statusCommand(),
		a.whoamiCommand(),
		a.projectsCommand(),
		a.tasksCommand(),
		a.timesheetsCommand(),
		a.contactsCommand(),
		a.invoicesCommand(),
		a.billsCommand(),
		a.expensesCommand(),
		a.usersCommand(),
		a.dashboardCommand(),
		a.configCommand(),
	)
	return root
}

func (a *App) setup(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	cfg, err := config.Load(a.flags.configPath)
	if err != nil {
		return err
	}
	if a.flags.api != "" {
		cfg.BaseURL = config.NormalizeBaseURL(a.flags.api)
	}
	if cmd.Flags().Changed("prefix") {
		cfg.APIPrefix = config.NormalizePrefix(a.flags.prefix)
	}
	if a.flags.session != "" {
		cfg.Session.Backend = strings.ToLower(strings.TrimSpace(a.flags.session))
	}
	if a.flags.logLevel != "" {
		cfg.Log.Level = a.flags.logLevel
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	out, err := newPrinter(a.Out, a.flags.output)
	if err != nil {
		return err
	}
	log, err := logger.New("oneflow-cli", logger.Options{Level: cfg.Log.Level, Format: cfg.Log.Format, Output: a.Err})
	if err != nil {
		return err
	}
	store, err := session.Open(ctx, cfg.Session, log)
	if err != nil {
		return err
	}
	registry := prometheus.NewRegistry()
	api, err := client.New(cfg,
		client.WithTokenSource(store),
		client.WithLogger(log),
		client.WithMetrics(client.NewMetrics(registry)),
	)
	if err != nil {
		_ = store.Close()
		return err
	}
	a.env = &env{
		cfg:      cfg,
		logger:   log,
		store:    store,
		client:   api,
		auth:     auth.New(ctx, api, store, log),
		registry: registry,
		out:      out,
	}
	return nil
}

func (a *App) close() error {
	if a.env == nil {
		return nil
	}
	var errs []error
	if a.flags.metricsFile != "" {
		if err := prometheus.WriteToTextfile(a.flags.metricsFile, a.env.registry); err != nil {
			errs = append(errs, fmt.Errorf("write metrics: %w", err))
		}
	}
	if err := a.env.store.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close session: %w", err))
	}
	a.env = nil
	return errors.Join(errs...)
}

// requireSession validates the stored session and fails when nobody is signed in.
func (a *App) requireSession(ctx context.Context) error {
	a.env.auth.Bootstrap(ctx)
	if !a.env.auth.IsAuthenticated() {
		return errNotSignedIn
	}
	return nil
}

func (a *App) readPassword(prompt string) (string, error) {
	if a.ReadPassword != nil {
		return a.ReadPassword(prompt)
	}
	fmt.Fprint(a.Err, prompt)
	if f, ok := a.In.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		secret, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(a.Err)
		if err != nil {
			return "", fmt.Errorf("read password: %w", err)
		}
		return string(secret), nil
	}
	line, err := bufio.NewReader(a.In).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("read password: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}
