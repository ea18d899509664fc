package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/verte-zerg/conjuga/internal/config"
	"github.com/verte-zerg/conjuga/internal/conjugation"
	"github.com/verte-zerg/conjuga/internal/logger"
	"github.com/verte-zerg/conjuga/internal/redisbus"
	"github.com/verte-zerg/conjuga/internal/settings"
	"github.com/verte-zerg/conjuga/internal/store"
	"github.com/verte-zerg/conjuga/internal/verbs"
	"github.com/verte-zerg/conjuga/internal/wordlist"
)

type options struct {
	apiURL    string
	timeout   int
	verbsPath string
	backend   string
	redisURL  string
	pollMs    int
	logLevel  string
	logFile   string
	addr      string
}

// loadOptions layers .env, the config file and explicit flags into opts.
func loadOptions(cmd *cobra.Command) error {
	if err := config.LoadDotEnv(); err != nil {
		return fmt.Errorf("failed to load .env: %w", err)
	}
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	config.ApplyEnv(&fileCfg)

	applyStringConfig(cmd, "api-url", &opts.apiURL, fileCfg.Quiz.APIURL)
	applyIntConfig(cmd, "timeout", &opts.timeout, fileCfg.Quiz.TimeoutSeconds)
	applyStringConfig(cmd, "verbs", &opts.verbsPath, fileCfg.Quiz.Verbs)
	applyStringConfig(cmd, "settings-backend", &opts.backend, fileCfg.Settings.Backend)
	applyStringConfig(cmd, "redis-url", &opts.redisURL, fileCfg.Settings.RedisURL)
	applyIntConfig(cmd, "poll-interval", &opts.pollMs, fileCfg.Settings.PollIntervalMs)
	applyStringConfig(cmd, "log-level", &opts.logLevel, fileCfg.Log.Level)
	applyStringConfig(cmd, "addr", &opts.addr, fileCfg.Serve.Addr)
	if fileCfg.Log.File != nil {
		opts.logFile = *fileCfg.Log.File
	}
	return opts.validate()
}

func (o options) validate() error {
	if o.timeout <= 0 {
		return fmt.Errorf("--timeout must be > 0")
	}
	if o.pollMs <= 0 {
		return fmt.Errorf("--poll-interval must be > 0")
	}
	switch o.backend {
	case "sqlite":
	case "redis":
		if o.redisURL == "" {
			return fmt.Errorf("--redis-url is required for the redis settings backend")
		}
	default:
		return fmt.Errorf("--settings-backend must be sqlite or redis, got %q", o.backend)
	}
	return nil
}

// logger writes to stderr for serve and to a file for the TUI commands.
func (o options) logger(stderr bool) (*zap.Logger, error) {
	path := ""
	if !stderr {
		path = o.logFile
		if path == "" {
			path = config.DefaultLogPath()
		}
	}
	log, err := logger.New(o.logLevel, path)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}
	return log, nil
}

func (o options) source() (verbs.Source, error) {
	if o.apiURL != "" {
		client, err := verbs.NewClient(o.apiURL, time.Duration(o.timeout)*time.Second)
		if err != nil {
			return nil, fmt.Errorf("invalid --api-url: %w", err)
		}
		return client, nil
	}
	infinitives := wordlist.Default()
	if o.verbsPath != "" {
		loaded, err := wordlist.LoadVerbs(o.verbsPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load verbs from %s: %w", o.verbsPath, err)
		}
		infinitives = loaded
	}
	catalog, err := verbs.NewCatalog(infinitives, conjugation.TenseKeys(), conjugation.Conjugator{})
	if err != nil {
		return nil, fmt.Errorf("failed to build verb catalog: %w", err)
	}
	return catalog, nil
}

// settingsBackend opens the configured durable backend. The returned func
// releases it.
func (o options) settingsBackend(ctx context.Context) (settings.Backend, func(), error) {
	if o.backend == "redis" {
		bus, err := redisbus.NewFromURL(ctx, o.redisURL)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to connect to redis: %w", err)
		}
		return bus, func() {
			if cerr := bus.Close(); cerr != nil {
				logErrf("failed to close redis: %v\n", cerr)
			}
		}, nil
	}
	st, err := openStore()
	if err != nil {
		return nil, nil, err
	}
	st.SetPollInterval(time.Duration(o.pollMs) * time.Millisecond)
	return st, func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}, nil
}

func openStore() (*store.Store, error) {
	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return nil, fmt.Errorf("failed to open db: %w", err)
	}
	return st, nil
}

func openSettings(ctx context.Context, backend settings.Backend, log *zap.Logger) *settings.Store {
	return settings.Open(ctx, backend, log)
}

// env holds everything the TUI commands share.
type env struct {
	source   verbs.Source
	settings *settings.Store
	store    *store.Store
	closers  []func()

	stopWatch func()
	watchDone chan struct{}
}

// openEnv wires the verb source, answer history and settings store, and
// starts watching the settings backend for changes from other processes.
func openEnv(ctx context.Context, log *zap.Logger) (*env, error) {
	source, err := opts.source()
	if err != nil {
		return nil, err
	}
	e := &env{source: source}

	st, err := openStore()
	if err != nil {
		return nil, err
	}
	e.store = st
	e.closers = append(e.closers, func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	})

	var backend settings.Backend = st
	if opts.backend == "redis" {
		b, closeBackend, err := opts.settingsBackend(ctx)
		if err != nil {
			e.close()
			return nil, err
		}
		backend = b
		e.closers = append(e.closers, closeBackend)
	} else {
		st.SetPollInterval(time.Duration(opts.pollMs) * time.Millisecond)
	}

	e.settings = openSettings(ctx, backend, log)
	watchCtx, stop := context.WithCancel(ctx)
	e.stopWatch = stop
	e.watchDone = make(chan struct{})
	go func() {
		defer close(e.watchDone)
		if err := e.settings.Watch(watchCtx); err != nil && !errors.Is(err, context.Canceled) {
			log.Warn("settings watch stopped", zap.Error(err))
		}
	}()
	return e, nil
}

// close stops the watcher and releases resources in reverse order of
// acquisition.
func (e *env) close() {
	if e.stopWatch != nil {
		e.stopWatch()
		<-e.watchDone
	}
	for i := len(e.closers) - 1; i >= 0; i-- {
		e.closers[i]()
	}
}

func applyStringConfig(cmd *cobra.Command, name string, target, value *string) {
	if value == nil {
		return
	}
	if cmd.Flags().Lookup(name) == nil || cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyIntConfig(cmd *cobra.Command, name string, target, value *int) {
	if value == nil {
		return
	}
	if cmd.Flags().Lookup(name) == nil || cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}
