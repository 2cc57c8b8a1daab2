package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/projecttracker/tracker/internal/logging"
	"github.com/projecttracker/tracker/pkg/kvstore"
	"github.com/projecttracker/tracker/pkg/offline"
	"github.com/projecttracker/tracker/pkg/trackerapi"
)

var rootCmd = &cobra.Command{
	Use:   "tracker",
	Short: "Offline-first client for the project tracker",
	Long: `Browse and edit projects from the terminal.

Edits made while the server is unreachable are applied locally, stored in
a queue under the state directory and replayed on the next successful
connection.`,
	SilenceUsage:      true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return initConfig() },
}

// persistent flags, each bound to the viper key of the same name
var configKeys = []string{"server", "state-dir", "queue-backend", "redis-addr", "redis-db", "redis-prefix", "timeout", "probe-interval", "debounce", "log-level"}

func init() {
	f := rootCmd.PersistentFlags()
	f.String("server", "http://localhost:3000", "API base URL")
	f.String("state-dir", defaultStateDir(), "directory for the queue, snapshot and log")
	f.String("queue-backend", kvstore.BackendFile, "queue storage: file, sqlite or redis")
	f.String("redis-addr", "localhost:6379", "redis address for the redis backend")
	f.Int("redis-db", 0, "redis database number for the redis backend")
	f.String("redis-prefix", "tracker:", "key prefix for the redis backend")
	f.Duration("timeout", trackerapi.DefaultTimeout, "per-request timeout")
	f.Duration("probe-interval", 3*time.Second, "connectivity probe interval for watch")
	f.Int("debounce", 2, "agreeing probes needed to change online state")
	f.String("log-level", "INFO", "log level: DEBUG, INFO, WARN or ERROR")

	for _, key := range configKeys {
		_ = viper.BindPFlag(key, f.Lookup(key))
	}
	viper.SetEnvPrefix("TRACKER")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
}

func defaultStateDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".tracker"
	}
	return filepath.Join(home, ".tracker")
}

// initConfig reads an optional tracker.yaml from the state dir.
func initConfig() error {
	viper.SetConfigName("tracker")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(viper.GetString("state-dir"))
	viper.AddConfigPath(defaultStateDir())
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("read config: %w", err)
		}
	}
	return nil
}

func backendName() string {
	if b := viper.GetString("queue-backend"); b != "" {
		return b
	}
	return kvstore.BackendFile
}

// session is the client state one command works with.
type session struct {
	api     *trackerapi.RealClient
	store   kvstore.Store
	tracker *offline.Tracker
	logs    io.Closer
}

func openSession(ctx context.Context) (*session, error) {
	stateDir := viper.GetString("state-dir")
	if err := os.MkdirAll(stateDir, 0o700); err != nil {
		return nil, fmt.Errorf("create state dir: %w", err)
	}
	logs := logging.SetupWith(logging.Options{
		Level: viper.GetString("log-level"),
		File:  filepath.Join(stateDir, "tracker.log"),
	})

	store, err := kvstore.Open(ctx, kvstore.Config{
		Backend:   viper.GetString("queue-backend"),
		Dir:       stateDir,
		RedisAddr: viper.GetString("redis-addr"),
		RedisDB:   viper.GetInt("redis-db"),
		Prefix:    viper.GetString("redis-prefix"),
	})
	if err != nil {
		logs.Close()
		return nil, err
	}

	timeout := viper.GetDuration("timeout")
	api := trackerapi.NewClient(viper.GetString("server"), trackerapi.WithTimeout(timeout))
	observer := offline.NewObserver(api,
		offline.WithProbeInterval(viper.GetDuration("probe-interval")),
		offline.WithDebounce(viper.GetInt("debounce")),
		offline.WithProbeTimeout(timeout),
	)
	tr := offline.New(api, store, offline.WithObserver(observer))
	if err := tr.Hydrate(ctx); err != nil {
		store.Close()
		logs.Close()
		return nil, err
	}
	return &session{api: api, store: store, tracker: tr, logs: logs}, nil
}

// connect probes the server once. When it answers, pending edits are
// replayed and the list refreshed.
func (s *session) connect(ctx context.Context) bool {
	if err := s.api.Ping(ctx); err != nil {
		s.tracker.SetOnline(false)
		return false
	}
	s.tracker.HandleStatus(ctx, true)
	return true
}

func (s *session) Close() {
	_ = s.store.Close()
	_ = s.logs.Close()
}

// withSession opens a session for the duration of fn.
func withSession(cmd *cobra.Command, fn func(ctx context.Context, s *session) error) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	s, err := openSession(ctx)
	if err != nil {
		return err
	}
	defer s.Close()
	return fn(ctx, s)
}
