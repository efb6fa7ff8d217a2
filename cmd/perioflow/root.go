package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/perioflow/perioflow/internal/chart"
	"github.com/perioflow/perioflow/internal/charting"
	"github.com/perioflow/perioflow/internal/config"
	"github.com/perioflow/perioflow/internal/logging"
	"github.com/perioflow/perioflow/internal/share"
	"github.com/perioflow/perioflow/internal/store"
)

// app carries what every command shares. The store is opened on first use
// so commands that never touch it work without one.
type app struct {
	configFile  string
	envFile     string
	profileFile string

	cfg  *config.Config
	log  *zap.Logger
	kv   store.KV
	repo *store.Repository
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "perioflow",
		Short: "Periodontal charting from the keypad or by voice",
		Long: `perioflow walks a clinician through a full-mouth periodontal chart.

The charting sequence is derived from the enabled measurements (PD, RE,
BOP, MGJ), the missing teeth and the segment order. Values are entered on
the keypad in the interactive chart, or spoken and confirmed in a voice
session. Charts are stored in SQLite, Redis or memory.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.init(cmd)
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&a.configFile, "config", "", "YAML config file")
	pf.StringVar(&a.envFile, "env-file", ".env", "dotenv file with PERIOFLOW_* overrides")
	pf.String("store", "", "store driver: memory, sqlite, redis")
	pf.String("dsn", "", "sqlite path or redis:// URL")
	pf.String("log-level", "", "log level: debug, info, warn, error")
	pf.Bool("log-json", false, "log as JSON")
	pf.String("profile", "", "name of the stored charting settings")
	pf.StringVar(&a.profileFile, "profile-file", "", "charting settings from a YAML file instead of the store")

	root.AddCommand(
		newSequenceCmd(a),
		newSettingsCmd(a),
		newChartCmd(a),
		newKeypadCmd(a),
		newToothCmd(a),
		newVoiceCmd(a),
		newSummaryCmd(a),
		newExportCmd(a),
		newShareCmd(a),
		newRedeemCmd(a),
		newBoneLossCmd(),
		newVersionCmd(),
	)
	return root
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		// no configuration needed
		PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "perioflow %s\n", version)
		},
	}
}

func (a *app) init(cmd *cobra.Command) error {
	pf := cmd.Flags()
	lookup := func(name string) *pflag.Flag { return pf.Lookup(name) }

	cfg, err := config.Load(config.Options{
		File:    a.configFile,
		EnvFile: a.envFile,
		Flags: map[string]*pflag.Flag{
			"store.driver": lookup("store"),
			"store.dsn":    lookup("dsn"),
			"log.level":    lookup("log-level"),
			"log.json":     lookup("log-json"),
			"profile":      lookup("profile"),
		},
	})
	if err != nil {
		return err
	}
	a.cfg = cfg

	log, err := logging.New(cfg.Log)
	if err != nil {
		return err
	}
	a.log = log
	a.log.Debug("configuration loaded",
		zap.String("store", cfg.Store.Driver),
		zap.String("profile", cfg.Profile))
	return nil
}

func (a *app) close() error {
	if a.log != nil {
		_ = a.log.Sync()
	}
	if a.kv != nil {
		err := a.kv.Close()
		a.kv = nil
		a.repo = nil
		return err
	}
	return nil
}

func (a *app) repository(ctx context.Context) (*store.Repository, error) {
	if a.repo != nil {
		return a.repo, nil
	}
	kv, err := store.Open(ctx, a.cfg.Store)
	if err != nil {
		return nil, err
	}
	a.kv = kv
	a.repo = store.NewRepository(kv)
	return a.repo, nil
}

// engine binds c to the active settings. Missing teeth recorded on the
// chart take precedence over the profile's.
func (a *app) engine(ctx context.Context, c *chart.Chart) (*charting.Engine, error) {
	s, err := a.settings(ctx)
	if err != nil {
		return nil, err
	}
	if len(c.Missing) > 0 {
		s.Missing = c.MissingSet()
	}
	return charting.New(c, s, a.log), nil
}

func (a *app) saveSettings(ctx context.Context, s charting.Settings) error {
	repo, err := a.repository(ctx)
	if err != nil {
		return err
	}
	if err := repo.SaveSettings(ctx, a.cfg.Profile, s); err != nil {
		return err
	}
	a.log.Info("settings saved", zap.String("profile", a.cfg.Profile))
	return nil
}

func (a *app) shares(ctx context.Context) (*share.Service, error) {
	if _, err := a.repository(ctx); err != nil {
		return nil, err
	}
	return share.New(a.kv, a.cfg.ShareTTL), nil
}

// settings returns the charting settings from --profile-file, or the
// stored profile.
func (a *app) settings(ctx context.Context) (charting.Settings, error) {
	if a.profileFile != "" {
		return config.LoadProfile(a.profileFile)
	}
	repo, err := a.repository(ctx)
	if err != nil {
		return charting.Settings{}, err
	}
	return repo.LoadSettings(ctx, a.cfg.Profile)
}

func (a *app) loadChart(ctx context.Context, id string) (*chart.Chart, error) {
	repo, err := a.repository(ctx)
	if err != nil {
		return nil, err
	}
	c, err := repo.LoadChart(ctx, strings.TrimSpace(id))
	if errors.Is(err, store.ErrNotFound) {
		return nil, errors.WithHint(err, "create one with 'perioflow chart new' or check the --store and --dsn flags")
	}
	return c, err
}

func (a *app) saveChart(ctx context.Context, c *chart.Chart) error {
	repo, err := a.repository(ctx)
	if err != nil {
		return err
	}
	if err := repo.SaveChart(ctx, c); err != nil {
		return err
	}
	a.log.Info("chart saved", zap.String("chart", c.ID))
	return nil
}
