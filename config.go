/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package main

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Seednode/buzzerbox/buzzer"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	modeDevelopment = "development"
	modeProduction  = "production"
)

type Config struct {
	authoritativeTimer bool
	bind               string
	corsOrigin         string
	idleTimeout        time.Duration
	maxPlayers         int
	mode               string
	names              string
	port               int
	prefix             string
	profile            bool
	rateLimit          int
	rateWindow         time.Duration
	sweepInterval      time.Duration
	tlsCert            string
	tlsKey             string
	verbose            bool
	version            bool
}

func (c *Config) validate() error {
	if (c.tlsCert == "") != (c.tlsKey == "") {
		return errors.New("both --tls-cert and --tls-key must be provided together")
	}
	if c.port < 1 || c.port > 65535 {
		return fmt.Errorf("invalid port (must be between 1-65535 inclusive): %d", c.port)
	}
	if c.mode != modeDevelopment && c.mode != modeProduction {
		return fmt.Errorf("invalid mode (must be %q or %q): %q", modeDevelopment, modeProduction, c.mode)
	}
	if c.maxPlayers < 1 {
		return fmt.Errorf("invalid max players (must be at least 1): %d", c.maxPlayers)
	}
	if c.rateLimit < 1 || c.rateWindow <= 0 {
		return fmt.Errorf("invalid rate limit: %d events per %s", c.rateLimit, c.rateWindow)
	}
	if c.sweepInterval <= 0 || c.idleTimeout <= 0 {
		return errors.New("--sweep-interval and --idle-timeout must be positive")
	}
	return nil
}

func (c *Config) scheme() string {
	if c.tlsCert != "" && c.tlsKey != "" {
		return "https"
	}
	return "http"
}

func newCmd(cfg *Config) *cobra.Command {
	v := viper.New()
	v.SetEnvPrefix("BUZZERBOX")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	cmd := &cobra.Command{
		Use:           "buzzerbox",
		Short:         "A buzzer, scratchpad and scoreboard server for quiz nights.",
		Args:          cobra.ExactArgs(0),
		SilenceErrors: true,
		Version:       releaseVersion,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cfg.validate(); err != nil {
				return err
			}
			return ServePage(cmd.Context(), cfg, args)
		},
	}

	fs := cmd.Flags()

	fs.SetNormalizeFunc(func(_ *pflag.FlagSet, name string) pflag.NormalizedName {
		return pflag.NormalizedName(strings.ReplaceAll(name, "_", "-"))
	})

	fs.BoolVar(&cfg.authoritativeTimer, "authoritative-timer", false, "lock all answers server-side when a timer runs out (env: BUZZERBOX_AUTHORITATIVE_TIMER)")
	fs.StringVarP(&cfg.bind, "bind", "b", "0.0.0.0", "address to bind to (env: BUZZERBOX_BIND)")
	fs.StringVar(&cfg.corsOrigin, "cors-origin", "*", "comma-separated origins allowed to open websockets, or * for any (env: BUZZERBOX_CORS_ORIGIN)")
	fs.DurationVar(&cfg.idleTimeout, "idle-timeout", buzzer.DefaultIdleTimeout, "time after creation at which an empty room is closed (env: BUZZERBOX_IDLE_TIMEOUT)")
	fs.IntVar(&cfg.maxPlayers, "max-players", buzzer.DefaultMaxPlayers, "maximum players per room, excluding the gamemaster (env: BUZZERBOX_MAX_PLAYERS)")
	fs.StringVar(&cfg.mode, "mode", modeDevelopment, "operating mode, development or production (env: BUZZERBOX_MODE)")
	fs.StringVar(&cfg.names, "names", "", "path to a JSON file of fallback player names (env: BUZZERBOX_NAMES)")
	fs.IntVarP(&cfg.port, "port", "p", 8080, "port to listen on (env: BUZZERBOX_PORT)")
	fs.StringVar(&cfg.prefix, "prefix", "", "path to prepend to all URLs, for use behind reverse proxy (env: BUZZERBOX_PREFIX)")
	fs.BoolVar(&cfg.profile, "profile", false, "register net/http/pprof handlers (env: BUZZERBOX_PROFILE)")
	fs.IntVar(&cfg.rateLimit, "rate-limit", 30, "events a single connection may send per rate window (env: BUZZERBOX_RATE_LIMIT)")
	fs.DurationVar(&cfg.rateWindow, "rate-window", 10*time.Second, "window over which --rate-limit applies (env: BUZZERBOX_RATE_WINDOW)")
	fs.DurationVar(&cfg.sweepInterval, "sweep-interval", buzzer.DefaultSweepInterval, "time between sweeps for abandoned rooms (env: BUZZERBOX_SWEEP_INTERVAL)")
	fs.StringVar(&cfg.tlsCert, "tls-cert", "", "path to tls certificate (env: BUZZERBOX_TLS_CERT)")
	fs.StringVar(&cfg.tlsKey, "tls-key", "", "path to tls keyfile (env: BUZZERBOX_TLS_KEY)")
	fs.BoolVarP(&cfg.verbose, "verbose", "v", false, "display additional output (env: BUZZERBOX_VERBOSE)")
	fs.BoolVarP(&cfg.version, "version", "V", false, "display version and exit (env: BUZZERBOX_VERSION)")

	fs.VisitAll(func(f *pflag.Flag) {
		_ = v.BindPFlag(f.Name, f)
		_ = v.BindEnv(f.Name)
		if !f.Changed && v.IsSet(f.Name) {
			_ = fs.Set(f.Name, fmt.Sprintf("%v", v.Get(f.Name)))
		}
	})

	cmd.CompletionOptions.HiddenDefaultCmd = true
	cmd.SetHelpCommand(&cobra.Command{Hidden: true})
	cmd.SetVersionTemplate("buzzerbox v{{.Version}}\n")

	cmd.SilenceErrors = true
	cmd.SilenceUsage = true

	return cmd
}
