package main

import (
	"strings"

	"github.com/spf13/cobra"

	"pkt.systems/pslog"
	"pkt.systems/tally/httpapi"
	"pkt.systems/tally/internal/appconfig"
)

func newServeCmd() *cobra.Command {
	var cfgPath string
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the theme settings UI",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := appconfig.Load(cfgPath)
			if err != nil {
				return err
			}
			if strings.TrimSpace(addr) != "" {
				cfg.HTTP.Addr = strings.TrimSpace(addr)
			}
			logger := pslog.Ctx(cmd.Context())
			logger.Info("theme cookie configured", "name", cfg.Theme.CookieName, "path", cfg.Theme.CookiePath, "expiry_days", cfg.Theme.ExpiryDays, "accent_delay_ms", cfg.Theme.AccentDelayMs)
			server := httpapi.NewServer(serverConfig(cfg))
			return httpapi.ListenAndServe(cmd.Context(), cfg.HTTP.Addr, server.Handler())
		},
	}
	cmd.Flags().StringVarP(&cfgPath, "config", "c", "", "path to config file")
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides http.addr)")
	return cmd
}

func serverConfig(cfg appconfig.Config) httpapi.Config {
	return httpapi.Config{
		Addr:              cfg.HTTP.Addr,
		BaseURL:           cfg.HTTP.BaseURL,
		BasePath:          cfg.HTTP.BasePath,
		Codec:             cfg.Theme.Codec(),
		AccentDelay:       cfg.Theme.AccentDelay(),
		StructuralClasses: cfg.Theme.StructuralClasses,
	}
}
