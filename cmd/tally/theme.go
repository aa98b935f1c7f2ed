package main

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"pkt.systems/tally/internal/appconfig"
	"pkt.systems/tally/internal/cookiejar"
	"pkt.systems/tally/internal/dom"
	"pkt.systems/tally/internal/reconcile"
	"pkt.systems/tally/internal/themestate"
	"pkt.systems/tally/schema"
)

var nowFunc = time.Now

func newThemeCmd() *cobra.Command {
	var cfgPath string
	cmd := &cobra.Command{
		Use:   "theme",
		Short: "Inspect and build theme cookies",
	}
	cmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "path to config file")

	cmd.AddCommand(newThemeEncodeCmd(&cfgPath))
	cmd.AddCommand(newThemeDecodeCmd(&cfgPath))
	cmd.AddCommand(newThemeRenderCmd(&cfgPath))
	return cmd
}

func newThemeEncodeCmd(cfgPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "encode [tag...]",
		Short: "Print the cookie string for a set of tags",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := appconfig.Load(*cfgPath)
			if err != nil {
				return err
			}
			tags, err := parseTags(args)
			if err != nil {
				return err
			}
			settings := themestate.Normalize(tags)
			_, err = fmt.Fprintln(cmd.OutOrStdout(), cfg.Theme.Codec().Encode(settings, nowFunc()))
			return err
		},
	}
}

func newThemeDecodeCmd(cfgPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "decode <cookie-header>",
		Short: "Print the tags stored in a Cookie header",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := appconfig.Load(*cfgPath)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			tags, ok := cfg.Theme.Codec().Decode(args[0])
			if !ok {
				_, err = fmt.Fprintln(out, "no theme cookie")
				return err
			}
			settings := themestate.Normalize(tags)
			_, err = fmt.Fprintf(out, "raw: %s\nnormalized: %s\n", strings.Join(stringsOf(tags), ","), settings.String())
			return err
		},
	}
}

func newThemeRenderCmd(cfgPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "render <cookie-header>",
		Short: "Show the page state a Cookie header produces",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := appconfig.Load(*cfgPath)
			if err != nil {
				return err
			}
			doc := dom.NewDocument(cfg.Theme.StructuralClasses...)
			jar := cookiejar.FromHeader(nil, args[0])
			rec := reconcile.New(cmd.Context(), doc, jar, reconcile.Options{Codec: cfg.Theme.Codec()})
			settings := rec.Load()

			out := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(out, "stored: %t\n", settings != nil)
			_, _ = fmt.Fprintf(out, "class: %s\n", doc.BodyClass())
			controls := doc.Controls()
			ids := make([]string, 0, len(controls))
			for id := range controls {
				ids = append(ids, id)
			}
			sort.Strings(ids)
			for _, id := range ids {
				_, _ = fmt.Fprintf(out, "#%s: %t\n", id, controls[id])
			}
			accent, ok := doc.ActiveAccent()
			if !ok {
				accent = "none"
			}
			_, err = fmt.Fprintf(out, "accent: %s\n", accent)
			return err
		},
	}
}

func parseTags(args []string) ([]schema.Tag, error) {
	tags := make([]schema.Tag, 0, len(args))
	for _, arg := range args {
		for _, part := range strings.Split(arg, ",") {
			if strings.TrimSpace(part) == "" {
				continue
			}
			tag, err := schema.ParseTag(part)
			if err != nil {
				return nil, fmt.Errorf("%w: %q", err, part)
			}
			tags = append(tags, tag)
		}
	}
	return tags, nil
}

func stringsOf(tags []schema.Tag) []string {
	out := make([]string, len(tags))
	for i, tag := range tags {
		out[i] = string(tag)
	}
	return out
}
