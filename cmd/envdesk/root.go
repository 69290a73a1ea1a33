package main

import (
	"context"
	"os"
	"time"

	"github.com/MakeNowJust/heredoc"
	"github.com/spf13/cobra"

	"github.com/unkn0wn-root/envdesk/internal/bindings"
	"github.com/unkn0wn-root/envdesk/internal/config"
	"github.com/unkn0wn-root/envdesk/internal/docstore"
	"github.com/unkn0wn-root/envdesk/internal/envfmt"
	"github.com/unkn0wn-root/envdesk/internal/filesvc"
	"github.com/unkn0wn-root/envdesk/internal/telemetry"
	"github.com/unkn0wn-root/envdesk/internal/theme"
	"github.com/unkn0wn-root/envdesk/internal/ui"
	"github.com/unkn0wn-root/envdesk/internal/watcher"
)

func newRootCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "envdesk [FILE...]",
		Short: "Edit environment files in the terminal",
		Long: heredoc.Doc(`
			envdesk opens .env files in a terminal editor. Files given on the
			command line are opened next to the ones linked in earlier sessions.

			Settings are read from settings.toml or settings.yaml in the config
			directory (ENVDESK_CONFIG_DIR overrides it) and can be overridden
			with --set section.key=value.
		`),
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runEditor(cmd.Context(), args)
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&a.opts.logLevel, "log-level", "", "log level (debug, info, warn, error)")
	flags.StringVar(&a.opts.prefsBackend, "prefs-backend", "", "preferences backend (json or sqlite)")
	flags.StringArrayVar(&a.opts.sets, "set", nil, "override a setting (section.key=value, repeatable)")

	cmd.AddCommand(
		newInitCmd(a),
		newFmtCmd(a),
		newExportCmd(a),
		newDupesCmd(a),
		newLinkedCmd(a),
		newVersionCmd(a),
	)
	return cmd
}

func (a *app) runEditor(ctx context.Context, args []string) error {
	s, _, err := a.loadSettings()
	if err != nil {
		return err
	}
	logger, err := a.newLogger(s, nil)
	if err != nil {
		return err
	}
	defer logger.Close()
	log := logger.Logger

	tcfg, err := telemetry.Load(a.getenv)
	if err != nil {
		log.Warn("telemetry config ignored", "err", err)
	}
	tcfg.Version = version
	shutdown, err := telemetry.Setup(ctx, tcfg, log)
	if err != nil {
		log.Warn("telemetry disabled", "err", err)
	} else {
		defer func() {
			sctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
			defer cancel()
			if err := shutdown(sctx); err != nil {
				log.Warn("telemetry shutdown", "err", err)
			}
		}()
	}

	p := a.openPrefs(s, log)
	defer p.Close()

	th, err := theme.Load(config.ThemeDir(), s.UI.Theme)
	if err != nil {
		log.Warn("theme not loaded, using default", "theme", s.UI.Theme, "err", err)
		th = theme.DefaultTheme()
	}
	keys, err := bindings.NewMap(s.Bindings)
	if err != nil {
		return err
	}
	export, err := envfmt.ParseFormat(s.Editor.DefaultExport)
	if err != nil {
		return err
	}

	fs := filesvc.NewOS(filesvc.OSOptions{
		Watch: watcher.Options{
			Interval:      time.Duration(s.Watch.Interval),
			HashUnchanged: s.Watch.HashUnchanged,
			Notify:        s.Watch.Notify,
		},
		Logger: log,
	})
	defer fs.Close()

	dialogs := ui.NewDialogs()
	store := docstore.New(fs, dialogs, p, docstore.Options{Logger: log})
	if s.Watch.Enabled {
		store.Watch()
		defer store.Unwatch()
	}

	restored := store.Restore(ctx)
	if len(restored.Added) > 0 || len(restored.Failed) > 0 {
		log.Info("restored linked files", "summary", restored.Summary())
	}
	if len(args) > 0 {
		report := store.IngestDroppedFiles(ctx, args)
		for path, ferr := range report.Failed {
			log.Warn("open failed", "path", path, "err", ferr)
		}
	}

	wd, err := os.Getwd()
	if err != nil {
		wd = "."
	}
	return ui.Run(ui.Config{
		Store:         store,
		Dialogs:       dialogs,
		Theme:         &th,
		Keys:          keys,
		MaskValues:    s.Editor.MaskValues,
		DefaultExport: export,
		WorkDir:       wd,
		Logger:        log,
		Context:       ctx,
	})
}
