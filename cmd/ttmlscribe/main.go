package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/patrickprogramme/ttmlscribe/internal/app"
	"github.com/patrickprogramme/ttmlscribe/internal/assets"
	"github.com/patrickprogramme/ttmlscribe/internal/config"
	"github.com/patrickprogramme/ttmlscribe/internal/logging"
	"github.com/patrickprogramme/ttmlscribe/internal/render"
	"github.com/patrickprogramme/ttmlscribe/internal/ui"
)

// cli porte l'état partagé entre la commande racine et ses sous-commandes.
type cli struct {
	configPath string
	logLevel   string
	binDir     string

	ui  ui.Interface
	app *app.App
}

func main() {
	// root context qui s'annule sur SIGINT / SIGTERM
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	c := &cli{binDir: binDir(), ui: ui.NewTerminal()}
	if err := c.rootCommand().ExecuteContext(ctx); err != nil {
		// les avertissements de check sont déjà affichés
		if !errors.Is(err, app.ErrWarnings) {
			fmt.Fprintf(os.Stderr, "erreur: %v\n", err)
		}
		stop()
		os.Exit(1)
	}
}

// binDir : dossier de l'exécutable, où vivent config et templates.
func binDir() string {
	exePath, err := os.Executable()
	if err != nil {
		return "."
	}
	return filepath.Dir(exePath)
}

func (c *cli) rootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "ttmlscribe",
		Short:         "Édition de paroles TTML : conversion, découpage, romanisation, calage",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.setup()
		},
	}
	root.PersistentFlags().StringVar(&c.configPath, "config", "",
		"fichier de configuration (défaut : "+config.DefaultFileName+" à côté de l'exécutable)")
	root.PersistentFlags().StringVar(&c.logLevel, "log-level", "", "niveau de journalisation (debug, info, warn, error)")

	root.AddCommand(
		c.convertCommand(),
		c.segmentCommand(),
		c.romanizeCommand(),
		c.checkCommand(),
		c.shiftCommand(),
		c.fetchCommand(),
		c.initCommand(),
	)
	return root
}

// setup charge la config, installe le logger et construit l'application.
func (c *cli) setup() error {
	if c.configPath == "" {
		c.configPath = filepath.Join(c.binDir, config.DefaultFileName)
	}
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return err
	}
	if c.logLevel != "" {
		cfg.Log.Level = c.logLevel
	}
	logging.Init(cfg.Log)

	warnings, err := cfg.Validate()
	if err != nil {
		return fmt.Errorf("configuration invalide: %w", err)
	}
	for _, w := range warnings {
		c.ui.PrintError(context.Background(), "warning: "+w)
	}

	renderer, err := render.FromDir(filepath.Join(c.binDir, assets.TemplatesDir))
	if err != nil {
		return fmt.Errorf("impossible de construire le renderer: %w", err)
	}
	c.app = app.New(cfg, c.ui, renderer)
	return nil
}
