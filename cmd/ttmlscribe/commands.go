package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/patrickprogramme/ttmlscribe/internal/app"
)

// ioFlags : options d'entrée/sortie communes aux commandes qui transforment
// un document.
type ioFlags struct {
	output        string
	to            string
	from          string
	fromClipboard bool
	copy          bool
}

func (f *ioFlags) register(cmd *cobra.Command) {
	fl := cmd.Flags()
	fl.StringVarP(&f.output, "output", "o", "", `fichier de sortie, "-" pour stdout (défaut : output.dir)`)
	fl.StringVar(&f.to, "to", "", "format de sortie : ttml, txt, md")
	fl.StringVar(&f.from, "from", "", "format d'entrée : ttml, lrc, txt (défaut : deviné)")
	fl.BoolVar(&f.fromClipboard, "from-clipboard", false, "lire le document depuis le presse-papier")
	fl.BoolVar(&f.copy, "copy", false, "copier aussi le résultat dans le presse-papier")
}

func (f *ioFlags) source(args []string) (app.Source, error) {
	src := app.Source{Path: app.StdStream, FromClipboard: f.fromClipboard, Format: f.from}
	if len(args) > 0 {
		if f.fromClipboard {
			return src, fmt.Errorf("fichier %q et --from-clipboard sont incompatibles", args[0])
		}
		src.Path = args[0]
	}
	return src, nil
}

func (f *ioFlags) target() app.Target {
	return app.Target{Path: f.output, Format: f.to, Copy: f.copy}
}

// report signale où le document a été écrit.
func (c *cli) report(cmd *cobra.Command, path string) {
	if path != app.StdStream {
		c.ui.PrintInfo(cmd.Context(), "Écrit : "+path)
	}
}

func (c *cli) convertCommand() *cobra.Command {
	var iof ioFlags
	var extractBG bool
	cmd := &cobra.Command{
		Use:   "convert [fichier]",
		Short: "Importer du TTML, LRC ou texte et l'écrire en TTML, txt ou md",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := iof.source(args)
			if err != nil {
				return err
			}
			path, err := c.app.Convert(cmd.Context(), src, iof.target(), app.ConvertOptions{ExtractBG: extractBG})
			if err != nil {
				return err
			}
			c.report(cmd, path)
			return nil
		},
	}
	iof.register(cmd)
	cmd.Flags().BoolVar(&extractBG, "extract-bg", false, "sortir le texte entre parenthèses vers des lignes de fond")
	return cmd
}

func (c *cli) segmentCommand() *cobra.Command {
	var iof ioFlags
	var opts app.SegmentOptions
	var splitCJK, splitEnglish bool
	cmd := &cobra.Command{
		Use:   "segment [fichier]",
		Short: "Découper les mots (caractères CJK, syllabes, règles) et répartir leur durée",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := iof.source(args)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("split-cjk") {
				opts.SplitCJK = &splitCJK
			}
			if cmd.Flags().Changed("split-english") {
				opts.SplitEnglish = &splitEnglish
			}
			path, err := c.app.Segment(cmd.Context(), src, iof.target(), opts)
			if err != nil {
				return err
			}
			c.report(cmd, path)
			return nil
		},
	}
	iof.register(cmd)
	fl := cmd.Flags()
	fl.StringVar(&opts.Language, "lang", "", "langue de césure (ex : en-us, fr)")
	fl.StringVar(&opts.Mode, "mode", "", "ponctuation : merge ou standalone")
	fl.BoolVar(&splitCJK, "split-cjk", true, "un fragment par caractère CJK")
	fl.BoolVar(&splitEnglish, "split-english", true, "découper les mots latins en syllabes")
	fl.BoolVar(&opts.NoWait, "no-wait", false, "ne pas attendre le téléchargement des motifs de césure")
	return cmd
}

func (c *cli) romanizeCommand() *cobra.Command {
	var iof ioFlags
	cmd := &cobra.Command{
		Use:   "romanize [fichier]",
		Short: "Répartir la romanisation de chaque ligne sur ses mots",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := iof.source(args)
			if err != nil {
				return err
			}
			path, err := c.app.Romanize(cmd.Context(), src, iof.target())
			if err != nil {
				return err
			}
			c.report(cmd, path)
			return nil
		},
	}
	iof.register(cmd)
	return cmd
}

func (c *cli) checkCommand() *cobra.Command {
	var iof ioFlags
	cmd := &cobra.Command{
		Use:   "check [fichier]",
		Short: "Lister les incohérences du document (code de sortie 1 s'il y en a)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := iof.source(args)
			if err != nil {
				return err
			}
			_, err = c.app.Check(cmd.Context(), src)
			return err
		},
	}
	cmd.Flags().StringVar(&iof.from, "from", "", "format d'entrée : ttml, lrc, txt (défaut : deviné)")
	cmd.Flags().BoolVar(&iof.fromClipboard, "from-clipboard", false, "lire le document depuis le presse-papier")
	return cmd
}

func (c *cli) shiftCommand() *cobra.Command {
	var iof ioFlags
	var by int64
	cmd := &cobra.Command{
		Use:   "shift [fichier] --by ms",
		Short: "Décaler toutes les lignes de ms millisecondes (jamais avant 0)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := iof.source(args)
			if err != nil {
				return err
			}
			path, err := c.app.Shift(cmd.Context(), src, iof.target(), by)
			if err != nil {
				return err
			}
			c.report(cmd, path)
			return nil
		},
	}
	iof.register(cmd)
	cmd.Flags().Int64Var(&by, "by", 0, "décalage en millisecondes, négatif pour avancer")
	_ = cmd.MarkFlagRequired("by")
	return cmd
}

func (c *cli) fetchCommand() *cobra.Command {
	var iof ioFlags
	var q app.FetchQuery
	cmd := &cobra.Command{
		Use:   "fetch --track titre --artist artiste",
		Short: "Télécharger des paroles depuis LRCLIB",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := c.app.Fetch(cmd.Context(), q, iof.target())
			if err != nil {
				return err
			}
			c.report(cmd, path)
			return nil
		},
	}
	fl := cmd.Flags()
	fl.StringVar(&q.Track, "track", "", "titre de la piste")
	fl.StringVar(&q.Artist, "artist", "", "artiste")
	fl.StringVar(&q.Album, "album", "", "album (facultatif)")
	fl.IntVar(&q.Duration, "duration", 0, "durée en secondes (facultatif)")
	fl.StringVarP(&iof.output, "output", "o", "", `fichier de sortie, "-" pour stdout (défaut : output.dir)`)
	fl.StringVar(&iof.to, "to", "", "format de sortie : ttml, txt, md")
	fl.BoolVar(&iof.copy, "copy", false, "copier aussi le résultat dans le presse-papier")
	_ = cmd.MarkFlagRequired("track")
	_ = cmd.MarkFlagRequired("artist")
	return cmd
}

func (c *cli) initCommand() *cobra.Command {
	var force bool
	var dir string
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Exporter la configuration et les templates par défaut",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if dir == "" {
				dir = c.binDir
			}
			status, err := app.Init(dir, force)
			if err != nil {
				return err
			}
			keys := make([]string, 0, len(status))
			for k := range status {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			lines := make([]string, 0, len(keys))
			for _, k := range keys {
				lines = append(lines, k+" : "+status[k])
			}
			c.ui.PrintList(cmd.Context(), "Templates :", lines)
			c.ui.PrintInfo(cmd.Context(), "Fichiers par défaut en place dans "+dir)
			return nil
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "remplacer les templates modifiés (une copie .bak est gardée)")
	cmd.Flags().StringVar(&dir, "dir", "", "dossier cible (défaut : dossier de l'exécutable)")
	return cmd
}
