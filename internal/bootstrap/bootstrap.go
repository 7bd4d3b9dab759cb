// Package bootstrap dépose sur disque les fichiers embarqués (config,
// templates) pour que l'utilisateur puisse les modifier.
package bootstrap

import (
	"bytes"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"time"

	"github.com/patrickprogramme/ttmlscribe/internal/fsutil"
	"github.com/patrickprogramme/ttmlscribe/internal/logging"
)

// Statuts renvoyés par ExportDefaults, par chemin embarqué.
const (
	StatusWritten     = "written"
	StatusUnchanged   = "unchanged"
	StatusSkipped     = "skipped (different)"
	StatusOverwritten = "overwritten"
)

// ExportDefaults copie l'arborescence srcPrefix de fsys vers destDir.
// Un fichier identique est laissé tel quel ; un fichier différent n'est
// remplacé qu'avec force, après une copie .bak horodatée.
func ExportDefaults(fsys fs.FS, srcPrefix, destDir string, force bool) (map[string]string, error) {
	status := make(map[string]string)

	err := fs.WalkDir(fsys, srcPrefix, func(p string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		rel, err := filepath.Rel(srcPrefix, p)
		if err != nil {
			return err
		}
		dest := filepath.Join(destDir, rel)
		if d.IsDir() {
			return os.MkdirAll(dest, 0o755)
		}

		data, err := fs.ReadFile(fsys, p)
		if err != nil {
			return fmt.Errorf("lecture de la ressource embarquée %s : %w", p, err)
		}

		existing, err := os.ReadFile(dest)
		switch {
		case err != nil:
			if err := fsutil.WriteFileAtomic(dest, data, 0o644); err != nil {
				return err
			}
			status[p] = StatusWritten
		case bytes.Equal(existing, data):
			status[p] = StatusUnchanged
		case !force:
			status[p] = StatusSkipped
		default:
			backup := dest + ".bak." + time.Now().Format("20060102T150405")
			if err := os.WriteFile(backup, existing, 0o644); err != nil {
				return fmt.Errorf("sauvegarde de %s impossible : %w", dest, err)
			}
			if err := fsutil.WriteFileAtomic(dest, data, 0o644); err != nil {
				return err
			}
			status[p] = StatusOverwritten
		}
		return nil
	})

	return status, err
}

// EnsureTemplatesPresent ajoute dans tplDir les templates de srcFiles qui
// manquent. Un fichier présent n'est jamais remplacé. Le parent de tplDir
// doit exister.
func EnsureTemplatesPresent(tplDir string, fsys fs.FS, srcFiles []string) error {
	parent := filepath.Dir(tplDir)
	st, err := os.Stat(parent)
	if err != nil {
		return fmt.Errorf("répertoire parent %s : %w", parent, err)
	}
	if !st.IsDir() {
		return fmt.Errorf("le parent existe mais n'est pas un répertoire : %s", parent)
	}
	if err := os.MkdirAll(tplDir, 0o755); err != nil {
		return fmt.Errorf("création du répertoire de templates %s : %w", tplDir, err)
	}

	log := logging.WithComponent("bootstrap")
	for _, src := range srcFiles {
		dest := filepath.Join(tplDir, path.Base(src))
		if _, err := os.Stat(dest); err == nil {
			continue
		} else if !os.IsNotExist(err) {
			return fmt.Errorf("test du fichier %s : %w", dest, err)
		}

		data, err := fs.ReadFile(fsys, src)
		if err != nil {
			return fmt.Errorf("ressource embarquée introuvable %s : %w", src, err)
		}
		if err := fsutil.WriteFileAtomic(dest, data, 0o644); err != nil {
			return fmt.Errorf("écriture du template %s : %w", dest, err)
		}
		log.Info().Str("path", dest).Msg("template créé")
	}
	return nil
}
