package bootstrap

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/patrickprogramme/ttmlscribe/internal/fsutil"
	"github.com/patrickprogramme/ttmlscribe/internal/logging"
)

// EnsureConfigPresent copie l'asset assetPath de fsys vers dstPath si ce
// fichier n'existe pas encore. Idempotent ; le dossier parent est créé.
func EnsureConfigPresent(dstPath string, fsys fs.FS, assetPath string) error {
	if _, err := os.Stat(dstPath); err == nil {
		return nil
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("échec stat fichier cible %s: %w", dstPath, err)
	}

	if err := os.MkdirAll(filepath.Dir(dstPath), 0o755); err != nil {
		return fmt.Errorf("échec création répertoire parent de %s: %w", dstPath, err)
	}

	data, err := fs.ReadFile(fsys, assetPath)
	if err != nil {
		return fmt.Errorf("lecture asset embarqué %s: %w", assetPath, err)
	}
	if err := fsutil.WriteFileAtomic(dstPath, data, 0o644); err != nil {
		return fmt.Errorf("échec écriture config %s: %w", dstPath, err)
	}

	log := logging.WithComponent("bootstrap")
	log.Info().Str("path", dstPath).Msg("config par défaut créée")
	return nil
}
