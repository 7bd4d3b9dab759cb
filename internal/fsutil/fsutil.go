// Package fsutil regroupe les écritures sur disque : écriture atomique,
// choix d'un nom libre et nettoyage des noms de fichiers.
package fsutil

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
)

// maxSuffix borne la recherche d'un nom libre (titre_1 ... titre_N).
const maxSuffix = 999

// ErrEmptyBaseName : aucun nom de fichier à dériver.
var ErrEmptyBaseName = errors.New("fsutil: nom de fichier vide")

// ErrNoFreeName : tous les suffixes sont déjà pris.
var ErrNoFreeName = errors.New("fsutil: aucun nom libre")

// DirHasMatchingFiles indique si dir contient au moins un fichier qui
// correspond à l'un des motifs (syntaxe filepath.Match, sans récursion).
// Un dossier absent vaut false, sans erreur.
func DirHasMatchingFiles(dir string, patterns []string) (bool, error) {
	info, err := os.Stat(dir)
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if !info.IsDir() {
		return false, fmt.Errorf("%s n'est pas un dossier", dir)
	}

	for _, pat := range patterns {
		matches, err := filepath.Glob(filepath.Join(dir, pat))
		if err != nil {
			return false, err
		}
		if len(matches) > 0 {
			return true, nil
		}
	}
	return false, nil
}

// WriteFileAtomic écrit data dans un fichier .part voisin puis le renomme en
// destPath : un lecteur voit l'ancien document ou le nouveau, jamais un
// document tronqué. Les dossiers parents sont créés.
func WriteFileAtomic(destPath string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(destPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("création du dossier %s: %w", dir, err)
	}

	part, err := os.CreateTemp(dir, "."+filepath.Base(destPath)+".*.part")
	if err != nil {
		return fmt.Errorf("fichier temporaire: %w", err)
	}
	partName := part.Name()
	// sans effet après un Rename réussi
	defer func() {
		_ = part.Close()
		_ = os.Remove(partName)
	}()

	if _, err := part.Write(data); err != nil {
		return fmt.Errorf("écriture de %s: %w", partName, err)
	}
	_ = part.Sync()
	if err := part.Close(); err != nil {
		return fmt.Errorf("fermeture de %s: %w", partName, err)
	}
	_ = os.Chmod(partName, perm)

	if err := os.Rename(partName, destPath); err != nil {
		return fmt.Errorf("remplacement de %s: %w", destPath, err)
	}
	return nil
}

// FreePath retourne dir/baseName+ext, ou dir/baseName_N+ext avec le plus
// petit N libre quand le fichier existe déjà.
func FreePath(dir, baseName, ext string) (string, error) {
	candidate := filepath.Join(dir, baseName+ext)
	for n := 1; n <= maxSuffix; n++ {
		if _, err := os.Stat(candidate); errors.Is(err, os.ErrNotExist) {
			return candidate, nil
		} else if err != nil {
			return "", err
		}
		candidate = filepath.Join(dir, baseName+"_"+strconv.Itoa(n)+ext)
	}
	return "", fmt.Errorf("%w: %s%s", ErrNoFreeName, baseName, ext)
}

// SaveAtomic écrit content dans outDir sous baseName+ext. Sans overwrite,
// un fichier existant n'est jamais remplacé (voir FreePath). Retourne le
// chemin effectivement écrit.
func SaveAtomic(outDir, baseName, ext string, content []byte, overwrite bool) (string, error) {
	if baseName == "" {
		return "", ErrEmptyBaseName
	}
	dest := filepath.Join(outDir, baseName+ext)
	if !overwrite {
		var err error
		if dest, err = FreePath(outDir, baseName, ext); err != nil {
			return "", err
		}
	}
	if err := WriteFileAtomic(dest, content, 0o644); err != nil {
		return "", err
	}
	return dest, nil
}
