package assets

import "embed"

//go:embed ttmlscribe.example.yaml
//go:embed templates/*.tmpl
var Embedded embed.FS

// Nom de l'asset de config par défaut (chemin DANS Embedded)
const DefaultConfigAsset = "ttmlscribe.example.yaml"

// TemplatesDir est le dossier des templates dans Embedded.
const TemplatesDir = "templates"

// DefaultTemplatePaths : templates embarqués, chemins relatifs DANS Embedded.
var DefaultTemplatePaths = []string{
	"templates/lyrics.txt.tmpl",
	"templates/lyrics.md.tmpl",
}
