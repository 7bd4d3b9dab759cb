package render

import (
	"bytes"
	"fmt"
	"io/fs"
	"os"
	"path"
	"strings"
	"sync"
	"text/template"

	"github.com/patrickprogramme/ttmlscribe/internal/assets"
	"github.com/patrickprogramme/ttmlscribe/internal/fsutil"
	"github.com/patrickprogramme/ttmlscribe/pkg/model"
)

// Renderer gère le parsing paresseux (lazy) des templates et fournit des méthodes de rendu.
type Renderer struct {
	templates *template.Template
	fsys      fs.FS    // embed.FS ou os.DirFS
	patterns  []string // relatifs au fsys, ex: "templates/*.tmpl"
	once      sync.Once
	err       error
}

// New construit un Renderer qui parsera plus tard les patterns depuis fsys.
func New(fsys fs.FS, patterns []string) (*Renderer, error) {
	if fsys == nil {
		return nil, fmt.Errorf("fsys est nil")
	}
	if len(patterns) == 0 {
		return nil, fmt.Errorf("aucun template fourni")
	}
	return &Renderer{
		fsys:     fsys,
		patterns: append([]string(nil), patterns...),
	}, nil
}

// Default utilise les templates embarqués.
func Default() *Renderer {
	r, _ := New(assets.Embedded, []string{assets.TemplatesDir + "/*.tmpl"})
	return r
}

// FromDir lit les templates de dir (ex: binDir/templates) s'il en contient,
// sinon retombe sur les templates embarqués.
func FromDir(dir string) (*Renderer, error) {
	ok, err := fsutil.DirHasMatchingFiles(dir, []string{"*.tmpl"})
	if err != nil {
		return nil, fmt.Errorf("templates %s: %w", dir, err)
	}
	if !ok {
		return Default(), nil
	}
	r, err := New(os.DirFS(dir), []string{"*.tmpl"})
	if err != nil {
		return nil, err
	}
	if err := r.ParseNow(); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *Renderer) parseTemplates() error {
	r.once.Do(func() {
		t := template.New("root").Funcs(funcMap())
		for _, p := range r.patterns {
			var err error
			if t, err = t.ParseFS(r.fsys, p); err != nil {
				r.err = fmt.Errorf("parse pattern %q: %w", p, err)
				return
			}
		}
		r.templates = t
	})
	return r.err
}

// ParseNow force le parsing immédiat.
func (r *Renderer) ParseNow() error {
	if r == nil {
		return fmt.Errorf("nil renderer")
	}
	return r.parseTemplates()
}

// TemplateFor retourne le nom du template d'un format textuel.
func TemplateFor(f model.Format) (string, error) {
	if !f.IsTextual() {
		return "", fmt.Errorf("pas de template pour le format %s", f)
	}
	return "lyrics" + f.Extension() + ".tmpl", nil
}

// Render exécute le template nommé (basename du fichier .tmpl).
func (r *Renderer) Render(name string, data Sheet) ([]byte, error) {
	if r == nil {
		return nil, fmt.Errorf("renderer is nil")
	}
	if err := r.parseTemplates(); err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := r.templates.ExecuteTemplate(&buf, name, data); err != nil {
		return nil, fmt.Errorf("execute template %s: %w", name, err)
	}
	return buf.Bytes(), nil
}

// RenderFormat rend data dans le format textuel f.
func (r *Renderer) RenderFormat(f model.Format, data Sheet) ([]byte, error) {
	name, err := TemplateFor(f)
	if err != nil {
		return nil, err
	}
	return r.Render(name, data)
}

// TemplateNames retourne les noms des templates parsés, ou à défaut les
// basenames des patterns.
func (r *Renderer) TemplateNames() []string {
	if r == nil {
		return nil
	}
	if r.templates == nil {
		out := make([]string, 0, len(r.patterns))
		for _, p := range r.patterns {
			out = append(out, path.Base(p))
		}
		return out
	}
	var names []string
	for _, t := range r.templates.Templates() {
		if n := t.Name(); n != "" && strings.HasSuffix(n, ".tmpl") {
			names = append(names, n)
		}
	}
	return names
}
