// Package template snapshots a directory tree into the store and writes it back out.
package template

import (
	"database/sql"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/benoctopus/devflow/internal/db"
	"github.com/benoctopus/devflow/internal/models"
	"github.com/rotisserie/eris"
)

// BinaryMarker prefixes the stored content of files that are not valid UTF-8.
// The file extension follows the marker, e.g. "BINARY_FILE:.png".
const BinaryMarker = "BINARY_FILE:"

var (
	// ErrDuplicateTemplate is returned when a template name is already taken
	ErrDuplicateTemplate = eris.New("template already exists")

	// ErrTemplateNotFound is returned when applying an unknown template
	ErrTemplateNotFound = eris.New("template not found")
)

// ignoredNames are skipped wherever they appear in a path
var ignoredNames = map[string]bool{
	".git":         true,
	"__pycache__":  true,
	".vscode":      true,
	".idea":        true,
	"node_modules": true,
	".env":         true,
	".DS_Store":    true,
}

// ignoredExtensions are skipped by file suffix
var ignoredExtensions = []string{".pyc", ".log", ".tmp"}

// Ignored reports whether a file or directory name is excluded from snapshots
func Ignored(name string) bool {
	if ignoredNames[name] {
		return true
	}
	for _, ext := range ignoredExtensions {
		if strings.HasSuffix(name, ext) {
			return true
		}
	}
	return false
}

// IsBinary reports whether stored content is a binary placeholder
func IsBinary(content string) bool {
	return strings.HasPrefix(content, BinaryMarker)
}

// Capture walks dir and returns relative slash-separated paths mapped to file content
func Capture(dir string) (map[string]string, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, eris.Wrapf(err, "failed to read directory: %s", dir)
	}
	if !info.IsDir() {
		return nil, eris.Errorf("not a directory: %s", dir)
	}

	files := make(map[string]string)
	err = filepath.WalkDir(dir, func(p string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if p == dir {
			return nil
		}

		if Ignored(d.Name()) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		if !d.Type().IsRegular() {
			return nil
		}

		rel, err := filepath.Rel(dir, p)
		if err != nil {
			return eris.Wrapf(err, "failed to resolve relative path: %s", p)
		}

		content, err := os.ReadFile(p)
		if err != nil {
			return eris.Wrapf(err, "failed to read file: %s", p)
		}

		key := filepath.ToSlash(rel)
		if utf8.Valid(content) {
			files[key] = string(content)
		} else {
			files[key] = BinaryMarker + filepath.Ext(p)
		}
		return nil
	})
	if err != nil {
		return nil, eris.Wrapf(err, "failed to capture directory: %s", dir)
	}

	return files, nil
}

// Create snapshots dir under name. Existing templates are never replaced.
func Create(database *sql.DB, name, description, dir string) (*models.Template, error) {
	if name == "" {
		return nil, eris.New("template name is required")
	}

	exists, err := db.TemplateExists(database, name)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, eris.Wrapf(ErrDuplicateTemplate, "template %q", name)
	}

	files, err := Capture(dir)
	if err != nil {
		return nil, err
	}

	template := &models.Template{Name: name, Description: description, Files: files}
	if err := db.CreateTemplate(database, template); err != nil {
		return nil, err
	}

	return template, nil
}

// ApplyResult lists what Apply wrote and what it left out
type ApplyResult struct {
	Created []string
	Skipped []string // Binary placeholders
}

// Apply writes the files of template name into target, creating directories as needed
func Apply(database *sql.DB, name, target string) (*ApplyResult, error) {
	template, err := db.GetTemplate(database, name)
	if err != nil {
		return nil, err
	}
	if template == nil {
		return nil, eris.Wrapf(ErrTemplateNotFound, "template %q", name)
	}

	if err := os.MkdirAll(target, 0o755); err != nil {
		return nil, eris.Wrapf(err, "failed to create target directory: %s", target)
	}

	paths := make([]string, 0, len(template.Files))
	for p := range template.Files {
		paths = append(paths, p)
	}
	sort.Strings(paths)

	result := &ApplyResult{}
	for _, rel := range paths {
		content := template.Files[rel]

		clean := path.Clean(rel)
		if path.IsAbs(clean) || clean == ".." || strings.HasPrefix(clean, "../") {
			return result, eris.Errorf("template %q contains a path outside the target: %s", name, rel)
		}

		if IsBinary(content) {
			result.Skipped = append(result.Skipped, rel)
			continue
		}

		full := filepath.Join(target, filepath.FromSlash(clean))
		if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
			return result, eris.Wrapf(err, "failed to create directory for: %s", rel)
		}
		if err := os.WriteFile(full, []byte(content), 0o644); err != nil {
			return result, eris.Wrapf(err, "failed to write file: %s", rel)
		}
		result.Created = append(result.Created, rel)
	}

	return result, nil
}

// List returns every stored template ordered by name
func List(database *sql.DB) ([]*models.Template, error) {
	return db.GetAllTemplates(database)
}

// Names returns the names of every stored template
func Names(database *sql.DB) ([]string, error) {
	templates, err := List(database)
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(templates))
	for _, t := range templates {
		names = append(names, t.Name)
	}
	return names, nil
}
