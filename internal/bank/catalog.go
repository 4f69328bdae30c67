package bank

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/abhisek/quizbook/internal/digest"
)

//go:embed banks/*.json
var builtinFS embed.FS

// entry keeps a bank file's bytes rather than its parsed definition, so
// plaintext answers are decoded only while a bank is being loaded or verified.
type entry struct {
	info Info
	data []byte
	name string
}

// Catalog indexes the available question banks by id.
type Catalog struct {
	entries map[string]*entry
}

// NewCatalog returns an empty catalog.
func NewCatalog() *Catalog {
	return &Catalog{entries: make(map[string]*entry)}
}

// Builtin returns a catalog holding the banks compiled into the binary.
func Builtin() (*Catalog, error) {
	c := NewCatalog()
	if err := c.addFS(builtinFS, "banks", "builtin"); err != nil {
		return nil, err
	}
	return c, nil
}

// AddDir adds every .json, .yaml and .yml file in dir to the catalog.
func (c *Catalog) AddDir(dir string) error {
	if err := c.addFS(os.DirFS(dir), ".", dir); err != nil {
		return fmt.Errorf("load banks from %s: %w", dir, err)
	}
	return nil
}

func (c *Catalog) addFS(fsys fs.FS, root, source string) error {
	files, err := fs.ReadDir(fsys, root)
	if err != nil {
		return fmt.Errorf("read bank dir: %w", err)
	}
	for _, f := range files {
		if f.IsDir() || !isBankFile(f.Name()) {
			continue
		}
		p := path.Join(root, f.Name())
		data, err := fs.ReadFile(fsys, p)
		if err != nil {
			return fmt.Errorf("read %s: %w", p, err)
		}
		src := source
		if source != "builtin" {
			src = filepath.Join(source, f.Name())
		}
		if err := c.Add(data, f.Name(), src); err != nil {
			return err
		}
	}
	return nil
}

// Add parses and registers a single bank file.
func (c *Catalog) Add(data []byte, name, source string) error {
	def, err := Parse(data, name)
	if err != nil {
		return err
	}
	if _, exists := c.entries[def.ID]; exists {
		return fmt.Errorf("%w: %s (from %s)", ErrDuplicateID, def.ID, source)
	}
	c.entries[def.ID] = &entry{
		info: Info{
			ID:            def.ID,
			Title:         def.Title,
			Grade:         def.Grade,
			QuestionCount: len(def.Questions),
			Source:        source,
		},
		data: data,
		name: name,
	}
	return nil
}

func isBankFile(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".json", ".yaml", ".yml":
		return true
	}
	return false
}

// List returns bank summaries sorted by id.
func (c *Catalog) List() []Info {
	out := make([]Info, 0, len(c.entries))
	for _, e := range c.entries {
		out = append(out, e.info)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Has reports whether id is in the catalog.
func (c *Catalog) Has(id string) bool {
	_, ok := c.entries[id]
	return ok
}

// Definition decodes the bank file for id. Callers should drop the result
// once they are done with the plaintext answers.
func (c *Catalog) Definition(id string) (*Definition, error) {
	e, ok := c.entries[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return Parse(e.data, e.name)
}

// Load decodes the bank for id and digests its answers.
func (c *Catalog) Load(ctx context.Context, id string, d digest.Digester) (*Bank, error) {
	def, err := c.Definition(id)
	if err != nil {
		return nil, err
	}
	return Load(ctx, def, d)
}

// VerifyAll loads and verifies every bank in the catalog, returning the
// first failure.
func (c *Catalog) VerifyAll(ctx context.Context, d digest.Digester) error {
	for _, info := range c.List() {
		if err := c.VerifyOne(ctx, info.ID, d); err != nil {
			return err
		}
	}
	return nil
}

// VerifyOne loads the bank for id and checks the digest round trip.
func (c *Catalog) VerifyOne(ctx context.Context, id string, d digest.Digester) error {
	def, err := c.Definition(id)
	if err != nil {
		return err
	}
	b, err := Load(ctx, def, d)
	if err != nil {
		return err
	}
	return Verify(ctx, def, b, d)
}
