// Package scaffold renders the hexa project, use case and port templates
// and writes the generated files.
package scaffold

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"go/format"
	"io/fs"
	"sort"
	"strings"
	"sync"
	"text/template"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/KeSHaMI/hexaframe/pkg/errors"
)

var bufferPool = sync.Pool{
	New: func() any {
		return new(bytes.Buffer)
	},
}

// DefaultExecutionTimeout bounds a single template execution.
const DefaultExecutionTimeout = 5 * time.Second

//go:embed templates
var embeddedTemplates embed.FS

// Renderer executes the embedded templates. It is safe for concurrent use.
type Renderer struct {
	mu        sync.RWMutex
	templates map[string]*template.Template
	timeout   time.Duration
}

// RendererOption configures a Renderer.
type RendererOption func(*Renderer)

// WithExecutionTimeout sets the maximum time a template may run.
func WithExecutionTimeout(d time.Duration) RendererOption {
	return func(r *Renderer) {
		if d > 0 {
			r.timeout = d
		}
	}
}

// NewRenderer parses every embedded template.
func NewRenderer(opts ...RendererOption) (*Renderer, error) {
	r := &Renderer{
		templates: make(map[string]*template.Template),
		timeout:   DefaultExecutionTimeout,
	}
	for _, opt := range opts {
		opt(r)
	}
	if err := r.loadEmbedded(); err != nil {
		return nil, errors.TemplateWrap(err, "scaffold.NewRenderer", "failed to load embedded templates")
	}
	return r, nil
}

func (r *Renderer) loadEmbedded() error {
	return fs.WalkDir(embeddedTemplates, "templates", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(path, ".tmpl") {
			return nil
		}
		content, err := embeddedTemplates.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read embedded template %s: %w", path, err)
		}
		name := strings.TrimSuffix(strings.TrimPrefix(path, "templates/"), ".tmpl")
		return r.register(name, string(content))
	})
}

// Register adds or replaces a named template.
func (r *Renderer) Register(name, content string) error {
	if err := r.register(name, content); err != nil {
		return errors.TemplateWrap(err, "scaffold.Register", "failed to parse template "+name)
	}
	return nil
}

func (r *Renderer) register(name, content string) error {
	tmpl, err := template.New(name).Funcs(funcMap()).Option("missingkey=error").Parse(content)
	if err != nil {
		return err
	}
	r.mu.Lock()
	r.templates[name] = tmpl
	r.mu.Unlock()
	return nil
}

// Names lists the registered templates in sorted order.
func (r *Renderer) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.templates))
	for name := range r.templates {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Render executes the named template. Output for a target ending in .go is
// passed through gofmt, so a template that yields invalid Go fails here
// rather than in the generated project.
func (r *Renderer) Render(ctx context.Context, name, target string, data any) ([]byte, error) {
	const op = "scaffold.Render"

	r.mu.RLock()
	tmpl, ok := r.templates[name]
	r.mu.RUnlock()
	if !ok {
		return nil, errors.NotFound(op, "template not found: "+name).WithDetail("template", name)
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	out, err := r.execute(ctx, op, tmpl, data)
	if err != nil {
		return nil, err
	}
	if strings.HasSuffix(target, ".go") {
		formatted, ferr := format.Source(out)
		if ferr != nil {
			return nil, errors.TemplateWrap(ferr, op, "generated source does not parse: "+target).
				WithDetail("template", name)
		}
		return formatted, nil
	}
	return out, nil
}

// execute runs tmpl on its own goroutine so a runaway template cannot hold
// the caller past ctx. text/template cannot be interrupted, so the goroutine
// may outlive the call.
func (r *Renderer) execute(ctx context.Context, op string, tmpl *template.Template, data any) ([]byte, error) {
	type outcome struct {
		out []byte
		err error
	}
	done := make(chan outcome, 1)

	go func() {
		buf := bufferPool.Get().(*bytes.Buffer)
		buf.Reset()
		defer func() {
			bufferPool.Put(buf)
			if p := recover(); p != nil {
				done <- outcome{err: errors.TemplateWrap(fmt.Errorf("template panic: %v", p), op,
					"template execution panicked: "+tmpl.Name())}
			}
		}()

		if err := tmpl.Execute(buf, data); err != nil {
			done <- outcome{err: errors.TemplateWrap(err, op, "failed to render template "+tmpl.Name())}
			return
		}
		done <- outcome{out: bytes.Clone(buf.Bytes())}
	}()

	select {
	case <-ctx.Done():
		return nil, errors.Canceled(op, ctx.Err()).WithDetail("template", tmpl.Name())
	case o := <-done:
		return o.out, o.err
	}
}

func funcMap() template.FuncMap {
	return template.FuncMap{
		"snake":      ToSnake,
		"camel":      ToCamel,
		"lowerCamel": ToLowerCamel,
		"pkg":        PackageName,
		"title":      cases.Title(language.English).String,
		"lower":      strings.ToLower,
		"upper":      strings.ToUpper,
		"join":       strings.Join,
		"trimSuffix": strings.TrimSuffix,
	}
}
