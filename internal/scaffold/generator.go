package scaffold

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/go-git/go-git/v5"
	"golang.org/x/sync/errgroup"

	"github.com/KeSHaMI/hexaframe/internal/config"
	"github.com/KeSHaMI/hexaframe/internal/fileutil"
	"github.com/KeSHaMI/hexaframe/pkg/errors"
)

// FrameworkModule is the import path generated code depends on.
const FrameworkModule = "github.com/KeSHaMI/hexaframe"

// maxConcurrentRenders caps the number of templates rendered at once.
const maxConcurrentRenders = 4

// File is one planned output: a template rendered to a path relative to the
// generation root.
type File struct {
	Path     string
	Template string
	Data     any
}

// Generated reports what happened to one planned file.
type Generated struct {
	Path    string
	Outcome fileutil.Outcome
}

// Generator plans, renders and writes scaffolding.
type Generator struct {
	renderer         *Renderer
	frameworkVersion string
}

// NewGenerator returns a Generator whose projects require the framework at
// frameworkVersion.
func NewGenerator(r *Renderer, frameworkVersion string) *Generator {
	if !strings.HasPrefix(frameworkVersion, "v") {
		frameworkVersion = "v" + frameworkVersion
	}
	return &Generator{renderer: r, frameworkVersion: frameworkVersion}
}

// render executes every planned template concurrently. The returned slice
// is index-aligned with files.
func (g *Generator) render(ctx context.Context, files []File) ([][]byte, error) {
	out := make([][]byte, len(files))
	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(maxConcurrentRenders)
	for i, f := range files {
		eg.Go(func() error {
			data, err := g.renderer.Render(ctx, f.Template, f.Path, f.Data)
			if err != nil {
				return err
			}
			out[i] = data
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// write renders files and writes them under root. Without force, nothing is
// written when any target already exists.
func (g *Generator) write(ctx context.Context, root string, files []File, force bool) ([]Generated, error) {
	const op = "scaffold.write"

	if !force {
		var existing []string
		for _, f := range files {
			if fileutil.Exists(filepath.Join(root, f.Path)) {
				existing = append(existing, f.Path)
			}
		}
		if len(existing) > 0 {
			return nil, errors.Conflict(op, "refusing to overwrite existing files: "+strings.Join(existing, ", ")+" (use --force)").
				WithDetail("paths", existing)
		}
	}

	contents, err := g.render(ctx, files)
	if err != nil {
		return nil, err
	}

	mode := fileutil.FailIfExists
	if force {
		mode = fileutil.Overwrite
	}
	results := make([]Generated, 0, len(files))
	for i, f := range files {
		outcome, err := fileutil.WriteFile(filepath.Join(root, f.Path), contents[i], mode)
		if err != nil {
			return results, err
		}
		results = append(results, Generated{Path: f.Path, Outcome: outcome})
	}
	return results, nil
}

// ProjectOptions describes a new project.
type ProjectOptions struct {
	// Dir is the directory to create. Its base name is the default Name.
	Dir       string
	Name      string
	Module    string
	GoVersion string
	HTTP      string
	Sample    bool
	// Manifest is the manifest format: yaml, toml or json.
	Manifest string
	Git      bool
	Layout   config.LayoutConfig
}

// ProjectData is the template data for project files.
type ProjectData struct {
	Name             string
	Module           string
	GoVersion        string
	HTTP             string
	Sample           bool
	Layout           config.LayoutConfig
	FrameworkModule  string
	FrameworkVersion string
}

type docData struct {
	Package string
	Summary string
}

// ManifestFormats lists the accepted ProjectOptions.Manifest values.
var ManifestFormats = []string{"yaml", "toml", "json"}

func (o *ProjectOptions) normalize() {
	defaults := config.DefaultConfig()
	if o.Name == "" {
		o.Name = filepath.Base(filepath.Clean(o.Dir))
	}
	if o.Module == "" {
		o.Module = o.Name
	}
	if o.GoVersion == "" {
		o.GoVersion = defaults.GoVersion
	}
	if o.HTTP == "" {
		o.HTTP = defaults.HTTP
	}
	if o.Manifest == "" {
		o.Manifest = "yaml"
	}
	if o.Layout.Domain == "" {
		o.Layout.Domain = defaults.Layout.Domain
	}
	if o.Layout.UseCases == "" {
		o.Layout.UseCases = defaults.Layout.UseCases
	}
	if o.Layout.Ports == "" {
		o.Layout.Ports = defaults.Layout.Ports
	}
	if o.Layout.Adapters == "" {
		o.Layout.Adapters = defaults.Layout.Adapters
	}
}

func (o ProjectOptions) manifestConfig() *config.Config {
	cfg := config.DefaultConfig()
	cfg.Module = o.Module
	cfg.Name = o.Name
	cfg.GoVersion = o.GoVersion
	cfg.HTTP = o.HTTP
	cfg.Layout = o.Layout
	return cfg
}

func validProjectName(name string) bool {
	if name == "" || name == "." || name == ".." {
		return false
	}
	return !strings.ContainsAny(name, `/\ `)
}

// PlanProject lists the files a new project consists of, manifest excluded.
func (g *Generator) PlanProject(opts ProjectOptions) []File {
	data := ProjectData{
		Name:             opts.Name,
		Module:           opts.Module,
		GoVersion:        opts.GoVersion,
		HTTP:             opts.HTTP,
		Sample:           opts.Sample,
		Layout:           opts.Layout,
		FrameworkModule:  FrameworkModule,
		FrameworkVersion: g.frameworkVersion,
	}
	doc := func(dir, summary string) File {
		return File{
			Path:     filepath.Join(dir, "doc.go"),
			Template: "project/doc.go",
			Data:     docData{Package: PackageName(dir), Summary: summary},
		}
	}
	mainTemplate := "project/main_none.go"
	if opts.HTTP == config.HTTPChi {
		mainTemplate = "project/main_chi.go"
	}
	inmemory := filepath.Join(opts.Layout.Adapters, "inmemory")

	files := []File{
		{Path: "go.mod", Template: "project/go.mod", Data: data},
		{Path: ".gitignore", Template: "project/gitignore", Data: data},
		{Path: "README.md", Template: "project/README.md", Data: data},
		{Path: filepath.Join("cmd", opts.Name, "main.go"), Template: mainTemplate, Data: data},
		doc(opts.Layout.Domain, "holds the entities and value objects of "+opts.Name+"."),
		doc(opts.Layout.UseCases, "holds the application use cases."),
		doc(opts.Layout.Ports, "declares the interfaces use cases depend on."),
		doc(inmemory, "implements the ports in memory."),
	}
	if opts.Sample {
		files = append(files,
			File{Path: filepath.Join(opts.Layout.Domain, "greeting.go"), Template: "project/greeting.go", Data: data},
			File{Path: filepath.Join(opts.Layout.UseCases, "create_greeting.go"), Template: "project/create_greeting.go", Data: data},
			File{Path: filepath.Join(opts.Layout.UseCases, "create_greeting_test.go"), Template: "project/create_greeting_test.go", Data: data},
		)
	}
	return files
}

// NewProject creates a project directory. The directory must be missing or
// empty.
func (g *Generator) NewProject(ctx context.Context, opts ProjectOptions) ([]Generated, error) {
	const op = "scaffold.NewProject"

	if opts.Dir == "" {
		return nil, errors.Validation(op, "project directory is required")
	}
	opts.normalize()

	if !validProjectName(opts.Name) {
		return nil, errors.Validation(op, "invalid project name: "+opts.Name).WithDetail("name", opts.Name)
	}
	if !slices.Contains(ManifestFormats, opts.Manifest) {
		return nil, errors.Validation(op, "manifest must be one of "+strings.Join(ManifestFormats, ", ")).
			WithDetail("manifest", opts.Manifest)
	}
	cfg := opts.manifestConfig()
	if _, err := config.Validate(cfg); err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(opts.Dir)
	switch {
	case err == nil && len(entries) > 0:
		return nil, errors.Conflict(op, "directory is not empty: "+opts.Dir).WithDetail("path", opts.Dir)
	case err != nil && !errors.Is(err, fs.ErrNotExist):
		return nil, errors.IOWrap(err, op, "failed to read "+opts.Dir)
	}

	results, err := g.write(ctx, opts.Dir, g.PlanProject(opts), false)
	if err != nil {
		return results, err
	}

	manifest := "hexa." + opts.Manifest
	if err := config.WriteConfig(cfg, filepath.Join(opts.Dir, manifest)); err != nil {
		return results, err
	}
	results = append(results, Generated{Path: manifest, Outcome: fileutil.Created})

	if opts.Git {
		if _, err := git.PlainInit(opts.Dir, false); err != nil {
			return results, errors.IOWrap(err, op, "failed to initialize git repository")
		}
	}
	return results, nil
}

// ComponentOptions describes a use case or port to add to a project.
type ComponentOptions struct {
	// Root is the project root; layout directories are relative to it.
	Root   string
	Name   string
	Module string
	Layout config.LayoutConfig
	Force  bool
}

// ComponentData is the template data for generated components.
type ComponentData struct {
	Name            string
	LowerName       string
	Snake           string
	Module          string
	Layout          config.LayoutConfig
	FrameworkModule string
}

func (o ComponentOptions) data(op string) (ComponentData, error) {
	if !ValidName(o.Name) {
		return ComponentData{}, errors.Validation(op, "invalid name: "+o.Name+" (must start with a letter)").
			WithDetail("name", o.Name)
	}
	if o.Module == "" {
		return ComponentData{}, errors.Config(op, "module path unknown: add a hexa manifest or go.mod, or pass --module")
	}
	if !config.ValidModulePath(o.Module) {
		return ComponentData{}, errors.Validation(op, "invalid module path: "+o.Module).WithDetail("module", o.Module)
	}
	return ComponentData{
		Name:            ToCamel(o.Name),
		LowerName:       ToLowerCamel(o.Name),
		Snake:           ToSnake(o.Name),
		Module:          o.Module,
		Layout:          o.Layout,
		FrameworkModule: FrameworkModule,
	}, nil
}

// GenerateUseCase writes a use case and its test.
func (g *Generator) GenerateUseCase(ctx context.Context, opts ComponentOptions) ([]Generated, error) {
	data, err := opts.data("scaffold.GenerateUseCase")
	if err != nil {
		return nil, err
	}
	dir := opts.Layout.UseCases
	files := []File{
		{Path: filepath.Join(dir, data.Snake+".go"), Template: "generate/usecase.go", Data: data},
		{Path: filepath.Join(dir, data.Snake+"_test.go"), Template: "generate/usecase_test.go", Data: data},
	}
	return g.write(ctx, opts.Root, files, opts.Force)
}

// GeneratePort writes a port interface, an in-memory adapter and the
// adapter's test.
func (g *Generator) GeneratePort(ctx context.Context, opts ComponentOptions) ([]Generated, error) {
	data, err := opts.data("scaffold.GeneratePort")
	if err != nil {
		return nil, err
	}
	inmemory := filepath.Join(opts.Layout.Adapters, "inmemory")
	files := []File{
		{Path: filepath.Join(opts.Layout.Ports, data.Snake+".go"), Template: "generate/port.go", Data: data},
		{Path: filepath.Join(inmemory, data.Snake+".go"), Template: "generate/inmemory.go", Data: data},
		{Path: filepath.Join(inmemory, data.Snake+"_test.go"), Template: "generate/inmemory_test.go", Data: data},
	}
	return g.write(ctx, opts.Root, files, opts.Force)
}
