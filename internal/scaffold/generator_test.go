package scaffold

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KeSHaMI/hexaframe/internal/config"
	"github.com/KeSHaMI/hexaframe/internal/fileutil"
	"github.com/KeSHaMI/hexaframe/pkg/errors"
)

func newTestGenerator(t *testing.T) *Generator {
	t.Helper()
	r, err := NewRenderer()
	require.NoError(t, err)
	return NewGenerator(r, "0.1.0")
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func paths(gen []Generated) []string {
	out := make([]string, len(gen))
	for i, g := range gen {
		out[i] = filepath.ToSlash(g.Path)
	}
	return out
}

func defaultLayout() config.LayoutConfig {
	return config.DefaultConfig().Layout
}

func TestNewProject_WithSample(t *testing.T) {
	g := newTestGenerator(t)
	dir := filepath.Join(t.TempDir(), "shop")

	gen, err := g.NewProject(context.Background(), ProjectOptions{
		Dir:    dir,
		Module: "example.com/shop",
		Sample: true,
	})
	require.NoError(t, err)

	assert.ElementsMatch(t, []string{
		"go.mod",
		".gitignore",
		"README.md",
		"cmd/shop/main.go",
		"internal/domain/doc.go",
		"internal/usecases/doc.go",
		"internal/ports/doc.go",
		"internal/adapters/inmemory/doc.go",
		"internal/domain/greeting.go",
		"internal/usecases/create_greeting.go",
		"internal/usecases/create_greeting_test.go",
		"hexa.yaml",
	}, paths(gen))
	for _, f := range gen {
		assert.Equal(t, fileutil.Created, f.Outcome, f.Path)
	}

	gomod := readFile(t, filepath.Join(dir, "go.mod"))
	assert.Contains(t, gomod, "module example.com/shop")
	assert.Contains(t, gomod, "go 1.24")
	assert.Contains(t, gomod, FrameworkModule+" v0.1.0")
	assert.Contains(t, gomod, "github.com/go-chi/chi/v5")

	main := readFile(t, filepath.Join(dir, "cmd", "shop", "main.go"))
	assert.Contains(t, main, "httpadapter.NewRouter")
	assert.Contains(t, main, "httpadapter.WithMetrics(stats.Handler())")
	assert.Contains(t, main, "usecase.WithObserver(stats)")
	assert.Contains(t, main, "usecases.NewCreateGreeting(")
	assert.Contains(t, main, `"example.com/shop/internal/usecases"`)

	uc := readFile(t, filepath.Join(dir, "internal", "usecases", "create_greeting.go"))
	assert.Contains(t, uc, "package usecases")
	assert.Contains(t, uc, "type CreateGreetingOutput = domain.Greeting")

	doc := readFile(t, filepath.Join(dir, "internal", "adapters", "inmemory", "doc.go"))
	assert.Contains(t, doc, "package inmemory")

	cfg, err := config.LoadFromDirectory(dir)
	require.NoError(t, err)
	assert.Equal(t, "example.com/shop", cfg.Module)
	assert.Equal(t, "shop", cfg.Name)
	assert.Equal(t, config.HTTPChi, cfg.HTTP)
}

func TestNewProject_NoHTTPNoSample(t *testing.T) {
	g := newTestGenerator(t)
	dir := filepath.Join(t.TempDir(), "worker")

	gen, err := g.NewProject(context.Background(), ProjectOptions{
		Dir:      dir,
		HTTP:     config.HTTPNone,
		Manifest: "toml",
	})
	require.NoError(t, err)
	assert.Contains(t, paths(gen), "hexa.toml")
	assert.NotContains(t, paths(gen), "internal/usecases/create_greeting.go")

	gomod := readFile(t, filepath.Join(dir, "go.mod"))
	assert.Contains(t, gomod, "module worker")
	assert.NotContains(t, gomod, "chi")

	main := readFile(t, filepath.Join(dir, "cmd", "worker", "main.go"))
	assert.NotContains(t, main, "httpadapter")
	assert.Contains(t, main, `"worker started"`)

	cfg, err := config.LoadFromDirectory(dir)
	require.NoError(t, err)
	assert.Equal(t, config.HTTPNone, cfg.HTTP)
}

func TestNewProject_NoHTTPWithSample(t *testing.T) {
	g := newTestGenerator(t)
	dir := filepath.Join(t.TempDir(), "cli")

	_, err := g.NewProject(context.Background(), ProjectOptions{
		Dir:    dir,
		Module: "example.com/cli",
		HTTP:   config.HTTPNone,
		Sample: true,
	})
	require.NoError(t, err)

	main := readFile(t, filepath.Join(dir, "cmd", "cli", "main.go"))
	assert.Contains(t, main, `"context"`)
	assert.Contains(t, main, "greet.Execute(context.Background()")
}

func TestNewProject_GitInit(t *testing.T) {
	g := newTestGenerator(t)
	dir := filepath.Join(t.TempDir(), "repo")

	_, err := g.NewProject(context.Background(), ProjectOptions{Dir: dir, Git: true})
	require.NoError(t, err)
	assert.DirExists(t, filepath.Join(dir, ".git"))
}

func TestNewProject_EmptyExistingDirIsAllowed(t *testing.T) {
	g := newTestGenerator(t)
	dir := t.TempDir()

	_, err := g.NewProject(context.Background(), ProjectOptions{Dir: dir, Name: "svc"})
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(dir, "cmd", "svc", "main.go"))
}

func TestNewProject_NonEmptyDirConflicts(t *testing.T) {
	g := newTestGenerator(t)
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "keep.txt"), []byte("x"), 0o644))

	_, err := g.NewProject(context.Background(), ProjectOptions{Dir: dir, Name: "svc"})
	assert.True(t, errors.IsKind(err, errors.KindConflict))
	assert.NoFileExists(t, filepath.Join(dir, "go.mod"))
}

func TestNewProject_Validation(t *testing.T) {
	g := newTestGenerator(t)
	base := t.TempDir()

	tests := []struct {
		name string
		opts ProjectOptions
	}{
		{"missing dir", ProjectOptions{}},
		{"bad go version", ProjectOptions{Dir: filepath.Join(base, "a"), GoVersion: "1.18"}},
		{"bad http", ProjectOptions{Dir: filepath.Join(base, "b"), HTTP: "gin"}},
		{"bad manifest", ProjectOptions{Dir: filepath.Join(base, "c"), Manifest: "ini"}},
		{"bad module", ProjectOptions{Dir: filepath.Join(base, "d"), Module: "bad module"}},
		{"bad name", ProjectOptions{Dir: filepath.Join(base, "e"), Name: "a b"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := g.NewProject(context.Background(), tt.opts)
			assert.True(t, errors.IsKind(err, errors.KindValidation), "got %v", err)
		})
	}
}

func TestGenerateUseCase(t *testing.T) {
	g := newTestGenerator(t)
	root := t.TempDir()
	opts := ComponentOptions{
		Root:   root,
		Name:   "register-user",
		Module: "example.com/shop",
		Layout: defaultLayout(),
	}

	gen, err := g.GenerateUseCase(context.Background(), opts)
	require.NoError(t, err)
	assert.Equal(t, []string{
		"internal/usecases/register_user.go",
		"internal/usecases/register_user_test.go",
	}, paths(gen))

	src := readFile(t, filepath.Join(root, "internal", "usecases", "register_user.go"))
	assert.Contains(t, src, "package usecases")
	assert.Contains(t, src, "func NewRegisterUser(")
	assert.Contains(t, src, "type registerUser struct")
	assert.Contains(t, src, `"register_user"`)

	test := readFile(t, filepath.Join(root, "internal", "usecases", "register_user_test.go"))
	assert.Contains(t, test, "package usecases_test")
	assert.Contains(t, test, `"example.com/shop/internal/usecases"`)
}

func TestGenerateUseCase_RefusesOverwriteWithoutForce(t *testing.T) {
	g := newTestGenerator(t)
	root := t.TempDir()
	target := filepath.Join(root, "internal", "usecases", "register_user.go")
	require.NoError(t, os.MkdirAll(filepath.Dir(target), 0o755))
	require.NoError(t, os.WriteFile(target, []byte("package usecases\n"), 0o644))

	opts := ComponentOptions{Root: root, Name: "RegisterUser", Module: "example.com/shop", Layout: defaultLayout()}

	_, err := g.GenerateUseCase(context.Background(), opts)
	require.Error(t, err)
	assert.True(t, errors.IsKind(err, errors.KindConflict))
	assert.Equal(t, "package usecases\n", readFile(t, target))
	assert.NoFileExists(t, filepath.Join(root, "internal", "usecases", "register_user_test.go"))

	opts.Force = true
	gen, err := g.GenerateUseCase(context.Background(), opts)
	require.NoError(t, err)
	require.Len(t, gen, 2)
	assert.Equal(t, fileutil.Replaced, gen[0].Outcome)
	assert.Equal(t, fileutil.Created, gen[1].Outcome)
	assert.Contains(t, readFile(t, target), "func NewRegisterUser(")
}

func TestGeneratePort(t *testing.T) {
	g := newTestGenerator(t)
	root := t.TempDir()

	gen, err := g.GeneratePort(context.Background(), ComponentOptions{
		Root:   root,
		Name:   "PaymentGateway",
		Module: "example.com/shop",
		Layout: defaultLayout(),
	})
	require.NoError(t, err)
	assert.Equal(t, []string{
		"internal/ports/payment_gateway.go",
		"internal/adapters/inmemory/payment_gateway.go",
		"internal/adapters/inmemory/payment_gateway_test.go",
	}, paths(gen))

	port := readFile(t, filepath.Join(root, "internal", "ports", "payment_gateway.go"))
	assert.Contains(t, port, "type PaymentGateway interface")

	adapter := readFile(t, filepath.Join(root, "internal", "adapters", "inmemory", "payment_gateway.go"))
	assert.Contains(t, adapter, "var _ ports.PaymentGateway = (*PaymentGateway)(nil)")
}

func TestGenerateComponent_Validation(t *testing.T) {
	g := newTestGenerator(t)
	root := t.TempDir()

	_, err := g.GeneratePort(context.Background(), ComponentOptions{Root: root, Name: "9lives", Module: "example.com/x", Layout: defaultLayout()})
	assert.True(t, errors.IsKind(err, errors.KindValidation))

	_, err = g.GenerateUseCase(context.Background(), ComponentOptions{Root: root, Name: "Thing", Layout: defaultLayout()})
	assert.True(t, errors.IsKind(err, errors.KindConfig))

	_, err = g.GenerateUseCase(context.Background(), ComponentOptions{Root: root, Name: "Thing", Module: "not a module", Layout: defaultLayout()})
	assert.True(t, errors.IsKind(err, errors.KindValidation))
}
