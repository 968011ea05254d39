package scaffold

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KeSHaMI/hexaframe/pkg/errors"
)

func TestNewRenderer_LoadsEmbeddedTemplates(t *testing.T) {
	r, err := NewRenderer()
	require.NoError(t, err)

	names := r.Names()
	for _, want := range []string{
		"project/go.mod",
		"project/main_chi.go",
		"project/main_none.go",
		"project/create_greeting.go",
		"generate/usecase.go",
		"generate/usecase_test.go",
		"generate/port.go",
		"generate/inmemory.go",
		"generate/inmemory_test.go",
	} {
		assert.Contains(t, names, want)
	}
}

func TestRender_UnknownTemplate(t *testing.T) {
	r, err := NewRenderer()
	require.NoError(t, err)

	_, err = r.Render(context.Background(), "nope", "x.txt", nil)
	assert.True(t, errors.IsKind(err, errors.KindNotFound))
}

func TestRender_FormatsGoOutput(t *testing.T) {
	r, err := NewRenderer()
	require.NoError(t, err)
	require.NoError(t, r.Register("test/ugly", "package {{.}}\nfunc  F( ) {  }\n"))

	out, err := r.Render(context.Background(), "test/ugly", "f.go", "demo")
	require.NoError(t, err)
	assert.Equal(t, "package demo\n\nfunc F() {}\n", string(out))

	raw, err := r.Render(context.Background(), "test/ugly", "f.txt", "demo")
	require.NoError(t, err)
	assert.Equal(t, "package demo\nfunc  F( ) {  }\n", string(raw))
}

func TestRender_InvalidGoIsTemplateError(t *testing.T) {
	r, err := NewRenderer()
	require.NoError(t, err)
	require.NoError(t, r.Register("test/broken", "package x\nfunc {\n"))

	_, err = r.Render(context.Background(), "test/broken", "x.go", nil)
	assert.True(t, errors.IsKind(err, errors.KindTemplate))
}

func TestRender_ExecutionError(t *testing.T) {
	r, err := NewRenderer()
	require.NoError(t, err)
	require.NoError(t, r.Register("test/field", "{{.Missing}}"))

	_, err = r.Render(context.Background(), "test/field", "x.txt", struct{}{})
	assert.True(t, errors.IsKind(err, errors.KindTemplate))
}

func TestRegister_ParseError(t *testing.T) {
	r, err := NewRenderer()
	require.NoError(t, err)

	err = r.Register("test/bad", "{{ if }")
	assert.True(t, errors.IsKind(err, errors.KindTemplate))
}

func TestRender_CanceledContext(t *testing.T) {
	r, err := NewRenderer()
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// The render may win the race against the canceled context; either
	// way no partial output is returned with an error.
	out, err := r.Render(ctx, "project/gitignore", ".gitignore", ProjectData{Name: "shop"})
	if err != nil {
		assert.True(t, errors.IsKind(err, errors.KindCanceled))
		assert.Nil(t, out)
	}
}
