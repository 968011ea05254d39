package cli

import (
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/KeSHaMI/hexaframe/internal/scaffold"
	"github.com/KeSHaMI/hexaframe/internal/version"
	"github.com/KeSHaMI/hexaframe/pkg/errors"
)

type generatedFile struct {
	Path    string `json:"path"`
	Outcome string `json:"outcome"`
}

// printGenerated reports written files, as a JSON array in JSON mode.
func (o *Options) printGenerated(root string, files []scaffold.Generated) error {
	if o.IsJSON() {
		out := make([]generatedFile, len(files))
		for i, f := range files {
			out[i] = generatedFile{Path: filepath.ToSlash(filepath.Join(root, f.Path)), Outcome: f.Outcome.String()}
		}
		return o.writeJSON(out)
	}
	for _, f := range files {
		o.PrintSubtle(fmt.Sprintf("  %-8s %s", f.Outcome, filepath.Join(root, f.Path)))
	}
	return nil
}

func (o *Options) writeJSON(v any) error {
	enc := json.NewEncoder(o.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return errors.IOWrap(err, "cli.writeJSON", "failed to write output")
	}
	return nil
}

func (o *Options) newGenerator() (*scaffold.Generator, error) {
	r, err := scaffold.NewRenderer()
	if err != nil {
		return nil, err
	}
	return scaffold.NewGenerator(r, version.Get()), nil
}
