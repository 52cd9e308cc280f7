package config

import (
	"fmt"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"
)

// File mirrors the attributes and blocks accepted in an HCL run file. Every
// attribute is optional; nil means "not set in the file".
type File struct {
	Input   *string `hcl:"input,optional"`
	Output  *string `hcl:"output,optional"`
	MaxIter *uint64 `hcl:"max_iter,optional"`
	Freq    *uint64 `hcl:"freq,optional"`
	Workers *int    `hcl:"workers,optional"`
	Movie   *string `hcl:"movie,optional"`
	Chart   *string `hcl:"chart,optional"`

	Viewport *ViewportBlock `hcl:"viewport,block"`
	Piles    []PileBlock    `hcl:"pile,block"`
}

// ViewportBlock sizes the interactive viewers.
type ViewportBlock struct {
	Length *int `hcl:"length,optional"`
	Width  *int `hcl:"width,optional"`
}

// PileBlock declares grains dropped at one cell before the run starts.
type PileBlock struct {
	X      int    `hcl:"x"`
	Y      int    `hcl:"y"`
	Grains uint64 `hcl:"grains"`
}

// LoadFile parses the run file at path. vars become the var.* object visible
// to expressions in the file.
func LoadFile(path string, vars map[string]string) (*File, error) {
	parser := hclparse.NewParser()
	f, diags := parser.ParseHCLFile(path)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse run file %s: %w", path, diags)
	}
	return decode(f, path, vars)
}

// Parse decodes a run file held in memory. filename is used in diagnostics.
func Parse(src []byte, filename string, vars map[string]string) (*File, error) {
	parser := hclparse.NewParser()
	f, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse run file %s: %w", filename, diags)
	}
	return decode(f, filename, vars)
}

func decode(f *hcl.File, filename string, vars map[string]string) (*File, error) {
	evalCtx := &hcl.EvalContext{
		Variables: map[string]cty.Value{"var": VarsObject(vars)},
	}
	var out File
	if diags := gohcl.DecodeBody(f.Body, evalCtx, &out); diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode run file %s: %w", filename, diags)
	}
	return &out, nil
}

// VarsObject converts key/value strings into a cty object. Values that parse
// as numbers become cty numbers, everything else stays a string.
func VarsObject(vars map[string]string) cty.Value {
	if len(vars) == 0 {
		return cty.EmptyObjectVal
	}
	attrs := make(map[string]cty.Value, len(vars))
	for k, v := range vars {
		if n, err := cty.ParseNumberVal(v); err == nil {
			attrs[k] = n
			continue
		}
		attrs[k] = cty.StringVal(v)
	}
	return cty.ObjectVal(attrs)
}

// ParseVars splits "key=value" pairs.
func ParseVars(pairs []string) (map[string]string, error) {
	vars := make(map[string]string, len(pairs))
	for _, kv := range pairs {
		key, value, ok := strings.Cut(kv, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid variable %q: expected key=value", kv)
		}
		vars[key] = value
	}
	return vars, nil
}
