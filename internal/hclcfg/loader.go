package hclcfg

import (
	"context"
	"fmt"
	"os"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"

	"github.com/vk/testweave/internal/config"
	"github.com/vk/testweave/internal/ctxlog"
	"github.com/vk/testweave/internal/fsutil"
)

// Loader is the HCL-specific implementation of the config.Loader
// interface.
type Loader struct{}

// NewLoader creates a new HCL configuration loader.
func NewLoader() *Loader {
	return &Loader{}
}

// Load parses every .hcl file reachable from the given paths and merges
// their category blocks into one model. It is agnostic to the origin of
// the paths; each may be a single file or a directory.
func (l *Loader) Load(ctx context.Context, paths ...string) (*config.Model, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("HCL loader started.", "path_count", len(paths))

	files, err := findConfigFiles(paths)
	if err != nil {
		return nil, err
	}
	logger.Debug("Discovered config files.", "count", len(files))

	model := &config.Model{}
	parser := hclparse.NewParser()

	for _, file := range files {
		hclFile, diags := parser.ParseHCLFile(file)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to parse HCL file %s: %w", file, diags)
		}

		var root fileRoot
		diags = gohcl.DecodeBody(hclFile.Body, nil, &root)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to decode HCL file %s: %w", file, diags)
		}

		for _, block := range root.Categories {
			cc, err := l.translateCategory(block)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", file, err)
			}
			model.Categories = append(model.Categories, cc)
		}
	}

	logger.Debug("Configuration translated into unified model.", "categories", len(model.Categories))
	return model, nil
}

// translateCategory converts the HCL-specific block into the agnostic
// model. The command expression is evaluated with the category name
// bound, so commands can interpolate ${name}.
func (l *Loader) translateCategory(block *categoryBlock) (*config.CategoryConfig, error) {
	cc := &config.CategoryConfig{
		Name:      block.Name,
		AutoRun:   block.AutoRun,
		RunsAfter: block.RunsAfter,
		DependsOn: block.DependsOn,
		Env:       block.Env,
	}

	if block.Command != nil {
		evalCtx := &hcl.EvalContext{
			Variables: map[string]cty.Value{
				"name": cty.StringVal(block.Name),
			},
		}
		val, diags := block.Command.Value(evalCtx)
		if diags.HasErrors() {
			return nil, fmt.Errorf("evaluating command for category %q: %w", block.Name, diags)
		}
		if !val.IsNull() {
			str, err := convert.Convert(val, cty.String)
			if err != nil {
				return nil, fmt.Errorf("command for category %q is not a string: %w", block.Name, err)
			}
			cc.Command = str.AsString()
		}
	}

	return cc, nil
}

// findConfigFiles expands each path into the .hcl files beneath it.
func findConfigFiles(paths []string) ([]string, error) {
	var files []string
	for _, p := range paths {
		if p == "" {
			continue
		}
		info, err := os.Stat(p)
		if err != nil {
			return nil, fmt.Errorf("config path %s: %w", p, err)
		}
		if info.IsDir() {
			found, err := fsutil.FindFilesByExtension(p, ".hcl")
			if err != nil {
				return nil, err
			}
			files = append(files, found...)
			continue
		}
		files = append(files, p)
	}
	return files, nil
}
