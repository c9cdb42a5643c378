package hclcfg

import "github.com/hashicorp/hcl/v2"

// categoryBlock is a `category` block from a user's config file. The
// command attribute is kept as an expression so it can interpolate the
// category name.
type categoryBlock struct {
	Name      string            `hcl:"name,label"`
	AutoRun   *bool             `hcl:"auto_run,optional"`
	RunsAfter []string          `hcl:"runs_after,optional"`
	DependsOn []string          `hcl:"depends_on,optional"`
	Command   hcl.Expression    `hcl:"command,optional"`
	Env       map[string]string `hcl:"env,optional"`
}

// fileRoot decodes all recognized top-level blocks from any file.
type fileRoot struct {
	Categories []*categoryBlock `hcl:"category,block"`
	Remain     hcl.Body         `hcl:",remain"`
}
