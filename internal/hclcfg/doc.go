// Package hclcfg loads category configuration from HCL files into the
// format-agnostic config model.
package hclcfg
