package waitfile

import "github.com/hashicorp/hcl/v2"

// EndpointBlock represents an `endpoint` block in a wait file. Attribute
// values stay as expressions until decoding so that a port may be written as
// a number or a string.
type EndpointBlock struct {
	Name string         `hcl:"name,label"`
	Host hcl.Expression `hcl:"host"`
	Port hcl.Expression `hcl:"port"`
}

// SettingsBlock represents the optional `settings` block. Durations are
// written in Go syntax, e.g. "500ms" or "1m30s".
type SettingsBlock struct {
	Interval       hcl.Expression `hcl:"interval,optional"`
	Timeout        hcl.Expression `hcl:"timeout,optional"`
	ConnectTimeout hcl.Expression `hcl:"connect_timeout,optional"`
}

// fileSchema is the top-level structure of a single wait file.
type fileSchema struct {
	Endpoints []*EndpointBlock `hcl:"endpoint,block"`
	Settings  *SettingsBlock   `hcl:"settings,block"`
}
