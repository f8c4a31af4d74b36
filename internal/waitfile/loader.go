package waitfile

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
	"github.com/zclconf/go-cty/cty/gocty"

	"github.com/vk/waitgate/internal/ctxlog"
	"github.com/vk/waitgate/internal/fsutil"
	"github.com/vk/waitgate/internal/probe"
)

// Waitfile is the decoded result of one load: the endpoints to poll, in file
// order, and any polling settings the file supplied. A zero duration means
// the file did not set that value.
type Waitfile struct {
	Endpoints      []probe.Endpoint
	Interval       time.Duration
	Timeout        time.Duration
	ConnectTimeout time.Duration
}

// Load reads a wait file, or every .hcl file under a directory, and decodes
// the merged result. Endpoint order follows file order; across files it
// follows the sorted file paths.
func Load(ctx context.Context, path string) (*Waitfile, error) {
	logger := ctxlog.FromContext(ctx)

	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("wait file path: %w", err)
	}

	paths := []string{path}
	if info.IsDir() {
		paths, err = fsutil.FindFilesByExtension(path, ".hcl")
		if err != nil {
			return nil, fmt.Errorf("scanning wait file directory: %w", err)
		}
		logger.Debug("Wait file directory scanned.", "path", path, "files", len(paths))
	}

	parser := hclparse.NewParser()
	merged := &Waitfile{}
	for _, p := range paths {
		if err := loadOne(parser, p, merged); err != nil {
			return nil, err
		}
	}

	if len(merged.Endpoints) == 0 {
		return nil, fmt.Errorf("no endpoint blocks found in %s", path)
	}
	logger.Debug("Wait file loaded.", "endpoints", len(merged.Endpoints))
	return merged, nil
}

func loadOne(parser *hclparse.Parser, path string, into *Waitfile) error {
	hclFile, diags := parser.ParseHCLFile(path)
	if diags.HasErrors() {
		return fmt.Errorf("failed to parse %s: %w", path, diags)
	}

	var file fileSchema
	if diags := gohcl.DecodeBody(hclFile.Body, nil, &file); diags.HasErrors() {
		return fmt.Errorf("failed to decode %s: %w", path, diags)
	}

	for _, block := range file.Endpoints {
		ep, err := decodeEndpoint(block)
		if err != nil {
			return fmt.Errorf("in %s, endpoint %q: %w", path, block.Name, err)
		}
		into.Endpoints = append(into.Endpoints, ep)
	}

	if file.Settings != nil {
		if err := decodeSettings(file.Settings, into); err != nil {
			return fmt.Errorf("in %s, settings: %w", path, err)
		}
	}
	return nil
}

func decodeEndpoint(block *EndpointBlock) (probe.Endpoint, error) {
	var ep probe.Endpoint

	host, err := decodeValue(block.Host, cty.String)
	if err != nil {
		return ep, fmt.Errorf("host: %w", err)
	}
	if err := gocty.FromCtyValue(host, &ep.Host); err != nil {
		return ep, fmt.Errorf("host: %w", err)
	}

	// Ports are commonly quoted when templated in from other tooling, so a
	// string that converts to a whole number is accepted too.
	port, err := decodeValue(block.Port, cty.Number)
	if err != nil {
		return ep, fmt.Errorf("port: %w", err)
	}
	if err := gocty.FromCtyValue(port, &ep.Port); err != nil {
		return ep, fmt.Errorf("port: %w", err)
	}

	if err := ep.Validate(); err != nil {
		return ep, err
	}
	return ep, nil
}

func decodeSettings(block *SettingsBlock, into *Waitfile) error {
	fields := []struct {
		name string
		expr hcl.Expression
		dst  *time.Duration
	}{
		{"interval", block.Interval, &into.Interval},
		{"timeout", block.Timeout, &into.Timeout},
		{"connect_timeout", block.ConnectTimeout, &into.ConnectTimeout},
	}
	for _, f := range fields {
		if f.expr == nil {
			continue
		}
		d, ok, err := decodeDuration(f.expr)
		if err != nil {
			return fmt.Errorf("%s: %w", f.name, err)
		}
		if ok {
			*f.dst = d
		}
	}
	return nil
}

// decodeDuration evaluates expr into a duration string. The second return is
// false when the attribute was present in the schema but absent in the file.
func decodeDuration(expr hcl.Expression) (time.Duration, bool, error) {
	val, diags := expr.Value(nil)
	if diags.HasErrors() {
		return 0, false, diags
	}
	if val.IsNull() {
		return 0, false, nil
	}

	converted, err := convert.Convert(val, cty.String)
	if err != nil {
		return 0, false, fmt.Errorf("cannot convert %s to string: %w", val.Type().FriendlyName(), err)
	}
	var raw string
	if err := gocty.FromCtyValue(converted, &raw); err != nil {
		return 0, false, err
	}

	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, false, err
	}
	if d <= 0 {
		return 0, false, fmt.Errorf("duration must be positive, got %s", d)
	}
	return d, true, nil
}

// decodeValue evaluates expr and converts the result to the wanted type,
// applying cty's implicit conversions (e.g. "5432" to number).
func decodeValue(expr hcl.Expression, want cty.Type) (cty.Value, error) {
	val, diags := expr.Value(nil)
	if diags.HasErrors() {
		return cty.NilVal, diags
	}
	if val.IsNull() {
		return cty.NilVal, fmt.Errorf("value must not be null")
	}

	converted, err := convert.Convert(val, want)
	if err != nil {
		return cty.NilVal, fmt.Errorf("cannot convert %s to required type %s: %w",
			val.Type().FriendlyName(), want.FriendlyName(), err)
	}
	return converted, nil
}
