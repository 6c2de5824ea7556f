package mdapp

import (
	"bytes"
	"context"
	"os"
	"path"
	"slices"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/goccy/go-yaml"
	"github.com/samber/lo"

	"github.com/advdv/mdserve"
)

// Document is the YAML configuration of a server: defaults shared by every location plus per-location
// overrides. Unknown keys are rejected.
type Document struct {
	Defaults  mdserve.Config `yaml:"defaults"`
	Locations []Location     `yaml:"locations"`
}

// Location mounts a pipeline on a path prefix. Its config is merged over the defaults.
type Location struct {
	Prefix string         `yaml:"prefix"`
	Config mdserve.Config `yaml:"config"`
}

// ResolvedLocation is a location with its effective configuration.
type ResolvedLocation struct {
	Prefix string
	Config *mdserve.Config
}

// ParseDocument decodes a configuration document. Defaults not mentioned in the document keep the values of
// [mdserve.DefaultConfig]. An empty document serves everything with the defaults.
func ParseDocument(data []byte) (*Document, error) {
	doc := &Document{Defaults: *mdserve.DefaultConfig()}
	if len(bytes.TrimSpace(data)) == 0 {
		return doc, nil
	}

	if err := yaml.UnmarshalWithOptions(data, doc, yaml.Strict()); err != nil {
		return nil, errors.Wrap(err, "parse configuration document")
	}

	for i := range doc.Locations {
		doc.Locations[i].Prefix = cleanPrefix(doc.Locations[i].Prefix)
	}

	if dups := lo.FindDuplicatesBy(doc.Locations, func(l Location) string { return l.Prefix }); len(dups) > 0 {
		return nil, errors.Newf("location %q is configured more than once", dups[0].Prefix)
	}

	return doc, nil
}

// Resolve merges every location over the defaults, ordered by prefix. A root location serving the defaults is
// added when the document has none.
func (d *Document) Resolve() []ResolvedLocation {
	locs := lo.Map(d.Locations, func(l Location, _ int) ResolvedLocation {
		return ResolvedLocation{Prefix: l.Prefix, Config: mdserve.Merge(&d.Defaults, &l.Config)}
	})

	if !lo.ContainsBy(locs, func(l ResolvedLocation) bool { return l.Prefix == "/" }) {
		locs = append(locs, ResolvedLocation{Prefix: "/", Config: mdserve.Merge(&d.Defaults, nil)})
	}

	slices.SortFunc(locs, func(a, b ResolvedLocation) int { return strings.Compare(a.Prefix, b.Prefix) })
	return locs
}

func cleanPrefix(p string) string {
	return path.Clean("/" + p)
}

// LoadDocument reads the configuration document from the parameter store or the local disk, in that order of
// preference. Without either the defaults are used.
func LoadDocument(ctx context.Context, env Environment, params SSMAPI) (*Document, error) {
	switch {
	case env.ConfigParameter != "":
		data, err := LoadParameter(ctx, params, env.ConfigParameter)
		if err != nil {
			return nil, err
		}
		return ParseDocument(data)
	case env.ConfigFile != "":
		data, err := os.ReadFile(env.ConfigFile)
		if err != nil {
			return nil, errors.Wrap(err, "read configuration file")
		}
		return ParseDocument(data)
	default:
		return ParseDocument(nil)
	}
}
