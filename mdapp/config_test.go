package mdapp_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	ssmtypes "github.com/aws/aws-sdk-go-v2/service/ssm/types"
	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/advdv/mdserve"
	"github.com/advdv/mdserve/mdapp"
)

const exampleDocument = `
defaults:
  defaultPage: README.md
  style: {path: style, name: default}
  class: {ul: ul-list, ol: ol-list, task: task-list}
  toc: {header: '<div class="toc">', footer: '</div>'}
  raw: true
  ignoreFetchErrors: false
  match: [".md", ".markdown"]
  extensions: [tables, fenced-code, autolink, strikethrough, footnotes]
  render: [toc, use-task-list, hard-wrap]
locations:
  - prefix: docs/
    config: {style: {name: docs}, extensions: [tables]}
  - prefix: /notes
    config: {directoryIndex: index.md, toc: {starting: 3}}
`

func TestParseDocument(t *testing.T) {
	doc, err := mdapp.ParseDocument([]byte(exampleDocument))
	require.NoError(t, err)

	assert.Equal(t, "README.md", doc.Defaults.DefaultPage)
	assert.Equal(t, mdserve.DefaultDirectoryIndex, doc.Defaults.DirectoryIndex, "unset keys keep their default")
	assert.Equal(t, mdserve.StyleConfig{Path: "style", Name: "default", Ext: ".html"}, doc.Defaults.Style)
	assert.Equal(t, mdserve.TOCConfig{Starting: 2, Nesting: 6, Header: `<div class="toc">`, Footer: "</div>"},
		doc.Defaults.TOC)
	assert.False(t, doc.Defaults.FetchErrorsIgnored())
	assert.True(t, doc.Defaults.Render.Has(mdserve.RenderUseTaskList))

	require.Len(t, doc.Locations, 2)
	assert.Equal(t, "/docs", doc.Locations[0].Prefix)
	assert.Equal(t, "/notes", doc.Locations[1].Prefix)
}

func TestParseDocumentErrors(t *testing.T) {
	for name, src := range map[string]string{
		"unknown key":        "defaults: {colour: red}\n",
		"unknown extension":  "defaults: {extensions: [emoji]}\n",
		"duplicate location": "locations: [{prefix: /a}, {prefix: a/}]\n",
	} {
		t.Run(name, func(t *testing.T) {
			_, err := mdapp.ParseDocument([]byte(src))
			require.Error(t, err)
		})
	}
}

func TestResolveLocations(t *testing.T) {
	doc, err := mdapp.ParseDocument([]byte(exampleDocument))
	require.NoError(t, err)

	locs := doc.Resolve()
	require.Len(t, locs, 3)
	assert.Equal(t, []string{"/", "/docs", "/notes"}, []string{locs[0].Prefix, locs[1].Prefix, locs[2].Prefix})

	root, docs, notes := locs[0].Config, locs[1].Config, locs[2].Config
	assert.Equal(t, "default", root.Style.Name)

	assert.Equal(t, "docs", docs.Style.Name)
	assert.Equal(t, "style", docs.Style.Path)
	assert.Equal(t, mdserve.Extensions(mdserve.ExtTables), docs.Extensions)
	assert.Equal(t, []string{".md", ".markdown"}, docs.Match)

	assert.Equal(t, 3, notes.TOC.Starting)
	assert.True(t, notes.Raw)

	empty, err := mdapp.ParseDocument(nil)
	require.NoError(t, err)
	require.Len(t, empty.Resolve(), 1)
	assert.Equal(t, mdserve.DefaultConfig(), empty.Resolve()[0].Config)
}

type fakeSSM struct {
	params map[string]string
}

func (f *fakeSSM) GetParameter(
	_ context.Context, in *ssm.GetParameterInput, _ ...func(*ssm.Options),
) (*ssm.GetParameterOutput, error) {
	v, ok := f.params[aws.ToString(in.Name)]
	if !ok {
		return nil, &ssmtypes.ParameterNotFound{Message: aws.String("not found")}
	}

	if !aws.ToBool(in.WithDecryption) {
		return nil, errors.New("expected decryption")
	}

	return &ssm.GetParameterOutput{Parameter: &ssmtypes.Parameter{Value: aws.String(v)}}, nil
}

func TestLoadDocument(t *testing.T) {
	ctx := context.Background()
	params := &fakeSSM{params: map[string]string{"/mdserve/config": "defaults: {raw: true}\n"}}

	file := filepath.Join(t.TempDir(), "mdserve.yaml")
	require.NoError(t, os.WriteFile(file, []byte("defaults: {defaultPage: home.md}\n"), 0o600))

	t.Run("parameter wins", func(t *testing.T) {
		doc, err := mdapp.LoadDocument(ctx, mdapp.Environment{ConfigParameter: "/mdserve/config", ConfigFile: file}, params)
		require.NoError(t, err)
		assert.True(t, doc.Defaults.Raw)
		assert.Empty(t, doc.Defaults.DefaultPage)
	})

	t.Run("file", func(t *testing.T) {
		doc, err := mdapp.LoadDocument(ctx, mdapp.Environment{ConfigFile: file}, params)
		require.NoError(t, err)
		assert.Equal(t, "home.md", doc.Defaults.DefaultPage)
	})

	t.Run("defaults", func(t *testing.T) {
		doc, err := mdapp.LoadDocument(ctx, mdapp.Environment{}, params)
		require.NoError(t, err)
		assert.Equal(t, *mdserve.DefaultConfig(), doc.Defaults)
	})

	t.Run("missing parameter", func(t *testing.T) {
		_, err := mdapp.LoadDocument(ctx, mdapp.Environment{ConfigParameter: "/nope"}, params)
		require.ErrorContains(t, err, `get parameter "/nope"`)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := mdapp.LoadDocument(ctx, mdapp.Environment{ConfigFile: file + ".missing"}, params)
		require.ErrorContains(t, err, "read configuration file")
	})
}
