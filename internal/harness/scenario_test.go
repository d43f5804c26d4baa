package harness

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/relmap/internal/ir"
)

const minimalScenario = `
name: minimal
description: one site pair, one transform
network:
  sites:
    - id: 1
    - id: 2
transforms:
  - key: related_posts
    value: 12
    source: 1
    target: 2
    expect:
      output: 12
`

func TestParseScenarioMinimal(t *testing.T) {
	s, err := ParseScenario([]byte(minimalScenario))
	require.NoError(t, err)

	assert.Equal(t, "minimal", s.Name)
	require.Len(t, s.Transforms, 1)
	step := s.Transforms[0]
	assert.Equal(t, Scalar("12"), step.Value)
	assert.Equal(t, ir.RegistryHandle(1), step.Source)
	assert.Equal(t, ir.RegistryHandle(2), step.Target)
	require.NotNil(t, step.Expect.Output)
	assert.Equal(t, Scalar("12"), *step.Expect.Output)
}

func TestParseScenarioKeepsScalarText(t *testing.T) {
	s, err := ParseScenario([]byte(`
name: scalars
description: literal text survives
network:
  sites:
    - id: 1
      posts:
        - {id: 007, type: post, meta: {flag: true, price: 1.50}}
    - id: 2
transforms:
  - {key: k, value: "0012", source: 1, target: 2, expect: {output: "0"}}
`))
	require.NoError(t, err)

	post := s.Network.Sites[0].Posts[0]
	assert.Equal(t, Scalar("007"), post.ID)
	assert.Equal(t, Scalar("true"), post.Meta["flag"])
	assert.Equal(t, Scalar("1.50"), post.Meta["price"])
	assert.Equal(t, Scalar("0012"), s.Transforms[0].Value)
	assert.False(t, s.Transforms[0].Value.ID().Numeric(), "leading zeros are not canonical integers")
}

func TestParseScenarioRejectsUnknownFields(t *testing.T) {
	_, err := ParseScenario([]byte(minimalScenario + "assertion: []\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse YAML")
}

func TestParseScenarioRejectsNonScalarValue(t *testing.T) {
	_, err := ParseScenario([]byte(`
name: bad
description: list where a scalar belongs
network:
  sites: [{id: 1}, {id: 2}]
transforms:
  - {key: k, value: [1, 2], source: 1, target: 2, expect: {output: "0"}}
`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "expected a scalar")
}

func TestValidateScenario(t *testing.T) {
	valid := func() *Scenario {
		out := Scalar("0")
		return &Scenario{
			Name:        "s",
			Description: "d",
			Network:     NetworkFixture{Sites: []SiteFixture{{ID: 1}, {ID: 2}}},
			Transforms: []TransformStep{{
				Key: "k", Value: "1", Source: 1, Target: 2,
				Expect: &Expect{Output: &out},
			}},
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Scenario)
		wantErr string
	}{
		{"valid", func(*Scenario) {}, ""},
		{"missing name", func(s *Scenario) { s.Name = "" }, "name is required"},
		{"missing description", func(s *Scenario) { s.Description = "" }, "description is required"},
		{"no sites", func(s *Scenario) { s.Network.Sites = nil }, "network.sites is required"},
		{"no transforms", func(s *Scenario) { s.Transforms = nil }, "transforms list is required"},
		{"zero site id", func(s *Scenario) { s.Network.Sites[0].ID = 0 }, "id must be positive"},
		{"duplicate site", func(s *Scenario) { s.Network.Sites[1].ID = 1 }, "duplicate site id"},
		{"post without type", func(s *Scenario) {
			s.Network.Sites[0].Posts = []PostFixture{{ID: "1"}}
		}, "id and type are required"},
		{"term without slug", func(s *Scenario) {
			s.Network.Sites[0].Terms = []TermFixture{{ID: "1", Taxonomy: "category"}}
		}, "id, taxonomy and slug are required"},
		{"missing key", func(s *Scenario) { s.Transforms[0].Key = "" }, "key is required"},
		{"unknown target", func(s *Scenario) { s.Transforms[0].Target = 9 }, "source and target must be sites"},
		{"missing expect", func(s *Scenario) { s.Transforms[0].Expect = nil }, "expect is required"},
		{"empty expect", func(s *Scenario) { s.Transforms[0].Expect = &Expect{} }, "output or error is required"},
		{"bad classification", func(s *Scenario) { s.Transforms[0].Expect.Classification = "media" }, "unknown classification"},
		{"config and config_file", func(s *Scenario) {
			s.ConfigFile = "relmap.cue"
			s.Config.Relationships.Post = []string{"k"}
		}, "mutually exclusive"},
		{"unknown assertion", func(s *Scenario) {
			s.Assertions = []Assertion{{Type: "final_state"}}
		}, "unknown assertion type"},
		{"trace_order without ops", func(s *Scenario) {
			s.Assertions = []Assertion{{Type: AssertTraceOrder}}
		}, "ops list is required"},
		{"trace_count without op", func(s *Scenario) {
			s.Assertions = []Assertion{{Type: AssertTraceCount}}
		}, "op is required for trace_count"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := valid()
			tt.mutate(s)
			err := validateScenario(s)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoadScenarioResolvesConfigFile(t *testing.T) {
	s := loadTestScenario(t, "json_values.yaml")
	assert.Equal(t, filepath.Join("testdata", "scenarios", "relmap.cue"), s.ConfigFile)
}

func TestLoadScenarioMissingConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "s.yaml")
	content := minimalScenario + "config_file: nowhere.cue\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	_, err := LoadScenario(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config file not found")
}

func TestLoadScenarioMissingFile(t *testing.T) {
	_, err := LoadScenario(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read scenario file")
}

func TestConfigFixtureBuild(t *testing.T) {
	var f ConfigFixture
	f.Relationships.Post = []string{"related_posts"}
	f.SecondaryKeys = map[string]string{"product": "_sku"}

	cfg := f.Build()
	assert.Equal(t, []string{"related_posts"}, cfg.RegisteredPostRelationshipKeys())
	assert.Empty(t, cfg.RegisteredTermRelationshipKeys())
	assert.Equal(t, map[ir.TypeTag]string{"product": "_sku"}, cfg.SecondaryKeys)
}
