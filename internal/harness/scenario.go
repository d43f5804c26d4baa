package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/roach88/relmap/internal/config"
	"github.com/roach88/relmap/internal/ir"
)

// Scenario defines a resolution scenario.
type Scenario struct {
	// Name uniquely identifies this scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Config is the inline relationship configuration.
	Config ConfigFixture `yaml:"config,omitempty"`

	// ConfigFile points at a CUE config instead of Config.
	// Relative paths are resolved against the scenario file.
	ConfigFile string `yaml:"config_file,omitempty"`

	// Network is loaded into the store before any transform runs.
	Network NetworkFixture `yaml:"network"`

	// Transforms run in order, each against a fresh registry stack.
	Transforms []TransformStep `yaml:"transforms"`

	// Assertions validate the final trace.
	// Supported types: trace_contains, trace_order, trace_count
	Assertions []Assertion `yaml:"assertions,omitempty"`
}

// Scalar is a YAML scalar kept as its literal text. Both 12 and "12" read
// as "12", and meta values are never reinterpreted as numbers or bools.
type Scalar string

// UnmarshalYAML implements yaml.Unmarshaler.
func (s *Scalar) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: expected a scalar", node.Line)
	}
	*s = Scalar(node.Value)
	return nil
}

// ID returns the scalar as an identifier.
func (s Scalar) ID() ir.Identifier {
	return ir.ParseID(string(s))
}

// ConfigFixture mirrors the CUE configuration layout.
type ConfigFixture struct {
	Relationships struct {
		Post []string `yaml:"post,omitempty"`
		Term []string `yaml:"term,omitempty"`
	} `yaml:"relationships,omitempty"`
	SecondaryKeys map[string]string `yaml:"secondary_keys,omitempty"`
}

// Build converts the fixture into a Config.
func (f ConfigFixture) Build() *config.Config {
	secondary := make(map[ir.TypeTag]string, len(f.SecondaryKeys))
	for tag, key := range f.SecondaryKeys {
		secondary[ir.TypeTag(tag)] = key
	}
	return config.New(f.Relationships.Post, f.Relationships.Term, secondary)
}

// NetworkFixture describes the sites of a network and its crosspost map.
type NetworkFixture struct {
	Sites      []SiteFixture      `yaml:"sites"`
	Crossposts []CrosspostFixture `yaml:"crossposts,omitempty"`
}

// SiteFixture is one site with its posts and terms.
type SiteFixture struct {
	ID    ir.RegistryHandle `yaml:"id"`
	Name  string            `yaml:"name,omitempty"`
	Posts []PostFixture     `yaml:"posts,omitempty"`
	Terms []TermFixture     `yaml:"terms,omitempty"`
}

// PostFixture is a post and its meta.
type PostFixture struct {
	ID   Scalar            `yaml:"id"`
	Type string            `yaml:"type"`
	Meta map[string]Scalar `yaml:"meta,omitempty"`
}

// TermFixture is a taxonomy term.
type TermFixture struct {
	ID       Scalar `yaml:"id"`
	Taxonomy string `yaml:"taxonomy"`
	Slug     string `yaml:"slug"`
}

// CrosspostFixture is one crosspost map entry.
type CrosspostFixture struct {
	Source   ir.RegistryHandle `yaml:"source"`
	SourceID Scalar            `yaml:"source_id"`
	Target   ir.RegistryHandle `yaml:"target"`
	TargetID Scalar            `yaml:"target_id"`
}

// TransformStep is one field transform.
type TransformStep struct {
	Key    string            `yaml:"key"`
	Value  Scalar            `yaml:"value"`
	Source ir.RegistryHandle `yaml:"source"`
	Target ir.RegistryHandle `yaml:"target"`

	// Object is the ID of the object the field belongs to. Logged only.
	Object Scalar `yaml:"object,omitempty"`

	// Unavailable runs the transform without crossposting correlation.
	Unavailable bool `yaml:"unavailable,omitempty"`

	Expect *Expect `yaml:"expect"`
}

// Expect is the expected outcome of a transform.
type Expect struct {
	// Output is the expected stored value. Unchecked when absent.
	Output *Scalar `yaml:"output,omitempty"`

	// Classification is "post", "term" or "none". Unchecked when empty.
	Classification string `yaml:"classification,omitempty"`

	// Error expects a registry failure.
	Error bool `yaml:"error,omitempty"`
}

// Assertion validates the trace.
type Assertion struct {
	// Type specifies the assertion type:
	// - "trace_contains": a call with Op (and Args, Registry if given) occurs
	// - "trace_order": the first occurrences of Ops appear in order
	// - "trace_count": calls with Op occur exactly Count times
	Type string `yaml:"type"`

	Op       string            `yaml:"op,omitempty"`
	Args     []string          `yaml:"args,omitempty"`
	Registry ir.RegistryHandle `yaml:"registry,omitempty"`
	Ops      []string          `yaml:"ops,omitempty"`
	Count    int               `yaml:"count,omitempty"`
}

// Assertion type constants.
const (
	AssertTraceContains = "trace_contains"
	AssertTraceOrder    = "trace_order"
	AssertTraceCount    = "trace_count"
)

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	scenario, err := ParseScenario(data)
	if err != nil {
		return nil, err
	}

	// Resolve the config path relative to the scenario BEFORE validation
	if scenario.ConfigFile != "" && !filepath.IsAbs(scenario.ConfigFile) {
		scenario.ConfigFile = filepath.Join(filepath.Dir(path), scenario.ConfigFile)
	}
	if scenario.ConfigFile != "" {
		if _, err := os.Stat(scenario.ConfigFile); os.IsNotExist(err) {
			return nil, fmt.Errorf("invalid scenario: config file not found: %s", scenario.ConfigFile)
		}
	}
	return scenario, nil
}

// ParseScenario parses scenario YAML with strict field validation.
func ParseScenario(data []byte) (*Scenario, error) {
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true) // Reject unknown fields
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return &scenario, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.Description == "" {
		return fmt.Errorf("description is required")
	}
	if len(s.Network.Sites) == 0 {
		return fmt.Errorf("network.sites is required and must be non-empty")
	}
	if len(s.Transforms) == 0 {
		return fmt.Errorf("transforms list is required and must be non-empty")
	}
	if s.ConfigFile != "" && (len(s.Config.Relationships.Post) > 0 || len(s.Config.Relationships.Term) > 0 || len(s.Config.SecondaryKeys) > 0) {
		return fmt.Errorf("config and config_file are mutually exclusive")
	}

	sites := make(map[ir.RegistryHandle]bool, len(s.Network.Sites))
	for i, site := range s.Network.Sites {
		if site.ID <= 0 {
			return fmt.Errorf("network.sites[%d]: id must be positive", i)
		}
		if sites[site.ID] {
			return fmt.Errorf("network.sites[%d]: duplicate site id %s", i, site.ID)
		}
		sites[site.ID] = true
		for j, post := range site.Posts {
			if post.ID == "" || post.Type == "" {
				return fmt.Errorf("network.sites[%d].posts[%d]: id and type are required", i, j)
			}
		}
		for j, term := range site.Terms {
			if term.ID == "" || term.Taxonomy == "" || term.Slug == "" {
				return fmt.Errorf("network.sites[%d].terms[%d]: id, taxonomy and slug are required", i, j)
			}
		}
	}

	for i, step := range s.Transforms {
		if step.Key == "" {
			return fmt.Errorf("transforms[%d]: key is required", i)
		}
		if !sites[step.Source] || !sites[step.Target] {
			return fmt.Errorf("transforms[%d]: source and target must be sites of the network", i)
		}
		if step.Expect == nil {
			return fmt.Errorf("transforms[%d]: expect is required", i)
		}
		if step.Expect.Output == nil && !step.Expect.Error {
			return fmt.Errorf("transforms[%d].expect: output or error is required", i)
		}
		switch step.Expect.Classification {
		case "", "post", "term", "none":
		default:
			return fmt.Errorf("transforms[%d].expect: unknown classification %q", i, step.Expect.Classification)
		}
	}

	for i, assertion := range s.Assertions {
		if err := validateAssertion(i, &assertion); err != nil {
			return err
		}
	}
	return nil
}

// validateAssertion validates a single assertion based on its type.
func validateAssertion(index int, a *Assertion) error {
	if a.Type == "" {
		return fmt.Errorf("assertions[%d]: type is required", index)
	}

	switch a.Type {
	case AssertTraceContains:
		if a.Op == "" {
			return fmt.Errorf("assertions[%d]: op is required for trace_contains", index)
		}
	case AssertTraceOrder:
		if len(a.Ops) == 0 {
			return fmt.Errorf("assertions[%d]: ops list is required for trace_order", index)
		}
	case AssertTraceCount:
		if a.Op == "" {
			return fmt.Errorf("assertions[%d]: op is required for trace_count", index)
		}
		if a.Count < 0 {
			return fmt.Errorf("assertions[%d]: count must be non-negative for trace_count", index)
		}
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}
	return nil
}
