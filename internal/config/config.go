// Package config loads relationship configuration from CUE.
package config

import (
	_ "embed"
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"slices"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/load"
	"cuelang.org/go/cue/token"

	"github.com/roach88/relmap/internal/ir"
)

//go:embed schema.cue
var schemaSource string

// Error codes carried by LoadError.
const (
	ErrCodeGeneric     = "E001" // Generic/unknown error
	ErrCodeNoFiles     = "E003" // No CUE files found
	ErrCodeLoadFailed  = "E004" // CUE load failed
	ErrCodeNotFound    = "E005" // Path not found
	ErrCodeBuildFailed = "E006" // CUE build failed

	ErrCodeSchema       = "E201" // Value does not match the config schema
	ErrCodeEmptyKey     = "E202" // Empty relationship key
	ErrCodeEmptyMetaKey = "E203" // Empty secondary key meta key
)

// LoadError is a configuration error, positioned when CUE knows where.
type LoadError struct {
	Code    string
	Message string
	Pos     token.Pos
}

func (e *LoadError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s", e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(), e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Config is the relationship configuration of a network.
//
// It implements the resolver's key registry.
type Config struct {
	PostKeys      []string
	TermKeys      []string
	SecondaryKeys map[ir.TypeTag]string
}

// New builds a Config from already-parsed values.
func New(post, term []string, secondaryKeys map[ir.TypeTag]string) *Config {
	c := &Config{
		PostKeys:      slices.Clone(post),
		TermKeys:      slices.Clone(term),
		SecondaryKeys: maps.Clone(secondaryKeys),
	}
	if c.SecondaryKeys == nil {
		c.SecondaryKeys = map[ir.TypeTag]string{}
	}
	return c
}

// RegisteredPostRelationshipKeys returns the configured post relationship keys.
func (c *Config) RegisteredPostRelationshipKeys() []string {
	return slices.Clone(c.PostKeys)
}

// RegisteredTermRelationshipKeys returns the configured term relationship keys.
func (c *Config) RegisteredTermRelationshipKeys() []string {
	return slices.Clone(c.TermKeys)
}

// Load reads configuration from a .cue file, or from every .cue file of a
// directory unified as one package.
func Load(path string) (*Config, error) {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return nil, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("config not found: %s", path)}
	}
	if err != nil {
		return nil, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("error accessing config: %v", err)}
	}

	ctx := cuecontext.New()
	if !info.IsDir() {
		src, err := os.ReadFile(path)
		if err != nil {
			return nil, &LoadError{Code: ErrCodeLoadFailed, Message: fmt.Sprintf("reading config: %v", err)}
		}
		return build(ctx, ctx.CompileBytes(src, cue.Filename(path)))
	}

	matches, err := filepath.Glob(filepath.Join(path, "*.cue"))
	if err != nil {
		return nil, &LoadError{Code: ErrCodeGeneric, Message: fmt.Sprintf("scanning %s: %v", path, err)}
	}
	if len(matches) == 0 {
		return nil, &LoadError{Code: ErrCodeNoFiles, Message: fmt.Sprintf("no CUE files found in %s", path)}
	}

	instances := load.Instances([]string{"."}, &load.Config{Dir: path})
	if len(instances) == 0 {
		return nil, &LoadError{Code: ErrCodeLoadFailed, Message: "no CUE instances loaded"}
	}
	if inst := instances[0]; inst.Err != nil {
		return nil, &LoadError{Code: ErrCodeLoadFailed, Message: fmt.Sprintf("loading CUE files: %v", inst.Err)}
	}
	return build(ctx, ctx.BuildInstance(instances[0]))
}

// Parse reads configuration from CUE source. filename is used in positions.
func Parse(src []byte, filename string) (*Config, error) {
	ctx := cuecontext.New()
	return build(ctx, ctx.CompileBytes(src, cue.Filename(filename)))
}

func build(ctx *cue.Context, v cue.Value) (*Config, error) {
	if err := v.Err(); err != nil {
		return nil, convertCUEError(ErrCodeBuildFailed, err)
	}

	schema := ctx.CompileString(schemaSource, cue.Filename("schema.cue")).LookupPath(cue.ParsePath("#Config"))
	v = schema.Unify(v)
	if err := v.Validate(cue.Concrete(true)); err != nil {
		return nil, convertCUEError(ErrCodeSchema, err)
	}

	post, err := stringList(v.LookupPath(cue.ParsePath("relationships.post")))
	if err != nil {
		return nil, err
	}
	term, err := stringList(v.LookupPath(cue.ParsePath("relationships.term")))
	if err != nil {
		return nil, err
	}
	secondary, err := secondaryKeys(v.LookupPath(cue.ParsePath("secondary_keys")))
	if err != nil {
		return nil, err
	}
	return New(post, term, secondary), nil
}

func stringList(v cue.Value) ([]string, error) {
	if !v.Exists() {
		return nil, nil
	}
	iter, err := v.List()
	if err != nil {
		return nil, convertCUEError(ErrCodeSchema, err)
	}
	var out []string
	for iter.Next() {
		s, err := iter.Value().String()
		if err != nil {
			return nil, convertCUEError(ErrCodeSchema, err)
		}
		if s == "" {
			return nil, &LoadError{Code: ErrCodeEmptyKey, Message: "relationship key must not be empty", Pos: iter.Value().Pos()}
		}
		out = append(out, s)
	}
	return out, nil
}

func secondaryKeys(v cue.Value) (map[ir.TypeTag]string, error) {
	out := map[ir.TypeTag]string{}
	if !v.Exists() {
		return out, nil
	}
	iter, err := v.Fields()
	if err != nil {
		return nil, convertCUEError(ErrCodeSchema, err)
	}
	for iter.Next() {
		metaKey, err := iter.Value().String()
		if err != nil {
			return nil, convertCUEError(ErrCodeSchema, err)
		}
		if metaKey == "" {
			return nil, &LoadError{
				Code:    ErrCodeEmptyMetaKey,
				Message: fmt.Sprintf("secondary key of %q must name a meta key", iter.Label()),
				Pos:     iter.Value().Pos(),
			}
		}
		out[ir.TypeTag(iter.Label())] = metaKey
	}
	return out, nil
}

// convertCUEError keeps the first CUE error and its position.
func convertCUEError(code string, err error) *LoadError {
	errs := errors.Errors(err)
	if len(errs) == 0 {
		return &LoadError{Code: code, Message: err.Error()}
	}
	first := errs[0]
	le := &LoadError{Code: code, Message: first.Error()}
	if positions := errors.Positions(first); len(positions) > 0 {
		le.Pos = positions[0]
	}
	return le
}
