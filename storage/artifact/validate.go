package artifact

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/hashicorp/go-multierror"
	"github.com/santhosh-tekuri/jsonschema/v5"
	"golang.org/x/sync/errgroup"
)

const schemaURL = "artifact.schema.json"

//go:embed schema.json
var schemaJSON string

var (
	schemaOnce sync.Once
	schema     *jsonschema.Schema
	schemaErr  error
)

// artifactSchema compiles the embedded artifact schema on first use.
func artifactSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		compiler.Draft = jsonschema.Draft7
		if err := compiler.AddResource(schemaURL, strings.NewReader(schemaJSON)); err != nil {
			schemaErr = fmt.Errorf("add schema resource: %w", err)
			return
		}
		schema, schemaErr = compiler.Compile(schemaURL)
		if schemaErr != nil {
			schemaErr = fmt.Errorf("compile schema: %w", schemaErr)
		}
	})
	return schema, schemaErr
}

// Validate checks an artifact file against the artifact schema. The schema
// describes artifacts using the default keys.
func Validate(path string) error {
	s, err := artifactSchema()
	if err != nil {
		return err
	}

	r, err := Open(path)
	if err != nil {
		return err
	}
	defer r.Close()

	var doc interface{}
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return fmt.Errorf("artifact %s is not valid JSON: %w", path, err)
	}
	if err := s.Validate(doc); err != nil {
		return fmt.Errorf("artifact %s does not match the schema: %w", path, err)
	}
	return nil
}

// ValidateAll validates the given artifacts, at most workers at a time, and
// returns the combined validation errors of every invalid artifact.
func ValidateAll(ctx context.Context, paths []string, workers int) error {
	g, ctx := errgroup.WithContext(ctx)
	if workers > 0 {
		g.SetLimit(workers)
	}

	var (
		mu     sync.Mutex
		result *multierror.Error
	)
	for _, path := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := Validate(path); err != nil {
				mu.Lock()
				result = multierror.Append(result, err)
				mu.Unlock()
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	if result != nil {
		result.ErrorFormat = listFormat
	}
	return result.ErrorOrNil()
}

func listFormat(errs []error) string {
	lines := make([]string, 0, len(errs)+1)
	lines = append(lines, fmt.Sprintf("%d invalid artifacts:", len(errs)))
	for _, err := range errs {
		lines = append(lines, "- "+err.Error())
	}
	return strings.Join(lines, "\n")
}
