package fixers

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/fulmenhq/nazna/internal/assets"
	"github.com/fulmenhq/nazna/pkg/work"
	"github.com/xeipuuv/gojsonschema"
	"gopkg.in/yaml.v3"
)

const releaseWorkflowFile = ".github/workflows/release.yaml"

// Fixed release workflow metadata.
const (
	WorkflowName   = "release"
	ReleaseBranch  = "main"
	ReleaseRunner  = "ubuntu-latest"
	releaseJobName = "release"
)

// ReleaseWorkflow returns the CI workflow fixer. The release job must declare
// the required steps in order; custom steps may be interleaved freely. When it
// does, the fixed metadata is merged in and everything else, comments
// included, is kept.
func ReleaseWorkflow(requiredSteps []string) work.Fixer {
	return func(_ context.Context, current string) (string, error) {
		doc, err := decodeSingleDocument(current)
		if err != nil {
			return "", err
		}
		root := doc.Content[0]

		var plain any
		if err := root.Decode(&plain); err != nil {
			return "", &DecodeError{File: releaseWorkflowFile, Err: err}
		}
		if _, ok := plain.(map[string]any); !ok {
			return "", &DecodeError{File: releaseWorkflowFile, Problems: []string{"root: Invalid type. Expected: object"}}
		}
		problems, err := validateShape(assets.ReleaseWorkflowSchema, gojsonschema.NewGoLoader(plain))
		if err != nil {
			return "", &DecodeError{File: releaseWorkflowFile, Err: err}
		}
		if len(problems) > 0 {
			return "", &DecodeError{File: releaseWorkflowFile, Problems: problems}
		}

		release := lookup(lookup(root, "jobs"), releaseJobName)
		actual := requiredStepNames(lookup(release, "steps"), requiredSteps)
		if !slices.Equal(actual, requiredSteps) {
			return "", &MissingStepsError{Required: requiredSteps, Actual: actual}
		}

		on := map[string]any{"push": map[string]any{"branches": []string{ReleaseBranch}}}
		if err := setKey(root, "name", WorkflowName); err != nil {
			return "", err
		}
		if err := setKey(root, "on", on); err != nil {
			return "", err
		}
		if err := setKey(release, "runs-on", ReleaseRunner); err != nil {
			return "", err
		}

		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return "", fmt.Errorf("encode %s: %w", releaseWorkflowFile, err)
		}
		if err := enc.Close(); err != nil {
			return "", fmt.Errorf("encode %s: %w", releaseWorkflowFile, err)
		}
		return buf.String(), nil
	}
}

// decodeSingleDocument parses content that must hold exactly one YAML
// document. Later documents would be lost on rewrite, so they are rejected.
func decodeSingleDocument(content string) (*yaml.Node, error) {
	dec := yaml.NewDecoder(strings.NewReader(content))
	var doc yaml.Node
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, &DecodeError{File: releaseWorkflowFile, Err: errors.New("empty document")}
		}
		return nil, &DecodeError{File: releaseWorkflowFile, Err: err}
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return nil, &DecodeError{File: releaseWorkflowFile, Err: errors.New("empty document")}
	}

	var extra yaml.Node
	switch err := dec.Decode(&extra); {
	case errors.Is(err, io.EOF):
		return &doc, nil
	case err != nil:
		return nil, &DecodeError{File: releaseWorkflowFile, Err: err}
	default:
		return nil, &DecodeError{File: releaseWorkflowFile, Problems: []string{"root: expected a single YAML document, found more than one"}}
	}
}

// requiredStepNames lists the step names that belong to the required set, in
// declaration order.
func requiredStepNames(steps *yaml.Node, required []string) []string {
	names := []string{}
	if steps == nil || steps.Kind != yaml.SequenceNode {
		return names
	}
	for _, step := range steps.Content {
		name := lookup(step, "name")
		if name == nil || name.Kind != yaml.ScalarNode {
			continue
		}
		if slices.Contains(required, name.Value) {
			names = append(names, name.Value)
		}
	}
	return names
}

// lookup returns the value node stored under key in a mapping node.
func lookup(mapping *yaml.Node, key string) *yaml.Node {
	if mapping == nil || mapping.Kind != yaml.MappingNode {
		return nil
	}
	for i := 0; i+1 < len(mapping.Content); i += 2 {
		if mapping.Content[i].Value == key {
			return mapping.Content[i+1]
		}
	}
	return nil
}

// setKey replaces the value under key in a mapping node, or appends the pair.
// Comments attached to an existing value node are carried over.
func setKey(mapping *yaml.Node, key string, value any) error {
	var node yaml.Node
	if err := node.Encode(value); err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	for i := 0; i+1 < len(mapping.Content); i += 2 {
		if mapping.Content[i].Value == key {
			old := mapping.Content[i+1]
			node.HeadComment, node.LineComment, node.FootComment = old.HeadComment, old.LineComment, old.FootComment
			mapping.Content[i+1] = &node
			return nil
		}
	}
	keyNode := &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: key}
	mapping.Content = append(mapping.Content, keyNode, &node)
	return nil
}
