package fixers

import (
	"context"
	"fmt"
	"strings"

	"github.com/fulmenhq/nazna/internal/assets"
	"github.com/fulmenhq/nazna/pkg/work"
	"github.com/xeipuuv/gojsonschema"
)

const packageJSONFile = "package.json"

// RemoteResolver looks up the project's git remote URL.
type RemoteResolver interface {
	RemoteURL(ctx context.Context) (string, error)
}

// PackageJSONOptions carries the house values a manifest is reconciled with.
type PackageJSONOptions struct {
	DevDependencies map[string]string
	Scripts         map[string]string
	Remote          RemoteResolver
}

// Fixed top-level manifest fields.
const (
	ReleaseVersion = "0.0.0-semantic-release"
	License        = "MIT"
	MainEntry      = "dist/cjs/index.js"
	ModuleEntry    = "dist/es/index.js"
	TypesEntry     = "dist/types/index.d.ts"
)

// PackageJSON returns the manifest fixer. It keeps the user's field order and
// unrelated entries, sorts dependency maps, lays the required devDependencies
// and scripts on top and pins the publishing fields.
func PackageJSON(opts PackageJSONOptions) work.Fixer {
	return func(ctx context.Context, current string) (string, error) {
		obj, err := decodeManifest(current)
		if err != nil {
			return "", err
		}

		var deps map[string]string
		if ok, err := obj.Get("dependencies", &deps); err != nil {
			return "", &DecodeError{File: packageJSONFile, Err: err}
		} else if ok {
			// Map encoding emits keys in sorted order
			if err := obj.Set("dependencies", nonNil(deps)); err != nil {
				return "", err
			}
		}

		var devDeps map[string]string
		if _, err := obj.Get("devDependencies", &devDeps); err != nil {
			return "", &DecodeError{File: packageJSONFile, Err: err}
		}
		var scripts map[string]string
		if _, err := obj.Get("scripts", &scripts); err != nil {
			return "", &DecodeError{File: packageJSONFile, Err: err}
		}

		remote, err := opts.Remote.RemoteURL(ctx)
		if err != nil {
			return "", fmt.Errorf("resolve repository: %w", err)
		}

		fields := []struct {
			key   string
			value any
		}{
			{"version", ReleaseVersion},
			{"license", License},
			{"main", MainEntry},
			{"module", ModuleEntry},
			{"types", TypesEntry},
			{"files", []string{"dist"}},
			{"repository", firstLine(remote)},
			{"devDependencies", Overlay(devDeps, opts.DevDependencies)},
			{"scripts", Overlay(scripts, opts.Scripts)},
		}
		for _, f := range fields {
			if err := obj.Set(f.key, f.value); err != nil {
				return "", err
			}
		}

		out, err := obj.Encode()
		if err != nil {
			return "", err
		}
		return string(out), nil
	}
}

// FlakePackages returns the Nix packages a manifest requests through
// nazna.flake. It reports false when the manifest is unreadable or does not
// opt in.
func FlakePackages(content string) ([]string, bool) {
	obj, err := decodeManifest(content)
	if err != nil {
		return nil, false
	}
	var cfg struct {
		Flake []string `json:"flake"`
	}
	if ok, err := obj.Get("nazna", &cfg); !ok || err != nil || len(cfg.Flake) == 0 {
		return nil, false
	}
	return cfg.Flake, true
}

func decodeManifest(content string) (*Object, error) {
	obj, err := DecodeObject([]byte(content))
	if err != nil {
		return nil, &DecodeError{File: packageJSONFile, Err: err}
	}
	problems, err := validateShape(assets.PackageJSONSchema, gojsonschema.NewStringLoader(content))
	if err != nil {
		return nil, &DecodeError{File: packageJSONFile, Err: err}
	}
	if len(problems) > 0 {
		return nil, &DecodeError{File: packageJSONFile, Problems: problems}
	}
	return obj, nil
}

func firstLine(s string) string {
	line, _, _ := strings.Cut(s, "\n")
	return strings.TrimSpace(line)
}

func nonNil(m map[string]string) map[string]string {
	if m == nil {
		return map[string]string{}
	}
	return m
}
