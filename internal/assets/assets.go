package assets

import (
	"embed"
	"fmt"
	"io/fs"
	"strings"

	"github.com/aymerick/raymond"
)

//go:embed embedded_templates
var Templates embed.FS

//go:embed embedded_schemas
var Schemas embed.FS

func GetTemplatesFS() fs.FS {
	if sub, err := fs.Sub(Templates, "embedded_templates"); err == nil {
		return sub
	}
	return Templates
}

func GetSchemasFS() fs.FS {
	if sub, err := fs.Sub(Schemas, "embedded_schemas"); err == nil {
		return sub
	}
	return Schemas
}

// GetSchema returns the embedded schema bytes by file name (e.g., "package-json.schema.json").
func GetSchema(name string) ([]byte, bool) {
	data, err := fs.ReadFile(GetSchemasFS(), name)
	return data, err == nil && len(data) > 0
}

// Template returns a static template verbatim.
func Template(name string) (string, error) {
	data, err := fs.ReadFile(GetTemplatesFS(), name)
	if err != nil {
		return "", fmt.Errorf("embedded template %s: %w", name, err)
	}
	return string(data), nil
}

// Render evaluates a handlebars template against data. Templates without the
// .hbs suffix are returned verbatim.
func Render(name string, data any) (string, error) {
	src, err := Template(name)
	if err != nil {
		return "", err
	}
	if !strings.HasSuffix(name, ".hbs") {
		return src, nil
	}

	tpl, err := raymond.Parse(src)
	if err != nil {
		return "", fmt.Errorf("parse template %s: %w", name, err)
	}
	// GitHub expressions share the mustache delimiters
	tpl.RegisterHelper("secret", func(key string) string {
		return "${{ secrets." + key + " }}"
	})
	out, err := tpl.Exec(data)
	if err != nil {
		return "", fmt.Errorf("render template %s: %w", name, err)
	}
	return out, nil
}
