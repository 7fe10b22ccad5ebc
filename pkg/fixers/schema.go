package fixers

import (
	"fmt"
	"sync"

	"github.com/fulmenhq/nazna/internal/assets"
	"github.com/xeipuuv/gojsonschema"
)

var (
	schemaMu    sync.Mutex
	schemaCache = map[string]*gojsonschema.Schema{}
)

func compiledSchema(name string) (*gojsonschema.Schema, error) {
	schemaMu.Lock()
	defer schemaMu.Unlock()
	if sch, ok := schemaCache[name]; ok {
		return sch, nil
	}
	data, ok := assets.GetSchema(name)
	if !ok {
		return nil, fmt.Errorf("embedded schema not found: %s", name)
	}
	sch, err := gojsonschema.NewSchema(gojsonschema.NewBytesLoader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to load schema %s: %w", name, err)
	}
	schemaCache[name] = sch
	return sch, nil
}

// validateShape checks doc against the named embedded schema and returns one
// problem per violation.
func validateShape(schemaName string, doc gojsonschema.JSONLoader) ([]string, error) {
	sch, err := compiledSchema(schemaName)
	if err != nil {
		return nil, err
	}
	result, err := sch.Validate(doc)
	if err != nil {
		return nil, err
	}
	if result.Valid() {
		return nil, nil
	}
	var problems []string
	for _, verr := range result.Errors() {
		field := verr.Field()
		if field == "" || field == "(root)" {
			field = "root"
		}
		problems = append(problems, fmt.Sprintf("%s: %s", field, verr.Description()))
	}
	return problems, nil
}
