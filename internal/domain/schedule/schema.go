package schedule

import (
	"sync"

	"github.com/google/jsonschema-go/jsonschema"
)

var (
	schemaOnce sync.Once
	schema     *jsonschema.Schema
	schemaErr  error
)

// ExtractionSchema returns the JSON schema the extraction collaborator must
// follow for one fleet file.
func ExtractionSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		schema, schemaErr = jsonschema.For[ExtractedFile](nil)
	})
	return schema, schemaErr
}
