package llm

import (
	"fmt"

	"github.com/juliagomezg/seo-decision-engine-sub000/pkg/failure"
	"github.com/xeipuuv/gojsonschema"
)

// Contract is a compiled JSON schema that a model payload must satisfy.
type Contract struct {
	name   string
	schema *gojsonschema.Schema
}

// NewContract compiles a JSON schema document.
func NewContract(name, jsonSchema string) (*Contract, error) {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(jsonSchema))
	if err != nil {
		return nil, fmt.Errorf("failed to compile contract %s: %w", name, err)
	}

	return &Contract{name: name, schema: schema}, nil
}

// MustContract is NewContract for package-level schemas known to compile.
func MustContract(name, jsonSchema string) *Contract {
	contract, err := NewContract(name, jsonSchema)
	if err != nil {
		panic(err)
	}

	return contract
}

// Name returns the contract name.
func (c *Contract) Name() string {
	return c.name
}

// Check validates a raw JSON document. It returns the list of violations,
// empty when the document conforms. An error is returned only when the
// document cannot be loaded at all.
func (c *Contract) Check(document []byte) ([]failure.Violation, error) {
	result, err := c.schema.Validate(gojsonschema.NewBytesLoader(document))
	if err != nil {
		return nil, err
	}

	if result.Valid() {
		return nil, nil
	}

	violations := make([]failure.Violation, 0, len(result.Errors()))
	for _, desc := range result.Errors() {
		violations = append(violations, failure.Violation{
			Field:       desc.Field(),
			Description: desc.Description(),
		})
	}

	return violations, nil
}
