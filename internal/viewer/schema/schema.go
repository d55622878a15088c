// Package schema checks the structure of plan documents before they enter
// the engine.
package schema

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/xeipuuv/gojsonschema"

	"planviewer/internal/viewer/models"
)

//go:embed plan.schema.json
var planSchema []byte

var compiled = sync.OnceValues(func() (*gojsonschema.Schema, error) {
	return gojsonschema.NewSchema(gojsonschema.NewBytesLoader(planSchema))
})

// ValidationError lists every schema violation found in a document.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return "invalid plan document: " + strings.Join(e.Problems, "; ")
}

// Validate checks raw JSON against the plan document schema.
func Validate(data []byte) error {
	s, err := compiled()
	if err != nil {
		return fmt.Errorf("compile plan schema: %w", err)
	}

	result, err := s.Validate(gojsonschema.NewBytesLoader(data))
	if err != nil {
		return fmt.Errorf("validate plan: %w", err)
	}
	if result.Valid() {
		return nil
	}

	verr := &ValidationError{}
	for _, e := range result.Errors() {
		verr.Problems = append(verr.Problems, e.String())
	}
	return verr
}

// Decode validates data and unmarshals it into a plan document.
func Decode(data []byte) (models.PlanDocument, error) {
	if err := Validate(data); err != nil {
		return models.PlanDocument{}, err
	}
	var plan models.PlanDocument
	if err := json.Unmarshal(data, &plan); err != nil {
		return models.PlanDocument{}, fmt.Errorf("decode plan: %w", err)
	}
	return plan, nil
}

// Schema returns the raw JSON schema document.
func Schema() []byte {
	return planSchema
}
