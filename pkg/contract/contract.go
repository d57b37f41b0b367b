// Package contract checks the field registry against the OpenAPI description
// of the newsletter endpoint so a renamed or missing query parameter is
// caught before any submission is attempted.
package contract

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/goliatone/go-signup/pkg/field"
)

//go:embed newsletter.yaml
var newsletterDocument []byte

// DefaultOperationID is the operation describing the signup request.
const DefaultOperationID = "subscribeNewsletter"

// Document returns the embedded OpenAPI document.
func Document() []byte {
	return append([]byte(nil), newsletterDocument...)
}

// Parameter is a query parameter declared by the endpoint.
type Parameter struct {
	Name     string
	Required bool
	Type     string
}

// Operation is the declared signup request.
type Operation struct {
	ID         string
	Method     string
	Path       string
	Parameters []Parameter
}

// Report lists the differences between the registry and the contract.
type Report struct {
	Operation Operation
	// MissingInContract lists registry fields the endpoint does not declare.
	MissingInContract []string
	// MissingInRegistry lists required parameters no field provides.
	MissingInRegistry []string
}

// OK reports whether registry and contract agree.
func (r Report) OK() bool {
	return len(r.MissingInContract) == 0 && len(r.MissingInRegistry) == 0
}

func (r Report) String() string {
	if r.OK() {
		return fmt.Sprintf("%s %s %s: %d parameters match", r.Operation.ID, r.Operation.Method, r.Operation.Path, len(r.Operation.Parameters))
	}
	var parts []string
	if len(r.MissingInContract) > 0 {
		parts = append(parts, "undeclared fields: "+strings.Join(r.MissingInContract, ", "))
	}
	if len(r.MissingInRegistry) > 0 {
		parts = append(parts, "unprovided parameters: "+strings.Join(r.MissingInRegistry, ", "))
	}
	return fmt.Sprintf("%s: %s", r.Operation.ID, strings.Join(parts, "; "))
}

// Load parses and validates an OpenAPI document and returns the GET
// operation identified by operationID.
func Load(ctx context.Context, raw []byte, operationID string) (Operation, error) {
	if len(raw) == 0 {
		return Operation{}, errors.New("contract: document payload is empty")
	}
	if operationID == "" {
		operationID = DefaultOperationID
	}

	loader := &openapi3.Loader{Context: ctx}
	spec, err := loader.LoadFromData(raw)
	if err != nil {
		return Operation{}, fmt.Errorf("contract: load document: %w", err)
	}
	if err := spec.Validate(ctx, openapi3.DisableExamplesValidation()); err != nil {
		return Operation{}, fmt.Errorf("contract: validate: %w", err)
	}
	if spec.Paths == nil {
		return Operation{}, errors.New("contract: document does not contain any paths")
	}

	for path, item := range spec.Paths.Map() {
		if item == nil || item.Get == nil || item.Get.OperationID != operationID {
			continue
		}
		return Operation{
			ID:         operationID,
			Method:     "GET",
			Path:       path,
			Parameters: queryParameters(item.Parameters, item.Get.Parameters),
		}, nil
	}
	return Operation{}, fmt.Errorf("contract: GET operation %q not found", operationID)
}

// Check compares the registry with the embedded contract.
func Check(ctx context.Context, registry *field.Registry) (Report, error) {
	return CheckDocument(ctx, registry, newsletterDocument, DefaultOperationID)
}

// CheckDocument compares the registry with the operation of raw.
func CheckDocument(ctx context.Context, registry *field.Registry, raw []byte, operationID string) (Report, error) {
	if registry == nil {
		return Report{}, errors.New("contract: registry is required")
	}
	op, err := Load(ctx, raw, operationID)
	if err != nil {
		return Report{}, err
	}

	declared := make(map[string]Parameter, len(op.Parameters))
	for _, p := range op.Parameters {
		declared[p.Name] = p
	}
	provided := make(map[string]struct{}, registry.Len())
	report := Report{Operation: op}

	for _, id := range registry.IDs() {
		provided[id] = struct{}{}
		if _, ok := declared[id]; !ok {
			report.MissingInContract = append(report.MissingInContract, id)
		}
	}
	for _, p := range op.Parameters {
		if !p.Required {
			continue
		}
		if _, ok := provided[p.Name]; !ok {
			report.MissingInRegistry = append(report.MissingInRegistry, p.Name)
		}
	}
	sort.Strings(report.MissingInRegistry)
	return report, nil
}

func queryParameters(sets ...openapi3.Parameters) []Parameter {
	var out []Parameter
	seen := make(map[string]int)
	for _, set := range sets {
		for _, ref := range set {
			if ref == nil || ref.Value == nil || ref.Value.In != openapi3.ParameterInQuery {
				continue
			}
			p := Parameter{
				Name:     ref.Value.Name,
				Required: ref.Value.Required,
				Type:     schemaType(ref.Value.Schema),
			}
			// Operation-level parameters override path-level ones.
			if idx, ok := seen[p.Name]; ok {
				out[idx] = p
				continue
			}
			seen[p.Name] = len(out)
			out = append(out, p)
		}
	}
	return out
}

func schemaType(ref *openapi3.SchemaRef) string {
	if ref == nil || ref.Value == nil || ref.Value.Type == nil {
		return ""
	}
	values := ref.Value.Type.Slice()
	if len(values) == 0 {
		return ""
	}
	return strings.Join(values, ",")
}
