package handlers

import (
	"context"
	"net/http"
	"net/url"

	"github.com/danielgtaylor/huma/v2"

	"github.com/donaldgifford/airbuds-price-predictor/pkg/schema"
	domain "github.com/donaldgifford/airbuds-price-predictor/pkg/types"
)

// FieldsHandler serves the input schema.
type FieldsHandler struct{}

// NewFieldsHandler creates a new FieldsHandler.
func NewFieldsHandler() *FieldsHandler {
	return &FieldsHandler{}
}

// ListFieldsOutput is the response body for the fields endpoint.
type ListFieldsOutput struct {
	Body struct {
		Fields []domain.FeatureSpec `json:"fields" doc:"Input fields in form order"`
	}
}

// ListFields returns every input field with its domain, bounds, and default.
func (*FieldsHandler) ListFields(_ context.Context, _ *struct{}) (*ListFieldsOutput, error) {
	resp := &ListFieldsOutput{}
	resp.Body.Fields = schema.Features()
	return resp, nil
}

// GetFieldInput is the path input for a single field.
type GetFieldInput struct {
	Name string `path:"name" doc:"Column name or label, e.g. Driver Size" example:"Driver Size"`
}

// GetFieldOutput is the response body for a single field.
type GetFieldOutput struct {
	Body domain.FeatureSpec
}

// GetField returns one field by column name or label.
func (*FieldsHandler) GetField(_ context.Context, input *GetFieldInput) (*GetFieldOutput, error) {
	name := input.Name
	if unescaped, err := url.PathUnescape(name); err == nil {
		name = unescaped
	}

	spec, ok := schema.Lookup(name)
	if !ok {
		return nil, huma.Error404NotFound("unknown field: " + name)
	}
	return &GetFieldOutput{Body: spec}, nil
}

// RegisterFieldsRoutes registers the field schema endpoints with the Huma API.
func RegisterFieldsRoutes(api huma.API, h *FieldsHandler) {
	huma.Register(api, huma.Operation{
		OperationID: "list-fields",
		Method:      http.MethodGet,
		Path:        "/api/v1/fields",
		Summary:     "List input fields",
		Description: "Returns the fixed set of earbud specification fields the model was trained on.",
		Tags:        []string{"fields"},
	}, h.ListFields)

	huma.Register(api, huma.Operation{
		OperationID: "get-field",
		Method:      http.MethodGet,
		Path:        "/api/v1/fields/{name}",
		Summary:     "Get an input field",
		Description: "Returns one field by training column name or display label.",
		Tags:        []string{"fields"},
	}, h.GetField)
}
