package openapi

import "maps"

// Components holds schemas and responses referenced by $ref.
type Components struct {
	Schemas   map[string]*Schema   `json:"schemas,omitempty"`
	Responses map[string]*Response `json:"responses,omitempty"`
}

// NewComponents registers the Error schema and one response per error
// status the handlers emit.
func NewComponents() *Components {
	return &Components{
		Schemas: map[string]*Schema{
			"Error": {
				Type:     "object",
				Required: []string{"error"},
				Properties: map[string]*Schema{
					"error": {Type: "string", Description: "Error message"},
				},
			},
		},
		Responses: map[string]*Response{
			"BadRequest":         errorResponse("Invalid request"),
			"NotFound":           errorResponse("Resource not found"),
			"Conflict":           errorResponse("Resource conflict"),
			"PayloadTooLarge":    errorResponse("Request exceeds the configured size limit"),
			"ServiceUnavailable": errorResponse("A dependency is not ready"),
		},
	}
}

// AddSchemas merges schemas, replacing any with the same name.
func (c *Components) AddSchemas(schemas map[string]*Schema) {
	maps.Copy(c.Schemas, schemas)
}

// AddResponses merges responses, replacing any with the same name.
func (c *Components) AddResponses(responses map[string]*Response) {
	maps.Copy(c.Responses, responses)
}

func errorResponse(description string) *Response {
	return &Response{
		Description: description,
		Content:     map[string]*MediaType{jsonMedia: {Schema: SchemaRef("Error")}},
	}
}
