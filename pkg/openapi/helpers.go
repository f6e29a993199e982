package openapi

const jsonMedia = "application/json"

// SchemaRef points at a component schema.
func SchemaRef(name string) *Schema {
	return &Schema{Ref: "#/components/schemas/" + name}
}

// ResponseRef points at a component response.
func ResponseRef(name string) *Response {
	return &Response{Ref: "#/components/responses/" + name}
}

// RequestBodyJSON is a JSON body whose schema is the named component.
func RequestBodyJSON(schemaName string, required bool) *RequestBody {
	return &RequestBody{
		Required: required,
		Content:  map[string]*MediaType{jsonMedia: {Schema: SchemaRef(schemaName)}},
	}
}

// ResponseJSON is a JSON response whose schema is the named component.
func ResponseJSON(description, schemaName string) *Response {
	return &Response{
		Description: description,
		Content:     map[string]*MediaType{jsonMedia: {Schema: SchemaRef(schemaName)}},
	}
}

// PathParam is a required uuid path segment.
func PathParam(name, description string) *Parameter {
	return &Parameter{
		Name:        name,
		In:          "path",
		Required:    true,
		Description: description,
		Schema:      &Schema{Type: "string", Format: "uuid"},
	}
}

// QueryParam is a query string parameter of the given JSON type.
func QueryParam(name, typ, description string, required bool) *Parameter {
	return &Parameter{
		Name:        name,
		In:          "query",
		Required:    required,
		Description: description,
		Schema:      &Schema{Type: typ},
	}
}

// Range is a number schema bounded by lo and hi inclusive.
func Range(lo, hi float64) *Schema {
	return &Schema{Type: "number", Minimum: &lo, Maximum: &hi}
}

// Enum is a string schema restricted to values.
func Enum(values ...string) *Schema {
	s := &Schema{Type: "string", Enum: make([]any, len(values))}
	for i, v := range values {
		s.Enum[i] = v
	}
	return s
}
