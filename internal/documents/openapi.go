package documents

import "github.com/JaimeStill/finsight/pkg/openapi"

type documentsSpec struct {
	List    *openapi.Operation
	Find    *openapi.Operation
	Text    *openapi.Operation
	Upload  *openapi.Operation
	Search  *openapi.Operation
	Delete  *openapi.Operation
	Schemas map[string]*openapi.Schema
}

var spec = documentsSpec{
	List: &openapi.Operation{
		Summary:     "List documents",
		Description: "Returns a paginated list of documents, newest first.",
		Parameters: []*openapi.Parameter{
			openapi.QueryParam("page", "integer", "Page number", false),
			openapi.QueryParam("page_size", "integer", "Results per page", false),
			openapi.QueryParam("search", "string", "Search filename and analysis summary", false),
			openapi.QueryParam("sort", "string", "Comma-separated sort fields", false),
			openapi.QueryParam("status", "string", "Filter by status (pending, processed)", false),
			openapi.QueryParam("risk_level", "string", "Filter by risk level (low, medium, high)", false),
			openapi.QueryParam("compliance_status", "string", "Filter by compliance status (passed, failed)", false),
			openapi.QueryParam("filename", "string", "Filter by filename (contains)", false),
			openapi.QueryParam("content_type", "string", "Filter by content type", false),
			openapi.QueryParam("min_risk_score", "number", "Minimum risk score (inclusive)", false),
			openapi.QueryParam("max_risk_score", "number", "Maximum risk score (inclusive)", false),
		},
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseJSON("Paginated documents", "DocumentPageResult"),
		},
	},
	Find: &openapi.Operation{
		Summary:    "Find document",
		Parameters: []*openapi.Parameter{openapi.PathParam("id", "Document ID")},
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseJSON("Document", "Document"),
			400: openapi.ResponseRef("BadRequest"),
			404: openapi.ResponseRef("NotFound"),
		},
	},
	Text: &openapi.Operation{
		Summary:    "Download document text",
		Parameters: []*openapi.Parameter{openapi.PathParam("id", "Document ID")},
		Responses: map[int]*openapi.Response{
			200: {
				Description: "Stored document text",
				Content: map[string]*openapi.MediaType{
					"text/plain": {Schema: &openapi.Schema{Type: "string"}},
				},
			},
			400: openapi.ResponseRef("BadRequest"),
			404: openapi.ResponseRef("NotFound"),
		},
	},
	Upload: &openapi.Operation{
		Summary:     "Upload documents",
		Description: "Registers one or more UTF-8 text files. Each file is stored independently.",
		RequestBody: &openapi.RequestBody{
			Required: true,
			Content: map[string]*openapi.MediaType{
				"multipart/form-data": {
					Schema: &openapi.Schema{
						Type: "object",
						Properties: map[string]*openapi.Schema{
							FormFieldFiles: {
								Type:  "array",
								Items: &openapi.Schema{Type: "string", Format: "binary"},
							},
						},
					},
				},
			},
		},
		Responses: map[int]*openapi.Response{
			201: openapi.ResponseJSON("Per-file upload results", "DocumentUploadResults"),
			400: openapi.ResponseJSON("Every file failed", "DocumentUploadResults"),
			413: openapi.ResponseRef("PayloadTooLarge"),
		},
	},
	Search: &openapi.Operation{
		Summary:     "Search documents",
		Description: "Accepts pagination and filter criteria as a JSON body.",
		RequestBody: openapi.RequestBodyJSON("DocumentSearchRequest", true),
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseJSON("Paginated documents", "DocumentPageResult"),
			400: openapi.ResponseRef("BadRequest"),
		},
	},
	Delete: &openapi.Operation{
		Summary:    "Delete document",
		Parameters: []*openapi.Parameter{openapi.PathParam("id", "Document ID")},
		Responses: map[int]*openapi.Response{
			204: {Description: "Document deleted"},
			400: openapi.ResponseRef("BadRequest"),
			404: openapi.ResponseRef("NotFound"),
		},
	},
	Schemas: map[string]*openapi.Schema{
		"Document": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"id":                {Type: "string", Format: "uuid"},
				"filename":          {Type: "string"},
				"content_type":      {Type: "string"},
				"size_bytes":        {Type: "integer"},
				"storage_key":       {Type: "string"},
				"status":            openapi.Enum(StatusPending, "processed"),
				"risk_level":        openapi.Enum("low", "medium", "high"),
				"compliance_status": openapi.Enum("passed", "failed"),
				"risk_score":        {Type: "number"},
				"sentiment_score":   {Type: "number"},
				"confidence_score":  {Type: "number"},
				"analysis_summary":  {Type: "string"},
				"analyzed_at":       {Type: "string", Format: "date-time"},
				"uploaded_at":       {Type: "string", Format: "date-time"},
				"updated_at":        {Type: "string", Format: "date-time"},
			},
		},
		"DocumentPageResult": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"data":        {Type: "array", Items: openapi.SchemaRef("Document")},
				"total":       {Type: "integer"},
				"page":        {Type: "integer"},
				"page_size":   {Type: "integer"},
				"total_pages": {Type: "integer"},
			},
		},
		"DocumentUploadResults": {
			Type: "array",
			Items: &openapi.Schema{
				Type: "object",
				Properties: map[string]*openapi.Schema{
					"document": openapi.SchemaRef("Document"),
					"filename": {Type: "string"},
					"error":    {Type: "string"},
				},
			},
		},
		"DocumentSearchRequest": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"page":              {Type: "integer"},
				"page_size":         {Type: "integer"},
				"search":            {Type: "string"},
				"sort":              {Type: "string"},
				"status":            {Type: "string"},
				"risk_level":        {Type: "string"},
				"compliance_status": {Type: "string"},
				"filename":          {Type: "string"},
				"content_type":      {Type: "string"},
			},
		},
	},
}
