package alerts

import "github.com/JaimeStill/finsight/pkg/openapi"

type alertsSpec struct {
	List        *openapi.Operation
	Find        *openapi.Operation
	Search      *openapi.Operation
	Acknowledge *openapi.Operation
	Schemas     map[string]*openapi.Schema
}

var spec = alertsSpec{
	List: &openapi.Operation{
		Summary:     "List alerts",
		Description: "Returns a paginated list of alerts, newest first.",
		Parameters: []*openapi.Parameter{
			openapi.QueryParam("page", "integer", "Page number", false),
			openapi.QueryParam("page_size", "integer", "Results per page", false),
			openapi.QueryParam("search", "string", "Search title and description", false),
			openapi.QueryParam("sort", "string", "Comma-separated sort fields", false),
			openapi.QueryParam("document_id", "string", "Filter by document", false),
			openapi.QueryParam("severity", "string", "Filter by severity (high, critical)", false),
			openapi.QueryParam("status", "string", "Filter by status (unread, acknowledged)", false),
			openapi.QueryParam("alert_type", "string", "Filter by alert type", false),
			openapi.QueryParam("since", "string", "Triggered at or after (RFC 3339)", false),
			openapi.QueryParam("until", "string", "Triggered at or before (RFC 3339)", false),
		},
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseJSON("Paginated alerts", "AlertPageResult"),
		},
	},
	Find: &openapi.Operation{
		Summary:    "Find alert",
		Parameters: []*openapi.Parameter{openapi.PathParam("id", "Alert ID")},
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseJSON("Alert", "Alert"),
			400: openapi.ResponseRef("BadRequest"),
			404: openapi.ResponseRef("NotFound"),
		},
	},
	Search: &openapi.Operation{
		Summary:     "Search alerts",
		Description: "Accepts pagination and filter criteria as a JSON body.",
		RequestBody: openapi.RequestBodyJSON("AlertSearchRequest", true),
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseJSON("Paginated alerts", "AlertPageResult"),
			400: openapi.ResponseRef("BadRequest"),
		},
	},
	Acknowledge: &openapi.Operation{
		Summary:    "Acknowledge alert",
		Parameters: []*openapi.Parameter{openapi.PathParam("id", "Alert ID")},
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseJSON("Acknowledged alert", "Alert"),
			400: openapi.ResponseRef("BadRequest"),
			404: openapi.ResponseRef("NotFound"),
		},
	},
	Schemas: map[string]*openapi.Schema{
		"Alert": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"id":              {Type: "string", Format: "uuid"},
				"document_id":     {Type: "string", Format: "uuid"},
				"filename":        {Type: "string"},
				"alert_type":      {Type: "string", Example: TypeAnomalyDetected},
				"severity":        openapi.Enum("high", "critical"),
				"title":           {Type: "string"},
				"description":     {Type: "string"},
				"status":          openapi.Enum(StatusUnread, StatusAcknowledged),
				"triggered_at":    {Type: "string", Format: "date-time"},
				"acknowledged_at": {Type: "string", Format: "date-time"},
			},
		},
		"AlertPageResult": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"data":        {Type: "array", Items: openapi.SchemaRef("Alert")},
				"total":       {Type: "integer"},
				"page":        {Type: "integer"},
				"page_size":   {Type: "integer"},
				"total_pages": {Type: "integer"},
			},
		},
		"AlertSearchRequest": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"page":        {Type: "integer"},
				"page_size":   {Type: "integer"},
				"search":      {Type: "string"},
				"sort":        {Type: "string"},
				"document_id": {Type: "string", Format: "uuid"},
				"severity":    {Type: "string"},
				"status":      {Type: "string"},
				"alert_type":  {Type: "string"},
			},
		},
	},
}
