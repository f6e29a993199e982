package assessments

import "github.com/JaimeStill/finsight/pkg/openapi"

type assessmentsSpec struct {
	Analyze         *openapi.Operation
	Compare         *openapi.Operation
	Batch           *openapi.Operation
	AnalyzeDocument *openapi.Operation
	Schemas         map[string]*openapi.Schema
}

var spec = assessmentsSpec{
	Analyze: &openapi.Operation{
		Summary:     "Analyze text",
		Description: "Extracts entities, scores risk, sentiment, and confidence, and detects anomalies.",
		RequestBody: openapi.RequestBodyJSON("AnalyzeRequest", true),
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseJSON("Analysis result", "AnalysisResult"),
			400: openapi.ResponseRef("BadRequest"),
			413: openapi.ResponseRef("PayloadTooLarge"),
		},
	},
	Compare: &openapi.Operation{
		Summary:     "Compare texts",
		Description: "Analyzes two texts and reports entity drift, similarity, and score deltas.",
		RequestBody: openapi.RequestBodyJSON("CompareRequest", true),
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseJSON("Comparison result", "ComparisonResult"),
			400: openapi.ResponseRef("BadRequest"),
			413: openapi.ResponseRef("PayloadTooLarge"),
		},
	},
	Batch: &openapi.Operation{
		Summary:     "Analyze a batch",
		Description: "Analyzes documents concurrently. Failures are reported per document id.",
		RequestBody: openapi.RequestBodyJSON("BatchRequest", true),
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseJSON("Per-document outcome", "BatchResponse"),
			400: openapi.ResponseRef("BadRequest"),
			413: openapi.ResponseRef("PayloadTooLarge"),
		},
	},
	AnalyzeDocument: &openapi.Operation{
		Summary:     "Analyze stored document",
		Description: "Analyzes a stored document's text and writes its status fields and alerts.",
		Parameters:  []*openapi.Parameter{openapi.PathParam("id", "Document ID")},
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseJSON("Analysis and policy decision", "DocumentAnalysis"),
			400: openapi.ResponseRef("BadRequest"),
			404: openapi.ResponseRef("NotFound"),
		},
	},
	Schemas: map[string]*openapi.Schema{
		"AnalyzeRequest": {
			Type:     "object",
			Required: []string{"text"},
			Properties: map[string]*openapi.Schema{
				"text": {Type: "string", Example: "Q1 revenue $10M, modest growth."},
			},
		},
		"CompareRequest": {
			Type:     "object",
			Required: []string{"text1", "text2"},
			Properties: map[string]*openapi.Schema{
				"text1": {Type: "string"},
				"text2": {Type: "string"},
			},
		},
		"BatchRequest": {
			Type:     "object",
			Required: []string{"documents"},
			Properties: map[string]*openapi.Schema{
				"documents": {
					Type: "array",
					Items: &openapi.Schema{
						Type:     "object",
						Required: []string{"id", "text"},
						Properties: map[string]*openapi.Schema{
							"id":   {Type: "string"},
							"text": {Type: "string"},
						},
					},
				},
				"concurrency":  {Type: "integer", Description: "In-flight analyses (1-20)"},
				"apply_policy": {Type: "boolean", Description: "Write decisions for ids that are stored document UUIDs"},
			},
		},
		"Entity": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"kind":             openapi.Enum("ORG", "PERSON", "MONEY", "DATE", "METRIC"),
				"value":            {Type: "string"},
				"normalized_value": {Type: "number"},
				"position":         {Type: "integer", Description: "Byte offset in the analyzed text"},
			},
		},
		"AnomalyFinding": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"category":         {Type: "string"},
				"severity":         openapi.Enum("low", "medium", "high", "critical"),
				"description":      {Type: "string"},
				"evidence_offsets": {Type: "array", Items: &openapi.Schema{Type: "integer"}},
			},
		},
		"AnalysisResult": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"risk_score":       openapi.Range(0, 1),
				"sentiment_score":  openapi.Range(-1, 1),
				"confidence_score": openapi.Range(0, 1),
				"entities":         {Type: "array", Items: openapi.SchemaRef("Entity")},
				"anomalies":        {Type: "array", Items: openapi.SchemaRef("AnomalyFinding")},
				"insights":         {Type: "array", Items: &openapi.Schema{Type: "string"}},
				"recommendations":  {Type: "array", Items: &openapi.Schema{Type: "string"}},
			},
		},
		"ComparisonResult": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"similarity":       openapi.Range(0, 1),
				"added_entities":   {Type: "array", Items: openapi.SchemaRef("Entity")},
				"removed_entities": {Type: "array", Items: openapi.SchemaRef("Entity")},
				"metrics":          {Type: "object"},
				"insights":         {Type: "array", Items: &openapi.Schema{Type: "string"}},
				"documents":        {Type: "object"},
			},
		},
		"BatchResponse": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"results":   {Type: "object", Description: "Entries keyed by document id"},
				"succeeded": {Type: "integer"},
				"failed":    {Type: "array", Items: &openapi.Schema{Type: "string"}},
				"decisions": {Type: "object", Description: "Policy decisions keyed by document id"},
			},
		},
		"Decision": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"document_id": {Type: "string", Format: "uuid"},
				"status":      {Type: "object"},
				"alerts":      {Type: "array", Items: openapi.SchemaRef("Alert")},
				"persisted":   {Type: "boolean"},
				"write_error": {Type: "string"},
			},
		},
		"DocumentAnalysis": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"analysis": openapi.SchemaRef("AnalysisResult"),
				"decision": openapi.SchemaRef("Decision"),
			},
		},
	},
}
