// Package openapi builds the OpenAPI 3.0 description of the HTTP API.
package openapi

import (
	"encoding/json"

	"github.com/projecttracker/tracker/internal/model"
	"gopkg.in/yaml.v3"
)

// Document is the subset of the OpenAPI 3.0 object model the API needs.
type Document struct {
	OpenAPI    string              `json:"openapi" yaml:"openapi"`
	Info       Info                `json:"info" yaml:"info"`
	Servers    []Server            `json:"servers,omitempty" yaml:"servers,omitempty"`
	Paths      map[string]PathItem `json:"paths" yaml:"paths"`
	Components Components          `json:"components" yaml:"components"`
}

type Info struct {
	Title       string `json:"title" yaml:"title"`
	Version     string `json:"version" yaml:"version"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
}

type Server struct {
	URL         string `json:"url" yaml:"url"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
}

type PathItem struct {
	Get  *Operation `json:"get,omitempty" yaml:"get,omitempty"`
	Post *Operation `json:"post,omitempty" yaml:"post,omitempty"`
	Put  *Operation `json:"put,omitempty" yaml:"put,omitempty"`
}

type Operation struct {
	Summary     string              `json:"summary" yaml:"summary"`
	Tags        []string            `json:"tags,omitempty" yaml:"tags,omitempty"`
	Parameters  []Parameter         `json:"parameters,omitempty" yaml:"parameters,omitempty"`
	RequestBody *RequestBody        `json:"requestBody,omitempty" yaml:"requestBody,omitempty"`
	Responses   map[string]Response `json:"responses" yaml:"responses"`
}

type Parameter struct {
	Name        string  `json:"name" yaml:"name"`
	In          string  `json:"in" yaml:"in"`
	Required    bool    `json:"required" yaml:"required"`
	Description string  `json:"description,omitempty" yaml:"description,omitempty"`
	Schema      *Schema `json:"schema,omitempty" yaml:"schema,omitempty"`
}

type RequestBody struct {
	Required bool                 `json:"required" yaml:"required"`
	Content  map[string]MediaType `json:"content" yaml:"content"`
}

type Response struct {
	Description string               `json:"description" yaml:"description"`
	Content     map[string]MediaType `json:"content,omitempty" yaml:"content,omitempty"`
}

type MediaType struct {
	Schema *Schema `json:"schema" yaml:"schema"`
}

type Components struct {
	Schemas map[string]*Schema `json:"schemas" yaml:"schemas"`
}

// Schema is a JSON Schema fragment.
type Schema struct {
	Ref         string             `json:"$ref,omitempty" yaml:"$ref,omitempty"`
	Type        string             `json:"type,omitempty" yaml:"type,omitempty"`
	Format      string             `json:"format,omitempty" yaml:"format,omitempty"`
	Description string             `json:"description,omitempty" yaml:"description,omitempty"`
	Enum        []string           `json:"enum,omitempty" yaml:"enum,omitempty"`
	Required    []string           `json:"required,omitempty" yaml:"required,omitempty"`
	Properties  map[string]*Schema `json:"properties,omitempty" yaml:"properties,omitempty"`
	Items       *Schema            `json:"items,omitempty" yaml:"items,omitempty"`
}

// JSON renders the document as indented JSON.
func (d *Document) JSON() ([]byte, error) {
	return json.MarshalIndent(d, "", "  ")
}

// YAML renders the document as YAML.
func (d *Document) YAML() ([]byte, error) {
	return yaml.Marshal(d)
}

func ref(name string) *Schema {
	return &Schema{Ref: "#/components/schemas/" + name}
}

func str(desc string) *Schema {
	return &Schema{Type: "string", Description: desc}
}

func jsonContent(s *Schema) map[string]MediaType {
	return map[string]MediaType{"application/json": {Schema: s}}
}

func statusEnum() []string {
	values := make([]string, len(model.ProjectStatuses))
	for i, s := range model.ProjectStatuses {
		values[i] = string(s)
	}
	return values
}

// Build returns the API document. serverURL is advertised under servers
// when non-empty.
func Build(serverURL string) *Document {
	doc := &Document{
		OpenAPI: "3.0.0",
		Info: Info{
			Title:       "Project Tracker API",
			Version:     "1.0.0",
			Description: "A simple project tracking API",
		},
		Paths: map[string]PathItem{
			"/api/projects": {
				Get: &Operation{
					Summary: "Returns all projects",
					Tags:    []string{"Projects"},
					Responses: map[string]Response{
						"200": {Description: "List of projects", Content: jsonContent(&Schema{Type: "array", Items: ref("Project")})},
					},
				},
				Post: &Operation{
					Summary: "Create a new project",
					Tags:    []string{"Projects"},
					RequestBody: &RequestBody{
						Required: true,
						Content:  jsonContent(projectInputSchema([]string{"name", "description", "status"})),
					},
					Responses: map[string]Response{
						"201": {Description: "The created project", Content: jsonContent(ref("Project"))},
						"400": {Description: "Invalid request body", Content: jsonContent(ref("Error"))},
					},
				},
			},
			"/api/projects/{id}": {
				Put: &Operation{
					Summary: "Update a project",
					Tags:    []string{"Projects"},
					Parameters: []Parameter{
						{Name: "id", In: "path", Required: true, Description: "The ID of the project to update", Schema: &Schema{Type: "string"}},
					},
					RequestBody: &RequestBody{
						Required: true,
						Content:  jsonContent(projectInputSchema([]string{"name", "description", "status", "assignee_id"})),
					},
					Responses: map[string]Response{
						"200": {Description: "The updated project", Content: jsonContent(ref("Project"))},
						"400": {Description: "Invalid request body", Content: jsonContent(ref("Error"))},
						"404": {Description: "Project not found", Content: jsonContent(ref("Error"))},
					},
				},
			},
			"/api/users": {
				Get: &Operation{
					Summary: "Returns all users",
					Tags:    []string{"Users"},
					Responses: map[string]Response{
						"200": {Description: "List of users", Content: jsonContent(&Schema{Type: "array", Items: ref("User")})},
					},
				},
			},
			"/api/health": {
				Get: &Operation{
					Summary: "Liveness probe",
					Tags:    []string{"Health"},
					Responses: map[string]Response{
						"200": {Description: "Service is up"},
					},
				},
			},
		},
		Components: Components{
			Schemas: map[string]*Schema{
				"Project": {
					Type:     "object",
					Required: []string{"id", "name", "status", "createdAt", "updatedAt"},
					Properties: map[string]*Schema{
						"id":          str("The unique identifier of the project"),
						"name":        str("The name of the project"),
						"description": str("The description of the project"),
						"status":      {Type: "string", Enum: statusEnum(), Description: "The current status of the project"},
						"assignee":    ref("User"),
						"createdAt":   {Type: "string", Format: "date-time", Description: "The date and time when the project was created"},
						"updatedAt":   {Type: "string", Format: "date-time", Description: "The date and time when the project was last updated"},
					},
				},
				"User": {
					Type:     "object",
					Required: []string{"id", "name", "email", "createdAt", "updatedAt"},
					Properties: map[string]*Schema{
						"id":        str("The unique identifier of the user"),
						"name":      str("The name of the user"),
						"email":     {Type: "string", Format: "email", Description: "The email address of the user"},
						"avatar":    {Type: "string", Format: "uri", Description: "The URL of the user's avatar image"},
						"createdAt": {Type: "string", Format: "date-time", Description: "The date and time when the user was created"},
						"updatedAt": {Type: "string", Format: "date-time", Description: "The date and time when the user was last updated"},
					},
				},
				"Error": {
					Type:       "object",
					Required:   []string{"error"},
					Properties: map[string]*Schema{"error": str("Human readable error message")},
				},
			},
		},
	}
	if serverURL != "" {
		doc.Servers = []Server{{URL: serverURL, Description: "Development server"}}
	}
	return doc
}

func projectInputSchema(required []string) *Schema {
	return &Schema{
		Type:     "object",
		Required: required,
		Properties: map[string]*Schema{
			"name":        {Type: "string"},
			"description": {Type: "string"},
			"status":      {Type: "string", Enum: statusEnum()},
			"assignee_id": str("The ID of the user to assign the project to"),
		},
	}
}
