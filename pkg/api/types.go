package api

import "github.com/rkall/classkit/pkg/index"

// APIResponse represents a standard API response
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// ServerConfig holds configuration for the API server
type ServerConfig struct {
	Bind   string
	Port   int
	APIKey string
}

// ClassIndex defines the index operations the API reads from
type ClassIndex interface {
	Get(className string) (*index.ClassSummary, error)
	List(prefix string) ([]index.ClassSummary, error)
}
