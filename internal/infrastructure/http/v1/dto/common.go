// Package dto defines the request and response shapes of the HTTP API.
package dto

// ListResponse is the generic paging envelope.
type ListResponse[T any] struct {
	Items []T   `json:"items"`
	Total int64 `json:"total"`
}

// PagingQuery holds the shared pagination query parameters.
type PagingQuery struct {
	Limit  int `form:"limit,default=100"`
	Offset int `form:"offset,default=0"`
}
