package prediction

// PaginatedResult represents a paginated response with data and metadata
type PaginatedResult struct {
	Data    []*StoredRecord `json:"data"`
	Page    int             `json:"page"`
	PerPage int             `json:"per_page"`
	Total   int             `json:"total"`
	Pages   int             `json:"pages"`
}
