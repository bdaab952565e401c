package models

// Pagination mirrors the optional pagination block of the API envelope.
type Pagination struct {
	TotalCount int `json:"total_count"`
	Page       int `json:"page,omitempty"`
	PageSize   int `json:"page_size,omitempty"`
	TotalPages int `json:"total_pages,omitempty"`
}

// TransactionQuery holds the filter parameters accepted by
// GET portfolios/:id/transactions/. Zero values are omitted from the request.
type TransactionQuery struct {
	Page     int
	PageSize int
	Type     TransactionType
	Symbol   string
	Days     int // restrict to the trailing N days
}

// RegisterRequest carries the fields for POST auth/register/.
type RegisterRequest struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
}
