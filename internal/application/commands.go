package application

import "github.com/wms-platform/tarima-dispatch/internal/domain"

// SubmitCommand represents the command to process the current selection
type SubmitCommand struct {
	Description string
	Notes       string
	CreatedBy   string
}

// ImportOrdersCommand represents pasted order data
type ImportOrdersCommand struct {
	Text     string
	Operator string
}

// UpdateReleaseCommand represents an edit of an existing release
type UpdateReleaseCommand struct {
	ReleaseID int64
	Update    domain.ReleaseUpdate
	Operator  string
}

// GetReleaseQuery represents the query to get a release by ID
type GetReleaseQuery struct {
	ReleaseID int64
}
