package dto

// CreateEnvironmentRequest is the structure for environment creation requests
type CreateEnvironmentRequest struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	DisplayName string `json:"display_name"`
	Type        string `json:"type"`
	Region      string `json:"region"`
	CreatedBy   string `json:"created_by"`
}

// UpdateEnvironmentRequest is a partial environment update. Empty or missing
// fields keep their current value.
type UpdateEnvironmentRequest struct {
	Name        *string `json:"name"`
	DisplayName *string `json:"display_name"`
	Type        *string `json:"type"`
	Region      *string `json:"region"`
}
