package models

// CallbackRequest is posted by the page when a control changes
type CallbackRequest struct {
	Control string            `json:"control"`
	Event   string            `json:"event"`
	Values  map[string]string `json:"values"`
}

// CallbackResponse carries the rebuilt figure for one graph
type CallbackResponse struct {
	Graph  string            `json:"graph"`
	Figure Figure            `json:"figure"`
	Values map[string]string `json:"values"`
}

// DatasetResponse is returned by /api/dataset
type DatasetResponse struct {
	Source  string              `json:"source"`
	Total   int                 `json:"total"`
	Columns []string            `json:"columns"`
	Rows    []map[string]string `json:"rows"`
}

// HealthResponse is returned by /health when JSON is requested
type HealthResponse struct {
	Status     string `json:"status"`
	InstanceID string `json:"instance_id"`
	Rows       int    `json:"rows"`
	Uptime     string `json:"uptime"`
}
