package api

// ProcessMediaRequest is the payload accepted by the process endpoint.
type ProcessMediaRequest struct {
	URL  string `json:"url"`
	Type string `json:"type"`
}

// MediaInfo carries source metadata back to the caller. Duration is a
// string for compatibility with existing webhook consumers.
type MediaInfo struct {
	Title     string `json:"title"`
	Duration  string `json:"duration"`
	Thumbnail string `json:"thumbnail"`
}

// ProcessMediaResponse reports the outcome of a processing request.
type ProcessMediaResponse struct {
	Success   bool       `json:"success"`
	Message   string     `json:"message"`
	FileURL   string     `json:"fileUrl,omitempty"`
	MediaInfo *MediaInfo `json:"mediaInfo,omitempty"`
}

// DeliverRequest asks the daemon to re-send an existing artifact to the
// configured webhook.
type DeliverRequest struct {
	FilePath string          `json:"filePath"`
	Metadata DeliverMetadata `json:"metadata"`
}

// DeliverMetadata is the caller-supplied artifact context.
type DeliverMetadata struct {
	Title    string  `json:"title"`
	Duration float64 `json:"duration"`
	Source   string  `json:"source"`
}

// DeliverResponse reports the outcome of a re-delivery.
type DeliverResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// QueueSummary aggregates request history counts per lifecycle state.
type QueueSummary struct {
	Total      int `json:"total"`
	Pending    int `json:"pending"`
	Processing int `json:"processing"`
	Completed  int `json:"completed"`
	Failed     int `json:"failed"`
}

// DependencyStatus captures the outcome of a startup check.
type DependencyStatus struct {
	Name      string `json:"name"`
	Available bool   `json:"available"`
	Detail    string `json:"detail,omitempty"`
}

// DaemonStatus describes daemon runtime information.
type DaemonStatus struct {
	Running      bool               `json:"running"`
	PID          int                `json:"pid"`
	HistoryDB    string             `json:"historyDbPath"`
	LockFilePath string             `json:"lockFilePath"`
	Queue        QueueSummary       `json:"queue"`
	Dependencies []DependencyStatus `json:"dependencies,omitempty"`
}

// RequestItem describes a history entry in a transport-friendly format.
type RequestItem struct {
	ID           int64   `json:"id"`
	URL          string  `json:"url"`
	Kind         string  `json:"kind"`
	Status       string  `json:"status"`
	Title        string  `json:"title,omitempty"`
	Duration     float64 `json:"duration,omitempty"`
	ArtifactPath string  `json:"artifactPath,omitempty"`
	ErrorMessage string  `json:"errorMessage,omitempty"`
	CreatedAt    string  `json:"createdAt,omitempty"`
	UpdatedAt    string  `json:"updatedAt,omitempty"`
}

// RequestListResponse wraps the history listing payload.
type RequestListResponse struct {
	Requests []RequestItem `json:"requests"`
}
