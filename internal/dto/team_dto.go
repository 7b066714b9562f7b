package dto

type CreateTeamRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type StartDiscussionRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// UploadResourceRequest describes a file already written to storage.
type UploadResourceRequest struct {
	Name        string `json:"name"`
	Path        string `json:"path"`
	Size        int64  `json:"size"`
	Description string `json:"description"`
}
