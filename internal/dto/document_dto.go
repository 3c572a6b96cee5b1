package dto

type DocumentInfoDTO struct {
	Name string `json:"name"`
	Size int64  `json:"size"`
}

type ListDocumentsResponse struct {
	Documents []DocumentInfoDTO `json:"documents"`
}

type DeleteDocumentRequest struct {
	Name string `json:"name"`
}

type UpdateSettingsRequest struct {
	Temperature *float64 `json:"temperature,omitempty"`
	DocsPath    *string  `json:"docs_path,omitempty"`
}

// DocumentChangedMessage travels over the in-process bus whenever the
// document set changes, so the index freshness is re-evaluated before the
// next question.
type DocumentChangedMessage struct {
	EventType string `json:"event_type"`
	FileName  string `json:"file_name"`
}

type IndexStatusResponse struct {
	ChunkCount int64    `json:"chunk_count"`
	Files      []string `json:"files"`
	Fresh      bool     `json:"fresh"`
}
