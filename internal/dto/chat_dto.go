package dto

import "time"

type SendChatRequest struct {
	Chat string `json:"chat"`
}

type SendChatResponse struct {
	Reply    string       `json:"reply"`
	Citation *CitationDTO `json:"citation,omitempty"`
}

// CitationDTO names the single best supporting source for a reply, present
// only when its relevance clears the citation threshold.
type CitationDTO struct {
	FileName string  `json:"file_name"`
	Score    float64 `json:"score"`
}

type TranscriptTurnDTO struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type GetTranscriptResponse struct {
	Turns []TranscriptTurnDTO `json:"turns"`
}

// HistoryTurnDTO is one persisted turn from the audit trail.
type HistoryTurnDTO struct {
	Role      string     `json:"role"`
	Content   string     `json:"content"`
	CitedFile *string    `json:"cited_file,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type GetHistoryResponse struct {
	Turns []HistoryTurnDTO `json:"turns"`
}
