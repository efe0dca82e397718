package models

// DocumentInfo summarises one indexed source file.
type DocumentInfo struct {
	Source string `json:"source"`
	Chunks int    `json:"chunks"`
}

// ListDocumentsResponse is the payload of GET /api/v1/documents.
type ListDocumentsResponse struct {
	Count     int            `json:"count"`
	Documents []DocumentInfo `json:"documents"`
}
