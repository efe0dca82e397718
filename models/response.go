package models

// HealthResponse is the liveness probe payload.
type HealthResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// StatsResponse is a read-only snapshot of the system state.
type StatsResponse struct {
	TotalDocuments int    `json:"total_documents"`
	CollectionName string `json:"collection_name"`
	EmbeddingModel string `json:"embedding_model"`
	LLMProvider    string `json:"llm_provider"`
	LLMModel       string `json:"llm_model"`
}

// AnswerResponse carries the generated answer for a question together with
// the deduplicated source filenames of the retrieved chunks.
type AnswerResponse struct {
	Question   string   `json:"question"`
	Answer     string   `json:"answer"`
	Sources    []string `json:"sources"`
	Confidence float64  `json:"confidence"`
}

// DocumentUploadResponse is the outcome of a document upload. Filename and
// ChunksCreated are only set on success.
type DocumentUploadResponse struct {
	Success       bool   `json:"success"`
	Message       string `json:"message"`
	Filename      string `json:"filename,omitempty"`
	ChunksCreated int    `json:"chunks_created,omitempty"`
}
