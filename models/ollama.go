package models

// OllamaEmbedRequest is the body of the Ollama embeddings API call.
type OllamaEmbedRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
}

// OllamaEmbedResponse carries the embedding returned by Ollama.
type OllamaEmbedResponse struct {
	Embedding []float32 `json:"embedding"`
}

// OllamaGenerateRequest is the body of the Ollama generate API call.
// Stream must stay false: the client reads a single JSON response.
type OllamaGenerateRequest struct {
	Model   string                 `json:"model"`
	Prompt  string                 `json:"prompt"`
	System  string                 `json:"system,omitempty"`
	Stream  bool                   `json:"stream"`
	Options map[string]interface{} `json:"options,omitempty"`
}

// OllamaGenerateResponse carries the completion returned by Ollama.
type OllamaGenerateResponse struct {
	Response string `json:"response"`
}
