package services

import "fmt"

// SystemPrompt returns the core instructions for the answer generator.
func SystemPrompt() string {
	return `You are a helpful assistant for a technical college. Answer based on the provided context. Format your response using Markdown with proper headings, bullet points, and emphasis for better readability.`
}

// BuildAnswerPrompt assembles the user prompt from the retrieved context and
// the question.
func BuildAnswerPrompt(question, context string) string {
	return fmt.Sprintf(`Instructions:
- Answer ONLY from the provided reference documents.
- If no relevant information is found, say so.
- Answer politely.
- Use Markdown formatting for better readability:
  - Use ## for main headings
  - Use bullet points (-) for lists
  - Use **bold** for emphasis
  - Use code blocks for any code or technical terms
- Structure your answer with clear sections.

Reference documents:
%s

Question: %s

Answer (in Markdown format):`, context, question)
}
