package llm

import (
	"log"
	"time"
)

// ModeMock is the LLM_MODE value that selects the mock client.
const ModeMock = "MOCK"

// NewLLMClient returns a MockClient when mock is set and a gateway Client
// otherwise.
func NewLLMClient(baseURL, apiKey string, timeout time.Duration, mock bool) LLMClient {
	if mock {
		log.Println("LLM_MODE=MOCK detected, using mock LLM client")
		return NewMockClient()
	}

	return NewClient(baseURL, apiKey, timeout)
}
