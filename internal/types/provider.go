package types

// Provider tags passed to the authorization collaborator and used for logging.
const (
	ProviderOllama = "Ollama"
	ProviderAzure  = "Azure"
)

// DefaultOllamaBaseURL is used when no upstream override is configured.
const DefaultOllamaBaseURL = "http://localhost:11434"

// OllamaPath enumerates the upstream subpaths the gateway may forward to.
type OllamaPath string

const (
	OllamaChatPath                 OllamaPath = "api/chat"
	OllamaGeneratePath             OllamaPath = "api/generate"
	OllamaOpenAICompatibleChatPath OllamaPath = "v1/chat/completions"
)

// OllamaPaths returns every member of the enumeration.
func OllamaPaths() []OllamaPath {
	return []OllamaPath{
		OllamaChatPath,
		OllamaGeneratePath,
		OllamaOpenAICompatibleChatPath,
	}
}
