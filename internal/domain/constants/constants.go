package constants

// Chat and context constants
const (
	// DefaultMaxContextSize max number of turn records kept per session
	DefaultMaxContextSize = 60

	// DefaultHistoryWindow turns of history sent to the AI per request
	DefaultHistoryWindow = 20
)

// AI model constants
const (
	// GeminiModelName Gemini AI model name
	GeminiModelName = "gemini-2.5-flash"

	// AITemperature response creativity (0.0-1.0)
	AITemperature = 0.7

	// AITopK Top-K sampling parameter
	AITopK = 40

	// AITopP Top-P sampling parameter
	AITopP = 0.95

	// MaxRetries max attempts per AI request
	MaxRetries = 3

	// RetryDelaySeconds wait between attempts (seconds)
	RetryDelaySeconds = 5
)
