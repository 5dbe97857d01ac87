package entity

// NextAction tells the frontend what to do after a turn.
type NextAction string

const (
	ActionContinueConversation NextAction = "continue_conversation"
	ActionShowProducts         NextAction = "show_products"
	ActionNavigateToCart       NextAction = "navigate_to_cart"
	ActionAskClarification     NextAction = "ask_clarification"
)

// ParseNextAction validates a next-action tag declared by the AI.
func ParseNextAction(s string) (NextAction, bool) {
	switch NextAction(s) {
	case ActionContinueConversation, ActionShowProducts, ActionNavigateToCart, ActionAskClarification:
		return NextAction(s), true
	}
	return "", false
}

// RecommendedItem is one device or plan suggestion with its reasoning.
type RecommendedItem struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Reasoning string `json:"reasoning"`
}

// RecommendationResult is the structured outcome of one turn. Created
// fresh each turn; merged into the session and returned to the caller.
type RecommendationResult struct {
	Response           string            `json:"response"`
	VoiceResponse      string            `json:"voice_response,omitempty"`
	Question           string            `json:"question,omitempty"`
	Devices            []RecommendedItem `json:"devices,omitempty"`
	Plans              []RecommendedItem `json:"plans,omitempty"`
	Stage              Stage             `json:"conversation_stage,omitempty"`
	NextAction         NextAction        `json:"next_action,omitempty"`
	NeedsClarification bool              `json:"needs_clarification,omitempty"`
	SessionID          string            `json:"session_id,omitempty"`
	Reset              bool              `json:"reset,omitempty"`
}
