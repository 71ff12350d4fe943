package websocket

// ─── Actions (Client → Server) ──────────────────────────────────────

type Action string

const (
	ActionAnswer   Action = "answer"
	ActionSave     Action = "save"
	ActionNavigate Action = "navigate"
	ActionSubmit   Action = "submit"
	ActionPing     Action = "ping"
)

// RequestPayload is the single client message shape; unused fields stay
// zero for actions that do not need them.
type RequestPayload struct {
	Action          Action  `json:"action"`
	QuestionID      int     `json:"question_id,omitempty"`
	AnswerText      string  `json:"answer_text,omitempty"`
	ExplanationText *string `json:"explanation_text,omitempty"`
	Index           *int    `json:"index,omitempty"`
}

// ─── Events (Server → Client) ───────────────────────────────────────

type Event string

const (
	EventError Event = "error"
	EventSaved Event = "saved"
	EventMoved Event = "moved"
	EventPong  Event = "pong"
)

// SavedResponse acknowledges an answer mutation or flush. Saved is false
// when the flush failed but the draft was retained (non-fatal).
type SavedResponse struct {
	Event      Event `json:"event"`
	QuestionID int   `json:"question_id"`
	Saved      bool  `json:"saved"`
}

// MovedResponse reports the cursor after a navigate action.
type MovedResponse struct {
	Event  Event `json:"event"`
	Cursor int   `json:"cursor"`
}

type ErrorResponse struct {
	Event Event  `json:"event"`
	Error string `json:"error"`
}

type PongResponse struct {
	Event Event `json:"event"`
}
