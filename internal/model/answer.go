package model

// AnswerDraft is the in-memory, not-yet-necessarily-persisted answer for one
// question. Answer and explanation are explicit fields rather than
// convention-suffixed map keys, so the two namespaces cannot collide.
type AnswerDraft struct {
	QuestionID      int    `json:"question_id"`
	AnswerText      string `json:"answer_text"`
	ExplanationText string `json:"explanation_text,omitempty"`
}
