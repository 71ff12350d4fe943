package model

// Question is a single library question as served by the upstream API.
// Read-only to the gateway; many AssessmentQuestions may reference one
// Question.
type Question struct {
	ID                  int      `json:"id"`
	Title               string   `json:"title"`
	Description         string   `json:"description"`
	BuggySnippet        string   `json:"buggy_snippet"`
	WhatWrong           string   `json:"what_wrong"`
	FixOutline          string   `json:"fix_outline"`
	DifficultyLevel     string   `json:"difficulty_level"`
	Category            string   `json:"category"`
	EstimatedDuration   int      `json:"estimated_duration"`
	ProgrammingLanguage string   `json:"programming_language,omitempty"`
	Tags                []string `json:"tags,omitempty"`
}

// IsCoding reports whether the question expects code and therefore carries
// the auxiliary explanation field.
func (q Question) IsCoding() bool {
	return q.ProgrammingLanguage != ""
}

// AssessmentQuestion wraps a Question with its position and point value
// inside one assessment. Order values are unique and contiguous from 1.
type AssessmentQuestion struct {
	ID             int      `json:"id"`
	QuestionID     int      `json:"question_id"`
	Order          int      `json:"order"`
	Points         int      `json:"points"`
	CustomDuration *int     `json:"custom_duration,omitempty"`
	Question       Question `json:"question"`
}

// Assessment is the upstream assessment resource fetched by share token.
type Assessment struct {
	ID                  int                  `json:"id"`
	Title               string               `json:"title"`
	Description         string               `json:"description"`
	ProgrammingLanguage string               `json:"programming_language"`
	DifficultyLevel     string               `json:"difficulty_level"`
	TotalDuration       int                  `json:"total_duration"` // minutes
	MaxScore            int                  `json:"max_score"`
	Questions           []AssessmentQuestion `json:"questions"`
}
