package model

import "time"

// StartSessionRequest is the body of POST /v1/sessions
type StartSessionRequest struct {
	StudentName string `json:"studentName"`
	Email       string `json:"email"`
	Phone       string `json:"phone,omitempty"`
	Institution string `json:"institution,omitempty"`
	TemplateID  string `json:"templateId,omitempty"`
}

// StartSessionResponse carries the session token and the questions to render
type StartSessionResponse struct {
	SessionID string              `json:"sessionId"`
	Token     string              `json:"token"`
	Questions []Question          `json:"questions"`
	Template  *AssessmentTemplate `json:"template"`
}

// SessionActionRequest is the body of POST /v1/sessions/{id}
type SessionActionRequest struct {
	Action     string `json:"action"` // "save_answer" | "complete"
	QuestionID string `json:"questionId,omitempty"`
	Answer     string `json:"answer,omitempty"`
}

// SubmittedResponse is one answer on the direct-submit path
type SubmittedResponse struct {
	QuestionID          string `json:"question_id"`
	SelectedOptionLabel string `json:"selected_option_label"`
}

// DirectSubmitRequest is the body of POST /v1/sessions/direct.
// Score is accepted for compatibility and never trusted.
type DirectSubmitRequest struct {
	Responses   []SubmittedResponse `json:"responses"`
	Score       *Score              `json:"score,omitempty"`
	UserID      string              `json:"userId,omitempty"`
	Email       string              `json:"email,omitempty"`
	StudentName string              `json:"studentName,omitempty"`
	TemplateID  string              `json:"templateId,omitempty"`
}

// DirectSubmitResponse is returned by the direct-submit path
type DirectSubmitResponse struct {
	SessionID string `json:"sessionId"`
	Token     string `json:"token"`
	Score     Score  `json:"score"`
}

// RegisterUserRequest is the body of POST /v1/assessment/user
type RegisterUserRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone,omitempty"`
}

// CareerRecommendation is a static lookup keyed by type
type CareerRecommendation struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Skills      []string `json:"skills"`
	Source      string   `json:"source,omitempty"` // "primary" | "secondary"
}

// SessionView is a session plus the derived result bundle
type SessionView struct {
	Session               *Session               `json:"session"`
	Questions             []Question             `json:"questions"`
	StudentName           string                 `json:"studentName,omitempty"`
	Scores                *DCASCounts            `json:"scores,omitempty"`
	ScoreRanges           *DCASRanges            `json:"scoreRanges,omitempty"`
	PrimaryType           DCASType               `json:"primaryType,omitempty"`
	SecondaryType         DCASType               `json:"secondaryType,omitempty"`
	CareerRecommendations []CareerRecommendation `json:"careerRecommendations,omitempty"`
	CreatedAt             *time.Time             `json:"createdAt,omitempty"`
}
