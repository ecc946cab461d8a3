package model

import "time"

type SessionStatus string

const (
	SessionInProgress SessionStatus = "in_progress"
	SessionCompleted  SessionStatus = "completed"
	SessionAbandoned  SessionStatus = "abandoned"
)

// Terminal reports whether no transition leaves this state
func (s SessionStatus) Terminal() bool {
	return s == SessionCompleted || s == SessionAbandoned
}

// Response is one answered question. DCASType is resolved at answer time so
// later edits to the question bank never change historical scores.
type Response struct {
	QuestionID          string    `json:"question_id" bson:"question_id"`
	SelectedOptionLabel string    `json:"selected_option_label" bson:"selected_option_label"`
	DCASType            DCASType  `json:"dcas_type" bson:"dcas_type"`
	RespondedAt         time.Time `json:"responded_at" bson:"responded_at"`
}

// Score is the ranked profile computed from a session's responses
type Score struct {
	Raw       DCASCounts `json:"raw" bson:"raw"`
	Percent   DCASCounts `json:"percent" bson:"percent"`
	Primary   DCASType   `json:"primary" bson:"primary"`
	Secondary DCASType   `json:"secondary" bson:"secondary"`
}

type SessionMetadata struct {
	IP        string `json:"ip,omitempty" bson:"ip,omitempty"`
	UserAgent string `json:"user_agent,omitempty" bson:"user_agent,omitempty"`
}

// Session is one attempt at a template. It is the source of truth for scores.
type Session struct {
	ID                string          `json:"id" bson:"_id,omitempty"`
	UserID            string          `json:"user_id,omitempty" bson:"user_id,omitempty"`
	TemplateID        string          `json:"template_id" bson:"template_id"`
	Status            SessionStatus   `json:"status" bson:"status"`
	StartedAt         time.Time       `json:"started_at" bson:"started_at"`
	CompletedAt       *time.Time      `json:"completed_at,omitempty" bson:"completed_at,omitempty"`
	Responses         []Response      `json:"responses" bson:"responses"`
	AssignedQuestions []string        `json:"assigned_questions" bson:"assigned_questions"`
	Score             *Score          `json:"score,omitempty" bson:"score,omitempty"`
	Metadata          SessionMetadata `json:"metadata" bson:"metadata"`
}

// UpsertResponse replaces the response for r.QuestionID or appends it
func (s *Session) UpsertResponse(r Response) {
	for i := range s.Responses {
		if s.Responses[i].QuestionID == r.QuestionID {
			s.Responses[i] = r
			return
		}
	}
	s.Responses = append(s.Responses, r)
}

// IsAssigned reports whether questionID belongs to this session's question set
func (s *Session) IsAssigned(questionID string) bool {
	for _, id := range s.AssignedQuestions {
		if id == questionID {
			return true
		}
	}
	return false
}

// AnsweredTypes returns the resolved type of every stored response
func (s *Session) AnsweredTypes() []DCASType {
	types := make([]DCASType, 0, len(s.Responses))
	for _, r := range s.Responses {
		types = append(types, r.DCASType)
	}
	return types
}
