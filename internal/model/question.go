package model

import "time"

// QuestionOption is one selectable answer. Each option maps to exactly one type.
type QuestionOption struct {
	Label    string   `json:"label" bson:"label"` // "A", "B", "C", "D"
	Text     string   `json:"text" bson:"text"`
	DCASType DCASType `json:"dcas_type" bson:"dcas_type"`
}

// Question is a bank entry referenced by templates and sessions
type Question struct {
	ID        string           `json:"id" bson:"_id,omitempty"`
	Text      string           `json:"text" bson:"text"`
	Options   []QuestionOption `json:"options" bson:"options"`
	Active    bool             `json:"active" bson:"active"`
	Tags      []string         `json:"tags,omitempty" bson:"tags,omitempty"`
	Version   int              `json:"version" bson:"version"`
	CreatedAt time.Time        `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time        `json:"updatedAt" bson:"updatedAt"`
}

// Option returns the option with the given label
func (q *Question) Option(label string) (QuestionOption, bool) {
	for _, o := range q.Options {
		if o.Label == label {
			return o, true
		}
	}
	return QuestionOption{}, false
}
