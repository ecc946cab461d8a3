package model

import "time"

// TemplateSettings configures how a template is presented
type TemplateSettings struct {
	TimeLimit      int    `json:"time_limit" bson:"time_limit"` // minutes, 0 = none
	Randomized     bool   `json:"randomized" bson:"randomized"`
	ShuffleOptions bool   `json:"shuffle_options" bson:"shuffle_options"`
	ForcedResponse bool   `json:"forced_response" bson:"forced_response"`
	Language       string `json:"language" bson:"language"`
}

// AssessmentTemplate is an ordered list of questions an admin publishes
type AssessmentTemplate struct {
	ID        string           `json:"id" bson:"_id,omitempty"`
	Name      string           `json:"name" bson:"name"`
	Questions []string         `json:"questions" bson:"questions"`
	Settings  TemplateSettings `json:"settings" bson:"settings"`
	Active    bool             `json:"active" bson:"active"`
	IsLive    bool             `json:"isLive" bson:"isLive"`
	CreatedAt time.Time        `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time        `json:"updatedAt" bson:"updatedAt"`
}
