package model

import "time"

type UserRole string

const (
	RoleStudent UserRole = "student"
)

// UserResult is the denormalized copy of the latest completed session.
// Written only by result propagation.
type UserResult struct {
	SessionID   string    `json:"session_id" bson:"session_id"`
	Score       Score     `json:"score" bson:"score"`
	CompletedAt time.Time `json:"completed_at" bson:"completed_at"`
}

type UserMeta struct {
	Batch       string `json:"batch,omitempty" bson:"batch,omitempty"`
	RollNo      string `json:"roll_no,omitempty" bson:"roll_no,omitempty"`
	Class       string `json:"class,omitempty" bson:"class,omitempty"`
	Institution string `json:"institution,omitempty" bson:"institution,omitempty"`
}

// User is an assessment taker
type User struct {
	ID        string      `json:"id" bson:"_id,omitempty"`
	Email     string      `json:"email" bson:"email"`
	Name      string      `json:"name" bson:"name"`
	Phone     string      `json:"phone,omitempty" bson:"phone,omitempty"`
	Role      UserRole    `json:"role" bson:"role"`
	Meta      UserMeta    `json:"meta" bson:"meta"`
	Result    *UserResult `json:"result,omitempty" bson:"result,omitempty"`
	CreatedAt time.Time   `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time   `json:"updated_at" bson:"updated_at"`
}

// Admin is a dashboard operator
type Admin struct {
	ID           string    `json:"id" bson:"_id,omitempty"`
	Username     string    `json:"username" bson:"username"`
	Name         string    `json:"name" bson:"name"`
	PasswordHash string    `json:"-" bson:"passwordHash"`
	CreatedAt    time.Time `json:"createdAt" bson:"createdAt"`
}
