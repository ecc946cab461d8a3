package model

import "time"

// LiveAssessment summarizes the live template on the dashboard
type LiveAssessment struct {
	Name          string `json:"name"`
	QuestionCount int    `json:"questionCount"`
}

// RecentSession is one row of the dashboard's recent completions
type RecentSession struct {
	ID          string     `json:"id"`
	StudentName string     `json:"studentName"`
	Email       string     `json:"email"`
	PrimaryType string     `json:"primaryType"`
	CompletedAt *time.Time `json:"completedAt"`
}

// DashboardStats is the admin dashboard payload
type DashboardStats struct {
	TotalUsers         int64           `json:"totalUsers"`
	ActiveSessions     int64           `json:"activeSessions"`
	CompletedToday     int64           `json:"completedToday"`
	CompletedThisWeek  int64           `json:"completedThisWeek"`
	CompletedThisMonth int64           `json:"completedThisMonth"`
	TotalQuestions     int64           `json:"totalQuestions"`
	TotalTemplates     int64           `json:"totalTemplates"`
	LiveAssessment     *LiveAssessment `json:"liveAssessment"`
	DCASDistribution   DCASCounts      `json:"dcasDistribution"`
	DCASPercentages    DCASCounts      `json:"dcasPercentages"`
	RecentSessions     []RecentSession `json:"recentSessions"`
	LastUpdated        time.Time       `json:"lastUpdated"`
}

type ReportUser struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

type ReportScore struct {
	Primary   DCASType `json:"primary"`
	Secondary DCASType `json:"secondary"`
	D         int      `json:"D"`
	C         int      `json:"C"`
	A         int      `json:"A"`
	S         int      `json:"S"`
}

// ReportRow is one completed session in the reports list and CSV export
type ReportRow struct {
	ID          string       `json:"_id"`
	User        *ReportUser  `json:"user,omitempty"`
	GuestName   string       `json:"guestName"`
	Score       *ReportScore `json:"score,omitempty"`
	Raw         *DCASCounts  `json:"-"`
	CompletedAt *time.Time   `json:"completedAt"`
}

type UserStatus string

const (
	UserNotAttempted UserStatus = "Not Attempted"
	UserCompleted    UserStatus = "Completed"
)

type PrimarySecondary struct {
	Primary   DCASType `json:"primary"`
	Secondary DCASType `json:"secondary"`
}

// UserSummary is one row of the admin users list
type UserSummary struct {
	*User
	LatestReportID string            `json:"latestReportId,omitempty"`
	Score          *PrimarySecondary `json:"score"`
	CompletedAt    *time.Time        `json:"completedAt"`
	Status         UserStatus        `json:"status"`
}

// SessionCompletedEvent is pushed to admin feed subscribers
type SessionCompletedEvent struct {
	SessionID   string    `json:"sessionId"`
	UserID      string    `json:"userId,omitempty"`
	Primary     DCASType  `json:"primary"`
	Secondary   DCASType  `json:"secondary"`
	CompletedAt time.Time `json:"completedAt"`
}
