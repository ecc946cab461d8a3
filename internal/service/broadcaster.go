package service

// Broadcaster pushes events to connected admin dashboards (avoids import cycle with ws)
type Broadcaster interface {
	BroadcastToAdmins(msgType string, payload interface{})
}

const MsgSessionCompleted = "session_completed"

type nopBroadcaster struct{}

func (nopBroadcaster) BroadcastToAdmins(string, interface{}) {}
