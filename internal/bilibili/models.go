package bilibili

import (
	"encoding/json"
	"fmt"
)

// SessionKind discriminates conversation types on the wire.
// The listing API additionally accepts KindAll to return every kind at once.
type SessionKind int

const (
	KindDirect SessionKind = 1 // one-to-one user conversation (also system accounts)
	KindGroup  SessionKind = 2 // fan group conversation
	KindAll    SessionKind = 4 // listing only: all kinds
)

// Message type tags as used by the private-message API.
const (
	MsgTypeText      = 1
	MsgTypeImage     = 2
	MsgTypeRecall    = 5
	MsgTypeNotify    = 10
	MsgTypeVideoPush = 11
	MsgTypeSystem    = 18
)

// Session is one entry from the session list. Snapshots are replaced
// wholesale on every fetch; nothing merges incrementally.
type Session struct {
	TalkerID    int64       `json:"talker_id"`
	SessionType SessionKind `json:"session_type"`
	GroupName   string      `json:"group_name"`
	Uname       string      `json:"uname"`
	UnreadCount int         `json:"unread_count"`
	LastMsg     LastMessage `json:"last_msg"`
}

// LastMessage carries the newest message metadata inside a session entry.
type LastMessage struct {
	Timestamp int64 `json:"timestamp"`
}

// PeerLabel returns a human-readable name for the conversation peer.
func (s Session) PeerLabel() string {
	if s.SessionType == KindGroup {
		name := s.GroupName
		if name == "" {
			name = "unknown"
		}
		return "[group] " + name
	}
	if s.Uname != "" {
		return s.Uname
	}
	return fmt.Sprintf("user %d", s.TalkerID)
}

// Message is one raw inbound record from fetch_session_msgs.
// Content is an opaque string (usually JSON) whose shape depends on MsgType.
type Message struct {
	SenderUID  int64  `json:"sender_uid"`
	ReceiverID int64  `json:"receiver_id"`
	MsgType    int    `json:"msg_type"`
	Timestamp  int64  `json:"timestamp"`
	Content    string `json:"content"`
	MsgKey     int64  `json:"msg_key"`
	MsgSeqno   int64  `json:"msg_seqno"`
}

// UnreadCount is the per-account unread summary.
type UnreadCount struct {
	UnfollowUnread int `json:"unfollow_unread"`
	FollowUnread   int `json:"follow_unread"`
}

// envelope is the standard API response wrapper.
type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// APIError is a non-zero response code from the remote service.
type APIError struct {
	Code    int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("bili: api error %d: %s", e.Code, e.Message)
}
