package bilibili

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c, err := NewClient(Credentials{UID: "12345", SESSDATA: "sess", BiliJct: "jct-token"})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	c.SetBaseURL(srv.URL)
	return c, srv
}

func TestNewClientRequiresUID(t *testing.T) {
	if _, err := NewClient(Credentials{}); err == nil {
		t.Fatal("expected error for missing uid")
	}
}

func TestListSessions(t *testing.T) {
	var gotQuery url.Values
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != pathGetSessions {
			t.Errorf("path = %s, want %s", r.URL.Path, pathGetSessions)
		}
		gotQuery = r.URL.Query()
		w.Write([]byte(`{"code":0,"message":"0","data":{"session_list":[
			{"talker_id":111,"session_type":1,"uname":"alice","unread_count":2,"last_msg":{"timestamp":1700000000}},
			{"talker_id":222,"session_type":2,"group_name":"fans"}
		]}}`))
	})

	sessions, err := c.ListSessions(context.Background(), KindAll, 0)
	if err != nil {
		t.Fatalf("ListSessions: %v", err)
	}
	if len(sessions) != 2 {
		t.Fatalf("got %d sessions, want 2", len(sessions))
	}
	if sessions[0].TalkerID != 111 || sessions[0].Uname != "alice" || sessions[0].UnreadCount != 2 {
		t.Errorf("unexpected first session: %+v", sessions[0])
	}
	if sessions[0].LastMsg.Timestamp != 1700000000 {
		t.Errorf("last_msg timestamp = %d", sessions[0].LastMsg.Timestamp)
	}
	if sessions[1].SessionType != KindGroup {
		t.Errorf("second session type = %d, want group", sessions[1].SessionType)
	}

	if got := gotQuery.Get("session_type"); got != "4" {
		t.Errorf("session_type = %q, want 4", got)
	}
	if got := gotQuery.Get("size"); got != "20" {
		t.Errorf("size = %q, want default 20", got)
	}
	if got := gotQuery.Get("sort_rule"); got != "2" {
		t.Errorf("sort_rule = %q, want 2", got)
	}
}

func TestFetchMessages(t *testing.T) {
	var gotQuery url.Values
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != pathFetchMsgs {
			t.Errorf("path = %s, want %s", r.URL.Path, pathFetchMsgs)
		}
		gotQuery = r.URL.Query()
		w.Write([]byte(`{"code":0,"message":"0","data":{"messages":[
			{"sender_uid":999,"receiver_id":12345,"msg_type":1,"timestamp":1700000100,
			 "content":"{\"content\":\"hello\"}","msg_key":42,"msg_seqno":7}
		]}}`))
	})

	msgs, err := c.FetchMessages(context.Background(), 999, KindDirect, 0, 0)
	if err != nil {
		t.Fatalf("FetchMessages: %v", err)
	}
	if len(msgs) != 1 {
		t.Fatalf("got %d messages, want 1", len(msgs))
	}
	m := msgs[0]
	if m.SenderUID != 999 || m.MsgKey != 42 || m.MsgSeqno != 7 {
		t.Errorf("unexpected message: %+v", m)
	}
	if TextContent(m.Content) != "hello" {
		t.Errorf("content = %q", m.Content)
	}

	if got := gotQuery.Get("talker_id"); got != "999" {
		t.Errorf("talker_id = %q", got)
	}
	if got := gotQuery.Get("size"); got != "10" {
		t.Errorf("size = %q, want default 10", got)
	}
	if gotQuery.Has("begin_seqno") {
		t.Error("begin_seqno should be omitted when zero")
	}
}

func TestSendMessage(t *testing.T) {
	var gotForm url.Values
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s, want POST", r.Method)
		}
		if r.URL.Path != pathSendMsg {
			t.Errorf("path = %s, want %s", r.URL.Path, pathSendMsg)
		}
		if err := r.ParseForm(); err != nil {
			t.Fatalf("ParseForm: %v", err)
		}
		gotForm = r.PostForm
		w.Write([]byte(`{"code":0,"message":"0","data":{"msg_key":123}}`))
	})

	if err := c.SendMessage(context.Background(), 999, KindDirect, "thanks for the message"); err != nil {
		t.Fatalf("SendMessage: %v", err)
	}

	if got := gotForm.Get("msg[sender_uid]"); got != "12345" {
		t.Errorf("sender_uid = %q", got)
	}
	if got := gotForm.Get("msg[receiver_id]"); got != "999" {
		t.Errorf("receiver_id = %q", got)
	}
	if got := gotForm.Get("msg[content]"); got != `{"content":"thanks for the message"}` {
		t.Errorf("content = %q", got)
	}
	if got := gotForm.Get("csrf"); got != "jct-token" {
		t.Errorf("csrf = %q", got)
	}
	if got := gotForm.Get("csrf_token"); got != "jct-token" {
		t.Errorf("csrf_token = %q", got)
	}
	if devID := gotForm.Get("msg[dev_id]"); len(devID) != 36 {
		t.Errorf("dev_id = %q, want uuid shape", devID)
	}
}

func TestSendMessageValidation(t *testing.T) {
	c, err := NewClient(Credentials{UID: "12345"})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}

	if err := c.SendMessage(context.Background(), 1, KindDirect, ""); err == nil {
		t.Error("expected error for empty text")
	}
	if err := c.SendMessage(context.Background(), 1, KindDirect, "hi"); err == nil {
		t.Error("expected error for missing csrf token")
	}
}

func TestUnread(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != pathUnread {
			t.Errorf("path = %s, want %s", r.URL.Path, pathUnread)
		}
		w.Write([]byte(`{"code":0,"message":"0","data":{"unfollow_unread":3,"follow_unread":5}}`))
	})

	unread, err := c.Unread(context.Background())
	if err != nil {
		t.Fatalf("Unread: %v", err)
	}
	if unread.UnfollowUnread != 3 || unread.FollowUnread != 5 {
		t.Errorf("unread = %+v", unread)
	}
}

func TestAPIErrorCode(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"code":-101,"message":"not logged in"}`))
	})

	_, err := c.ListSessions(context.Background(), KindAll, 20)
	if err == nil {
		t.Fatal("expected error for non-zero code")
	}
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("error type = %T, want *APIError", err)
	}
	if apiErr.Code != -101 {
		t.Errorf("code = %d, want -101", apiErr.Code)
	}
}

func TestRequestHeaders(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if ua := r.Header.Get("User-Agent"); ua != DefaultUserAgent {
			t.Errorf("user agent = %q", ua)
		}
		if ref := r.Header.Get("Referer"); ref != defaultReferer {
			t.Errorf("referer = %q", ref)
		}
		w.Write([]byte(`{"code":0,"message":"0","data":{}}`))
	})

	if _, err := c.Unread(context.Background()); err != nil {
		t.Fatalf("Unread: %v", err)
	}
}
