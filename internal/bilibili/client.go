package bilibili

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

const (
	DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"
	defaultReferer   = "https://message.bilibili.com/"

	apiBase = "https://api.vc.bilibili.com"

	pathGetSessions = "/session_svr/v1/session_svr/get_sessions"
	pathFetchMsgs   = "/svr_sync/v1/svr_sync/fetch_session_msgs"
	pathSendMsg     = "/web_im/v1/web_im/send_msg"
	pathUnread      = "/session_svr/v1/session_svr/single_unread"
)

// requestInterval paces outbound API calls so a full session scan
// does not burst the remote service.
const requestInterval = 300 * time.Millisecond

// Credentials hold the cookie-based identity for one account.
// DedeUserID on the wire equals UID.
type Credentials struct {
	UID      string `json:"uid"`
	SESSDATA string `json:"sessdata"`
	BiliJct  string `json:"bili_jct"` // anti-forgery token, doubles as the csrf form field
}

// Client is an authenticated handle to the private-message API for one
// account. Safe for use from a single worker; the engine borrows it.
type Client struct {
	uid     string
	csrf    string
	http    *http.Client
	limiter *rate.Limiter
	base    string
}

// NewClient creates a client from account credentials.
func NewClient(creds Credentials) (*Client, error) {
	if creds.UID == "" {
		return nil, fmt.Errorf("bili: missing account uid")
	}
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("bili: cookie jar: %w", err)
	}

	c := &Client{
		uid:  creds.UID,
		csrf: creds.BiliJct,
		http: &http.Client{
			Jar:     jar,
			Timeout: 30 * time.Second,
		},
		limiter: rate.NewLimiter(rate.Every(requestInterval), 2),
		base:    apiBase,
	}
	c.setCookies(creds)
	return c, nil
}

// UID returns the account's own user ID.
func (c *Client) UID() string { return c.uid }

// SetBaseURL overrides the API base. Used by tests against httptest servers.
func (c *Client) SetBaseURL(base string) { c.base = strings.TrimRight(base, "/") }

func (c *Client) setCookies(creds Credentials) {
	u, _ := url.Parse("https://api.vc.bilibili.com/")
	cookies := []*http.Cookie{
		{Name: "DedeUserID", Value: creds.UID},
		{Name: "SESSDATA", Value: creds.SESSDATA},
		{Name: "bili_jct", Value: creds.BiliJct},
	}
	c.http.Jar.SetCookies(u, cookies)
}

// get performs a paced GET and decodes the response envelope into out.
func (c *Client) get(ctx context.Context, path string, params url.Values, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.base+path+"?"+params.Encode(), nil)
	if err != nil {
		return err
	}
	c.setHeaders(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("bili: get %s: %w", path, err)
	}
	defer resp.Body.Close()

	return decodeEnvelope(resp.Body, path, out)
}

// postForm performs a paced form POST and decodes the response envelope into out.
func (c *Client) postForm(ctx context.Context, path string, form url.Values, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base+path, strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	c.setHeaders(req)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("bili: post %s: %w", path, err)
	}
	defer resp.Body.Close()

	return decodeEnvelope(resp.Body, path, out)
}

func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("User-Agent", DefaultUserAgent)
	req.Header.Set("Referer", defaultReferer)
}

func decodeEnvelope(r io.Reader, path string, out any) error {
	body, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("bili: read %s response: %w", path, err)
	}

	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return fmt.Errorf("bili: parse %s response: %w", path, err)
	}
	if env.Code != 0 {
		return &APIError{Code: env.Code, Message: env.Message}
	}
	if out != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return fmt.Errorf("bili: parse %s data: %w", path, err)
		}
	}
	return nil
}
