package bilibili

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
)

// DefaultSessionSize is the session page size used by the scan loop.
const DefaultSessionSize = 20

// ListSessions fetches the most recently active conversations.
// kind is usually KindAll; size caps the page (the API sorts by recency).
func (c *Client) ListSessions(ctx context.Context, kind SessionKind, size int) ([]Session, error) {
	if size <= 0 {
		size = DefaultSessionSize
	}

	params := url.Values{}
	params.Set("session_type", strconv.Itoa(int(kind)))
	params.Set("group_fold", "0")
	params.Set("unfollow_fold", "0")
	params.Set("sort_rule", "2")
	params.Set("size", strconv.Itoa(size))
	params.Set("build", "0")
	params.Set("mobi_app", "web")

	var data struct {
		SessionList []Session `json:"session_list"`
	}
	if err := c.get(ctx, pathGetSessions, params, &data); err != nil {
		return nil, fmt.Errorf("bili: list sessions: %w", err)
	}
	return data.SessionList, nil
}
