package bilibili

import (
	"context"
	"fmt"
	"net/url"
)

// Unread returns the account's unread private-message counters.
func (c *Client) Unread(ctx context.Context) (UnreadCount, error) {
	params := url.Values{}
	params.Set("unread_type", "0")
	params.Set("show_unfollow_list", "1")
	params.Set("show_dustbin", "1")
	params.Set("build", "0")
	params.Set("mobi_app", "web")

	var data UnreadCount
	if err := c.get(ctx, pathUnread, params, &data); err != nil {
		return UnreadCount{}, fmt.Errorf("bili: unread count: %w", err)
	}
	return data, nil
}
