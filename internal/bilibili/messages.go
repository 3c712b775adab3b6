package bilibili

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
)

// Fetch sizes for the two call sites: the scan loop peeks at recent
// messages, the conversation view renders a longer window.
const (
	ScanFetchSize = 10
	ViewFetchSize = 50
)

// FetchMessages returns the most recent messages of one conversation.
// beginSeqno, when non-zero, resumes from a known sequence number.
func (c *Client) FetchMessages(ctx context.Context, talkerID int64, kind SessionKind, size int, beginSeqno int64) ([]Message, error) {
	if size <= 0 {
		size = ScanFetchSize
	}

	params := url.Values{}
	params.Set("talker_id", strconv.FormatInt(talkerID, 10))
	params.Set("session_type", strconv.Itoa(int(kind)))
	params.Set("size", strconv.Itoa(size))
	params.Set("sender_device_id", "1")
	params.Set("build", "0")
	params.Set("mobi_app", "web")
	if beginSeqno > 0 {
		params.Set("begin_seqno", strconv.FormatInt(beginSeqno, 10))
	}

	var data struct {
		Messages []Message `json:"messages"`
	}
	if err := c.get(ctx, pathFetchMsgs, params, &data); err != nil {
		return nil, fmt.Errorf("bili: fetch messages for %d: %w", talkerID, err)
	}
	return data.Messages, nil
}
