package bilibili

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// SendMessage delivers a text reply to a user or fan group.
// The payload is the legacy form-encoded msg[...] shape; the text itself
// travels as a JSON object in msg[content]. Requires the bili_jct token.
func (c *Client) SendMessage(ctx context.Context, receiverID int64, kind SessionKind, text string) error {
	if text == "" {
		return fmt.Errorf("bili: message text cannot be empty")
	}
	if c.csrf == "" {
		return fmt.Errorf("bili: missing csrf token")
	}

	content, err := json.Marshal(map[string]string{"content": text})
	if err != nil {
		return err
	}

	// Web-style device identifier, regenerated per send.
	devID := strings.ToUpper(uuid.NewString())

	form := url.Values{}
	form.Set("msg[sender_uid]", c.uid)
	form.Set("msg[receiver_id]", strconv.FormatInt(receiverID, 10))
	form.Set("msg[receiver_type]", strconv.Itoa(int(kind)))
	form.Set("msg[msg_type]", strconv.Itoa(MsgTypeText))
	form.Set("msg[msg_status]", "0")
	form.Set("msg[content]", string(content))
	form.Set("msg[timestamp]", strconv.FormatInt(time.Now().Unix(), 10))
	form.Set("msg[new_face_version]", "0")
	form.Set("msg[dev_id]", devID)
	form.Set("csrf", c.csrf)
	form.Set("csrf_token", c.csrf)

	if err := c.postForm(ctx, pathSendMsg, form, nil); err != nil {
		return fmt.Errorf("bili: send message to %d: %w", receiverID, err)
	}
	return nil
}
