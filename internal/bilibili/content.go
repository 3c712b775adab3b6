package bilibili

import (
	"encoding/json"
	"fmt"
	"strings"
)

// TextContent extracts the plain text of a text-type message.
// Content is normally a JSON object {"content": "..."}; anything that
// fails to decode is treated as the text itself.
func TextContent(raw string) string {
	var obj struct {
		Content string `json:"content"`
	}
	if err := json.Unmarshal([]byte(raw), &obj); err != nil {
		return raw
	}
	return obj.Content
}

// RenderContent returns a human-readable rendering of any message content
// for the conversation view. Non-text types map to placeholders. This is
// presentation only and never feeds rule matching.
func RenderContent(raw string, msgType int) string {
	switch msgType {
	case MsgTypeText:
		if text := TextContent(raw); text != "" {
			return text
		}
		return raw

	case MsgTypeImage:
		var obj struct {
			URL string `json:"url"`
		}
		if err := json.Unmarshal([]byte(raw), &obj); err != nil {
			return raw
		}
		return "[image] " + obj.URL

	case MsgTypeNotify:
		var obj struct {
			Text  string `json:"text"`
			Title string `json:"title"`
		}
		if err := json.Unmarshal([]byte(raw), &obj); err != nil {
			return raw
		}
		if obj.Text != "" {
			return obj.Text
		}
		if obj.Title != "" {
			return obj.Title
		}
		return "[notification]"

	case MsgTypeVideoPush:
		var obj struct {
			Title string `json:"title"`
		}
		if err := json.Unmarshal([]byte(raw), &obj); err != nil {
			return raw
		}
		return "[video push] " + obj.Title

	case MsgTypeSystem:
		return renderSystem(raw)

	default:
		return fmt.Sprintf("[type %d] %s", msgType, raw)
	}
}

// renderSystem handles system messages whose content field can be either a
// plain string or an array of {"text": ...} fragments.
func renderSystem(raw string) string {
	var obj struct {
		Content json.RawMessage `json:"content"`
	}
	if err := json.Unmarshal([]byte(raw), &obj); err != nil || len(obj.Content) == 0 {
		return "[system] " + raw
	}

	var parts []struct {
		Text string `json:"text"`
	}
	if err := json.Unmarshal(obj.Content, &parts); err == nil {
		texts := make([]string, 0, len(parts))
		for _, p := range parts {
			if p.Text != "" {
				texts = append(texts, p.Text)
			}
		}
		return "[system] " + strings.Join(texts, " ")
	}

	var plain string
	if err := json.Unmarshal(obj.Content, &plain); err == nil {
		return "[system] " + plain
	}
	return "[system] " + raw
}
