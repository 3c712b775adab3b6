package engine

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"

	"github.com/nextlevelbuilder/bilireply/internal/bilibili"
)

// MessageIdentity derives the stable identity of one inbound message.
// The same message observed across scan cycles always yields the same
// identity; the content hash disambiguates records whose metadata collides.
func MessageIdentity(talkerID int64, msg bilibili.Message) string {
	sum := md5.Sum([]byte(msg.Content))
	return fmt.Sprintf("%d_%d_%d_%d_%d_%s",
		talkerID, msg.SenderUID, msg.Timestamp, msg.MsgKey, msg.MsgSeqno,
		hex.EncodeToString(sum[:])[:8])
}
