package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// WorldInfoKey builds the cache key for a world-info activation result:
// the scope plus a hash of the message content.
func WorldInfoKey(scopeID, messageContent string) string {
	hash := sha256.Sum256([]byte(messageContent))
	return "worldinfo:" + scopeID + ":" + hex.EncodeToString(hash[:16])
}

// TokenCountKey builds the cache key for a token-count result. The text is
// fingerprinted by its first bytes plus its length rather than a full hash.
// A collision between long near-duplicate texts only risks an off-by-a-little
// token estimate, which is an acceptable trade for skipping a full scan of
// the text on every lookup.
func TokenCountKey(model, text string) string {
	const prefixLen = 32
	prefix := text
	if len(prefix) > prefixLen {
		prefix = prefix[:prefixLen]
	}
	return fmt.Sprintf("tokens:%s:%s:%d", model, prefix, len(text))
}
