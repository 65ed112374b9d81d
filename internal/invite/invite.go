// Package invite issues stateless invitation links. Tokens are not
// persisted anywhere, the link itself is the whole invitation.
package invite

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

const TokenLength = 8

const charset = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

// NewToken creates a short random token to tag an invite link with.
func NewToken() string {
	result := make([]byte, TokenLength)
	for i := range result {
		n, _ := rand.Int(rand.Reader, big.NewInt(int64(len(charset))))
		result[i] = charset[n.Int64()]
	}
	return string(result)
}

// Link builds the join URL a recipient follows into a room.
func Link(scheme, host, roomID, token string) string {
	return fmt.Sprintf("%s://%s/join/%s?i=%s", scheme, host, roomID, token)
}
