package utils

import (
	"crypto/rand"
	"math/big"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

const inviteCodeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// GenerateInviteCode returns a 6-character room invite code drawn from
// an alphabet without ambiguous characters (0/O, 1/I).
func GenerateInviteCode() string {
	code := make([]byte, 6)
	max := big.NewInt(int64(len(inviteCodeAlphabet)))
	for i := range code {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			// crypto/rand failing is unrecoverable for code generation
			panic(err)
		}
		code[i] = inviteCodeAlphabet[n.Int64()]
	}
	return string(code)
}

var (
	entropyMu sync.Mutex
	entropy   = ulid.Monotonic(rand.Reader, 0)
)

// NewMessageID returns a ULID for a chat message. ULIDs sort by creation
// time, which gives messages a monotonically-distinguishing id without a
// central counter.
func NewMessageID() string {
	entropyMu.Lock()
	defer entropyMu.Unlock()
	return ulid.MustNew(ulid.Timestamp(time.Now()), entropy).String()
}
