package notes

import (
	"strconv"
	"strings"
	"sync/atomic"

	"github.com/google/uuid"
)

// IDGenerator hands out note ids. Implementations must be safe for
// concurrent use and must never repeat an id.
type IDGenerator interface {
	NewID() string
}

// Sequence generates ids of the form nt-<session>-<counter>.
// The session token is random per process, the counter is monotonic,
// so ids stay unique no matter how many are minted per clock tick.
type Sequence struct {
	session string
	n       atomic.Uint64
}

// NewSequence returns a generator with a random session token.
func NewSequence() *Sequence {
	token := strings.ReplaceAll(uuid.NewString(), "-", "")
	return &Sequence{session: token[:8]}
}

// NewSequenceWithSeed returns a generator with a fixed session token.
func NewSequenceWithSeed(seed string) *Sequence {
	return &Sequence{session: seed}
}

// NewID returns the next id.
func (s *Sequence) NewID() string {
	n := s.n.Add(1)
	return "nt-" + s.session + "-" + strconv.FormatUint(n, 36)
}
