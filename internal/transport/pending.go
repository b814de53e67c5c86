package transport

import (
	"strings"
	"time"
)

// listResult carries the terminal outcome of a list operation from the read
// pump to the caller waiting in SendList.
type listResult struct {
	uris []string
	err  error
}

// pendingList correlates an outstanding list operation to its waiting
// caller. The operation name is the correlation key.
type pendingList struct {
	operation  string
	result     chan listResult // buffered; the read pump never blocks on it
	registered time.Time
}

// resolve delivers the terminal result. Safe to call at most once per entry;
// entries are removed from the pending table before resolving.
func (p *pendingList) resolve(uris []string, err error) {
	p.result <- listResult{uris: uris, err: err}
}

// pendingChat is the single active chat slot. Chunks accumulate here so the
// final text can be reconstructed when the endpoint omits it from the
// complete event.
type pendingChat struct {
	handler    ChatHandler
	buf        strings.Builder
	registered time.Time
}
