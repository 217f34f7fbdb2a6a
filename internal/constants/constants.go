package constants

import "time"

// Context keys
const (
	ContextKeyIdentity = "identity"
)

// Identity headers supplied by the caller (no authentication in this service).
const (
	HeaderUserID   = "X-User-Id"
	HeaderUserName = "X-User-Name"
	HeaderUserRole = "X-User-Role"
)

// Pagination
const (
	DefaultPageSize = 20
	MinPageSize     = 1
	MaxPageSize     = 100
)

// Notification engine tuning. Both windows are deliberately the same: the
// in-process dedup cache and the store-level secondary check cover the same
// burst of repeated events.
const (
	DedupeWindow      = 10 * time.Second
	DedupeMatchWindow = 10 * time.Second
	UndoWindow        = 7 * 24 * time.Hour

	// SessionDedupeBucket is the coarse timestamp bucket mixed into
	// session event dedup keys.
	SessionDedupeBucket = time.Minute

	// FanoutRetries bounds per-recipient create attempts before the
	// failure is logged and dropped.
	FanoutRetries      = 3
	FanoutRetryBackoff = 200 * time.Millisecond
)

// Event bus buffer size.
const EventQueueSize = 64
