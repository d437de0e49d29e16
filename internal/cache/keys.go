package cache

import (
	"fmt"

	"github.com/google/uuid"
)

// RateLimitKey scopes a fixed-window counter to a limiter and a client.
func RateLimitKey(scope, subject string) string {
	return fmt.Sprintf("ratelimit:%s:%s", scope, subject)
}

func SessionKey(sessionID uuid.UUID) string {
	return fmt.Sprintf("session:%s", sessionID)
}
