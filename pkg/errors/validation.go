package errors

import (
	"strings"
	"unicode"
)

// MaxNodeIDLength bounds node identifiers, both in loaded documents and in
// CLI arguments and URLs.
const MaxNodeIDLength = 256

// MaxDepthLimit bounds the hierarchy depth a caller may request. Trees grow
// exponentially with depth on dense co-purchase graphs.
const MaxDepthLimit = 12

// ValidateNodeID validates a node identifier. Documents are checked with
// the same rule at load, so every loaded node is addressable.
// It rejects blank identifiers, control characters and oversized input.
// Whether the node exists is checked separately against the loaded graph.
func ValidateNodeID(id string) error {
	if strings.TrimSpace(id) == "" {
		return New(ErrCodeInvalidInput, "node id cannot be empty")
	}

	if len(id) > MaxNodeIDLength {
		return New(ErrCodeInvalidInput, "node id too long (max %d characters)", MaxNodeIDLength)
	}

	for _, r := range id {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "node id contains invalid control characters")
		}
	}

	return nil
}

// ValidateDepth validates a requested hierarchy depth.
// A depth of 1 yields the root alone; values outside [1, MaxDepthLimit] are rejected.
func ValidateDepth(depth int) error {
	if depth < 1 {
		return New(ErrCodeInvalidInput, "depth must be at least 1, got %d", depth)
	}
	if depth > MaxDepthLimit {
		return New(ErrCodeInvalidInput, "depth too large (max %d), got %d", MaxDepthLimit, depth)
	}
	return nil
}

// ValidateQuery validates a search query.
// Empty queries are allowed and simply never match; oversized ones are rejected.
func ValidateQuery(q string) error {
	if len(q) > MaxNodeIDLength {
		return New(ErrCodeInvalidInput, "query too long (max %d characters)", MaxNodeIDLength)
	}
	return nil
}
