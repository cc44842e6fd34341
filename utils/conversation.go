// utils/conversation.go
package utils

import "go.mongodb.org/mongo-driver/bson/primitive"

// ConversationID derives the stable conversation key for a pair of account
// ids. The pair is sorted lexicographically before joining, so both
// participants compute the same id regardless of who initiates, and distinct
// unordered pairs can never collide because ids are unique hex strings and
// "_" never appears in them.
func ConversationID(a, b primitive.ObjectID) string {
	return ConversationIDFromHex(a.Hex(), b.Hex())
}

// ConversationIDFromHex is ConversationID over already-hex-encoded ids.
func ConversationIDFromHex(a, b string) string {
	if a > b {
		a, b = b, a
	}
	return "conv_" + a + "_" + b
}
