// Package topic derives canonical pub/sub topic names from domain
// identities. Derivation is pure and deterministic: two processes given
// the same identities always compute the same topic string.
package topic

import (
	"strconv"
	"unicode/utf16"
)

// ForGroup returns the topic for a group chat channel.
func ForGroup(groupID int) string {
	return strconv.Itoa(groupID)
}

// ForUser returns the per-user private topic.
func ForUser(userID string) string {
	return userID
}

// ForDM returns the topic shared by a DM pair. It is commutative:
// ForDM(a, b) == ForDM(b, a) for all inputs.
//
// The operand with the greater hash goes first. The comparison is a
// strict `>`, so when both hashes are equal the second argument wins the
// first slot. That tie-break is inherited from the original wire format
// and must not be changed: existing deployments derived their topic
// names from it.
func ForDM(userA, userB string) string {
	first, second := DMKey(userA, userB)
	return "dm-" + first + "-" + second
}

// DMKey orders a user pair the way ForDM does. Storage keyed by a DM
// pair uses the same ordering so both sides resolve to one row.
func DMKey(userA, userB string) (string, string) {
	if hash(userA) > hash(userB) {
		return userA, userB
	}
	return userB, userA
}

// hash is a polynomial rolling hash over UTF-16 code units with 32-bit
// signed overflow, matching `h = (h << 5) - h + charCodeAt(i); h |= 0`.
func hash(s string) int32 {
	var h int32
	for _, c := range utf16.Encode([]rune(s)) {
		h = h*31 + int32(c)
	}
	return h
}
