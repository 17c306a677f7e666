// Package identifier produces deterministic, content-addressed identifiers.
//
// Identifiers come in three shapes:
//   - CURIEs taken directly from upstream data (e.g. "OMIM:104000")
//   - hash-derived CURIEs of the form "<prefix>:b<19 hex chars>"
//   - anonymous ids using the "_:" sigil, which are also hash-derived so that
//     re-ingesting the same record yields the same node
//
// Every function here is pure: the same input always yields the same output.
package identifier

import (
	"crypto/sha1"
	"encoding/hex"
	"strings"
)

// DefaultPrefix is the CURIE prefix used when none is given to MakeID.
const DefaultPrefix = "MONARCH"

// BlankSigil marks an anonymous identifier.
const BlankSigil = "_:"

// hashLen is the number of hex characters kept after the leading letter.
const hashLen = 19

// HashID returns a 20 character token derived from the SHA-1 digest of s.
// The token starts with 'b' so it never begins with a digit, followed by
// hex characters 1 through 19 of the digest.
//
// By the birthday bound a 76 bit token reaches a 50% collision chance only
// after tens of billions of distinct inputs.
func HashID(s string) string {
	sum := sha1.Sum([]byte(s))
	digest := hex.EncodeToString(sum[:])
	return "b" + digest[1:1+hashLen]
}

// MakeID joins a prefix and HashID(s) into a CURIE.
// The first non-empty prefix wins; DefaultPrefix is used otherwise.
func MakeID(s string, prefix ...string) string {
	p := DefaultPrefix
	for _, candidate := range prefix {
		if candidate != "" {
			p = candidate
			break
		}
	}
	return p + ":" + HashID(s)
}

// Anonymous returns a content-addressed blank node id.
// The kind is kept readable in the label so graphs stay debuggable:
//
//	Anonymous("feature", "158900") -> "_:featureb2c6..."
func Anonymous(kind string, parts ...string) string {
	return BlankSigil + kind + HashID(strings.Join(parts, "+"))
}

// IsBlank reports whether id uses the blank node sigil.
func IsBlank(id string) bool {
	return strings.HasPrefix(id, BlankSigil)
}

// Skolemize rewrites a blank node id into a CURIE under prefix.
// Ids that are not blank nodes are returned unchanged.
func Skolemize(id, prefix string) string {
	if !IsBlank(id) {
		return id
	}
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return prefix + ":" + strings.TrimPrefix(id, BlankSigil)
}

// SplitCURIE splits a CURIE at its first colon.
// Blank node ids and absolute IRIs are not CURIEs and report ok=false.
func SplitCURIE(id string) (prefix, local string, ok bool) {
	if IsBlank(id) || strings.Contains(id, "://") {
		return "", "", false
	}
	i := strings.IndexByte(id, ':')
	if i < 0 {
		return "", "", false
	}
	return id[:i], id[i+1:], true
}
