package cache

import (
	"fmt"
	"regexp"
	"strings"
)

// Key builds a cache key from a domain prefix and the arguments that identify
// the query, e.g. Key("family_posts", 42, 1, 20) -> "family_posts_42_1_20".
//
// Every key embeds its scope (the family ID) right after the prefix so that
// write paths can invalidate all cached queries for that scope with one
// ScopePattern call. The store itself treats keys as opaque strings; this
// convention is what makes pattern invalidation correct.
func Key(prefix string, parts ...interface{}) string {
	b := strings.Builder{}
	b.WriteString(prefix)
	for _, part := range parts {
		b.WriteByte('_')
		fmt.Fprintf(&b, "%v", part)
	}
	return b.String()
}

// ScopePattern compiles the pattern matching every key built by Key with the
// given prefix and scope, regardless of trailing query arguments.
func ScopePattern(prefix string, scope interface{}) *regexp.Regexp {
	return regexp.MustCompile("^" + regexp.QuoteMeta(fmt.Sprintf("%s_%v", prefix, scope)) + "(_|$)")
}
