// Package facultykey maps faculty email addresses onto storage-safe keys.
//
// The encoding lowercases the address and replaces every '.' and '@' with
// '_'. It is deterministic and total but not injective: "a.b@x.com" and
// "a_b@x.com" encode identically. Records therefore always carry the
// original email alongside the key, and the store resolves collisions as
// last write wins on the key.
package facultykey

import "strings"

var encoder = strings.NewReplacer(".", "_", "@", "_")

// Encode returns the storage key for an email address. Encoding a malformed
// or empty address still yields a (degenerate) key; callers validate email
// format beforehand.
func Encode(email string) string {
	return encoder.Replace(strings.ToLower(email))
}

// Decode reconstructs a display address from a key on a best-effort basis.
// The last '_' separated segment pair is assumed to be the domain TLD, the
// segment before it the domain, and the remaining '_' runs are restored as
// '.'. Because the forward mapping is lossy this cannot be a true inverse;
// callers must prefer the stored faculty_email field and use Decode only
// when it is missing.
func Decode(key string) string {
	parts := strings.Split(key, "_")
	if len(parts) < 3 {
		return key
	}

	local := strings.Join(parts[:len(parts)-2], ".")
	domain := parts[len(parts)-2] + "." + parts[len(parts)-1]
	return local + "@" + domain
}
