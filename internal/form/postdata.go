package form

import "strings"

// Pair is one key/value of a form body. Both sides are stored already
// escaped.
type Pair struct {
	Key   string
	Value string
}

// PostData is an ordered list of pairs. Duplicate keys are allowed and are
// sent in insertion order.
type PostData struct {
	pairs []Pair
}

// Add appends key=value. Neither side is escaped.
func (d *PostData) Add(key, value string) {
	d.pairs = append(d.pairs, Pair{Key: key, Value: value})
}

// Pairs returns a copy of the pairs in order.
func (d *PostData) Pairs() []Pair {
	out := make([]Pair, len(d.pairs))
	copy(out, d.pairs)
	return out
}

// Len returns the number of pairs.
func (d *PostData) Len() int {
	return len(d.pairs)
}

// Count returns how many pairs equal key=value.
func (d *PostData) Count(key, value string) int {
	n := 0
	for _, p := range d.pairs {
		if p.Key == key && p.Value == value {
			n++
		}
	}
	return n
}

// Encode joins the pairs as key=value&key=value.
func (d *PostData) Encode() string {
	var b strings.Builder
	for i, p := range d.pairs {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(p.Key)
		b.WriteByte('=')
		b.WriteString(p.Value)
	}
	return b.String()
}

var (
	hiddenEscaper   = strings.NewReplacer("&", "%26", "+", "%2B")
	identityEscaper = strings.NewReplacer(" ", "%20", "&", "%26")
)

// escapeHidden escapes the characters that would split or corrupt a
// replayed hidden value.
func escapeHidden(v string) string {
	return hiddenEscaper.Replace(v)
}

// escapeIdentity escapes operator-supplied values.
func escapeIdentity(v string) string {
	return identityEscaper.Replace(v)
}
