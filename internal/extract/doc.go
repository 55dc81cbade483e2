// Package extract pulls single values out of raw HTTP header blocks and
// portal HTML.
//
// Nothing in this package builds a document tree. Header lookups walk the
// header block line by line, and markup lookups run the tolerant
// golang.org/x/net/html tokenizer until the first matching tag. Captive
// portal markup is frequently broken, so every function degrades to an
// "absent" answer instead of returning an error.
package extract
