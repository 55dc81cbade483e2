package extract

import (
	"strings"

	"golang.org/x/net/html"
)

// HTML element names the portal heuristics care about.
const (
	tagForm  = "form"
	tagBase  = "base"
	tagInput = "input"
)

// Tag is a start tag seen by the scanner. Name and attribute keys are
// lower-cased by the tokenizer; attribute values are entity-decoded.
type Tag struct {
	Name  string
	Attrs []html.Attribute
}

// Attr returns the value of the named attribute and whether it was present.
func (t Tag) Attr(key string) (string, bool) {
	for _, a := range t.Attrs {
		if strings.EqualFold(a.Key, key) {
			return a.Val, true
		}
	}
	return "", false
}

// TagPredicate selects the tag a lookup is interested in.
type TagPredicate func(Tag) bool

// IsTag returns a predicate accepting any start tag with the given name.
func IsTag(name string) TagPredicate {
	return func(t Tag) bool {
		return strings.EqualFold(t.Name, name)
	}
}

// scanTags feeds every start tag in markup to visit until visit returns
// false or the input is exhausted. Malformed input simply ends the scan.
func scanTags(markup string, visit func(Tag) bool) {
	z := html.NewTokenizer(strings.NewReader(markup))
	for {
		switch z.Next() {
		case html.ErrorToken:
			return
		case html.StartTagToken, html.SelfClosingTagToken:
			tok := z.Token()
			if !visit(Tag{Name: tok.Data, Attrs: tok.Attr}) {
				return
			}
		default:
		}
	}
}

// FirstTagAttr finds the first start tag accepted by match and returns its
// attr attribute. The scan stops at that tag: a later matching tag is never
// consulted, even when the first one lacks the attribute.
func FirstTagAttr(markup string, match TagPredicate, attr string) (string, bool) {
	var (
		value string
		found bool
	)
	scanTags(markup, func(t Tag) bool {
		if !match(t) {
			return true
		}
		value, found = t.Attr(attr)
		return false
	})
	return strings.TrimSpace(value), found
}

// FormAction returns the action attribute of the first <form> in markup.
// An empty result means the form posts back to the page it came from.
func FormAction(markup string) string {
	action, _ := FirstTagAttr(markup, IsTag(tagForm), "action")
	return action
}

// BaseHref returns the href of the first <base> tag carrying one.
func BaseHref(markup string) (string, bool) {
	href, ok := FirstTagAttr(markup, func(t Tag) bool {
		if !strings.EqualFold(t.Name, tagBase) {
			return false
		}
		v, ok := t.Attr("href")
		return ok && strings.TrimSpace(v) != ""
	}, "href")
	if !ok || href == "" {
		return "", false
	}
	return href, true
}

// Field is one name/value pair harvested from an input element.
type Field struct {
	Name  string
	Value string
}

// HiddenInputs returns every <input type="hidden"> with a non-empty name,
// in document order. A missing value attribute yields an empty value.
func HiddenInputs(markup string) []Field {
	fields := make([]Field, 0)
	scanTags(markup, func(t Tag) bool {
		if !strings.EqualFold(t.Name, tagInput) {
			return true
		}
		typ, _ := t.Attr("type")
		if !strings.EqualFold(strings.TrimSpace(typ), "hidden") {
			return true
		}
		name, _ := t.Attr("name")
		name = strings.TrimSpace(name)
		if name == "" {
			return true
		}
		value, _ := t.Attr("value")
		fields = append(fields, Field{Name: name, Value: value})
		return true
	})
	return fields
}

// InputNames returns the set of input names present anywhere in markup.
// Keys are lower-cased; values hold the name as written in the page.
func InputNames(markup string) map[string]string {
	names := make(map[string]string)
	scanTags(markup, func(t Tag) bool {
		if !strings.EqualFold(t.Name, tagInput) {
			return true
		}
		name, _ := t.Attr("name")
		name = strings.TrimSpace(name)
		if name == "" {
			return true
		}
		key := strings.ToLower(name)
		if _, seen := names[key]; !seen {
			names[key] = name
		}
		return true
	})
	return names
}
