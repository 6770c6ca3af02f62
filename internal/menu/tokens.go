package menu

import (
	"strconv"
	"strings"
)

// Callback token namespaces.
const (
	NSFrom    = "from"
	NSTo      = "to"
	NSLang    = "lang"
	NSConvert = "convert"
	NSFormat  = "format"
	NSPage    = "page"
	NSUILang  = "ui"
)

const (
	sep      = "_"
	scopeSep = "."
)

func Token(namespace string, parts ...string) string {
	return namespace + sep + strings.Join(parts, sep)
}

// Decode splits a token into its namespace and payload.
func Decode(token string) (namespace, payload string, ok bool) {
	namespace, payload, ok = strings.Cut(strings.TrimSpace(token), sep)
	if !ok || namespace == "" {
		return "", "", false
	}
	return namespace, payload, true
}

func PageToken(owner string, page int) string {
	return Token(NSPage, owner, strconv.Itoa(page))
}

// ParsePage decodes the payload of a page token into the owning namespace and page number.
func ParsePage(payload string) (owner string, page int, ok bool) {
	i := strings.LastIndex(payload, sep)
	if i <= 0 {
		return "", 0, false
	}
	page, err := strconv.Atoi(payload[i+1:])
	if err != nil || page < 1 {
		return "", 0, false
	}
	return payload[:i], page, true
}

// SplitMenuPayload decodes "<menuID>_<value>" payloads of per-turn menus.
func SplitMenuPayload(payload string) (menuID, value string, ok bool) {
	menuID, value, ok = strings.Cut(payload, sep)
	if !ok || menuID == "" || value == "" {
		return "", "", false
	}
	return menuID, value, true
}

// ScopedOwner ties the page controls of a per-turn menu to its menu id.
func ScopedOwner(namespace, menuID string) string {
	return namespace + scopeSep + menuID
}

// SplitOwner is the inverse of ScopedOwner. Plain owners have an empty menuID.
func SplitOwner(owner string) (namespace, menuID string) {
	namespace, menuID, _ = strings.Cut(owner, scopeSep)
	return namespace, menuID
}
