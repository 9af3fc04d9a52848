package deeplink

import "strings"

// sessionKey is the only query parameter the router interprets.
const sessionKey = "session="

// Miss explains why no session identifier could be extracted.
type Miss string

const (
	// MissNone means extraction succeeded.
	MissNone Miss = ""
	// MissNoQuery means the URL has no query string at all.
	MissNoQuery Miss = "missing query string"
	// MissNoParam means the query string has no session parameter.
	MissNoParam Miss = "missing session parameter"
	// MissEmptyValue means the session parameter is present but empty.
	MissEmptyValue Miss = "empty session parameter"
)

// ParseSessionID extracts the session parameter from an activation URL.
// Values are returned raw; no URL-decoding is performed.
func ParseSessionID(url string) (string, Miss) {
	queryStart := strings.IndexByte(url, '?')
	if queryStart < 0 {
		return "", MissNoQuery
	}

	query := url[queryStart+1:]
	for _, pair := range strings.Split(query, "&") {
		value, found := strings.CutPrefix(pair, sessionKey)
		if !found {
			continue
		}
		if value == "" {
			return "", MissEmptyValue
		}
		return value, MissNone
	}
	return "", MissNoParam
}

// ExtractSessionID is the boolean form of ParseSessionID for callers
// that do not care about the miss reason.
func ExtractSessionID(url string) (string, bool) {
	id, miss := ParseSessionID(url)
	return id, miss == MissNone
}

// FromArgs returns the first argument carrying the given URI scheme.
// This is how activations arrive via argv: the OS protocol handler on
// Windows, and the forwarded argument list of a second process
// instance on every platform.
func FromArgs(args []string, scheme string) (string, bool) {
	prefix := scheme + ":"
	for _, arg := range args {
		if strings.HasPrefix(arg, prefix) {
			return arg, true
		}
	}
	return "", false
}
