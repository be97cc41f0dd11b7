package session

import "strings"

const (
	AuthCustom   = "custom"
	AuthUserPool = "userpool"

	// OutputFile is the object name written under the (normalized) prefix.
	OutputFile = "session_url.txt"

	// InvalidSessionMessage is written instead of a URL when the session does not check out.
	InvalidSessionMessage = "You are running an invalid session, please close your session and log back in."
)

// Context is derived from a Request and never stored.
type Context struct {
	AuthTypeForQuery string
	OutputPrefix     string
}

// Normalize maps the client auth tag to the registry's authentication type.
// Home folders for user-pool users arrive under a "custom" prefix and are rewritten.
func Normalize(r Request) Context {
	switch r.AuthType {
	case AuthCustom:
		return Context{AuthTypeForQuery: "API", OutputPrefix: r.PrefixName}
	case AuthUserPool:
		return Context{
			AuthTypeForQuery: "USERPOOL",
			OutputPrefix:     strings.ReplaceAll(r.PrefixName, AuthCustom, AuthUserPool),
		}
	default:
		return Context{AuthTypeForQuery: strings.ToUpper(r.AuthType), OutputPrefix: r.PrefixName}
	}
}

// OutputKey is where the answer for prefix is written.
func OutputKey(prefix string) string {
	return prefix + "/" + OutputFile
}
