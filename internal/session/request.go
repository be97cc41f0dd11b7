// Package session validates an AppStream session descriptor dropped into a user's home folder
// and answers with either a presigned notebook URL or an invalid-session message.
package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrMalformedInput: the triggering object is missing, unreadable, not JSON, or incomplete.
	ErrMalformedInput = errors.New("malformed session descriptor")
	// ErrSessionLookup: the session registry call failed.
	ErrSessionLookup = errors.New("session lookup failed")
	// ErrNoSession: the registry returned no session for the user. Process turns this into
	// the invalid-session artifact; it only escapes from Lookup.
	ErrNoSession = errors.New("no session found")
)

// Request is the JSON descriptor written by the streaming instance.
type Request struct {
	BucketName string `json:"bucketName"`
	PrefixName string `json:"prefixName"`
	AuthType   string `json:"authType"` // custom | userpool | saml | ...
	StackName  string `json:"stackName"`
	FleetName  string `json:"fleetName"`
	User       string `json:"user"`
	SessionID  string `json:"sessionId"`
}

// ParseRequest decodes and checks a descriptor. Every field is required.
func ParseRequest(b []byte) (Request, error) {
	var r Request
	if err := json.Unmarshal(b, &r); err != nil {
		return Request{}, fmt.Errorf("%w: %v", ErrMalformedInput, err)
	}
	var missing []string
	for _, f := range []struct{ name, val string }{
		{"bucketName", r.BucketName},
		{"prefixName", r.PrefixName},
		{"authType", r.AuthType},
		{"stackName", r.StackName},
		{"fleetName", r.FleetName},
		{"user", r.User},
		{"sessionId", r.SessionID},
	} {
		if strings.TrimSpace(f.val) == "" {
			missing = append(missing, f.name)
		}
	}
	if len(missing) > 0 {
		return Request{}, fmt.Errorf("%w: missing %s", ErrMalformedInput, strings.Join(missing, ","))
	}
	return r, nil
}
