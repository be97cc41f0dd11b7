package session

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"testing"
	"time"
)

// fakeStore keeps objects in memory, keyed by bucket/key.
type fakeStore struct {
	objects map[string][]byte
	gets    int
	puts    int
	putErr  error
}

func newFakeStore() *fakeStore { return &fakeStore{objects: map[string][]byte{}} }

func (f *fakeStore) Get(_ context.Context, bucket, key string) ([]byte, error) {
	f.gets++
	b, ok := f.objects[bucket+"/"+key]
	if !ok {
		return nil, fmt.Errorf("NoSuchKey: %s/%s", bucket, key)
	}
	return b, nil
}

func (f *fakeStore) Put(_ context.Context, bucket, key string, body []byte) error {
	f.puts++
	if f.putErr != nil {
		return f.putErr
	}
	f.objects[bucket+"/"+key] = append([]byte(nil), body...)
	return nil
}

type fakeRegistry struct {
	ids   []string
	err   error
	calls []Query
}

func (f *fakeRegistry) Sessions(_ context.Context, q Query) ([]string, error) {
	f.calls = append(f.calls, q)
	return f.ids, f.err
}

type fakeIssuer struct {
	url      string
	err      error
	calls    int
	notebook string
	ttl      time.Duration
}

func (f *fakeIssuer) Issue(_ context.Context, notebook string, ttl time.Duration) (string, error) {
	f.calls++
	f.notebook, f.ttl = notebook, ttl
	return f.url, f.err
}

const issuedURL = "https://data-sandbox-notebook.notebook.us-east-1.sagemaker.aws?authToken=tok"

func descriptor(authType, prefix, sessionID string) []byte {
	return []byte(fmt.Sprintf(`{"bucketName":"home","prefixName":%q,"authType":%q,"stackName":"st","fleetName":"fl","user":"u1","sessionId":%q}`,
		prefix, authType, sessionID))
}

func setup(body []byte, reg *fakeRegistry) (*Validator, *fakeStore, *fakeIssuer) {
	st := newFakeStore()
	if body != nil {
		st.objects["trigger/in/session.json"] = body
	}
	iss := &fakeIssuer{url: issuedURL}
	v := &Validator{
		Store:    st,
		Registry: reg,
		Issuer:   iss,
		Notebook: "Data-Sandbox-Notebook",
		TTL:      1800 * time.Second,
		Logger:   slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil)),
	}
	return v, st, iss
}

var trigger = Notification{Bucket: "trigger", Key: "in/session.json"}

func TestProcess_MatchingSessionWritesURL(t *testing.T) {
	reg := &fakeRegistry{ids: []string{"abc"}}
	v, st, iss := setup(descriptor("custom", "home/u1", "abc"), reg)

	out, err := v.Process(context.Background(), trigger)
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if !out.Valid || out.OutputKey != "home/u1/session_url.txt" || out.Bucket != "home" {
		t.Fatalf("unexpected outcome: %+v", out)
	}
	if got := string(st.objects["home/home/u1/session_url.txt"]); got != issuedURL {
		t.Fatalf("artifact = %q, want issued url", got)
	}
	if iss.calls != 1 || iss.notebook != "Data-Sandbox-Notebook" || iss.ttl != 1800*time.Second {
		t.Fatalf("issuer called %d times with %q/%v", iss.calls, iss.notebook, iss.ttl)
	}
	want := Query{Stack: "st", Fleet: "fl", User: "u1", AuthType: "API"}
	if len(reg.calls) != 1 || reg.calls[0] != want {
		t.Fatalf("registry calls = %+v, want [%+v]", reg.calls, want)
	}
	if st.gets != 1 || st.puts != 1 {
		t.Fatalf("expected 1 get and 1 put, got %d/%d", st.gets, st.puts)
	}
}

func TestProcess_MismatchWritesErrorText(t *testing.T) {
	reg := &fakeRegistry{ids: []string{"xyz"}}
	v, st, iss := setup(descriptor("custom", "home/u1", "abc"), reg)

	out, err := v.Process(context.Background(), trigger)
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if out.Valid {
		t.Fatal("expected invalid outcome")
	}
	if got := string(st.objects["home/home/u1/session_url.txt"]); got != InvalidSessionMessage {
		t.Fatalf("artifact = %q", got)
	}
	if iss.calls != 0 {
		t.Fatalf("issuer must not be called on mismatch, got %d calls", iss.calls)
	}
}

func TestProcess_SessionIDCaseSensitive(t *testing.T) {
	reg := &fakeRegistry{ids: []string{"ABC"}}
	v, st, _ := setup(descriptor("saml", "saml/u1", "abc"), reg)

	if _, err := v.Process(context.Background(), trigger); err != nil {
		t.Fatalf("Process: %v", err)
	}
	if got := string(st.objects["home/saml/u1/session_url.txt"]); got != InvalidSessionMessage {
		t.Fatalf("artifact = %q", got)
	}
	if reg.calls[0].AuthType != "SAML" {
		t.Fatalf("auth type = %q", reg.calls[0].AuthType)
	}
}

func TestProcess_OnlyFirstSessionCompared(t *testing.T) {
	reg := &fakeRegistry{ids: []string{"other", "abc"}}
	v, st, _ := setup(descriptor("custom", "home/u1", "abc"), reg)

	if _, err := v.Process(context.Background(), trigger); err != nil {
		t.Fatalf("Process: %v", err)
	}
	if got := string(st.objects["home/home/u1/session_url.txt"]); got != InvalidSessionMessage {
		t.Fatalf("artifact = %q", got)
	}
}

func TestProcess_UserPoolPrefixRewritten(t *testing.T) {
	reg := &fakeRegistry{ids: []string{"abc"}}
	v, st, _ := setup(descriptor("userpool", "custom/u2", "abc"), reg)

	out, err := v.Process(context.Background(), trigger)
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if out.OutputKey != "userpool/u2/session_url.txt" {
		t.Fatalf("output key = %q", out.OutputKey)
	}
	if _, ok := st.objects["home/userpool/u2/session_url.txt"]; !ok {
		t.Fatal("artifact not written under rewritten prefix")
	}
	if reg.calls[0].AuthType != "USERPOOL" {
		t.Fatalf("auth type = %q", reg.calls[0].AuthType)
	}
}

func TestProcess_EmptyRegistryIsInvalidSession(t *testing.T) {
	reg := &fakeRegistry{}
	v, st, iss := setup(descriptor("custom", "home/u1", "abc"), reg)

	out, err := v.Process(context.Background(), trigger)
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if out.Valid || out.Body != InvalidSessionMessage {
		t.Fatalf("unexpected outcome: %+v", out)
	}
	if got := string(st.objects["home/home/u1/session_url.txt"]); got != InvalidSessionMessage {
		t.Fatalf("artifact = %q", got)
	}
	if iss.calls != 0 {
		t.Fatal("issuer must not be called without a session")
	}
}

func TestProcess_MalformedObjectWritesNothing(t *testing.T) {
	reg := &fakeRegistry{ids: []string{"abc"}}
	v, st, _ := setup([]byte("<html>not json</html>"), reg)

	_, err := v.Process(context.Background(), trigger)
	if !errors.Is(err, ErrMalformedInput) {
		t.Fatalf("expected ErrMalformedInput, got %v", err)
	}
	if st.puts != 0 || len(reg.calls) != 0 {
		t.Fatalf("expected no registry call and no write, got %d calls / %d puts", len(reg.calls), st.puts)
	}
}

func TestProcess_MissingObject(t *testing.T) {
	v, st, _ := setup(nil, &fakeRegistry{})
	_, err := v.Process(context.Background(), trigger)
	if !errors.Is(err, ErrMalformedInput) {
		t.Fatalf("expected ErrMalformedInput, got %v", err)
	}
	if st.puts != 0 {
		t.Fatal("nothing should be written")
	}
}

func TestProcess_LookupErrorPropagates(t *testing.T) {
	reg := &fakeRegistry{err: errors.New("ThrottlingException")}
	v, st, _ := setup(descriptor("custom", "home/u1", "abc"), reg)

	_, err := v.Process(context.Background(), trigger)
	if !errors.Is(err, ErrSessionLookup) {
		t.Fatalf("expected ErrSessionLookup, got %v", err)
	}
	if st.puts != 0 {
		t.Fatal("nothing should be written when the lookup fails")
	}
}

func TestProcess_IssueErrorPropagates(t *testing.T) {
	reg := &fakeRegistry{ids: []string{"abc"}}
	v, st, iss := setup(descriptor("custom", "home/u1", "abc"), reg)
	iss.err = errors.New("ResourceNotFound")

	if _, err := v.Process(context.Background(), trigger); err == nil {
		t.Fatal("expected error")
	}
	if st.puts != 0 {
		t.Fatal("nothing should be written when issuance fails")
	}
}

func TestProcess_WriteErrorPropagates(t *testing.T) {
	reg := &fakeRegistry{ids: []string{"abc"}}
	v, st, _ := setup(descriptor("custom", "home/u1", "abc"), reg)
	st.putErr = errors.New("AccessDenied")

	_, err := v.Process(context.Background(), trigger)
	if err == nil || !strings.Contains(err.Error(), "AccessDenied") {
		t.Fatalf("expected write error, got %v", err)
	}
}

func TestProcess_Idempotent(t *testing.T) {
	reg := &fakeRegistry{ids: []string{"abc"}}
	v, st, _ := setup(descriptor("custom", "home/u1", "abc"), reg)

	if _, err := v.Process(context.Background(), trigger); err != nil {
		t.Fatal(err)
	}
	first := string(st.objects["home/home/u1/session_url.txt"])
	if _, err := v.Process(context.Background(), trigger); err != nil {
		t.Fatal(err)
	}
	if second := string(st.objects["home/home/u1/session_url.txt"]); second != first {
		t.Fatalf("second run wrote %q, first wrote %q", second, first)
	}
}

func TestProcess_URLNeverLogged(t *testing.T) {
	var buf bytes.Buffer
	reg := &fakeRegistry{ids: []string{"abc"}}
	v, _, _ := setup(descriptor("custom", "home/u1", "abc"), reg)
	v.Logger = slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	if _, err := v.Process(context.Background(), trigger); err != nil {
		t.Fatal(err)
	}
	if strings.Contains(buf.String(), "authToken") {
		t.Fatalf("log output leaked the presigned url: %s", buf.String())
	}
}

func TestProcess_DefaultTTL(t *testing.T) {
	reg := &fakeRegistry{ids: []string{"abc"}}
	v, _, iss := setup(descriptor("custom", "home/u1", "abc"), reg)
	v.TTL = 0

	if _, err := v.Process(context.Background(), trigger); err != nil {
		t.Fatal(err)
	}
	if iss.ttl != 1800*time.Second {
		t.Fatalf("ttl = %v, want 1800s", iss.ttl)
	}
}
