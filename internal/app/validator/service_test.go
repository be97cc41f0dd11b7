package validator

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/aws/aws-lambda-go/events"

	"github.com/tyler180/appstream-data-sandbox/internal/session"
	"github.com/tyler180/appstream-data-sandbox/internal/store"
)

type fakeProcessor struct {
	seen   []session.Notification
	failOn string
}

func (f *fakeProcessor) Process(_ context.Context, n session.Notification) (session.Outcome, error) {
	f.seen = append(f.seen, n)
	if n.Key == f.failOn {
		return session.Outcome{}, session.ErrSessionLookup
	}
	return session.Outcome{
		Request:   session.Request{StackName: "st", FleetName: "fl", User: "u1", AuthType: "custom"},
		Bucket:    "home",
		OutputKey: "home/u1/session_url.txt",
		Valid:     true,
		Body:      "https://secret?authToken=x",
	}, nil
}

type fakeAudit struct {
	recs []store.AuditRecord
	err  error
}

func (f *fakeAudit) Put(_ context.Context, recs ...store.AuditRecord) error {
	f.recs = append(f.recs, recs...)
	return f.err
}

func s3Event(keys ...string) events.S3Event {
	var ev events.S3Event
	for _, k := range keys {
		var r events.S3EventRecord
		r.S3.Bucket.Name = "trigger"
		r.S3.Object.Key = k
		ev.Records = append(ev.Records, r)
	}
	return ev
}

func quietLogger() *slog.Logger { return slog.New(slog.NewJSONHandler(&bytes.Buffer{}, nil)) }

func TestHandle_FansOutInOrder(t *testing.T) {
	p := &fakeProcessor{}
	a := &fakeAudit{}
	h := &Handler{Processor: p, Audit: a, Logger: quietLogger()}

	if err := h.Handle(context.Background(), s3Event("a.json", "b+c.json")); err != nil {
		t.Fatal(err)
	}
	if len(p.seen) != 2 || p.seen[0].Key != "a.json" || p.seen[1].Key != "b c.json" {
		t.Fatalf("seen = %+v", p.seen)
	}
	if len(a.recs) != 2 || !a.recs[0].Valid || a.recs[0].OutputKey != "home/u1/session_url.txt" {
		t.Fatalf("audit = %+v", a.recs)
	}
}

func TestHandle_StopsAtFirstFailure(t *testing.T) {
	p := &fakeProcessor{failOn: "b.json"}
	a := &fakeAudit{}
	h := &Handler{Processor: p, Audit: a, Logger: quietLogger()}

	err := h.Handle(context.Background(), s3Event("a.json", "b.json", "c.json"))
	if !errors.Is(err, session.ErrSessionLookup) {
		t.Fatalf("err = %v", err)
	}
	if len(p.seen) != 2 {
		t.Fatalf("expected processing to stop after the failing record, saw %d", len(p.seen))
	}
	if len(a.recs) != 1 {
		t.Fatalf("expected the completed record to be audited, got %d", len(a.recs))
	}
}

func TestHandle_AuditFailureIsNotFatal(t *testing.T) {
	var buf bytes.Buffer
	h := &Handler{
		Processor: &fakeProcessor{},
		Audit:     &fakeAudit{err: errors.New("throttled")},
		Logger:    slog.New(slog.NewJSONHandler(&buf, nil)),
	}
	if err := h.Handle(context.Background(), s3Event("a.json")); err != nil {
		t.Fatalf("audit errors must not fail the invocation: %v", err)
	}
	if !bytes.Contains(buf.Bytes(), []byte("audit write failed")) {
		t.Fatalf("expected a warning, log = %s", buf.String())
	}
	if bytes.Contains(buf.Bytes(), []byte("authToken")) {
		t.Fatal("url leaked into logs")
	}
}

func TestHandle_NoAuditConfigured(t *testing.T) {
	h := &Handler{Processor: &fakeProcessor{}, Logger: quietLogger()}
	if err := h.Handle(context.Background(), s3Event("a.json")); err != nil {
		t.Fatal(err)
	}
}

func TestHandle_EmptyAndMalformedEvents(t *testing.T) {
	p := &fakeProcessor{}
	h := &Handler{Processor: p, Logger: quietLogger()}
	if err := h.Handle(context.Background(), events.S3Event{}); err != nil {
		t.Fatalf("empty event: %v", err)
	}
	err := h.Handle(context.Background(), s3Event(""))
	if !errors.Is(err, session.ErrMalformedInput) {
		t.Fatalf("err = %v", err)
	}
	if len(p.seen) != 0 {
		t.Fatal("nothing should be processed")
	}
}
