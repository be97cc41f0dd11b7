package registry

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/appstream"
	"github.com/aws/aws-sdk-go-v2/service/appstream/types"

	"github.com/tyler180/appstream-data-sandbox/internal/session"
)

type fakeAppStream struct {
	in   *appstream.DescribeSessionsInput
	out  *appstream.DescribeSessionsOutput
	err  error
	hits int
}

func (f *fakeAppStream) DescribeSessions(_ context.Context, in *appstream.DescribeSessionsInput, _ ...func(*appstream.Options)) (*appstream.DescribeSessionsOutput, error) {
	f.hits++
	f.in = in
	if f.err != nil {
		return nil, f.err
	}
	return f.out, nil
}

func TestSessions_PassesFiltersAndKeepsOrder(t *testing.T) {
	fc := &fakeAppStream{out: &appstream.DescribeSessionsOutput{
		Sessions: []types.Session{{Id: aws.String("s-2")}, {Id: aws.String("s-1")}},
	}}
	ids, err := New(fc).Sessions(context.Background(), session.Query{Stack: "st", Fleet: "fl", User: "u1", AuthType: "USERPOOL"})
	if err != nil {
		t.Fatal(err)
	}
	if len(ids) != 2 || ids[0] != "s-2" || ids[1] != "s-1" {
		t.Fatalf("ids = %v", ids)
	}
	if fc.hits != 1 {
		t.Fatalf("expected one call, got %d", fc.hits)
	}
	if aws.ToString(fc.in.StackName) != "st" || aws.ToString(fc.in.FleetName) != "fl" || aws.ToString(fc.in.UserId) != "u1" {
		t.Fatalf("unexpected input %+v", fc.in)
	}
	if fc.in.AuthenticationType != types.AuthenticationTypeUserpool {
		t.Fatalf("auth type = %q", fc.in.AuthenticationType)
	}
}

func TestSessions_Empty(t *testing.T) {
	fc := &fakeAppStream{out: &appstream.DescribeSessionsOutput{}}
	ids, err := New(fc).Sessions(context.Background(), session.Query{Stack: "st", Fleet: "fl", User: "u1", AuthType: "API"})
	if err != nil {
		t.Fatal(err)
	}
	if len(ids) != 0 {
		t.Fatalf("ids = %v", ids)
	}
}

func TestSessions_Error(t *testing.T) {
	boom := errors.New("AccessDenied")
	_, err := New(&fakeAppStream{err: boom}).Sessions(context.Background(), session.Query{})
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v", err)
	}
}
