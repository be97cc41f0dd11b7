// Package registry answers session queries from the AppStream API.
package registry

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/appstream"
	"github.com/aws/aws-sdk-go-v2/service/appstream/types"

	"github.com/tyler180/appstream-data-sandbox/internal/session"
)

type AppStreamAPI interface {
	DescribeSessions(ctx context.Context, params *appstream.DescribeSessionsInput, optFns ...func(*appstream.Options)) (*appstream.DescribeSessionsOutput, error)
}

var (
	_ AppStreamAPI            = (*appstream.Client)(nil)
	_ session.SessionRegistry = (*AppStream)(nil)
)

type AppStream struct {
	Client AppStreamAPI
}

func New(cl AppStreamAPI) *AppStream { return &AppStream{Client: cl} }

// Sessions issues a single DescribeSessions call; only the first page is returned.
func (a *AppStream) Sessions(ctx context.Context, q session.Query) ([]string, error) {
	in := &appstream.DescribeSessionsInput{
		StackName: aws.String(q.Stack),
		FleetName: aws.String(q.Fleet),
		UserId:    aws.String(q.User),
	}
	if q.AuthType != "" {
		in.AuthenticationType = types.AuthenticationType(q.AuthType)
	}
	out, err := a.Client.DescribeSessions(ctx, in)
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(out.Sessions))
	for _, s := range out.Sessions {
		if id := aws.ToString(s.Id); id != "" {
			ids = append(ids, id)
		}
	}
	return ids, nil
}
