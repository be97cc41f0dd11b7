// Package provision implements the CloudFormation custom resources the sandbox stack uses
// for settings that have no native resource type.
package provision

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/aws/aws-lambda-go/cfn"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/appstream"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"

	"github.com/tyler180/appstream-data-sandbox/internal/roles"
)

// Actions selected by the Action resource property.
const (
	ActionBucketNotification = "BucketNotification"
	ActionFleetRole          = "FleetRole"
	ActionUsageReports       = "UsageReports"
	ActionStartFleet         = "StartFleet"
	ActionServiceRoles       = "ServiceRoles"
)

var ErrUnknownAction = errors.New("unknown provisioning action")

type S3API interface {
	PutBucketNotificationConfiguration(ctx context.Context, params *s3.PutBucketNotificationConfigurationInput, optFns ...func(*s3.Options)) (*s3.PutBucketNotificationConfigurationOutput, error)
}

type AppStreamAPI interface {
	UpdateFleet(ctx context.Context, params *appstream.UpdateFleetInput, optFns ...func(*appstream.Options)) (*appstream.UpdateFleetOutput, error)
	StartFleet(ctx context.Context, params *appstream.StartFleetInput, optFns ...func(*appstream.Options)) (*appstream.StartFleetOutput, error)
	StopFleet(ctx context.Context, params *appstream.StopFleetInput, optFns ...func(*appstream.Options)) (*appstream.StopFleetOutput, error)
	CreateUsageReportSubscription(ctx context.Context, params *appstream.CreateUsageReportSubscriptionInput, optFns ...func(*appstream.Options)) (*appstream.CreateUsageReportSubscriptionOutput, error)
	DeleteUsageReportSubscription(ctx context.Context, params *appstream.DeleteUsageReportSubscriptionInput, optFns ...func(*appstream.Options)) (*appstream.DeleteUsageReportSubscriptionOutput, error)
}

type RoleEnsurer interface {
	Ensure(ctx context.Context) ([]roles.Result, error)
}

var (
	_ S3API        = (*s3.Client)(nil)
	_ AppStreamAPI = (*appstream.Client)(nil)
	_ RoleEnsurer  = (*roles.Bootstrapper)(nil)
)

type Provisioner struct {
	S3        S3API
	AppStream AppStreamAPI
	Roles     RoleEnsurer
	Logger    *slog.Logger
}

// Handle is a cfn.CustomResourceFunction.
func (p *Provisioner) Handle(ctx context.Context, ev cfn.Event) (string, map[string]interface{}, error) {
	action, _ := ev.ResourceProperties["Action"].(string)
	log := p.logger().With("action", action, "request_type", string(ev.RequestType), "logical_id", ev.LogicalResourceID)
	log.Info("custom resource request")

	var (
		id   string
		data map[string]interface{}
		err  error
	)
	switch action {
	case ActionBucketNotification:
		id, err = p.bucketNotification(ctx, ev)
	case ActionFleetRole:
		id, err = p.fleetRole(ctx, ev)
	case ActionUsageReports:
		id, data, err = p.usageReports(ctx, ev)
	case ActionStartFleet:
		id, err = p.startFleet(ctx, ev)
	case ActionServiceRoles:
		id, data, err = p.serviceRoles(ctx, ev)
	default:
		return ev.PhysicalResourceID, nil, fmt.Errorf("%w: %q", ErrUnknownAction, action)
	}
	if err != nil {
		log.Error("custom resource failed", "err", err)
		return id, nil, err
	}
	return id, data, nil
}

func (p *Provisioner) bucketNotification(ctx context.Context, ev cfn.Event) (string, error) {
	bucket, err := prop(ev, "Bucket")
	if err != nil {
		return ev.PhysicalResourceID, err
	}
	id := ActionBucketNotification + "-" + bucket

	cfg := &s3types.NotificationConfiguration{}
	if ev.RequestType != cfn.RequestDelete {
		fn, err := prop(ev, "FunctionArn")
		if err != nil {
			return id, err
		}
		suffix, _ := ev.ResourceProperties["Suffix"].(string)
		if suffix == "" {
			suffix = ".json"
		}
		cfg = NotificationConfig(fn, suffix)
	}
	_, err = p.S3.PutBucketNotificationConfiguration(ctx, &s3.PutBucketNotificationConfigurationInput{
		Bucket:                    aws.String(bucket),
		NotificationConfiguration: cfg,
	})
	if err != nil {
		return id, fmt.Errorf("put notification on %s: %w", bucket, err)
	}
	return id, nil
}

func (p *Provisioner) fleetRole(ctx context.Context, ev cfn.Event) (string, error) {
	fleet, err := prop(ev, "FleetName")
	if err != nil {
		return ev.PhysicalResourceID, err
	}
	id := ActionFleetRole + "-" + fleet
	if ev.RequestType == cfn.RequestDelete {
		return id, nil
	}
	role, err := prop(ev, "RoleArn")
	if err != nil {
		return id, err
	}
	if _, err := p.AppStream.UpdateFleet(ctx, &appstream.UpdateFleetInput{
		Name:       aws.String(fleet),
		IamRoleArn: aws.String(role),
	}); err != nil {
		return id, fmt.Errorf("assign role to fleet %s: %w", fleet, err)
	}
	return id, nil
}

func (p *Provisioner) usageReports(ctx context.Context, ev cfn.Event) (string, map[string]interface{}, error) {
	id := ActionUsageReports
	switch ev.RequestType {
	case cfn.RequestCreate:
		out, err := p.AppStream.CreateUsageReportSubscription(ctx, &appstream.CreateUsageReportSubscriptionInput{})
		if err != nil {
			return id, nil, fmt.Errorf("create usage report subscription: %w", err)
		}
		return id, map[string]interface{}{
			"S3BucketName": aws.ToString(out.S3BucketName),
			"Schedule":     string(out.Schedule),
		}, nil
	case cfn.RequestDelete:
		_, err := p.AppStream.DeleteUsageReportSubscription(ctx, &appstream.DeleteUsageReportSubscriptionInput{})
		if err != nil && !isNotFound(err) {
			return id, nil, fmt.Errorf("delete usage report subscription: %w", err)
		}
	}
	return id, nil, nil
}

func (p *Provisioner) startFleet(ctx context.Context, ev cfn.Event) (string, error) {
	fleet, err := prop(ev, "FleetName")
	if err != nil {
		return ev.PhysicalResourceID, err
	}
	id := ActionStartFleet + "-" + fleet
	switch ev.RequestType {
	case cfn.RequestCreate:
		if _, err := p.AppStream.StartFleet(ctx, &appstream.StartFleetInput{Name: aws.String(fleet)}); err != nil {
			return id, fmt.Errorf("start fleet %s: %w", fleet, err)
		}
	case cfn.RequestDelete:
		_, err := p.AppStream.StopFleet(ctx, &appstream.StopFleetInput{Name: aws.String(fleet)})
		if err != nil && !isNotFound(err) {
			return id, fmt.Errorf("stop fleet %s: %w", fleet, err)
		}
	}
	return id, nil
}

func (p *Provisioner) serviceRoles(ctx context.Context, ev cfn.Event) (string, map[string]interface{}, error) {
	id := ActionServiceRoles
	if ev.RequestType == cfn.RequestDelete {
		return id, nil, nil
	}
	res, err := p.Roles.Ensure(ctx)
	if err != nil {
		return id, nil, err
	}
	var created []string
	for _, r := range res {
		if r.Created {
			created = append(created, r.Role)
		}
	}
	sort.Strings(created)
	return id, map[string]interface{}{"Created": strings.Join(created, ",")}, nil
}

func (p *Provisioner) logger() *slog.Logger {
	if p.Logger == nil {
		return slog.Default()
	}
	return p.Logger
}

func prop(ev cfn.Event, name string) (string, error) {
	v, _ := ev.ResourceProperties[name].(string)
	if strings.TrimSpace(v) == "" {
		return "", fmt.Errorf("resource property %s is required", name)
	}
	return v, nil
}

func isNotFound(err error) bool {
	var ae smithy.APIError
	return errors.As(err, &ae) && ae.ErrorCode() == "ResourceNotFoundException"
}
