// Package provisioner is the custom-resource Lambda behind the sandbox template's Custom:: resources.
package provisioner

import (
	"context"
	"fmt"

	"github.com/aws/aws-lambda-go/cfn"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/appstream"
	"github.com/aws/aws-sdk-go-v2/service/iam"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/tyler180/appstream-data-sandbox/internal/config"
	"github.com/tyler180/appstream-data-sandbox/internal/logging"
	"github.com/tyler180/appstream-data-sandbox/internal/provision"
	"github.com/tyler180/appstream-data-sandbox/internal/roles"
)

// New returns the Lambda handler. Responses go to CloudFormation through the request's ResponseURL.
func New(ctx context.Context) (cfn.CustomResourceLambdaFunction, error) {
	log := logging.New(config.LogLevel())
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("aws config: %w", err)
	}
	p := &provision.Provisioner{
		S3:        s3.NewFromConfig(awsCfg),
		AppStream: appstream.NewFromConfig(awsCfg),
		Roles:     roles.NewBootstrapper(iam.NewFromConfig(awsCfg), log),
		Logger:    log,
	}
	return cfn.LambdaWrap(func(ctx context.Context, ev cfn.Event) (string, map[string]interface{}, error) {
		rp := *p
		rp.Logger = logging.WithRequest(ctx, log)
		return rp.Handle(ctx, ev)
	}), nil
}
