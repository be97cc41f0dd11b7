package provision

import (
	"github.com/aws/aws-sdk-go-v2/aws"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// NotificationID names the Lambda configuration placed on the home-folder bucket.
const NotificationID = "session-validator"

// NotificationConfig routes every created object whose key ends in suffix to fn.
func NotificationConfig(fn, suffix string) *s3types.NotificationConfiguration {
	return &s3types.NotificationConfiguration{
		LambdaFunctionConfigurations: []s3types.LambdaFunctionConfiguration{{
			Id:                aws.String(NotificationID),
			LambdaFunctionArn: aws.String(fn),
			Events:            []s3types.Event{"s3:ObjectCreated:*"},
			Filter: &s3types.NotificationConfigurationFilter{
				Key: &s3types.S3KeyFilter{
					FilterRules: []s3types.FilterRule{{
						Name:  s3types.FilterRuleNameSuffix,
						Value: aws.String(suffix),
					}},
				},
			},
		}},
	}
}
