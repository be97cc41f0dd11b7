package infra

import (
	. "github.com/lex00/wetwire-aws-go/intrinsics"
)

const (
	idDataBucket      = "DataSandboxBucket"
	idDataBucketParam = "DataSandboxBucketParameter"

	// DataBucketParameter is read by scripts on the streaming instances.
	DataBucketParameter = "/s3/datasandboxbucket"
)

func addStorage(s *template) {
	s.add(idDataBucket, "AWS::S3::Bucket", Json{
		"BucketEncryption": Json{
			"ServerSideEncryptionConfiguration": []any{Json{
				"ServerSideEncryptionByDefault": Json{"SSEAlgorithm": "AES256"},
			}},
		},
		"PublicAccessBlockConfiguration": Json{
			"BlockPublicAcls":       true,
			"BlockPublicPolicy":     true,
			"IgnorePublicAcls":      true,
			"RestrictPublicBuckets": true,
		},
	})

	s.add(idDataBucketParam, "AWS::SSM::Parameter", Json{
		"Name":  DataBucketParameter,
		"Type":  "String",
		"Value": Sub{String: `{"bucket-name": ["${` + idDataBucket + `}"]}`},
	})
}
