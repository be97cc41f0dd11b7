package infra

import (
	. "github.com/lex00/wetwire-aws-go/intrinsics"

	"github.com/tyler180/appstream-data-sandbox/internal/config"
	"github.com/tyler180/appstream-data-sandbox/internal/provision"
)

const (
	idValidatorRole      = "SessionValidatorRole"
	idValidatorFunction  = "SessionValidatorFunction"
	idValidatorLogGroup  = "SessionValidatorLogGroup"
	idAuditTable         = "ValidationAuditTable"
	idValidatorInvoke    = "SessionValidatorInvokePermission"
	idHomeFolderNotifier = "HomeFolderNotification"
)

// ----------------------------------------------------------------------------
// Session validator: triggered by *.json descriptors in the home-folder bucket.
// ----------------------------------------------------------------------------

func addValidator(s *template) {
	notebookArn := Sub{String: "arn:${AWS::Partition}:sagemaker:${AWS::Region}:${AWS::AccountId}:notebook-instance/*"}

	lambdaRole(s, idValidatorRole, "Role for the data sandbox session validator",
		[]any{
			managedPolicy("AmazonAppStreamReadOnlyAccess"),
			managedPolicy("AmazonSSMReadOnlyAccess"),
		},
		inline("AllowHomeFolderAccess", allow(
			[]any{"s3:ListBucket", "s3:ListBucketByTags", "s3:GetObject", "s3:PutObject"},
			homeFolderBucketArn(""), homeFolderBucketArn("/*"),
		)),
		inline("AllowNotebookAccess", allow(
			[]any{"sagemaker:ListTags", "sagemaker:ListNotebookInstances", "sagemaker:CreatePresignedNotebookInstanceUrl"},
			notebookArn,
		)),
		inline("AllowAuditWrite", allow(
			[]any{"dynamodb:BatchWriteItem", "dynamodb:PutItem"},
			arnOf(idAuditTable),
		)),
	)

	s.add(idAuditTable, "AWS::DynamoDB::Table", Json{
		"BillingMode":          "PAY_PER_REQUEST",
		"AttributeDefinitions": []any{Json{"AttributeName": "AuditID", "AttributeType": "S"}},
		"KeySchema":            []any{Json{"AttributeName": "AuditID", "KeyType": "HASH"}},
		"TimeToLiveSpecification": Json{
			"AttributeName": "ExpiresAt",
			"Enabled":       true,
		},
		"SSESpecification": Json{"SSEEnabled": true},
	})

	addGoFunction(s, goFunction{
		id:          idValidatorFunction,
		logGroup:    idValidatorLogGroup,
		role:        idValidatorRole,
		codeKey:     pValidatorCodeKey,
		description: "Validates AppStream session descriptors and issues notebook URLs",
		env: Json{
			config.EnvNotebookName: Param(pNotebookName),
			config.EnvURLTTL:       "1800",
			config.EnvAuditTable:   Ref{LogicalName: idAuditTable},
		},
	})

	s.add(idValidatorInvoke, "AWS::Lambda::Permission", Json{
		"Action":        "lambda:InvokeFunction",
		"FunctionName":  Ref{LogicalName: idValidatorFunction},
		"Principal":     "s3.amazonaws.com",
		"SourceArn":     homeFolderBucketArn(""),
		"SourceAccount": AWS_ACCOUNT_ID,
	})

	customResource(s, idHomeFolderNotifier, provision.ActionBucketNotification, Json{
		"Bucket":      homeFolderBucket(),
		"FunctionArn": arnOf(idValidatorFunction),
		"Suffix":      ".json",
	}, idValidatorInvoke, idProvisionerLogGroup)
}
