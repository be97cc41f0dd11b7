package infra

import (
	. "github.com/lex00/wetwire-aws-go/intrinsics"

	"github.com/tyler180/appstream-data-sandbox/internal/config"
	"github.com/tyler180/appstream-data-sandbox/internal/provision"
	"github.com/tyler180/appstream-data-sandbox/internal/roles"
)

const (
	idRolesFunctionRole   = "ServiceRolesFunctionRole"
	idRolesFunction       = "ServiceRolesFunction"
	idRolesLogGroup       = "ServiceRolesFunctionLogGroup"
	idServiceRoles        = "ServiceRoles"
	idProvisionerRole     = "ProvisionerFunctionRole"
	idProvisionerFunction = "ProvisionerFunction"
	idProvisionerLogGroup = "ProvisionerFunctionLogGroup"
)

const (
	logRetentionDays     = 90
	lambdaRuntime        = "provided.al2023"
	lambdaMemoryMB       = 256
	lambdaTimeoutSeconds = 60
	basicExecutionPolicy = "service-role/AWSLambdaBasicExecutionRole"
)

type goFunction struct {
	id, logGroup, role, codeKey, description string
	env                                      Json
}

// addGoFunction declares a custom-runtime Go Lambda plus a log group with bounded retention.
func addGoFunction(s *template, fn goFunction) {
	if fn.env == nil {
		fn.env = Json{}
	}
	fn.env[config.EnvLogLevel] = "info"
	s.add(fn.id, "AWS::Lambda::Function", Json{
		"Description":   fn.description,
		"Runtime":       lambdaRuntime,
		"Handler":       "bootstrap",
		"Architectures": []any{"arm64"},
		"Code": Json{
			"S3Bucket": Param(pArtifactBucket),
			"S3Key":    Param(fn.codeKey),
		},
		"Role":        arnOf(fn.role),
		"MemorySize":  lambdaMemoryMB,
		"Timeout":     lambdaTimeoutSeconds,
		"Environment": Json{"Variables": fn.env},
	})
	s.add(fn.logGroup, "AWS::Logs::LogGroup", Json{
		"LogGroupName":    Sub{String: "/aws/lambda/${" + fn.id + "}"},
		"RetentionInDays": logRetentionDays,
	})
}

func lambdaRole(s *template, id, description string, managed []any, policies ...any) {
	s.add(id, "AWS::IAM::Role", Json{
		"Description":              description,
		"AssumeRolePolicyDocument": serviceTrust("lambda.amazonaws.com"),
		"MaxSessionDuration":       3600,
		"ManagedPolicyArns":        append([]any{managedPolicy(basicExecutionPolicy)}, managed...),
		"Policies":                 policies,
	})
}

// customResource declares a Custom:: resource answered by the provisioner Lambda.
func customResource(s *template, id, action string, props Json, deps ...string) {
	props["ServiceToken"] = arnOf(idProvisionerFunction)
	props["Action"] = action
	s.add(id, "Custom::"+action, props, deps...)
}

// ----------------------------------------------------------------------------
// Service roles: account-wide roles AppStream needs before a fleet can start.
// ----------------------------------------------------------------------------

func addServiceRoles(s *template) {
	var arns []any
	for _, r := range roles.Default {
		arns = append(arns, Sub{String: "arn:${AWS::Partition}:iam::${AWS::AccountId}:role/service-role/" + r.Name})
	}
	lambdaRole(s, idRolesFunctionRole, "AppStream service roles lambda", nil,
		inline("AllowIAMCreate", allow([]any{"iam:GetRole", "iam:CreateRole", "iam:AttachRolePolicy"}, arns...)),
	)
	addGoFunction(s, goFunction{
		id:          idRolesFunction,
		logGroup:    idRolesLogGroup,
		role:        idRolesFunctionRole,
		codeKey:     pRolesCodeKey,
		description: "Creates the AppStream service roles when they are missing",
	})
	s.add(idServiceRoles, "Custom::"+provision.ActionServiceRoles, Json{
		"ServiceToken": arnOf(idRolesFunction),
		"Action":       provision.ActionServiceRoles,
	}, idRolesLogGroup)
}

// ----------------------------------------------------------------------------
// Provisioner: serves every other Custom:: resource in the template.
// ----------------------------------------------------------------------------

func addProvisioner(s *template) {
	fleetArn := Sub{String: "arn:${AWS::Partition}:appstream:${AWS::Region}:${AWS::AccountId}:fleet/${" + pEnvironmentName + "}-fleet"}
	lambdaRole(s, idProvisionerRole, "Data sandbox provisioning custom resources", nil,
		inline("AllowBucketNotification",
			allow([]any{"s3:PutBucketNotification", "s3:GetBucketNotification"}, homeFolderBucketArn("")),
		),
		inline("AllowFleetOperations",
			allow([]any{"appstream:UpdateFleet", "appstream:StartFleet", "appstream:StopFleet"}, fleetArn),
			allow([]any{"iam:PassRole"}, arnOf(idFleetRole)),
		),
		inline("AllowUsageReports",
			allow([]any{"appstream:CreateUsageReportSubscription", "appstream:DeleteUsageReportSubscription"}, "*"),
		),
	)
	addGoFunction(s, goFunction{
		id:          idProvisionerFunction,
		logGroup:    idProvisionerLogGroup,
		role:        idProvisionerRole,
		codeKey:     pProvisionerCodeKey,
		description: "CloudFormation custom resources for the data sandbox",
	})
}
