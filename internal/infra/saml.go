package infra

import (
	. "github.com/lex00/wetwire-aws-go/intrinsics"
)

const (
	idSamlRole = "SamlRole"

	samlAudience = "https://signin.aws.amazon.com/saml"
)

// addSaml declares the role a federated IdP assumes to stream from the AppStream stack.
func addSaml(s *template) {
	provider := Sub{String: "arn:${AWS::Partition}:iam::${AWS::AccountId}:saml-provider/${" + pIdpName + "}"}
	s.add(idSamlRole, "AWS::IAM::Role", Json{
		"RoleName":           Sub{String: "${AWS::Region}-appstream-saml-role"},
		"Description":        "Role for SAML",
		"MaxSessionDuration": 3600,
		"AssumeRolePolicyDocument": assumeRole(FederatedPrincipal{provider}, "sts:AssumeRoleWithSAML", Json{
			StringEquals: Json{"SAML:aud": samlAudience},
		}),
		"Policies": []any{
			inline("AllowAppStreamAccessSAML", allow([]any{"appstream:Stream"},
				Sub{String: "arn:${AWS::Partition}:appstream:${AWS::Region}:${AWS::AccountId}:stack/${" + pEnvironmentName + "}-stack"},
			)),
		},
	})
}

func addOutputs(s *template) {
	s.output("DataSandboxBucketName", "Bucket holding sandbox data", Ref{LogicalName: idDataBucket})
	s.output("NotebookInstanceName", "SageMaker notebook instance", GetAtt{LogicalName: idNotebook, Attribute: "NotebookInstanceName"})
	s.output("FleetName", "AppStream fleet", Ref{LogicalName: idFleet})
	s.output("StackName", "AppStream stack", Ref{LogicalName: idStack})
	s.output("SessionValidatorArn", "Session validator function", arnOf(idValidatorFunction))
	s.output("AuditTableName", "Validation audit table", Ref{LogicalName: idAuditTable})
	s.output("SamlRoleArn", "Role assumed by the SAML identity provider", arnOf(idSamlRole))
}
