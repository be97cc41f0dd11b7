package infra

import (
	. "github.com/lex00/wetwire-aws-go/intrinsics"
)

const (
	idNotebookKey           = "NotebookKey"
	idNotebookKeyAlias      = "NotebookKeyAlias"
	idNotebookSecurityGroup = "NotebookSecurityGroup"
	idNotebookRole          = "NotebookRole"
	idNotebook              = "DataSandboxNotebook"
)

// ----------------------------------------------------------------------------
// Notebook: reachable only from the AppStream security group, no internet, no root.
// ----------------------------------------------------------------------------

func addNotebook(s *template) {
	keyPolicy := NewPolicyDocument()
	keyPolicy.Statement = []any{PolicyStatement{
		Sid:       "AccountAdministration",
		Effect:    "Allow",
		Principal: AWSPrincipal{Sub{String: "arn:${AWS::Partition}:iam::${AWS::AccountId}:root"}},
		Action:    "kms:*",
		Resource:  "*",
	}}
	s.add(idNotebookKey, "AWS::KMS::Key", Json{
		"Description":       "Data sandbox notebook volume encryption",
		"Enabled":           true,
		"EnableKeyRotation": true,
		"KeyPolicy":         keyPolicy,
	})
	s.add(idNotebookKeyAlias, "AWS::KMS::Alias", Json{
		"AliasName":   Sub{String: "alias/${" + pEnvironmentName + "}-notebook-kms"},
		"TargetKeyId": Ref{LogicalName: idNotebookKey},
	})

	s.add(idNotebookSecurityGroup, "AWS::EC2::SecurityGroup", Json{
		"GroupDescription": "Data sandbox notebook",
		"GroupName":        Sub{String: "${" + pEnvironmentName + "}-notebook-sg"},
		"VpcId":            Ref{LogicalName: idVpc},
		"SecurityGroupIngress": []any{Json{
			"IpProtocol":            "tcp",
			"FromPort":              443,
			"ToPort":                443,
			"SourceSecurityGroupId": GetAtt{LogicalName: idAppStreamSecurityGroup, Attribute: "GroupId"},
			"Description":           "Allow 443 ingress for Appstream instances",
		}},
	})

	s.add(idNotebookRole, "AWS::IAM::Role", Json{
		"Description":              "Notebook Role",
		"AssumeRolePolicyDocument": serviceTrust("sagemaker.amazonaws.com"),
		"Policies": []any{
			inline("AllowNotebookKey", allow(
				[]any{"kms:Encrypt", "kms:Decrypt", "kms:ReEncrypt*", "kms:GenerateDataKey*", "kms:DescribeKey"},
				arnOf(idNotebookKey),
			)),
		},
	})

	s.add(idNotebook, "AWS::SageMaker::NotebookInstance", Json{
		"NotebookInstanceName": Param(pNotebookName),
		"InstanceType":         "ml.t3.medium",
		"RoleArn":              arnOf(idNotebookRole),
		"KmsKeyId":             arnOf(idNotebookKey),
		"RootAccess":           "Disabled",
		"DirectInternetAccess": "Disabled",
		"SubnetId":             Ref{LogicalName: idSubnetA},
		"SecurityGroupIds":     []any{GetAtt{LogicalName: idNotebookSecurityGroup, Attribute: "GroupId"}},
		"VolumeSizeInGB":       20,
	})
}
