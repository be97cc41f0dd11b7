package infra

import (
	. "github.com/lex00/wetwire-aws-go/intrinsics"

	"github.com/tyler180/appstream-data-sandbox/internal/provision"
)

const (
	idAppStreamSecurityGroup = "AppStreamSecurityGroup"
	idFleetRole              = "AppStreamFleetRole"
	idFleet                  = "AppStreamFleet"
	idStack                  = "AppStreamStack"
	idFleetAssociation       = "AppStreamFleetAssociation"
	idFleetRoleAssignment    = "FleetRoleAssignment"
	idUsageReports           = "UsageReports"
	idStartFleet             = "StartFleet"

	// Streaming sessions may stay connected for four days.
	sessionTimeoutSeconds = 345600
	desiredInstances      = 5
)

// userSettings lets users paste into the sandbox but nothing leaves it.
var userSettings = []any{
	Json{"Action": "CLIPBOARD_COPY_FROM_LOCAL_DEVICE", "Permission": "ENABLED"},
	Json{"Action": "CLIPBOARD_COPY_TO_LOCAL_DEVICE", "Permission": "DISABLED"},
	Json{"Action": "FILE_DOWNLOAD", "Permission": "DISABLED"},
	Json{"Action": "PRINTING_TO_LOCAL_DEVICE", "Permission": "DISABLED"},
}

func addAppStream(s *template) {
	s.add(idAppStreamSecurityGroup, "AWS::EC2::SecurityGroup", Json{
		"GroupDescription": "AppStream streaming instances",
		"GroupName":        Sub{String: "${" + pEnvironmentName + "}-appstream-sg"},
		"VpcId":            Ref{LogicalName: idVpc},
	})

	s.add(idFleetRole, "AWS::IAM::Role", Json{
		"Description":              "Role for the AppStream fleet",
		"AssumeRolePolicyDocument": serviceTrust("appstream.amazonaws.com"),
		"MaxSessionDuration":       3600,
		"Policies": []any{
			inline("AllowSSMAccess", allow([]any{"ssm:GetParameter"}, "*")),
			inline("AllowS3Access", allow([]any{"s3:GetObject", "s3:ListBucket"},
				arnOf(idDataBucket),
				Join{Delimiter: "", Values: []any{arnOf(idDataBucket), "/*"}},
			)),
		},
	})

	s.add(idFleet, "AWS::AppStream::Fleet", Json{
		"Name":                           fleetName(),
		"ImageName":                      Param(pImageName),
		"InstanceType":                   Param(pInstanceType),
		"FleetType":                      Param(pFleetType),
		"ComputeCapacity":                Json{"DesiredInstances": desiredInstances},
		"IdleDisconnectTimeoutInSeconds": 0,
		"DisconnectTimeoutInSeconds":     sessionTimeoutSeconds,
		"MaxUserDurationInSeconds":       sessionTimeoutSeconds,
		"VpcConfig": Json{
			"SubnetIds":        isolatedSubnets(),
			"SecurityGroupIds": []any{GetAtt{LogicalName: idAppStreamSecurityGroup, Attribute: "GroupId"}},
		},
	}, idServiceRoles)

	s.add(idStack, "AWS::AppStream::Stack", Json{
		"Name":              stackName(),
		"Description":       "AppStream stack for Data Sandbox",
		"DisplayName":       "AppStream Data Sandbox Stack",
		"StorageConnectors": []any{Json{"ConnectorType": "HOMEFOLDERS"}},
		"UserSettings":      userSettings,
	})

	s.add(idFleetAssociation, "AWS::AppStream::StackFleetAssociation", Json{
		"FleetName": Ref{LogicalName: idFleet},
		"StackName": Ref{LogicalName: idStack},
	}, idStack, idFleet)

	customResource(s, idFleetRoleAssignment, provision.ActionFleetRole, Json{
		"FleetName": Ref{LogicalName: idFleet},
		"RoleArn":   arnOf(idFleetRole),
	}, idProvisionerLogGroup)

	customResource(s, idUsageReports, provision.ActionUsageReports, Json{}, idProvisionerLogGroup)

	customResource(s, idStartFleet, provision.ActionStartFleet, Json{
		"FleetName": Ref{LogicalName: idFleet},
	}, idFleetRoleAssignment, idFleetAssociation)
}
