package infra

import (
	. "github.com/lex00/wetwire-aws-go/intrinsics"
)

// Parameter names.
const (
	pEnvironmentName    = "EnvironmentName"
	pImageName          = "ImageName"
	pInstanceType       = "InstanceType"
	pFleetType          = "FleetType"
	pVpcCidr            = "VpcCidr"
	pSubnetACidr        = "SubnetACidr"
	pSubnetBCidr        = "SubnetBCidr"
	pIdpName            = "IdpName"
	pHomeFolderPrefix   = "HomeFolderBucketPrefix"
	pNotebookName       = "NotebookInstanceName"
	pArtifactBucket     = "ArtifactBucket"
	pValidatorCodeKey   = "ValidatorCodeKey"
	pProvisionerCodeKey = "ProvisionerCodeKey"
	pRolesCodeKey       = "ServiceRolesCodeKey"
)

func addParameters(s *template, o Options) {
	s.param(pEnvironmentName, "String", "Prefix for the AppStream fleet and stack names", o.EnvironmentName)
	s.param(pImageName, "String", "AppStream image the fleet streams", o.ImageName)
	s.param(pInstanceType, "String", "AppStream fleet instance type", o.InstanceType)
	s.param(pFleetType, "String", "AppStream fleet type", o.FleetType, "ON_DEMAND", "ALWAYS_ON")
	s.param(pVpcCidr, "String", "CIDR block of the sandbox VPC", o.VpcCidr)
	s.param(pSubnetACidr, "String", "CIDR block of the first isolated subnet", o.SubnetACidr)
	s.param(pSubnetBCidr, "String", "CIDR block of the second isolated subnet", o.SubnetBCidr)
	s.param(pIdpName, "String", "Name of the IAM SAML identity provider", o.IdpName)
	s.param(pHomeFolderPrefix, "String", "AppStream home-folder bucket name without the -<region>-<account> suffix", o.HomeFolderPrefix)
	s.param(pNotebookName, "String", "SageMaker notebook instance name", o.NotebookName)
	s.param(pArtifactBucket, "String", "Bucket holding the Lambda deployment packages", o.ArtifactBucket)
	s.param(pValidatorCodeKey, "String", "Object key of the session validator package", o.ValidatorCodeKey)
	s.param(pProvisionerCodeKey, "String", "Object key of the provisioner package", o.ProvisionerCodeKey)
	s.param(pRolesCodeKey, "String", "Object key of the service-roles package", o.RolesCodeKey)
}

// homeFolderBucket is the name AppStream gives the home-folder bucket in this account and region.
func homeFolderBucket() Sub {
	return Sub{String: "${" + pHomeFolderPrefix + "}-${AWS::Region}-${AWS::AccountId}"}
}

func homeFolderBucketArn(suffix string) Sub {
	return Sub{String: "arn:${AWS::Partition}:s3:::${" + pHomeFolderPrefix + "}-${AWS::Region}-${AWS::AccountId}" + suffix}
}

func fleetName() Sub { return Sub{String: "${" + pEnvironmentName + "}-fleet"} }
func stackName() Sub { return Sub{String: "${" + pEnvironmentName + "}-stack"} }
