package infra

import (
	. "github.com/lex00/wetwire-aws-go/intrinsics"
)

const (
	idVpc                   = "Vpc"
	idSubnetA               = "IsolatedSubnetA"
	idSubnetB               = "IsolatedSubnetB"
	idRouteTable            = "IsolatedRouteTable"
	idSubnetARouteAssoc     = "IsolatedSubnetARouteTableAssociation"
	idSubnetBRouteAssoc     = "IsolatedSubnetBRouteTableAssociation"
	idS3GatewayEndpoint     = "S3GatewayEndpoint"
	idEndpointSecurityGroup = "EndpointSecurityGroup"
	idSsmEndpoint           = "SsmEndpoint"
	idNotebookEndpoint      = "NotebookEndpoint"
)

// ----------------------------------------------------------------------------
// Network: no internet or NAT gateway; AWS APIs are reached through endpoints.
// ----------------------------------------------------------------------------

func nameTag(suffix string) Tag {
	return Tag{Key: "Name", Value: Sub{String: "${AWS::StackName}-" + suffix}}
}

func isolatedSubnets() []any {
	return []any{Ref{LogicalName: idSubnetA}, Ref{LogicalName: idSubnetB}}
}

func addNetwork(s *template) {
	s.add(idVpc, "AWS::EC2::VPC", Json{
		"CidrBlock":          Param(pVpcCidr),
		"EnableDnsHostnames": true,
		"EnableDnsSupport":   true,
		"Tags":               []any{nameTag("vpc")},
	})

	for _, sn := range []struct {
		id, cidr, assoc, name string
		az                    Select
	}{
		{idSubnetA, pSubnetACidr, idSubnetARouteAssoc, "isolated-a", Select{Index: 0, List: GetAZs{}}},
		{idSubnetB, pSubnetBCidr, idSubnetBRouteAssoc, "isolated-b", Select{Index: 1, List: GetAZs{}}},
	} {
		s.add(sn.id, "AWS::EC2::Subnet", Json{
			"VpcId":               Ref{LogicalName: idVpc},
			"CidrBlock":           Param(sn.cidr),
			"AvailabilityZone":    sn.az,
			"MapPublicIpOnLaunch": false,
			"Tags":                []any{nameTag(sn.name)},
		})
		s.add(sn.assoc, "AWS::EC2::SubnetRouteTableAssociation", Json{
			"SubnetId":     Ref{LogicalName: sn.id},
			"RouteTableId": Ref{LogicalName: idRouteTable},
		})
	}

	s.add(idRouteTable, "AWS::EC2::RouteTable", Json{
		"VpcId": Ref{LogicalName: idVpc},
		"Tags":  []any{nameTag("isolated")},
	})

	s.add(idS3GatewayEndpoint, "AWS::EC2::VPCEndpoint", Json{
		"VpcId":           Ref{LogicalName: idVpc},
		"ServiceName":     Sub{String: "com.amazonaws.${AWS::Region}.s3"},
		"VpcEndpointType": "Gateway",
		"RouteTableIds":   []any{Ref{LogicalName: idRouteTable}},
	})

	s.add(idEndpointSecurityGroup, "AWS::EC2::SecurityGroup", Json{
		"GroupDescription": "HTTPS from inside the sandbox VPC to interface endpoints",
		"VpcId":            Ref{LogicalName: idVpc},
		"SecurityGroupIngress": []any{Json{
			"IpProtocol":  "tcp",
			"FromPort":    443,
			"ToPort":      443,
			"CidrIp":      Param(pVpcCidr),
			"Description": "VPC clients",
		}},
	})

	for id, service := range map[string]string{
		idSsmEndpoint:      "com.amazonaws.${AWS::Region}.ssm",
		idNotebookEndpoint: "aws.sagemaker.${AWS::Region}.notebook",
	} {
		s.add(id, "AWS::EC2::VPCEndpoint", Json{
			"VpcId":             Ref{LogicalName: idVpc},
			"ServiceName":       Sub{String: service},
			"VpcEndpointType":   "Interface",
			"PrivateDnsEnabled": true,
			"SubnetIds":         isolatedSubnets(),
			"SecurityGroupIds":  []any{GetAtt{LogicalName: idEndpointSecurityGroup, Attribute: "GroupId"}},
		})
	}
}
