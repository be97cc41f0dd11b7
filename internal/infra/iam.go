package infra

import (
	. "github.com/lex00/wetwire-aws-go/intrinsics"
)

func assumeRole(principal any, action string, cond Json) PolicyDocument {
	doc := NewPolicyDocument()
	doc.Statement = []any{PolicyStatement{
		Effect:    "Allow",
		Principal: principal,
		Action:    action,
		Condition: cond,
	}}
	return doc
}

func serviceTrust(service string) PolicyDocument {
	return assumeRole(ServicePrincipal{service}, "sts:AssumeRole", nil)
}

func allow(actions []any, resources ...any) PolicyStatement {
	return PolicyStatement{Effect: "Allow", Action: actions, Resource: resources}
}

// inline builds an entry of AWS::IAM::Role Policies.
func inline(name string, statements ...any) Json {
	doc := NewPolicyDocument()
	doc.Statement = statements
	return Json{"PolicyName": name, "PolicyDocument": doc}
}

func managedPolicy(name string) Sub {
	return Sub{String: "arn:${AWS::Partition}:iam::aws:policy/" + name}
}

func arnOf(id string) GetAtt { return GetAtt{LogicalName: id, Attribute: "Arn"} }
