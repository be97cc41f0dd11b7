// Package infra declares the data sandbox as a single CloudFormation template.
//
// Layout:
//
//	VPC (isolated subnets only, S3 gateway + SSM/SageMaker interface endpoints)
//	|
//	+-- AppStream fleet + stack (home folders) --> session descriptor lands in the home-folder bucket
//	|                                               |
//	|                                               +-- S3 notification --> session validator Lambda
//	|                                                                        |
//	+-- SageMaker notebook <-- presigned URL written back to the home folder +
//
// Settings with no native resource type (bucket notification, fleet role, usage reports,
// fleet start, service roles) are Custom:: resources served by the provisioner and
// service-roles Lambdas.
package infra

import (
	"fmt"
	"sort"

	wetwire "github.com/lex00/wetwire-aws-go"
	. "github.com/lex00/wetwire-aws-go/intrinsics"
)

// Options supplies parameter defaults. Every value can still be overridden at deploy time.
type Options struct {
	EnvironmentName    string
	ImageName          string
	InstanceType       string
	FleetType          string
	VpcCidr            string
	SubnetACidr        string
	SubnetBCidr        string
	IdpName            string
	HomeFolderPrefix   string
	NotebookName       string
	ArtifactBucket     string
	ValidatorCodeKey   string
	ProvisionerCodeKey string
	RolesCodeKey       string
}

func DefaultOptions() Options {
	return Options{
		EnvironmentName:    "data-sandbox",
		InstanceType:       "stream.standard.medium",
		FleetType:          "ON_DEMAND",
		VpcCidr:            "10.0.0.0/16",
		SubnetACidr:        "10.0.0.0/24",
		SubnetBCidr:        "10.0.1.0/24",
		IdpName:            "DataSandboxIdP",
		HomeFolderPrefix:   "appstream2-36fb080bb8",
		NotebookName:       "Data-Sandbox-Notebook",
		ValidatorCodeKey:   "lambda/session-validator.zip",
		ProvisionerCodeKey: "lambda/provisioner.zip",
		RolesCodeKey:       "lambda/service-roles.zip",
	}
}

// template collects the sections while Build runs.
type template struct {
	t *wetwire.Template
}

func (s *template) add(id, typ string, props Json, deps ...string) {
	if _, dup := s.t.Resources[id]; dup {
		panic(fmt.Sprintf("infra: duplicate logical id %s", id))
	}
	s.t.Resources[id] = wetwire.ResourceDef{Type: typ, Properties: props, DependsOn: deps}
}

// param leaves Default unset for empty strings so the value must be supplied at deploy time.
func (s *template) param(name, typ, desc string, def string, allowed ...string) {
	p := wetwire.Parameter{Type: typ, Description: desc, AllowedValues: allowed}
	if def != "" {
		p.Default = def
	}
	s.t.Parameters[name] = p
}

func (s *template) output(name, desc string, v any) {
	s.t.Outputs[name] = wetwire.Output{Description: desc, Value: v}
}

// Build returns the full sandbox template.
func Build(o Options) *wetwire.Template {
	s := &template{t: &wetwire.Template{
		AWSTemplateFormatVersion: "2010-09-09",
		Description:              "AppStream data sandbox: isolated streaming fleet with session-validated notebook access",
		Parameters:               map[string]wetwire.Parameter{},
		Resources:                map[string]wetwire.ResourceDef{},
		Outputs:                  map[string]wetwire.Output{},
	}}

	addParameters(s, o)
	addNetwork(s)
	addStorage(s)
	addServiceRoles(s)
	addProvisioner(s)
	addAppStream(s)
	addValidator(s)
	addNotebook(s)
	addSaml(s)
	addOutputs(s)
	return s.t
}

// ResourceSummary is one row of the resources listing.
type ResourceSummary struct {
	LogicalID string `json:"logicalId"`
	Type      string `json:"type"`
}

// Resources lists the template's resources sorted by logical id.
func Resources(t *wetwire.Template) []ResourceSummary {
	out := make([]ResourceSummary, 0, len(t.Resources))
	for id, r := range t.Resources {
		out = append(out, ResourceSummary{LogicalID: id, Type: r.Type})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].LogicalID < out[j].LogicalID })
	return out
}
