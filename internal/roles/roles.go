// Package roles makes sure the account-level service roles AppStream needs exist.
package roles

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/iam"
	iamtypes "github.com/aws/aws-sdk-go-v2/service/iam/types"
	"github.com/aws/smithy-go"
	"github.com/lex00/wetwire-aws-go/intrinsics"
)

const servicePath = "/service-role/"

type IAMAPI interface {
	GetRole(ctx context.Context, params *iam.GetRoleInput, optFns ...func(*iam.Options)) (*iam.GetRoleOutput, error)
	CreateRole(ctx context.Context, params *iam.CreateRoleInput, optFns ...func(*iam.Options)) (*iam.CreateRoleOutput, error)
	AttachRolePolicy(ctx context.Context, params *iam.AttachRolePolicyInput, optFns ...func(*iam.Options)) (*iam.AttachRolePolicyOutput, error)
}

var _ IAMAPI = (*iam.Client)(nil)

// Spec describes one service role.
type Spec struct {
	Name        string
	Principal   string
	Description string
}

// PolicyARN is the AWS managed policy that shares the role's name.
func (s Spec) PolicyARN() string {
	return "arn:aws:iam::aws:policy/service-role/" + s.Name
}

// TrustPolicy lets the spec's service principal assume the role.
func (s Spec) TrustPolicy() intrinsics.PolicyDocument {
	doc := intrinsics.NewPolicyDocument()
	doc.Statement = []any{intrinsics.PolicyStatement{
		Effect:    "Allow",
		Principal: intrinsics.ServicePrincipal{s.Principal},
		Action:    "sts:AssumeRole",
	}}
	return doc
}

// Default lists the roles AppStream fleets and their scaling policies rely on.
var Default = []Spec{
	{
		Name:        "AmazonAppStreamServiceAccess",
		Principal:   "appstream.amazonaws.com",
		Description: "Amazon AppStream Service Access Role",
	},
	{
		Name:        "ApplicationAutoScalingForAmazonAppStreamAccess",
		Principal:   "application-autoscaling.amazonaws.com",
		Description: "Application Auto Scaling for Amazon AppStream Access",
	},
}

// Result reports what Ensure did for a role.
type Result struct {
	Role    string
	Created bool
}

type Bootstrapper struct {
	Client IAMAPI
	Specs  []Spec
	Logger *slog.Logger
}

func NewBootstrapper(cl IAMAPI, log *slog.Logger) *Bootstrapper {
	return &Bootstrapper{Client: cl, Specs: Default, Logger: log}
}

// Ensure creates every missing role and attaches its managed policy. Existing roles are left
// untouched. Lookup failures other than NoSuchEntity stop the run.
func (b *Bootstrapper) Ensure(ctx context.Context) ([]Result, error) {
	log := b.Logger
	if log == nil {
		log = slog.Default()
	}
	results := make([]Result, 0, len(b.Specs))
	for _, s := range b.Specs {
		_, err := b.Client.GetRole(ctx, &iam.GetRoleInput{RoleName: aws.String(s.Name)})
		switch {
		case err == nil:
			log.Info("service role already exists", "role", s.Name)
			results = append(results, Result{Role: s.Name})
			continue
		case !IsNotFound(err):
			return results, fmt.Errorf("get role %s: %w", s.Name, err)
		}

		log.Info("service role missing, creating", "role", s.Name)
		if err := b.create(ctx, s); err != nil {
			return results, err
		}
		results = append(results, Result{Role: s.Name, Created: true})
	}
	return results, nil
}

func (b *Bootstrapper) create(ctx context.Context, s Spec) error {
	trust, err := json.Marshal(s.TrustPolicy())
	if err != nil {
		return fmt.Errorf("trust policy %s: %w", s.Name, err)
	}
	if _, err := b.Client.CreateRole(ctx, &iam.CreateRoleInput{
		Path:                     aws.String(servicePath),
		RoleName:                 aws.String(s.Name),
		AssumeRolePolicyDocument: aws.String(string(trust)),
		Description:              aws.String(s.Description),
	}); err != nil {
		return fmt.Errorf("create role %s: %w", s.Name, err)
	}
	if _, err := b.Client.AttachRolePolicy(ctx, &iam.AttachRolePolicyInput{
		RoleName:  aws.String(s.Name),
		PolicyArn: aws.String(s.PolicyARN()),
	}); err != nil {
		return fmt.Errorf("attach %s to %s: %w", s.PolicyARN(), s.Name, err)
	}
	return nil
}

// IsNotFound reports whether err means the IAM entity does not exist.
func IsNotFound(err error) bool {
	var nse *iamtypes.NoSuchEntityException
	if errors.As(err, &nse) {
		return true
	}
	var ae smithy.APIError
	return errors.As(err, &ae) && ae.ErrorCode() == "NoSuchEntity"
}
