package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/tyler180/appstream-data-sandbox/internal/infra"
)

func newSynthCmd() *cobra.Command {
	var (
		format string
		out    string
	)
	o := infra.DefaultOptions()

	cmd := &cobra.Command{
		Use:   "synth",
		Short: "Write the sandbox template",
		Long: `Synth renders the sandbox template. Flags set parameter defaults; every value can
still be overridden when the stack is deployed.

Examples:
    sandbox-synth synth
    sandbox-synth synth --format yaml --out sandbox.yaml
    sandbox-synth synth --appstream_fleet_type ALWAYS_ON --idp_name Okta`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if o.FleetType != "ON_DEMAND" && o.FleetType != "ALWAYS_ON" {
				return fmt.Errorf("appstream_fleet_type must be ON_DEMAND or ALWAYS_ON, got %q", o.FleetType)
			}
			b, err := infra.Encode(infra.Build(o), format)
			if err != nil {
				return err
			}
			if out == "" || out == "-" {
				_, err = cmd.OutOrStdout().Write(b)
				return err
			}
			if err := os.WriteFile(out, b, 0o644); err != nil {
				return fmt.Errorf("write %s: %w", out, err)
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "wrote %s (%d bytes)\n", out, len(b))
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVarP(&format, "format", "f", "json", "Output format: json or yaml")
	f.StringVarP(&out, "out", "o", "", "Output file (default: stdout)")

	// Same keys as the CDK context the sandbox was first deployed with.
	f.StringVar(&o.EnvironmentName, "appstream_environment_name", o.EnvironmentName, "Prefix for fleet and stack names")
	f.StringVar(&o.ImageName, "appstream_image_name", o.ImageName, "AppStream image name")
	f.StringVar(&o.InstanceType, "appstream_instance_type", o.InstanceType, "AppStream instance type")
	f.StringVar(&o.FleetType, "appstream_fleet_type", o.FleetType, "ON_DEMAND or ALWAYS_ON")
	f.StringVar(&o.VpcCidr, "vpc_cidr", o.VpcCidr, "VPC CIDR block")
	f.StringVar(&o.SubnetACidr, "subnet_a_cidr", o.SubnetACidr, "First isolated subnet CIDR")
	f.StringVar(&o.SubnetBCidr, "subnet_b_cidr", o.SubnetBCidr, "Second isolated subnet CIDR")
	f.StringVar(&o.IdpName, "idp_name", o.IdpName, "IAM SAML identity provider name")
	f.StringVar(&o.HomeFolderPrefix, "home_folder_prefix", o.HomeFolderPrefix, "AppStream home-folder bucket prefix")
	f.StringVar(&o.NotebookName, "notebook_name", o.NotebookName, "SageMaker notebook instance name")
	f.StringVar(&o.ArtifactBucket, "artifact_bucket", o.ArtifactBucket, "Bucket with the Lambda packages")
	f.StringVar(&o.ValidatorCodeKey, "validator_code_key", o.ValidatorCodeKey, "Session validator package key")
	f.StringVar(&o.ProvisionerCodeKey, "provisioner_code_key", o.ProvisionerCodeKey, "Provisioner package key")
	f.StringVar(&o.RolesCodeKey, "service_roles_code_key", o.RolesCodeKey, "Service-roles package key")
	return cmd
}
