// Package serviceroles is the Lambda that bootstraps the AppStream service roles. It runs either
// as a CloudFormation custom resource or from a plain invocation whose payload is ignored.
package serviceroles

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/aws/aws-lambda-go/cfn"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/iam"

	"github.com/tyler180/appstream-data-sandbox/internal/config"
	"github.com/tyler180/appstream-data-sandbox/internal/logging"
	"github.com/tyler180/appstream-data-sandbox/internal/provision"
	"github.com/tyler180/appstream-data-sandbox/internal/roles"
)

type Handler struct {
	Roles  provision.RoleEnsurer
	Logger *slog.Logger
	// respond answers a custom-resource request; cfn.LambdaWrap posts to the pre-signed ResponseURL.
	respond func(ctx context.Context, ev cfn.Event) (string, error)
}

func New(ctx context.Context) (*Handler, error) {
	log := logging.New(config.LogLevel())
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("aws config: %w", err)
	}
	return NewHandler(roles.NewBootstrapper(iam.NewFromConfig(awsCfg), log), log), nil
}

func NewHandler(r provision.RoleEnsurer, log *slog.Logger) *Handler {
	h := &Handler{Roles: r, Logger: log}
	p := &provision.Provisioner{Roles: r, Logger: log}
	h.respond = cfn.LambdaWrap(func(ctx context.Context, ev cfn.Event) (string, map[string]interface{}, error) {
		if a, _ := ev.ResourceProperties["Action"].(string); a != "" && a != provision.ActionServiceRoles {
			return ev.PhysicalResourceID, nil, fmt.Errorf("%w: %q", provision.ErrUnknownAction, a)
		}
		if ev.ResourceProperties == nil {
			ev.ResourceProperties = map[string]interface{}{}
		}
		ev.ResourceProperties["Action"] = provision.ActionServiceRoles
		return p.Handle(ctx, ev)
	})
	return h
}

// Result is returned to direct invokers.
type Result struct {
	Roles []roles.Result `json:"roles"`
}

// Handle accepts any payload. Custom-resource requests are answered through CloudFormation;
// everything else runs the bootstrap directly.
func (h *Handler) Handle(ctx context.Context, raw json.RawMessage) (*Result, error) {
	log := logging.WithRequest(ctx, h.logger())

	if ev, ok := customResourceEvent(raw); ok {
		log.Info("custom resource invocation", "request_type", string(ev.RequestType))
		reason, err := h.respond(ctx, ev)
		if err != nil {
			return nil, fmt.Errorf("custom resource response (%s): %w", reason, err)
		}
		return &Result{}, nil
	}

	res, err := h.Roles.Ensure(ctx)
	if err != nil {
		log.Error("service role bootstrap failed", "err", err)
		return nil, err
	}
	return &Result{Roles: res}, nil
}

func (h *Handler) logger() *slog.Logger {
	if h.Logger == nil {
		return slog.Default()
	}
	return h.Logger
}

func customResourceEvent(raw json.RawMessage) (cfn.Event, bool) {
	var ev cfn.Event
	if len(raw) == 0 || json.Unmarshal(raw, &ev) != nil {
		return cfn.Event{}, false
	}
	return ev, ev.RequestType != "" && ev.ResponseURL != ""
}
