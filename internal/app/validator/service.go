// Package validator is the S3-triggered session validator Lambda.
package validator

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aws/aws-lambda-go/events"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/appstream"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/sagemaker"

	"github.com/tyler180/appstream-data-sandbox/internal/config"
	"github.com/tyler180/appstream-data-sandbox/internal/logging"
	"github.com/tyler180/appstream-data-sandbox/internal/notebook"
	"github.com/tyler180/appstream-data-sandbox/internal/registry"
	"github.com/tyler180/appstream-data-sandbox/internal/session"
	"github.com/tyler180/appstream-data-sandbox/internal/store"
)

// Processor handles one notification.
type Processor interface {
	Process(ctx context.Context, n session.Notification) (session.Outcome, error)
}

// Auditor records validation decisions.
type Auditor interface {
	Put(ctx context.Context, recs ...store.AuditRecord) error
}

type Handler struct {
	Processor Processor
	Audit     Auditor // nil disables the audit trail
	Logger    *slog.Logger
}

// New wires a Handler from the environment and the default AWS credential chain.
func New(ctx context.Context) (*Handler, error) {
	cfg, err := config.LoadValidator()
	if err != nil {
		return nil, err
	}
	log := logging.New(cfg.LogLevel)

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("aws config: %w", err)
	}

	h := &Handler{
		Processor: &session.Validator{
			Store:    store.NewObjects(s3.NewFromConfig(awsCfg)),
			Registry: registry.New(appstream.NewFromConfig(awsCfg)),
			Issuer:   notebook.NewPresigner(sagemaker.NewFromConfig(awsCfg)),
			Notebook: cfg.NotebookName,
			TTL:      cfg.URLTTL,
			Logger:   log,
		},
		Logger: log,
	}
	if cfg.AuditTable != "" {
		h.Audit = store.NewAudit(dynamodb.NewFromConfig(awsCfg), cfg.AuditTable)
	}
	log.Info("validator configured", "notebook", cfg.NotebookName, "url_ttl", cfg.URLTTL.String(), "audit", cfg.AuditTable != "")
	return h, nil
}

// Handle processes every record of the event in order and stops at the first failure.
// Records handled before the failure are still audited.
func (h *Handler) Handle(ctx context.Context, ev events.S3Event) error {
	log := logging.WithRequest(ctx, h.logger())

	ns, err := session.Notifications(ev)
	if err != nil {
		return err
	}
	if len(ns) == 0 {
		log.Warn("event carried no records")
		return nil
	}

	recs := make([]store.AuditRecord, 0, len(ns))
	defer func() { h.audit(ctx, log, recs) }()

	for i, n := range ns {
		out, err := h.Processor.Process(ctx, n)
		if err != nil {
			log.Error("record failed", "record", i, "bucket", n.Bucket, "key", n.Key, "err", err)
			return fmt.Errorf("record %d s3://%s/%s: %w", i, n.Bucket, n.Key, err)
		}
		recs = append(recs, auditRecord(out))
	}
	log.Info("event processed", "records", len(ns))
	return nil
}

func (h *Handler) audit(ctx context.Context, log *slog.Logger, recs []store.AuditRecord) {
	if h.Audit == nil || len(recs) == 0 {
		return
	}
	if err := h.Audit.Put(ctx, recs...); err != nil {
		log.Warn("audit write failed", "records", len(recs), "err", err)
	}
}

func (h *Handler) logger() *slog.Logger {
	if h.Logger == nil {
		return slog.Default()
	}
	return h.Logger
}

func auditRecord(out session.Outcome) store.AuditRecord {
	return store.AuditRecord{
		Stack:     out.Request.StackName,
		Fleet:     out.Request.FleetName,
		User:      out.Request.User,
		AuthType:  out.Request.AuthType,
		Valid:     out.Valid,
		Bucket:    out.Bucket,
		OutputKey: out.OutputKey,
	}
}
