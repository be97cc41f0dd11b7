// Package notebook issues presigned SageMaker notebook URLs.
package notebook

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sagemaker"

	"github.com/tyler180/appstream-data-sandbox/internal/session"
)

// SageMaker accepts session durations in this range.
const (
	MinSessionTTL = 1800 * time.Second
	MaxSessionTTL = 43200 * time.Second
)

type SageMakerAPI interface {
	CreatePresignedNotebookInstanceUrl(ctx context.Context, params *sagemaker.CreatePresignedNotebookInstanceUrlInput, optFns ...func(*sagemaker.Options)) (*sagemaker.CreatePresignedNotebookInstanceUrlOutput, error)
}

var (
	_ SageMakerAPI      = (*sagemaker.Client)(nil)
	_ session.URLIssuer = (*Presigner)(nil)
)

type Presigner struct {
	Client SageMakerAPI
}

func NewPresigner(cl SageMakerAPI) *Presigner { return &Presigner{Client: cl} }

// Issue returns an authorized URL for the notebook. ttl is clamped to what SageMaker allows.
func (p *Presigner) Issue(ctx context.Context, notebook string, ttl time.Duration) (string, error) {
	if notebook == "" {
		return "", errors.New("notebook instance name is required")
	}
	out, err := p.Client.CreatePresignedNotebookInstanceUrl(ctx, &sagemaker.CreatePresignedNotebookInstanceUrlInput{
		NotebookInstanceName:               aws.String(notebook),
		SessionExpirationDurationInSeconds: aws.Int32(int32(clamp(ttl) / time.Second)),
	})
	if err != nil {
		return "", err
	}
	url := aws.ToString(out.AuthorizedUrl)
	if url == "" {
		return "", fmt.Errorf("empty authorized url for notebook %s", notebook)
	}
	return url, nil
}

func clamp(ttl time.Duration) time.Duration {
	switch {
	case ttl < MinSessionTTL:
		return MinSessionTTL
	case ttl > MaxSessionTTL:
		return MaxSessionTTL
	}
	return ttl
}
