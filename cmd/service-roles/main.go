package main

import (
	"context"
	"log"

	"github.com/aws/aws-lambda-go/lambda"

	"github.com/tyler180/appstream-data-sandbox/internal/app/serviceroles"
)

func main() {
	log.SetFlags(0)
	h, err := serviceroles.New(context.Background())
	if err != nil {
		log.Fatalf("service-roles: %v", err)
	}
	lambda.Start(h.Handle)
}
