package main

import (
	"context"
	"log"

	"github.com/aws/aws-lambda-go/lambda"

	"github.com/tyler180/appstream-data-sandbox/internal/app/provisioner"
)

func main() {
	log.SetFlags(0)
	fn, err := provisioner.New(context.Background())
	if err != nil {
		log.Fatalf("provisioner: %v", err)
	}
	lambda.Start(fn)
}
