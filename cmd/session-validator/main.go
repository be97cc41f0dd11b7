package main

import (
	"context"
	"log"

	"github.com/aws/aws-lambda-go/lambda"

	"github.com/tyler180/appstream-data-sandbox/internal/app/validator"
)

func main() {
	log.SetFlags(0)
	h, err := validator.New(context.Background())
	if err != nil {
		log.Fatalf("session-validator: %v", err)
	}
	lambda.Start(h.Handle)
}
