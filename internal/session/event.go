package session

import (
	"fmt"
	"net/url"

	"github.com/aws/aws-lambda-go/events"
)

// Notifications turns an S3 event into one Notification per record, in delivery order.
// Object keys in S3 events are form-encoded.
func Notifications(ev events.S3Event) ([]Notification, error) {
	out := make([]Notification, 0, len(ev.Records))
	for i, rec := range ev.Records {
		key, err := url.QueryUnescape(rec.S3.Object.Key)
		if err != nil {
			return nil, fmt.Errorf("%w: record %d key %q: %v", ErrMalformedInput, i, rec.S3.Object.Key, err)
		}
		if rec.S3.Bucket.Name == "" || key == "" {
			return nil, fmt.Errorf("%w: record %d has no bucket or key", ErrMalformedInput, i)
		}
		out = append(out, Notification{Bucket: rec.S3.Bucket.Name, Key: key})
	}
	return out, nil
}
