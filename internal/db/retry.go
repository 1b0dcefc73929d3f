package db

import (
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
)

// Operation is a function that performs an action and returns an error if it fails.
type Operation func() error

// IsDuplicateKeyError is a function that checks if an error is a duplicate key error.
type IsDuplicateKeyError func(err error) bool

const DefaultMaxRetries = 3

// Try executes an operation with default retry settings for duplicate key errors.
func Try(op Operation) error {
	return WithRetries(op, DefaultMaxRetries, IsMongoDuplicateKeyError)
}

// WithRetries executes an operation, retrying up to maxRetries times when the
// failure is a duplicate key error. Any other error returns immediately.
func WithRetries(op Operation, maxRetries int, isDuplicateKey IsDuplicateKeyError) error {
	var err error
	for attempt := 0; attempt <= maxRetries; attempt++ {
		err = op()
		if err == nil {
			return nil
		}
		if attempt == maxRetries {
			break
		}
		if !isDuplicateKey(err) {
			return err
		}
		// Simple incremental backoff between attempts
		time.Sleep(time.Duration(50*(attempt+1)) * time.Millisecond)
	}
	return err
}

// IsMongoDuplicateKeyError checks if an error from MongoDB is a duplicate key error (code 11000).
func IsMongoDuplicateKeyError(err error) bool {
	var we mongo.WriteException
	if errors.As(err, &we) {
		for _, e := range we.WriteErrors {
			if e.Code == 11000 {
				return true
			}
		}
	}
	var bwe mongo.BulkWriteException
	if errors.As(err, &bwe) {
		for _, e := range bwe.WriteErrors {
			if e.Code == 11000 {
				return true
			}
		}
	}
	return false
}
