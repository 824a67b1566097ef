// internal/app/system/txn/txn.go

// Package txn helps the Mongo adapter decide when multi-document
// transactions (and change streams, which share the same server
// requirements) are unavailable and a fallback path is needed.
package txn

import (
	"errors"
	"strings"

	"go.mongodb.org/mongo-driver/mongo"
)

// IsNotSupported reports whether err indicates the server cannot run
// multi-document transactions, typically because it is a standalone
// deployment rather than a replica set.
func IsNotSupported(err error) bool {
	if err == nil {
		return false
	}

	var cmdErr mongo.CommandError
	if errors.As(err, &cmdErr) {
		// 20 IllegalOperation, 51 (legacy illegal operation),
		// 263 OperationNotSupportedInTransaction
		switch cmdErr.Code {
		case 20, 51, 263:
			return true
		}
	}

	msg := strings.ToLower(err.Error())
	if strings.Contains(msg, "transaction") &&
		(strings.Contains(msg, "replica set") || strings.Contains(msg, "session")) {
		return true
	}
	if strings.Contains(msg, "session") && strings.Contains(msg, "not supported") {
		return true
	}
	if strings.Contains(msg, "illegal operation") {
		return true
	}
	return false
}
