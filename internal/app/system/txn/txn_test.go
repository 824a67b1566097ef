package txn_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/dalemusser/remindhub/internal/app/system/txn"
	"go.mongodb.org/mongo-driver/mongo"
)

func TestIsNotSupported_Nil(t *testing.T) {
	if txn.IsNotSupported(nil) {
		t.Error("nil error should not be reported as unsupported")
	}
}

func TestIsNotSupported_CommandErrorCodes(t *testing.T) {
	cases := []struct {
		code int32
		want bool
	}{
		{20, true},
		{51, true},
		{263, true},
		{11000, false}, // duplicate key
		{0, false},
	}
	for _, tc := range cases {
		err := mongo.CommandError{Code: tc.code, Message: "command failed"}
		if got := txn.IsNotSupported(err); got != tc.want {
			t.Errorf("code %d: got %v, want %v", tc.code, got, tc.want)
		}
	}
}

func TestIsNotSupported_WrappedCommandError(t *testing.T) {
	err := fmt.Errorf("apply batch: %w", mongo.CommandError{Code: 263, Message: "nope"})
	if !txn.IsNotSupported(err) {
		t.Error("wrapped command error should be detected")
	}
}

func TestIsNotSupported_MessageHeuristics(t *testing.T) {
	cases := []struct {
		msg  string
		want bool
	}{
		{"Transaction numbers are only allowed on a replica set member or mongos", true},
		{"Sessions are not supported by this MongoDB deployment", true},
		{"illegal operation for this deployment", true},
		{"connection refused", false},
		{"context deadline exceeded", false},
	}
	for _, tc := range cases {
		if got := txn.IsNotSupported(errors.New(tc.msg)); got != tc.want {
			t.Errorf("%q: got %v, want %v", tc.msg, got, tc.want)
		}
	}
}
