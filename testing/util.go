package testing

import (
	"testing"

	"github.com/mergefield/fieldclip/kit/platform/errors"
)

func diffErrors(name string, actual, expected error, t *testing.T) {
	t.Helper()
	if expected == nil && actual == nil {
		return
	}

	if expected == nil && actual != nil {
		t.Fatalf("%s failed, unexpected error %s", name, actual.Error())
	}

	if expected != nil && actual == nil {
		t.Fatalf("%s failed, expected error %s but received nil", name, expected.Error())
	}

	if errors.ErrorCode(expected) != errors.ErrorCode(actual) {
		t.Fatalf("%s failed, expected error code %q but received %q", name, errors.ErrorCode(expected), errors.ErrorCode(actual))
	}

	if errors.ErrorOp(expected) != errors.ErrorOp(actual) {
		t.Fatalf("%s failed, expected error op %q but received %q", name, errors.ErrorOp(expected), errors.ErrorOp(actual))
	}

	if errors.ErrorMessage(expected) != errors.ErrorMessage(actual) {
		t.Fatalf("%s failed, expected error message %q but received %q", name, errors.ErrorMessage(expected), errors.ErrorMessage(actual))
	}
}
