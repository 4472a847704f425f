package storage

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/aws/smithy-go"
	"github.com/minio/minio-go/v7"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Kind
	}{
		{name: "minio no such bucket", err: minio.ErrorResponse{Code: "NoSuchBucket", Message: "bucket missing"}, want: KindBucketNotFound},
		{name: "minio bad key", err: minio.ErrorResponse{Code: "InvalidAccessKeyId", Message: "bad key"}, want: KindCredentialsMissing},
		{name: "wrapped minio access denied", err: fmt.Errorf("put: %w", minio.ErrorResponse{Code: "AccessDenied"}), want: KindPermissionDenied},
		{name: "aws signature", err: &smithy.GenericAPIError{Code: "SignatureDoesNotMatch", Message: "nope"}, want: KindCredentialsMissing},
		{name: "aws slow down", err: &smithy.GenericAPIError{Code: "SlowDown"}, want: KindStoreUnavailable},
		{name: "deadline", err: fmt.Errorf("put: %w", context.DeadlineExceeded), want: KindStoreUnavailable},
		{name: "credential chain", err: errors.New("failed to retrieve credentials"), want: KindCredentialsMissing},
		{name: "connection refused", err: errors.New("dial tcp 127.0.0.1:9000: connect: connection refused"), want: KindStoreUnavailable},
		{name: "unrecognized", err: errors.New("boom"), want: KindUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(tt.err)
			if got.Kind != tt.want {
				t.Fatalf("Classify() kind = %s, want %s", got.Kind, tt.want)
			}
			if !errors.Is(got, tt.err) {
				t.Fatalf("Classify() lost the original error")
			}
		})
	}
}

func TestClassify_Nil(t *testing.T) {
	if Classify(nil) != nil {
		t.Fatal("expected nil for nil error")
	}
	if Wrap(KindUnknown, nil) != nil {
		t.Fatal("expected Wrap(nil) to be nil")
	}
}

func TestClassify_KeepsExistingKind(t *testing.T) {
	orig := Wrap(KindSerializationFailed, errors.New("bad json"))
	if got := Classify(fmt.Errorf("outer: %w", orig)); got != orig {
		t.Fatalf("Classify() = %v, want the original *Error", got)
	}
}

func TestKindOf(t *testing.T) {
	err := fmt.Errorf("write: %w", Wrap(KindBucketNotFound, errors.New("gone")))
	if got := KindOf(err); got != KindBucketNotFound {
		t.Fatalf("KindOf() = %s, want %s", got, KindBucketNotFound)
	}
	if got := KindOf(errors.New("plain")); got != KindUnknown {
		t.Fatalf("KindOf(plain) = %s, want %s", got, KindUnknown)
	}
}

func TestError_Retryable(t *testing.T) {
	if !Wrap(KindStoreUnavailable, errors.New("x")).Retryable() {
		t.Fatal("store unavailable should be retryable")
	}
	if Wrap(KindCredentialsMissing, errors.New("x")).Retryable() {
		t.Fatal("credential errors should not be retryable")
	}
}
