package storage

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"

	"github.com/aws/smithy-go"
	"github.com/minio/minio-go/v7"
)

// Kind is the closed set of failure categories reported by writers.
type Kind string

const (
	KindConfigInvalid       Kind = "E_CONFIG_INVALID"
	KindSerializationFailed Kind = "E_SERIALIZATION_FAILED"
	KindCredentialsMissing  Kind = "E_CREDENTIALS_MISSING"
	KindPermissionDenied    Kind = "E_PERMISSION_DENIED"
	KindBucketNotFound      Kind = "E_BUCKET_NOT_FOUND"
	KindStoreUnavailable    Kind = "E_STORE_UNAVAILABLE"
	KindUnknown             Kind = "E_UNKNOWN"
)

// Error wraps a failure with its Kind.
type Error struct {
	Kind Kind
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Kind, e.Err)
	}
	return string(e.Kind)
}

func (e *Error) Unwrap() error { return e.Err }

// Retryable reports whether retrying the same call could succeed.
func (e *Error) Retryable() bool {
	return e.Kind == KindStoreUnavailable
}

// Wrap tags err with kind. A nil err yields nil.
func Wrap(kind Kind, err error) *Error {
	if err == nil {
		return nil
	}
	return &Error{Kind: kind, Err: err}
}

// KindOf returns the Kind carried anywhere in err's chain, or KindUnknown.
func KindOf(err error) Kind {
	var se *Error
	if errors.As(err, &se) {
		return se.Kind
	}
	return KindUnknown
}

// Classify converts minio-go, AWS SDK and transport errors into an *Error.
// Errors that are already classified are returned unchanged.
func Classify(err error) *Error {
	if err == nil {
		return nil
	}

	var se *Error
	if errors.As(err, &se) {
		return se
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return Wrap(KindStoreUnavailable, err)
	}

	var minioErr minio.ErrorResponse
	if errors.As(err, &minioErr) && minioErr.Code != "" {
		if kind, ok := kindForCode(minioErr.Code); ok {
			return Wrap(kind, err)
		}
	}

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		if kind, ok := kindForCode(apiErr.ErrorCode()); ok {
			return Wrap(kind, err)
		}
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return Wrap(KindStoreUnavailable, err)
	}

	// Fallback to string matching
	errStr := strings.ToLower(err.Error())
	switch {
	case strings.Contains(errStr, "credential"),
		strings.Contains(errStr, "invalid access key"),
		strings.Contains(errStr, "signature"):
		return Wrap(KindCredentialsMissing, err)
	case strings.Contains(errStr, "access denied"), strings.Contains(errStr, "permission"):
		return Wrap(KindPermissionDenied, err)
	case strings.Contains(errStr, "no such bucket"), strings.Contains(errStr, "bucket does not exist"):
		return Wrap(KindBucketNotFound, err)
	case strings.Contains(errStr, "timeout"),
		strings.Contains(errStr, "connection refused"),
		strings.Contains(errStr, "no such host"),
		strings.Contains(errStr, "unreachable"):
		return Wrap(KindStoreUnavailable, err)
	}

	return Wrap(KindUnknown, err)
}

func kindForCode(code string) (Kind, bool) {
	switch code {
	case "InvalidAccessKeyId", "SignatureDoesNotMatch", "ExpiredToken", "InvalidToken", "MissingSecurityHeader":
		return KindCredentialsMissing, true
	case "AccessDenied", "AllAccessDisabled":
		return KindPermissionDenied, true
	case "NoSuchBucket":
		return KindBucketNotFound, true
	case "SlowDown", "ServiceUnavailable", "InternalError", "RequestTimeout":
		return KindStoreUnavailable, true
	}
	return "", false
}
