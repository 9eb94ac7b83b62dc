package objectstore

import (
	stderrors "errors"
	"net/http"

	awshttp "github.com/aws/aws-sdk-go-v2/aws/transport/http"
	"github.com/aws/smithy-go"

	"github.com/skillsenselab/filevault/errors"
)

// classify maps a raw SDK error onto the core taxonomy. Not-found surfaces as
// OBJECT_NOT_FOUND, 5xx/throttling/transport failures as retryable
// STORAGE_TRANSIENT, everything else as STORAGE_FAILED.
func classify(operation, key string, err error) error {
	if err == nil {
		return nil
	}

	var apiErr smithy.APIError
	if stderrors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "NoSuchKey", "NotFound", "NoSuchUpload":
			return errors.ObjectNotFound(key).WithCause(err)
		case "SlowDown", "RequestTimeout", "InternalError", "ServiceUnavailable":
			return errors.StorageTransient(operation, key, err)
		}

		var respErr *awshttp.ResponseError
		if stderrors.As(err, &respErr) {
			status := respErr.HTTPStatusCode()
			if status == http.StatusNotFound {
				return errors.ObjectNotFound(key).WithCause(err)
			}
			if status >= http.StatusInternalServerError || status == http.StatusTooManyRequests {
				return errors.StorageTransient(operation, key, err)
			}
		}

		if apiErr.ErrorFault() == smithy.FaultServer {
			return errors.StorageTransient(operation, key, err)
		}
		return errors.StorageFailed(operation, key, err)
	}

	// No API response at all: connection reset, DNS failure, timeout.
	return errors.StorageTransient(operation, key, err)
}
