package github

import (
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"time"

	gh "github.com/google/go-github/v66/github"

	"github.com/rios0rios0/repofetch/internal/domain/entities"
)

// classify maps a go-github failure onto the transient/permanent taxonomy.
// Cancellation is returned untouched.
func classify(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}

	var rateErr *gh.RateLimitError
	if errors.As(err, &rateErr) {
		return &entities.TransientRequestError{
			Op:         op,
			StatusCode: statusOf(rateErr.Response),
			RetryAfter: max(time.Until(rateErr.Rate.Reset.Time), 0),
			Err:        err,
		}
	}

	var abuseErr *gh.AbuseRateLimitError
	if errors.As(err, &abuseErr) {
		return &entities.TransientRequestError{
			Op:         op,
			StatusCode: statusOf(abuseErr.Response),
			RetryAfter: abuseErr.GetRetryAfter(),
			Err:        err,
		}
	}

	var respErr *gh.ErrorResponse
	if errors.As(err, &respErr) && respErr.Response != nil {
		return entities.NewRequestError(op, respErr.Response.StatusCode, 0, err)
	}

	var netErr net.Error
	if errors.As(err, &netErr) || errors.Is(err, io.ErrUnexpectedEOF) {
		return &entities.TransientRequestError{Op: op, Err: err}
	}

	return &entities.PermanentRequestError{Op: op, Err: err}
}

func statusOf(resp *http.Response) int {
	if resp == nil {
		return 0
	}
	return resp.StatusCode
}
