package llm

import (
	"context"
	"errors"
	"net"
	"net/url"
	"testing"
	"time"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func TestClassifyGeminiErr(t *testing.T) {
	ctx := context.Background()

	t.Run("ContextDeadline", func(t *testing.T) {
		expired, cancel := context.WithTimeout(ctx, time.Nanosecond)
		defer cancel()
		<-expired.Done()

		err := classifyGeminiErr(expired, errors.New("rpc aborted"))
		if !errors.Is(err, ErrCompletionUnavailable) {
			t.Errorf("Expected ErrCompletionUnavailable, got %v", err)
		}
	})

	t.Run("DialFailure", func(t *testing.T) {
		dialErr := &net.OpError{Op: "dial", Net: "tcp", Err: errors.New("connection refused")}
		err := classifyGeminiErr(ctx, dialErr)
		if !errors.Is(err, ErrCompletionUnavailable) {
			t.Errorf("Expected ErrCompletionUnavailable, got %v", err)
		}
	})

	t.Run("WrappedURLError", func(t *testing.T) {
		urlErr := &url.Error{Op: "Post", URL: "https://generativelanguage.googleapis.com", Err: errors.New("no such host")}
		err := classifyGeminiErr(ctx, urlErr)
		if !errors.Is(err, ErrCompletionUnavailable) {
			t.Errorf("Expected ErrCompletionUnavailable, got %v", err)
		}
	})

	t.Run("GrpcUnavailable", func(t *testing.T) {
		err := classifyGeminiErr(ctx, status.Error(codes.Unavailable, "backend overloaded"))
		if !errors.Is(err, ErrCompletionUnavailable) {
			t.Errorf("Expected ErrCompletionUnavailable, got %v", err)
		}
	})

	t.Run("GrpcInvalidArgument", func(t *testing.T) {
		err := classifyGeminiErr(ctx, status.Error(codes.InvalidArgument, "bad request"))
		if !errors.Is(err, ErrCompletionRejected) {
			t.Errorf("Expected ErrCompletionRejected, got %v", err)
		}
	})

	t.Run("ProviderError", func(t *testing.T) {
		err := classifyGeminiErr(ctx, errors.New("googleapi: Error 400: API key not valid"))
		if !errors.Is(err, ErrCompletionRejected) {
			t.Errorf("Expected ErrCompletionRejected, got %v", err)
		}
	})
}
