package sdk

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"testing"
)

// mockCloser is a test double that implements io.Closer
type mockCloser struct {
	closeErr   error
	closeCalls int
}

func (m *mockCloser) Close() error {
	m.closeCalls++
	return m.closeErr
}

func TestCloseWithLog_NilCloser(t *testing.T) {
	var logBuf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logBuf, nil))

	CloseWithLog(nil, logger, "metadata cache")

	if logBuf.Len() != 0 {
		t.Errorf("expected no log output for a nil closer, got %q", logBuf.String())
	}
}

func TestCloseWithLog_CleanClose(t *testing.T) {
	var logBuf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logBuf, nil))
	closer := &mockCloser{}

	CloseWithLog(closer, logger, "metadata cache")

	if closer.closeCalls != 1 {
		t.Errorf("expected exactly one Close call, got %d", closer.closeCalls)
	}
	if logBuf.Len() != 0 {
		t.Errorf("expected no log output on clean close, got %q", logBuf.String())
	}
}

func TestCloseWithLog_CloseError(t *testing.T) {
	var logBuf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logBuf, nil))
	closer := &mockCloser{closeErr: errors.New("connection reset")}

	CloseWithLog(closer, logger, "metadata cache")

	out := logBuf.String()
	if !strings.Contains(out, "metadata cache") {
		t.Errorf("expected the resource name in the log output, got %q", out)
	}
	if !strings.Contains(out, "connection reset") {
		t.Errorf("expected the close error in the log output, got %q", out)
	}
}

func TestCloseWithLog_NilLogger(t *testing.T) {
	closer := &mockCloser{closeErr: errors.New("boom")}

	// Must not panic; falls back to slog.Default().
	CloseWithLog(closer, nil, "metadata cache")

	if closer.closeCalls != 1 {
		t.Errorf("expected exactly one Close call, got %d", closer.closeCalls)
	}
}
