package docstore

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestErrorWithContext(t *testing.T) {
	t.Run("message includes context", func(t *testing.T) {
		err := WithContext(ErrNotFound, map[string]any{"collection": "rfqs", "id": "r1"})
		msg := err.Error()
		if !strings.Contains(msg, "document not found") {
			t.Errorf("Message missing base error: %q", msg)
		}
		if !strings.Contains(msg, "rfqs") {
			t.Errorf("Message missing context: %q", msg)
		}
	})

	t.Run("unwraps to the sentinel", func(t *testing.T) {
		err := WithContext(ErrNotFound, map[string]any{"id": "x"})
		if !errors.Is(err, ErrNotFound) {
			t.Error("Expected errors.Is to reach the sentinel through the wrapper")
		}
	})

	t.Run("nil in, nil out", func(t *testing.T) {
		if WithContext(nil, map[string]any{"k": "v"}) != nil {
			t.Error("Expected WithContext(nil, ...) to stay nil")
		}
	})

	t.Run("empty context omitted from message", func(t *testing.T) {
		err := WithContext(ErrMissingID, nil)
		if strings.Contains(err.Error(), "context") {
			t.Errorf("Empty context should not render: %q", err.Error())
		}
	})
}

func TestStorageError(t *testing.T) {
	cause := fmt.Errorf("connection refused")
	err := storageError(cause, map[string]any{"collection": "projects"})

	if !IsStorage(err) {
		t.Error("Expected IsStorage to classify the wrapped error")
	}
	if !strings.Contains(err.Error(), "connection refused") {
		t.Errorf("Driver cause lost: %q", err.Error())
	}
}

func TestErrorClassifiers(t *testing.T) {
	if !IsNotFound(WithContext(ErrNotFound, nil)) {
		t.Error("IsNotFound should see through WithContext")
	}
	if IsNotFound(ErrStorage) {
		t.Error("IsNotFound should reject other sentinels")
	}
	if !IsCorrupt(fmt.Errorf("%w: bad payload", ErrCorruptDocument)) {
		t.Error("IsCorrupt should see through fmt wrapping")
	}
	if IsStorage(nil) || IsNotFound(nil) || IsCorrupt(nil) {
		t.Error("Classifiers should be false for nil")
	}
}
