package domainerrors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestCodeOf(t *testing.T) {
	t.Run("direct coded error", func(t *testing.T) {
		err := New(CodeNotFound, "missing")
		if got := CodeOf(err); got != CodeNotFound {
			t.Fatalf("expected %s, got %s", CodeNotFound, got)
		}
	})

	t.Run("wrapped coded error survives fmt wrapping", func(t *testing.T) {
		err := fmt.Errorf("outer: %w", New(CodeUnavailable, "backend down"))
		if got := CodeOf(err); got != CodeUnavailable {
			t.Fatalf("expected %s, got %s", CodeUnavailable, got)
		}
	})

	t.Run("uncoded error reports internal", func(t *testing.T) {
		if got := CodeOf(errors.New("boom")); got != CodeInternal {
			t.Fatalf("expected %s, got %s", CodeInternal, got)
		}
	})
}

func TestWrap(t *testing.T) {
	t.Run("nil passes through", func(t *testing.T) {
		if Wrap(nil, CodeInternal, "ignored") != nil {
			t.Fatalf("expected nil")
		}
	})

	t.Run("preserves cause chain", func(t *testing.T) {
		cause := errors.New("connection refused")
		err := Wrap(cause, CodeUnavailable, "search request failed")
		if !errors.Is(err, cause) {
			t.Fatalf("expected cause in chain")
		}
	})
}

func TestHTTPStatus(t *testing.T) {
	cases := map[Code]int{
		CodeBadRequest:   http.StatusBadRequest,
		CodeValidation:   http.StatusBadRequest,
		CodeUnauthorized: http.StatusUnauthorized,
		CodeNotFound:     http.StatusNotFound,
		CodeUnavailable:  http.StatusServiceUnavailable,
		CodeInternal:     http.StatusInternalServerError,
	}
	for code, want := range cases {
		if got := HTTPStatus(code); got != want {
			t.Fatalf("code %s: expected %d, got %d", code, want, got)
		}
	}
}
