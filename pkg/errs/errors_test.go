package errs

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestToHTTP(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{nil, http.StatusOK},
		{ErrInvalidInput, http.StatusBadRequest},
		{fmt.Errorf("panel 999: %w", ErrNotFound), http.StatusNotFound},
		{ErrUnavailable, http.StatusServiceUnavailable},
		{errors.New("boom"), http.StatusInternalServerError},
	}
	for _, c := range cases {
		if got := ToHTTP(c.err); got != c.want {
			t.Fatalf("ToHTTP(%v) = %d, want %d", c.err, got, c.want)
		}
	}
}
