package apierr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/suite"
)

type ErrorsSuite struct {
	suite.Suite
}

func TestErrorsSuite(t *testing.T) {
	suite.Run(t, new(ErrorsSuite))
}

func (s *ErrorsSuite) TestCodeDetection() {
	s.Run("HasCode sees the outer code", func() {
		err := New(CodeNotFound, "user not found")
		s.True(HasCode(err, CodeNotFound))
		s.False(HasCode(err, CodeRemote))
	})

	s.Run("HasCode walks wrapped errors", func() {
		inner := New(CodeAuthentication, "token rejected")
		outer := Wrap(CodeRemote, "vendor call failed", inner)
		s.True(HasCode(outer, CodeRemote))
		s.True(HasCode(outer, CodeAuthentication))
	})

	s.Run("HasCode sees through fmt wrapping", func() {
		err := fmt.Errorf("operation: %w", New(CodeValidation, "bad field"))
		s.True(HasCode(err, CodeValidation))
	})

	s.Run("CodeOf returns the outermost code", func() {
		inner := New(CodeNotFound, "missing")
		outer := Wrap(CodeRemote, "fetch", inner)
		s.Equal(CodeRemote, CodeOf(outer))
	})

	s.Run("CodeOf defaults to internal for plain errors", func() {
		s.Equal(CodeInternal, CodeOf(errors.New("boom")))
	})
}

func (s *ErrorsSuite) TestMessagePreserved() {
	err := Newf(CodeRemote, "update travel profile: HTTP %d: %s", 400, "Invalid rule class")
	s.Contains(err.Error(), "Invalid rule class")

	wrapped := Wrap(CodeValidation, "encode user", errors.New("cycle"))
	s.Contains(wrapped.Error(), "encode user")
	s.Contains(wrapped.Error(), "cycle")
}

func (s *ErrorsSuite) TestToHTTPStatus() {
	cases := []struct {
		err    error
		status int
	}{
		{New(CodeAuthentication, "x"), http.StatusUnauthorized},
		{New(CodeNotFound, "x"), http.StatusNotFound},
		{New(CodeValidation, "x"), http.StatusBadRequest},
		{New(CodeBadRequest, "x"), http.StatusBadRequest},
		{New(CodeRemote, "x"), http.StatusBadGateway},
		{New(CodeInternal, "x"), http.StatusInternalServerError},
		{errors.New("plain"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		s.Equal(tc.status, ToHTTPStatus(tc.err), "error %v", tc.err)
	}
}
