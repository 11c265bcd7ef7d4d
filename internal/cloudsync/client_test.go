package cloudsync

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/suite"

	regmodels "basecamp/internal/registration/models"
	dErrors "basecamp/pkg/domain-errors"
)

type ClientTestSuite struct {
	suite.Suite
}

func TestClientTestSuite(t *testing.T) {
	suite.Run(t, new(ClientTestSuite))
}

func (s *ClientTestSuite) TestValidateEndpoint() {
	testCases := []struct {
		name     string
		endpoint string
		wantErr  bool
	}{
		{
			name:     "valid apps script exec url",
			endpoint: "https://script.google.com/macros/s/AKfycb123/exec",
			wantErr:  false,
		},
		{
			name:     "empty",
			endpoint: "",
			wantErr:  true,
		},
		{
			name:     "whitespace only",
			endpoint: "   ",
			wantErr:  true,
		},
		{
			name:     "plain http",
			endpoint: "http://script.google.com/macros/s/AKfycb123/exec",
			wantErr:  true,
		},
		{
			name:     "missing exec suffix",
			endpoint: "https://script.google.com/macros/s/AKfycb123/dev",
			wantErr:  true,
		},
		{
			name:     "no host",
			endpoint: "https:///exec",
			wantErr:  true,
		},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			err := ValidateEndpoint(tc.endpoint)
			if tc.wantErr {
				s.Require().Error(err)
				s.True(dErrors.HasCode(err, dErrors.CodeConfiguration))
			} else {
				s.NoError(err)
			}
		})
	}
}

func (s *ClientTestSuite) TestDispatchPostsPlainText() {
	var (
		gotContentType string
		gotBody        []byte
	)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotContentType = r.Header.Get("Content-Type")
		gotBody, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := NewClient()
	reg := &regmodels.Registration{ID: 1735689600123, FullName: "Sari Dewi", Status: regmodels.StatusPending}
	err := client.Dispatch(context.Background(), server.URL, Payload{
		Action:       ActionNewRegistration,
		Registration: reg,
		AdminEmail:   "ops@example.com",
	})
	s.Require().NoError(err)

	s.Equal("text/plain;charset=utf-8", gotContentType)

	var decoded map[string]any
	s.Require().NoError(json.Unmarshal(gotBody, &decoded))
	s.Equal("NEW_REGISTRATION", decoded["action"])
}

func (s *ClientTestSuite) TestDispatchStripsIdentityFileByDefault() {
	var gotBody []byte
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotBody, _ = io.ReadAll(r.Body)
	}))
	defer server.Close()

	reg := &regmodels.Registration{ID: 42, FullName: "Sari Dewi", IdentityFile: "data:image/png;base64,AAAA"}

	client := NewClient()
	s.Require().NoError(client.Dispatch(context.Background(), server.URL, Payload{
		Action:       ActionNewRegistration,
		Registration: reg,
	}))
	s.NotContains(string(gotBody), "base64,AAAA")

	// The caller's record must not lose its attachment.
	s.Equal("data:image/png;base64,AAAA", reg.IdentityFile)

	withIdentity := NewClient(WithIdentityFile(true))
	s.Require().NoError(withIdentity.Dispatch(context.Background(), server.URL, Payload{
		Action:       ActionNewRegistration,
		Registration: reg,
	}))
	s.Contains(string(gotBody), "base64,AAAA")
}

func (s *ClientTestSuite) TestDispatchIgnoresResponseStatusAndBody() {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"status":"error","detail":"script exploded"}`))
	}))
	defer server.Close()

	client := NewClient()
	err := client.Dispatch(context.Background(), server.URL, Payload{Action: ActionTestConnection})
	s.NoError(err, "delivery is fire-and-forget, the response is never interpreted")
}

func (s *ClientTestSuite) TestDispatchTransportError() {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	client := NewClient()
	err := client.Dispatch(context.Background(), server.URL, Payload{Action: ActionTestConnection})
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeDispatchFailed))
}
