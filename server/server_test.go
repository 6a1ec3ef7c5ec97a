package server

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/pilacorp/go-did-resolver/did"
	"github.com/pilacorp/go-did-resolver/logging"
	"github.com/pilacorp/go-did-resolver/resolver"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testAddress = "0x742d35cc6634c0532925a3b844bc454e4438f44e"

func keyResolver(deactivated bool) resolver.ResolveFunc {
	return func(_ context.Context, didStr string) (*did.ResolutionResult, error) {
		key := &did.PublicKey{Type: did.TypeEcdsaSecp256k1, Hex: "0x0279be667ef9dcbbac55a06295ce870b07029bfcdb2dce28d959f2815b16f81798"}
		return did.NewResult(did.NewDocument(didStr, key), deactivated), nil
	}
}

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	d := resolver.NewDispatcher(resolver.Registry{
		"klaytn": resolver.ByNetwork(map[string]resolver.ResolveFunc{
			"baobab":  keyResolver(false),
			"cypress": keyResolver(true),
		}),
		"tezos": func(context.Context, string) (*did.ResolutionResult, error) {
			return nil, did.NewAdapterError("get manager key", errors.New("connection refused"))
		},
		"broken": func(context.Context, string) (*did.ResolutionResult, error) {
			return &did.ResolutionResult{}, nil
		},
		"buggy": func(context.Context, string) (*did.ResolutionResult, error) {
			return nil, errors.New("nil key")
		},
	})

	srv := httptest.NewServer(NewHandler(d))
	t.Cleanup(srv.Close)

	return srv
}

func TestResolveEndpoint(t *testing.T) {
	srv := newTestServer(t)

	tests := map[string]struct {
		did         string
		status      int
		errorCode   string
		hasDocument bool
	}{
		"active":        {did: "did:klaytn:baobab:" + testAddress, status: http.StatusOK, hasDocument: true},
		"deactivated":   {did: "did:klaytn:cypress:" + testAddress, status: http.StatusGone},
		"wrong network": {did: "did:klaytn:kairos:" + testAddress, status: http.StatusBadRequest, errorCode: did.ErrorInvalidDID},
		"not a did":     {did: "klaytn", status: http.StatusBadRequest, errorCode: did.ErrorInvalidDID},
		"unknown":       {did: "did:web:example.com", status: http.StatusNotImplemented, errorCode: did.ErrorMethodNotSupported},
		"adapter error": {did: "did:tezos:mainnet:tz1abc", status: http.StatusInternalServerError, errorCode: did.ErrorInternal},
		"bad result":    {did: "did:broken:x", status: http.StatusInternalServerError, errorCode: did.ErrorInternal},
		"plain error":   {did: "did:buggy:x", status: http.StatusInternalServerError, errorCode: did.ErrorInternal},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			resp, err := http.Get(srv.URL + "/1.0/identifiers/" + tc.did)
			require.NoError(t, err)
			defer resp.Body.Close()

			assert.Equal(t, tc.status, resp.StatusCode)
			assert.Equal(t, ContentType, resp.Header.Get("Content-Type"))

			var result did.ResolutionResult
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
			require.NoError(t, did.ValidateResult(&result))

			assert.Equal(t, tc.errorCode, result.ResolutionMetadata.Error)
			assert.Equal(t, tc.hasDocument, result.Document != nil)
			if tc.hasDocument {
				assert.Equal(t, tc.did, result.Document.ID)
			}
		})
	}
}

func TestResolveFailureLogLevel(t *testing.T) {
	hook := test.NewLocal(logging.Entry().Logger)
	t.Cleanup(hook.Reset)

	srv := newTestServer(t)

	tests := map[string]struct {
		did   string
		level logrus.Level
		msg   string
	}{
		"adapter error": {did: "did:tezos:mainnet:tz1abc", level: logrus.WarnLevel, msg: "chain lookup failed"},
		"plain error":   {did: "did:buggy:x", level: logrus.ErrorLevel, msg: "resolution failed"},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			hook.Reset()

			resp, err := http.Get(srv.URL + "/1.0/identifiers/" + tc.did)
			require.NoError(t, err)
			resp.Body.Close()

			entry := hook.LastEntry()
			require.NotNil(t, entry)
			assert.Equal(t, tc.level, entry.Level)
			assert.Equal(t, tc.msg, entry.Message)
			assert.Equal(t, tc.did, entry.Data["did"])
			assert.Equal(t, "server", entry.Data["component"])
		})
	}
}

func TestMethodsEndpoint(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Get(srv.URL + "/1.0/methods")
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)

	var methods []string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&methods))
	assert.Equal(t, []string{"broken", "buggy", "klaytn", "tezos"}, methods)
}

func TestUnknownRoutes(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Get(srv.URL + "/1.0/identifiers/")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, err = http.Post(srv.URL+"/1.0/identifiers/did:klaytn:baobab:"+testAddress, "application/json", nil)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}

func TestStatusCode(t *testing.T) {
	doc := did.NewDocument("did:klaytn:baobab:"+testAddress, &did.PublicKey{Type: did.TypeEd25519, Base58: "x"})

	assert.Equal(t, http.StatusOK, StatusCode(did.NewResult(doc, false)))
	assert.Equal(t, http.StatusGone, StatusCode(did.NewResult(doc, true)))
	assert.Equal(t, http.StatusBadRequest, StatusCode(did.ErrorResult(did.ErrorInvalidDID)))
	assert.Equal(t, http.StatusNotFound, StatusCode(did.ErrorResult(did.ErrorNotFound)))
	assert.Equal(t, http.StatusNotImplemented, StatusCode(did.ErrorResult(did.ErrorMethodNotSupported)))
	assert.Equal(t, http.StatusInternalServerError, StatusCode(did.ErrorResult(did.ErrorInternal)))
}

func TestServeShutsDownOnCancel(t *testing.T) {
	lis, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := lis.Addr().String()
	require.NoError(t, lis.Close())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- Serve(ctx, addr, resolver.NewDispatcher(resolver.Registry{"klaytn": keyResolver(false)}))
	}()

	require.Eventually(t, func() bool {
		resp, err := http.Get("http://" + addr + "/1.0/methods")
		if err != nil {
			return false
		}
		resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 5*time.Second, 20*time.Millisecond)

	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(10 * time.Second):
		t.Fatal("server did not shut down")
	}
}
