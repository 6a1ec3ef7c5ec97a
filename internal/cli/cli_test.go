package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/pilacorp/go-did-resolver/did"
	"github.com/pilacorp/go-did-resolver/did/config"
	"github.com/pilacorp/go-did-resolver/logging"
	"github.com/pilacorp/go-did-resolver/resolver"
	"github.com/pilacorp/go-did-resolver/server"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testAddress = "0x742d35cc6634c0532925a3b844bc454e4438f44e"

func defaultFile() *config.File {
	return &config.File{
		Klaytn: []config.Config{{Network: config.NetworkBaobab}, {Network: config.NetworkCypress}},
		Tezos: []config.Config{
			{Network: config.NetworkMainnet},
			{Network: config.NetworkTestnet, RPCURL: "https://rpc.ghostnet.teztnets.com"},
		},
	}
}

func TestBuildDispatcher(t *testing.T) {
	d, err := buildDispatcher(defaultFile())
	require.NoError(t, err)
	assert.Equal(t, []string{"klaytn", "tezos"}, d.Methods())

	result, err := d.Resolve(context.Background(), "did:klaytn:kairos:"+testAddress)
	require.NoError(t, err)
	assert.Equal(t, did.ErrorInvalidDID, result.ResolutionMetadata.Error)

	result, err = d.Resolve(context.Background(), "did:ethr:"+testAddress)
	require.NoError(t, err)
	assert.Equal(t, did.ErrorMethodNotSupported, result.ResolutionMetadata.Error)
}

func TestBuildDispatcherSingleMethod(t *testing.T) {
	d, err := buildDispatcher(&config.File{Tezos: []config.Config{{Network: config.NetworkMainnet}}})
	require.NoError(t, err)
	assert.Equal(t, []string{"tezos"}, d.Methods())
}

func TestBuildDispatcherRejectsBadConfig(t *testing.T) {
	_, err := buildDispatcher(&config.File{Klaytn: []config.Config{{Network: config.NetworkMainnet}}})
	assert.Error(t, err)

	_, err = buildDispatcher(&config.File{Tezos: []config.Config{{Network: config.NetworkTestnet}}})
	assert.Error(t, err)

	_, err = buildDispatcher(&config.File{Tezos: []config.Config{{Network: config.NetworkMainnet, ContractAddress: "0xdead"}}})
	assert.Error(t, err)
}

func TestApplyLogFormat(t *testing.T) {
	t.Cleanup(func() { _ = logging.SetFormat(logging.FormatText) })

	assert.NoError(t, applyLogFormat(&config.File{LogFormat: "json"}))
	assert.NoError(t, applyLogFormat(&config.File{}))

	err := applyLogFormat(&config.File{LogFormat: "xml"})
	assert.EqualError(t, err, `configuring logging: unknown log format "xml", expected text or json`)
}

func TestWriteResult(t *testing.T) {
	didStr := "did:klaytn:baobab:" + testAddress
	doc := did.NewDocument(didStr, &did.PublicKey{Type: did.TypeEcdsaSecp256k1, Hex: "0x02aa"})

	var buf bytes.Buffer
	require.NoError(t, writeResult(&buf, did.NewResult(doc, false), false))

	var decoded did.ResolutionResult
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, didStr, decoded.Document.ID)

	err := writeResult(&buf, did.NewResult(doc, true), true)
	assert.EqualError(t, err, "no document to canonicalize: deactivated")

	err = writeResult(&buf, did.ErrorResult(did.ErrorInvalidDID), true)
	assert.EqualError(t, err, "no document to canonicalize: invalidDid")
}

func TestResolveFuncRemote(t *testing.T) {
	d := resolver.NewDispatcher(resolver.Registry{
		"klaytn": func(_ context.Context, didStr string) (*did.ResolutionResult, error) {
			key := &did.PublicKey{Type: did.TypeEcdsaSecp256k1, Hex: "0x02aa"}
			return did.NewResult(did.NewDocument(didStr, key), false), nil
		},
	})
	srv := httptest.NewServer(server.NewHandler(d))
	t.Cleanup(srv.Close)

	resolve, err := resolveFunc(srv.URL)
	require.NoError(t, err)

	result, err := resolve(context.Background(), "did:klaytn:baobab:"+testAddress)
	require.NoError(t, err)
	require.NotNil(t, result.Document)
	assert.Equal(t, "0x02aa", result.Document.VerificationMethod[0].PublicKeyHex)
}
