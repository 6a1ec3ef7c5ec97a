// Package client talks to a remote DID resolver exposing /1.0/identifiers/{did}.
package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/pilacorp/go-did-resolver/blockchain"
	"github.com/pilacorp/go-did-resolver/did"
)

const maxResponseSize = 1 << 20

// ErrDeactivated is returned when a document is requested for a deactivated DID.
var ErrDeactivated = errors.New("DID is deactivated")

// ResolutionError carries the error code reported by the remote resolver.
type ResolutionError struct {
	DID  string
	Code string
}

func (e *ResolutionError) Error() string {
	return fmt.Sprintf("resolving %s: %s", e.DID, e.Code)
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithHTTPClient sets the HTTP client used to reach the resolver.
func WithHTTPClient(client *http.Client) Option {
	return func(r *Resolver) { r.client = client }
}

// Resolver is a client for resolving DIDs from a specific endpoint.
type Resolver struct {
	baseURL string
	client  *http.Client
}

// NewResolver creates a new DID resolver client for the server at baseURL.
func NewResolver(baseURL string, opts ...Option) *Resolver {
	r := &Resolver{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  blockchain.NewHTTPClient(blockchain.DefaultTimeout),
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// Resolve fetches the DID Resolution Result of didStr.
//
// Resolution errors reported by the server are returned in the result, not as
// an error. A 404 without a resolution result, as sent by resolvers that do
// not know the DID at all, is reported as notFound. Only transport failures
// and other unreadable bodies are errors.
func (r *Resolver) Resolve(ctx context.Context, didStr string) (*did.ResolutionResult, error) {
	apiURL := r.baseURL + "/1.0/identifiers/" + url.PathEscape(didStr)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/ld+json")

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to make HTTP request to DID resolver: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("failed to read response body from DID resolver: %w", err)
	}

	var result did.ResolutionResult
	if err := json.Unmarshal(body, &result); err != nil {
		if resp.StatusCode == http.StatusNotFound {
			return did.ErrorResult(did.ErrorNotFound), nil
		}
		return nil, fmt.Errorf("DID resolver returned %s with an unreadable body: %w", resp.Status, err)
	}

	if err := did.ValidateResult(&result); err != nil {
		return nil, fmt.Errorf("DID resolver returned %s with a malformed result: %w", resp.Status, err)
	}

	return &result, nil
}

// ResolveToDoc fetches the DID Document of didStr.
func (r *Resolver) ResolveToDoc(ctx context.Context, didStr string) (*did.Document, error) {
	result, err := r.Resolve(ctx, didStr)
	if err != nil {
		return nil, err
	}

	if code := result.ResolutionMetadata.Error; code != "" {
		return nil, &ResolutionError{DID: didStr, Code: code}
	}

	if result.DocumentMetadata.Deactivated {
		return nil, fmt.Errorf("%w: %s", ErrDeactivated, didStr)
	}

	if result.Document == nil {
		return nil, fmt.Errorf("DID resolver returned no document for %s", didStr)
	}

	return result.Document, nil
}

// GetPublicKey retrieves the key material of the verification method at
// verificationMethodURL: hex without 0x for hex keys, base58 otherwise.
func (r *Resolver) GetPublicKey(ctx context.Context, verificationMethodURL string) (string, error) {
	didPart, err := r.GetDIDFromVerificationMethod(verificationMethodURL)
	if err != nil {
		return "", err
	}

	doc, err := r.ResolveToDoc(ctx, didPart)
	if err != nil {
		return "", fmt.Errorf("failed to resolve DID '%s': %w", didPart, err)
	}

	for _, vm := range doc.VerificationMethod {
		if vm.ID == verificationMethodURL {
			return keyMaterial(vm), nil
		}
	}

	return "", fmt.Errorf("verification method '%s' not found in DID document", verificationMethodURL)
}

// GetDefaultPublicKey returns the key material of the first verification method of issuer.
func (r *Resolver) GetDefaultPublicKey(ctx context.Context, issuer string) (string, error) {
	doc, err := r.ResolveToDoc(ctx, issuer)
	if err != nil {
		return "", fmt.Errorf("failed to resolve DID '%s': %w", issuer, err)
	}

	if len(doc.VerificationMethod) > 0 {
		return keyMaterial(doc.VerificationMethod[0]), nil
	}

	return "", fmt.Errorf("verification method not found in DID '%s' document", issuer)
}

// GetPublicKeyByType returns the key material and verification method ID of
// the first verification method of issuer with type vmType.
func (r *Resolver) GetPublicKeyByType(ctx context.Context, issuer, vmType string) (string, string, error) {
	doc, err := r.ResolveToDoc(ctx, issuer)
	if err != nil {
		return "", "", fmt.Errorf("failed to resolve DID for issuer '%s': %w", issuer, err)
	}

	for _, vm := range doc.VerificationMethod {
		if vm.Type == vmType {
			return keyMaterial(vm), vm.ID, nil
		}
	}

	return "", "", fmt.Errorf("no public key found for issuer '%s' with type '%s'", issuer, vmType)
}

// GetDIDFromVerificationMethod extracts the DID from a verification method URL.
func (r *Resolver) GetDIDFromVerificationMethod(verificationMethod string) (string, error) {
	if verificationMethod == "" {
		return "", fmt.Errorf("verification method is empty")
	}

	didPart, _, found := strings.Cut(verificationMethod, "#")
	if !found || didPart == "" {
		return "", fmt.Errorf("invalid verification method URL, could not extract DID: %s", verificationMethod)
	}

	if _, err := did.Method(didPart); err != nil {
		return "", fmt.Errorf("extracted DID '%s' is invalid: %w", didPart, err)
	}

	return didPart, nil
}

func keyMaterial(vm did.VerificationMethod) string {
	if vm.PublicKeyHex != "" {
		return strings.TrimPrefix(vm.PublicKeyHex, "0x")
	}
	return vm.PublicKeyBase58
}
