package did

import (
	"encoding/json"
	"fmt"

	"github.com/piprate/json-gold/ld"
)

// defaultDocumentLoader caches remote contexts across calls.
var defaultDocumentLoader ld.DocumentLoader = ld.NewCachingDocumentLoader(ld.NewDefaultDocumentLoader(nil))

// Canonicalize returns the URDNA2015 N-Quads form of a DID Document.
//
// A nil loader falls back to a shared caching loader that fetches contexts over HTTP.
func Canonicalize(doc *Document, loader ld.DocumentLoader) (string, error) {
	if doc == nil {
		return "", fmt.Errorf("failed to canonicalize document: document is nil")
	}

	if loader == nil {
		loader = defaultDocumentLoader
	}

	raw, err := json.Marshal(doc)
	if err != nil {
		return "", fmt.Errorf("failed to marshal DID document: %w", err)
	}

	var input map[string]interface{}
	if err := json.Unmarshal(raw, &input); err != nil {
		return "", fmt.Errorf("failed to unmarshal DID document: %w", err)
	}

	opts := ld.NewJsonLdOptions("")
	opts.Format = "application/n-quads"
	opts.Algorithm = ld.AlgorithmURDNA2015
	opts.DocumentLoader = loader

	normalized, err := ld.NewJsonLdProcessor().Normalize(input, opts)
	if err != nil {
		return "", fmt.Errorf("failed to normalize document: %w", err)
	}

	nquads, ok := normalized.(string)
	if !ok {
		return "", fmt.Errorf("unexpected normalized output type: %T", normalized)
	}

	return nquads, nil
}
