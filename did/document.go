package did

// NewDocument builds the canonical DID Document for a DID controlled by a single key.
//
// The document has exactly one verification method, identified by
// <did>#controller and controlled by the DID itself, which is also the only
// authentication reference.
func NewDocument(did string, key *PublicKey) *Document {
	vmID := did + ControllerFragment

	return &Document{
		Context: []string{ContextDIDV1},
		ID:      did,
		VerificationMethod: []VerificationMethod{{
			ID:              vmID,
			Type:            key.Type,
			Controller:      did,
			PublicKeyHex:    key.Hex,
			PublicKeyBase58: key.Base58,
		}},
		Authentication: []string{vmID},
	}
}

// NewResult wraps a document into a successful resolution result.
//
// A deactivated DID still resolves with a content type, but its document is
// withheld and the document metadata reports the deactivation.
func NewResult(doc *Document, deactivated bool) *ResolutionResult {
	result := &ResolutionResult{
		ResolutionMetadata: ResolutionMetadata{ContentType: ContentType},
	}

	if deactivated {
		result.DocumentMetadata.Deactivated = true
		return result
	}

	result.Document = doc

	return result
}

// ErrorResult returns a result reporting code in didResolutionMetadata.error.
func ErrorResult(code string) *ResolutionResult {
	return &ResolutionResult{
		ResolutionMetadata: ResolutionMetadata{Error: code},
	}
}
