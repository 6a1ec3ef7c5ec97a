package did

// Default JSON-LD context and content type of a resolved DID Document.
const (
	ContextDIDV1 = "https://www.w3.org/ns/did/v1"
	ContentType  = "application/did+ld+json"
)

// Verification method types published by the chain adapters.
const (
	TypeEcdsaSecp256k1 = "EcdsaSecp256k1VerificationKey2019"
	TypeEcdsaSecp256r1 = "EcdsaSecp256r1VerificationKey2019"
	TypeEd25519        = "Ed25519VerificationKey2018"
)

// ControllerFragment is the fragment of the single verification method of a document.
const ControllerFragment = "#controller"

// DID is a parsed decentralized identifier of the form did:<method>:[<network>:]<address>.
type DID struct {
	Method  string
	Network string
	Address string
}

// PublicKey is the key material of an on-chain account.
//
// Exactly one of Hex or Base58 is set, depending on the chain's native encoding.
// A nil *PublicKey means the account has no plain public key.
type PublicKey struct {
	Type   string
	Hex    string
	Base58 string
}

// Document is the DID document.
type Document struct {
	Context            []string             `json:"@context"`
	ID                 string               `json:"id"`
	VerificationMethod []VerificationMethod `json:"verificationMethod"`
	Authentication     []string             `json:"authentication"`
}

// VerificationMethod is the verification method for the DID document.
type VerificationMethod struct {
	ID              string `json:"id"`
	Type            string `json:"type"`
	Controller      string `json:"controller"`
	PublicKeyHex    string `json:"publicKeyHex,omitempty"`
	PublicKeyBase58 string `json:"publicKeyBase58,omitempty"`
}

// ResolutionMetadata holds the didResolutionMetadata of a result.
type ResolutionMetadata struct {
	ContentType string `json:"contentType,omitempty"`
	Error       string `json:"error,omitempty"`
}

// DocumentMetadata holds the didDocumentMetadata of a result.
type DocumentMetadata struct {
	Deactivated bool `json:"deactivated,omitempty"`
}

// ResolutionResult is the W3C DID Resolution Result returned by every resolver.
type ResolutionResult struct {
	ResolutionMetadata ResolutionMetadata `json:"didResolutionMetadata"`
	Document           *Document          `json:"didDocument"`
	DocumentMetadata   DocumentMetadata   `json:"didDocumentMetadata"`
}
