package contract

// Agreement lifecycle states reported by the signature provider
const (
	AgreementOutForSignature = "OUT_FOR_SIGNATURE"
	AgreementSigned          = "SIGNED"
	AgreementCompleted       = "COMPLETED"
)

// SignatureRequest describes a document to route for signature
type SignatureRequest struct {
	// DocumentPath is a local PDF handed to the provider
	DocumentPath string
	// Name is the agreement display name
	Name string
}

// SignatureReceipt is the result of creating an agreement
type SignatureReceipt struct {
	AgreementID string
	Agreement   *Agreement
}

// Agreement is a provider-side agreement snapshot. SigningURLs is
// populated while the agreement is out for signature; SignedDocumentURL
// once every participant has signed.
type Agreement struct {
	ID                string       `json:"id"`
	Name              string       `json:"name"`
	Status            string       `json:"status"`
	SigningURLs       *SigningURLs `json:"signingUrls,omitempty"`
	SignedDocumentURL string       `json:"signedDocumentUrl,omitempty"`
}

// SigningURLs groups per-signer esign URLs by signing order
type SigningURLs struct {
	SigningURLSetInfos []SigningURLSetInfo `json:"signingUrlSetInfos"`
}

// SigningURLSetInfo is one signing round's URLs
type SigningURLSetInfo struct {
	SigningURLs       []SigningURL `json:"signingUrls"`
	SigningURLSetName string       `json:"signingUrlSetName,omitempty"`
}

// SigningURL is a single signer's esign URL
type SigningURL struct {
	Email string `json:"email"`
	URL   string `json:"esignUrl"`
}
