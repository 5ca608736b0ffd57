package credential

import (
	"fmt"

	"github.com/cyberphone/json-canonicalization/go/src/webpki.org/jsoncanonicalizer"
	json "github.com/goccy/go-json"
)

// Credential is an unsigned W3C Verifiable Credential.
type Credential struct {
	Context           []any          `json:"@context"`
	ID                string         `json:"id"`
	Type              []string       `json:"type"`
	Holder            string         `json:"holder"`
	CredentialSubject map[string]any `json:"credentialSubject"`
}

// Map returns the credential as a generic JSON object.
func (c *Credential) Map() (map[string]any, error) {
	b, err := json.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("credential: marshal: %w", err)
	}
	var out map[string]any
	if err := json.Unmarshal(b, &out); err != nil {
		return nil, fmt.Errorf("credential: unmarshal: %w", err)
	}
	return out, nil
}

// CanonicalJSON returns the RFC 8785 (JCS) serialization.
func (c *Credential) CanonicalJSON() ([]byte, error) {
	b, err := json.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("credential: marshal: %w", err)
	}
	out, err := jsoncanonicalizer.Transform(b)
	if err != nil {
		return nil, fmt.Errorf("credential: canonicalize: %w", err)
	}
	return out, nil
}
