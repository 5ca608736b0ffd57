package credential

import (
	"bytes"
	"embed"
	"fmt"
	"strings"
	"sync"

	"github.com/piprate/json-gold/ld"
)

// CredentialsV1 is the W3C Verifiable Credentials v1 context URL.
const CredentialsV1 = "https://www.w3.org/2018/credentials/v1"

//go:embed contexts/*.jsonld
var contexts embed.FS

// UnsupportedContextError is returned for context URLs that are not
// registered. Remote contexts are never fetched.
type UnsupportedContextError struct{ URL string }

func (e *UnsupportedContextError) Error() string {
	return fmt.Sprintf("Custom context %q is not supported", e.URL)
}

// DocumentLoader serves JSON-LD contexts from memory. It implements
// ld.DocumentLoader and is safe for concurrent use.
type DocumentLoader struct {
	mu   sync.RWMutex
	docs map[string]any
}

var _ ld.DocumentLoader = (*DocumentLoader)(nil)

// NewDocumentLoader returns a loader preloaded with the credentials v1
// context.
func NewDocumentLoader() (*DocumentLoader, error) {
	raw, err := contexts.ReadFile("contexts/credentials-v1.jsonld")
	if err != nil {
		return nil, fmt.Errorf("credential: read embedded context: %w", err)
	}
	doc, err := ld.DocumentFromReader(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("credential: parse embedded context: %w", err)
	}
	return &DocumentLoader{docs: map[string]any{CredentialsV1: doc}}, nil
}

// Register serves doc under url (without fragment).
func (l *DocumentLoader) Register(url string, doc any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.docs[stripFragment(url)] = doc
}

// LoadDocument implements ld.DocumentLoader.
func (l *DocumentLoader) LoadDocument(u string) (*ld.RemoteDocument, error) {
	key := stripFragment(u)
	l.mu.RLock()
	doc, ok := l.docs[key]
	l.mu.RUnlock()
	if !ok {
		return nil, &UnsupportedContextError{URL: u}
	}
	return &ld.RemoteDocument{DocumentURL: key, Document: doc}, nil
}

func stripFragment(u string) string {
	if i := strings.IndexByte(u, '#'); i >= 0 {
		return u[:i]
	}
	return u
}
