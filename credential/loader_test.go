package credential_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reoring/vcskema/credential"
)

func TestDocumentLoader_CredentialsV1(t *testing.T) {
	l, err := credential.NewDocumentLoader()
	require.NoError(t, err)

	for _, u := range []string{credential.CredentialsV1, credential.CredentialsV1 + "#fragment"} {
		doc, err := l.LoadDocument(u)
		require.NoError(t, err, u)
		assert.Equal(t, credential.CredentialsV1, doc.DocumentURL)
		ctx := doc.Document.(map[string]any)["@context"].(map[string]any)
		assert.Equal(t, 1.1, ctx["@version"])
		assert.Contains(t, ctx, "VerifiableCredential")
	}
}

func TestDocumentLoader_Register(t *testing.T) {
	l, err := credential.NewDocumentLoader()
	require.NoError(t, err)
	l.Register("https://example.com/ctx#x", map[string]any{"@context": map[string]any{}})

	doc, err := l.LoadDocument("https://example.com/ctx")
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"@context": map[string]any{}}, doc.Document)
}

func TestDocumentLoader_Unsupported(t *testing.T) {
	l, err := credential.NewDocumentLoader()
	require.NoError(t, err)
	_, err = l.LoadDocument("https://example.com/other")
	var ue *credential.UnsupportedContextError
	require.True(t, errors.As(err, &ue))
	assert.Equal(t, `Custom context "https://example.com/other" is not supported`, err.Error())
}

func TestFactory_LoaderServesOwnContext(t *testing.T) {
	f := accountFactory(t)
	doc, err := f.DocumentLoader().LoadDocument(accountURI)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"@context": f.Context()}, doc.Document)
}
