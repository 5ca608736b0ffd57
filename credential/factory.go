// Package credential assembles W3C Verifiable Credentials whose subject is
// validated against a vcskema schema and whose JSON-LD context is derived
// from the linked-data form of that schema and everything it references.
package credential

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"strings"

	"github.com/piprate/json-gold/ld"

	vcskema "github.com/reoring/vcskema"
	"github.com/reoring/vcskema/identifier"
)

// VerifiableCredential is the base credential type.
const VerifiableCredential = "VerifiableCredential"

// Factory produces credentials of one type. It is immutable and safe for
// concurrent use.
type Factory struct {
	uri            string
	credentialType string
	root           *vcskema.Schema
	validator      *vcskema.Validator
	context        map[string]any
	loader         *DocumentLoader
}

// NewFactory builds a factory for credentials identified by uri, with
// subjects validated against root. schemas must include every schema root
// references, directly or transitively.
func NewFactory(uri string, root *vcskema.Schema, schemas ...*vcskema.Schema) (*Factory, error) {
	if err := identifier.Check("uri", uri); err != nil {
		return nil, err
	}
	if root == nil {
		return nil, &identifier.RequiredError{Name: "schema"}
	}
	set, err := vcskema.NewSchemaSet(append([]*vcskema.Schema{root}, schemas...)...)
	if err != nil {
		return nil, err
	}
	v, err := vcskema.NewValidator(set)
	if err != nil {
		return nil, err
	}
	f := &Factory{
		uri:            uri,
		credentialType: TypeFromURI(uri),
		root:           root,
		validator:      v,
	}
	if f.context, err = f.mergeContext(set); err != nil {
		return nil, err
	}
	if f.loader, err = NewDocumentLoader(); err != nil {
		return nil, err
	}
	f.loader.Register(uri, map[string]any{"@context": f.Context()})
	return f, nil
}

// TypeFromURI returns the last '/'-delimited segment of uri, query and
// fragment included. A uri ending in '/' yields "".
func TypeFromURI(uri string) string {
	return uri[strings.LastIndexByte(uri, '/')+1:]
}

func (f *Factory) URI() string { return f.uri }
func (f *Factory) CredentialType() string { return f.credentialType }
func (f *Factory) Root() *vcskema.Schema { return f.root }
func (f *Factory) Validator() *vcskema.Validator { return f.validator }
func (f *Factory) DocumentLoader() *DocumentLoader { return f.loader }

// Context returns a copy of the merged JSON-LD context.
func (f *Factory) Context() map[string]any {
	return deepCopy(f.context).(map[string]any)
}

// mergeContext collects the linked-data term of every referenced schema and
// of the root, then points the credential type term at the factory uri.
func (f *Factory) mergeContext(set *vcskema.SchemaSet) (map[string]any, error) {
	ids, err := set.ReferenceIDs(f.root.ID())
	if err != nil {
		return nil, err
	}
	merged := map[string]any{}
	for _, id := range ids {
		s, _ := set.Get(id)
		if ldt, ok := s.LinkedDataType(); ok {
			merged[id] = ldt.Term()
		}
	}
	if ldt, ok := f.root.LinkedDataType(); ok {
		merged[f.root.ID()] = ldt.Term()
	}
	if f.credentialType == "" {
		// "" is not a valid JSON-LD term
		return merged, nil
	}
	term, _ := merged[f.credentialType].(map[string]any)
	if term == nil {
		term = map[string]any{}
	}
	term["@id"] = f.uri
	merged[f.credentialType] = term
	return merged, nil
}

// CreateCredential validates subject against the root schema and wraps the
// normalized result. Validation failures are returned as
// *vcskema.ValidationError.
func (f *Factory) CreateCredential(ctx context.Context, id, holder string, subject map[string]any, opts ...vcskema.ValidateOpt) (*Credential, error) {
	if err := identifier.Check("id", id); err != nil {
		return nil, err
	}
	if err := identifier.Check("holder", holder); err != nil {
		return nil, err
	}
	out, err := f.validator.Validate(ctx, subject, f.root.ID(), opts...)
	if err != nil {
		return nil, err
	}
	// credentials are JSON documents; non-finite numbers become null
	obj, ok := vcskema.JSONSafe(out).(map[string]any)
	if !ok {
		return nil, fmt.Errorf("credential: subject of %q must be an object", f.root.ID())
	}
	obj["type"] = f.root.ID()
	return &Credential{
		Context:           []any{CredentialsV1, f.Context()},
		ID:                id,
		Type:              []string{VerifiableCredential, f.credentialType},
		Holder:            holder,
		CredentialSubject: obj,
	}, nil
}

// Canonize returns the URDNA2015 canonical N-Quads of c. Contexts are
// resolved through the factory's DocumentLoader only.
func (f *Factory) Canonize(c *Credential) (string, error) {
	if c == nil {
		return "", errors.New("credential: nil credential")
	}
	doc, err := c.Map()
	if err != nil {
		return "", err
	}
	opts := ld.NewJsonLdOptions("")
	opts.ProcessingMode = ld.JsonLd_1_1
	opts.DocumentLoader = f.loader
	opts.Format = "application/n-quads"
	opts.Algorithm = "URDNA2015"
	res, err := ld.NewJsonLdProcessor().Normalize(doc, opts)
	if err != nil {
		return "", fmt.Errorf("credential: canonize: %w", err)
	}
	nquads, _ := res.(string)
	return nquads, nil
}

func deepCopy(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := maps.Clone(t)
		for k, e := range out {
			out[k] = deepCopy(e)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = deepCopy(e)
		}
		return out
	}
	return v
}
