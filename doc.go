// Package vcskema provides:
//
// - Normalized JSON-like schemas (Schema) with inferred types, hoisted
// required flags and derived views (Pure/Only/Extend/Wrap)
// - Linked-data derivation: a schema with a base URI yields a JSON-LD term
// definition usable as a verifiable-credential context
// - Reference resolution across a SchemaSet, cycles included
// - A validation pipeline (clone -> clean -> defaults/coercion -> JSON-Schema
// validation -> optional empty-value reconciliation)
// - A stable error model via Issue/Issues/ValidationError (dot/bracket path,
// code, params, message)
//
// Design policy:
// - Keep the schema model and pipeline in the root package; engines live under
// jsonschema/, credential assembly under credential/, and the CLI under
// cmd/vcskema.
// - Prefer black-box testing against public APIs.
//
// Typical usage:
//
//	address := vcskema.MustSchema("AddressV1", src, vcskema.SchemaOpt{BaseURI: base})
//	account := vcskema.MustSchema("AccountV1", accountSrc, vcskema.SchemaOpt{BaseURI: base})
//	set, err := vcskema.NewSchemaSet(account, address)
//	v, err := vcskema.NewValidator(set)
//	obj, err := v.Validate(ctx, input, "AccountV1")
//	if ve, ok := vcskema.AsValidationError(err); ok {
//		// ve.Issues
//	}
package vcskema
