package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	vcskema "github.com/reoring/vcskema"
	"github.com/reoring/vcskema/credential"
)

func newValidateCmd(a *app) *cobra.Command {
	var nullify, cleanupNulls bool
	cmd := &cobra.Command{
		Use:   "validate <schema-id> [file]",
		Short: "Validate an object and print its normalized form",
		Long: `Validate reads a JSON object from file (or stdin), cleans and normalizes it
against the schema and validates the result. On success the normalized object
is printed. On failure the validation error is printed and the command fails.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := a.validator()
			if err != nil {
				return err
			}
			obj, err := readObject(cmd, argOr(args, 1, ""))
			if err != nil {
				return err
			}
			opt := vcskema.ValidateOpt{
				NullifyEmptyValues: nullify || a.cfg.NullifyEmptyValues,
				CleanupNulls:       cleanupNulls || a.cfg.CleanupNulls,
			}
			out, err := v.Validate(cmd.Context(), obj, args[0], opt)
			if ve, ok := vcskema.AsValidationError(err); ok {
				if werr := writeJSON(cmd.OutOrStdout(), ve); werr != nil {
					return werr
				}
				return err
			}
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), out)
		},
	}
	cmd.Flags().BoolVar(&nullify, "nullify-empty-values", false, `Treat "" as null for optional properties`)
	cmd.Flags().BoolVar(&cleanupNulls, "cleanup-nulls", false, "Remove null values before validating")
	return cmd
}

func newNormalizeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "normalize <schema-id> [file]",
		Short: "Apply defaults and coerce values without validating",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := a.validator()
			if err != nil {
				return err
			}
			obj, err := readObject(cmd, argOr(args, 1, ""))
			if err != nil {
				return err
			}
			out, err := v.Normalize(cmd.Context(), obj, args[0])
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), out)
		},
	}
}

func newRefsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "refs <schema-id>",
		Short: "List the schemas a schema references, transitively",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			set, err := a.schemaSet()
			if err != nil {
				return err
			}
			ids, err := set.ReferenceIDs(args[0])
			if err != nil {
				return err
			}
			for _, id := range ids {
				fmt.Fprintln(cmd.OutOrStdout(), id)
			}
			return nil
		},
	}
}

func newSchemaCmd(a *app) *cobra.Command {
	var jsonSchema bool
	cmd := &cobra.Command{
		Use:   "schema <schema-id>",
		Short: "Print the normalized definition of a schema",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			set, err := a.schemaSet()
			if err != nil {
				return err
			}
			s, ok := set.Get(args[0])
			if !ok {
				return fmt.Errorf("%w: %q", vcskema.ErrSchemaNotFound, args[0])
			}
			if jsonSchema {
				return writeJSON(cmd.OutOrStdout(), s.JSONSchema())
			}
			return writeJSON(cmd.OutOrStdout(), s.Definition())
		},
	}
	cmd.Flags().BoolVar(&jsonSchema, "json-schema", false, "Print the JSON-Schema form instead")
	return cmd
}

func newContextCmd(a *app) *cobra.Command {
	var uri string
	cmd := &cobra.Command{
		Use:   "context <schema-id>",
		Short: "Print the merged JSON-LD context of a credential type",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := a.factory(args[0], uri)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), map[string]any{"@context": f.Context()})
		},
	}
	cmd.Flags().StringVar(&uri, "uri", "", "Credential type URI")
	_ = cmd.MarkFlagRequired("uri")
	return cmd
}

func newCredentialCmd(a *app) *cobra.Command {
	var uri, id, holder string
	var canonize, canonicalJSON bool
	cmd := &cobra.Command{
		Use:   "credential <schema-id> [file]",
		Short: "Assemble a verifiable credential around a subject",
		Long: `Credential validates the subject read from file (or stdin) against the schema
and wraps it into a verifiable credential. --canonize prints the URDNA2015
N-Quads instead, --canonical-json the RFC 8785 serialization.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := a.factory(args[0], uri)
			if err != nil {
				return err
			}
			obj, err := readObject(cmd, argOr(args, 1, ""))
			if err != nil {
				return err
			}
			subject, ok := obj.(map[string]any)
			if !ok {
				return fmt.Errorf("credential subject must be an object")
			}
			opt := vcskema.ValidateOpt{
				NullifyEmptyValues: a.cfg.NullifyEmptyValues,
				CleanupNulls:       a.cfg.CleanupNulls,
			}
			c, err := f.CreateCredential(cmd.Context(), id, holder, subject, opt)
			if ve, ok := vcskema.AsValidationError(err); ok {
				if werr := writeJSON(cmd.OutOrStdout(), ve); werr != nil {
					return werr
				}
				return err
			}
			if err != nil {
				return err
			}
			switch {
			case canonize:
				nquads, err := f.Canonize(c)
				if err != nil {
					return err
				}
				_, err = fmt.Fprint(cmd.OutOrStdout(), nquads)
				return err
			case canonicalJSON:
				b, err := c.CanonicalJSON()
				if err != nil {
					return err
				}
				_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s\n", b)
				return err
			}
			return writeJSON(cmd.OutOrStdout(), c)
		},
	}
	cmd.Flags().StringVar(&uri, "uri", "", "Credential type URI")
	cmd.Flags().StringVar(&id, "id", "", "Credential id")
	cmd.Flags().StringVar(&holder, "holder", "", "Holder id")
	cmd.Flags().BoolVar(&canonize, "canonize", false, "Print URDNA2015 N-Quads")
	cmd.Flags().BoolVar(&canonicalJSON, "canonical-json", false, "Print RFC 8785 canonical JSON")
	cmd.MarkFlagsMutuallyExclusive("canonize", "canonical-json")
	_ = cmd.MarkFlagRequired("uri")
	return cmd
}

// factory builds a credential factory rooted at id, with every other loaded
// schema available for reference resolution.
func (a *app) factory(id, uri string) (*credential.Factory, error) {
	set, err := a.schemaSet()
	if err != nil {
		return nil, err
	}
	root, ok := set.Get(id)
	if !ok {
		return nil, fmt.Errorf("%w: %q", vcskema.ErrSchemaNotFound, id)
	}
	var others []*vcskema.Schema
	for _, s := range set.Schemas() {
		if s.ID() != id {
			others = append(others, s)
		}
	}
	return credential.NewFactory(uri, root, others...)
}
