// Package cli provides the Cobra commands of the vcskema tool: validating and
// normalizing objects, inspecting schema references, and assembling
// verifiable credentials from schema definition files.
package cli

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/goccy/go-json"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	vcskema "github.com/reoring/vcskema"
	"github.com/reoring/vcskema/i18n"
	"github.com/reoring/vcskema/internal/config"
	"github.com/reoring/vcskema/loader"
)

// app carries state shared by every command of one invocation.
type app struct {
	configPath string
	schemas    []string
	baseURI    string
	logLevel   string

	cfg *config.Configuration
	log *logrus.Logger
}

// Execute runs the root command.
func Execute() error {
	return NewRootCmd().Execute()
}

// NewRootCmd builds the command tree.
func NewRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:   "vcskema",
		Short: "Schema validation and verifiable credentials",
		Long: `vcskema validates JSON objects against schema definitions, derives their
linked-data contexts and assembles verifiable credentials.

Schema definitions are YAML or JSON documents of the form:

  id: AccountV1
  baseUri: https://example.com/schema/
  schema:
    properties:
      name: {required: true}`,
		Example: `  # Validate and normalize an object
  vcskema -s ./schemas validate AccountV1 account.json

  # List the schemas AccountV1 depends on
  vcskema -s ./schemas refs AccountV1

  # Issue a credential
  vcskema -s ./schemas credential AccountV1 subject.json \
    --uri https://example.com/schema/AccountV1 \
    --id https://example.com/credentials/1 --holder did:example:123`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
	}

	root.PersistentFlags().StringVarP(&a.configPath, "config", "c", "", "Path to config file")
	root.PersistentFlags().StringSliceVarP(&a.schemas, "schemas", "s", nil, "Schema definition files or directories")
	root.PersistentFlags().StringVar(&a.baseURI, "base-uri", "", "Base URI for definitions without their own")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "Log level (trace, debug, info, warn, error)")

	root.AddCommand(
		newValidateCmd(a),
		newNormalizeCmd(a),
		newRefsCmd(a),
		newSchemaCmd(a),
		newContextCmd(a),
		newCredentialCmd(a),
	)
	return root
}

func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	if len(a.schemas) > 0 {
		cfg.Schemas = a.schemas
	}
	if a.baseURI != "" {
		cfg.BaseURI = a.baseURI
	}
	if a.logLevel != "" {
		cfg.LogLevel = a.logLevel
	}
	a.cfg = cfg

	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		return err
	}
	a.log = logrus.New()
	a.log.SetOutput(cmd.ErrOrStderr())
	a.log.SetLevel(level)
	if cfg.LogFormat == "json" {
		a.log.SetFormatter(&logrus.JSONFormatter{})
	}
	i18n.SetLanguage(cfg.Language)
	return nil
}

// schemaSet loads every configured definition.
func (a *app) schemaSet() (*vcskema.SchemaSet, error) {
	if len(a.cfg.Schemas) == 0 {
		return nil, errors.New("no schema definitions configured (use --schemas)")
	}
	set, err := loader.Load(a.cfg.Schemas, loader.Options{BaseURI: a.cfg.BaseURI})
	if err != nil {
		return nil, err
	}
	a.log.WithField("schemas", len(set.IDs())).Debug("schema definitions loaded")
	return set, nil
}

func (a *app) validator() (*vcskema.Validator, error) {
	set, err := a.schemaSet()
	if err != nil {
		return nil, err
	}
	return vcskema.NewValidator(set, vcskema.ValidatorOpt{Logger: a.log})
}

// readObject decodes the JSON value in the named file, or stdin for "" and "-".
func readObject(cmd *cobra.Command, name string) (any, error) {
	var r io.Reader = cmd.InOrStdin()
	if name != "" && name != "-" {
		f, err := os.Open(name)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		r = f
	}
	var v any
	if err := json.NewDecoder(r).Decode(&v); err != nil {
		return nil, fmt.Errorf("decode %s: %w", inputName(name), err)
	}
	return v, nil
}

func inputName(name string) string {
	if name == "" || name == "-" {
		return "stdin"
	}
	return name
}

func writeJSON(w io.Writer, v any) error {
	b, err := json.MarshalIndent(vcskema.JSONSafe(v), "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "%s\n", b)
	return err
}

func argOr(args []string, i int, def string) string {
	if len(args) > i {
		return args[i]
	}
	return def
}
