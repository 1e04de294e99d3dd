package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/RowanDark/vigenere/internal/cipher"
	"github.com/RowanDark/vigenere/internal/config"
	"github.com/RowanDark/vigenere/internal/logging"
)

const productName = "vigenerectl"

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

// usageError marks failures caused by how the command was invoked.
type usageError struct{ err error }

func (e usageError) Error() string { return e.err.Error() }
func (e usageError) Unwrap() error { return e.err }

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	root := newRootCommand()
	root.SetArgs(args)
	root.SetIn(stdin)
	root.SetOut(stdout)
	root.SetErr(stderr)

	if err := root.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(stderr, "%s: %v\n", productName, err)
		var ue usageError
		if errors.As(err, &ue) {
			return 2
		}
		return 1
	}
	return 0
}

type globalFlags struct {
	configPath string
}

func newRootCommand() *cobra.Command {
	flags := &globalFlags{}
	root := groupCommand(&cobra.Command{
		Use:           productName,
		Short:         "Vigenère ciphering machine",
		SilenceUsage:  true,
		SilenceErrors: true,
	})
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return usageError{err}
	})
	root.PersistentFlags().StringVar(&flags.configPath, "config", "", "Path to a YAML or TOML config file")

	root.AddCommand(
		newCipherCommand(flags, "encrypt"),
		newCipherCommand(flags, "decrypt"),
		newOpsCommand(),
		newPipelineCommand(flags),
		newRecipeCommand(flags),
		newConfigCommand(flags),
		newServeCommand(flags),
	)
	markUsageErrors(root)
	return root
}

// groupCommand makes a parent command print help when called bare and reject
// unknown subcommands.
func groupCommand(cmd *cobra.Command) *cobra.Command {
	cmd.Args = cobra.NoArgs
	cmd.RunE = func(cmd *cobra.Command, _ []string) error {
		return cmd.Help()
	}
	return cmd
}

// markUsageErrors tags positional-argument failures on every command in the
// tree as usage errors.
func markUsageErrors(cmd *cobra.Command) {
	if validate := cmd.Args; validate != nil {
		cmd.Args = func(c *cobra.Command, args []string) error {
			if err := validate(c, args); err != nil {
				return usageError{err}
			}
			return nil
		}
	}
	for _, sub := range cmd.Commands() {
		markUsageErrors(sub)
	}
}

func loadConfig(flags *globalFlags) (config.Config, error) {
	var (
		cfg config.Config
		err error
	)
	if flags.configPath != "" {
		cfg, err = config.LoadFile(flags.configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return config.Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

// auditLogger writes to the configured audit file, or nowhere; stdout is
// reserved for command output.
func auditLogger(cfg config.Config) (*logging.AuditLogger, error) {
	if cfg.AuditLog == "" {
		return logging.Discard(), nil
	}
	return logging.NewAuditLogger(productName, logging.WithoutStdout(), logging.WithFile(cfg.AuditLog))
}

func recipeManager(cfg config.Config) (*cipher.RecipeManager, error) {
	rm := cipher.NewRecipeManager(cfg.RecipesDir)
	if err := rm.LoadRecipes(); err != nil {
		return nil, err
	}
	return rm, nil
}

// readInput joins args, or reads all of stdin when there are none. A single
// trailing newline from stdin is dropped.
func readInput(cmd *cobra.Command, args []string) (string, error) {
	if len(args) > 0 {
		return strings.Join(args, " "), nil
	}
	data, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return "", fmt.Errorf("read stdin: %w", err)
	}
	s := strings.TrimSuffix(string(data), "\n")
	return strings.TrimSuffix(s, "\r"), nil
}

// parseOpSpec parses "name" or "name:k=v,k=v" into an operation config.
func parseOpSpec(spec string) (cipher.OperationConfig, error) {
	name, rawParams, hasParams := strings.Cut(spec, ":")
	name = strings.TrimSpace(name)
	if name == "" {
		return cipher.OperationConfig{}, usageError{fmt.Errorf("invalid --op %q: missing operation name", spec)}
	}
	opConfig := cipher.OperationConfig{Name: name}
	if !hasParams || strings.TrimSpace(rawParams) == "" {
		return opConfig, nil
	}
	opConfig.Parameters = make(map[string]interface{})
	for _, pair := range strings.Split(rawParams, ",") {
		k, v, ok := strings.Cut(pair, "=")
		if !ok || strings.TrimSpace(k) == "" {
			return cipher.OperationConfig{}, usageError{fmt.Errorf("invalid --op %q: parameter %q is not k=v", spec, pair)}
		}
		opConfig.Parameters[strings.TrimSpace(k)] = v
	}
	return opConfig, nil
}

func parseOpSpecs(specs []string) ([]cipher.OperationConfig, error) {
	if len(specs) == 0 {
		return nil, usageError{errors.New("at least one --op is required")}
	}
	ops := make([]cipher.OperationConfig, 0, len(specs))
	for _, spec := range specs {
		op, err := parseOpSpec(spec)
		if err != nil {
			return nil, err
		}
		ops = append(ops, op)
	}
	return ops, nil
}
