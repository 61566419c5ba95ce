package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hargabyte/jhier/internal/hierarchy"
)

// Query commands answer one question against the saved snapshot. Class
// arguments accept internal (com/example/Foo) or dotted (com.example.Foo)
// names; nested classes use $.

var superCmd = &cobra.Command{
	Use:     "super <class>",
	Aliases: []string{"superclass"},
	Short:   "Show the direct superclass of a class",
	Long: `Show the direct superclass recorded for a class.

Classes outside the index, and platform classes whose parent is also a
platform class, have no recorded superclass.

Examples:
  jhier super com/example/Circle
  jhier super com.example.Circle --format json`,
	Args: cobra.ExactArgs(1),
	RunE: runSuper,
}

var ancestryCmd = &cobra.Command{
	Use:   "ancestry <class>",
	Short: "List every superclass of a class, nearest first",
	Long: `List the superclass chain of a class, nearest first, ending at the first
class without a recorded superclass.

Fails when the chain contains a cycle.

Examples:
  jhier ancestry com/example/Circle`,
	Args: cobra.ExactArgs(1),
	RunE: runAncestry,
}

var subclassesCmd = &cobra.Command{
	Use:   "subclasses <class>",
	Short: "List the direct subclasses of a class",
	Long: `List the classes whose recorded superclass is the given class, sorted by
internal name.

Examples:
  jhier subclasses com/example/Shape`,
	Args: cobra.ExactArgs(1),
	RunE: runSubclasses,
}

var implementsCmd = &cobra.Command{
	Use:   "implements <class> <method> <descriptor> | implements <class.method(desc)ret>",
	Short: "Check whether a class itself declares a method",
	Long: `Check whether a class itself declares a method with the given name and
JVM descriptor. Inherited methods do not count.

The method can be given as three arguments or as one internal method id.

Examples:
  jhier implements com/example/Circle area "()D"
  jhier implements "com/example/Circle.area()D"`,
	Args: methodArgs,
	RunE: runImplements,
}

var resolveCmd = &cobra.Command{
	Use:   "resolve <class> <method> <descriptor> | resolve <class.method(desc)ret>",
	Short: "Find the topmost ancestor that declares a method",
	Long: `Find the canonical declaring class of a method: the most distant ancestor
of the class (or the class itself) that declares the same name and
descriptor. A class that does not declare the method anywhere in its chain
resolves to itself.

Examples:
  jhier resolve com/example/Circle area "()D"
  jhier resolve "com/example/Circle.toString()Ljava/lang/String;"`,
	Args: methodArgs,
	RunE: runResolve,
}

func init() {
	rootCmd.AddCommand(superCmd)
	rootCmd.AddCommand(ancestryCmd)
	rootCmd.AddCommand(subclassesCmd)
	rootCmd.AddCommand(implementsCmd)
	rootCmd.AddCommand(resolveCmd)
}

// methodArgs accepts either <class> <method> <descriptor> or one method id.
func methodArgs(cmd *cobra.Command, args []string) error {
	if len(args) != 1 && len(args) != 3 {
		return fmt.Errorf("expected <class> <method> <descriptor> or <class.method(desc)ret>, got %d args", len(args))
	}
	_, err := parseMethodArgs(args)
	return err
}

func parseMethodArgs(args []string) (hierarchy.MethodEntry, error) {
	if len(args) == 3 {
		if args[1] == "" || args[2] == "" {
			return hierarchy.MethodEntry{}, fmt.Errorf("method name and descriptor must not be empty")
		}
		return hierarchy.MethodEntry{Class: args[0], Name: args[1], Descriptor: args[2]}, nil
	}
	m, ok := hierarchy.ParseMethodInternalName(args[0])
	if !ok {
		return hierarchy.MethodEntry{}, fmt.Errorf("invalid method id %q: expected class.method(desc)ret", args[0])
	}
	return m, nil
}

func runSuper(cmd *cobra.Command, args []string) error {
	env, err := openQueryEnv(cmd.Context())
	if err != nil {
		return err
	}
	return writeResult(cmd, env.format, env.results.Superclass(args[0]))
}

func runAncestry(cmd *cobra.Command, args []string) error {
	env, err := openQueryEnv(cmd.Context())
	if err != nil {
		return err
	}
	result, err := env.results.Ancestry(args[0])
	if err != nil {
		return err
	}
	return writeResult(cmd, env.format, result)
}

func runSubclasses(cmd *cobra.Command, args []string) error {
	env, err := openQueryEnv(cmd.Context())
	if err != nil {
		return err
	}
	return writeResult(cmd, env.format, env.results.Subclasses(args[0]))
}

func runImplements(cmd *cobra.Command, args []string) error {
	m, err := parseMethodArgs(args)
	if err != nil {
		return err
	}
	env, err := openQueryEnv(cmd.Context())
	if err != nil {
		return err
	}
	return writeResult(cmd, env.format, env.results.Implements(m))
}

func runResolve(cmd *cobra.Command, args []string) error {
	m, err := parseMethodArgs(args)
	if err != nil {
		return err
	}
	env, err := openQueryEnv(cmd.Context())
	if err != nil {
		return err
	}
	result, err := env.results.Resolve(m)
	if err != nil {
		return err
	}
	return writeResult(cmd, env.format, result)
}
