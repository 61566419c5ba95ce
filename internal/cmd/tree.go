package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hargabyte/jhier/internal/hierarchy"
	"github.com/hargabyte/jhier/internal/output"
)

// treeCmd represents the tree command
var treeCmd = &cobra.Command{
	Use:   "tree <class>",
	Short: "Show the inheritance or override tree around a class",
	Long: `Show the inheritance tree containing a class, rooted at its topmost
recorded ancestor.

With --method and --desc the override tree of that method is shown instead,
rooted at the class that canonically declares it. Every node records
whether the class declares the method itself (+) or inherits it (-).

By default the whole tree is expanded (up to tree.max_depth levels);
--shallow only expands the root's direct subclasses and marks those with
further subclasses as truncated.

Examples:
  jhier tree com/example/Circle
  jhier tree com/example/Circle --shallow
  jhier tree com/example/Circle --method area --desc "()D"
  jhier tree com/example/Shape --format json`,
	Args: cobra.ExactArgs(1),
	RunE: runTree,
}

var (
	treeMethod  string
	treeDesc    string
	treeShallow bool
)

func init() {
	rootCmd.AddCommand(treeCmd)

	treeCmd.Flags().StringVar(&treeMethod, "method", "", "Method name for an override tree")
	treeCmd.Flags().StringVar(&treeDesc, "desc", "", "JVM method descriptor, e.g. \"(I)V\"")
	treeCmd.Flags().BoolVar(&treeShallow, "shallow", false, "Expand only the root's direct subclasses")
}

func runTree(cmd *cobra.Command, args []string) error {
	if (treeMethod == "") != (treeDesc == "") {
		return fmt.Errorf("--method and --desc must be given together")
	}

	env, err := openQueryEnv(cmd.Context())
	if err != nil {
		return err
	}
	mode, err := env.expansion(treeShallow)
	if err != nil {
		return err
	}

	builder := env.builder()

	if treeMethod != "" {
		m := hierarchy.MethodEntry{Class: args[0], Name: treeMethod, Descriptor: treeDesc}
		root, err := builder.MethodTree(m, mode)
		if err != nil {
			return err
		}
		return writeResult(cmd, env.format, &output.MethodTreeOutput{Nodes: root.Count(), Tree: root})
	}

	root, err := builder.ClassTree(args[0], mode)
	if err != nil {
		return err
	}
	return writeResult(cmd, env.format, &output.ClassTreeOutput{Nodes: root.Count(), Tree: root})
}
