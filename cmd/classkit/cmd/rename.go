package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/rkall/classkit/pkg/classfile"
)

// renameCmd represents the rename command
var renameCmd = &cobra.Command{
	Use:   "rename <file.class> <old-name> <new-name>",
	Short: "Rewrite a class name everywhere it appears in a class file",
	Long: `Rename a class reference in a class file. Every occurrence of the old
name is rewritten: the class hierarchy, member descriptors, and the
Record and PermittedSubclasses attributes. Names may be given in dot or
slash form.

Example:
  classkit rename Shape.class com.foo.Circle com.foo.Ellipse -o Shape-renamed.class`,
	Args: cobra.ExactArgs(3),
	Run: func(cmd *cobra.Command, args []string) {
		path, oldName, newName := args[0], args[1], args[2]
		output, _ := cmd.Flags().GetString("output")
		if output == "" {
			output = path
		}

		data, err := os.ReadFile(path)
		if err != nil {
			cmd.Printf("Error reading file: %v\n", err)
			return
		}

		cf, err := classfile.Parse(data)
		if err != nil {
			cmd.Printf("Error parsing class file: %v\n", err)
			return
		}

		if err := cf.RenameClass(oldName, newName); err != nil {
			cmd.Printf("Error renaming class: %v\n", err)
			return
		}

		out, err := cf.Bytes()
		if err != nil {
			cmd.Printf("Error encoding class file: %v\n", err)
			return
		}
		if err := os.WriteFile(output, out, 0644); err != nil {
			cmd.Printf("Error writing file: %v\n", err)
			return
		}

		cmd.Printf("Renamed %s -> %s in %s\n", classfile.ToInternalName(oldName), classfile.ToInternalName(newName), output)
	},
}

func init() {
	rootCmd.AddCommand(renameCmd)
	renameCmd.Flags().StringP("output", "o", "", "Output path (defaults to rewriting in place)")
}
