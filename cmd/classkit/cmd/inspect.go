package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/rkall/classkit/pkg/classfile"
)

// inspectCmd represents the inspect command
var inspectCmd = &cobra.Command{
	Use:   "inspect <file.class>",
	Short: "Print the structure of a class file",
	Long: `Parse a class file and print its name, super class, interfaces,
record components, permitted subclasses, and attribute inventory.

Example:
  classkit inspect Point.class`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		data, err := os.ReadFile(args[0])
		if err != nil {
			cmd.Printf("Error reading file: %v\n", err)
			return
		}

		cf, err := classfile.Parse(data)
		if err != nil {
			cmd.Printf("Error parsing class file: %v\n", err)
			return
		}

		name, err := cf.Name()
		if err != nil {
			cmd.Printf("Error resolving class name: %v\n", err)
			return
		}
		cmd.Printf("class: %s\n", name)

		superName, err := cf.SuperName()
		if err != nil {
			cmd.Printf("Error resolving super class: %v\n", err)
			return
		}
		if superName != "" {
			cmd.Printf("super: %s\n", superName)
		}

		interfaces, err := cf.Interfaces()
		if err != nil {
			cmd.Printf("Error resolving interfaces: %v\n", err)
			return
		}
		for _, iface := range interfaces {
			cmd.Printf("implements: %s\n", iface)
		}

		if record, ok := cf.Attribute(classfile.RecordTag).(*classfile.RecordAttribute); ok {
			cmd.Printf("record components:\n")
			for _, component := range record.Components() {
				cname, err := component.Name()
				if err != nil {
					cmd.Printf("Error resolving component name: %v\n", err)
					return
				}
				descriptor, err := component.Descriptor()
				if err != nil {
					cmd.Printf("Error resolving component descriptor: %v\n", err)
					return
				}
				cmd.Printf("  %s %s\n", cname, descriptor)
			}
		}

		if permitted, ok := cf.Attribute(classfile.PermittedSubclassesTag).(*classfile.PermittedSubclassesAttribute); ok {
			names, err := permitted.PermittedSubclasses()
			if err != nil {
				cmd.Printf("Error resolving permitted subclasses: %v\n", err)
				return
			}
			cmd.Printf("permitted subclasses:\n")
			for _, sub := range names {
				cmd.Printf("  %s\n", sub)
			}
		}

		cmd.Printf("attributes:\n")
		for _, attr := range cf.Attributes() {
			cmd.Printf("  %s\n", attr.Name())
		}
	},
}

func init() {
	rootCmd.AddCommand(inspectCmd)
}
