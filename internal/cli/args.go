package cli

import (
	"strings"

	"github.com/spf13/cobra"
)

// normalizeArgs rewrites "DIRECTORY subcommand ..." into
// "subcommand ... --dir DIRECTORY" so that cobra can route the subcommand.
// Arguments are returned unchanged when the first positional argument is
// already a subcommand or no subcommand follows it.
func normalizeArgs(args []string, root *cobra.Command) []string {
	first := -1
	for i, arg := range args {
		if arg == "--" {
			return args
		}
		if !strings.HasPrefix(arg, "-") {
			first = i
			break
		}
		if takesValue(root, arg) && !strings.Contains(arg, "=") {
			return args
		}
	}
	if first < 0 || isSubcommand(root, args[first]) {
		return args
	}

	for _, arg := range args[first+1:] {
		if strings.HasPrefix(arg, "-") {
			continue
		}
		if !isSubcommand(root, arg) {
			return args
		}
		out := make([]string, 0, len(args)+1)
		out = append(out, args[:first]...)
		out = append(out, args[first+1:]...)
		return append(out, "--dir", args[first])
	}
	return args
}

func isSubcommand(root *cobra.Command, name string) bool {
	if name == "help" || name == "completion" {
		return true
	}
	for _, c := range root.Commands() {
		if c.Name() == name || c.HasAlias(name) {
			return true
		}
	}
	return false
}

// takesValue reports whether a persistent flag consumes the next argument.
func takesValue(root *cobra.Command, arg string) bool {
	name := strings.TrimLeft(arg, "-")
	flags := root.PersistentFlags()
	f := flags.Lookup(name)
	if f == nil && len(name) == 1 {
		f = flags.ShorthandLookup(name)
	}
	return f != nil && f.Value.Type() != "bool"
}
