package main

import (
	"context"
	"fmt"
	"io"
	"strings"
)

// printUsage prints the top-level help, grouping commands by their group.
func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: pdftools <command> [subcommand] [flags] [args]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Convert files to PDF, merge and watermark PDFs.")
	fmt.Fprintln(w)

	cmds := commandTable()
	for _, g := range commandGroups() {
		fmt.Fprintf(w, "%s: %s\n", strings.ToUpper(g[:1])+g[1:], groupSummaries[g])
		for _, c := range cmds {
			if c.group == g {
				fmt.Fprintf(w, "  %-34s %s\n", c.path(), c.summary)
			}
		}
		fmt.Fprintln(w)
	}

	fmt.Fprintln(w, "Other commands:")
	for _, c := range cmds {
		if c.group == "" {
			fmt.Fprintf(w, "  %-34s %s\n", c.name, c.summary)
		}
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Supported inputs:")
	fmt.Fprintln(w, "  .pdf                               copied unchanged")
	fmt.Fprintln(w, "  .png .jpg .jpeg                    one page per image")
	fmt.Fprintln(w, "  .doc .docx .odt .rtf .txt          LibreOffice")
	fmt.Fprintln(w, "  .html .htm .md .markdown           Chrome")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Exit codes:")
	fmt.Fprintln(w, "  0  success")
	fmt.Fprintln(w, "  1  general error")
	fmt.Fprintln(w, "  2  usage error")
	fmt.Fprintln(w, "  3  file error (missing input, existing output, bad target)")
	fmt.Fprintln(w, "  4  conversion error (Chrome or LibreOffice failed)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Run 'pdftools help <command>' for details on a command.")
}

// printCommandUsage prints the help of one command with its flags.
func printCommandUsage(w io.Writer, cmd *command) {
	fs := newFlagSet(cmd)
	if cmd.flags != nil {
		cmd.flags(fs, &cliFlags{})
	}

	line := "Usage: pdftools " + cmd.path()
	if fs.HasFlags() {
		line += " [flags]"
	}
	if cmd.args != "" {
		line += " " + cmd.args
	}
	fmt.Fprintln(w, line)
	fmt.Fprintln(w)
	fmt.Fprintln(w, cmd.summary+".")

	if fs.HasFlags() {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Flags:")
		fmt.Fprint(w, fs.FlagUsages())
	}
}

// printGroupUsage prints the subcommands of a group.
func printGroupUsage(w io.Writer, group string) {
	fmt.Fprintf(w, "Usage: pdftools %s <subcommand> [flags] [args]\n", group)
	fmt.Fprintln(w)
	fmt.Fprintln(w, groupSummaries[group]+".")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Subcommands:")
	for _, c := range commandTable() {
		if c.group == group {
			fmt.Fprintf(w, "  %-24s %s\n", c.name, c.summary)
		}
	}
}

// runHelp handles "help [command [subcommand]]".
func runHelp(_ context.Context, inv *invocation) error {
	w := inv.env.Stdout
	switch len(inv.args) {
	case 0:
		printUsage(w)
		return nil
	case 1:
		if _, ok := groupSummaries[inv.args[0]]; ok {
			printGroupUsage(w, inv.args[0])
			return nil
		}
	}

	cmd, _, err := lookupCommand(inv.args)
	if err != nil {
		return err
	}
	if cmd.name == "completion" {
		printCompletionUsage(w)
		return nil
	}
	printCommandUsage(w, cmd)
	return nil
}
