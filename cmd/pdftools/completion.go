package main

import (
	"context"
	"fmt"
	"io"
	"strings"

	flag "github.com/spf13/pflag"
)

// Shell represents a supported shell for completion generation.
type Shell string

// Supported shells for completion.
const (
	ShellBash Shell = "bash"
	ShellZsh  Shell = "zsh"
	ShellFish Shell = "fish"
)

var supportedShells = []string{string(ShellBash), string(ShellZsh), string(ShellFish)}

// ErrUnsupportedShell is returned when an unknown shell is requested.
var ErrUnsupportedShell = fmt.Errorf("unsupported shell")

// flagType represents the completion type for a flag.
type flagType int

const (
	flagString flagType = iota // default
	flagBool
	flagFloat
	flagEnum // has predefined values
	flagFile // file with glob pattern
	flagDir  // directory
)

// flagDef describes a flag for completion purposes.
type flagDef struct {
	Long     string
	Short    string
	Type     flagType
	Desc     string
	Values   []string // for enum flags
	FileGlob string   // for file flags, comma separated
}

// commandDef describes a command for completion.
type commandDef struct {
	Group      string
	Name       string
	Desc       string
	Flags      []flagDef
	TakesFiles bool     // accepts path arguments
	Args       []string // fixed argument values (shells, command names)
}

// groupSummaries describes the command groups.
var groupSummaries = map[string]string{
	"convert":   "Convert files to PDF",
	"merge":     "Merge PDF files",
	"process":   "Convert files, then merge them",
	"watermark": "Stamp text on PDF pages",
}

// completionMeta holds completion-specific metadata for flags.
// Flag names, types, and descriptions come from the FlagSet.
type completionMeta struct {
	Values   []string
	FileGlob string
	IsDir    bool
}

// flagCompletionMeta maps flag names to their completion metadata.
var flagCompletionMeta = map[string]completionMeta{
	// Enum flags
	"page-size":   {Values: []string{"letter", "a4", "legal"}},
	"orientation": {Values: []string{"portrait", "landscape"}},
	"align":       {Values: []string{"left", "center", "right"}},

	// File flags with glob patterns
	"config":    {FileGlob: "*.yaml,*.yml"},
	"json-file": {FileGlob: "*.json"},

	// Directory flags
	"output":   {IsDir: true},
	"work-dir": {IsDir: true},
}

// extractFlagsFromFlagSet extracts flag definitions from a pflag.FlagSet.
// Enriches with completion metadata from flagCompletionMeta.
func extractFlagsFromFlagSet(fs *flag.FlagSet) []flagDef {
	var flags []flagDef

	fs.VisitAll(func(f *flag.Flag) {
		fd := flagDef{Long: f.Name, Short: f.Shorthand, Desc: f.Usage}

		switch f.Value.Type() {
		case "bool":
			fd.Type = flagBool
		case "float32", "float64":
			fd.Type = flagFloat
		default:
			fd.Type = flagString
		}

		if meta, ok := flagCompletionMeta[f.Name]; ok {
			switch {
			case len(meta.Values) > 0:
				fd.Type, fd.Values = flagEnum, meta.Values
			case meta.FileGlob != "":
				fd.Type, fd.FileGlob = flagFile, meta.FileGlob
			case meta.IsDir:
				fd.Type = flagDir
			}
		}

		flags = append(flags, fd)
	})

	return flags
}

// getCommands returns the completion registry, built from the command table
// and the flag registration of each command.
func getCommands() []commandDef {
	var defs []commandDef
	var topLevel []string
	for _, c := range commandTable() {
		fs := newFlagSet(c)
		if c.flags != nil {
			c.flags(fs, &cliFlags{})
		}
		def := commandDef{
			Group:      c.group,
			Name:       c.name,
			Desc:       c.summary,
			Flags:      extractFlagsFromFlagSet(fs),
			TakesFiles: strings.Contains(c.args, "<") && c.name != "completion",
		}
		if c.name == "completion" {
			def.Args = supportedShells
		}
		defs = append(defs, def)
		if c.group == "" {
			topLevel = append(topLevel, c.name)
		}
	}

	for i := range defs {
		if defs[i].Name == "help" && defs[i].Group == "" {
			defs[i].Args = append(commandGroups(), topLevel...)
		}
	}
	return defs
}

// commandGroups returns group names in table order.
func commandGroups() []string {
	var groups []string
	seen := map[string]bool{}
	for _, c := range commandTable() {
		if c.group != "" && !seen[c.group] {
			seen[c.group] = true
			groups = append(groups, c.group)
		}
	}
	return groups
}

// firstWords returns the words completed after "pdftools": groups, then
// top-level commands, each with its description.
func firstWords(defs []commandDef) [][2]string {
	var words [][2]string
	for _, g := range commandGroups() {
		words = append(words, [2]string{g, groupSummaries[g]})
	}
	for _, d := range defs {
		if d.Group == "" {
			words = append(words, [2]string{d.Name, d.Desc})
		}
	}
	return words
}

// GenerateCompletion writes shell completion script to w.
// Returns error if shell is unsupported or write fails.
func GenerateCompletion(w io.Writer, shell Shell) error {
	switch shell {
	case ShellBash:
		return generateBash(w)
	case ShellZsh:
		return generateZsh(w)
	case ShellFish:
		return generateFish(w)
	default:
		return fmt.Errorf("%w: %q (supported: %s)", ErrUnsupportedShell, shell, strings.Join(supportedShells, ", "))
	}
}

// runCompletion handles "completion <shell>".
func runCompletion(_ context.Context, inv *invocation) error {
	if len(inv.args) == 0 {
		printCompletionUsage(inv.env.Stdout)
		return nil
	}
	return GenerateCompletion(inv.env.Stdout, Shell(inv.args[0]))
}

// ---------------------------------------------------------------------------
// Bash
// ---------------------------------------------------------------------------

func generateBash(w io.Writer) error {
	defs := getCommands()
	var b strings.Builder

	b.WriteString("# bash completion for pdftools\n")
	b.WriteString("_pdftools_completions() {\n")
	b.WriteString("    local cur prev cmd path\n")
	b.WriteString("    cur=\"${COMP_WORDS[COMP_CWORD]}\"\n")
	b.WriteString("    prev=\"${COMP_WORDS[COMP_CWORD-1]}\"\n")
	b.WriteString("    cmd=\"${COMP_WORDS[1]}\"\n\n")

	var first []string
	for _, wd := range firstWords(defs) {
		first = append(first, wd[0])
	}
	b.WriteString("    if [[ $COMP_CWORD -eq 1 ]]; then\n")
	fmt.Fprintf(&b, "        COMPREPLY=($(compgen -W %q -- \"$cur\"))\n", strings.Join(first, " "))
	b.WriteString("        return\n    fi\n\n")

	b.WriteString("    case \"$cmd\" in\n")
	for _, g := range commandGroups() {
		var subs []string
		for _, d := range defs {
			if d.Group == g {
				subs = append(subs, d.Name)
			}
		}
		fmt.Fprintf(&b, "    %s)\n", g)
		b.WriteString("        if [[ $COMP_CWORD -eq 2 ]]; then\n")
		fmt.Fprintf(&b, "            COMPREPLY=($(compgen -W %q -- \"$cur\"))\n", strings.Join(subs, " "))
		b.WriteString("            return\n        fi\n")
		b.WriteString("        path=\"$cmd ${COMP_WORDS[2]}\" ;;\n")
	}
	b.WriteString("    *) path=\"$cmd\" ;;\n    esac\n\n")

	// Flag values
	b.WriteString("    case \"$prev\" in\n")
	seen := map[string]bool{}
	for _, d := range defs {
		for _, f := range d.Flags {
			if seen[f.Long] {
				continue
			}
			names := "--" + f.Long
			if f.Short != "" {
				names += "|-" + f.Short
			}
			switch f.Type {
			case flagEnum:
				fmt.Fprintf(&b, "    %s) COMPREPLY=($(compgen -W %q -- \"$cur\")); return ;;\n", names, strings.Join(f.Values, " "))
			case flagDir:
				fmt.Fprintf(&b, "    %s) COMPREPLY=($(compgen -d -- \"$cur\")); return ;;\n", names)
			case flagFile:
				fmt.Fprintf(&b, "    %s) COMPREPLY=($(compgen -f -X '!@(%s)' -- \"$cur\")); return ;;\n", names, strings.ReplaceAll(f.FileGlob, ",", "|"))
			case flagString, flagFloat:
				fmt.Fprintf(&b, "    %s) return ;;\n", names)
			default:
				continue
			}
			seen[f.Long] = true
		}
	}
	b.WriteString("    esac\n\n")

	// Flags and arguments per command
	b.WriteString("    case \"$path\" in\n")
	for _, d := range defs {
		path := d.Name
		if d.Group != "" {
			path = d.Group + " " + d.Name
		}
		fmt.Fprintf(&b, "    %q)\n", path)
		if len(d.Flags) > 0 {
			var names []string
			for _, f := range d.Flags {
				names = append(names, "--"+f.Long)
			}
			b.WriteString("        if [[ \"$cur\" == -* ]]; then\n")
			fmt.Fprintf(&b, "            COMPREPLY=($(compgen -W %q -- \"$cur\"))\n", strings.Join(names, " "))
			b.WriteString("            return\n        fi\n")
		}
		switch {
		case len(d.Args) > 0:
			fmt.Fprintf(&b, "        COMPREPLY=($(compgen -W %q -- \"$cur\")) ;;\n", strings.Join(d.Args, " "))
		case d.TakesFiles:
			b.WriteString("        COMPREPLY=($(compgen -f -- \"$cur\")) ;;\n")
		default:
			b.WriteString("        ;;\n")
		}
	}
	b.WriteString("    esac\n}\n\n")
	b.WriteString("shopt -s extglob\n")
	b.WriteString("complete -F _pdftools_completions pdftools\n")

	_, err := io.WriteString(w, b.String())
	return err
}

// ---------------------------------------------------------------------------
// Zsh
// ---------------------------------------------------------------------------

func generateZsh(w io.Writer) error {
	defs := getCommands()
	var b strings.Builder

	b.WriteString("#compdef pdftools\n\n")
	b.WriteString("_pdftools() {\n")
	b.WriteString("    local -a commands subcommands\n")
	b.WriteString("    commands=(\n")
	for _, wd := range firstWords(defs) {
		fmt.Fprintf(&b, "        '%s:%s'\n", wd[0], zshQuote(wd[1]))
	}
	b.WriteString("    )\n\n")
	b.WriteString("    if (( CURRENT == 2 )); then\n")
	b.WriteString("        _describe 'command' commands\n")
	b.WriteString("        return\n    fi\n\n")

	b.WriteString("    case \"$words[2]\" in\n")
	for _, g := range commandGroups() {
		fmt.Fprintf(&b, "    %s)\n", g)
		b.WriteString("        if (( CURRENT == 3 )); then\n")
		b.WriteString("            subcommands=(\n")
		for _, d := range defs {
			if d.Group == g {
				fmt.Fprintf(&b, "                '%s:%s'\n", d.Name, zshQuote(d.Desc))
			}
		}
		b.WriteString("            )\n")
		b.WriteString("            _describe 'subcommand' subcommands\n")
		b.WriteString("            return\n        fi\n")
		b.WriteString("        words=(${words[3,-1]})\n")
		b.WriteString("        (( CURRENT -= 2 ))\n")
		b.WriteString("        case \"$words[1]\" in\n")
		for _, d := range defs {
			if d.Group == g {
				fmt.Fprintf(&b, "        %s)\n            _arguments -s \\\n%s            ;;\n", d.Name, zshArguments(d, "                "))
			}
		}
		b.WriteString("        esac ;;\n")
	}
	for _, d := range defs {
		if d.Group != "" {
			continue
		}
		fmt.Fprintf(&b, "    %s)\n", d.Name)
		b.WriteString("        words=(${words[2,-1]})\n")
		b.WriteString("        (( CURRENT -= 1 ))\n")
		fmt.Fprintf(&b, "        _arguments -s \\\n%s        ;;\n", zshArguments(d, "            "))
	}
	b.WriteString("    esac\n}\n\n")
	b.WriteString("_pdftools \"$@\"\n")

	_, err := io.WriteString(w, b.String())
	return err
}

// zshArguments renders the _arguments specs of a command, one per line.
func zshArguments(d commandDef, indent string) string {
	var specs []string
	for _, f := range d.Flags {
		desc := zshQuote(strings.NewReplacer("[", "\\[", "]", "\\]").Replace(f.Desc))
		var action string
		switch f.Type {
		case flagBool:
		case flagEnum:
			action = ":value:(" + strings.Join(f.Values, " ") + ")"
		case flagDir:
			action = ":directory:_files -/"
		case flagFile:
			action = ":file:_files -g \"" + strings.ReplaceAll(f.FileGlob, ",", " ") + "\""
		default:
			action = ":value:"
		}
		if f.Short != "" {
			specs = append(specs, fmt.Sprintf("'(-%s --%s)'{-%s,--%s}'[%s]%s'", f.Short, f.Long, f.Short, f.Long, desc, action))
		} else {
			specs = append(specs, fmt.Sprintf("'--%s[%s]%s'", f.Long, desc, action))
		}
	}
	switch {
	case len(d.Args) > 0:
		specs = append(specs, "'1:argument:("+strings.Join(d.Args, " ")+")'")
	case d.TakesFiles:
		specs = append(specs, "'*:file:_files'")
	}

	var b strings.Builder
	for i, s := range specs {
		b.WriteString(indent + s)
		if i < len(specs)-1 {
			b.WriteString(" \\")
		}
		b.WriteString("\n")
	}
	if len(specs) == 0 {
		b.WriteString(indent + "'*::'\n")
	}
	return b.String()
}

func zshQuote(s string) string {
	return strings.ReplaceAll(s, "'", "'\\''")
}

// ---------------------------------------------------------------------------
// Fish
// ---------------------------------------------------------------------------

func generateFish(w io.Writer) error {
	defs := getCommands()
	var b strings.Builder

	b.WriteString("# fish completion for pdftools\n\n")
	b.WriteString("function __fish_pdftools_needs_command\n")
	b.WriteString("    set -l cmd (commandline -opc)\n")
	b.WriteString("    test (count $cmd) -eq 1\nend\n\n")
	b.WriteString("function __fish_pdftools_needs_subcommand\n")
	b.WriteString("    set -l cmd (commandline -opc)\n")
	b.WriteString("    test (count $cmd) -eq 2; and test \"$cmd[2]\" = \"$argv[1]\"\nend\n\n")
	b.WriteString("function __fish_pdftools_using_command\n")
	b.WriteString("    set -l cmd (commandline -opc)\n")
	b.WriteString("    test (count $cmd) -ge (math (count $argv) + 1); or return 1\n")
	b.WriteString("    for i in (seq (count $argv))\n")
	b.WriteString("        test \"$cmd[(math $i + 1)]\" = \"$argv[$i]\"; or return 1\n")
	b.WriteString("    end\nend\n\n")

	b.WriteString("complete -c pdftools -f\n")
	for _, wd := range firstWords(defs) {
		fmt.Fprintf(&b, "complete -c pdftools -n __fish_pdftools_needs_command -a %s -d '%s'\n", wd[0], fishQuote(wd[1]))
	}
	b.WriteString("\n")

	for _, d := range defs {
		cond := "__fish_pdftools_using_command " + d.Name
		if d.Group != "" {
			fmt.Fprintf(&b, "complete -c pdftools -n '__fish_pdftools_needs_subcommand %s' -a %s -d '%s'\n", d.Group, d.Name, fishQuote(d.Desc))
			cond = "__fish_pdftools_using_command " + d.Group + " " + d.Name
		}
		for _, f := range d.Flags {
			line := fmt.Sprintf("complete -c pdftools -n '%s'", cond)
			if f.Short != "" {
				line += " -s " + f.Short
			}
			line += " -l " + f.Long
			switch f.Type {
			case flagBool:
			case flagEnum:
				line += " -x -a '" + strings.Join(f.Values, " ") + "'"
			case flagDir:
				line += " -r -a '(__fish_complete_directories)'"
			case flagFile:
				line += " -r -F"
			default:
				line += " -x"
			}
			line += " -d '" + fishQuote(f.Desc) + "'"
			b.WriteString(line + "\n")
		}
		switch {
		case len(d.Args) > 0:
			fmt.Fprintf(&b, "complete -c pdftools -n '%s' -a '%s'\n", cond, strings.Join(d.Args, " "))
		case d.TakesFiles:
			fmt.Fprintf(&b, "complete -c pdftools -n '%s' -F\n", cond)
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func fishQuote(s string) string {
	return strings.ReplaceAll(s, "'", "\\'")
}

// printCompletionUsage prints help for the completion command.
func printCompletionUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: pdftools completion <shell>")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Generate shell completion script for the specified shell.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Supported shells:")
	fmt.Fprintln(w, "  bash        Bash completion script")
	fmt.Fprintln(w, "  zsh         Zsh completion script")
	fmt.Fprintln(w, "  fish        Fish completion script")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Installation:")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  Bash:")
	fmt.Fprintln(w, "    # Add to ~/.bashrc:")
	fmt.Fprintln(w, "    eval \"$(pdftools completion bash)\"")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  Zsh:")
	fmt.Fprintln(w, "    # Add to ~/.zshrc (before compinit):")
	fmt.Fprintln(w, "    eval \"$(pdftools completion zsh)\"")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  Fish:")
	fmt.Fprintln(w, "    pdftools completion fish > ~/.config/fish/completions/pdftools.fish")
}
