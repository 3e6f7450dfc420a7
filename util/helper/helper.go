// functions with side effect
package helper

import (
	"bytes"
	"fmt"
	"io"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"slices"
	"strings"
	"text/template"

	"github.com/go-sprout/sprout"
	"github.com/go-sprout/sprout/group/all"
	"github.com/gobwas/glob"
	"github.com/google/shlex"
	"github.com/natefinch/atomic"
	"golang.org/x/term"

	"github.com/sagan/laras/util"
	"github.com/sagan/laras/util/stringutil"
)

// Recognize "*.json" style glob, return parsed filenames.
// Args without glob meta chars (or without matches) are kept as is.
func ParseFilenameArgs(args ...string) []string {
	names := []string{}
	for _, arg := range args {
		filenames := ParseGlobFilenames(arg)
		if len(filenames) == 0 {
			names = append(names, arg)
		} else {
			names = append(names, filenames...)
		}
	}
	slices.Sort(names)
	return slices.Compact(names)
}

// ParseGlobFilenames expands a shell-like glob pattern (e.g. "drafts/*.json") into
// matching regular filenames on disk, sorted. It returns nil if pattern has no glob meta chars,
// is invalid or has no matches. Brace expansion and "~" are not supported.
func ParseGlobFilenames(pattern string) []string {
	pattern = strings.TrimSpace(pattern)
	if !strings.ContainsAny(pattern, "*?[") {
		return nil
	}
	patSlash := filepath.ToSlash(pattern)
	g, err := glob.Compile(patSlash, '/')
	if err != nil {
		return nil
	}
	var matches []string
	_ = filepath.WalkDir(computeWalkRoot(pattern), func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil || d.IsDir() {
			// Ignore unreadable dirs/files.
			return nil
		}
		target := filepath.ToSlash(path)
		if !filepath.IsAbs(pattern) {
			if rel, err := filepath.Rel(".", path); err == nil {
				target = filepath.ToSlash(rel)
			}
		}
		if g.Match(target) {
			matches = append(matches, filepath.FromSlash(target))
		}
		return nil
	})
	slices.Sort(matches)
	return matches
}

// The directory portion of the longest prefix before any glob meta char.
func computeWalkRoot(pattern string) string {
	prefix := pattern
	if i := strings.IndexAny(pattern, "*?[{"); i >= 0 {
		prefix = pattern[:i]
	}
	if lastSep := strings.LastIndexAny(prefix, `/\`); lastSep >= 0 {
		prefix = prefix[:lastSep+1]
	} else {
		prefix = ""
	}
	if prefix == "" {
		return "."
	}
	return filepath.Clean(prefix)
}

// Ask user to confirm an (dangerous) action via typing yes in tty
func AskYesNoConfirm(prompt string) bool {
	if prompt == "" {
		prompt = "Will do the action"
	}
	fmt.Fprintf(os.Stderr, "%s, are you sure? (yes/no): ", prompt)
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		fmt.Fprintf(os.Stderr, `Abort due to stdin is NOT tty. Use a proper flag (like "--force") to skip the prompt`+"\n")
		return false
	}
	for {
		input := ""
		fmt.Scanf("%s\n", &input)
		switch input {
		case "yes", "YES", "Yes":
			return true
		case "n", "N", "no", "NO", "No":
			return false
		default:
			if len(input) > 0 {
				fmt.Fprintf(os.Stderr, "Respond with yes or no (Or use Ctrl+C to abort): ")
			} else {
				return false
			}
		}
	}
}

// ReadInput reads a text input file ("-" for stdin) normalized to UTF-8.
func ReadInput(name string) ([]byte, error) {
	var reader io.Reader
	if name == "-" {
		reader = os.Stdin
	} else {
		f, err := os.Open(name)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		reader = f
	}
	return io.ReadAll(stringutil.GetTextReader(reader))
}

// CheckOutput returns an error if output is an existing file and force is false.
// "-" (stdout) and "" always pass.
func CheckOutput(output string, force bool) error {
	if output == "-" || output == "" {
		return nil
	}
	if exists, err := util.FileExists(output); err != nil || (exists && !force) {
		return fmt.Errorf("output file %q exists or can't access, err=%w", output, err)
	}
	return nil
}

// WriteOutput writes contents to output file atomically, or to stdout if output is "-".
func WriteOutput(output string, stdout io.Writer, contents []byte) error {
	if output == "-" {
		_, err := stdout.Write(contents)
		return err
	}
	if dir := filepath.Dir(output); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	return atomic.WriteFile(output, bytes.NewReader(contents))
}

var handler *sprout.DefaultHandler

// sprout provided template funcs
var templateFuncs map[string]any

func init() {
	handler = sprout.New()
	handler.AddGroups(all.RegistryGroup())
	templateFuncs = handler.Build()
}

// Simple wrapper on Go text template.Template.
type Template struct {
	*template.Template
}

// Execute Go text template and return rendered string.
// The result string is trim spaced.
func (t *Template) Exec(data any) (string, error) {
	return util.ExecTemplate(t.Template, data)
}

// Get a Go text template instance from tpl string, with all sprout functions.
// If tpl starts with "@" char, treat it (the rest part after @) as a file name
// and read template contents from it instead.
func GetTemplate(tpl string, strict bool) (*Template, error) {
	if strings.HasPrefix(tpl, "@") {
		contents, err := ReadInput(tpl[1:])
		if err != nil {
			return nil, err
		}
		tpl = string(contents)
	}
	templateInstance := template.New("template").Funcs(templateFuncs)
	if strict {
		templateInstance = templateInstance.Option("missingkey=error")
	}
	t, err := templateInstance.Parse(tpl)
	if err != nil {
		return nil, err
	}
	return &Template{Template: t}, nil
}

// Run a cmdline.
// If shell is true, execute it using system shell (cmd / sh); otherwise parse it using shlex.
func RunCmdline(cmdline string, shell bool, stdin io.Reader, stdout, stderr io.Writer) (err error) {
	var command *exec.Cmd
	if shell {
		if runtime.GOOS == "windows" {
			command = exec.Command("cmd", "/C", cmdline)
		} else {
			command = exec.Command("sh", "-c", cmdline)
		}
	} else {
		args, err := shlex.Split(cmdline)
		if err != nil {
			return err
		}
		if len(args) == 0 {
			return fmt.Errorf("cmdline is empty")
		}
		command = exec.Command(args[0], args[1:]...)
	}
	command.Stdin = stdin
	command.Stdout = stdout
	command.Stderr = stderr
	return command.Run()
}
