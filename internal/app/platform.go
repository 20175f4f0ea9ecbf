package app

import (
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"unicode"
)

// externalCommands are the helper programs the viewer hands data to. A nil
// command is unavailable.
type externalCommands struct {
	clipboard []string
	editor    []string
}

// A candidate is an executable name followed by the arguments it needs.
type candidate []string

// helperTools lists, per platform family, the clipboard writers that read
// stdin and the editors that can take a binary file, in order of preference.
var helperTools = map[bool]struct {
	clipboard []candidate
	editor    []candidate
}{
	false: {
		clipboard: []candidate{
			{"pbcopy"},
			{"wl-copy"},
			{"xclip", "-selection", "clipboard"},
			{"xsel", "--clipboard", "--input"},
		},
		editor: []candidate{
			{"hexedit"},
			{"vim", "-b"},
			{"nano"},
		},
	},
	true: {
		clipboard: []candidate{
			{"clip.exe"},
			{"powershell", "-NoLogo", "-NoProfile", "-Command", "Set-Clipboard"},
			{"pwsh", "-NoLogo", "-NoProfile", "-Command", "Set-Clipboard"},
		},
		editor: []candidate{
			{"hxd.exe"},
			{"code", "--wait"},
			{"notepad++.exe"},
		},
	},
}

// editorEnv is consulted before the built-in editors.
var editorEnv = []string{"XV_EDITOR", "VISUAL", "EDITOR"}

func detectExternalCommands() externalCommands {
	return detectExternalCommandsFor(runtime.GOOS, os.Getenv, exec.LookPath)
}

func detectExternalCommandsFor(goos string, getenv func(string) string, lookPath func(string) (string, error)) externalCommands {
	tools := helperTools[strings.EqualFold(goos, "windows")]

	editors := make([]candidate, 0, len(editorEnv)+len(tools.editor))
	for _, key := range editorEnv {
		if args := splitCommand(getenv(key)); len(args) > 0 {
			editors = append(editors, args)
		}
	}
	editors = append(editors, tools.editor...)

	return externalCommands{
		clipboard: firstAvailable(tools.clipboard, lookPath),
		editor:    firstAvailable(editors, lookPath),
	}
}

// firstAvailable returns the first candidate whose executable resolves, with
// the executable replaced by its resolved path.
func firstAvailable(candidates []candidate, lookPath func(string) (string, error)) []string {
	for _, c := range candidates {
		if len(c) == 0 {
			continue
		}
		path, err := lookPath(expandHome(c[0]))
		if err != nil || path == "" {
			continue
		}
		return append([]string{path}, c[1:]...)
	}
	return nil
}

// splitCommand splits a command line on white space. Single or double quotes
// group words.
func splitCommand(line string) []string {
	var args []string
	var word strings.Builder
	var quote rune
	inWord := false

	for _, r := range line {
		switch {
		case quote != 0 && r == quote:
			quote = 0
		case quote == 0 && (r == '\'' || r == '"'):
			quote = r
			inWord = true
		case quote == 0 && unicode.IsSpace(r):
			if inWord {
				args = append(args, word.String())
				word.Reset()
				inWord = false
			}
		default:
			word.WriteRune(r)
			inWord = true
		}
	}
	if inWord {
		args = append(args, word.String())
	}
	return args
}

func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") && !strings.HasPrefix(path, `~\`) {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[1:])
}
