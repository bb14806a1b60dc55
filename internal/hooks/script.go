package hooks

import (
	"strings"

	"github.com/aymerick/raymond"
)

const preCommitTemplate = `#!/bin/sh
# Installed by woodfmt {{version}}. Run 'woodfmt hooks install' again to refresh.
WOODFMT={{{executable}}}

if [ ! -x "$WOODFMT" ]; then
    echo "❌ woodfmt not found at $WOODFMT" >&2
    echo "💡 Reinstall the hook with 'woodfmt hooks install'" >&2
    exit 1
fi

exec "$WOODFMT" hooks run --root {{{root}}}
`

// ScriptData is the template context of the installed hook script.
type ScriptData struct {
	Executable string
	Root       string
	Version    string
}

// RenderScript renders the pre-commit trigger script.
func RenderScript(d ScriptData) (string, error) {
	return raymond.Render(preCommitTemplate, map[string]string{
		"executable": shellQuote(d.Executable),
		"root":       shellQuote(d.Root),
		"version":    d.Version,
	})
}

// shellQuote wraps s in single quotes for POSIX sh.
func shellQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}
