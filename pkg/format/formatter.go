package format

import (
	"fmt"
	"io"
	"os"

	"github.com/fulmenhq/woodfmt/pkg/fault"
	"github.com/fulmenhq/woodfmt/pkg/logger"
	"github.com/fulmenhq/woodfmt/pkg/safeio"
)

// maxListed is how many offending paths check mode prints.
const maxListed = 5

// Outcome is the per-file result of one transform run.
type Outcome struct {
	Path    string
	Changed bool
	Err     error
}

// Result collects the outcomes of a batch in input order.
type Result struct {
	Transform string
	Outcomes  []Outcome
}

// Changed returns the paths that changed (apply) or would change (check).
func (r Result) Changed() []string {
	var out []string
	for _, o := range r.Outcomes {
		if o.Err == nil && o.Changed {
			out = append(out, o.Path)
		}
	}
	return out
}

// Failed returns the outcomes that carry an error.
func (r Result) Failed() []Outcome {
	var out []Outcome
	for _, o := range r.Outcomes {
		if o.Err != nil {
			out = append(out, o)
		}
	}
	return out
}

// Clean reports whether nothing changed and nothing failed.
func (r Result) Clean() bool {
	return len(r.Changed()) == 0 && len(r.Failed()) == 0
}

// CheckFile reports whether t would change the file. It never writes.
func CheckFile(path string, t Transform) Outcome {
	src, err := os.ReadFile(path) // #nosec G304 -- path comes from discovery or git
	if err != nil {
		return Outcome{Path: path, Err: fault.New(fault.KindIO, "read "+path, err)}
	}
	changed, _, err := t.Changes(path, src)
	if err != nil {
		return Outcome{Path: path, Err: err}
	}
	return Outcome{Path: path, Changed: changed}
}

// ApplyFile rewrites the file with the transform output when it differs.
func ApplyFile(path string, t Transform) Outcome {
	src, err := os.ReadFile(path) // #nosec G304 -- path comes from discovery or git
	if err != nil {
		return Outcome{Path: path, Err: fault.New(fault.KindIO, "read "+path, err)}
	}
	changed, out, err := t.Changes(path, src)
	if err != nil {
		return Outcome{Path: path, Err: err}
	}
	if !changed {
		return Outcome{Path: path}
	}
	if err := safeio.WriteFilePreservePerms(path, out); err != nil {
		return Outcome{Path: path, Err: fault.New(fault.KindIO, "write "+path, err)}
	}
	logger.Debug("rewrote file", logger.String("path", path), logger.String("transform", t.Name))
	return Outcome{Path: path, Changed: true}
}

// Check runs CheckFile over files. Per-file failures are logged and the batch continues.
func Check(files []string, t Transform) Result {
	return run(files, t, CheckFile)
}

// Apply runs ApplyFile over files. Per-file failures are logged and the batch continues.
func Apply(files []string, t Transform) Result {
	return run(files, t, ApplyFile)
}

func run(files []string, t Transform, fn func(string, Transform) Outcome) Result {
	res := Result{Transform: t.Name, Outcomes: make([]Outcome, 0, len(files))}
	for _, f := range files {
		o := fn(f, t)
		if o.Err != nil {
			logger.Error(fmt.Sprintf("Error formatting %s", f), logger.String("transform", t.Name), logger.Err(o.Err))
		}
		res.Outcomes = append(res.Outcomes, o)
	}
	return res
}

// ReportCheck prints the check summary and returns true when no file would
// change. Files that failed are counted, never reported as clean.
func ReportCheck(w io.Writer, t Transform, res Result) bool {
	changed := res.Changed()
	failed := len(res.Failed())
	if len(changed) == 0 {
		if failed == 0 {
			_, _ = fmt.Fprintln(w, t.CleanMsg)
		} else {
			_, _ = fmt.Fprintf(w, "%d files could not be processed\n", failed)
		}
		return true
	}
	_, _ = fmt.Fprintf(w, "%s %d files:\n", t.CheckVerb, len(changed))
	for i, p := range changed {
		if i == maxListed {
			break
		}
		_, _ = fmt.Fprintf(w, "  %s\n", p)
	}
	if len(changed) > maxListed {
		_, _ = fmt.Fprintf(w, "  ... and %d more\n", len(changed)-maxListed)
	}
	if failed > 0 {
		_, _ = fmt.Fprintf(w, "%d files could not be processed\n", failed)
	}
	return false
}

// ReportApply prints how many files were rewritten.
func ReportApply(w io.Writer, t Transform, res Result) {
	if n := len(res.Changed()); n > 0 {
		_, _ = fmt.Fprintf(w, "%s %d files\n", t.ApplyVerb, n)
		return
	}
	_, _ = fmt.Fprintln(w, t.NoneMsg)
}
