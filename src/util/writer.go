// writer.go provides a small buffered helper for emitting AT&T syntax x86-64 assembly text.
//
// The teacher's util.Writer fans output from parallel worker goroutines into a single sink over
// a channel (see the teacher's io.go ListenWrite/NewWriter pair). This compiler's code generator
// runs on a single goroutine (spec §5: "strictly single-threaded and synchronous"), so Writer here
// is a direct wrapper around a strings.Builder with Ins0/Ins1/Ins2/Label convenience methods,
// flushed to the destination file once generation finishes.

package util

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// ----------------------------
// ----- Type definitions -----
// ----------------------------

// Writer buffers textual assembly output before it is flushed to disk.
type Writer struct {
	sb strings.Builder
}

// ---------------------
// ----- functions -----
// ---------------------

// NewWriter returns an empty Writer ready to accept assembly text.
func NewWriter() *Writer {
	return &Writer{}
}

// Write appends a formatted line (without trailing newline management; callers add '\n').
func (w *Writer) Write(format string, args ...interface{}) {
	w.sb.WriteString(fmt.Sprintf(format, args...))
}

// WriteString appends a plain string verbatim.
func (w *Writer) WriteString(s string) {
	w.sb.WriteString(s)
}

// Directive writes a bare assembler directive, e.g. ".globl main".
func (w *Writer) Directive(format string, args ...interface{}) {
	w.sb.WriteString(fmt.Sprintf("\t%s\n", fmt.Sprintf(format, args...)))
}

// Ins0 writes a zero-operand instruction such as "cqto" or "leave".
func (w *Writer) Ins0(op string) {
	w.sb.WriteString(fmt.Sprintf("\t%s\n", op))
}

// Ins1 writes a one-operand instruction, e.g. "idivq %r11".
func (w *Writer) Ins1(op, rs1 string) {
	w.sb.WriteString(fmt.Sprintf("\t%s\t%s\n", op, rs1))
}

// Ins2 writes a two-operand instruction in AT&T order (source, destination).
func (w *Writer) Ins2(op, src, dst string) {
	w.sb.WriteString(fmt.Sprintf("\t%s\t%s, %s\n", op, src, dst))
}

// Label writes a bare label definition.
func (w *Writer) Label(name string) {
	w.sb.WriteString(fmt.Sprintf("%s:\n", name))
}

// Comment writes a '#'-prefixed comment line. Used sparingly, matching the teacher's terse style.
func (w *Writer) Comment(format string, args ...interface{}) {
	w.sb.WriteString(fmt.Sprintf("\t# %s\n", fmt.Sprintf(format, args...)))
}

// String returns the buffered assembly text accumulated so far.
func (w *Writer) String() string {
	return w.sb.String()
}

// Flush writes the buffered text to path, truncating or creating the file as needed.
func (w *Writer) Flush(path string) error {
	f, err := os.OpenFile(path, os.O_TRUNC|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()
	bw := bufio.NewWriter(f)
	if _, err := bw.WriteString(w.sb.String()); err != nil {
		return err
	}
	return bw.Flush()
}
