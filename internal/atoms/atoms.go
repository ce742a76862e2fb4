// Package atoms interns the EWMH root-window hints the tracker
// recognizes and resolves PropertyNotify atoms back to names.
//
// spec §6.3 and Design Notes §9 both flag the source's 246/252 numeric
// shortcuts as private aliases, not canonical atom values, and say the
// correct mechanism is intern_atom by name. This package is that
// correction: it interns once at startup and classifies PropertyNotify
// through the resulting table instead of comparing against hardcoded
// integers.
package atoms

import (
	"unicode/utf8"

	"xcomp/internal/xerr"
	"xcomp/internal/xserver"
)

// Hint identifies a recognized root-window EWMH property (spec §6.3).
type Hint int

const (
	HintUnknown Hint = iota
	HintClientListStacking
	HintActiveWindow
)

var hintNames = map[Hint]string{
	HintClientListStacking: "_NET_CLIENT_LIST_STACKING",
	HintActiveWindow:       "_NET_ACTIVE_WINDOW",
}

// Table is the interned-atom lookup the tracker consults on every
// PropertyNotify.
type Table struct {
	byAtom map[xserver.Atom]Hint
	atomOf map[Hint]xserver.Atom
}

// Intern resolves every recognized hint's atom via conn.InternAtom.
func Intern(conn xserver.Conn) (*Table, error) {
	t := &Table{
		byAtom: map[xserver.Atom]Hint{},
		atomOf: map[Hint]xserver.Atom{},
	}
	for hint, name := range hintNames {
		a, err := conn.InternAtom(name)
		if err != nil {
			return nil, xerr.Wrap(xerr.KindProtocolReply, "intern_atom "+name, err)
		}
		t.byAtom[a] = hint
		t.atomOf[hint] = a
	}
	return t, nil
}

// Classify maps an interned atom back to the Hint it names, or
// HintUnknown if the atom isn't one the tracker recognizes.
func (t *Table) Classify(a xserver.Atom) Hint {
	return t.byAtom[a]
}

// Atom returns the interned atom for a recognized hint.
func (t *Table) Atom(h Hint) xserver.Atom { return t.atomOf[h] }

// DecodeWindowList decodes a _NET_CLIENT_LIST_STACKING property value:
// a packed array of 32-bit little-endian window ids (spec §6.3).
func DecodeWindowList(value []byte) []xserver.WindowId {
	n := len(value) / 4
	out := make([]xserver.WindowId, n)
	for i := 0; i < n; i++ {
		b := value[i*4 : i*4+4]
		out[i] = xserver.WindowId(uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16 | uint32(b[3])<<24)
	}
	return out
}

// OptionalUTF8Property best-effort reads a UTF8_STRING property for
// cosmetic startup logging (SPEC_FULL §9: "_NET_WM_NAME best-effort
// read for the verbose per-window startup log"). A missing or
// non-UTF8 property yields "", never an error: absence is not an
// error condition, matching original_source/src/ewm.rs's handling of
// the same read.
func OptionalUTF8Property(conn xserver.Conn, win xserver.WindowId, propertyName string) string {
	atom, err := conn.InternAtom(propertyName)
	if err != nil {
		return ""
	}
	value, err := conn.GetProperty(win, atom)
	if err != nil || !utf8.Valid(value) {
		return ""
	}
	return string(value)
}
