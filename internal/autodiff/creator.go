package autodiff

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Kind names an operation variant. The catalogue is closed: a Creator can only
// resolve to an operation whose Kind is listed here.
type Kind uint8

const (
	// KindUnknown is the zero value. Operations reporting it cannot be recorded.
	KindUnknown Kind = iota
	KindSquare
	KindExp
	KindLog
	KindSin
	KindCos
	KindTanh
	KindSigmoid
	KindSqrt
	KindReLU

	numKinds
)

var kindNames = [numKinds]string{
	KindUnknown: "unknown",
	KindSquare:  "square",
	KindExp:     "exp",
	KindLog:     "log",
	KindSin:     "sin",
	KindCos:     "cos",
	KindTanh:    "tanh",
	KindSigmoid: "sigmoid",
	KindSqrt:    "sqrt",
	KindReLU:    "relu",
}

// String returns the lower-case name of the kind.
func (k Kind) String() string {
	if k < numKinds {
		return kindNames[k]
	}
	return "Kind(" + strconv.Itoa(int(k)) + ")"
}

// Valid reports whether k names a known operation.
func (k Kind) Valid() bool {
	return k > KindUnknown && k < numKinds
}

// Kinds returns every known kind in declaration order.
func Kinds() []Kind {
	kinds := make([]Kind, 0, numKinds-1)
	for k := KindUnknown + 1; k < numKinds; k++ {
		kinds = append(kinds, k)
	}
	return kinds
}

// ParseKind maps a name (case-insensitive) to its Kind.
func ParseKind(name string) (Kind, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for k := KindUnknown + 1; k < numKinds; k++ {
		if kindNames[k] == name {
			return k, nil
		}
	}
	return KindUnknown, errors.Errorf("unknown operation %q", name)
}

// Creator identifies which operation kind, and which recorded instance,
// produced a Variable.
//
// It refers to the instance by slot index in the owning Tape, together with the
// tape epoch at record time. It never keeps the Operation alive by itself.
type Creator struct {
	kind  Kind
	tape  *Tape
	slot  int
	epoch uint64
}

// Kind returns the kind of the producing operation.
func (c *Creator) Kind() Kind {
	return c.kind
}

// Resolve returns the producing operation if it is still held by its tape.
// It returns false when the producer no longer exists: the slot was released,
// the tape was cleared, or the slot now holds something of another kind.
func (c *Creator) Resolve() (Operation, bool) {
	if c == nil || c.tape == nil {
		return nil, false
	}
	return c.tape.resolve(c)
}
