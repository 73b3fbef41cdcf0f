package mirror

import (
	"fmt"
	"go/token"
	"strings"
)

// DefinitionError reports a value type that cannot be mirrored. It unwraps
// to one of the generator sentinels in package errs.
type DefinitionError struct {
	Pos    token.Position
	Type   string
	Field  string
	Reason string
	Err    error
}

func (e *DefinitionError) Error() string {
	var sb strings.Builder
	if e.Pos.IsValid() {
		sb.WriteString(e.Pos.String())
		sb.WriteString(": ")
	}

	sb.WriteString("type ")
	sb.WriteString(e.Type)
	if e.Field != "" {
		fmt.Fprintf(&sb, ", field %s", e.Field)
	}
	fmt.Fprintf(&sb, ": %s", e.Reason)
	if e.Err != nil {
		fmt.Fprintf(&sb, " (%v)", e.Err)
	}

	return sb.String()
}

func (e *DefinitionError) Unwrap() error {
	return e.Err
}
