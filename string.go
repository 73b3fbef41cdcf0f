package archive

import "unsafe"

// String is the archivable form of a Go string. The mirror generator wraps
// string fields with it.
type String string

// StringResolver records where the string bytes were written.
type StringResolver struct {
	Pos int
	Len int
}

// ArchivedString is the archived form of a string: a relative pointer to
// the bytes and their length.
type ArchivedString struct {
	ptr RelPtr
	len uint32
}

var _ Archive[StringResolver, ArchivedString] = String("")

// Serialize writes the string bytes.
func (s String) Serialize(w Writer) (StringResolver, error) {
	pos := w.Pos()
	if len(s) > 0 {
		if err := w.Write(unsafe.Slice(unsafe.StringData(string(s)), len(s))); err != nil {
			return StringResolver{}, err
		}
	}

	return StringResolver{Pos: pos, Len: len(s)}, nil
}

// Resolve points the archived string at the bytes recorded in r.
func (s String) Resolve(pos int, r StringResolver) ArchivedString {
	var a ArchivedString
	a.ptr = NewRelPtr(pos+int(unsafe.Offsetof(a.ptr)), r.Pos)
	a.len = checkedLen(r.Len)

	return a
}

// Len returns the length of the string in bytes.
func (s *ArchivedString) Len() int {
	return int(s.len)
}

// Offset returns the relative offset from s to the string bytes.
func (s *ArchivedString) Offset() int32 {
	return s.ptr.Offset()
}

// String returns the string without copying. s must live inside an archive
// buffer, and the result is only valid while that buffer is.
func (s *ArchivedString) String() string {
	if s.len == 0 {
		return ""
	}

	return unsafe.String((*byte)(s.ptr.Ptr()), int(s.len))
}
