package diag

import (
	"fmt"
)

type Code uint16

const (
	UnknownCode Code = 0

	// I/O
	IOLoadFileError Code = 1001

	// Scanning
	ScanUnterminatedString  Code = 1101
	ScanUnterminatedComment Code = 1102

	// Source rewriting
	RewriteNodeError         Code = 2001
	RewriteUnimplementedKind Code = 2002
	RewriteRoundTripMismatch Code = 2003

	// Type translation
	TypeUnhandledShape Code = 3001
)

func (c Code) String() string {
	return fmt.Sprintf("ANN%04d", uint16(c))
}
