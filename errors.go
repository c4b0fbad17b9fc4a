package ltmsg

import "errors"

var (
	// ErrInvalidArgument indicates a caller contract violation, such as a bit
	// width outside 0..32 for WriteBits or 0..64 for WriteBits64.
	ErrInvalidArgument = errors.New("ltmsg: invalid argument")

	// ErrOutOfRange indicates a read, peek, seek or sub-message window that
	// would fall outside the message. It is the canonical "truncated or
	// malformed message" condition and is always recoverable.
	ErrOutOfRange = errors.New("ltmsg: out of range")

	// ErrResolution indicates a network ID that could not be mapped back to a
	// local handle. The value decodes as the null handle.
	ErrResolution = errors.New("ltmsg: handle resolution failed")

	// ErrNilIO indicates that ReadFrom/WriteTo was called with a nil io.Reader/io.Writer.
	ErrNilIO = errors.New("ltmsg: ReadFrom/WriteTo called with a nil io.Reader/io.Writer")

	// ErrTrailingData is returned by Unmarshal when non-zero bits are found
	// after the decoded value, indicating a parsing error or malformed data.
	ErrTrailingData = errors.New("ltmsg: non-zero trailing data found after decoding")

	// ErrInvalidConfig indicates a quantization profile that cannot be used.
	ErrInvalidConfig = errors.New("ltmsg: invalid config")
)
