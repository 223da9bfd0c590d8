/*
DESCRIPTION
  errors.go names the container's failure kinds as sentinel errors, so
  callers can classify a failure with errors.Is without depending on
  message text. Mirrors the `Io/InvalidData/UnexpectedEof/MissingSideData/
  UnsupportedCompression/HeaderDecode/ParameterOutOfRange` error-kind
  enumeration; Go has no exhaustive error enum, so these are package-level
  sentinels wrapped with context via github.com/pkg/errors.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package container

import "errors"

var (
	// ErrInvalidData covers malformed framing, an unknown enum byte, or
	// invalid UTF-8 in decoded text.
	ErrInvalidData = errors.New("container: invalid data")
	// ErrUnexpectedEOF covers a short read while decoding a fixed-size or
	// length-prefixed field.
	ErrUnexpectedEOF = errors.New("container: unexpected end of file")
	// ErrMissingSideData covers a decompressor expecting a side-data tag
	// (DCLE) that the packet doesn't carry.
	ErrMissingSideData = errors.New("container: missing required side-data")
	// ErrUnsupportedCompression covers a CompressionMode this build has no
	// codec registered for.
	ErrUnsupportedCompression = errors.New("container: unsupported compression mode")
	// ErrHeaderDecode covers an ASN.1 DER failure decoding the header.
	ErrHeaderDecode = errors.New("container: header decode failed")
	// ErrParameterOutOfRange covers a value outside its documented domain
	// (e.g. a CLI flag, a stream index wider than a byte).
	ErrParameterOutOfRange = errors.New("container: parameter out of range")
)
