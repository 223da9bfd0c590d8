/*
DESCRIPTION
  codecproc.go defines the PostProcessor/DecoderProcessor capability
  interfaces every compression stage implements, per spec.md's pipeline
  design (a stream's pipeline holds a slice of these, keyed by stream
  index).

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package codecproc

import "github.com/kore-signet/ansi-three/container"

// PostProcessor mutates a packet already filled by the stream encoder,
// typically compressing its payload and recording side-data describing
// the transformation.
type PostProcessor interface {
	Process(pkt *container.Packet) error
}

// DecoderProcessor reverses a PostProcessor's transformation on the
// player side.
type DecoderProcessor interface {
	Process(pkt *container.Packet) error
}
