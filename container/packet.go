/*
DESCRIPTION
  packet.go implements the Packet wire record: a small fixed header
  (stream, packet index, timestamp, duration, side-data, data type, data
  length) followed by data_len bytes of payload. Ports the EncodableData
  impl for Packet in container/src/lib.rs.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package container

import (
	"io"
)

// DataType names the kind of payload a packet carries.
type DataType uint8

const (
	DataVideo    DataType = 0
	DataAudio    DataType = 1
	DataSubtitle DataType = 2
	DataUnknown  DataType = 3
	DataInvalid  DataType = 255
)

func parseDataType(b byte) (DataType, error) {
	switch b {
	case 0, 1, 2, 3, 255:
		return DataType(b), nil
	default:
		return DataInvalid, ErrInvalidData
	}
}

// Packet is one container record: header metadata plus its payload bytes.
// On the wire the payload follows the header, which carries its length;
// DecodePacket and DecodePacketInto read both and fill Data.
type Packet struct {
	Stream         uint8
	PacketIdx      uint64
	TimestampMicro uint64
	DurationMicro  uint64
	SideData       SideData
	DataType       DataType
	Data           []byte
}

// EncodePacket writes p's header and payload to w. DataLen is derived from
// len(p.Data); callers must keep it consistent with the payload they
// intend to write (post-processors rewrite Data in place before this is
// called, so the two never drift).
func EncodePacket(w io.Writer, p Packet) error {
	if _, err := w.Write([]byte{p.Stream}); err != nil {
		return err
	}
	if err := putUint64LE(w, p.PacketIdx); err != nil {
		return err
	}
	if err := putUint64LE(w, p.TimestampMicro); err != nil {
		return err
	}
	if err := putUint64LE(w, p.DurationMicro); err != nil {
		return err
	}
	if err := encodeSideData(w, p.SideData); err != nil {
		return err
	}
	if _, err := w.Write([]byte{byte(p.DataType)}); err != nil {
		return err
	}
	if err := putUint64LE(w, uint64(len(p.Data))); err != nil {
		return err
	}
	_, err := w.Write(p.Data)
	return err
}

// decodePacketHeader reads everything up to and including data_len,
// returning the partially filled Packet and the payload length still to be
// read.
func decodePacketHeader(r io.Reader) (Packet, uint64, error) {
	var p Packet

	var b [1]byte
	if _, err := io.ReadFull(r, b[:]); err != nil {
		// A clean EOF here (zero bytes read) is the expected end of the
		// packet region, not corruption; propagate it as io.EOF so callers
		// can distinguish "no more packets" from a truncated stream.
		if err == io.EOF {
			return Packet{}, 0, io.EOF
		}
		return Packet{}, 0, unexpectedEOF(err)
	}
	p.Stream = b[0]

	idx, err := readUint64LE(r)
	if err != nil {
		return Packet{}, 0, err
	}
	p.PacketIdx = idx

	ts, err := readUint64LE(r)
	if err != nil {
		return Packet{}, 0, err
	}
	p.TimestampMicro = ts

	dur, err := readUint64LE(r)
	if err != nil {
		return Packet{}, 0, err
	}
	p.DurationMicro = dur

	sd, err := decodeSideData(r)
	if err != nil {
		return Packet{}, 0, err
	}
	p.SideData = sd

	if _, err := io.ReadFull(r, b[:]); err != nil {
		return Packet{}, 0, unexpectedEOF(err)
	}
	dt, err := parseDataType(b[0])
	if err != nil {
		return Packet{}, 0, err
	}
	p.DataType = dt

	dataLen, err := readUint64LE(r)
	if err != nil {
		return Packet{}, 0, err
	}

	return p, dataLen, nil
}

// DecodePacket reads one full packet (header and data_len payload bytes)
// from r.
func DecodePacket(r io.Reader) (Packet, error) {
	p, dataLen, err := decodePacketHeader(r)
	if err != nil {
		return Packet{}, err
	}

	p.Data = make([]byte, dataLen)
	if _, err := io.ReadFull(r, p.Data); err != nil {
		return Packet{}, unexpectedEOF(err)
	}

	return p, nil
}

// DecodePacketInto reads one full packet like DecodePacket, but reuses
// *dataBuf as the payload's backing storage (growing it if its capacity is
// too small) instead of allocating a fresh slice every call. Callers that
// recycle dataBuf across many packets avoid a per-packet heap allocation in
// the steady state.
func DecodePacketInto(r io.Reader, dataBuf *[]byte) (Packet, error) {
	p, dataLen, err := decodePacketHeader(r)
	if err != nil {
		return Packet{}, err
	}

	if uint64(cap(*dataBuf)) < dataLen {
		*dataBuf = make([]byte, dataLen)
	} else {
		*dataBuf = (*dataBuf)[:dataLen]
	}

	if _, err := io.ReadFull(r, *dataBuf); err != nil {
		return Packet{}, unexpectedEOF(err)
	}
	p.Data = *dataBuf

	return p, nil
}

// Equal reports whether p and o are identical, including side-data order.
func (p Packet) Equal(o Packet) bool {
	if p.Stream != o.Stream || p.PacketIdx != o.PacketIdx ||
		p.TimestampMicro != o.TimestampMicro || p.DurationMicro != o.DurationMicro ||
		p.DataType != o.DataType || len(p.Data) != len(o.Data) {
		return false
	}
	for i := range p.Data {
		if p.Data[i] != o.Data[i] {
			return false
		}
	}
	return p.SideData.equal(o.SideData)
}
