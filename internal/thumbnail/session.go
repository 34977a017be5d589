package thumbnail

import "errors"

var (
	// ErrEndOfStream signals a normal end of the container from ReadPacket.
	ErrEndOfStream = errors.New("end of stream")

	// ErrReadFailure is the demuxer's generic read failure. Some AVI and OGG
	// containers report it spuriously mid-stream even though frames were
	// already produced; the sampler tolerates exactly that case.
	ErrReadFailure = errors.New("demuxer read failure")

	// ErrNeedMoreInput signals the decoder has no complete frame yet and
	// wants more packets. Never a failure.
	ErrNeedMoreInput = errors.New("decoder needs more input")
)

// DecodeSession is the demux/decode collaborator the sampler drives. One
// session belongs to one extraction; sessions are never shared.
type DecodeSession interface {
	// ReadPacket returns the next compressed packet from the container,
	// ErrEndOfStream on normal termination, or a read error (possibly
	// wrapping ErrReadFailure).
	ReadPacket() (*Packet, error)

	// SendPacket submits a packet to the decoder.
	SendPacket(pkt *Packet) error

	// ReceiveFrame returns the next fully decoded frame, or ErrNeedMoreInput
	// when the decoder wants more packets first.
	ReceiveFrame() (*DecodedFrame, error)
}
