package thumbnail

import (
	"errors"
	"fmt"
)

// sampleFrames reads packets for the target stream and decodes them until
// MaxSampleFrames frames are collected, the stream ends, or a fatal error.
// On success the returned set holds 1..MaxSampleFrames frames and the caller
// owns their release; on error every frame collected so far has been
// released.
func sampleFrames(session DecodeSession, streamIndex int) (*sampleSet, error) {
	set := newSampleSet()

sampling:
	for {
		pkt, err := session.ReadPacket()
		if err != nil {
			if errors.Is(err, ErrEndOfStream) {
				break
			}
			// Some AVI and OGG containers fail a read mid-stream even though
			// frames were already decoded. Select from what we have.
			if errors.Is(err, ErrReadFailure) && set.len() > 0 && set.frames[0].HasData() {
				break
			}
			set.releaseAll()
			return nil, fmt.Errorf("read packet: %w", err)
		}

		if pkt.StreamIndex != streamIndex {
			pkt.Release()
			continue
		}

		err = session.SendPacket(pkt)
		pkt.Release()
		if err != nil {
			set.releaseAll()
			return nil, fmt.Errorf("send packet: %w", err)
		}

		// One packet may complete several frames; drain until the decoder
		// wants more input.
		for {
			frame, err := session.ReceiveFrame()
			if err != nil {
				if errors.Is(err, ErrNeedMoreInput) {
					break
				}
				set.releaseAll()
				return nil, fmt.Errorf("receive frame: %w", err)
			}
			set.append(frame)
			if set.len() == MaxSampleFrames {
				break sampling
			}
		}
	}

	if set.len() == 0 {
		return nil, ErrNoFramesDecoded
	}
	return set, nil
}
