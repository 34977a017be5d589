package ffmpeg

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strconv"
	"strings"

	"github.com/fiapx/fiapx-thumbnail-service/internal/thumbnail"
	"go.uber.org/zap"
)

const packetSize = 64 * 1024

// Session implements thumbnail.DecodeSession on top of an ffmpeg process
// decoding the probed video stream to packed RGB24 rawvideo on a pipe.
// Pipe chunks are the packets; SendPacket accumulates them and ReceiveFrame
// cuts complete frames, reporting ErrNeedMoreInput until one is buffered.
// Sessions are single-use and not safe for concurrent use.
type Session struct {
	cmd    *exec.Cmd
	stdout io.ReadCloser
	stderr bytes.Buffer
	logger *zap.Logger

	streamIndex int
	width       int
	height      int
	frameSize   int

	assemble   bytes.Buffer
	eof        bool
	pendingErr error
	closed     bool

	packetFree [][]byte
	frameFree  [][]byte

	framesProduced int
}

// FramesProduced reports how many decoded frames the session handed out.
func (s *Session) FramesProduced() int {
	return s.framesProduced
}

// NewSession starts an ffmpeg decode of the stream described by probe.
// ffmpeg is told to stop after MaxSampleFrames frames since the sampler
// never takes more.
func NewSession(ctx context.Context, videoPath string, probe *ProbeResult, logger *zap.Logger) (*Session, error) {
	cmd := exec.CommandContext(ctx, "ffmpeg",
		"-v", "error",
		"-i", videoPath,
		"-map", fmt.Sprintf("0:%d", probe.StreamIndex),
		"-f", "rawvideo",
		"-pix_fmt", "rgb24",
		"-frames:v", strconv.Itoa(thumbnail.MaxSampleFrames),
		"pipe:1",
	)

	s := &Session{
		cmd:         cmd,
		logger:      logger,
		streamIndex: probe.StreamIndex,
		width:       probe.Width,
		height:      probe.Height,
		frameSize:   probe.Width * probe.Height * 3,
	}
	cmd.Stderr = &s.stderr

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("ffmpeg stdout pipe: %w", err)
	}
	s.stdout = stdout

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("start ffmpeg: %w", err)
	}
	return s, nil
}

func (s *Session) ReadPacket() (*thumbnail.Packet, error) {
	if s.eof {
		return nil, s.finish()
	}
	if err := s.pendingErr; err != nil {
		s.pendingErr = nil
		return nil, err
	}

	buf := s.getPacketBuf()
	n, err := s.stdout.Read(buf)
	if n > 0 {
		if err != nil {
			// Deliver the chunk now; the error surfaces on the next read.
			s.stashReadErr(err)
		}
		return thumbnail.NewPacket(s.streamIndex, buf[:n], func() { s.putPacketBuf(buf) }), nil
	}
	s.putPacketBuf(buf)
	if err == nil {
		err = io.EOF
	}
	s.stashReadErr(err)
	if s.eof {
		return nil, s.finish()
	}
	err = s.pendingErr
	s.pendingErr = nil
	return nil, err
}

func (s *Session) stashReadErr(err error) {
	if errors.Is(err, io.EOF) {
		s.eof = true
		return
	}
	s.pendingErr = fmt.Errorf("read decoded stream: %w", err)
}

// finish reaps the ffmpeg process once the pipe is drained. A non-zero exit
// after output was produced is the spurious mid-stream read failure some
// AVI and OGG containers trigger; the sampler decides whether to tolerate it.
func (s *Session) finish() error {
	if waitErr := s.waitProcess(); waitErr != nil {
		return s.wrapExitError(waitErr)
	}
	return thumbnail.ErrEndOfStream
}

func (s *Session) wrapExitError(waitErr error) error {
	detail := strings.TrimSpace(s.stderr.String())
	if detail == "" {
		detail = waitErr.Error()
	}
	return fmt.Errorf("ffmpeg: %s: %w", detail, thumbnail.ErrReadFailure)
}

func (s *Session) waitProcess() error {
	if s.closed {
		return nil
	}
	s.closed = true
	return s.cmd.Wait()
}

func (s *Session) SendPacket(pkt *thumbnail.Packet) error {
	if pkt.StreamIndex != s.streamIndex {
		return fmt.Errorf("packet for stream %d sent to decoder of stream %d", pkt.StreamIndex, s.streamIndex)
	}
	s.assemble.Write(pkt.Data)
	return nil
}

func (s *Session) ReceiveFrame() (*thumbnail.DecodedFrame, error) {
	if s.assemble.Len() < s.frameSize {
		return nil, thumbnail.ErrNeedMoreInput
	}

	pix := s.getFrameBuf()
	if _, err := io.ReadFull(&s.assemble, pix); err != nil {
		s.putFrameBuf(pix)
		return nil, fmt.Errorf("assemble frame: %w", err)
	}

	s.framesProduced++
	return thumbnail.NewDecodedFrame(
		s.width, s.height,
		thumbnail.PixelFormatRGB24,
		[]thumbnail.Plane{{Data: pix, Stride: s.width * 3}},
		func() { s.putFrameBuf(pix) },
	), nil
}

// Close terminates the ffmpeg process if it is still running and releases
// the pipe. Safe to call after a completed read loop.
func (s *Session) Close() error {
	if !s.closed && s.cmd.Process != nil {
		_ = s.cmd.Process.Kill()
	}
	_ = s.stdout.Close()
	if err := s.waitProcess(); err != nil {
		s.logger.Debug("ffmpeg exited with error on close", zap.Error(err))
	}
	return nil
}

func (s *Session) getPacketBuf() []byte {
	if n := len(s.packetFree); n > 0 {
		buf := s.packetFree[n-1]
		s.packetFree = s.packetFree[:n-1]
		return buf[:packetSize]
	}
	return make([]byte, packetSize)
}

func (s *Session) putPacketBuf(buf []byte) {
	s.packetFree = append(s.packetFree, buf[:cap(buf)])
}

func (s *Session) getFrameBuf() []byte {
	if n := len(s.frameFree); n > 0 {
		buf := s.frameFree[n-1]
		s.frameFree = s.frameFree[:n-1]
		return buf
	}
	return make([]byte, s.frameSize)
}

func (s *Session) putFrameBuf(buf []byte) {
	s.frameFree = append(s.frameFree, buf)
}
