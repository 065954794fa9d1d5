package supervisor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"time"

	lksdk "github.com/livekit/server-sdk-go/v2"
	"github.com/pion/rtp/codecs"
	"github.com/pion/webrtc/v4"
	"github.com/pion/webrtc/v4/pkg/media/samplebuilder"

	"github.com/eleven-am/vision-nav/internal/capture"
	"github.com/eleven-am/vision-nav/internal/gateway"
	"github.com/eleven-am/vision-nav/internal/vision"
)

const cameraRetryDelay = 50 * time.Millisecond

// Supervisor runs the vision loop: frames in from LiveKit or a local
// camera source, zone decisions out to the navigation API.
type Supervisor struct {
	config    *Config
	detector  vision.Detector
	decoder   *vision.VP8Decoder
	queue     *frameQueue
	publisher *Publisher
	tracks    *trackRegistry
	preview   *Preview
	logger    *slog.Logger
}

func New(config *Config, detector vision.Detector, logger *slog.Logger) *Supervisor {
	s := &Supervisor{
		config:    config,
		detector:  detector,
		decoder:   vision.NewVP8Decoder(),
		queue:     newFrameQueue(),
		publisher: NewPublisher(config.APIBaseURL, config.APIToken, config.LiveKitRoom, config.PublishInterval, logger),
		tracks:    newTrackRegistry(logger),
		logger:    logger.With("component", "supervisor"),
	}
	if config.DisplayAddr != "" {
		s.preview = NewPreview(config.DisplayAddr, logger)
	}
	return s
}

// Run blocks until the context is cancelled.
func (s *Supervisor) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if s.preview != nil {
		s.preview.Start()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			s.preview.Close(shutdownCtx)
		}()
	}

	go s.processFrames(ctx)

	useLiveKit := s.config.UseLiveKit
	if useLiveKit && !s.config.LiveKitReady() {
		s.logger.Warn("livekit credentials missing, falling back to local video source")
		useLiveKit = false
	}

	if useLiveKit {
		return s.runLiveKit(ctx)
	}
	if s.config.VideoSource == "" {
		return errors.New("no video source configured")
	}
	return s.runCamera(ctx)
}

// runCamera reads frames from a local video source, retrying reads
// until the context ends. Transient failures never stop the loop.
func (s *Supervisor) runCamera(ctx context.Context) error {
	device, err := capture.Open(s.config.VideoSource)
	if err != nil {
		return fmt.Errorf("failed to open video source: %w", err)
	}
	defer device.Close()

	s.logger.Info("capturing from local source", "source", s.config.VideoSource)

	for {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		img, err := device.ReadFrame(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			s.logger.Debug("frame read failed", "error", err)
			select {
			case <-time.After(cameraRetryDelay):
			case <-ctx.Done():
				return ctx.Err()
			}
			continue
		}

		s.queue.Push(vision.NewFrame(img, "camera"))
	}
}

// runLiveKit joins the configured room as a subscriber and consumes
// remote video tracks until the context ends.
func (s *Supervisor) runLiveKit(ctx context.Context) error {
	tokens, err := gateway.NewTokenService(s.config.LiveKitAPIKey, s.config.LiveKitAPISecret, s.config.LiveKitURL, 0)
	if err != nil {
		return err
	}

	token, err := tokens.GenerateToken(s.config.Identity, s.config.Identity, s.config.LiveKitRoom)
	if err != nil {
		return fmt.Errorf("failed to mint join token: %w", err)
	}

	disconnected := make(chan struct{})
	callback := &lksdk.RoomCallback{
		ParticipantCallback: lksdk.ParticipantCallback{
			OnTrackSubscribed:   s.handleTrackSubscribed(ctx),
			OnTrackUnsubscribed: s.handleTrackUnsubscribed,
		},
		OnDisconnected: func() {
			select {
			case <-disconnected:
			default:
				close(disconnected)
			}
		},
	}

	room, err := lksdk.ConnectToRoomWithToken(s.config.LiveKitURL, token, callback)
	if err != nil {
		return fmt.Errorf("failed to join room: %w", err)
	}
	defer room.Disconnect()

	s.logger.Info("joined room", "room", s.config.LiveKitRoom, "identity", s.config.Identity)

	select {
	case <-ctx.Done():
		s.tracks.Shutdown()
		return ctx.Err()
	case <-disconnected:
		s.tracks.Shutdown()
		return errors.New("disconnected from room")
	}
}

func (s *Supervisor) handleTrackSubscribed(ctx context.Context) func(*webrtc.TrackRemote, *lksdk.RemoteTrackPublication, *lksdk.RemoteParticipant) {
	return func(track *webrtc.TrackRemote, publication *lksdk.RemoteTrackPublication, participant *lksdk.RemoteParticipant) {
		if track.Kind() != webrtc.RTPCodecTypeVideo {
			return
		}

		sid := track.ID()
		s.logger.Info("subscribed to video track", "sid", sid, "participant", participant.Identity(), "codec", track.Codec().MimeType)

		s.tracks.Attach(ctx, sid, func(trackCtx context.Context) {
			s.consumeTrack(trackCtx, track, participant.Identity())
		})
	}
}

func (s *Supervisor) handleTrackUnsubscribed(track *webrtc.TrackRemote, publication *lksdk.RemoteTrackPublication, participant *lksdk.RemoteParticipant) {
	s.tracks.Detach(track.ID())
}

// consumeTrack depacketizes RTP into VP8 samples, decodes them, and
// pushes the resulting frames onto the queue. A terminal read error ends
// the task; the registry removes it without cancelling other tracks.
func (s *Supervisor) consumeTrack(ctx context.Context, track *webrtc.TrackRemote, source string) {
	builder := samplebuilder.New(64, &codecs.VP8Packet{}, 90000)
	mimeType := track.Codec().MimeType

	for {
		if ctx.Err() != nil {
			return
		}

		track.SetReadDeadline(time.Now().Add(time.Second))
		pkt, _, err := track.ReadRTP()
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			if retryableReadError(err) {
				continue
			}
			s.logger.Warn("video track read failed", "error", err, "source", source)
			return
		}

		builder.Push(pkt)

		for {
			sample := builder.Pop()
			if sample == nil {
				break
			}

			img, err := s.decoder.Decode(sample.Data, mimeType)
			if err != nil {
				s.logger.Debug("frame decode failed", "error", err)
				continue
			}

			s.queue.Push(vision.NewFrame(img, source))
		}
	}
}

// retryableReadError reports whether a track read failure is a read
// deadline expiring, as opposed to a terminal stream error such as EOF
// after the remote closes the track.
func retryableReadError(err error) bool {
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

// processFrames is the single consumer of the frame queue.
func (s *Supervisor) processFrames(ctx context.Context) {
	for {
		frame, err := s.queue.Pop(ctx)
		if err != nil {
			return
		}
		s.processFrame(ctx, frame)
	}
}

func (s *Supervisor) processFrame(ctx context.Context, frame *vision.Frame) {
	detectCtx, cancel := context.WithTimeout(ctx, defaultPublishTimeout)
	detections, err := s.detector.Detect(detectCtx, frame, s.config.MinConfidence)
	cancel()
	if err != nil {
		s.logger.Warn("detection failed", "error", err)
		return
	}

	command := vision.Decide(detections, frame.Height, frame.Width, s.config.ObstacleThreshold)

	if s.publisher.ReadyToPublish() {
		s.publisher.Publish(ctx, command, topConfidence(detections))
	}

	if s.preview != nil {
		s.preview.Update(frame, command)
	}
}

func topConfidence(detections []vision.Detection) *float64 {
	var best *float64
	for i := range detections {
		if best == nil || detections[i].Confidence > *best {
			c := detections[i].Confidence
			best = &c
		}
	}
	return best
}
