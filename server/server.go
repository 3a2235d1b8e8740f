package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	contractx "github.com/yolearn/tutor-dialogue/agent/contract"
	nodex "github.com/yolearn/tutor-dialogue/agent/nodes"
	profilex "github.com/yolearn/tutor-dialogue/agent/profile"
)

const maxAudioUploadBytes = 32 << 20

type Config struct {
	Addr string `envconfig:"ADDR" split_words:"true" default:":8000"`
}

// Server is the HTTP boundary: it accepts text or audio input, forwards
// it to the session's orchestrator, and relays the reply, optionally
// re-synthesized as speech. The dialogue core never sees audio.
type Server struct {
	cfg      Config
	sessions *sessionManager
	stt      contractx.Transcriber
	tts      contractx.Synthesizer
}

// New builds the server. stt and tts may be nil, which disables the
// voice endpoint.
func New(cfg Config, newSession NewSessionFunc, stt contractx.Transcriber, tts contractx.Synthesizer) *Server {
	return &Server{
		cfg:      cfg,
		sessions: newSessionManager(newSession),
		stt:      stt,
		tts:      tts,
	}
}

func (s *Server) ListenAndServe() error {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /chat", s.handleChat)
	mux.HandleFunc("POST /voice-chat", s.handleVoiceChat)
	mux.HandleFunc("GET /health", s.handleHealth)

	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	log.Info().Str("addr", s.cfg.Addr).Msg("http server listening")
	return srv.ListenAndServe()
}

type chatRequest struct {
	SessionID string         `json:"session_id,omitempty"`
	Message   string         `json:"message"`
	Profile   map[string]any `json:"profile,omitempty"`
}

// handleChat streams the reply back as plain text fragments.
func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		writeError(w, http.StatusBadRequest, "message is required")
		return
	}

	sess, err := s.sessions.getOrCreate(r.Context(), req.SessionID, profilex.StudentProfile(req.Profile))
	if err != nil {
		log.Error().Err(err).Msg("session create failed")
		writeError(w, http.StatusInternalServerError, "could not create session")
		return
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()

	stream, err := sess.orc.HandleTurnStream(r.Context(), req.Message)
	if err != nil {
		writeTurnError(w, err)
		return
	}
	defer stream.Close()

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("X-Session-Id", sess.orc.SessionID())

	flusher, _ := w.(http.Flusher)
	for {
		chunk, err := stream.Recv()
		if errors.Is(err, io.EOF) {
			return
		}
		if err != nil {
			// Headers are already sent; all we can do is stop mid-body.
			log.Warn().Err(err).Msg("reply stream failed")
			return
		}
		if _, err := io.WriteString(w, chunk); err != nil {
			return
		}
		if flusher != nil {
			flusher.Flush()
		}
	}
}

// handleVoiceChat transcribes uploaded audio, runs a buffered turn, and
// answers with synthesized speech.
func (s *Server) handleVoiceChat(w http.ResponseWriter, r *http.Request) {
	if s.stt == nil || s.tts == nil {
		writeError(w, http.StatusServiceUnavailable, "voice is not configured")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxAudioUploadBytes)
	file, header, err := r.FormFile("audio")
	if err != nil {
		writeError(w, http.StatusBadRequest, "audio file is required")
		return
	}
	defer file.Close()

	transcript, err := s.stt.Transcribe(r.Context(), file, header.Filename)
	if err != nil {
		log.Error().Err(err).Msg("transcription failed")
		writeError(w, http.StatusBadGateway, "could not transcribe audio")
		return
	}
	log.Info().Str("transcript", transcript).Msg("audio transcribed")

	sess, err := s.sessions.getOrCreate(r.Context(), r.FormValue("session_id"), nil)
	if err != nil {
		log.Error().Err(err).Msg("session create failed")
		writeError(w, http.StatusInternalServerError, "could not create session")
		return
	}

	sess.mu.Lock()
	reply, err := sess.orc.HandleTurn(r.Context(), transcript)
	sess.mu.Unlock()
	if err != nil {
		writeTurnError(w, err)
		return
	}

	audio, err := s.tts.Synthesize(r.Context(), reply)
	if err != nil {
		log.Error().Err(err).Msg("speech synthesis failed")
		writeError(w, http.StatusBadGateway, "could not synthesize reply")
		return
	}
	defer audio.Close()

	w.Header().Set("Content-Type", "audio/mpeg")
	w.Header().Set("X-Session-Id", sess.orc.SessionID())
	if _, err := io.Copy(w, audio); err != nil {
		log.Warn().Err(err).Msg("audio relay interrupted")
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_, _ = io.WriteString(w, `{"status":"ok"}`)
}

func writeTurnError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, nodex.ErrInvalidInput):
		writeError(w, http.StatusBadRequest, "message is required")
	case errors.Is(err, contractx.ErrGeneration):
		log.Error().Err(err).Msg("generation failed")
		writeError(w, http.StatusBadGateway, "the tutor is unavailable right now, please try again")
	default:
		log.Error().Err(err).Msg("turn failed")
		writeError(w, http.StatusInternalServerError, "something went wrong")
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
