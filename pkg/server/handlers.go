package server

import (
	"encoding/json"
	"errors"
	"mime"
	"net/http"
	"strconv"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/floatpos/pkg/buildinfo"
	ferrors "github.com/matzehuels/floatpos/pkg/errors"
	"github.com/matzehuels/floatpos/pkg/pipeline"
	"github.com/matzehuels/floatpos/pkg/scene"
)

type healthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{Status: "ok", Version: buildinfo.Version})
}

func (s *Server) handlePosition(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxBodyBytes)

	opts, err := decodeOptions(r)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, r, http.StatusRequestEntityTooLarge, "TOO_LARGE", "request body too large")
			return
		}
		writeCodedError(w, r, err)
		return
	}
	opts.Concurrency = s.cfg.Concurrency
	opts.Logger = loggerFrom(r)

	res, err := s.cfg.Runner.Run(r.Context(), opts)
	if err != nil {
		writeCodedError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// decodeOptions reads pipeline options from a JSON body, or a scene from a
// TOML body with the rest of the options in the query.
func decodeOptions(r *http.Request) (pipeline.Options, error) {
	var opts pipeline.Options
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))

	switch mediaType {
	case "application/toml", "text/plain":
		s, err := scene.Read(r.Body, scene.FormatTOML)
		if err != nil {
			return opts, err
		}
		opts.Scene = s
		q := r.URL.Query()
		opts.Jobs = q["job"]
		if v := q.Get("refresh"); v != "" {
			refresh, err := strconv.ParseBool(v)
			if err != nil {
				return opts, ferrors.New(ferrors.ErrCodeInvalidInput, "refresh: %v", err)
			}
			opts.Refresh = refresh
		}
		if v := q.Get("max_resets"); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				return opts, ferrors.New(ferrors.ErrCodeInvalidInput, "max_resets: %v", err)
			}
			opts.MaxResets = n
		}
	default:
		dec := json.NewDecoder(r.Body)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&opts); err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				return opts, err
			}
			return opts, ferrors.Wrap(ferrors.ErrCodeInvalidInput, err, "decode request")
		}
	}
	return opts, nil
}

// =============================================================================
// Responses
// =============================================================================

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type errorResponse struct {
	Error     errorBody `json:"error"`
	RequestID string    `json:"request_id,omitempty"`
}

// statusFor maps an error code to an HTTP status.
func statusFor(code ferrors.Code) int {
	switch code {
	case ferrors.ErrCodeInvalidInput, ferrors.ErrCodeInvalidPlacement,
		ferrors.ErrCodeInvalidMiddleware, ferrors.ErrCodeInvalidPlatform,
		ferrors.ErrCodeInvalidScene, ferrors.ErrCodeUnsupported:
		return http.StatusBadRequest
	case ferrors.ErrCodeNotFound:
		return http.StatusNotFound
	case ferrors.ErrCodePlatformQuery, ferrors.ErrCodeMiddlewareFailed:
		return http.StatusUnprocessableEntity
	}
	return http.StatusInternalServerError
}

func writeCodedError(w http.ResponseWriter, r *http.Request, err error) {
	code := ferrors.GetCode(err)
	status := statusFor(code)
	if code == "" {
		code = ferrors.ErrCodeInternal
	}
	msg := ferrors.UserMessage(err)
	if status == http.StatusInternalServerError {
		loggerFrom(r).Error("request failed", "err", err)
		msg = "internal error"
	}
	writeError(w, r, status, string(code), msg)
}

func writeError(w http.ResponseWriter, r *http.Request, status int, code, msg string) {
	writeJSON(w, status, errorResponse{
		Error:     errorBody{Code: code, Message: msg},
		RequestID: RequestID(r.Context()),
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		log.Error("write response", "err", err)
	}
}
