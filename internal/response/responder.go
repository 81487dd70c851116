package response

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"runtime"
	"time"

	"github.com/google/uuid"
	jsoniter "github.com/json-iterator/go"

	"librarycatalog/internal/types"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// fallbackMessage stands in for errors with an empty message
const fallbackMessage = "Unknown error occurred"

// Responder writes the {success, data} and {success: false, message} envelopes. Error responses carry
// the error's own message and an error_id matching the err_id of the log line.
type Responder struct{}

type envelope struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Total   *int64 `json:"total,omitempty"`
	Message string `json:"message,omitempty"`
	ErrorId string `json:"error_id,omitempty"`
}

// RespondAndLogError picks the status from err: 400 for types.ErrInvalid, 404 for types.ErrNotFound
// (both logged at debug level), otherwise 500 logged with slog.LevelError.
func (rr *Responder) RespondAndLogError(w http.ResponseWriter, ctx context.Context, err error) {
	status, lvl := http.StatusInternalServerError, slog.LevelError

	switch {
	case errors.Is(err, types.ErrInvalid):
		status, lvl = http.StatusBadRequest, slog.LevelDebug
	case errors.Is(err, types.ErrNotFound):
		status, lvl = http.StatusNotFound, slog.LevelDebug
	}

	errId := uuid.NewString()
	log(ctx, lvl, err.Error(), slog.String("err_id", errId))
	rr.renderError(w, ctx, status, err.Error(), errId)
}

func (rr *Responder) SendJson(w http.ResponseWriter, ctx context.Context, data any) {
	rr.send(w, ctx, http.StatusOK, envelope{Success: true, Data: data})
}

func (rr *Responder) SendCreated(w http.ResponseWriter, ctx context.Context, data any) {
	rr.send(w, ctx, http.StatusCreated, envelope{Success: true, Data: data})
}

func (rr *Responder) SendList(w http.ResponseWriter, ctx context.Context, data any, total int64) {
	rr.send(w, ctx, http.StatusOK, envelope{Success: true, Data: data, Total: &total})
}

func (rr *Responder) send(w http.ResponseWriter, ctx context.Context, status int, body envelope) {
	bs, err := json.Marshal(body)
	if err != nil {
		rr.RespondAndLogError(w, ctx, err)
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(bs)
}

func (rr *Responder) renderError(w http.ResponseWriter, ctx context.Context, status int, message, errId string) {
	if message == "" {
		message = fallbackMessage
	}

	body := envelope{Message: message, ErrorId: errId}

	bs, err := json.Marshal(body)
	if err == nil {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
	} else {
		log(ctx, slog.LevelError, "cannot marshall error response body: "+err.Error())
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		bs = []byte("unknown error")
	}

	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(status)
	_, _ = w.Write(bs)
}

// Needed because it skips one more frame item than the slog.Log
func log(ctx context.Context, level slog.Level, msg string, attrs ...slog.Attr) {
	l := slog.Default()

	if !l.Enabled(ctx, level) {
		return
	}

	var pc uintptr
	var pcs [1]uintptr
	// skip [runtime.Callers, this function, this function's caller]
	runtime.Callers(3, pcs[:])
	pc = pcs[0]

	r := slog.NewRecord(time.Now(), level, msg, pc)
	r.AddAttrs(attrs...)
	_ = l.Handler().Handle(ctx, r)
}
