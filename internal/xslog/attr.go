package xslog

import (
	"log/slog"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/nocturnehq/nocturne/internal/version"
	"github.com/nocturnehq/nocturne/internal/xhttp"
)

func Error(err error) slog.Attr {
	const errorKey = "error"
	return slog.String(errorKey, err.Error())
}

func RequestID(requestID string) slog.Attr {
	const requestIDKey = "request_id"
	return slog.String(requestIDKey, requestID)
}

func Stack() slog.Attr {
	const stackKey = "stack"
	return slog.String(stackKey, string(debug.Stack()))
}

func HTTPStatus(status int) slog.Attr {
	const statusKey = "status"
	return slog.Int(statusKey, status)
}

func Duration(duration time.Duration) slog.Attr {
	const durationKey = "duration"
	return slog.Duration(durationKey, duration)
}

func RequestMethod(r *http.Request) slog.Attr {
	const methodKey = "method"
	return slog.String(methodKey, r.Method)
}

func RequestPath(r *http.Request) slog.Attr {
	const pathKey = "path"
	return slog.String(pathKey, r.URL.Path)
}

func IP(ip string) slog.Attr {
	const ipKey = "ip"
	return slog.String(ipKey, ip)
}

func RequestIP(r *http.Request) slog.Attr {
	return IP(xhttp.GetRequestIP(r))
}

func Version() slog.Attr {
	const versionKey = "version"
	return slog.String(versionKey, version.Get())
}

func Filename(name string) slog.Attr {
	const filenameKey = "filename"
	return slog.String(filenameKey, name)
}

func Nights(count int) slog.Attr {
	const nightsKey = "nights"
	return slog.Int(nightsKey, count)
}

func Records(count int) slog.Attr {
	const recordsKey = "records"
	return slog.Int(recordsKey, count)
}

func Dropped(count int) slog.Attr {
	const droppedKey = "dropped"
	return slog.Int(droppedKey, count)
}

func Persisted(count int) slog.Attr {
	const persistedKey = "persisted"
	return slog.Int(persistedKey, count)
}
