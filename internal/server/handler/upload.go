package handler

import (
	"context"
	"errors"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/nocturnehq/nocturne/internal/export"
	"github.com/nocturnehq/nocturne/internal/service/insight"
	"github.com/nocturnehq/nocturne/internal/xerrors"
	"github.com/nocturnehq/nocturne/internal/xhttp"
	"github.com/nocturnehq/nocturne/internal/xslog"
)

// uploadFormField is the multipart field carrying the export file.
const uploadFormField = "file"

type Ingester interface {
	Ingest(ctx context.Context, r io.Reader) (insight.IngestResult, error)
}

type Upload struct {
	service  Ingester
	maxBytes int64
}

func NewUpload(service Ingester, maxBytes int64) *Upload {
	return &Upload{service: service, maxBytes: maxBytes}
}

// HandleUpload ingests a multipart export upload (raw XML or zipped
// archive), streaming the file part straight into the engine without
// buffering it.
func (h *Upload) HandleUpload(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	r.Body = http.MaxBytesReader(w, r.Body, h.maxBytes)

	mr, err := r.MultipartReader()
	if err != nil {
		xerrors.WriteError(ctx, w, xerrors.BadRequest(
			xerrors.WithMessage("expected a multipart upload with a \"file\" field"),
			xerrors.WithCause(err)))
		return
	}

	part, filename, err := findFilePart(mr)
	if err != nil {
		xerrors.WriteError(ctx, w, xerrors.BadRequest(
			xerrors.WithMessage("upload contains no \"file\" field")))
		return
	}

	result, err := h.service.Ingest(ctx, part)
	if err != nil {
		xerrors.WriteError(ctx, w, ingestError(err))
		return
	}

	xslog.FromContext(ctx).InfoContext(ctx, "export ingested",
		xslog.Filename(filename),
		xslog.Nights(result.NightCount),
		xslog.Records(result.Records),
		xslog.Dropped(result.Stats.Dropped()))

	xhttp.WriteOK(w, result)
}

func findFilePart(mr *multipart.Reader) (io.Reader, string, error) {
	for {
		part, err := mr.NextPart()
		if err != nil {
			return nil, "", err
		}
		if part.FormName() == uploadFormField {
			return part, part.FileName(), nil
		}
	}
}

func ingestError(err error) error {
	var maxBytesErr *http.MaxBytesError
	switch {
	case errors.Is(err, export.ErrNoExport):
		return xerrors.BadRequest(
			xerrors.WithMessage("archive contains no health export entry"),
			xerrors.WithCause(err))
	case errors.Is(err, export.ErrMalformed):
		return xerrors.BadRequest(
			xerrors.WithMessage("file is not a valid health export"),
			xerrors.WithCause(err))
	case errors.As(err, &maxBytesErr):
		return xerrors.RequestTooLarge(xerrors.WithCause(err))
	default:
		return xerrors.Internal(xerrors.WithCause(err))
	}
}
