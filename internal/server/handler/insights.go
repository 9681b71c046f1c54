package handler

import (
	"errors"
	"net/http"

	"github.com/nocturnehq/nocturne/internal/night"
	"github.com/nocturnehq/nocturne/internal/service/insight"
	"github.com/nocturnehq/nocturne/internal/xerrors"
	"github.com/nocturnehq/nocturne/internal/xhttp"
)

type InsightReader interface {
	Summary() (night.Summary, error)
	Nights() ([]night.Night, error)
	Score() (night.ScoreBreakdown, error)
}

type Insights struct {
	service InsightReader
}

func NewInsights(service InsightReader) *Insights {
	return &Insights{service: service}
}

func (h *Insights) HandleSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.service.Summary()
	if err != nil {
		xerrors.WriteError(r.Context(), w, readError(err))
		return
	}
	xhttp.WriteOK(w, summary)
}

func (h *Insights) HandleNights(w http.ResponseWriter, r *http.Request) {
	nights, err := h.service.Nights()
	if err != nil {
		xerrors.WriteError(r.Context(), w, readError(err))
		return
	}
	xhttp.WriteOK(w, nightsResponse{Nights: nights})
}

func (h *Insights) HandleScore(w http.ResponseWriter, r *http.Request) {
	score, err := h.service.Score()
	if err != nil {
		xerrors.WriteError(r.Context(), w, readError(err))
		return
	}
	xhttp.WriteOK(w, score)
}

type nightsResponse struct {
	Nights []night.Night `json:"nights"`
}

func readError(err error) error {
	if errors.Is(err, insight.ErrNoData) {
		return xerrors.NotFound(xerrors.WithMessage("no data yet, upload an export first"))
	}
	return xerrors.Internal(xerrors.WithCause(err))
}
