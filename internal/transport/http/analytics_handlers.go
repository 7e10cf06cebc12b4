package http

import (
	"net"
	"net/http"

	"lms-service/internal/analytics"
	"lms-service/internal/domain"
)

func (h *handlers) stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.Analytics.Stats(r.Context(), queryValue(r, "filter"))
	if err != nil {
		writeError(w, err, "failed to fetch analytics")
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (h *handlers) series(w http.ResponseWriter, r *http.Request) {
	buckets, err := h.Analytics.Series(r.Context(), analytics.SeriesQuery{
		View:   queryValue(r, "view"),
		Year:   queryValue(r, "year"),
		Month:  queryValue(r, "month"),
		Filter: queryValue(r, "filter"),
		Metric: queryValue(r, "metric"),
	})
	if err != nil {
		writeError(w, err, "failed to fetch analytics")
		return
	}
	writeJSON(w, http.StatusOK, nonNil(buckets))
}

func (h *handlers) track(w http.ResponseWriter, r *http.Request) {
	var req trackRequest
	if err := decode(w, r, h.validate, &req); err != nil {
		writeError(w, err, "failed to track visit")
		return
	}
	visit, err := h.Tracking.RecordVisit(r.Context(), domain.PageVisit{
		PageURL:   req.PageURL,
		PageType:  req.PageType,
		Referrer:  req.Referrer,
		SessionID: req.SessionID,
		UserAgent: r.UserAgent(),
		IPAddress: clientIP(r),
	})
	if err != nil {
		writeError(w, err, "failed to track visit")
		return
	}
	writeJSON(w, http.StatusCreated, visit)
}

func (h *handlers) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decode(w, r, h.validate, &req); err != nil {
		writeError(w, err, "failed to log in")
		return
	}
	tok, err := h.Auth.Login(req.Username, req.Password)
	if err != nil {
		writeError(w, err, "failed to log in")
		return
	}
	writeJSON(w, http.StatusOK, loginResponse{AccessToken: tok})
}

// clientIP strips the port; middleware.RealIP has already applied proxy headers.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
