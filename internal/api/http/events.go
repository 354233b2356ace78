package http

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	syncx "github.com/rulemakers-physics/rmleveltest/internal/sync"
)

type eventView struct {
	Seq       int64           `json:"seq"`
	SiteID    string          `json:"siteId"`
	Type      string          `json:"type"`
	Key       string          `json:"key"`
	Data      json.RawMessage `json:"data"`
	CreatedAt time.Time       `json:"createdAt"`
}

// GET /admin/events?after=&limit=
// Pages through the event log oldest first. Only SQL stores keep one.
func ListEventsHandler(events *syncx.EventRepo) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if events == nil {
			writeError(w, http.StatusNotImplemented, "event log not kept by this store")
			return
		}
		q := r.URL.Query()
		var after int64
		if s := q.Get("after"); s != "" {
			v, err := strconv.ParseInt(s, 10, 64)
			if err != nil || v < 0 {
				writeError(w, http.StatusBadRequest, "after must be a non-negative sequence number")
				return
			}
			after = v
		}
		list, err := events.Since(r.Context(), after, parseIntDefault(q.Get("limit"), 100))
		if err != nil {
			writeDomainError(w, "list events", err)
			return
		}
		out := make([]eventView, 0, len(list))
		for _, e := range list {
			out = append(out, eventView{
				Seq:       e.Seq,
				SiteID:    e.SiteID,
				Type:      e.Type,
				Key:       e.Key,
				Data:      json.RawMessage(e.DataJSON),
				CreatedAt: time.UnixMilli(e.CreatedAt).UTC(),
			})
		}
		writeJSON(w, http.StatusOK, out)
	}
}
