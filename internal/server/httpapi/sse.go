package httpapi

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/avolkovs/daykeeper/internal/common"
	"github.com/avolkovs/daykeeper/internal/server/entries"
)

// handleWatchEntries streams entry snapshots as server-sent events. The
// current set is sent immediately, then one event per observed mutation
// until the client disconnects.
func (s *Server) handleWatchEntries(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, common.ErrInternal)
		return
	}

	user := userFrom(r.Context())

	ch, cancel := s.entries.Watch(user.ID)
	defer cancel()

	initial, err := s.entries.List(r.Context(), user.ID)
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.WriteHeader(http.StatusOK)

	if err := writeEvent(w, flusher, initial); err != nil {
		return
	}

	for {
		select {
		case snapshot, ok := <-ch:
			if !ok {
				return
			}
			if err := writeEvent(w, flusher, snapshot); err != nil {
				return
			}
		case <-r.Context().Done():
			return
		}
	}
}

func writeEvent(w http.ResponseWriter, flusher http.Flusher, snapshot []entries.Entry) error {
	raw, err := json.Marshal(toEntryDTOs(snapshot))
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "data: %s\n\n", raw); err != nil {
		return err
	}
	flusher.Flush()
	return nil
}
