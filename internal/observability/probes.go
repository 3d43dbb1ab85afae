package observability

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
)

// liveness answers 200 whenever the process can still serve HTTP.
func (s *Server) liveness(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

type probeResult struct {
	component string
	err       error
}

// readiness runs every checker in parallel and answers 200 only if all
// pass. The body lists per-component state for debugging; orchestrators
// only look at the status code.
func (s *Server) readiness(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), s.cfg.Timeout)
	defer cancel()

	results := make(chan probeResult, len(s.checkers))
	var wg sync.WaitGroup
	for _, checker := range s.checkers {
		wg.Add(1)
		go func(c Checker) {
			defer wg.Done()
			results <- probeResult{component: c.Name(), err: c.Check(ctx)}
		}(checker)
	}
	wg.Wait()
	close(results)

	components := make(map[string]string, len(s.checkers))
	healthy := true
	for res := range results {
		if res.err != nil {
			s.logger.Warn("readiness check failed",
				slog.String("component", res.component),
				slog.String("error", res.err.Error()),
			)
			components[res.component] = "down: " + res.err.Error()
			healthy = false
			continue
		}
		components[res.component] = "up"
	}

	w.Header().Set("Content-Type", "application/json")
	if !healthy {
		w.WriteHeader(http.StatusServiceUnavailable)
	} else {
		w.WriteHeader(http.StatusOK)
	}
	_ = json.NewEncoder(w).Encode(map[string]any{"status": components})
}
