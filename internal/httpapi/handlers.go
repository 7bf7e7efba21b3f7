package httpapi

import (
	"errors"
	"net/http"
	"net/url"
	"strconv"

	"github.com/safari-erp/safari/internal/dfc"
	"github.com/safari-erp/safari/internal/render"
)

type accountDTO struct {
	Code            string `json:"code"`
	Description     string `json:"description"`
	Nature          string `json:"nature"`
	AcceptsPostings bool   `json:"accepts_postings"`
}

type dfcResponse struct {
	Simulation bool            `json:"simulation"`
	Report     render.Document `json:"report"`
}

func (s *Server) healthz(w http.ResponseWriter, r *http.Request) {
	toJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) listAccounts(w http.ResponseWriter, r *http.Request) {
	src, ok := s.source(w)
	if !ok {
		return
	}
	chart := src.Chart()
	out := make([]accountDTO, 0, len(chart))
	for _, a := range chart {
		out = append(out, accountDTO{
			Code:            a.Code,
			Description:     a.Description,
			Nature:          string(a.Nature),
			AcceptsPostings: a.AcceptsPostings,
		})
	}
	toJSON(w, http.StatusOK, out)
}

func (s *Server) listBalances(w http.ResponseWriter, r *http.Request) {
	src, ok := s.source(w)
	if !ok {
		return
	}
	snaps := src.Snapshots()
	out := make([]render.SnapshotDoc, 0, len(snaps))
	for _, sn := range snaps {
		out = append(out, render.NewSnapshotDoc(sn))
	}
	toJSON(w, http.StatusOK, out)
}

func (s *Server) getSettings(w http.ResponseWriter, r *http.Request) {
	src, ok := s.source(w)
	if !ok {
		return
	}
	toJSON(w, http.StatusOK, render.NewConfigDoc(src.Official()))
}

func (s *Server) getDFC(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	if q.Get("from") == "" || q.Get("to") == "" {
		badRequest(w, "from and to are required (YYYY-MM-DD)", "missing_period")
		return
	}
	period, err := dfc.ParsePeriod(q.Get("from"), q.Get("to"))
	if err != nil {
		code := "invalid_date"
		if errors.Is(err, dfc.ErrInvertedPeriod) {
			code = "inverted_period"
		}
		badRequest(w, err.Error(), code)
		return
	}

	src, ok := s.source(w)
	if !ok {
		return
	}
	cfg, simulation, err := applyOverrides(src.Official(), q)
	if err != nil {
		badRequest(w, err.Error(), "invalid_override")
		return
	}

	rep, err := src.Report(cfg, period)
	if err != nil {
		s.log.Error("dfc report failed", "err", err)
		writeErr(w, http.StatusInternalServerError, "could not compute report", "report_failed")
		return
	}

	kind := "official"
	if simulation {
		kind = "simulation"
	}
	dfcRunsTotal.WithLabelValues(kind).Inc()

	toJSON(w, http.StatusOK, dfcResponse{
		Simulation: simulation,
		Report:     render.NewDocument(rep, q.Get("details") == "true"),
	})
}

// applyOverrides starts from the official config and applies any toggle
// present in the query. It reports whether anything was overridden.
func applyOverrides(cfg dfc.Config, q url.Values) (dfc.Config, bool, error) {
	overridden := false

	if v := q.Get("formula"); v != "" {
		f, ok := dfc.ParseFormula(v)
		if !ok {
			return cfg, false, errors.New("unknown formula " + strconv.Quote(v))
		}
		cfg.Formula = f
		overridden = true
	}

	toggles := []struct {
		param string
		dst   *bool
	}{
		{"recorded", &cfg.UseRecordedOpening},
		{"computed", &cfg.UseComputedOpening},
		{"reconciled", &cfg.ReconciledOnly},
		{"force_negative", &cfg.ForceOutflowNegative},
	}
	for _, t := range toggles {
		v := q.Get(t.param)
		if v == "" {
			continue
		}
		b, err := strconv.ParseBool(v)
		if err != nil {
			return cfg, false, errors.New(t.param + ": want true or false")
		}
		*t.dst = b
		overridden = true
	}
	return cfg, overridden, nil
}
