package web

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"ReportDog/internal/analysis"
	"ReportDog/internal/collector"
	"ReportDog/internal/export"
	"ReportDog/internal/recorder"
)

const (
	defaultHistoryLimit = 20
	maxHistoryLimit     = 100

	xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

var stockCode = regexp.MustCompile(`^[0-9A-Z]{4,6}$`)

// pathCode reads and normalises the {code} path value. It writes a 400 and
// returns false when the code is malformed.
func pathCode(w http.ResponseWriter, r *http.Request) (string, bool) {
	code := strings.ToUpper(strings.TrimSpace(r.PathValue("code")))
	if !stockCode.MatchString(code) {
		writeError(w, http.StatusBadRequest, "invalid stock code")
		return "", false
	}
	return code, true
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if code := strings.ToUpper(strings.TrimSpace(r.URL.Query().Get("code"))); code != "" {
		http.Redirect(w, r, "/stock/"+url.PathEscape(code), http.StatusSeeOther)
		return
	}
	s.render(w, http.StatusOK, "index.html", nil)
}

func (s *Server) handleStockPage(w http.ResponseWriter, r *http.Request) {
	code := strings.ToUpper(strings.TrimSpace(r.PathValue("code")))
	if !stockCode.MatchString(code) {
		s.render(w, http.StatusBadRequest, "error.html", errorPage{Code: code, Message: "股票代號格式錯誤"})
		return
	}
	d, err := s.Dossiers.Collect(r.Context(), code)
	if err != nil {
		status := dossierStatus(err)
		s.render(w, status, "error.html", errorPage{Code: code, Message: pageMessage(status)})
		return
	}
	s.record(d.Report)
	s.render(w, http.StatusOK, "stock.html", s.newStockPage(d))
}

func (s *Server) handleDossier(w http.ResponseWriter, r *http.Request) {
	code, ok := pathCode(w, r)
	if !ok {
		return
	}
	d, err := s.Dossiers.Collect(r.Context(), code)
	if err != nil {
		writeError(w, dossierStatus(err), err.Error())
		return
	}
	s.record(d.Report)
	writeJSON(w, http.StatusOK, d)
}

func (s *Server) handleAnalysis(w http.ResponseWriter, r *http.Request) {
	code, ok := pathCode(w, r)
	if !ok {
		return
	}
	report, err := s.Analyst.Analyze(r.Context(), code)
	if err != nil {
		if errors.Is(err, analysis.ErrInsufficientData) {
			writeError(w, http.StatusUnprocessableEntity, analysis.ErrInsufficientData.Error())
			return
		}
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}
	s.record(report)
	writeJSON(w, http.StatusOK, report)
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	code, ok := pathCode(w, r)
	if !ok {
		return
	}
	limit := defaultHistoryLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = min(n, maxHistoryLimit)
	}
	snapshots, err := s.Recorder.ListReports(code, limit)
	if err != nil {
		log.Printf("[ERROR] list reports %s: %v", code, err)
		writeError(w, http.StatusInternalServerError, "history unavailable")
		return
	}
	if snapshots == nil {
		snapshots = []recorder.ReportSnapshot{}
	}
	writeJSON(w, http.StatusOK, snapshots)
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	code, ok := pathCode(w, r)
	if !ok {
		return
	}
	d, err := s.Dossiers.Collect(r.Context(), code)
	if err != nil {
		writeError(w, dossierStatus(err), err.Error())
		return
	}
	data, err := export.Workbook(d)
	if err != nil {
		log.Printf("[ERROR] export %s: %v", code, err)
		writeError(w, http.StatusInternalServerError, "export failed")
		return
	}
	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", "attachment; filename*=UTF-8''"+url.PathEscape(export.Filename(d)))
	w.Write(data)
}

// dossierStatus maps a Collect error to an HTTP status.
func dossierStatus(err error) int {
	switch {
	case errors.Is(err, collector.ErrUnknownStock):
		return http.StatusNotFound
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusBadGateway
	}
}

func pageMessage(status int) string {
	if status == http.StatusNotFound {
		return "查無此股票代號"
	}
	return "資料來源暫時無法使用，請稍後再試"
}

func (s *Server) render(w http.ResponseWriter, status int, name string, data any) {
	var buf bytes.Buffer
	if err := s.pages.ExecuteTemplate(&buf, name, data); err != nil {
		log.Printf("[ERROR] render %s: %v", name, err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	w.Write(buf.Bytes())
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("[ERROR] encode response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
