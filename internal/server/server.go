// Package server exposes the statement engine over HTTP and serves the
// embedded web UI. Each request computes its own projection from its own
// payload; the engine holds no cross-request state.
package server

import (
	"bytes"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/finmodeler/statement-forge/internal/checker"
	"github.com/finmodeler/statement-forge/internal/config"
	"github.com/finmodeler/statement-forge/internal/engine"
	"github.com/finmodeler/statement-forge/internal/export"
	"github.com/finmodeler/statement-forge/pkg/format"
	"github.com/finmodeler/statement-forge/pkg/output"
)

//go:embed static/*
var staticFiles embed.FS

type handler struct {
	logger  *zap.Logger
	cfg     *Config
	version string
}

// NewHandler constructs the HTTP handler that serves the web UI and the
// projection API.
func NewHandler(logger *zap.Logger, cfg *Config, version string) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg == nil {
		cfg, _ = LoadConfig("")
	}

	trimmedVersion := strings.TrimSpace(version)
	if trimmedVersion == "" {
		trimmedVersion = "dev"
	}

	h := &handler{logger: logger, cfg: cfg, version: trimmedVersion}

	mux := http.NewServeMux()

	// Login gate; authorizes the session before the engine is reachable.
	mux.HandleFunc("/api/login", h.handleLogin)

	// Projection API.
	mux.HandleFunc("/api/projection", h.requireAuth(h.handleProjection))
	mux.HandleFunc("/api/export/excel", h.requireAuth(h.handleExportExcel))
	mux.HandleFunc("/api/export/word", h.requireAuth(h.handleExportWord))

	// Version endpoint for UI metadata.
	mux.HandleFunc("/api/version", h.handleVersion)

	// Static assets (web UI).
	sub, err := fs.Sub(staticFiles, "static")
	if err != nil {
		panic(fmt.Sprintf("failed to prepare embedded static files: %v", err))
	}
	mux.Handle("/", http.FileServer(http.FS(sub)))

	return mux
}

type projectionResponse struct {
	Company         string              `json:"company"`
	ReportingPeriod string              `json:"reportingPeriod,omitempty"`
	PeriodHeaders   []string            `json:"periodHeaders"`
	Currency        string              `json:"currency"`
	CurrencySymbol  string              `json:"currencySymbol"`
	Decimals        int                 `json:"decimals"`
	Periods         []engine.Period     `json:"periods"`
	Tables          []tablePayload      `json:"tables"`
	Report          checker.Report      `json:"report"`
	Warnings        []string            `json:"warnings,omitempty"`
	CSV             string              `json:"csv"`
	Duration        string              `json:"duration"`
}

type tablePayload struct {
	Title string       `json:"title"`
	Rows  []rowPayload `json:"rows"`
}

type rowPayload struct {
	Label  string    `json:"label"`
	Values []float64 `json:"values,omitempty"`
	Header bool      `json:"header,omitempty"`
	Indent bool      `json:"indent,omitempty"`
}

type errorResponse struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}

func (h *handler) handleVersion(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"version":      h.version,
		"authRequired": h.cfg.Auth.Enabled,
	})
}

func (h *handler) handleProjection(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	conf, ok := h.decodeConfiguration(w, r, "server.handleProjection")
	if !ok {
		return
	}

	result, warnings, report, ok := h.compute(w, conf, "server.handleProjection")
	if !ok {
		return
	}

	headers := make([]string, 0, len(result.Periods))
	for _, period := range result.Periods {
		headers = append(headers, conf.Presentation.PeriodHeader(period.Index))
	}

	tables := make([]tablePayload, 0, 4)
	for _, table := range output.Tables(result) {
		payload := tablePayload{Title: table.Title}
		for _, row := range table.Rows {
			payload.Rows = append(payload.Rows, rowPayload{
				Label:  row.Label,
				Values: row.Values,
				Header: row.Header,
				Indent: row.Indent,
			})
		}
		tables = append(tables, payload)
	}

	elapsed := time.Since(start)
	h.logger.Info("projection computed",
		zap.String("op", "server.handleProjection"),
		zap.Int("periods", len(result.Periods)),
		zap.Bool("balanced", report.Balanced),
		zap.Duration("duration", elapsed),
	)

	h.writeJSON(w, http.StatusOK, projectionResponse{
		Company:         conf.Company,
		ReportingPeriod: conf.ReportingPeriod,
		PeriodHeaders:   headers,
		Currency:        conf.Presentation.CurrencyCode,
		CurrencySymbol:  format.Symbol(conf.Presentation.CurrencyCode),
		Decimals:        conf.Presentation.Decimals,
		Periods:         result.Periods,
		Tables:          tables,
		Report:          report,
		Warnings:        warnings,
		CSV:             output.CsvString(result, conf.Presentation),
		Duration:        elapsed.String(),
	})
}

func (h *handler) handleExportExcel(w http.ResponseWriter, r *http.Request) {
	h.handleExport(w, r, "server.handleExportExcel", "xlsx", export.ExcelContentType, export.Excel)
}

func (h *handler) handleExportWord(w http.ResponseWriter, r *http.Request) {
	h.handleExport(w, r, "server.handleExportWord", "docx", export.WordContentType, export.Word)
}

func (h *handler) handleExport(w http.ResponseWriter, r *http.Request, op, extension, contentType string,
	build func(*engine.ProjectionResult, *config.Configuration) ([]byte, error)) {

	conf, ok := h.decodeConfiguration(w, r, op)
	if !ok {
		return
	}

	result, _, report, ok := h.compute(w, conf, op)
	if !ok {
		return
	}

	// A consistency violation does not block the export; the numbers are
	// still the computed numbers. It is logged so the failure is visible.
	if !report.Balanced {
		h.logger.Warn("exporting an out-of-balance projection",
			zap.String("op", op),
			zap.Int("violations", len(report.Violations)),
		)
	}

	data, err := build(result, conf)
	if err != nil {
		h.respondError(w, http.StatusInternalServerError, err.Error(), op)
		return
	}

	filename := fmt.Sprintf("%s-statements.%s", sanitizeFilename(conf.Company), extension)
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	if _, err := w.Write(data); err != nil {
		h.logger.Error("failed to write export response",
			zap.String("op", op),
			zap.Error(err),
		)
	}
}

// decodeConfiguration reads a JSON request body and round-trips it through
// YAML so the API accepts the same configuration shape as the assumptions
// file.
func (h *handler) decodeConfiguration(w http.ResponseWriter, r *http.Request, op string) (*config.Configuration, bool) {
	if r.Method != http.MethodPost {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return nil, false
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.cfg.BodySizeBytes())

	var payload map[string]interface{}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			h.respondError(w, http.StatusRequestEntityTooLarge,
				fmt.Sprintf("request exceeds limit of %d bytes", h.cfg.BodySizeBytes()), op)
			return nil, false
		}
		h.respondError(w, http.StatusBadRequest, fmt.Sprintf("failed to decode request: %v", err), op)
		return nil, false
	}

	configBytes, err := yaml.Marshal(payload)
	if err != nil {
		h.respondError(w, http.StatusBadRequest, fmt.Sprintf("failed to encode configuration: %v", err), op)
		return nil, false
	}

	conf, err := config.LoadConfigurationFromReader(bytes.NewReader(configBytes))
	if err != nil {
		h.respondError(w, http.StatusBadRequest, err.Error(), op)
		return nil, false
	}
	return conf, true
}

// compute runs validation, the engine, and the consistency checker.
// Validation and overflow errors respond 400 with the offending field so the
// UI can attach the message to the input.
func (h *handler) compute(w http.ResponseWriter, conf *config.Configuration, op string) (*engine.ProjectionResult, []string, checker.Report, bool) {
	warnings := conf.ValidateConfiguration()

	result, err := engine.Compute(h.logger, conf.Assumptions, conf.Periods)
	if err != nil {
		var invalid *config.InvalidAssumptionError
		if errors.As(err, &invalid) {
			h.respondErrorField(w, http.StatusBadRequest, invalid.Error(), invalid.Field, op)
			return nil, nil, checker.Report{}, false
		}
		var overflow *engine.NumericOverflowError
		if errors.As(err, &overflow) {
			h.respondErrorField(w, http.StatusBadRequest, overflow.Error(), overflow.Field, op)
			return nil, nil, checker.Report{}, false
		}
		h.respondError(w, http.StatusInternalServerError, fmt.Sprintf("failed to compute projection: %v", err), op)
		return nil, nil, checker.Report{}, false
	}

	return result, warnings, checker.Verify(result), true
}

func (h *handler) respondError(w http.ResponseWriter, status int, msg, op string) {
	h.respondErrorField(w, status, msg, "", op)
}

func (h *handler) respondErrorField(w http.ResponseWriter, status int, msg, field, op string) {
	h.logger.Error("request failed",
		zap.String("op", op),
		zap.Int("status", status),
		zap.String("error", msg),
	)

	h.writeJSON(w, status, errorResponse{Error: msg, Field: field})
}

func (h *handler) writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.logger.Error("failed to write JSON response", zap.Error(err))
	}
}

func sanitizeFilename(name string) string {
	cleaned := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == ' ', r == '-', r == '_':
			return '-'
		default:
			return -1
		}
	}, name)
	cleaned = strings.Trim(cleaned, "-")
	if cleaned == "" {
		return "statements"
	}
	return cleaned
}
