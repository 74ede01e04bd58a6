package http

import (
	"bytes"
	"io"
	"net/http"
	"strconv"
	"strings"

	"myfinance/internal/core"
	applog "myfinance/internal/log"
)

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.store.Snapshot())
}

func (s *Server) handleTotals(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.store.Totals())
}

func (s *Server) handleCreateEntry(w http.ResponseWriter, r *http.Request) {
	var req entryRequest
	if err := decodeJSON(r, &req); err != nil {
		writeDomainError(w, err)
		return
	}

	value, err := core.ParseAmount(req.Value)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	date, err := parseEntryDate(req.Date)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	item, err := s.store.AddEntry(r.Context(), core.Kind(strings.ToLower(req.Kind)), value,
		sanitizeInput(req.Description), sanitizeInput(req.Category), date)
	if err != nil {
		applog.FromContext(r.Context()).WarnContext(r.Context(), "Entry rejected",
			applog.FieldOperation, applog.OpAdd, applog.FieldKind, req.Kind,
			applog.FieldError, err.Error())
		writeDomainError(w, err)
		return
	}
	writeSuccess(w, http.StatusCreated, "Lançamento registrado", item)
}

func (s *Server) handleRemoveEntry(w http.ResponseWriter, r *http.Request) {
	id, ok := requiredQueryID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "missing id")
		return
	}
	kind := core.Kind(strings.ToLower(strings.TrimSpace(r.URL.Query().Get("kind"))))

	removed, err := s.store.RemoveEntry(r.Context(), kind, id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if !removed {
		// Absent id (or declined confirmation) is a documented no-op.
		writeSuccess(w, http.StatusOK, "Nada a remover", nil)
		return
	}
	writeSuccess(w, http.StatusOK, "Lançamento removido", nil)
}

func (s *Server) handleCreateGoal(w http.ResponseWriter, r *http.Request) {
	var req goalRequest
	if err := decodeJSON(r, &req); err != nil {
		writeDomainError(w, err)
		return
	}

	price, err := core.ParseAmount(req.Price)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	priority, err := core.ParsePriority(req.Priority)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	goal, err := s.store.AddGoal(r.Context(), sanitizeInput(req.Name), price, priority)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeSuccess(w, http.StatusCreated, "Meta adicionada", goal)
}

func (s *Server) handleToggleGoal(w http.ResponseWriter, r *http.Request) {
	id, ok := requiredQueryID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "missing id")
		return
	}
	toggled, err := s.store.ToggleGoal(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if !toggled {
		writeSuccess(w, http.StatusOK, "Meta não encontrada", nil)
		return
	}
	writeSuccess(w, http.StatusOK, "Meta atualizada", nil)
}

func (s *Server) handleRemoveGoal(w http.ResponseWriter, r *http.Request) {
	id, ok := requiredQueryID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "missing id")
		return
	}
	if _, err := s.store.RemoveGoal(r.Context(), id); err != nil {
		writeDomainError(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, "Meta removida", nil)
}

func (s *Server) handleCreateFixedCost(w http.ResponseWriter, r *http.Request) {
	var req fixedCostRequest
	if err := decodeJSON(r, &req); err != nil {
		writeDomainError(w, err)
		return
	}

	value, err := core.ParseAmount(req.Value)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	fc, err := s.store.AddFixedCost(r.Context(), sanitizeInput(req.Name), value)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeSuccess(w, http.StatusCreated, "Custo fixo adicionado", fc)
}

func (s *Server) handleRemoveFixedCost(w http.ResponseWriter, r *http.Request) {
	id, ok := requiredQueryID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "missing id")
		return
	}
	if _, err := s.store.RemoveFixedCost(r.Context(), id); err != nil {
		writeDomainError(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, "Custo fixo removido", nil)
}

func (s *Server) handleCreateCategory(w http.ResponseWriter, r *http.Request) {
	var req categoryRequest
	if err := decodeJSON(r, &req); err != nil {
		writeDomainError(w, err)
		return
	}
	if err := s.store.AddCategory(r.Context(), sanitizeInput(req.Name)); err != nil {
		writeDomainError(w, err)
		return
	}
	writeSuccess(w, http.StatusCreated, "Categoria adicionada", nil)
}

func (s *Server) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	var req profileRequest
	if err := decodeJSON(r, &req); err != nil {
		writeDomainError(w, err)
		return
	}
	profile := core.Profile{
		Name:  sanitizeInput(req.Name),
		Email: sanitizeInput(req.Email),
		Bio:   sanitizeInput(req.Bio),
	}
	if err := s.store.SetProfile(r.Context(), profile); err != nil {
		writeDomainError(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, "Perfil atualizado", nil)
}

// handleExport serves the pretty-printed snapshot as a download. The
// document is encoded in full before any header is committed, so a
// failure never reaches the client as a truncated 200.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	if err := s.store.Export(&buf); err != nil {
		applog.FromContext(r.Context()).ErrorContext(r.Context(), "Export failed",
			applog.NewFields().WithOperation(applog.OpExport).WithError(err).ToSlice()...)
		writeError(w, http.StatusInternalServerError, "could not export data")
		return
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+s.exportName+`"`)
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	_, _ = w.Write(buf.Bytes())
}

// handleImport replaces the whole state from an uploaded file. Invalid
// JSON leaves the current state untouched and surfaces a notification.
func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	data, err := readImportPayload(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "could not read import file")
		return
	}

	if err := s.store.Import(r.Context(), data); err != nil {
		applog.FromContext(r.Context()).WarnContext(r.Context(), "Import rejected",
			applog.NewFields().WithOperation(applog.OpImport).WithError(err).ToSlice()...)
		writeError(w, http.StatusUnprocessableEntity, "Arquivo inválido: o conteúdo não é um JSON válido")
		return
	}
	writeSuccess(w, http.StatusOK, "Dados importados", nil)
}

// readImportPayload accepts either a multipart upload (field "file")
// or a raw JSON body.
func readImportPayload(r *http.Request) ([]byte, error) {
	ct := r.Header.Get("Content-Type")
	if strings.HasPrefix(ct, "multipart/form-data") {
		if err := r.ParseMultipartForm(maxBodyBytes); err != nil {
			return nil, err
		}
		f, _, err := r.FormFile("file")
		if err != nil {
			return nil, err
		}
		defer f.Close()
		return io.ReadAll(io.LimitReader(f, maxBodyBytes))
	}
	return io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
}
