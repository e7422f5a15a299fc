package handlers

import (
	"encoding/json"
	stderrors "errors"
	"mime"
	"net/http"
	"strings"

	"github.com/gridlot/mastermatch/internal/server/events"
	"github.com/gridlot/mastermatch/internal/server/response"
	"github.com/gridlot/mastermatch/pkg/importer"
	"github.com/gridlot/mastermatch/pkg/logging"
	"github.com/gridlot/mastermatch/pkg/resolver"
	"github.com/gridlot/mastermatch/pkg/validator"
)

// ValidateRequest is the JSON body of POST {prefix}/validate.
type ValidateRequest struct {
	Rows []resolver.Row `json:"rows"`
}

// MatchRequest is the JSON body of POST {prefix}/match. Make and Model are
// the parent values used to narrow the candidate pool.
type MatchRequest struct {
	Field string `json:"field"`
	Value string `json:"value"`
	Make  string `json:"make"`
	Model string `json:"model"`
}

// HandleValidate handles POST {prefix}/validate.
//
// The body is either JSON ({"rows": [...]}) or a multipart form whose
// "file" part is an .xlsx, .csv, .yaml or .json sheet. The optional query
// parameter only=valid|review|invalid restricts the returned verdicts; the
// summary always covers the whole batch. Bodies are bounded by the upload
// limit in both forms.
func (h *Handlers) HandleValidate(w http.ResponseWriter, r *http.Request) {
	filter, err := parseVerdictFilter(r.URL.Query().Get("only"))
	if err != nil {
		response.BadRequest(w, err.Error(), "use one of: valid, review, invalid")
		return
	}

	rows, ok := h.readRows(w, r)
	if !ok {
		return
	}

	ctx := r.Context()
	result, err := h.client.Validate(ctx, rows)
	if err != nil {
		logging.FromContext(ctx).Warn().Err(err).Int("rows", len(rows)).Msg("Batch validation failed")
		response.ErrorFromType(w, err)
		return
	}

	h.broker.Publish(events.BatchValidated, map[string]any{
		"batchId":    result.BatchID,
		"generation": result.Generation,
		"summary":    result.Summary,
	})

	if filter != "" {
		copied := *result
		copied.Verdicts = filterVerdicts(result.Verdicts, filter)
		result = &copied
	}

	response.OK(w, result)
}

// readRows decodes the request body into rows, writing the error response
// itself when it cannot.
func (h *Handlers) readRows(w http.ResponseWriter, r *http.Request) ([]resolver.Row, bool) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	r.Body = http.MaxBytesReader(w, r.Body, h.uploadLimit)

	if mediaType == "multipart/form-data" {
		file, header, err := r.FormFile("file")
		if err != nil {
			var tooLarge *http.MaxBytesError
			if stderrors.As(err, &tooLarge) {
				response.PayloadTooLarge(w, "Uploaded sheet exceeds the size limit")
				return nil, false
			}
			response.BadRequest(w, "Missing upload", "Send the sheet in a multipart field named file")
			return nil, false
		}
		defer func() { _ = file.Close() }()

		format, err := importer.FormatOf(header.Filename)
		if err != nil {
			response.ErrorFromType(w, err)
			return nil, false
		}
		var opts []importer.Option
		if sheet := r.FormValue("sheet"); sheet != "" {
			opts = append(opts, importer.WithSheet(sheet))
		}
		rows, err := importer.Decode(r.Context(), file, format, header.Filename, opts...)
		if err != nil {
			response.ErrorFromType(w, err)
			return nil, false
		}
		return rows, true
	}

	var req ValidateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if stderrors.As(err, &tooLarge) {
			response.PayloadTooLarge(w, "Request body exceeds the size limit")
			return nil, false
		}
		response.BadRequest(w, "Invalid JSON body", err.Error())
		return nil, false
	}
	if req.Rows == nil {
		response.BadRequest(w, "Missing rows", `Send {"rows": [...]}`)
		return nil, false
	}
	return req.Rows, true
}

// verdictFilter selects one partition of a batch; empty keeps everything.
type verdictFilter string

const (
	filterValid   verdictFilter = "valid"
	filterReview  verdictFilter = "review"
	filterInvalid verdictFilter = "invalid"
)

func parseVerdictFilter(only string) (verdictFilter, error) {
	switch strings.ToLower(only) {
	case "":
		return "", nil
	case "valid":
		return filterValid, nil
	case "review", "needs_review", "needsreview":
		return filterReview, nil
	case "invalid":
		return filterInvalid, nil
	}
	return "", stderrors.New("unknown verdict filter " + only)
}

func filterVerdicts(verdicts []resolver.Verdict, filter verdictFilter) []resolver.Verdict {
	valid, review, invalid := validator.Partition(verdicts)
	var out []resolver.Verdict
	switch filter {
	case filterValid:
		out = valid
	case filterReview:
		out = review
	case filterInvalid:
		out = invalid
	}
	if out == nil {
		out = []resolver.Verdict{}
	}
	return out
}

// HandleMatch handles POST {prefix}/match.
func (h *Handlers) HandleMatch(w http.ResponseWriter, r *http.Request) {
	var req MatchRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, h.uploadLimit)).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid JSON body", err.Error())
		return
	}

	field, err := resolver.ParseField(req.Field)
	if err != nil {
		response.ErrorFromType(w, err)
		return
	}

	row := resolver.Row{Make: req.Make, Model: req.Model}
	switch field {
	case resolver.FieldMake:
		row.Make = req.Value
	case resolver.FieldModel:
		row.Model = req.Value
	case resolver.FieldVariant:
		row.Variant = req.Value
	}

	result, err := h.client.Match(field, row)
	if err != nil {
		response.ErrorFromType(w, err)
		return
	}
	response.OK(w, result)
}
