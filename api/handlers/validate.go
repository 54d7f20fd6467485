package handlers

import (
	"encoding/json"
	"io"
	"net/http"

	"go.uber.org/zap"

	"github.com/ActraStride/xulcan/api"
	"github.com/ActraStride/xulcan/types"
)

// maxValidateBody bounds validation request bodies. SemanticText allows up
// to 10M characters, so the cap sits above one maximal text plus framing.
const maxValidateBody = 16 << 20

// UsageRecorder receives validated usage reports. The metrics collector
// implements it.
type UsageRecorder interface {
	RecordUsage(provider, model string, usage types.UsageStats)
}

// ValidationHandler exposes the data contracts over HTTP: clients submit
// payloads, the handler answers with the normalized record or the precise
// violation. This is the ingestion edge for orchestrators that assemble
// conversations out-of-process.
type ValidationHandler struct {
	logger *zap.Logger
	usage  UsageRecorder
}

// NewValidationHandler creates the handler. usage may be nil when no
// metrics collector is wired.
func NewValidationHandler(logger *zap.Logger, usage UsageRecorder) *ValidationHandler {
	return &ValidationHandler{logger: logger, usage: usage}
}

func readBody(w http.ResponseWriter, r *http.Request) ([]byte, bool) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxValidateBody+1))
	if err != nil {
		api.WriteErrorMessage(w, r, http.StatusBadRequest, "body_read", "failed to read request body")
		return nil, false
	}
	if len(body) > maxValidateBody {
		api.WriteErrorMessage(w, r, http.StatusRequestEntityTooLarge, "body_too_large", "request body exceeds limit")
		return nil, false
	}
	return body, true
}

// HandleValidateMessages serves POST /validate/messages. The body is a
// JSON array of role-tagged messages; the response reports the resolved
// role sequence.
func (h *ValidationHandler) HandleValidateMessages(w http.ResponseWriter, r *http.Request) {
	body, ok := readBody(w, r)
	if !ok {
		return
	}
	msgs, err := types.UnmarshalMessages(body)
	if err != nil {
		api.WriteError(w, r, err, h.logger)
		return
	}
	roles := make([]types.Role, len(msgs))
	for i, m := range msgs {
		roles[i] = m.MessageRole()
	}
	api.WriteSuccess(w, r, map[string]any{
		"count": len(msgs),
		"roles": roles,
	})
}

// HandleValidateBlueprint serves POST /validate/blueprint. Defaults
// (version, timeout) are applied before validation, and the normalized
// blueprint is echoed back.
func (h *ValidationHandler) HandleValidateBlueprint(w http.ResponseWriter, r *http.Request) {
	body, ok := readBody(w, r)
	if !ok {
		return
	}
	var bp types.AgentBlueprint
	if err := bp.UnmarshalJSON(body); err != nil {
		api.WriteError(w, r, err, h.logger)
		return
	}
	api.WriteSuccess(w, r, bp)
}

// HandleValidateTools serves POST /validate/tools. The body is a JSON
// array of tool definitions.
func (h *ValidationHandler) HandleValidateTools(w http.ResponseWriter, r *http.Request) {
	body, ok := readBody(w, r)
	if !ok {
		return
	}
	var defs []types.ToolDefinition
	if err := json.Unmarshal(body, &defs); err != nil {
		api.WriteError(w, r, err, h.logger)
		return
	}
	names := make([]types.CanonicalIdentifier, len(defs))
	for i, d := range defs {
		names[i] = d.Function.Name
	}
	api.WriteSuccess(w, r, map[string]any{
		"count":     len(defs),
		"functions": names,
	})
}

// HandleReportUsage serves POST /usage. The body is a UsageStats record;
// provider and model arrive as query parameters. Valid reports feed the
// metrics collector.
func (h *ValidationHandler) HandleReportUsage(w http.ResponseWriter, r *http.Request) {
	body, ok := readBody(w, r)
	if !ok {
		return
	}
	var usage types.UsageStats
	if err := usage.UnmarshalJSON(body); err != nil {
		api.WriteError(w, r, err, h.logger)
		return
	}
	provider := r.URL.Query().Get("provider")
	model := r.URL.Query().Get("model")
	if h.usage != nil {
		h.usage.RecordUsage(provider, model, usage)
	}
	api.WriteSuccess(w, r, map[string]any{
		"total_tokens":     usage.TotalTokens,
		"cache_efficiency": usage.CacheEfficiency(),
	})
}
