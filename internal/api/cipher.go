package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/RowanDark/vigenere/internal/cipher"
	"github.com/RowanDark/vigenere/internal/logging"
	"github.com/RowanDark/vigenere/internal/vigenere"
)

// VigenereRequest asks the machine to encrypt or decrypt a message. Direct
// falls back to the server default when omitted.
type VigenereRequest struct {
	Message string `json:"message"`
	Key     string `json:"key"`
	Direct  *bool  `json:"direct,omitempty"`
}

// CipherOperationRequest represents a request to execute a cipher operation
type CipherOperationRequest struct {
	Operation string                 `json:"operation"`
	Input     string                 `json:"input"`
	Config    map[string]interface{} `json:"config,omitempty"`
}

// CipherPipelineRequest represents a request to execute a pipeline of operations
type CipherPipelineRequest struct {
	Input      string                   `json:"input"`
	Operations []cipher.OperationConfig `json:"operations"`
}

// OutputResponse carries the result of any transform.
type OutputResponse struct {
	Output string `json:"output"`
}

// OperationInfo describes a registered operation.
type OperationInfo struct {
	Name        string `json:"name"`
	Type        string `json:"type"`
	Description string `json:"description"`
	Reversible  bool   `json:"reversible"`
}

// statusFor maps an operation failure onto an HTTP status.
func statusFor(ctx context.Context, err error) int {
	switch {
	case errors.Is(ctx.Err(), context.Canceled):
		return http.StatusRequestTimeout
	case errors.Is(ctx.Err(), context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.Is(err, vigenere.ErrInvalidArgument), errors.Is(err, cipher.ErrUnknownOperation):
		return http.StatusBadRequest
	case errors.Is(err, cipher.ErrRecipeNotFound):
		return http.StatusNotFound
	default:
		return http.StatusUnprocessableEntity
	}
}

func (s *Server) handleVigenere(w http.ResponseWriter, r *http.Request) {
	action := mux.Vars(r)["action"]

	var req VigenereRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid json")
		return
	}

	direct := s.cfg.Direct
	if req.Direct != nil {
		direct = *req.Direct
	}
	machine := vigenere.New(direct)

	var (
		out       string
		err       error
		eventType logging.EventType
	)
	if action == "encrypt" {
		eventType = logging.EventEncrypt
		out, err = machine.Encrypt(req.Message, req.Key)
	} else {
		eventType = logging.EventDecrypt
		out, err = machine.Decrypt(req.Message, req.Key)
	}

	event := logging.AuditEvent{
		EventType: eventType,
		Decision:  logging.DecisionAllow,
		Metadata: map[string]any{
			"direct":     direct,
			"length":     len(req.Message),
			"key_length": len(req.Key),
		},
	}
	if err != nil {
		event.EventType = logging.EventRejected
		event.Decision = logging.DecisionDeny
		event.Reason = cipher.FailureReason(err)
		event.Metadata["action"] = action
	}
	_ = s.audit(r).Emit(event)

	if err != nil {
		s.writeError(w, statusFor(r.Context(), err), err.Error())
		return
	}
	s.writeJSON(w, http.StatusOK, OutputResponse{Output: out})
}

func (s *Server) handleListOperations(w http.ResponseWriter, r *http.Request) {
	ops := cipher.ListOperations()
	infos := make([]OperationInfo, 0, len(ops))
	for _, op := range ops {
		_, reversible := op.Reverse()
		infos = append(infos, OperationInfo{
			Name:        op.Name(),
			Type:        string(op.Type()),
			Description: op.Description(),
			Reversible:  reversible,
		})
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"operations": infos})
}

func (s *Server) handleCipherExecute(w http.ResponseWriter, r *http.Request) {
	var req CipherOperationRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if req.Operation == "" {
		s.writeError(w, http.StatusBadRequest, "operation field is required")
		return
	}

	if _, exists := cipher.GetOperation(req.Operation); !exists {
		s.writeError(w, http.StatusBadRequest, "unknown operation: "+req.Operation)
		return
	}

	pipeline := &cipher.Pipeline{Operations: []cipher.OperationConfig{
		{Name: req.Operation, Parameters: req.Config},
	}}
	s.runPipeline(w, r, pipeline, "", []byte(req.Input))
}

func (s *Server) handleCipherPipeline(w http.ResponseWriter, r *http.Request) {
	var req CipherPipelineRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if len(req.Operations) == 0 {
		s.writeError(w, http.StatusBadRequest, "operations field is required and must not be empty")
		return
	}

	pipeline := &cipher.Pipeline{Operations: req.Operations}
	s.runPipeline(w, r, pipeline, "", []byte(req.Input))
}

func (s *Server) runPipeline(w http.ResponseWriter, r *http.Request, pipeline *cipher.Pipeline, recipe string, input []byte) {
	ctx := r.Context()
	result, err := pipeline.Execute(ctx, input)

	names := make([]string, len(pipeline.Operations))
	for i, op := range pipeline.Operations {
		names[i] = op.Name
	}
	event := logging.AuditEvent{
		EventType: logging.EventPipelineRun,
		Decision:  logging.DecisionAllow,
		Metadata:  map[string]any{"operations": names, "length": len(input)},
	}
	if recipe != "" {
		event.Metadata["recipe"] = recipe
	}
	if err != nil {
		event.Decision = logging.DecisionDeny
		event.Reason = cipher.FailureReason(err)
	}
	_ = s.audit(r).Emit(event)

	if err != nil {
		s.writeError(w, statusFor(ctx, err), err.Error())
		return
	}
	s.writeJSON(w, http.StatusOK, OutputResponse{Output: string(result)})
}
