package web

import (
	"context"
	"net/http"

	"github.com/JonMunkholm/AttrExtract/internal/core"
)

type ctxKey int

const legacyKey ctxKey = iota

// legacyReplies marks requests on the original routes, which answer with
// Portuguese field names.
func legacyReplies(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), legacyKey, true)))
	})
}

func isLegacy(r *http.Request) bool {
	v, _ := r.Context().Value(legacyKey).(bool)
	return v
}

// StartJobReply is returned when a job has been accepted.
type StartJobReply struct {
	JobID   string `json:"job_id"`
	Message string `json:"message"`
}

func (StartJobReply) Render(w http.ResponseWriter, r *http.Request) error {
	return nil
}

// LegacyStartJobReply is StartJobReply on the legacy routes.
type LegacyStartJobReply struct {
	Mensagem string `json:"mensagem"`
	JobID    string `json:"job_id"`
}

func (LegacyStartJobReply) Render(w http.ResponseWriter, r *http.Request) error {
	return nil
}

// ProgressReply reports the current or last job.
type ProgressReply struct {
	JobID      string `json:"job_id,omitempty"`
	State      string `json:"state"`
	Progress   int    `json:"progress"`
	Running    bool   `json:"running"`
	Rows       int    `json:"rows,omitempty"`
	Attributes int    `json:"attributes,omitempty"`
	Kind       string `json:"kind,omitempty"`
	Error      string `json:"error,omitempty"`
	Action     string `json:"action,omitempty"`
	Code       string `json:"code,omitempty"`
}

func (ProgressReply) Render(w http.ResponseWriter, r *http.Request) error {
	return nil
}

func newProgressReply(st core.Status) ProgressReply {
	reply := ProgressReply{
		JobID:      st.JobID,
		State:      string(st.State),
		Progress:   st.Progress,
		Running:    st.Running(),
		Rows:       st.Rows,
		Attributes: st.Attributes,
	}
	if st.Failure != nil {
		msg := st.Failure.UserMessage()
		reply.Kind = string(st.Failure.Kind)
		reply.Error = msg.Message
		reply.Action = msg.Action
		reply.Code = msg.Code
	}
	return reply
}

// LegacyProgressReply is ProgressReply on the legacy routes.
type LegacyProgressReply struct {
	Progresso   int    `json:"progresso"`
	Processando bool   `json:"processando"`
	Erro        string `json:"erro,omitempty"`
}

func (LegacyProgressReply) Render(w http.ResponseWriter, r *http.Request) error {
	return nil
}

func newLegacyProgressReply(st core.Status) LegacyProgressReply {
	reply := LegacyProgressReply{
		Progresso:   st.Progress,
		Processando: st.Running(),
	}
	if st.Failure != nil {
		reply.Erro = st.Failure.UserMessage().Message
	}
	return reply
}
