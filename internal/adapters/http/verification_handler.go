package http

import (
	"errors"
	"net/http"

	"portal/internal/adapters/http/request"
	"portal/internal/adapters/http/response"
	"portal/internal/core/verification"
	"portal/internal/domain"

	"github.com/google/uuid"
)

const defaultDialogTitle = "Change status to needs verification"

type VerificationHandler struct {
	dialogs *verification.Registry

	decoder request.RequestDecoder
	writer  response.ResponseWriter
}

func NewVerificationHandler(
	dialogs *verification.Registry,
	d request.RequestDecoder,
	w response.ResponseWriter,
) *VerificationHandler {
	return &VerificationHandler{
		dialogs: dialogs,
		decoder: d,
		writer:  w,
	}
}

type dialogOpenRequest struct {
	Title                 string `json:"title"`
	Note                  string `json:"note"`
	PreserveConfirmations string `json:"preserveConfirmations"`
}

type dialogUpdateRequest struct {
	Note                  *string `json:"note"`
	PreserveConfirmations *string `json:"preserveConfirmations"`
}

type dialogView struct {
	ID                    uuid.UUID                 `json:"id"`
	Title                 string                    `json:"title"`
	Note                  string                    `json:"note"`
	NoteProvided          bool                      `json:"noteProvided"`
	PreserveConfirmations domain.ConfirmationChoice `json:"preserveConfirmations"`
}

type dialogResult struct {
	Cancelled bool                         `json:"cancelled"`
	Decision  *domain.VerificationDecision `json:"decision,omitempty"`
}

func viewOf(id uuid.UUID, d *verification.Dialog) dialogView {
	cur := d.Current()
	return dialogView{
		ID:                    id,
		Title:                 d.Title(),
		Note:                  cur.Note,
		NoteProvided:          d.NoteProvided(),
		PreserveConfirmations: cur.PreserveConfirmations,
	}
}

func (h *VerificationHandler) Open(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	var req dialogOpenRequest
	if err := h.decoder.Decode(r, &req); err != nil {
		h.writer.Write(w, http.StatusBadRequest, &response.Response{
			Message: err.Error(),
		})
		return
	}

	choice, err := domain.ParseConfirmationChoice(req.PreserveConfirmations)
	if err != nil {
		h.writer.WriteValidationError(w, map[string]string{
			"preserveConfirmations": err.Error(),
		})
		return
	}

	title := req.Title
	if title == "" {
		title = defaultDialogTitle
	}

	id, d, err := h.dialogs.Open(title, domain.VerificationDecision{
		Note:                  req.Note,
		PreserveConfirmations: choice,
	})
	if err != nil {
		h.writer.Write(w, http.StatusInternalServerError, &response.Response{
			Message: "failed to open dialog",
		})
		return
	}

	h.writer.Write(w, http.StatusCreated, &response.Response{
		Data: viewOf(id, d),
	})
}

func (h *VerificationHandler) Update(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	id, ok := h.dialogID(w, r)
	if !ok {
		return
	}

	var req dialogUpdateRequest
	if err := h.decoder.Decode(r, &req); err != nil {
		h.writer.Write(w, http.StatusBadRequest, &response.Response{
			Message: err.Error(),
		})
		return
	}

	d, err := h.dialogs.Get(id)
	if err != nil {
		h.writeDialogError(w, err)
		return
	}

	if req.PreserveConfirmations != nil {
		if err := d.SelectChoice(*req.PreserveConfirmations); err != nil {
			if errors.Is(err, domain.ErrUnreachableChoice) {
				h.writer.WriteValidationError(w, map[string]string{
					"preserveConfirmations": err.Error(),
				})
				return
			}
			h.writeDialogError(w, err)
			return
		}
	}

	if req.Note != nil {
		if err := d.SetNote(*req.Note); err != nil {
			h.writeDialogError(w, err)
			return
		}
	}

	h.writer.Write(w, http.StatusOK, &response.Response{
		Data: viewOf(id, d),
	})
}

func (h *VerificationHandler) Confirm(w http.ResponseWriter, r *http.Request) {
	id, ok := h.dialogID(w, r)
	if !ok {
		return
	}

	res, err := h.dialogs.Confirm(id)
	if err != nil {
		h.writeDialogError(w, err)
		return
	}

	h.writer.Write(w, http.StatusOK, &response.Response{
		Data: dialogResult{Decision: &res.Decision},
	})
}

func (h *VerificationHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	id, ok := h.dialogID(w, r)
	if !ok {
		return
	}

	if _, err := h.dialogs.Cancel(id); err != nil {
		h.writeDialogError(w, err)
		return
	}

	h.writer.Write(w, http.StatusOK, &response.Response{
		Data: dialogResult{Cancelled: true},
	})
}

func (h *VerificationHandler) dialogID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		h.writer.Write(w, http.StatusBadRequest, &response.Response{
			Message: "invalid dialog id",
		})
		return uuid.Nil, false
	}
	return id, true
}

func (h *VerificationHandler) writeDialogError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrDialogNotFound):
		h.writer.Write(w, http.StatusNotFound, &response.Response{
			Message: "dialog not found",
		})
	case errors.Is(err, domain.ErrDialogClosed):
		h.writer.Write(w, http.StatusConflict, &response.Response{
			Message: "dialog is not open",
		})
	default:
		h.writer.Write(w, http.StatusInternalServerError, &response.Response{
			Message: "dialog operation failed",
		})
	}
}
