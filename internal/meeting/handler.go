package meeting

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"gocoach/internal/common"
	"gocoach/internal/dbmysql"
)

type MeetingListResponse struct {
	Meetings   []*dbmysql.Meeting `json:"meetings"`
	Pagination common.Pagination  `json:"pagination"`
}

type completeRequest struct {
	Notes *string `json:"notes"`
}

type Handler struct {
	svc          BookingService
	defaultLimit int
	maxLimit     int
	log          *slog.Logger
}

func NewHandler(svc BookingService, defaultLimit, maxLimit int, log *slog.Logger) *Handler {
	return &Handler{svc: svc, defaultLimit: defaultLimit, maxLimit: maxLimit, log: log}
}

// RegisterRoutes mounts the meeting endpoints on an authenticated router.
func (h *Handler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/meetings", h.Create).Methods(http.MethodPost)
	r.HandleFunc("/meetings", h.List).Methods(http.MethodGet)
	r.HandleFunc("/meetings/mine", h.ListMine).Methods(http.MethodGet)
	r.HandleFunc("/meetings/{id:[0-9]+}", h.Get).Methods(http.MethodGet)
	r.HandleFunc("/meetings/{id:[0-9]+}", h.Update).Methods(http.MethodPut)
	r.HandleFunc("/meetings/{id:[0-9]+}", h.Delete).Methods(http.MethodDelete)
	r.HandleFunc("/meetings/{id:[0-9]+}/cancel", h.Cancel).Methods(http.MethodPatch, http.MethodPost)
	r.HandleFunc("/meetings/{id:[0-9]+}/complete", h.Complete).Methods(http.MethodPatch, http.MethodPost)
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	actor, ok := common.PrincipalFrom(r.Context())
	if !ok {
		common.WriteError(w, common.ErrUnauthenticated)
		return
	}
	var in CreateMeetingInput
	if err := common.DecodeJSON(r, &in); err != nil {
		common.WriteError(w, err)
		return
	}
	m, err := h.svc.Create(r.Context(), actor, in)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	common.WriteJSON(w, http.StatusCreated, m)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	actor, id, ok := h.target(w, r)
	if !ok {
		return
	}
	var patch MeetingPatch
	if err := common.DecodeJSON(r, &patch); err != nil {
		common.WriteError(w, err)
		return
	}
	m, err := h.svc.Update(r.Context(), actor, id, patch)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	common.WriteJSON(w, http.StatusOK, m)
}

func (h *Handler) Cancel(w http.ResponseWriter, r *http.Request) {
	actor, id, ok := h.target(w, r)
	if !ok {
		return
	}
	m, err := h.svc.Cancel(r.Context(), actor, id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	common.WriteJSON(w, http.StatusOK, m)
}

func (h *Handler) Complete(w http.ResponseWriter, r *http.Request) {
	actor, id, ok := h.target(w, r)
	if !ok {
		return
	}
	var body completeRequest
	if err := common.DecodeOptionalJSON(r, &body); err != nil {
		common.WriteError(w, err)
		return
	}
	m, err := h.svc.Complete(r.Context(), actor, id, body.Notes)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	common.WriteJSON(w, http.StatusOK, m)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	actor, id, ok := h.target(w, r)
	if !ok {
		return
	}
	if err := h.svc.Delete(r.Context(), actor, id); err != nil {
		h.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	actor, id, ok := h.target(w, r)
	if !ok {
		return
	}
	m, err := h.svc.Get(r.Context(), actor, id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	common.WriteJSON(w, http.StatusOK, m)
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	actor, ok := common.PrincipalFrom(r.Context())
	if !ok {
		common.WriteError(w, common.ErrUnauthenticated)
		return
	}
	page, limit, err := common.PageParams(r, h.defaultLimit, h.maxLimit)
	if err != nil {
		common.WriteError(w, err)
		return
	}
	coachID, err := common.OptionalUint(r, "coach_id")
	if err != nil {
		common.WriteError(w, err)
		return
	}
	playerID, err := common.OptionalUint(r, "player_id")
	if err != nil {
		common.WriteError(w, err)
		return
	}

	filter := ListFilter{
		Status:   common.MeetingStatus(r.URL.Query().Get("status")),
		CoachID:  coachID,
		PlayerID: playerID,
		Page:     page,
		Limit:    limit,
	}
	meetings, total, err := h.svc.List(r.Context(), actor, filter)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	common.WriteJSON(w, http.StatusOK, MeetingListResponse{
		Meetings:   nonNil(meetings),
		Pagination: common.NewPagination(page, limit, total),
	})
}

func (h *Handler) ListMine(w http.ResponseWriter, r *http.Request) {
	actor, ok := common.PrincipalFrom(r.Context())
	if !ok {
		common.WriteError(w, common.ErrUnauthenticated)
		return
	}
	page, limit, err := common.PageParams(r, h.defaultLimit, h.maxLimit)
	if err != nil {
		common.WriteError(w, err)
		return
	}
	upcoming := false
	if raw := r.URL.Query().Get("upcoming"); raw != "" {
		upcoming, err = strconv.ParseBool(raw)
		if err != nil {
			common.WriteError(w, common.ErrInvalidInput)
			return
		}
	}

	status := common.MeetingStatus(r.URL.Query().Get("status"))
	meetings, total, err := h.svc.ListMine(r.Context(), actor, status, upcoming, page, limit)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	common.WriteJSON(w, http.StatusOK, MeetingListResponse{
		Meetings:   nonNil(meetings),
		Pagination: common.NewPagination(page, limit, total),
	})
}

func (h *Handler) target(w http.ResponseWriter, r *http.Request) (common.Principal, uint64, bool) {
	actor, ok := common.PrincipalFrom(r.Context())
	if !ok {
		common.WriteError(w, common.ErrUnauthenticated)
		return common.Principal{}, 0, false
	}
	id, err := common.PathID(r, "id")
	if err != nil {
		common.WriteError(w, err)
		return common.Principal{}, 0, false
	}
	return actor, id, true
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	if common.HTTPStatus(err) == http.StatusInternalServerError {
		h.log.ErrorContext(r.Context(), "meeting request failed", "path", r.URL.Path, "error", err)
	}
	common.WriteError(w, err)
}

func nonNil(meetings []*dbmysql.Meeting) []*dbmysql.Meeting {
	if meetings == nil {
		return []*dbmysql.Meeting{}
	}
	return meetings
}
