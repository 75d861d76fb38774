package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ferreirogomes/landledger/metrics"
	"github.com/ferreirogomes/landledger/services"
)

// WishlistHandler expõe a wishlist de visitantes e usuários.
type WishlistHandler struct {
	Service *services.WishlistService
	Metrics *metrics.Metrics
}

func NewWishlistHandler(s *services.WishlistService, m *metrics.Metrics) *WishlistHandler {
	return &WishlistHandler{Service: s, Metrics: m}
}

func owner(r *http.Request) services.Owner {
	if p, ok := PrincipalFrom(r.Context()); ok {
		return services.Owner{UserID: p.User().ID}
	}
	return services.Owner{GuestID: r.Header.Get(GuestIDHeader)}
}

func ownerLabel(o services.Owner) string {
	if o.Authenticated() {
		return "user"
	}
	return "guest"
}

func (h *WishlistHandler) respond(w http.ResponseWriter, op string, o services.Owner, st services.WishlistState, err error) {
	h.Metrics.RecordWishlistOp(op, ownerLabel(o))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

// List devolve a wishlist.
// GET /wishlist
func (h *WishlistHandler) List(w http.ResponseWriter, r *http.Request) {
	o := owner(r)
	st, err := h.Service.Load(r.Context(), o)
	h.respond(w, "load", o, st, err)
}

// Contains informa se o imóvel está na wishlist.
// GET /wishlist/{propertyID}
func (h *WishlistHandler) Contains(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "propertyID")
	ok, err := h.Service.Contains(r.Context(), owner(r), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"property_id": id, "in_wishlist": ok})
}

// Add inclui um imóvel.
// POST /wishlist/{propertyID}
func (h *WishlistHandler) Add(w http.ResponseWriter, r *http.Request) {
	o := owner(r)
	st, err := h.Service.Add(r.Context(), o, chi.URLParam(r, "propertyID"))
	h.respond(w, "add", o, st, err)
}

// Remove retira um imóvel.
// DELETE /wishlist/{propertyID}
func (h *WishlistHandler) Remove(w http.ResponseWriter, r *http.Request) {
	o := owner(r)
	st, err := h.Service.Remove(r.Context(), o, chi.URLParam(r, "propertyID"))
	h.respond(w, "remove", o, st, err)
}

// Clear esvazia a wishlist.
// DELETE /wishlist
func (h *WishlistHandler) Clear(w http.ResponseWriter, r *http.Request) {
	o := owner(r)
	st, err := h.Service.Clear(r.Context(), o)
	h.respond(w, "clear", o, st, err)
}

// Sync mescla a wishlist do visitante (X-Guest-ID) na do usuário logado.
// POST /wishlist/sync
func (h *WishlistHandler) Sync(w http.ResponseWriter, r *http.Request) {
	p, _ := PrincipalFrom(r.Context())
	o := services.Owner{UserID: p.User().ID}
	st, err := h.Service.SyncGuest(r.Context(), o.UserID, r.Header.Get(GuestIDHeader))
	h.respond(w, "sync", o, st, err)
}
