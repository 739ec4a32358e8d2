package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dcastellanos/hearthhide-backend/api/middleware"
	"github.com/dcastellanos/hearthhide-backend/api/responses"
	"github.com/dcastellanos/hearthhide-backend/api/validators"
	cartsvc "github.com/dcastellanos/hearthhide-backend/internal/cart"
	pkgerrors "github.com/dcastellanos/hearthhide-backend/pkg/errors"
	"github.com/dcastellanos/hearthhide-backend/pkg/logger"
	"github.com/dcastellanos/hearthhide-backend/pkg/outbox"
)

// The cart endpoints speak the storefront's original wire protocol: bare JSON
// documents, no success envelope, 404 as the only "no cart" signal. Changing
// any of this breaks deployed clients.

func actorFromContext(r *http.Request) outbox.ActorRef {
	actor := outbox.ActorRef{Role: middleware.RoleFromContext(r.Context())}
	if id, err := validators.ParseUUID(middleware.UserIDFromContext(r.Context()), "userId"); err == nil {
		actor.UserID = id
	}
	return actor
}

func writeCartError(w http.ResponseWriter, r *http.Request, logg *logger.Logger, err error) {
	if typed := pkgerrors.As(err); typed != nil && typed.Code() == pkgerrors.CodeNotFound {
		responses.WriteLegacy(w, http.StatusNotFound, map[string]string{"message": "cart not found"})
		return
	}
	responses.WriteError(r.Context(), logg, w, err)
}

func CartFind(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		userID, err := validators.ParseUUID(chi.URLParam(r, "userId"), "userId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		cart, err := svc.FindCart(r.Context(), userID)
		if err != nil {
			writeCartError(w, r, logg, err)
			return
		}
		responses.WriteLegacy(w, http.StatusOK, map[string]*cartsvc.CartDTO{"cart": cart})
	}
}

func CartAdd(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		var body cartsvc.AddToCartDTO
		if err := validators.DecodeLegacyJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		cart, err := svc.AddToCart(r.Context(), actorFromContext(r), body)
		if err != nil {
			writeCartError(w, r, logg, err)
			return
		}
		responses.WriteLegacy(w, http.StatusCreated, cart)
	}
}

func CartUpdate(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		cartID, err := validators.ParseUUID(chi.URLParam(r, "cartId"), "cartId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body cartsvc.UpdateCartDTO
		if err := validators.DecodeLegacyJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		cart, err := svc.UpdateCart(r.Context(), actorFromContext(r), cartID, body)
		if err != nil {
			writeCartError(w, r, logg, err)
			return
		}
		responses.WriteLegacy(w, http.StatusOK, cart)
	}
}
