package rest

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/danielcfuentes/capstone-project-sub000/pkg/server"
	"github.com/danielcfuentes/capstone-project-sub000/pkg/server/rest/service"
	"github.com/danielcfuentes/capstone-project-sub000/pkg/util"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	enTranslations "github.com/go-playground/validator/v10/translations/en"
)

type RouteGenerationService interface {
	GenerateRouteWithStrategy(ctx context.Context, startLat, startLng, desiredMiles float64,
		strategy string, log util.LogFn) (service.GeneratedRoute, error)
}

type LoopRouteHandler struct {
	svc      RouteGenerationService
	metrics  *Metrics
	validate *validator.Validate
	trans    ut.Translator
}

func LoopRouteRouter(r *chi.Mux, svc RouteGenerationService, m *Metrics) {
	english := en.New()
	uni := ut.New(english, english)
	trans, found := uni.GetTranslator("en")
	if !found {
		log.Printf("loop route: english translator not found, validation messages stay untranslated")
	}
	validate := validator.New()
	if err := enTranslations.RegisterDefaultTranslations(validate, trans); err != nil {
		log.Printf("loop route: registering validation translations: %v", err)
	}

	handler := &LoopRouteHandler{svc: svc, metrics: m, validate: validate, trans: trans}

	r.Group(func(r chi.Router) {
		r.Route("/api/routes", func(r chi.Router) {
			r.Post("/loop", handler.GenerateLoopRoute)
		})
	})
}

// LoopRouteRequest model info
//
//	@Description	request body for a running loop that starts and ends at the given point
type LoopRouteRequest struct {
	Lat           float64 `json:"lat" validate:"gte=-90,lte=90"`
	Lng           float64 `json:"lng" validate:"gte=-180,lte=180"`
	DistanceMiles float64 `json:"distance_miles" validate:"required,gt=0,lte=100"`
	Strategy      string  `json:"strategy,omitempty" validate:"omitempty,oneof=greedy heuristic"`
}

func (s *LoopRouteRequest) Bind(r *http.Request) error {
	return nil
}

// LoopRouteResponse model info
//
//	@Description	generated loop, coordinates are [lng, lat] pairs
type LoopRouteResponse struct {
	Coordinates [][2]float64 `json:"coordinates"`
	Distance    float64      `json:"distance"`
	DistanceKm  float64      `json:"distance_km"`
	NodeCount   int          `json:"node_count"`
	Polyline    string       `json:"polyline"`
	Closed      bool         `json:"closed"`
	Terminal    string       `json:"terminal"`
}

func RenderLoopRouteResponse(route service.GeneratedRoute) *LoopRouteResponse {
	return &LoopRouteResponse{
		Coordinates: route.LngLats(),
		Distance:    util.RoundFloat(route.DistanceMiles, 3),
		DistanceKm:  util.RoundFloat(route.DistanceKm, 3),
		NodeCount:   route.NodeCount,
		Polyline:    route.Polyline,
		Closed:      route.Closed,
		Terminal:    route.Terminal.String(),
	}
}

// GenerateLoopRoute
//
//	@Summary		generate a running loop of about distance_miles starting and ending near lat, lng
//	@Description	fetches the surrounding openstreetmap road network, snaps the start to the nearest node and walks a loop close to the requested distance
//	@Tags			routes
//	@Param			body	body	LoopRouteRequest	true	"request body loop route"
//	@Accept			application/json
//	@Produce		application/json
//	@Router			/routes/loop [post]
//	@Success		200	{object}	LoopRouteResponse
//	@Failure		400	{object}	ErrResponse
//	@Failure		404	{object}	ErrResponse
//	@Failure		500	{object}	ErrResponse
//	@Failure		502	{object}	ErrResponse
func (h *LoopRouteHandler) GenerateLoopRoute(w http.ResponseWriter, r *http.Request) {
	data := &LoopRouteRequest{}
	if err := render.Bind(r, data); err != nil {
		render.Render(w, r, ErrInvalidRequest(err))
		return
	}
	if err := h.validate.Struct(*data); err != nil {
		vv := translateError(err, h.trans)
		render.Render(w, r, ErrValidation(err, vv))
		return
	}

	route, err := h.svc.GenerateRouteWithStrategy(r.Context(), data.Lat, data.Lng, data.DistanceMiles,
		data.Strategy, requestLogger(r))
	if err != nil {
		render.Render(w, r, ErrFromService(err))
		return
	}
	h.metrics.observeRoute(route.Terminal.String(), route.GraphNodes, data.DistanceMiles, route.DistanceMiles)

	render.Status(r, http.StatusOK)
	render.JSON(w, r, RenderLoopRouteResponse(route))
}

// requestLogger prefixes the service milestones with the chi request id.
func requestLogger(r *http.Request) util.LogFn {
	reqID := middleware.GetReqID(r.Context())
	if reqID == "" {
		return log.Printf
	}
	return func(format string, args ...any) {
		log.Printf("[%s] "+format, append([]any{reqID}, args...)...)
	}
}

// ErrResponse model info
//
//	@Description	model for error response
type ErrResponse struct {
	Err            error `json:"-"` // low-level runtime error
	HTTPStatusCode int   `json:"-"` // http response status code

	StatusText    string   `json:"status"`          // user-level status message
	AppCode       int64    `json:"code,omitempty"`  // application-specific error code
	ErrorText     string   `json:"error,omitempty"` // application-level error message, for debugging
	ErrValidation []string `json:"validation,omitempty"`
}

func (e *ErrResponse) Render(w http.ResponseWriter, r *http.Request) error {
	render.Status(r, e.HTTPStatusCode)
	return nil
}

func ErrInvalidRequest(err error) render.Renderer {
	return &ErrResponse{
		Err:            err,
		HTTPStatusCode: http.StatusBadRequest,
		StatusText:     "Invalid request.",
		ErrorText:      err.Error(),
	}
}

func translateError(err error, trans ut.Translator) (errs []error) {
	if err == nil {
		return nil
	}
	var validatorErrs validator.ValidationErrors
	if !errors.As(err, &validatorErrs) {
		return []error{err}
	}
	for _, e := range validatorErrs {
		errs = append(errs, fmt.Errorf("%s", e.Translate(trans)))
	}
	return errs
}

func ErrValidation(err error, errV []error) render.Renderer {
	vv := []string{}
	for _, v := range errV {
		vv = append(vv, v.Error())
	}
	return &ErrResponse{
		Err:            err,
		HTTPStatusCode: http.StatusBadRequest,
		StatusText:     "Invalid request.",
		ErrorText:      err.Error(),
		ErrValidation:  vv,
	}
}

// ErrFromService maps a service error to its http status, the client sees only the error message.
func ErrFromService(err error) render.Renderer {
	var srvErr *server.Error
	if !errors.As(err, &srvErr) {
		return ErrInternalServerErrorRend(errors.New("internal server error"))
	}

	status := http.StatusInternalServerError
	statusText := "Internal server error."
	switch srvErr.Code() {
	case server.ErrBadParamInput:
		status, statusText = http.StatusBadRequest, "Invalid request."
	case server.ErrNotFound:
		status, statusText = http.StatusNotFound, "Not found."
	case server.ErrBadGateway:
		status, statusText = http.StatusBadGateway, "Bad gateway."
	case server.ErrConflict:
		status, statusText = http.StatusConflict, "Conflict."
	}
	return &ErrResponse{
		Err:            err,
		HTTPStatusCode: status,
		StatusText:     statusText,
		AppCode:        int64(srvErr.Code()),
		ErrorText:      srvErr.Message(),
	}
}

func ErrInternalServerErrorRend(err error) render.Renderer {
	return &ErrResponse{
		Err:            err,
		HTTPStatusCode: http.StatusInternalServerError,
		StatusText:     "Internal server error.",
		ErrorText:      err.Error(),
	}
}
