package actions

import (
	"context"
	"encoding/json"
	"fmt"
	"mime"
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/jsamongk12147998-oss/foodhub-sub000/api/middleware"
	"github.com/jsamongk12147998-oss/foodhub-sub000/api/responses"
	"github.com/jsamongk12147998-oss/foodhub-sub000/api/validators"
	"github.com/jsamongk12147998-oss/foodhub-sub000/pkg/enums"
	pkgerrors "github.com/jsamongk12147998-oss/foodhub-sub000/pkg/errors"
	"github.com/jsamongk12147998-oss/foodhub-sub000/pkg/logger"
)

const maxBodyBytes = 64 << 10

// Params are the raw inputs of an action request, form or JSON alike.
type Params map[string]string

// String returns the trimmed value of key.
func (p Params) String(key string) string {
	return strings.TrimSpace(p[key])
}

// ID returns key as a positive identifier.
func (p Params) ID(key string) (int64, error) {
	return validators.ParseID(p[key], key)
}

// Int returns key as an integer, or def when absent.
func (p Params) Int(key string, def int) (int, error) {
	return validators.ParseInt(p[key], key, def)
}

// Request is a decoded action call on behalf of an authenticated user.
type Request struct {
	Action enums.Action
	UserID uuid.UUID
	Params Params
}

// Result is the successful outcome of an action.
type Result struct {
	Message string
	Data    any
}

// HandlerFunc executes one action.
type HandlerFunc func(ctx context.Context, req Request) (Result, error)

// Registry maps every action to its handler.
type Registry map[enums.Action]HandlerFunc

// Dispatcher serves POST /api/v1/actions.
type Dispatcher struct {
	handlers Registry
	logg     *logger.Logger
}

// NewDispatcher validates the registry against the closed action set. A
// missing or unknown entry is a wiring bug and panics at startup.
func NewDispatcher(handlers Registry, logg *logger.Logger) *Dispatcher {
	for _, action := range enums.Actions() {
		if handlers[action] == nil {
			panic(fmt.Sprintf("actions: no handler registered for %q", action))
		}
	}
	for action := range handlers {
		if !action.IsValid() {
			panic(fmt.Sprintf("actions: handler registered for unknown action %q", action))
		}
	}
	return &Dispatcher{handlers: handlers, logg: logg}
}

func (d *Dispatcher) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID, ok := middleware.UserIDFromContext(ctx)
	if !ok {
		responses.WriteError(ctx, d.logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required"))
		return
	}

	params, err := decodeParams(w, r)
	if err != nil {
		responses.WriteError(ctx, d.logg, w, err)
		return
	}

	action, err := enums.ParseAction(params.String("action"))
	if err != nil {
		responses.WriteError(ctx, d.logg, w, pkgerrors.New(pkgerrors.CodeValidation, "Invalid action"))
		return
	}
	if d.logg != nil {
		ctx = d.logg.WithField(ctx, "action", action.String())
	}

	result, err := d.handlers[action](ctx, Request{Action: action, UserID: userID, Params: params})
	if err != nil {
		responses.WriteError(ctx, d.logg, w, err)
		return
	}
	if d.logg != nil && action.Mutates() {
		d.logg.Info(ctx, "action.applied")
	}
	responses.WriteSuccess(w, result.Message, result.Data)
}

// decodeParams accepts a JSON object or a form-encoded body.
func decodeParams(w http.ResponseWriter, r *http.Request) (Params, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))

	if mediaType == "application/json" {
		var body map[string]any
		decoder := json.NewDecoder(r.Body)
		decoder.UseNumber()
		if err := decoder.Decode(&body); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid request body")
		}
		params := make(Params, len(body))
		for key, value := range body {
			params[key] = stringify(value)
		}
		return params, nil
	}

	if err := r.ParseForm(); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid request body")
	}
	params := make(Params, len(r.PostForm))
	for key := range r.PostForm {
		params[key] = r.PostForm.Get(key)
	}
	return params, nil
}

func stringify(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case json.Number:
		return v.String()
	case bool:
		return strconv.FormatBool(v)
	default:
		return fmt.Sprint(v)
	}
}
