// Package server exposes a resolver over HTTP following the DID Resolution
// HTTP(S) binding used by Universal Resolver drivers.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/pilacorp/go-did-resolver/did"
	"github.com/pilacorp/go-did-resolver/logging"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// ContentType is the media type of a DID Resolution Result.
const ContentType = `application/ld+json;profile="https://w3id.org/did-resolution"`

const shutdownTimeout = 5 * time.Second

// Dispatcher resolves DIDs of every supported method.
type Dispatcher interface {
	Resolve(ctx context.Context, did string) (*did.ResolutionResult, error)
	Methods() []string
}

type handler struct {
	dispatcher Dispatcher
	log        *logrus.Entry
}

// NewHandler returns the HTTP handler serving
//
//	GET /1.0/identifiers/{did}
//	GET /1.0/methods
func NewHandler(dispatcher Dispatcher) http.Handler {
	h := &handler{
		dispatcher: dispatcher,
		log:        logging.WithComponent("server"),
	}

	router := mux.NewRouter()
	router.Methods(http.MethodGet).Path("/1.0/identifiers/{did}").HandlerFunc(h.resolve)
	router.Methods(http.MethodGet).Path("/1.0/methods").HandlerFunc(h.methods)

	return handlers.RecoveryHandler(handlers.RecoveryLogger(h.log))(router)
}

func (h *handler) resolve(w http.ResponseWriter, r *http.Request) {
	didStr := mux.Vars(r)["did"]

	result, err := h.dispatcher.Resolve(r.Context(), didStr)
	if err != nil {
		h.logFailure(didStr, err)
		result = did.ErrorResult(did.ErrorInternal)
	}

	if err := did.ValidateResult(result); err != nil {
		h.log.WithError(err).WithField("did", didStr).Error("resolver produced a malformed result")
		result = did.ErrorResult(did.ErrorInternal)
	}

	h.write(w, StatusCode(result), result)
}

// logFailure logs unreachable or misbehaving chain nodes at warn level and
// anything else, which means a resolver bug, at error level.
func (h *handler) logFailure(didStr string, err error) {
	log := h.log.WithError(err).WithField("did", didStr)
	if did.IsAdapterError(err) {
		log.Warn("chain lookup failed")
		return
	}
	log.Error("resolution failed")
}

func (h *handler) methods(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(h.dispatcher.Methods()); err != nil {
		h.log.WithError(err).Warn("failed to write response")
	}
}

func (h *handler) write(w http.ResponseWriter, status int, result *did.ResolutionResult) {
	w.Header().Set("Content-Type", ContentType)
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(result); err != nil {
		h.log.WithError(err).Warn("failed to write response")
	}
}

// StatusCode maps a resolution result to its HTTP status.
func StatusCode(result *did.ResolutionResult) int {
	switch result.ResolutionMetadata.Error {
	case "":
	case did.ErrorInvalidDID:
		return http.StatusBadRequest
	case did.ErrorNotFound:
		return http.StatusNotFound
	case did.ErrorMethodNotSupported:
		return http.StatusNotImplemented
	default:
		return http.StatusInternalServerError
	}

	if result.DocumentMetadata.Deactivated {
		return http.StatusGone
	}

	return http.StatusOK
}

// Serve serves dispatcher on addr until ctx is done, then shuts down gracefully.
func Serve(ctx context.Context, addr string, dispatcher Dispatcher) error {
	log := logging.WithComponent("server")

	accessLog := log.WriterLevel(logrus.DebugLevel)
	defer accessLog.Close()

	srv := &http.Server{
		Addr:              addr,
		Handler:           handlers.CombinedLoggingHandler(accessLog, otelhttp.NewHandler(NewHandler(dispatcher), "did-resolution")),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.WithField("addr", addr).Info("listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}

	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}
