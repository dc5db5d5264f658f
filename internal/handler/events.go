package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/tunicar/vehicle-alerts/internal/models"
	"github.com/tunicar/vehicle-alerts/internal/scanner"
	"github.com/tunicar/vehicle-alerts/internal/storage"
	"github.com/tunicar/vehicle-alerts/internal/util"
)

const maxEventBody = 1 << 20

// vehicleCreatedEvent is the JSON form of the trigger. Vehicle is optional;
// without it the listing is read back from Firestore.
type vehicleCreatedEvent struct {
	VehicleID string          `json:"vehicleId" validate:"required,excludesall=/"`
	Vehicle   *models.Listing `json:"vehicle,omitempty"`
}

// VehicleCreated handles a listing-creation event. Eventarc delivers Firestore
// events as binary-mode CloudEvents whose Ce-Subject names the document; a
// plain JSON body carrying vehicleId (and optionally the vehicle) is accepted
// too.
//
// Scan failures are acknowledged with 200 and success=false so the platform
// does not redeliver; only unreadable requests get a 4xx.
func (h *Handler) VehicleCreated(w http.ResponseWriter, r *http.Request) {
	defer recoverJSON(w)

	ev, err := h.decodeEvent(r)
	if err != nil {
		slog.Warn("Rejected vehicle event", "error", err)
		writeError(w, http.StatusBadRequest, err)
		return
	}

	ctx := r.Context()
	if h.scanTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.scanTimeout)
		defer cancel()
	}

	res, err := h.scan(ctx, ev)
	if err != nil {
		slog.Error("Alert scan failed", "vehicle", ev.VehicleID, "error", err)
		res = scanner.Result{Success: false, Error: err.Error()}
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *Handler) scan(ctx context.Context, ev vehicleCreatedEvent) (scanner.Result, error) {
	if ev.Vehicle != nil {
		return h.scanner.Scan(ctx, ev.VehicleID, *ev.Vehicle)
	}
	listing, err := h.store.GetListing(ctx, ev.VehicleID)
	if errors.Is(err, storage.ErrNotFound) {
		return scanner.Result{}, fmt.Errorf("vehicle %s not found", ev.VehicleID)
	}
	if err != nil {
		return scanner.Result{}, err
	}
	return h.scanner.Scan(ctx, ev.VehicleID, *listing)
}

func (h *Handler) decodeEvent(r *http.Request) (vehicleCreatedEvent, error) {
	if subject := r.Header.Get("Ce-Subject"); subject != "" {
		id, err := util.DocumentID(subject, storage.VehiclesCollection)
		if err != nil {
			return vehicleCreatedEvent{}, err
		}
		slog.Info("CloudEvent received", "type", r.Header.Get("Ce-Type"), "id", r.Header.Get("Ce-Id"), "subject", subject)
		return vehicleCreatedEvent{VehicleID: id}, nil
	}

	if ct := r.Header.Get("Content-Type"); ct != "" && !strings.HasPrefix(ct, "application/json") {
		return vehicleCreatedEvent{}, fmt.Errorf("unsupported content type %q", ct)
	}

	var ev vehicleCreatedEvent
	dec := json.NewDecoder(io.LimitReader(r.Body, maxEventBody))
	if err := dec.Decode(&ev); err != nil {
		return vehicleCreatedEvent{}, fmt.Errorf("invalid event body: %w", err)
	}
	if err := h.validator.ValidateStruct(ev); err != nil {
		return vehicleCreatedEvent{}, err
	}
	return ev, nil
}
