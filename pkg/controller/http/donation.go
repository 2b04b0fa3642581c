package http

import (
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/ecoloop/ecoloop/pkg/domain/model"
	"github.com/ecoloop/ecoloop/pkg/timeline"
	"github.com/ecoloop/ecoloop/pkg/usecase"
	"github.com/m-mizutani/goerr/v2"
)

// DonationHandler handles device submission and impact endpoints
type DonationHandler struct {
	donationUC    usecase.DonationUseCase
	maxUploadSize int64
}

// NewDonationHandler creates a new donation handler
func NewDonationHandler(donationUC usecase.DonationUseCase, maxUploadSize int64) *DonationHandler {
	return &DonationHandler{
		donationUC:    donationUC,
		maxUploadSize: maxUploadSize,
	}
}

type submitRequest struct {
	Devices []model.DeviceSubmission `json:"devices"`
}

type devicesResponse struct {
	Devices []*model.Device       `json:"devices"`
	Summary model.DonationSummary `json:"summary"`
}

func newDevicesResponse(devices []*model.Device) devicesResponse {
	if devices == nil {
		devices = []*model.Device{}
	}
	return devicesResponse{
		Devices: devices,
		Summary: model.Summarize(devices),
	}
}

// HandleSubmit accepts a donation form. A JSON body carries the rows only. A
// multipart body carries the rows as JSON in the "devices" field and an
// optional serial number photo per row in "image_<row>".
func (h *DonationHandler) HandleSubmit(w http.ResponseWriter, r *http.Request) {
	authCtx, ok := model.GetAuthContext(r.Context())
	if !ok {
		writeError(w, r, goerr.Wrap(model.ErrInvalidSession, "no authenticated caller"))
		return
	}

	var (
		rows []model.DeviceSubmission
		err  error
	)
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		rows, err = h.readMultipartSubmission(w, r)
	} else {
		var req submitRequest
		err = decodeJSON(w, r, &req)
		rows = req.Devices
	}
	if err != nil {
		writeError(w, r, err)
		return
	}

	devices, err := h.donationUC.Submit(r.Context(), authCtx.UserID, rows)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusCreated, newDevicesResponse(devices))
}

func (h *DonationHandler) readMultipartSubmission(w http.ResponseWriter, r *http.Request) ([]model.DeviceSubmission, error) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize)
	if err := r.ParseMultipartForm(h.maxUploadSize); err != nil {
		return nil, goerr.Wrap(err, "invalid multipart form", goerr.T(model.ErrTagValidation))
	}

	var req submitRequest
	if err := json.Unmarshal([]byte(r.FormValue("devices")), &req.Devices); err != nil {
		return nil, goerr.Wrap(err, "invalid devices field", goerr.T(model.ErrTagValidation))
	}

	for i := range req.Devices {
		image, err := readFormFile(r.MultipartForm, fmt.Sprintf("image_%d", i), h.maxUploadSize)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to read photo", goerr.V("row", i))
		}
		req.Devices[i].Image = image
	}
	return req.Devices, nil
}

// HandleListDevices lists the caller's devices, oldest first
func (h *DonationHandler) HandleListDevices(w http.ResponseWriter, r *http.Request) {
	authCtx, ok := model.GetAuthContext(r.Context())
	if !ok {
		writeError(w, r, goerr.Wrap(model.ErrInvalidSession, "no authenticated caller"))
		return
	}

	devices, err := h.donationUC.ListDevices(r.Context(), authCtx.UserID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, newDevicesResponse(devices))
}

// HandleAllDevices lists every donated device, newest first
func (h *DonationHandler) HandleAllDevices(w http.ResponseWriter, r *http.Request) {
	devices, err := h.donationUC.ListAllDevices(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, newDevicesResponse(devices))
}

// HandleImpact returns the caller's impact series for ?window=, Quarter by
// default.
func (h *DonationHandler) HandleImpact(w http.ResponseWriter, r *http.Request) {
	authCtx, ok := model.GetAuthContext(r.Context())
	if !ok {
		writeError(w, r, goerr.Wrap(model.ErrInvalidSession, "no authenticated caller"))
		return
	}

	window := timeline.WindowQuarter
	if v := r.URL.Query().Get("window"); v != "" {
		parsed, err := timeline.ParseWindow(v)
		if err != nil {
			writeError(w, r, goerr.Wrap(err, "invalid window", goerr.T(model.ErrTagValidation)))
			return
		}
		window = parsed
	}

	report, err := h.donationUC.Impact(r.Context(), authCtx.UserID, window)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, report)
}

// HandleSerial reads a serial number from the uploaded "image" photo
func (h *DonationHandler) HandleSerial(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize)
	if err := r.ParseMultipartForm(h.maxUploadSize); err != nil {
		writeError(w, r, goerr.Wrap(err, "invalid multipart form", goerr.T(model.ErrTagValidation)))
		return
	}

	image, err := readFormFile(r.MultipartForm, "image", h.maxUploadSize)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if image == nil {
		writeError(w, r, goerr.New("image is required", goerr.T(model.ErrTagValidation)))
		return
	}

	serial, err := h.donationUC.ExtractSerial(r.Context(), image)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, map[string]string{
		"serial_number": serial,
	})
}

// HandleDeviceTypes lists the selectable device types
func (h *DonationHandler) HandleDeviceTypes(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, map[string]any{
		"device_types": h.donationUC.DeviceTypes(),
	})
}

// readFormFile returns the content of the named file field, or nil if the
// field is absent.
func readFormFile(form *multipart.Form, field string, limit int64) ([]byte, error) {
	if form == nil || len(form.File[field]) == 0 {
		return nil, nil
	}

	f, err := form.File[field][0].Open()
	if err != nil {
		return nil, goerr.Wrap(err, "failed to open upload", goerr.V("field", field))
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, limit+1))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read upload", goerr.V("field", field))
	}
	if int64(len(data)) > limit {
		return nil, goerr.New("upload is too large",
			goerr.V("field", field),
			goerr.V("limit", limit),
			goerr.T(model.ErrTagValidation))
	}
	return data, nil
}
