package usecase

import (
	"context"
	"errors"
	"slices"
	"time"

	"github.com/ecoloop/ecoloop/pkg/domain/interfaces"
	"github.com/ecoloop/ecoloop/pkg/domain/model"
	"github.com/ecoloop/ecoloop/pkg/domain/types"
	"github.com/ecoloop/ecoloop/pkg/impact"
	mailsvc "github.com/ecoloop/ecoloop/pkg/service/mail"
	"github.com/ecoloop/ecoloop/pkg/service/ocr"
	"github.com/ecoloop/ecoloop/pkg/timeline"
	"github.com/ecoloop/ecoloop/pkg/utils/async"
	"github.com/ecoloop/ecoloop/pkg/utils/metrics"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"golang.org/x/sync/errgroup"
)

const (
	// MaxDevicesPerSubmission bounds one donation form
	MaxDevicesPerSubmission = 100

	defaultOCRConcurrency = 4
)

// Dispatcher runs follow-up work after a request has been answered
type Dispatcher func(ctx context.Context, handler func(ctx context.Context) error)

// Donation implements DonationUseCase
type Donation struct {
	repo       interfaces.Repository
	calculator *impact.Calculator
	mailer     interfaces.Mailer
	serials    interfaces.SerialExtractor
	notifier   interfaces.Notifier
	metrics    *metrics.Registry

	dispatch       Dispatcher
	ocrConcurrency int
	now            func() time.Time
}

// DonationOption configures Donation
type DonationOption func(*Donation)

// WithCalculator replaces the built-in impact tables
func WithCalculator(c *impact.Calculator) DonationOption {
	return func(d *Donation) {
		d.calculator = c
	}
}

// WithSerialExtractor enables reading serial numbers from photos
func WithSerialExtractor(e interfaces.SerialExtractor) DonationOption {
	return func(d *Donation) {
		d.serials = e
	}
}

// WithDonationNotifier announces donations in chat
func WithDonationNotifier(n interfaces.Notifier) DonationOption {
	return func(d *Donation) {
		d.notifier = n
	}
}

// WithDonationMetrics records persisted devices
func WithDonationMetrics(reg *metrics.Registry) DonationOption {
	return func(d *Donation) {
		d.metrics = reg
	}
}

// WithDispatcher replaces async.Dispatch for receipts and notifications
func WithDispatcher(fn Dispatcher) DonationOption {
	return func(d *Donation) {
		d.dispatch = fn
	}
}

// WithOCRConcurrency bounds how many photos are read at once
func WithOCRConcurrency(n int) DonationOption {
	return func(d *Donation) {
		if n > 0 {
			d.ocrConcurrency = n
		}
	}
}

// WithDonationClock replaces time.Now for donation timestamps and series
func WithDonationClock(now func() time.Time) DonationOption {
	return func(d *Donation) {
		d.now = now
	}
}

// NewDonation creates a new Donation use case
func NewDonation(repo interfaces.Repository, mailer interfaces.Mailer, opts ...DonationOption) *Donation {
	d := &Donation{
		repo:           repo,
		calculator:     impact.Default(),
		mailer:         mailer,
		dispatch:       async.Dispatch,
		ocrConcurrency: defaultOCRConcurrency,
		now:            time.Now,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Submit validates the rows, fills missing serial numbers from photos,
// computes impact and persists every device as one batch. The receipt email
// and the chat notice are sent in the background.
func (d *Donation) Submit(ctx context.Context, userID types.UserID, rows []model.DeviceSubmission) ([]*model.Device, error) {
	logger := ctxlog.From(ctx)

	if userID == "" {
		return nil, goerr.Wrap(model.ErrInvalidSession, "user ID is required")
	}
	if len(rows) == 0 {
		return nil, goerr.New("no devices submitted", goerr.T(model.ErrTagValidation))
	}
	if len(rows) > MaxDevicesPerSubmission {
		return nil, goerr.New("too many devices in one submission",
			goerr.V("count", len(rows)),
			goerr.V("max", MaxDevicesPerSubmission),
			goerr.T(model.ErrTagValidation))
	}

	normalized := make([]model.DeviceSubmission, len(rows))
	weights := make([]float64, len(rows))
	for i, row := range rows {
		row = row.Normalize()
		w, err := row.Validate()
		if err != nil {
			return nil, goerr.Wrap(err, "invalid device row", goerr.V("row", i))
		}
		if _, ok := d.calculator.Classify(row.DeviceType); !ok {
			logger.Warn("Unknown device type, impact will be zero",
				"row", i,
				"deviceType", row.DeviceType,
			)
		}
		normalized[i] = row
		weights[i] = w
	}

	if err := d.resolveSerials(ctx, normalized); err != nil {
		return nil, err
	}

	donatedAt := d.now()
	devices := make([]*model.Device, len(normalized))
	for i, row := range normalized {
		est := d.calculator.Estimate(weights[i], row.DeviceType)
		devices[i] = &model.Device{
			ID:           types.NewDeviceID(),
			UserID:       userID,
			DeviceType:   row.DeviceType,
			Manufacturer: row.Manufacturer,
			Model:        row.Model,
			Condition:    row.Condition,
			Weight:       weights[i],
			SerialNumber: row.SerialNumber,
			Category:     est.Category,
			Composition:  est.Composition,
			CO2Emissions: est.CO2Emissions,
			DonatedAt:    donatedAt,
		}
	}

	if err := d.repo.SaveDevices(ctx, devices); err != nil {
		return nil, goerr.Wrap(err, "failed to save devices", goerr.V("userID", userID))
	}
	d.metrics.ObserveDonation(devices)

	summary := model.Summarize(devices)
	logger.Info("Devices donated",
		"userID", userID,
		"count", summary.Count,
		"weight", summary.Weight,
		"co2", summary.CO2Emissions,
	)

	receipt := slices.Clone(devices)
	d.dispatch(ctx, func(ctx context.Context) error {
		return d.acknowledge(ctx, userID, receipt, donatedAt)
	})

	return devices, nil
}

// resolveSerials reads serial numbers from photos for rows that carry an
// image but no typed serial. Photos are read concurrently.
func (d *Donation) resolveSerials(ctx context.Context, rows []model.DeviceSubmission) error {
	var pending []int
	for i, row := range rows {
		if row.SerialNumber == "" && len(row.Image) > 0 {
			pending = append(pending, i)
		}
	}
	if len(pending) == 0 {
		return nil
	}
	if d.serials == nil {
		return goerr.Wrap(model.ErrOCRUnavailable, "row carries a photo but no serial number",
			goerr.V("row", pending[0]))
	}

	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(d.ocrConcurrency)
	for _, i := range pending {
		eg.Go(func() error {
			serial, err := d.serials.ExtractSerial(ctx, rows[i].Image)
			if errors.Is(err, ocr.ErrSerialNotFound) {
				return goerr.Wrap(err, "no serial number on photo",
					goerr.V("row", i),
					goerr.T(model.ErrTagValidation))
			}
			if err != nil {
				return goerr.Wrap(err, "failed to read serial number", goerr.V("row", i))
			}
			rows[i].SerialNumber = serial
			return nil
		})
	}
	return eg.Wait()
}

// acknowledge emails the receipt and posts the chat notice
func (d *Donation) acknowledge(ctx context.Context, userID types.UserID, devices []*model.Device, at time.Time) error {
	user, err := d.repo.GetUser(ctx, userID)
	if err != nil {
		return goerr.Wrap(err, "failed to get donor", goerr.V("userID", userID))
	}

	var errs []error
	email, err := mailsvc.ReceiptEmail(user, devices, at)
	if err == nil {
		err = d.mailer.Send(ctx, email)
	}
	if err != nil {
		errs = append(errs, goerr.Wrap(err, "failed to send receipt", goerr.V("userID", userID)))
	}

	if d.notifier != nil {
		if err := d.notifier.NotifyDonation(ctx, user, model.Summarize(devices)); err != nil {
			errs = append(errs, goerr.Wrap(err, "failed to post donation notice", goerr.V("userID", userID)))
		}
	}

	return errors.Join(errs...)
}

// ListDevices returns the donor's devices, oldest first
func (d *Donation) ListDevices(ctx context.Context, userID types.UserID) ([]*model.Device, error) {
	devices, err := d.repo.ListDevicesByUser(ctx, userID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list devices", goerr.V("userID", userID))
	}
	return devices, nil
}

// ListAllDevices returns every donated device, newest first
func (d *Donation) ListAllDevices(ctx context.Context) ([]*model.Device, error) {
	devices, err := d.repo.ListAllDevices(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list all devices")
	}
	slices.Reverse(devices)
	return devices, nil
}

// Impact charts the donor's cumulative impact for window and totals every
// donation so far.
func (d *Donation) Impact(ctx context.Context, userID types.UserID, window timeline.Window) (*model.ImpactReport, error) {
	devices, err := d.repo.ListDevicesByUser(ctx, userID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list devices", goerr.V("userID", userID))
	}

	now := d.now()
	series, err := timeline.Aggregate(window, model.Records(devices), now)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to aggregate impact",
			goerr.V("window", window),
			goerr.T(model.ErrTagValidation))
	}

	totals := model.Summarize(devices)
	return &model.ImpactReport{
		Window:        window,
		Label:         timeline.Label(window, now),
		Series:        series,
		Totals:        totals,
		Equivalencies: impact.Equivalent(totals.CO2Emissions),
	}, nil
}

// ExtractSerial reads a serial number from a photo of a device label
func (d *Donation) ExtractSerial(ctx context.Context, image []byte) (string, error) {
	if d.serials == nil {
		return "", goerr.Wrap(model.ErrOCRUnavailable, "serial extraction requested")
	}
	serial, err := d.serials.ExtractSerial(ctx, image)
	if err != nil {
		return "", goerr.Wrap(err, "failed to extract serial number")
	}
	return serial, nil
}

// DeviceTypes lists the selectable device types
func (d *Donation) DeviceTypes() []impact.DeviceType {
	return d.calculator.DeviceTypes()
}
