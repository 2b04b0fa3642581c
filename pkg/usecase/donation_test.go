package usecase_test

import (
	"context"
	"errors"
	"math"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ecoloop/ecoloop/pkg/domain/interfaces/mocks"
	"github.com/ecoloop/ecoloop/pkg/domain/model"
	"github.com/ecoloop/ecoloop/pkg/domain/types"
	"github.com/ecoloop/ecoloop/pkg/impact"
	"github.com/ecoloop/ecoloop/pkg/repository"
	"github.com/ecoloop/ecoloop/pkg/service/ocr"
	"github.com/ecoloop/ecoloop/pkg/timeline"
	"github.com/ecoloop/ecoloop/pkg/usecase"
	"github.com/ecoloop/ecoloop/pkg/utils/apperr"
	"github.com/ecoloop/ecoloop/pkg/utils/metrics"
	"github.com/m-mizutani/gt"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

// syncDispatcher runs background work inline and keeps its errors
type syncDispatcher struct {
	mu   sync.Mutex
	errs []error
}

func (d *syncDispatcher) Dispatch(ctx context.Context, handler func(ctx context.Context) error) {
	err := handler(ctx)
	d.mu.Lock()
	defer d.mu.Unlock()
	d.errs = append(d.errs, err)
}

func (d *syncDispatcher) Errors() []error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]error(nil), d.errs...)
}

type donationFixture struct {
	donation   *usecase.Donation
	repo       *repository.Memory
	mailer     *mocks.MailerMock
	notifier   *mocks.NotifierMock
	dispatcher *syncDispatcher
	clock      *fakeClock
	metrics    *metrics.Registry
	donor      *model.User
}

func newDonationFixture(t *testing.T, opts ...usecase.DonationOption) *donationFixture {
	t.Helper()
	f := &donationFixture{
		repo:   repository.NewMemory(),
		mailer: recordingMailer(),
		notifier: &mocks.NotifierMock{
			NotifyDonationFunc: func(ctx context.Context, donor *model.User, summary model.DonationSummary) error {
				return nil
			},
		},
		dispatcher: &syncDispatcher{},
		clock:      newFakeClock(),
		metrics:    metrics.NewRegistry(),
	}

	f.donor = model.NewUser("donor@example.com", "Dana", "hash", types.RoleDonor)
	gt.NoError(t, f.repo.SaveUser(context.Background(), f.donor)).Required()

	opts = append([]usecase.DonationOption{
		usecase.WithDispatcher(f.dispatcher.Dispatch),
		usecase.WithDonationClock(f.clock.Now),
		usecase.WithDonationNotifier(f.notifier),
		usecase.WithDonationMetrics(f.metrics),
	}, opts...)
	f.donation = usecase.NewDonation(f.repo, f.mailer, opts...)
	return f
}

func laptopRow() model.DeviceSubmission {
	return model.DeviceSubmission{
		DeviceType:   "Laptop",
		Manufacturer: "Lenovo",
		Model:        "T480",
		Condition:    "Working",
		Weight:       "20",
		SerialNumber: "PF1ABCDE",
	}
}

func TestDonationSubmit(t *testing.T) {
	ctx := testContext()
	f := newDonationFixture(t)

	monitor := model.DeviceSubmission{
		DeviceType:   "Modern Monitor",
		Manufacturer: " Dell ",
		Model:        "P2419H",
		Condition:    "Cracked",
		Weight:       "10 lb",
	}
	devices, err := f.donation.Submit(ctx, f.donor.ID, []model.DeviceSubmission{laptopRow(), monitor})
	gt.NoError(t, err).Required()
	gt.Equal(t, 2, len(devices))

	laptop := devices[0]
	gt.Equal(t, f.donor.ID, laptop.UserID)
	gt.Equal(t, impact.CategoryPortableDevices, laptop.Category)
	gt.Equal(t, 20.0, laptop.Weight)
	gt.Equal(t, impact.ComputeComposition(20, "Laptop"), laptop.Composition)
	gt.Equal(t, impact.ComputeCO2Emissions(20, "Laptop"), laptop.CO2Emissions)
	gt.Equal(t, f.clock.Now(), laptop.DonatedAt)
	gt.Equal(t, "Dell", devices[1].Manufacturer)
	gt.Equal(t, impact.CategoryFlatPanelDisplays, devices[1].Category)

	stored, err := f.repo.ListDevicesByUser(ctx, f.donor.ID)
	gt.NoError(t, err).Required()
	gt.Equal(t, 2, len(stored))

	t.Run("receipt and notice are dispatched", func(t *testing.T) {
		for _, err := range f.dispatcher.Errors() {
			gt.NoError(t, err)
		}
		calls := f.mailer.SendCalls()
		gt.Equal(t, 1, len(calls))
		gt.Equal(t, "donor@example.com", calls[0].Email.To)
		gt.True(t, strings.Contains(calls[0].Email.Body, "T480"))

		notices := f.notifier.NotifyDonationCalls()
		gt.Equal(t, 1, len(notices))
		gt.Equal(t, 2, notices[0].Summary.Count)
		gt.Equal(t, f.donor.ID, notices[0].Donor.ID)
	})

	t.Run("metrics count persisted devices", func(t *testing.T) {
		gt.Equal(t, 1.0, testutil.ToFloat64(f.metrics.DevicesSubmitted.WithLabelValues("portable-devices")))
		gt.Equal(t, 30.0, testutil.ToFloat64(f.metrics.WeightDiverted))
	})
}

func TestDonationSubmitUnknownDeviceType(t *testing.T) {
	ctx := testContext()
	f := newDonationFixture(t)

	row := laptopRow()
	row.DeviceType = "Toaster"
	devices, err := f.donation.Submit(ctx, f.donor.ID, []model.DeviceSubmission{row})
	gt.NoError(t, err).Required()
	gt.Equal(t, impact.CategoryUnknown, devices[0].Category)
	gt.Equal(t, impact.Composition{}, devices[0].Composition)
	gt.Equal(t, 0.0, devices[0].CO2Emissions)
}

func TestDonationSubmitValidation(t *testing.T) {
	ctx := testContext()
	f := newDonationFixture(t)

	badWeight := laptopRow()
	badWeight.Weight = "NaN"
	missingModel := laptopRow()
	missingModel.Model = ""

	tooMany := make([]model.DeviceSubmission, usecase.MaxDevicesPerSubmission+1)
	for i := range tooMany {
		tooMany[i] = laptopRow()
	}

	cases := map[string][]model.DeviceSubmission{
		"empty batch":   nil,
		"bad weight":    {laptopRow(), badWeight},
		"missing model": {missingModel},
		"too many rows": tooMany,
	}
	for name, rows := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := f.donation.Submit(ctx, f.donor.ID, rows)
			gt.Error(t, err)
			gt.Equal(t, 400, apperr.StatusCode(err))
		})
	}

	stored, err := f.repo.ListDevicesByUser(ctx, f.donor.ID)
	gt.NoError(t, err).Required()
	gt.Equal(t, 0, len(stored))
	gt.Equal(t, 0, len(f.mailer.SendCalls()))
}

func TestDonationSubmitReadsSerialFromPhoto(t *testing.T) {
	ctx := testContext()

	var inFlight, peak int32
	extractor := &mocks.SerialExtractorMock{
		ExtractSerialFunc: func(ctx context.Context, image []byte) (string, error) {
			n := atomic.AddInt32(&inFlight, 1)
			defer atomic.AddInt32(&inFlight, -1)
			for {
				p := atomic.LoadInt32(&peak)
				if n <= p || atomic.CompareAndSwapInt32(&peak, p, n) {
					break
				}
			}
			time.Sleep(5 * time.Millisecond)
			return "SN-" + string(image), nil
		},
	}
	f := newDonationFixture(t,
		usecase.WithSerialExtractor(extractor),
		usecase.WithOCRConcurrency(2),
	)

	rows := make([]model.DeviceSubmission, 6)
	for i := range rows {
		rows[i] = laptopRow()
		rows[i].SerialNumber = ""
		rows[i].Image = []byte{byte('A' + i)}
	}
	rows[5].SerialNumber = "TYPED123"

	devices, err := f.donation.Submit(ctx, f.donor.ID, rows)
	gt.NoError(t, err).Required()
	gt.Equal(t, 5, len(extractor.ExtractSerialCalls()))
	gt.True(t, atomic.LoadInt32(&peak) <= 2)
	for i := 0; i < 5; i++ {
		gt.Equal(t, "SN-"+string(rune('A'+i)), devices[i].SerialNumber)
	}
	gt.Equal(t, "TYPED123", devices[5].SerialNumber)
}

func TestDonationSubmitPhotoFailures(t *testing.T) {
	ctx := testContext()

	row := laptopRow()
	row.SerialNumber = ""
	row.Image = []byte("photo")

	t.Run("OCR not configured", func(t *testing.T) {
		f := newDonationFixture(t)
		_, err := f.donation.Submit(ctx, f.donor.ID, []model.DeviceSubmission{row})
		gt.True(t, errors.Is(err, model.ErrOCRUnavailable))
		gt.Equal(t, 503, apperr.StatusCode(err))
	})

	t.Run("no serial on photo", func(t *testing.T) {
		f := newDonationFixture(t, usecase.WithSerialExtractor(&mocks.SerialExtractorMock{
			ExtractSerialFunc: func(ctx context.Context, image []byte) (string, error) {
				return "", ocr.ErrSerialNotFound
			},
		}))
		_, err := f.donation.Submit(ctx, f.donor.ID, []model.DeviceSubmission{row})
		gt.True(t, errors.Is(err, ocr.ErrSerialNotFound))
		gt.Equal(t, 400, apperr.StatusCode(err))

		stored, err := f.repo.ListDevicesByUser(ctx, f.donor.ID)
		gt.NoError(t, err).Required()
		gt.Equal(t, 0, len(stored))
	})
}

func TestDonationListAllDevicesNewestFirst(t *testing.T) {
	ctx := testContext()
	f := newDonationFixture(t)

	for i := 0; i < 3; i++ {
		row := laptopRow()
		row.Model = string(rune('A' + i))
		_, err := f.donation.Submit(ctx, f.donor.ID, []model.DeviceSubmission{row})
		gt.NoError(t, err).Required()
		f.clock.Advance(time.Hour)
	}

	own, err := f.donation.ListDevices(ctx, f.donor.ID)
	gt.NoError(t, err).Required()
	gt.Equal(t, "A", own[0].Model)

	all, err := f.donation.ListAllDevices(ctx)
	gt.NoError(t, err).Required()
	gt.Equal(t, 3, len(all))
	gt.Equal(t, "C", all[0].Model)
	gt.Equal(t, "A", all[2].Model)
}

func TestDonationImpact(t *testing.T) {
	ctx := testContext()
	f := newDonationFixture(t)

	_, err := f.donation.Submit(ctx, f.donor.ID, []model.DeviceSubmission{laptopRow()})
	gt.NoError(t, err).Required()

	t.Run("quarter window", func(t *testing.T) {
		report, err := f.donation.Impact(ctx, f.donor.ID, timeline.WindowQuarter)
		gt.NoError(t, err).Required()
		gt.Equal(t, timeline.WindowQuarter, report.Window)
		gt.Equal(t, "2026 by quarter", report.Label)
		gt.Equal(t, 5, len(report.Series))

		q1 := report.Series[1]
		gt.Equal(t, "Q1", q1.Label)
		comp := impact.ComputeComposition(20, "Laptop")
		gt.True(t, math.Abs(*q1.Metals-comp.Metals()) < 1e-9)
		gt.True(t, report.Series[2].IsAbsent())

		gt.Equal(t, 1, report.Totals.Count)
		gt.Equal(t, 20.0, report.Totals.Weight)
		gt.Equal(t, impact.Equivalent(report.Totals.CO2Emissions), report.Equivalencies)
		gt.False(t, report.Equivalencies.IsEmpty())
	})

	t.Run("unknown window", func(t *testing.T) {
		_, err := f.donation.Impact(ctx, f.donor.ID, timeline.Window("Decade"))
		gt.Error(t, err)
		gt.Equal(t, 400, apperr.StatusCode(err))
	})

	t.Run("donor without devices", func(t *testing.T) {
		report, err := f.donation.Impact(ctx, types.NewUserID(), timeline.WindowAllTime)
		gt.NoError(t, err).Required()
		gt.Equal(t, 0, len(report.Series))
		gt.True(t, report.Equivalencies.IsEmpty())
	})
}

func TestDonationExtractSerial(t *testing.T) {
	ctx := testContext()

	t.Run("not configured", func(t *testing.T) {
		f := newDonationFixture(t)
		_, err := f.donation.ExtractSerial(ctx, []byte("photo"))
		gt.Equal(t, 503, apperr.StatusCode(err))
	})

	t.Run("delegates to extractor", func(t *testing.T) {
		f := newDonationFixture(t, usecase.WithSerialExtractor(&mocks.SerialExtractorMock{
			ExtractSerialFunc: func(ctx context.Context, image []byte) (string, error) {
				return "C02XK1ABJG5H", nil
			},
		}))
		serial, err := f.donation.ExtractSerial(ctx, []byte("photo"))
		gt.NoError(t, err).Required()
		gt.Equal(t, "C02XK1ABJG5H", serial)
	})
}

func TestDonationDeviceTypes(t *testing.T) {
	f := newDonationFixture(t)
	found := false
	for _, dt := range f.donation.DeviceTypes() {
		if dt.Name == "Laptop" {
			found = true
			gt.Equal(t, impact.CategoryPortableDevices, dt.Category)
		}
	}
	gt.True(t, found)
}
