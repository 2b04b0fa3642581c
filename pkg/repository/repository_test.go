package repository_test

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/ecoloop/ecoloop/pkg/domain/interfaces"
	"github.com/ecoloop/ecoloop/pkg/domain/model"
	"github.com/ecoloop/ecoloop/pkg/domain/types"
	"github.com/ecoloop/ecoloop/pkg/impact"
	"github.com/ecoloop/ecoloop/pkg/repository"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/gt"
)

func newDevice(userID types.UserID, deviceType string, weight float64, at time.Time) *model.Device {
	calc := impact.Default()
	category, _ := calc.Classify(deviceType)
	return &model.Device{
		ID:           types.NewDeviceID(),
		UserID:       userID,
		DeviceType:   deviceType,
		Manufacturer: "Acme",
		Model:        "X1",
		Condition:    "Working",
		Weight:       weight,
		SerialNumber: "SN123456",
		Category:     category,
		Composition:  calc.Composition(weight, deviceType),
		CO2Emissions: calc.CO2Emissions(weight, deviceType),
		DonatedAt:    at,
	}
}

func testRepository(t *testing.T, newRepo func(t *testing.T) interfaces.Repository) {
	t.Run("SaveUser and GetUser", func(t *testing.T) {
		repo := newRepo(t)
		defer repo.Close()

		ctx := context.Background()
		email := fmt.Sprintf("donor-%d@example.org", time.Now().UnixNano())
		user := model.NewUser(email, "Test Donor", "hash", types.RoleDonor)
		gt.NoError(t, repo.SaveUser(ctx, user)).Required()

		got, err := repo.GetUser(ctx, user.ID)
		gt.NoError(t, err).Required()
		gt.Equal(t, user.Email, got.Email)
		gt.Equal(t, user.Name, got.Name)
		gt.Equal(t, "hash", got.PasswordHash)
		gt.Equal(t, types.RoleDonor, got.Role)

		byEmail, err := repo.GetUserByEmail(ctx, " "+email+" ")
		gt.NoError(t, err).Required()
		gt.Equal(t, user.ID, byEmail.ID)
	})

	t.Run("GetUser not found", func(t *testing.T) {
		repo := newRepo(t)
		defer repo.Close()

		ctx := context.Background()
		_, err := repo.GetUser(ctx, types.NewUserID())
		gt.True(t, errors.Is(err, model.ErrUserNotFound))

		_, err = repo.GetUserByEmail(ctx, fmt.Sprintf("missing-%d@example.org", time.Now().UnixNano()))
		gt.True(t, errors.Is(err, model.ErrUserNotFound))
	})

	t.Run("stored user is not affected by later changes", func(t *testing.T) {
		repo := newRepo(t)
		defer repo.Close()

		ctx := context.Background()
		user := model.NewUser(fmt.Sprintf("copy-%d@example.org", time.Now().UnixNano()), "Before", "hash", types.RoleDonor)
		gt.NoError(t, repo.SaveUser(ctx, user)).Required()
		user.Name = "After"

		got, err := repo.GetUser(ctx, user.ID)
		gt.NoError(t, err).Required()
		gt.Equal(t, "Before", got.Name)
	})

	t.Run("session lifecycle", func(t *testing.T) {
		repo := newRepo(t)
		defer repo.Close()

		ctx := context.Background()
		session, err := model.NewSession(types.NewUserID(), time.Hour)
		gt.NoError(t, err).Required()
		gt.NoError(t, repo.SaveSession(ctx, session)).Required()

		got, err := repo.GetSession(ctx, session.ID)
		gt.NoError(t, err).Required()
		gt.Equal(t, session.Secret, got.Secret)
		gt.Equal(t, session.UserID, got.UserID)
		gt.True(t, session.ExpiresAt.Sub(got.ExpiresAt).Abs() < time.Second)

		gt.NoError(t, repo.DeleteSession(ctx, session.ID)).Required()
		_, err = repo.GetSession(ctx, session.ID)
		gt.True(t, errors.Is(err, model.ErrSessionNotFound))
	})

	t.Run("challenge lifecycle", func(t *testing.T) {
		repo := newRepo(t)
		defer repo.Close()

		ctx := context.Background()
		challenge, code, err := model.NewTwoFactorChallenge(types.NewUserID(), time.Now())
		gt.NoError(t, err).Required()
		gt.NoError(t, repo.SaveChallenge(ctx, challenge)).Required()

		got, err := repo.GetChallenge(ctx, challenge.ID)
		gt.NoError(t, err).Required()
		gt.True(t, got.Matches(code))
		gt.Equal(t, 0, got.Attempts)

		got.Attempts = 2
		gt.NoError(t, repo.SaveChallenge(ctx, got)).Required()
		again, err := repo.GetChallenge(ctx, challenge.ID)
		gt.NoError(t, err).Required()
		gt.Equal(t, 2, again.Attempts)

		gt.NoError(t, repo.DeleteChallenge(ctx, challenge.ID)).Required()
		_, err = repo.GetChallenge(ctx, challenge.ID)
		gt.True(t, errors.Is(err, model.ErrChallengeNotFound))
	})

	t.Run("devices are listed per user in donation order", func(t *testing.T) {
		repo := newRepo(t)
		defer repo.Close()

		ctx := context.Background()
		alice := types.NewUserID()
		bob := types.NewUserID()
		base := time.Now().Add(-time.Hour).Truncate(time.Millisecond)

		batch := []*model.Device{
			newDevice(alice, "Printer", 30, base.Add(2*time.Minute)),
			newDevice(alice, "Laptop", 20, base),
			newDevice(bob, "Mouse", 1, base.Add(time.Minute)),
		}
		gt.NoError(t, repo.SaveDevices(ctx, batch)).Required()

		devices, err := repo.ListDevicesByUser(ctx, alice)
		gt.NoError(t, err).Required()
		gt.Equal(t, 2, len(devices))
		gt.Equal(t, "Laptop", devices[0].DeviceType)
		gt.Equal(t, "Printer", devices[1].DeviceType)

		laptop := devices[0]
		gt.Equal(t, impact.CategoryPortableDevices, laptop.Category)
		gt.Equal(t, 20.0*27/100, laptop.Plastic)
		gt.Equal(t, impact.ComputeCO2Emissions(20, "Laptop"), laptop.CO2Emissions)
		gt.Equal(t, "SN123456", laptop.SerialNumber)

		devices, err = repo.ListDevicesByUser(ctx, bob)
		gt.NoError(t, err).Required()
		gt.Equal(t, 1, len(devices))
		gt.Equal(t, bob, devices[0].UserID)
	})

	t.Run("invalid device rejects the whole batch", func(t *testing.T) {
		repo := newRepo(t)
		defer repo.Close()

		ctx := context.Background()
		user := types.NewUserID()
		bad := newDevice(user, "Laptop", 1, time.Now())
		bad.ID = ""

		err := repo.SaveDevices(ctx, []*model.Device{newDevice(user, "Mouse", 1, time.Now()), bad})
		gt.Error(t, err)

		devices, err := repo.ListDevicesByUser(ctx, user)
		gt.NoError(t, err).Required()
		gt.Equal(t, 0, len(devices))
	})

	t.Run("SaveContactMessage", func(t *testing.T) {
		repo := newRepo(t)
		defer repo.Close()

		msg := &model.ContactMessage{
			ID:        types.NewContactMessageID(),
			Name:      "Visitor",
			Email:     "visitor@example.org",
			Subject:   "Pickup",
			Message:   "Do you collect CRT monitors?",
			CreatedAt: time.Now(),
		}
		gt.NoError(t, repo.SaveContactMessage(context.Background(), msg))
		gt.Error(t, repo.SaveContactMessage(context.Background(), &model.ContactMessage{}))
	})
}

func TestMemoryRepository(t *testing.T) {
	testRepository(t, func(t *testing.T) interfaces.Repository {
		return repository.NewMemory()
	})
}

func TestMemoryListAllDevices(t *testing.T) {
	repo := repository.NewMemory()
	ctx := context.Background()
	base := time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC)

	gt.NoError(t, repo.SaveDevices(ctx, []*model.Device{
		newDevice(types.NewUserID(), "CPU", 10, base.Add(time.Hour)),
		newDevice(types.NewUserID(), "Scanner", 5, base),
	})).Required()

	devices, err := repo.ListAllDevices(ctx)
	gt.NoError(t, err).Required()
	gt.Equal(t, 2, len(devices))
	gt.Equal(t, "Scanner", devices[0].DeviceType)
	gt.Equal(t, "CPU", devices[1].DeviceType)
}

func TestFirestoreRepository(t *testing.T) {
	projectID := os.Getenv("TEST_FIRESTORE_PROJECT")
	databaseID := os.Getenv("TEST_FIRESTORE_DATABASE")

	if projectID == "" || databaseID == "" {
		t.Skip("Skipping Firestore test: TEST_FIRESTORE_PROJECT and TEST_FIRESTORE_DATABASE must be set")
	}

	testRepository(t, func(t *testing.T) interfaces.Repository {
		ctx := context.Background()
		logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
		ctx = ctxlog.With(ctx, logger)

		repo, err := repository.NewFirestore(ctx, projectID, databaseID)
		gt.NoError(t, err).Required()
		return repo
	})
}
