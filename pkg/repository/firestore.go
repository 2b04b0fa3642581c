package repository

import (
	"context"

	"cloud.google.com/go/firestore"
	"github.com/ecoloop/ecoloop/pkg/domain/interfaces"
	"github.com/ecoloop/ecoloop/pkg/domain/model"
	"github.com/ecoloop/ecoloop/pkg/domain/types"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const (
	// Collection names
	usersCollection      = "users"
	sessionsCollection   = "sessions"
	challengesCollection = "challenges"
	devicesCollection    = "devices"
	contactsCollection   = "contact_messages"

	// Field names, matching the firestore struct tags
	fieldEmail  = "email"
	fieldUserID = "user_id"

	// Firestore caps the number of writes in one transaction
	maxWritesPerTransaction = 500
)

// Firestore implements Repository interface with Firestore
type Firestore struct {
	client *firestore.Client
}

var _ interfaces.Repository = (*Firestore)(nil)

// NewFirestore creates a new Firestore repository
func NewFirestore(ctx context.Context, projectID, databaseID string) (*Firestore, error) {
	logger := ctxlog.From(ctx)

	client, err := firestore.NewClientWithDatabase(ctx, projectID, databaseID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create firestore client")
	}

	// Fail fast on a wrong project or missing permissions
	_, err = client.Collection(usersCollection).Limit(1).Documents(ctx).Next()
	if err != nil && err != iterator.Done {
		if status.Code(err) == codes.PermissionDenied || status.Code(err) == codes.Unauthenticated {
			_ = client.Close()
			return nil, goerr.Wrap(err, "failed to connect to firestore project",
				goerr.V("firestore error code", status.Code(err).String()),
			)
		}
		logger.Debug("Firestore connection test returned error (may be empty collection)",
			"error", err,
			"errorCode", status.Code(err).String(),
		)
	}

	logger.Info("Firestore repository initialized successfully",
		"projectID", projectID,
		"databaseID", databaseID,
	)

	return &Firestore{
		client: client,
	}, nil
}

// SaveUser saves a user to Firestore
func (f *Firestore) SaveUser(ctx context.Context, user *model.User) error {
	if user == nil {
		return goerr.New("user is nil")
	}
	if user.ID == "" {
		return goerr.New("user ID is empty")
	}

	_, err := f.client.Collection(usersCollection).Doc(user.ID.String()).Set(ctx, user)
	if err != nil {
		return goerr.Wrap(err, "failed to save user to firestore", goerr.V("user_id", user.ID))
	}
	return nil
}

// GetUser retrieves a user by ID
func (f *Firestore) GetUser(ctx context.Context, id types.UserID) (*model.User, error) {
	if id == "" {
		return nil, goerr.New("user ID is empty")
	}

	var user model.User
	if err := f.getDoc(ctx, usersCollection, id.String(), &user, model.ErrUserNotFound); err != nil {
		return nil, err
	}
	return &user, nil
}

// GetUserByEmail retrieves a user by normalized email address
func (f *Firestore) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	email = model.NormalizeEmail(email)
	if email == "" {
		return nil, goerr.New("email is empty")
	}

	iter := f.client.Collection(usersCollection).
		Where(fieldEmail, "==", email).
		Limit(1).
		Documents(ctx)
	defer iter.Stop()

	doc, err := iter.Next()
	if err == iterator.Done {
		return nil, goerr.Wrap(model.ErrUserNotFound, "no user with email", goerr.V("email", email))
	}
	if err != nil {
		return nil, goerr.Wrap(err, "failed to query user by email")
	}

	var user model.User
	if err := doc.DataTo(&user); err != nil {
		return nil, goerr.Wrap(err, "failed to decode user")
	}
	return &user, nil
}

// SaveSession saves a session to Firestore
func (f *Firestore) SaveSession(ctx context.Context, session *model.Session) error {
	if session == nil {
		return goerr.New("session is nil")
	}
	if session.ID == "" {
		return goerr.New("session ID is empty")
	}

	_, err := f.client.Collection(sessionsCollection).Doc(session.ID.String()).Set(ctx, session)
	if err != nil {
		return goerr.Wrap(err, "failed to save session to firestore")
	}
	return nil
}

// GetSession retrieves a session by ID
func (f *Firestore) GetSession(ctx context.Context, id types.SessionID) (*model.Session, error) {
	if id == "" {
		return nil, goerr.New("session ID is empty")
	}

	var session model.Session
	if err := f.getDoc(ctx, sessionsCollection, id.String(), &session, model.ErrSessionNotFound); err != nil {
		return nil, err
	}
	return &session, nil
}

// DeleteSession deletes a session from Firestore
func (f *Firestore) DeleteSession(ctx context.Context, id types.SessionID) error {
	if id == "" {
		return goerr.New("session ID is empty")
	}

	if _, err := f.client.Collection(sessionsCollection).Doc(id.String()).Delete(ctx); err != nil {
		return goerr.Wrap(err, "failed to delete session", goerr.V("session_id", id))
	}
	return nil
}

// SaveChallenge saves a two-factor challenge
func (f *Firestore) SaveChallenge(ctx context.Context, challenge *model.TwoFactorChallenge) error {
	if challenge == nil {
		return goerr.New("challenge is nil")
	}
	if challenge.ID == "" {
		return goerr.New("challenge ID is empty")
	}

	_, err := f.client.Collection(challengesCollection).Doc(challenge.ID.String()).Set(ctx, challenge)
	if err != nil {
		return goerr.Wrap(err, "failed to save challenge to firestore")
	}
	return nil
}

// GetChallenge retrieves a two-factor challenge by ID
func (f *Firestore) GetChallenge(ctx context.Context, id types.ChallengeID) (*model.TwoFactorChallenge, error) {
	if id == "" {
		return nil, goerr.New("challenge ID is empty")
	}

	var challenge model.TwoFactorChallenge
	if err := f.getDoc(ctx, challengesCollection, id.String(), &challenge, model.ErrChallengeNotFound); err != nil {
		return nil, err
	}
	return &challenge, nil
}

// DeleteChallenge deletes a two-factor challenge
func (f *Firestore) DeleteChallenge(ctx context.Context, id types.ChallengeID) error {
	if id == "" {
		return goerr.New("challenge ID is empty")
	}

	if _, err := f.client.Collection(challengesCollection).Doc(id.String()).Delete(ctx); err != nil {
		return goerr.Wrap(err, "failed to delete challenge", goerr.V("challenge_id", id))
	}
	return nil
}

// SaveDevices writes a batch of devices in one transaction so a submission is
// stored completely or not at all.
func (f *Firestore) SaveDevices(ctx context.Context, devices []*model.Device) error {
	if len(devices) > maxWritesPerTransaction {
		return goerr.New("too many devices in one batch",
			goerr.V("count", len(devices)),
			goerr.V("max", maxWritesPerTransaction))
	}
	for i, d := range devices {
		if err := checkDevice(d); err != nil {
			return goerr.Wrap(err, "invalid device in batch", goerr.V("index", i))
		}
	}
	if len(devices) == 0 {
		return nil
	}

	col := f.client.Collection(devicesCollection)
	err := f.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		for _, d := range devices {
			if err := tx.Set(col.Doc(d.ID.String()), d); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return goerr.Wrap(err, "failed to save devices to firestore", goerr.V("count", len(devices)))
	}
	return nil
}

// ListDevicesByUser lists the devices donated by userID
func (f *Firestore) ListDevicesByUser(ctx context.Context, userID types.UserID) ([]*model.Device, error) {
	if userID == "" {
		return nil, goerr.New("user ID is empty")
	}

	// Sorted in memory to avoid requiring a composite index
	query := f.client.Collection(devicesCollection).Where(fieldUserID, "==", userID.String())
	devices, err := f.queryDevices(ctx, query)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list devices", goerr.V("user_id", userID))
	}
	return devices, nil
}

// ListAllDevices lists every donated device
func (f *Firestore) ListAllDevices(ctx context.Context) ([]*model.Device, error) {
	devices, err := f.queryDevices(ctx, f.client.Collection(devicesCollection).Query)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list all devices")
	}
	return devices, nil
}

// SaveContactMessage stores a contact form submission
func (f *Firestore) SaveContactMessage(ctx context.Context, msg *model.ContactMessage) error {
	if msg == nil {
		return goerr.New("contact message is nil")
	}
	if msg.ID == "" {
		return goerr.New("contact message ID is empty")
	}

	_, err := f.client.Collection(contactsCollection).Doc(msg.ID.String()).Set(ctx, msg)
	if err != nil {
		return goerr.Wrap(err, "failed to save contact message to firestore")
	}
	return nil
}

// Close closes the Firestore client
func (f *Firestore) Close() error {
	return f.client.Close()
}

// getDoc loads one document into dst, wrapping notFound when it is missing.
func (f *Firestore) getDoc(ctx context.Context, collection, id string, dst any, notFound error) error {
	doc, err := f.client.Collection(collection).Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return goerr.Wrap(notFound, "document not found",
				goerr.V("collection", collection),
				goerr.V("id", id))
		}
		return goerr.Wrap(err, "failed to get document from firestore",
			goerr.V("collection", collection),
			goerr.V("id", id))
	}

	if err := doc.DataTo(dst); err != nil {
		return goerr.Wrap(err, "failed to decode document",
			goerr.V("collection", collection),
			goerr.V("id", id))
	}
	return nil
}

func (f *Firestore) queryDevices(ctx context.Context, query firestore.Query) ([]*model.Device, error) {
	iter := query.Documents(ctx)
	defer iter.Stop()

	var devices []*model.Device
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate devices")
		}

		var device model.Device
		if err := doc.DataTo(&device); err != nil {
			return nil, goerr.Wrap(err, "failed to decode device", goerr.V("doc_id", doc.Ref.ID))
		}
		devices = append(devices, &device)
	}

	sortDevices(devices)
	return devices, nil
}
