package store

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"time"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/db"
	"go.uber.org/zap"
	"google.golang.org/api/option"

	"carpool-backend-go/internal/config"
)

// NewFirebaseApp initializes the Firebase Admin SDK from application config.
// Credentials are resolved in order: explicit service-account file path,
// base64-encoded service-account JSON, then Application Default Credentials
// (the usual setup on GCP runtimes).
func NewFirebaseApp(ctx context.Context, appConfig *config.Config) (*firebase.App, error) {
	if appConfig == nil {
		return nil, fmt.Errorf("NewFirebaseApp: appConfig cannot be nil")
	}

	var credsOption option.ClientOption
	switch {
	case appConfig.GoogleApplicationCredentials != "":
		credsOption = option.WithCredentialsFile(appConfig.GoogleApplicationCredentials)
	case appConfig.FirebaseServiceAccountJSONBase64 != "":
		decoded, err := base64.StdEncoding.DecodeString(appConfig.FirebaseServiceAccountJSONBase64)
		if err != nil {
			return nil, fmt.Errorf("failed to decode FIREBASE_SERVICE_ACCOUNT_JSON_BASE64: %w", err)
		}
		credsOption = option.WithCredentialsJSON(decoded)
	}

	fbConfig := &firebase.Config{
		ProjectID:   appConfig.FirebaseProjectID,
		DatabaseURL: appConfig.FirebaseDatabaseURL,
	}

	var app *firebase.App
	var err error
	if credsOption != nil {
		app, err = firebase.NewApp(ctx, fbConfig, credsOption)
	} else {
		app, err = firebase.NewApp(ctx, fbConfig)
	}
	if err != nil {
		return nil, fmt.Errorf("firebase.NewApp: %w", err)
	}
	return app, nil
}

// FirebaseStore implements Store on the Firebase Realtime Database.
//
// The Admin SDK exposes no streaming listener, so Watch polls the path on a
// configurable interval and emits only when the serialized value changes.
// The in-process views this backend serves tolerate that latency; browser
// clients keep their own native listeners.
type FirebaseStore struct {
	client       *db.Client
	pollInterval time.Duration
	logger       *zap.Logger
}

// NewFirebaseStore builds a FirebaseStore from an initialized app.
func NewFirebaseStore(ctx context.Context, app *firebase.App, pollInterval time.Duration, logger *zap.Logger) (*FirebaseStore, error) {
	client, err := app.Database(ctx)
	if err != nil {
		return nil, fmt.Errorf("app.Database: %w", err)
	}
	if pollInterval <= 0 {
		pollInterval = time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FirebaseStore{client: client, pollInterval: pollInterval, logger: logger}, nil
}

var _ Store = (*FirebaseStore)(nil)

// Get implements Store. The database reports absence as a JSON null, which is
// translated to ErrNotFound rather than a zero value.
func (f *FirebaseStore) Get(ctx context.Context, path string, dest interface{}) error {
	raw, err := f.getRaw(ctx, path)
	if err != nil {
		return err
	}
	if raw == nil {
		return fmt.Errorf("get %q: %w", path, ErrNotFound)
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return fmt.Errorf("get %q: decode: %w", path, err)
	}
	return nil
}

// Set implements Store.
func (f *FirebaseStore) Set(ctx context.Context, path string, value interface{}) error {
	if value == nil {
		return f.Delete(ctx, path)
	}
	if err := f.client.NewRef(path).Set(ctx, value); err != nil {
		return fmt.Errorf("set %q: %w", path, err)
	}
	return nil
}

// Delete implements Store.
func (f *FirebaseStore) Delete(ctx context.Context, path string) error {
	if err := f.client.NewRef(path).Delete(ctx); err != nil {
		return fmt.Errorf("delete %q: %w", path, err)
	}
	return nil
}

// Push implements Store. The database generates the chronologically ordered
// child key.
func (f *FirebaseStore) Push(ctx context.Context, path string, value interface{}) (string, error) {
	ref, err := f.client.NewRef(path).Push(ctx, value)
	if err != nil {
		return "", fmt.Errorf("push %q: %w", path, err)
	}
	return ref.Key, nil
}

// Watch implements Store via polling.
func (f *FirebaseStore) Watch(ctx context.Context, path string) (*Subscription, error) {
	watchCtx, cancel := context.WithCancel(ctx)
	sub := newSubscription(cancel)

	go func() {
		defer close(sub.events)

		var last json.RawMessage
		var seeded bool

		emit := func() {
			raw, err := f.getRaw(watchCtx, path)
			if err != nil {
				if watchCtx.Err() == nil {
					f.logger.Warn("watch poll failed", zap.String("path", path), zap.Error(err))
				}
				return
			}
			if seeded && bytes.Equal(raw, last) {
				return
			}
			last = raw
			seeded = true
			ev := Event{Path: path, Value: raw, Exists: raw != nil}
			select {
			case sub.events <- ev:
			case <-watchCtx.Done():
			}
		}

		emit()
		ticker := time.NewTicker(f.pollInterval)
		defer ticker.Stop()
		for {
			select {
			case <-watchCtx.Done():
				return
			case <-ticker.C:
				emit()
			}
		}
	}()

	return sub, nil
}

// getRaw reads a path as raw JSON, mapping the database's null to a nil slice.
func (f *FirebaseStore) getRaw(ctx context.Context, path string) (json.RawMessage, error) {
	var raw json.RawMessage
	if err := f.client.NewRef(path).Get(ctx, &raw); err != nil {
		return nil, fmt.Errorf("get %q: %w", path, err)
	}
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil, nil
	}
	return raw, nil
}
