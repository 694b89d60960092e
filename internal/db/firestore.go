package db

import (
	"context"
	"encoding/base64"
	"fmt"

	"cloud.google.com/go/firestore"
	gcs "cloud.google.com/go/storage"
	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"
	"google.golang.org/api/option"

	"stampflow-backend-go/internal/config"
)

// Clients bundles the Firebase Admin SDK clients the application depends on.
// It is constructed once at process start and passed by reference to every
// component that needs the data store, the auth verifier or the image bucket;
// there is no package-level client state.
type Clients struct {
	Firestore *firestore.Client
	Auth      *auth.Client
	Bucket    *gcs.BucketHandle
}

// InitFirebase initializes the Firebase Admin SDK and returns the Firestore,
// Auth and Storage clients. Credentials come from a service account file
// path, a base64-encoded service account JSON, or Application Default
// Credentials, in that order of preference.
func InitFirebase(ctx context.Context, appConfig *config.Config) (*Clients, error) {
	if appConfig == nil {
		return nil, fmt.Errorf("InitFirebase: appConfig cannot be nil")
	}

	var opts []option.ClientOption
	switch {
	case appConfig.GoogleApplicationCredentials != "":
		opts = append(opts, option.WithCredentialsFile(appConfig.GoogleApplicationCredentials))
	case appConfig.FirebaseServiceAccountJSONBase64 != "":
		decoded, err := base64.StdEncoding.DecodeString(appConfig.FirebaseServiceAccountJSONBase64)
		if err != nil {
			return nil, fmt.Errorf("failed to decode FIREBASE_SERVICE_ACCOUNT_JSON_BASE64: %w", err)
		}
		opts = append(opts, option.WithCredentialsJSON(decoded))
	default:
		// Rely on Application Default Credentials (GCE, GKE, Cloud Run).
	}

	fbConfig := &firebase.Config{
		ProjectID:     appConfig.FirebaseProjectID,
		StorageBucket: appConfig.StorageBucket,
	}

	app, err := firebase.NewApp(ctx, fbConfig, opts...)
	if err != nil {
		return nil, fmt.Errorf("firebase.NewApp: %w", err)
	}

	fsClient, err := app.Firestore(ctx)
	if err != nil {
		return nil, fmt.Errorf("app.Firestore: %w", err)
	}

	authClient, err := app.Auth(ctx)
	if err != nil {
		fsClient.Close()
		return nil, fmt.Errorf("app.Auth: %w", err)
	}

	storageClient, err := app.Storage(ctx)
	if err != nil {
		fsClient.Close()
		return nil, fmt.Errorf("app.Storage: %w", err)
	}
	bucket, err := storageClient.DefaultBucket()
	if err != nil {
		fsClient.Close()
		return nil, fmt.Errorf("storage.DefaultBucket: %w", err)
	}

	return &Clients{
		Firestore: fsClient,
		Auth:      authClient,
		Bucket:    bucket,
	}, nil
}

// Close releases the underlying Firestore connection.
func (c *Clients) Close() error {
	if c == nil || c.Firestore == nil {
		return nil
	}
	return c.Firestore.Close()
}
