package connection

import (
	"context"
	"fmt"
	"os"

	"cloud.google.com/go/firestore"
	"cloud.google.com/go/storage"
	firebase "firebase.google.com/go"
	"github.com/joho/godotenv"
	"google.golang.org/api/option"
)

// FBConnection initializes the Firebase app and returns the Firestore client
// together with the default Storage bucket used for verification photos.
func FBConnection() (*firestore.Client, *storage.BucketHandle, string, error) {
	// Load .env file
	err := godotenv.Load()
	if err != nil {
		fmt.Println("Warning: No .env file found or failed to load") // Use only in dev
	}

	serviceAccountKeyPath := os.Getenv("GOOGLE_APPLICATION_CREDENTIALS_1")
	if serviceAccountKeyPath == "" {
		return nil, nil, "", fmt.Errorf("environment variable GOOGLE_APPLICATION_CREDENTIALS_1 is not set")
	}

	bucketName := os.Getenv("STORAGE_BUCKET")
	if bucketName == "" {
		return nil, nil, "", fmt.Errorf("environment variable STORAGE_BUCKET is not set")
	}

	ctx := context.Background()

	config := &firebase.Config{StorageBucket: bucketName}
	app, err := firebase.NewApp(ctx, config, option.WithCredentialsFile(serviceAccountKeyPath))
	if err != nil {
		return nil, nil, "", fmt.Errorf("error initializing app: %w", err)
	}

	client, err := app.Firestore(ctx)
	if err != nil {
		return nil, nil, "", fmt.Errorf("error getting Firestore client: %w", err)
	}

	storageClient, err := app.Storage(ctx)
	if err != nil {
		return nil, nil, "", fmt.Errorf("error getting Storage client: %w", err)
	}

	bucket, err := storageClient.DefaultBucket()
	if err != nil {
		return nil, nil, "", fmt.Errorf("error getting default bucket: %w", err)
	}

	fmt.Println("Firebase connection successful")
	return client, bucket, bucketName, nil
}
