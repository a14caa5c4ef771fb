package security

import (
	"context"
	"fmt"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"
	"google.golang.org/api/option"
)

// Identity is what the hosted auth provider resolves from a bearer token.
type Identity struct {
	Email string
	Role  string
}

// FirebaseVerifier validates Firebase ID tokens when the deployment uses
// Firebase Auth as the identity provider instead of locally issued JWTs.
// The role comes from a custom claim set by the admin tooling; accounts
// without one are customers.
type FirebaseVerifier struct {
	client *auth.Client
}

func NewFirebaseVerifier(ctx context.Context, projectID, credentialsFile string) (*FirebaseVerifier, error) {
	opts := []option.ClientOption{}
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}
	app, err := firebase.NewApp(ctx, &firebase.Config{ProjectID: projectID}, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize firebase app: %w", err)
	}
	client, err := app.Auth(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize firebase auth client: %w", err)
	}
	return &FirebaseVerifier{client: client}, nil
}

func (v *FirebaseVerifier) Verify(ctx context.Context, idToken string) (*Identity, error) {
	token, err := v.client.VerifyIDToken(ctx, idToken)
	if err != nil {
		return nil, ErrInvalidToken
	}

	identity := &Identity{Role: "CUSTOMER"}
	if email, ok := token.Claims["email"].(string); ok {
		identity.Email = email
	}
	if role, ok := token.Claims["role"].(string); ok && role != "" {
		identity.Role = role
	}
	if identity.Email == "" {
		return nil, fmt.Errorf("firebase token has no email claim: %w", ErrInvalidToken)
	}
	return identity, nil
}
