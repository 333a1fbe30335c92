package awsx

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	sdkaws "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
)

// SupabaseSecretName is the Secrets Manager entry holding the managed backend
// credentials as one JSON object.
const SupabaseSecretName = "storefront/SUPABASE"

// SupabaseCredentials is the decoded SupabaseSecretName entry. Keys absent
// from the secret stay empty.
type SupabaseCredentials struct {
	AnonKey       string `json:"SUPABASE_ANON_KEY"`
	JWTSecret     string `json:"SUPABASE_JWT_SECRET"`
	SessionSecret string `json:"SESSION_SECRET"`
}

type secretsAPI interface {
	GetSecretValue(ctx context.Context, in *secretsmanager.GetSecretValueInput, optFns ...func(*secretsmanager.Options)) (*secretsmanager.GetSecretValueOutput, error)
}

// SecretsClient reads storefront credentials from Secrets Manager. Decoded
// credentials are cached for the process lifetime.
type SecretsClient struct {
	api      secretsAPI
	mu       sync.Mutex
	supabase *SupabaseCredentials
}

func NewSecretsClient(cfg sdkaws.Config) *SecretsClient {
	return &SecretsClient{api: secretsmanager.NewFromConfig(cfg)}
}

// SupabaseCredentials fetches and decodes SupabaseSecretName.
func (s *SecretsClient) SupabaseCredentials(ctx context.Context) (*SupabaseCredentials, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.supabase != nil {
		creds := *s.supabase
		return &creds, nil
	}

	name := SupabaseSecretName
	out, err := s.api.GetSecretValue(ctx, &secretsmanager.GetSecretValueInput{SecretId: &name})
	if err != nil {
		return nil, fmt.Errorf("failed to get secret %s: %w", name, err)
	}
	if out.SecretString == nil {
		return nil, fmt.Errorf("secret %s has no string value", name)
	}

	var creds SupabaseCredentials
	if err := json.Unmarshal([]byte(*out.SecretString), &creds); err != nil {
		return nil, fmt.Errorf("decode %s: %w", name, err)
	}
	s.supabase = &creds
	result := creds
	return &result, nil
}
