package aws

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/service/sts"
)

// CallerIdentityAPI is the slice of the STS API used to resolve the
// account being audited.
type CallerIdentityAPI interface {
	GetCallerIdentity(ctx context.Context, params *sts.GetCallerIdentityInput, optFns ...func(*sts.Options)) (*sts.GetCallerIdentityOutput, error)
}

// GetAccountID resolves the account id of the current credentials.
func GetAccountID(ctx context.Context, client CallerIdentityAPI) (string, error) {
	out, err := client.GetCallerIdentity(ctx, &sts.GetCallerIdentityInput{})
	if err != nil {
		return "", fmt.Errorf("error resolving caller identity: %w", err)
	}
	if out.Account == nil {
		return "", fmt.Errorf("caller identity returned no account id")
	}

	return *out.Account, nil
}
