package identity

import (
	"context"
	"errors"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider"
	"github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider/types"
	"go.uber.org/zap"

	"catalog-backend/application/ports"
	apperrors "catalog-backend/pkg/errors"
)

// CognitoProvider implements ports.IdentityProvider on a Cognito user pool.
// The authentication protocol lives entirely in the provider; this wrapper
// maps calls and errors.
type CognitoProvider struct {
	client     *cognitoidentityprovider.Client
	userPoolID string
	clientID   string
	logger     *zap.Logger
}

// NewCognitoProvider creates a Cognito-backed identity provider.
func NewCognitoProvider(client *cognitoidentityprovider.Client, userPoolID, clientID string, logger *zap.Logger) *CognitoProvider {
	return &CognitoProvider{
		client:     client,
		userPoolID: userPoolID,
		clientID:   clientID,
		logger:     logger,
	}
}

// Register signs up a new user. Cognito sends the confirmation code mail.
func (p *CognitoProvider) Register(ctx context.Context, email, password string) (string, error) {
	out, err := p.client.SignUp(ctx, &cognitoidentityprovider.SignUpInput{
		ClientId: aws.String(p.clientID),
		Username: aws.String(email),
		Password: aws.String(password),
		UserAttributes: []types.AttributeType{
			{Name: aws.String("email"), Value: aws.String(email)},
		},
	})
	if err != nil {
		var exists *types.UsernameExistsException
		if errors.As(err, &exists) {
			return "", apperrors.NewConflictError("a user with that email already exists")
		}
		var invalid *types.InvalidPasswordException
		if errors.As(err, &invalid) {
			return "", apperrors.NewValidationError("password does not meet the pool policy")
		}
		return "", apperrors.NewExternalError("cognito", err)
	}
	p.logger.Info("user registered", zap.String("email", email))
	return aws.ToString(out.UserSub), nil
}

// Confirm completes sign-up with the emailed confirmation code.
func (p *CognitoProvider) Confirm(ctx context.Context, email, code string) error {
	_, err := p.client.ConfirmSignUp(ctx, &cognitoidentityprovider.ConfirmSignUpInput{
		ClientId:         aws.String(p.clientID),
		Username:         aws.String(email),
		ConfirmationCode: aws.String(code),
	})
	if err != nil {
		var mismatch *types.CodeMismatchException
		if errors.As(err, &mismatch) {
			return apperrors.NewValidationError("confirmation code does not match")
		}
		var expired *types.ExpiredCodeException
		if errors.As(err, &expired) {
			return apperrors.NewValidationError("confirmation code has expired")
		}
		return apperrors.NewExternalError("cognito", err)
	}
	return nil
}

// Login exchanges credentials for tokens.
func (p *CognitoProvider) Login(ctx context.Context, email, password string) (*ports.Credentials, error) {
	out, err := p.client.InitiateAuth(ctx, &cognitoidentityprovider.InitiateAuthInput{
		ClientId: aws.String(p.clientID),
		AuthFlow: types.AuthFlowTypeUserPasswordAuth,
		AuthParameters: map[string]string{
			"USERNAME": email,
			"PASSWORD": password,
		},
	})
	if err != nil {
		var notAuth *types.NotAuthorizedException
		if errors.As(err, &notAuth) {
			return nil, apperrors.NewUnauthorizedError("incorrect email or password")
		}
		var notConfirmed *types.UserNotConfirmedException
		if errors.As(err, &notConfirmed) {
			return nil, apperrors.NewForbiddenError("account is not confirmed yet")
		}
		return nil, apperrors.NewExternalError("cognito", err)
	}
	result := out.AuthenticationResult
	if result == nil {
		return nil, apperrors.NewExternalError("cognito", errors.New("no authentication result returned"))
	}
	return &ports.Credentials{
		AccessToken:  aws.ToString(result.AccessToken),
		IDToken:      aws.ToString(result.IdToken),
		RefreshToken: aws.ToString(result.RefreshToken),
		ExpiresIn:    result.ExpiresIn,
	}, nil
}

// ForgotPassword starts the reset flow; Cognito mails the code.
func (p *CognitoProvider) ForgotPassword(ctx context.Context, email string) error {
	_, err := p.client.ForgotPassword(ctx, &cognitoidentityprovider.ForgotPasswordInput{
		ClientId: aws.String(p.clientID),
		Username: aws.String(email),
	})
	if err != nil {
		return apperrors.NewExternalError("cognito", err)
	}
	return nil
}

// ConfirmForgotPassword completes the reset flow.
func (p *CognitoProvider) ConfirmForgotPassword(ctx context.Context, email, code, newPassword string) error {
	_, err := p.client.ConfirmForgotPassword(ctx, &cognitoidentityprovider.ConfirmForgotPasswordInput{
		ClientId:         aws.String(p.clientID),
		Username:         aws.String(email),
		ConfirmationCode: aws.String(code),
		Password:         aws.String(newPassword),
	})
	if err != nil {
		var mismatch *types.CodeMismatchException
		if errors.As(err, &mismatch) {
			return apperrors.NewValidationError("confirmation code does not match")
		}
		return apperrors.NewExternalError("cognito", err)
	}
	return nil
}

// AddToGroup assigns a role group to a user. Admin-only surface.
func (p *CognitoProvider) AddToGroup(ctx context.Context, email, group string) error {
	_, err := p.client.AdminAddUserToGroup(ctx, &cognitoidentityprovider.AdminAddUserToGroupInput{
		UserPoolId: aws.String(p.userPoolID),
		Username:   aws.String(email),
		GroupName:  aws.String(group),
	})
	if err != nil {
		var notFound *types.UserNotFoundException
		if errors.As(err, &notFound) {
			return apperrors.NewNotFoundError("user")
		}
		return apperrors.NewExternalError("cognito", err)
	}
	return nil
}
