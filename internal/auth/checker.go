package auth

import "context"

var (
	_ Checker = (*LoginChecker)(nil)
	_ Checker = (*LoginTestChecker)(nil)
	_ Checker = CheckerFunc(nil)
)

// Checker resolves a bearer token into the user it was issued for.
type Checker interface {
	IsLogged(ctx context.Context, token string) (userID string, logged bool, err error)
}

// CheckerFunc adapts a plain function to a Checker.
type CheckerFunc func(ctx context.Context, token string) (string, bool, error)

func (f CheckerFunc) IsLogged(ctx context.Context, token string) (string, bool, error) {
	return f(ctx, token)
}
