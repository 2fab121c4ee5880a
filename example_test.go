package credkit_test

import (
	"context"
	"errors"
	"fmt"

	"github.com/MrEthical07/credkit"
	"github.com/MrEthical07/credkit/token"
)

func Example() {
	cfg := credkit.DefaultSigningConfig()
	cfg.Secret = []byte("example-secret-example-secret-32")
	cfg.HashCost = 1
	cfg.Password.Memory = 8 * 1024
	cfg.Password.Parallelism = 1

	engine, err := credkit.New().WithConfig(cfg).Build()
	if err != nil {
		panic(err)
	}
	defer engine.Close()

	ctx := context.Background()
	hash, err := engine.HashPassword(ctx, "MyStrong@123")
	if err != nil {
		panic(err)
	}
	ok, _ := engine.ComparePassword(ctx, "MyStrong@123", hash)
	fmt.Println("password matches:", ok)

	claims, _ := token.NewClaims("user-42", map[string]any{"role": "admin"})
	tok, err := engine.GenerateToken(claims)
	if err != nil {
		panic(err)
	}

	verified, err := engine.Authenticate(ctx, "Bearer "+tok)
	if err != nil {
		panic(err)
	}
	fmt.Println("subject:", verified.Subject, "role:", verified.Extra["role"])

	_, err = engine.Authenticate(ctx, "Bearer "+tok+"x")
	fmt.Println("tampered:", errors.Is(credkit.PublicError(err), credkit.ErrUnauthenticated))

	// Output:
	// password matches: true
	// subject: user-42 role: admin
	// tampered: true
}
