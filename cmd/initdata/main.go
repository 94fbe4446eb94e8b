// Command initdata seeds an account with fake notes and categories.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"time"

	"inkline/internal/remote"
	"inkline/internal/services/categories"
	"inkline/internal/services/notes"

	"github.com/brianvoe/gofakeit/v6"
)

var (
	baseURL  = flag.String("url", env("API_BASE_URL", "http://localhost:8080"), "Server base URL")
	email    = flag.String("email", env("EMAIL", "demo@example.com"), "User e-mail")
	pass     = flag.String("pass", env("PASSWORD", "Password123"), "User password")
	nNotes   = flag.Int("n", envInt("COUNT", 60), "How many notes to create")
	nCats    = flag.Int("categories", envInt("CATEGORIES", 4), "How many categories to create")
	archived = flag.Int("archive-every", envInt("ARCHIVE_EVERY", 7), "Archive every n-th note (0 disables)")
	shared   = flag.Int("share-every", envInt("SHARE_EVERY", 5), "Share every n-th note (0 disables)")
)

func env(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil && i >= 0 {
			return i
		}
	}
	return def
}

// token holds the bearer issued at sign-in.
type token string

func (t *token) Token() string { return string(*t) }

func main() {
	flag.Parse()
	gofakeit.Seed(time.Now().UnixNano())

	fmt.Printf("Init account %s (notes=%d) on %s\n", *email, *nNotes, *baseURL)

	ctx := context.Background()
	var tok token
	client := remote.New(*baseURL, &tok)

	if err := ensureUser(ctx, client, &tok); err != nil {
		fatal(err)
	}
	cats, err := createCategories(ctx, client, *nCats)
	if err != nil {
		fatal(err)
	}
	if err := createNotes(ctx, client, cats, *nNotes); err != nil {
		fatal(err)
	}

	fmt.Println("✔ done")
}

func fatal(err error) {
	fmt.Fprintln(os.Stderr, "FATAL:", err)
	os.Exit(1)
}

// ensureUser signs up, or signs in when the account already exists.
func ensureUser(ctx context.Context, c *remote.Client, tok *token) error {
	if res, err := c.SignUp(ctx, *email, *pass); err == nil {
		*tok = token(res.Token)
		fmt.Println("• signed-up new user")
		return nil
	}

	res, err := c.SignIn(ctx, *email, *pass)
	if err != nil {
		return fmt.Errorf("sign-in failed: %w", err)
	}
	*tok = token(res.Token)
	fmt.Println("• signed-in existing user")
	return nil
}

func createCategories(ctx context.Context, c *remote.Client, total int) ([]*categories.Category, error) {
	out := make([]*categories.Category, 0, total)
	for range total {
		cat, err := c.CreateCategory(ctx, gofakeit.HipsterWord())
		if err != nil {
			return nil, fmt.Errorf("create category: %w", err)
		}
		out = append(out, cat)
	}
	if total > 0 {
		fmt.Printf("• %d categories\n", len(out))
	}
	return out, nil
}

func createNotes(ctx context.Context, c *remote.Client, cats []*categories.Category, total int) error {
	var toArchive []string

	for i := 1; i <= total; i++ {
		n, err := c.CreateNote(ctx, gofakeit.Sentence(3), gofakeit.Paragraph(1, 3, 40, " "))
		if errors.Is(err, remote.ErrConflict) {
			fmt.Printf("  note limit reached after %d notes\n", i-1)
			break
		}
		if err != nil {
			return fmt.Errorf("create note %d: %w", i, err)
		}
		if err := decorate(ctx, c, n, cats, i); err != nil {
			return err
		}
		if *archived > 0 && i%*archived == 0 {
			toArchive = append(toArchive, n.ID.Hex())
		}

		if i%20 == 0 || i == total {
			fmt.Printf("  … %d/%d\n", i, total)
		}
	}

	if len(toArchive) > 0 {
		moved, err := c.Archive(ctx, toArchive)
		if err != nil {
			return fmt.Errorf("archive notes: %w", err)
		}
		fmt.Printf("• archived %d notes\n", len(moved))
	}
	return nil
}

// decorate assigns a category to most notes and shares some of them.
func decorate(ctx context.Context, c *remote.Client, n *notes.Note, cats []*categories.Category, i int) error {
	if len(cats) > 0 && gofakeit.Number(0, 3) > 0 {
		id := cats[gofakeit.Number(0, len(cats)-1)].ID.Hex()
		if _, err := c.SetCategory(ctx, n.ID.Hex(), &id); err != nil {
			return fmt.Errorf("set category: %w", err)
		}
	}
	if *shared > 0 && i%*shared == 0 {
		if _, err := c.SetSharing(ctx, n.ID.Hex(), true); err != nil {
			return fmt.Errorf("share note: %w", err)
		}
	}
	return nil
}
