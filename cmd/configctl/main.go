package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"server/internal/adapter/repo"
	"server/internal/domain"
)

// configctl reads and writes the runtime keys in system_config, so operators
// can retune set size, billing limit and generation targets without a deploy.
func main() {
	var (
		getFlag string
		setFlag string
		valFlag string
	)
	flag.StringVar(&getFlag, "get", "", "config key to read")
	flag.StringVar(&setFlag, "set", "", "config key to write (requires -value)")
	flag.StringVar(&valFlag, "value", "", "value for -set")
	flag.Parse()

	if (getFlag == "") == (setFlag == "") {
		fmt.Fprintln(os.Stderr, "exactly one of -get or -set is required")
		fmt.Fprintf(os.Stderr, "known keys: %s, %s, %s, %s\n",
			domain.ConfigQuestionSetSize, domain.ConfigBillingTimeLimit,
			domain.ConfigMinQuestions, domain.ConfigTargetQuestions)
		os.Exit(1)
	}
	if setFlag != "" && strings.TrimSpace(valFlag) == "" {
		fmt.Fprintln(os.Stderr, "-set requires -value")
		os.Exit(1)
	}

	dbURL := strings.TrimSpace(os.Getenv("DATABASE_URL"))
	if dbURL == "" {
		fmt.Fprintln(os.Stderr, "DATABASE_URL is required")
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, dbURL)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create pool: %v\n", err)
		os.Exit(1)
	}
	defer pool.Close()

	store := repo.NewConfigRepository(pool)

	if getFlag != "" {
		value, err := store.Get(ctx, getFlag)
		if err == domain.ErrNotFound {
			fallback, ok := domain.DefaultConfigInt[getFlag]
			if !ok {
				fmt.Fprintf(os.Stderr, "key %q is not set\n", getFlag)
				os.Exit(1)
			}
			fmt.Printf("%s=%d (default)\n", getFlag, fallback)
			return
		}
		if err != nil {
			fmt.Fprintf(os.Stderr, "read %q: %v\n", getFlag, err)
			os.Exit(1)
		}
		fmt.Printf("%s=%s\n", getFlag, value)
		return
	}

	if err := store.Set(ctx, setFlag, strings.TrimSpace(valFlag)); err != nil {
		fmt.Fprintf(os.Stderr, "write %q: %v\n", setFlag, err)
		os.Exit(1)
	}
	fmt.Printf("%s updated\n", setFlag)
}
