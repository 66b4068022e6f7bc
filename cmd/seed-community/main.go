package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/alecthomas/kong"
	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
	"github.com/suspensionlab/seedtools/internal/backend"
	"github.com/suspensionlab/seedtools/internal/logging"
	"github.com/suspensionlab/seedtools/internal/tools/seedcommunity"
)

var CLI struct {
	backend.Flags
	Logging logging.Flags `embed:""`

	Delete     bool   `help:"Delete every community setting instead of seeding."`
	Count      int    `help:"Number of settings to generate." default:"50"`
	Seed       int64  `help:"Random seed. Negative values seed from the clock." default:"-1"`
	BatchSize  int    `help:"Operations per commit (at most 500)." default:"500"`
	DryRun     bool   `help:"Print database writes to log and exit without writing." xor:"Force,DryRun"`
	Force      bool   `help:"Delete without asking for confirmation." xor:"Force,DryRun"`
	NoProgress bool   `help:"Do not display a progress bar."`
	Export     string `help:"Also write the generated settings to this xlsx file or gs:// URL."`
}

func run(ctx context.Context) error {
	s, err := CLI.Open(ctx)
	if err != nil {
		return err
	}
	defer s.Close()

	tctx := seedcommunity.NewContext(ctx)
	tctx.Store = s
	tctx.DryRun = CLI.DryRun
	tctx.Force = CLI.Force
	tctx.NoProgress = CLI.NoProgress
	tctx.Count = CLI.Count
	tctx.Seed = CLI.Seed
	tctx.BatchSize = CLI.BatchSize
	tctx.Export = CLI.Export

	if CLI.Delete {
		return seedcommunity.DeleteCommunity(tctx)
	}
	return seedcommunity.SeedCommunity(tctx)
}

func main() {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("Warning: could not load .env file: %v", err)
	}

	kctx := kong.Parse(&CLI,
		kong.Name("seed-community"),
		kong.Description("Populate or purge randomized community suspension settings."),
		backend.Vars,
	)
	CLI.Logging.Configure(nil)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	err := run(ctx)
	kctx.FatalIfErrorf(err)
}
