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
	"github.com/suspensionlab/seedtools/internal/tools/seedproducts"
)

var CLI struct {
	backend.Flags
	Logging logging.Flags `embed:""`

	Delete     bool   `help:"Delete every product and the catalog metadata instead of seeding."`
	File       string `help:"Catalog to load: a .json or .xlsx file, local or gs:// URL." default:"assets/data/suspension_products.json"`
	BatchSize  int    `help:"Operations per commit (at most 500)." default:"500"`
	DryRun     bool   `help:"Print database writes to log and exit without writing." xor:"Force,DryRun"`
	Force      bool   `help:"Delete without asking for confirmation." xor:"Force,DryRun"`
	NoProgress bool   `help:"Do not display a progress bar."`
	Export     string `help:"Also write the seeded products to this xlsx file or gs:// URL."`
}

func run(ctx context.Context) error {
	s, err := CLI.Open(ctx)
	if err != nil {
		return err
	}
	defer s.Close()

	tctx := seedproducts.NewContext(ctx)
	tctx.Store = s
	tctx.DryRun = CLI.DryRun
	tctx.Force = CLI.Force
	tctx.NoProgress = CLI.NoProgress
	tctx.File = CLI.File
	tctx.BatchSize = CLI.BatchSize
	tctx.Export = CLI.Export

	if CLI.Delete {
		return seedproducts.DeleteProducts(tctx)
	}
	return seedproducts.SeedProducts(tctx)
}

func main() {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("Warning: could not load .env file: %v", err)
	}

	kctx := kong.Parse(&CLI,
		kong.Name("seed-products"),
		kong.Description("Load or purge the versioned suspension product catalog."),
		backend.Vars,
	)
	CLI.Logging.Configure(nil)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	err := run(ctx)
	kctx.FatalIfErrorf(err)
}
